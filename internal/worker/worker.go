package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/clipwise/backend/internal/clips"
	"github.com/clipwise/backend/internal/transcript"
	"github.com/clipwise/backend/pkg/queue"
)

// ClipProcessor processes clip pipeline jobs: run the full pipeline for one
// video URL.
type ClipProcessor struct {
	service *clips.Service
	queue   *queue.Queue
	logger  *zap.Logger
}

// NewClipProcessor creates a clip pipeline processor.
func NewClipProcessor(service *clips.Service, q *queue.Queue, logger *zap.Logger) *ClipProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClipProcessor{service: service, queue: q, logger: logger}
}

// Process executes one clip pipeline job. Permanent failures (bad URL, no
// transcript) are not worth retrying and return nil after logging.
func (p *ClipProcessor) Process(ctx context.Context, job *queue.Job) error {
	if job.Type != queue.JobTypeClipPipeline {
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
	var payload queue.ClipPipelinePayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	result, err := p.service.ProcessVideo(ctx, payload.VideoURL)
	if err != nil {
		if errors.Is(err, transcript.ErrInvalidURL) || errors.Is(err, clips.ErrNoTranscript) {
			p.logger.Warn("dropping unprocessable job",
				zap.String("job_id", job.ID),
				zap.String("video_url", payload.VideoURL),
				zap.Error(err))
			return nil
		}
		return err
	}

	p.logger.Info("clip pipeline job completed",
		zap.String("job_id", job.ID),
		zap.String("video_id", result.VideoID),
		zap.Int("clips", len(result.Clips)),
		zap.Int("failures", len(result.Failures)),
		zap.Bool("from_cache", result.FromCache))
	return nil
}

// Run starts the worker loop: dequeue, process, retry on error.
func (p *ClipProcessor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("clip worker stopping")
			return
		default:
		}

		job, _, err := p.queue.Dequeue(ctx)
		if err != nil {
			p.logger.Warn("dequeue error", zap.Error(err))
			time.Sleep(queue.RetryBackoff)
			continue
		}
		if job == nil {
			continue
		}

		p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Error(err))
			if reErr := p.queue.Retry(ctx, job); reErr != nil {
				p.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			time.Sleep(queue.RetryBackoff)
			continue
		}
	}
}
