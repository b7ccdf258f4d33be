package clips

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/clipwise/backend/internal/models"
	"github.com/clipwise/backend/internal/scoring"
	"github.com/clipwise/backend/internal/transcript"
	"github.com/clipwise/backend/pkg/storage"
	"github.com/clipwise/backend/pkg/utils"
)

// TranscriptProvider resolves a video URL into a normalized transcript.
type TranscriptProvider interface {
	Get(ctx context.Context, videoURL string) (*models.Transcript, error)
}

// TextAnalyzer produces sentiment and key phrases for transcript text.
// Implementations degrade internally and never fail the pipeline.
type TextAnalyzer interface {
	Sentiment(ctx context.Context, text string) models.SentimentSignal
	KeyPhrases(ctx context.Context, text string) []string
}

// ClipAssembler turns ranked suggestions into local clip files.
type ClipAssembler interface {
	Assemble(ctx context.Context, sourceURL, videoID string, suggestions []models.ClipSuggestion) ([]models.ClipArtifact, []models.StageFailure, error)
	RenderPreview(ctx context.Context, clipPath string, previewSeconds float64) (string, error)
}

// Uploader stores clip files and signs download URLs.
type Uploader interface {
	UploadFile(ctx context.Context, localPath, key string) error
	GeneratePresignedDownloadURL(ctx context.Context, key string, expires time.Duration) (string, error)
	SignedURLExpire() time.Duration
	DeleteObject(ctx context.Context, key string) error
}

// MetadataStore persists clip records with a TTL.
type MetadataStore interface {
	Put(ctx context.Context, rec models.StoredClipRecord) error
	Get(ctx context.Context, clipID, videoID string) (*models.StoredClipRecord, error)
	QueryByVideo(ctx context.Context, videoID string) ([]models.StoredClipRecord, error)
	Delete(ctx context.Context, clipID, videoID string) error
}

// Locker guards against concurrent runs for the same video. Best effort:
// clip IDs are deterministic, so a duplicate run rewrites the same keys.
type Locker interface {
	TryLock(ctx context.Context, key string, ttlSeconds int) (bool, error)
	Unlock(ctx context.Context, key string) error
}

const processingLockTTLSec = 15 * 60

// Options carries the tunables for one Service.
type Options struct {
	MaxClipDuration  float64
	MaxClipsPerVideo int
	ClipTTL          time.Duration
	PreviewsEnabled  bool
	PreviewSeconds   float64
}

// Service runs the clip pipeline end to end.
type Service struct {
	transcripts TranscriptProvider
	analyzer    TextAnalyzer
	assembler   ClipAssembler
	uploads     Uploader
	store       MetadataStore
	locker      Locker // may be nil
	opts        Options
	logger      *zap.Logger
}

// NewService wires the pipeline. locker may be nil to disable run locking.
func NewService(
	transcripts TranscriptProvider,
	analyzer TextAnalyzer,
	assembler ClipAssembler,
	uploads Uploader,
	store MetadataStore,
	locker Locker,
	opts Options,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxClipDuration <= 0 {
		opts.MaxClipDuration = 30.0
	}
	if opts.MaxClipsPerVideo <= 0 {
		opts.MaxClipsPerVideo = 10
	}
	if opts.ClipTTL <= 0 {
		opts.ClipTTL = 24 * time.Hour
	}
	if opts.PreviewSeconds <= 0 {
		opts.PreviewSeconds = 5.0
	}
	return &Service{
		transcripts: transcripts,
		analyzer:    analyzer,
		assembler:   assembler,
		uploads:     uploads,
		store:       store,
		locker:      locker,
		opts:        opts,
		logger:      logger,
	}
}

// ProcessVideo runs transcript acquisition, interest scoring, extraction,
// upload and persistence for one video URL. Existing live records for the
// video short-circuit the whole run.
func (s *Service) ProcessVideo(ctx context.Context, videoURL string) (*models.PipelineResult, error) {
	if !transcript.ValidateURL(videoURL) {
		return nil, fmt.Errorf("%w: %s", transcript.ErrInvalidURL, videoURL)
	}
	videoID, err := transcript.ExtractVideoID(videoURL)
	if err != nil {
		return nil, err
	}

	cached, err := s.store.QueryByVideo(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("cache lookup for %s: %w", videoID, err)
	}
	if len(cached) > 0 {
		s.logger.Info("Serving clips from cache", zap.String("video_id", videoID), zap.Int("clips", len(cached)))
		return &models.PipelineResult{
			VideoID:   videoID,
			Clips:     summaries(cached),
			FromCache: true,
			Message:   "clips served from cache",
		}, nil
	}

	if s.locker != nil {
		lockKey := "lock:clips:" + videoID
		ok, err := s.locker.TryLock(ctx, lockKey, processingLockTTLSec)
		switch {
		case err != nil:
			s.logger.Warn("Processing lock unavailable, continuing", zap.String("video_id", videoID), zap.Error(err))
		case !ok:
			// Another run owns this video; its records will land in the
			// cache gate, so report in-progress instead of duplicating the
			// download and cuts.
			s.logger.Info("Processing already in flight", zap.String("video_id", videoID))
			return &models.PipelineResult{
				VideoID: videoID,
				Clips:   []models.ClipSummary{},
				Message: "clip processing already in progress",
			}, nil
		default:
			defer func() {
				if err := s.locker.Unlock(context.WithoutCancel(ctx), lockKey); err != nil {
					s.logger.Warn("Processing lock release failed", zap.String("video_id", videoID), zap.Error(err))
				}
			}()
		}
	}

	tr, err := s.transcripts.Get(ctx, videoURL)
	if err != nil {
		switch {
		case errors.Is(err, transcript.ErrInvalidURL):
			return nil, err
		case errors.Is(err, transcript.ErrUnavailable):
			// The video has no captions; retrying will not help.
			return nil, fmt.Errorf("%w for %s: %v", ErrNoTranscript, videoID, err)
		default:
			// Transport failure; the source may come back.
			return nil, &SourceUnavailableError{VideoID: videoID, Err: err}
		}
	}

	fullText := tr.FullText()
	sentiment := s.analyzer.Sentiment(ctx, fullText)
	keyPhrases := s.analyzer.KeyPhrases(ctx, fullText)

	candidates := scoring.ScoreSegments(tr.Segments, sentiment, keyPhrases, s.opts.MaxClipDuration)
	ranked := scoring.Rank(candidates, s.opts.MaxClipDuration, s.opts.MaxClipsPerVideo)
	suggestions := scoring.Suggestions(videoID, ranked)
	if len(suggestions) == 0 {
		s.logger.Info("No interesting segments", zap.String("video_id", videoID), zap.Int("segments", len(tr.Segments)))
		return &models.PipelineResult{
			VideoID: videoID,
			Clips:   []models.ClipSummary{},
			Message: "no interesting segments found",
		}, nil
	}

	artifacts, failures, err := s.assembler.Assemble(ctx, videoURL, videoID, suggestions)
	if err != nil {
		return nil, &SourceUnavailableError{VideoID: videoID, Err: err}
	}

	now := time.Now().UTC()
	records := make([]models.StoredClipRecord, 0, len(artifacts))
	for _, artifact := range artifacts {
		rec, err := s.publish(ctx, artifact, now)
		if err != nil {
			stage := StageUpload
			var persistErr *persistError
			if errors.As(err, &persistErr) {
				stage = StagePersist
			}
			s.logger.Warn("Clip publish failed",
				zap.String("clip_id", artifact.ClipID),
				zap.String("stage", stage),
				zap.Error(err))
			failures = append(failures, models.StageFailure{
				ClipID: artifact.ClipID,
				Stage:  stage,
				Error:  err.Error(),
			})
			continue
		}
		records = append(records, *rec)
	}

	s.logger.Info("Pipeline finished",
		zap.String("video_id", videoID),
		zap.Int("clips", len(records)),
		zap.Int("failures", len(failures)))

	return &models.PipelineResult{
		VideoID:  videoID,
		Clips:    summaries(records),
		Failures: failures,
		Message:  fmt.Sprintf("generated %d clips", len(records)),
	}, nil
}

// persistError marks a publish failure that happened after upload.
type persistError struct{ err error }

func (e *persistError) Error() string { return e.err.Error() }
func (e *persistError) Unwrap() error { return e.err }

// publish uploads one artifact, signs its URL, optionally renders and
// uploads a preview, persists the record and removes local files.
func (s *Service) publish(ctx context.Context, artifact models.ClipArtifact, now time.Time) (*models.StoredClipRecord, error) {
	defer os.Remove(artifact.FilePath)

	key := storage.ClipKey(artifact.ClipID, artifact.Filename)
	if err := s.uploads.UploadFile(ctx, artifact.FilePath, key); err != nil {
		return nil, fmt.Errorf("upload %s: %w", artifact.ClipID, err)
	}
	signedURL, err := s.uploads.GeneratePresignedDownloadURL(ctx, key, s.uploads.SignedURLExpire())
	if err != nil {
		return nil, fmt.Errorf("sign url for %s: %w", artifact.ClipID, err)
	}

	if s.opts.PreviewsEnabled {
		s.uploadPreview(ctx, artifact)
	}

	rec := models.StoredClipRecord{
		ClipID:          artifact.ClipID,
		VideoID:         artifact.VideoID,
		S3Key:           key,
		SignedURL:       signedURL,
		StartTime:       artifact.StartTime,
		EndTime:         artifact.EndTime,
		Duration:        artifact.Duration,
		FileSize:        artifact.FileSize,
		FileSizeDisplay: utils.FormatFileSize(artifact.FileSize),
		Resolution:      artifact.Resolution,
		InterestScore:   artifact.InterestScore,
		InterestReasons: artifact.InterestReasons,
		TranscriptText:  artifact.TranscriptText,
		WordCount:       artifact.WordCount,
		CharCount:       artifact.CharCount,
		CreatedAt:       now,
		ExpiresAt:       now.Add(s.opts.ClipTTL),
	}
	if err := s.store.Put(ctx, rec); err != nil {
		return nil, &persistError{err: fmt.Errorf("persist %s: %w", artifact.ClipID, err)}
	}
	return &rec, nil
}

// uploadPreview is best effort; a missing preview never fails the clip.
func (s *Service) uploadPreview(ctx context.Context, artifact models.ClipArtifact) {
	previewPath, err := s.assembler.RenderPreview(ctx, artifact.FilePath, s.opts.PreviewSeconds)
	if err != nil {
		s.logger.Warn("Preview render failed", zap.String("clip_id", artifact.ClipID), zap.Error(err))
		return
	}
	defer os.Remove(previewPath)

	key := storage.PreviewKey(artifact.ClipID, filepath.Base(previewPath))
	if err := s.uploads.UploadFile(ctx, previewPath, key); err != nil {
		s.logger.Warn("Preview upload failed", zap.String("clip_id", artifact.ClipID), zap.Error(err))
	}
}

// ListClips returns the live clip records for a video.
func (s *Service) ListClips(ctx context.Context, videoID string) ([]models.ClipSummary, error) {
	records, err := s.store.QueryByVideo(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("list clips for %s: %w", videoID, err)
	}
	return summaries(records), nil
}

// DeleteClip removes one clip record and its stored object.
func (s *Service) DeleteClip(ctx context.Context, videoID, clipID string) error {
	rec, err := s.store.Get(ctx, clipID, videoID)
	if err != nil {
		return fmt.Errorf("lookup clip %s: %w", clipID, err)
	}
	if rec == nil {
		return fmt.Errorf("%w: %s", ErrClipNotFound, clipID)
	}
	if rec.S3Key != "" {
		if err := s.uploads.DeleteObject(ctx, rec.S3Key); err != nil {
			s.logger.Warn("Clip object delete failed", zap.String("clip_id", clipID), zap.Error(err))
		}
	}
	if err := s.store.Delete(ctx, clipID, videoID); err != nil {
		return fmt.Errorf("delete clip %s: %w", clipID, err)
	}
	return nil
}

func summaries(records []models.StoredClipRecord) []models.ClipSummary {
	out := make([]models.ClipSummary, 0, len(records))
	for _, rec := range records {
		out = append(out, models.SummaryFromRecord(rec))
	}
	return out
}
