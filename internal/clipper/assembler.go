package clipper

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/clipwise/backend/internal/models"
	"github.com/clipwise/backend/internal/scoring"
	"github.com/clipwise/backend/pkg/utils"
)

// StageExtract tags failures produced during clip extraction.
const StageExtract = "extract"

// Assembler turns ranked suggestions into clip files: one shared source
// download per run, then per-candidate cuts with failure isolation.
type Assembler struct {
	downloader      Downloader
	cutter          Cutter
	prober          Prober
	workDir         string
	maxClipDuration float64
	maxConcurrent   int
	logger          *zap.Logger
}

// NewAssembler creates an assembler writing into workDir (empty =
// os.TempDir()).
func NewAssembler(downloader Downloader, cutter Cutter, prober Prober, workDir string, maxClipDuration float64, maxConcurrent int, logger *zap.Logger) *Assembler {
	if workDir == "" {
		workDir = os.TempDir()
	}
	if maxConcurrent <= 0 {
		maxConcurrent = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assembler{
		downloader:      downloader,
		cutter:          cutter,
		prober:          prober,
		workDir:         workDir,
		maxClipDuration: maxClipDuration,
		maxConcurrent:   maxConcurrent,
		logger:          logger,
	}
}

// Assemble downloads the source once and cuts every suggestion into its own
// file. A failed candidate is recorded and skipped; only a failed source
// download aborts the call. The shared source file is removed on every exit
// path; per-clip files are the caller's to clean up after upload.
func (a *Assembler) Assemble(ctx context.Context, sourceURL, videoID string, suggestions []models.ClipSuggestion) ([]models.ClipArtifact, []models.StageFailure, error) {
	srcPath := filepath.Join(a.workDir, utils.SanitizeFilename("source_"+videoID+".mp4"))
	if err := a.downloader.Download(ctx, sourceURL, srcPath); err != nil {
		return nil, nil, fmt.Errorf("download source video: %w", err)
	}
	defer func() {
		if err := os.Remove(srcPath); err != nil && !os.IsNotExist(err) {
			a.logger.Warn("remove source file", zap.String("path", srcPath), zap.Error(err))
		}
	}()

	artifacts := make([]*models.ClipArtifact, len(suggestions))
	failures := make([]*models.StageFailure, len(suggestions))

	// Cuts run in parallel; the download barrier above guarantees the shared
	// source is complete before any cut starts.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.maxConcurrent)
	for i, s := range suggestions {
		i, s := i, s
		g.Go(func() error {
			artifact, err := a.createClip(gctx, srcPath, s)
			if err != nil {
				a.logger.Error("clip extraction failed",
					zap.String("clip_id", s.ClipID), zap.Error(err))
				failures[i] = &models.StageFailure{ClipID: s.ClipID, Stage: StageExtract, Error: err.Error()}
				return nil
			}
			artifacts[i] = artifact
			return nil
		})
	}
	_ = g.Wait()

	var outArtifacts []models.ClipArtifact
	var outFailures []models.StageFailure
	for i := range suggestions {
		if artifacts[i] != nil {
			outArtifacts = append(outArtifacts, *artifacts[i])
		}
		if failures[i] != nil {
			outFailures = append(outFailures, *failures[i])
		}
	}
	a.logger.Info("clips assembled",
		zap.String("video_id", videoID),
		zap.Int("succeeded", len(outArtifacts)),
		zap.Int("failed", len(outFailures)))
	return outArtifacts, outFailures, nil
}

func (a *Assembler) createClip(ctx context.Context, srcPath string, s models.ClipSuggestion) (*models.ClipArtifact, error) {
	// Defense in depth: the ranker already filtered durations, re-check
	// before spending transcode work.
	if !scoring.IsValidClipDuration(s.StartTime, s.EndTime, a.maxClipDuration) {
		return nil, fmt.Errorf("invalid clip duration: %.1fs", s.EndTime-s.StartTime)
	}

	filename := s.ClipID + ".mp4"
	outPath := filepath.Join(a.workDir, filename)
	if err := a.cutter.Cut(ctx, srcPath, outPath, s.StartTime, s.EndTime); err != nil {
		return nil, err
	}

	info, err := a.prober.Probe(ctx, outPath)
	if err != nil {
		// A transcode success is not lost to a metadata-probe failure.
		a.logger.Warn("clip probe failed", zap.String("clip_id", s.ClipID), zap.Error(err))
		info = ProbeInfo{FileSize: 0, Resolution: "unknown"}
	}

	return &models.ClipArtifact{
		ClipSuggestion: s,
		FilePath:       outPath,
		Filename:       filename,
		FileSize:       info.FileSize,
		Resolution:     info.Resolution,
	}, nil
}

// RenderPreview cuts a short preview of an already-produced clip file using
// the cheap profile and returns the preview path.
func (a *Assembler) RenderPreview(ctx context.Context, clipPath string, previewSeconds float64) (string, error) {
	outPath := filepath.Join(a.workDir, "preview_"+filepath.Base(clipPath))
	if err := a.cutter.Preview(ctx, clipPath, outPath, previewSeconds); err != nil {
		return "", err
	}
	return outPath, nil
}
