// Package transcript acquires YouTube transcripts and normalizes them into
// ordered, timestamped segments for scoring.
package transcript

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/clipwise/backend/internal/models"
)

// ErrUnavailable marks a video that exposes no usable captions. Transport
// failures are returned as plain wrapped errors, not this sentinel.
var ErrUnavailable = errors.New("transcript unavailable")

// Fetcher acquires a raw transcript from the video platform.
type Fetcher interface {
	Fetch(ctx context.Context, videoID string, languages []string) ([]RawSegment, string, error)
}

// Cache persists fetched transcripts so reruns skip the network fetch.
type Cache interface {
	Get(ctx context.Context, videoID string) (*models.Transcript, error)
	Save(ctx context.Context, tr *models.Transcript) error
}

// Service fetches and normalizes transcripts, reading through an optional
// cache.
type Service struct {
	fetcher   Fetcher
	cache     Cache
	languages []string
	logger    *zap.Logger
}

// NewService creates a transcript service. cache may be nil.
func NewService(fetcher Fetcher, cache Cache, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		fetcher:   fetcher,
		cache:     cache,
		languages: []string{"en", "en-US"},
		logger:    logger,
	}
}

// Get returns the normalized transcript for a YouTube URL.
func (s *Service) Get(ctx context.Context, youtubeURL string) (*models.Transcript, error) {
	if !ValidateURL(youtubeURL) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidURL, youtubeURL)
	}
	videoID, err := ExtractVideoID(youtubeURL)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, videoID); err == nil && cached != nil {
			s.logger.Debug("transcript cache hit", zap.String("video_id", videoID))
			return cached, nil
		}
	}

	raw, lang, err := s.fetcher.Fetch(ctx, videoID, s.languages)
	if err != nil {
		return nil, fmt.Errorf("fetch transcript for %s: %w", videoID, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrUnavailable, videoID)
	}

	tr := Normalize(videoID, youtubeURL, lang, raw)
	s.logger.Info("transcript fetched",
		zap.String("video_id", videoID),
		zap.String("language", lang),
		zap.Int("segments", len(tr.Segments)))

	if s.cache != nil {
		if err := s.cache.Save(ctx, tr); err != nil {
			s.logger.Warn("transcript cache save failed", zap.Error(err))
		}
	}
	return tr, nil
}

// Normalize converts raw transcript lines into ordered TranscriptSegments
// with derived end bounds and word/char counts.
func Normalize(videoID, sourceURL, language string, raw []RawSegment) *models.Transcript {
	segments := make([]models.TranscriptSegment, 0, len(raw))
	for i, r := range raw {
		text := strings.TrimSpace(r.Text)
		segments = append(segments, models.TranscriptSegment{
			Index:     i,
			Start:     r.Start,
			End:       r.Start + r.Duration,
			Duration:  r.Duration,
			Text:      text,
			WordCount: len(strings.Fields(text)),
			CharCount: len(text),
		})
	}

	total := 0.0
	if len(segments) > 0 {
		total = segments[len(segments)-1].End
	}
	return &models.Transcript{
		VideoID:       videoID,
		SourceURL:     sourceURL,
		Language:      language,
		Segments:      segments,
		TotalDuration: total,
	}
}
