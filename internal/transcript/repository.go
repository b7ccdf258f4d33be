package transcript

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clipwise/backend/internal/models"
)

// Repository persists fetched transcripts in PostgreSQL, keyed by video ID.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a transcript cache repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Get returns a cached transcript, or nil when none is stored.
func (r *Repository) Get(ctx context.Context, videoID string) (*models.Transcript, error) {
	const q = `SELECT video_id, source_url, language, segments, total_duration
		FROM transcripts WHERE video_id = $1`
	var tr models.Transcript
	var segments []byte
	err := r.pool.QueryRow(ctx, q, videoID).
		Scan(&tr.VideoID, &tr.SourceURL, &tr.Language, &segments, &tr.TotalDuration)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(segments, &tr.Segments); err != nil {
		return nil, fmt.Errorf("decode segments: %w", err)
	}
	return &tr, nil
}

// Save upserts a transcript.
func (r *Repository) Save(ctx context.Context, tr *models.Transcript) error {
	segments, err := json.Marshal(tr.Segments)
	if err != nil {
		return fmt.Errorf("encode segments: %w", err)
	}
	const q = `INSERT INTO transcripts (video_id, source_url, language, segments, total_duration, fetched_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (video_id) DO UPDATE SET
			source_url = EXCLUDED.source_url,
			language = EXCLUDED.language,
			segments = EXCLUDED.segments,
			total_duration = EXCLUDED.total_duration,
			fetched_at = NOW()`
	_, err = r.pool.Exec(ctx, q, tr.VideoID, tr.SourceURL, tr.Language, segments, tr.TotalDuration)
	return err
}
