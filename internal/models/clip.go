package models

import "time"

// InterestCandidate is a scored, duration-bounded window proposed as a clip.
type InterestCandidate struct {
	Segment   TranscriptSegment `json:"segment"`
	Score     int               `json:"score"`
	Reasons   []string          `json:"reasons"`
	ClipStart float64           `json:"clip_start"`
	ClipEnd   float64           `json:"clip_end"`
}

// ClipSuggestion is a ranked candidate ready for extraction. ClipID is
// deterministic from (video_id, start, end) so reruns produce the same key.
type ClipSuggestion struct {
	ClipID          string   `json:"clip_id"`
	VideoID         string   `json:"video_id"`
	StartTime       float64  `json:"start_time"`
	EndTime         float64  `json:"end_time"`
	Duration        float64  `json:"duration"`
	InterestScore   int      `json:"interest_score"`
	InterestReasons []string `json:"interest_reasons"`
	TranscriptText  string   `json:"transcript_text"`
	WordCount       int      `json:"word_count"`
	CharCount       int      `json:"char_count"`
}

// ClipArtifact is a suggestion with a produced local file. FilePath is
// transient and must not outlive the pipeline run.
type ClipArtifact struct {
	ClipSuggestion
	FilePath   string `json:"file_path"`
	Filename   string `json:"filename"`
	FileSize   int64  `json:"file_size"`
	Resolution string `json:"resolution"`
}

// StoredClipRecord is the durable form persisted in the metadata store,
// keyed by (clip_id, video_id) with a TTL. ExpiresAt is strictly in the
// future at write time; expired records are never served.
type StoredClipRecord struct {
	ClipID          string    `json:"clip_id"`
	VideoID         string    `json:"video_id"`
	S3Key           string    `json:"s3_key"`
	SignedURL       string    `json:"signed_url"`
	StartTime       float64   `json:"start_time"`
	EndTime         float64   `json:"end_time"`
	Duration        float64   `json:"duration"`
	FileSize        int64     `json:"file_size"`
	FileSizeDisplay string    `json:"file_size_formatted"`
	Resolution      string    `json:"resolution"`
	InterestScore   int       `json:"interest_score"`
	InterestReasons []string  `json:"interest_reasons"`
	TranscriptText  string    `json:"transcript_text"`
	WordCount       int       `json:"word_count"`
	CharCount       int       `json:"char_count"`
	CreatedAt       time.Time `json:"created_at"`
	ExpiresAt       time.Time `json:"expires_at"`
}

// ClipSummary is the caller-facing view of one produced (or cached) clip.
type ClipSummary struct {
	ClipID          string    `json:"clip_id"`
	URL             string    `json:"url"`
	StartTime       float64   `json:"start_time"`
	EndTime         float64   `json:"end_time"`
	Duration        float64   `json:"duration"`
	InterestScore   int       `json:"interest_score"`
	InterestReasons []string  `json:"interest_reasons"`
	TranscriptText  string    `json:"transcript_text"`
	FileSizeDisplay string    `json:"file_size_formatted,omitempty"`
	Resolution      string    `json:"resolution,omitempty"`
	ExpiresAt       time.Time `json:"expires_at"`
}

// SummaryFromRecord maps a stored record to its caller-facing view.
func SummaryFromRecord(rec StoredClipRecord) ClipSummary {
	return ClipSummary{
		ClipID:          rec.ClipID,
		URL:             rec.SignedURL,
		StartTime:       rec.StartTime,
		EndTime:         rec.EndTime,
		Duration:        rec.Duration,
		InterestScore:   rec.InterestScore,
		InterestReasons: rec.InterestReasons,
		TranscriptText:  rec.TranscriptText,
		FileSizeDisplay: rec.FileSizeDisplay,
		Resolution:      rec.Resolution,
		ExpiresAt:       rec.ExpiresAt,
	}
}
