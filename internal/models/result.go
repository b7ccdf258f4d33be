package models

// StageFailure records one candidate dropped by a pipeline stage. Failures
// are isolated per item; siblings continue through the run.
type StageFailure struct {
	ClipID string `json:"clip_id"`
	Stage  string `json:"stage"`
	Error  string `json:"error"`
}

// PipelineResult is the outcome of one process-video run: the clips that
// survived every stage, the per-item failures, and whether the set was
// served from the dedup cache.
type PipelineResult struct {
	VideoID   string         `json:"video_id"`
	Clips     []ClipSummary  `json:"clips"`
	Failures  []StageFailure `json:"failures,omitempty"`
	FromCache bool           `json:"from_cache"`
	Message   string         `json:"message,omitempty"`
}
