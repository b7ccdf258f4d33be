// Package clips orchestrates the full pipeline: transcript, analysis,
// scoring, extraction, upload and metadata persistence.
package clips

import (
	"errors"
	"fmt"
)

// Pipeline stage names recorded on per-clip failures. The extract stage
// constant lives in the clipper package next to the code that emits it.
const (
	StageUpload  = "upload"
	StagePersist = "persist"
)

// ErrNoTranscript means the video exists but exposes no usable transcript.
var ErrNoTranscript = errors.New("no transcript available")

// ErrClipNotFound means the requested clip record is absent or expired.
var ErrClipNotFound = errors.New("clip not found")

// SourceUnavailableError means the source video could not be acquired, so
// no clip work was possible at all.
type SourceUnavailableError struct {
	VideoID string
	Err     error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("source unavailable for %s: %v", e.VideoID, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error { return e.Err }
