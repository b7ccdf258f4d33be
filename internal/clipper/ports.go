// Package clipper downloads source videos and cuts ranked candidates into
// independent clip files with ffmpeg.
package clipper

import "context"

// Downloader fetches a source video to a local path. A download failure is
// fatal to the whole run.
type Downloader interface {
	Download(ctx context.Context, sourceURL, destPath string) error
}

// Cutter produces clip files from a downloaded source.
type Cutter interface {
	// Cut transcodes [start, end] of inPath into outPath using the full
	// quality profile.
	Cut(ctx context.Context, inPath, outPath string, start, end float64) error
	// Preview transcodes the first previewSeconds of inPath into outPath
	// using the cheap profile.
	Preview(ctx context.Context, inPath, outPath string, previewSeconds float64) error
}

// ProbeInfo is measured metadata for a produced clip file.
type ProbeInfo struct {
	FileSize   int64
	Resolution string
}

// Prober measures a produced file. Probe failures must not discard the clip;
// callers substitute placeholder metadata.
type Prober interface {
	Probe(ctx context.Context, path string) (ProbeInfo, error)
}
