package clipper

import (
	"context"
	"fmt"
	"os/exec"
)

// Capped at 720p: clips are short-form output, full resolution only wastes
// download and transcode time.
const downloadFormat = "bestvideo[height<=720]+bestaudio/best/worst"

// YtdlpDownloader downloads source videos with the yt-dlp binary.
type YtdlpDownloader struct {
	bin string
}

// NewYtdlpDownloader creates a yt-dlp downloader. Empty bin defaults to
// "yt-dlp" on PATH.
func NewYtdlpDownloader(bin string) *YtdlpDownloader {
	if bin == "" {
		bin = "yt-dlp"
	}
	return &YtdlpDownloader{bin: bin}
}

// Download fetches the video behind sourceURL into destPath.
func (d *YtdlpDownloader) Download(ctx context.Context, sourceURL, destPath string) error {
	cmd := exec.CommandContext(ctx, d.bin,
		"-f", downloadFormat,
		"-o", destPath,
		"--no-warnings",
		"--quiet",
		sourceURL,
	)
	if b, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("yt-dlp download: %w\n%s", err, string(b))
	}
	return nil
}
