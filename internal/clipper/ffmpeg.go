package clipper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
)

// Encoding profiles are fixed configuration, not computed: full quality for
// final clips, a cheaper/faster profile for short previews.
var (
	clipProfile = []string{
		"-c:v", "libx264",
		"-c:a", "aac",
		"-b:v", "1000k",
		"-b:a", "128k",
		"-preset", "fast",
		"-movflags", "faststart",
	}
	previewProfile = []string{
		"-c:v", "libx264",
		"-c:a", "aac",
		"-b:v", "500k",
		"-b:a", "64k",
		"-preset", "ultrafast",
	}
)

// FFmpeg cuts and probes video files via the ffmpeg/ffprobe binaries.
type FFmpeg struct {
	ffmpeg  string
	ffprobe string
}

// NewFFmpeg creates an ffmpeg adapter. Empty paths default to binaries on
// PATH.
func NewFFmpeg(ffmpegPath, ffprobePath string) *FFmpeg {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &FFmpeg{ffmpeg: ffmpegPath, ffprobe: ffprobePath}
}

// Cut transcodes [start, end] of inPath into outPath with the clip profile.
func (f *FFmpeg) Cut(ctx context.Context, inPath, outPath string, start, end float64) error {
	args := []string{
		"-y",
		"-ss", fmtSeconds(start),
		"-t", fmtSeconds(end - start),
		"-i", inPath,
	}
	args = append(args, clipProfile...)
	args = append(args, outPath)

	cmd := exec.CommandContext(ctx, f.ffmpeg, args...)
	if b, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg cut: %w\n%s", err, string(b))
	}
	return nil
}

// Preview transcodes the first previewSeconds of inPath with the preview
// profile.
func (f *FFmpeg) Preview(ctx context.Context, inPath, outPath string, previewSeconds float64) error {
	args := []string{
		"-y",
		"-t", fmtSeconds(previewSeconds),
		"-i", inPath,
	}
	args = append(args, previewProfile...)
	args = append(args, outPath)

	cmd := exec.CommandContext(ctx, f.ffmpeg, args...)
	if b, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg preview: %w\n%s", err, string(b))
	}
	return nil
}

type probeOutput struct {
	Streams []struct {
		CodecType string `json:"codec_type"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
	} `json:"streams"`
}

// Probe returns the file size and video resolution of a produced clip.
func (f *FFmpeg) Probe(ctx context.Context, path string) (ProbeInfo, error) {
	info := ProbeInfo{Resolution: "unknown"}
	if st, err := os.Stat(path); err == nil {
		info.FileSize = st.Size()
	}

	cmd := exec.CommandContext(ctx, f.ffprobe,
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)
	// stdout carries the JSON document; stderr must stay out of the parse.
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return info, fmt.Errorf("ffprobe: %w\n%s", err, string(exitErr.Stderr))
		}
		return info, fmt.Errorf("ffprobe: %w", err)
	}

	var probe probeOutput
	if err := json.Unmarshal(out, &probe); err != nil {
		return info, fmt.Errorf("parse ffprobe output: %w", err)
	}
	for _, s := range probe.Streams {
		if s.CodecType == "video" {
			info.Resolution = fmt.Sprintf("%dx%d", s.Width, s.Height)
			break
		}
	}
	return info, nil
}

func fmtSeconds(sec float64) string {
	return strconv.FormatFloat(sec, 'f', 3, 64)
}
