// Package utils holds small formatting and identifier helpers shared across
// the clip pipeline.
package utils

import (
	"fmt"
	"strings"
)

// FormatTimestamp converts seconds to HH:MM:SS.
func FormatTimestamp(seconds float64) string {
	total := int(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}

// ClipID returns the deterministic clip identifier for a time window:
// {video_id}_{start}_{end} with zero-padded whole seconds. Repeated runs
// over the same candidate always produce the same ID.
func ClipID(videoID string, startTime, endTime float64) string {
	return fmt.Sprintf("%s_%06d_%06d", videoID, int(startTime), int(endTime))
}

// FormatFileSize renders a byte count in human readable form (1.5MB).
func FormatFileSize(sizeBytes int64) string {
	if sizeBytes == 0 {
		return "0B"
	}
	names := []string{"B", "KB", "MB", "GB"}
	size := float64(sizeBytes)
	i := 0
	for size >= 1024 && i < len(names)-1 {
		size /= 1024
		i++
	}
	return fmt.Sprintf("%.1f%s", size, names[i])
}

// SanitizeFilename replaces unsafe characters and caps length at 100 runes.
func SanitizeFilename(filename string) string {
	const unsafe = `<>:"/\|?*`
	out := strings.Map(func(r rune) rune {
		if strings.ContainsRune(unsafe, r) {
			return '_'
		}
		return r
	}, filename)
	if runes := []rune(out); len(runes) > 100 {
		out = string(runes[:100])
	}
	return strings.TrimSpace(out)
}
