// Package scoring turns a timestamped transcript plus aggregate analysis
// signals into ranked, duration-bounded clip candidates. All functions are
// pure and deterministic.
package scoring

// ClipDuration returns the duration of a clip window in seconds.
func ClipDuration(startTime, endTime float64) float64 {
	return endTime - startTime
}

// IsValidClipDuration reports whether a clip window is an acceptable length:
// strictly positive and at most maxDuration (inclusive).
func IsValidClipDuration(startTime, endTime, maxDuration float64) bool {
	d := ClipDuration(startTime, endTime)
	return d > 0 && d <= maxDuration
}
