package transcript

import (
	"errors"
	"regexp"
)

// ErrInvalidURL marks a video reference that is not a recognized YouTube URL.
var ErrInvalidURL = errors.New("invalid youtube url")

var (
	videoIDPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([^&\n?#]+)`),
		regexp.MustCompile(`youtube\.com/watch\?.*v=([^&\n?#]+)`),
	}
	validURLPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^https?://(?:www\.)?youtube\.com/watch\?v=`),
		regexp.MustCompile(`^https?://youtu\.be/`),
		regexp.MustCompile(`^https?://(?:www\.)?youtube\.com/embed/`),
	}
)

// ValidateURL reports whether url is a recognized YouTube video URL.
func ValidateURL(url string) bool {
	for _, p := range validURLPatterns {
		if p.MatchString(url) {
			return true
		}
	}
	return false
}

// ExtractVideoID pulls the video identifier out of the supported YouTube URL
// forms (watch, youtu.be, embed).
func ExtractVideoID(url string) (string, error) {
	for _, p := range videoIDPatterns {
		if m := p.FindStringSubmatch(url); len(m) == 2 && m[1] != "" {
			return m[1], nil
		}
	}
	return "", ErrInvalidURL
}
