package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/clipwise/backend/internal/models"
)

// Strong indicator words for the keyword-density signal.
var interestingKeywords = []string{
	"question", "why", "how", "what", "when", "where", "who",
	"important", "key", "crucial", "essential", "critical",
	"amazing", "unbelievable", "wow", "problem", "solution",
	"challenge", "breakthrough", "secret", "reveal", "discover",
	"find", "found", "best", "worst", "top", "never", "always",
	"exclusive", "special", "unique", "trick", "tip", "hack",
}

// Music-related words that indicate non-speech content. A segment matching
// more than 3 of these is vetoed outright.
var musicKeywords = []string{"lyrics", "instrumental", "music", "song", "chorus", "verse", "beat"}

var questionWords = []string{"?", "why", "how", "what", "when", "where", "who"}

const (
	questionBonus   = 3
	keywordBonus    = 2
	emotionalBonus  = 2
	contentBonus    = 1
	positionalBonus = 1

	strongSentimentThreshold = 0.6
	minContentWords          = 20
	musicVetoThreshold       = 3
)

// ScoreSegments assigns each transcript segment an interest score and reason
// list from the five additive signals, applies the music hard veto, and drops
// zero-score segments. Surviving segments get a clip window that starts at
// the segment start and extends maxClipDuration seconds forward.
func ScoreSegments(segments []models.TranscriptSegment, sentiment models.SentimentSignal, keyPhrases []string, maxClipDuration float64) []models.InterestCandidate {
	emotional := sentiment.Score.Positive > strongSentimentThreshold ||
		sentiment.Score.Negative > strongSentimentThreshold

	lowered := make([]string, len(keyPhrases))
	for i, p := range keyPhrases {
		lowered[i] = strings.ToLower(p)
	}

	var out []models.InterestCandidate
	for i, seg := range segments {
		score := 0
		var reasons []string
		text := strings.ToLower(seg.Text)

		if containsAny(text, questionWords) {
			score += questionBonus
			reasons = append(reasons, "question")
		}

		if n := countMatches(text, interestingKeywords); n > 0 {
			score += n * keywordBonus
			reasons = append(reasons, fmt.Sprintf("%d keywords", n))
		}

		if n := countMatches(text, lowered); n > 0 {
			score += n
			reasons = append(reasons, fmt.Sprintf("%d phrases", n))
		}

		if emotional {
			score += emotionalBonus
			reasons = append(reasons, "emotional")
		}

		if seg.WordCount > minContentWords {
			score += contentBonus
			reasons = append(reasons, "enough content")
		}

		// Hard veto: heavy music/non-speech segments are excluded no matter
		// how many bonuses accumulated above.
		if countMatches(text, musicKeywords) > musicVetoThreshold {
			continue
		}

		if i < 3 || i > len(segments)-3 {
			score += positionalBonus
			reasons = append(reasons, "early/late")
		}

		if score == 0 {
			continue
		}

		out = append(out, models.InterestCandidate{
			Segment:   seg,
			Score:     score,
			Reasons:   reasons,
			ClipStart: seg.Start,
			// The end term is dominated by start whenever end >= start, so the
			// window is effectively a fixed-length cap from the segment start.
			// Kept as-is: clip length is normalized to the cap.
			ClipEnd: math.Min(seg.End, seg.Start) + maxClipDuration,
		})
	}
	return out
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}

func countMatches(text string, needles []string) int {
	count := 0
	for _, n := range needles {
		if n != "" && strings.Contains(text, n) {
			count++
		}
	}
	return count
}
