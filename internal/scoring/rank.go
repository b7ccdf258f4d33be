package scoring

import (
	"sort"

	"github.com/clipwise/backend/internal/models"
	"github.com/clipwise/backend/pkg/utils"
)

// Rank filters candidates to valid clip durations, sorts by score descending
// (stable, so ties keep transcript order) and truncates to maxCount. An empty
// result is a legitimate terminal outcome, not an error.
func Rank(candidates []models.InterestCandidate, maxDuration float64, maxCount int) []models.InterestCandidate {
	valid := make([]models.InterestCandidate, 0, len(candidates))
	for _, c := range candidates {
		if IsValidClipDuration(c.ClipStart, c.ClipEnd, maxDuration) {
			valid = append(valid, c)
		}
	}
	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].Score > valid[j].Score
	})
	if maxCount > 0 && len(valid) > maxCount {
		valid = valid[:maxCount]
	}
	return valid
}

// Suggestions maps ranked candidates 1:1 to clip suggestions with
// deterministic clip IDs.
func Suggestions(videoID string, ranked []models.InterestCandidate) []models.ClipSuggestion {
	out := make([]models.ClipSuggestion, 0, len(ranked))
	for _, c := range ranked {
		out = append(out, models.ClipSuggestion{
			ClipID:          utils.ClipID(videoID, c.ClipStart, c.ClipEnd),
			VideoID:         videoID,
			StartTime:       c.ClipStart,
			EndTime:         c.ClipEnd,
			Duration:        ClipDuration(c.ClipStart, c.ClipEnd),
			InterestScore:   c.Score,
			InterestReasons: c.Reasons,
			TranscriptText:  c.Segment.Text,
			WordCount:       c.Segment.WordCount,
			CharCount:       c.Segment.CharCount,
		})
	}
	return out
}
