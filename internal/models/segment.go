package models

// TranscriptSegment is one timestamped line of transcript text.
// Invariant: End == Start + Duration, Duration > 0. Index is chronological order.
type TranscriptSegment struct {
	Index     int     `json:"index"`
	Start     float64 `json:"start"`
	End       float64 `json:"end"`
	Duration  float64 `json:"duration"`
	Text      string  `json:"text"`
	WordCount int     `json:"word_count"`
	CharCount int     `json:"char_count"`
}

// Transcript is the normalized transcript for one video.
type Transcript struct {
	VideoID       string              `json:"video_id"`
	SourceURL     string              `json:"source_url"`
	Language      string              `json:"language"`
	Segments      []TranscriptSegment `json:"segments"`
	TotalDuration float64             `json:"total_duration"`
}

// FullText joins all segment texts with single spaces.
func (t *Transcript) FullText() string {
	n := 0
	for _, s := range t.Segments {
		n += len(s.Text) + 1
	}
	buf := make([]byte, 0, n)
	for i, s := range t.Segments {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, s.Text...)
	}
	return string(buf)
}
