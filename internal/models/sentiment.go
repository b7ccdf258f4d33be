package models

// SentimentLabel is the dominant sentiment over a whole transcript.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "POSITIVE"
	SentimentNegative SentimentLabel = "NEGATIVE"
	SentimentNeutral  SentimentLabel = "NEUTRAL"
	SentimentMixed    SentimentLabel = "MIXED"
)

// SentimentScore holds the per-label score distribution, each in [0,1].
type SentimentScore struct {
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
	Mixed    float64 `json:"mixed"`
}

// SentimentSignal is the aggregate sentiment signal for a full transcript,
// computed once per pipeline run and never mutated.
type SentimentSignal struct {
	Label SentimentLabel `json:"label"`
	Score SentimentScore `json:"score"`
}

// NeutralSentiment is the degraded default used when analysis is unavailable.
func NeutralSentiment() SentimentSignal {
	return SentimentSignal{
		Label: SentimentNeutral,
		Score: SentimentScore{Positive: 0.25, Negative: 0.25, Neutral: 0.5, Mixed: 0.0},
	}
}
