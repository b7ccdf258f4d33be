// Package analysis computes the aggregate sentiment and key-phrase signals
// for a transcript. The external text-analysis call is behind a small client
// interface so the pipeline can run against fakes in tests.
package analysis

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/clipwise/backend/internal/models"
)

// Client is one external text-analysis call over a bounded-length chunk.
type Client interface {
	DetectSentiment(ctx context.Context, text string) (models.SentimentSignal, error)
	DetectKeyPhrases(ctx context.Context, text string) ([]string, error)
}

// Analyzer chunks transcript text, fans calls out to the client with bounded
// concurrency, and aggregates per-chunk results into one signal per run.
type Analyzer struct {
	client        Client
	maxChunkChars int
	maxConcurrent int
	logger        *zap.Logger
}

// New creates an analyzer. maxChunkChars caps the text sent per external
// call; maxConcurrent bounds in-flight calls.
func New(client Client, maxChunkChars, maxConcurrent int, logger *zap.Logger) *Analyzer {
	if maxChunkChars <= 0 {
		maxChunkChars = 4000
	}
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{client: client, maxChunkChars: maxChunkChars, maxConcurrent: maxConcurrent, logger: logger}
}

// Sentiment returns the whole-transcript sentiment signal: per-chunk scores
// averaged component-wise, dominant label by highest average. If any external
// call fails the analyzer degrades to the neutral default instead of failing
// the run.
func (a *Analyzer) Sentiment(ctx context.Context, text string) models.SentimentSignal {
	chunks := SplitChunks(text, a.maxChunkChars)
	if len(chunks) == 0 {
		return models.NeutralSentiment()
	}

	signals := make([]models.SentimentSignal, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.maxConcurrent)
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			s, err := a.client.DetectSentiment(gctx, chunk)
			if err != nil {
				return err
			}
			signals[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		a.logger.Warn("sentiment analysis degraded to neutral", zap.Error(err))
		return models.NeutralSentiment()
	}
	return aggregateSentiment(signals)
}

// KeyPhrases returns key phrases extracted across all chunks, in chunk order.
// On failure it returns an empty list; phrase matching is a bonus signal, not
// a precondition.
func (a *Analyzer) KeyPhrases(ctx context.Context, text string) []string {
	chunks := SplitChunks(text, a.maxChunkChars)
	if len(chunks) == 0 {
		return nil
	}

	perChunk := make([][]string, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.maxConcurrent)
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			phrases, err := a.client.DetectKeyPhrases(gctx, chunk)
			if err != nil {
				return err
			}
			perChunk[i] = phrases
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		a.logger.Warn("key phrase extraction failed", zap.Error(err))
		return nil
	}

	var all []string
	for _, phrases := range perChunk {
		all = append(all, phrases...)
	}
	return all
}

// SplitChunks splits text into chunks of at most maxChars, breaking on
// sentence boundaries.
func SplitChunks(text string, maxChars int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var chunks []string
	current := ""
	for _, sentence := range strings.Split(text, ".") {
		if len(current)+len(sentence) < maxChars {
			current += sentence + "."
		} else {
			if s := strings.TrimSpace(current); s != "" {
				chunks = append(chunks, s)
			}
			current = sentence + "."
		}
	}
	if s := strings.TrimSpace(current); s != "" {
		chunks = append(chunks, s)
	}
	return chunks
}

func aggregateSentiment(signals []models.SentimentSignal) models.SentimentSignal {
	if len(signals) == 0 {
		return models.NeutralSentiment()
	}

	var avg models.SentimentScore
	for _, s := range signals {
		avg.Positive += s.Score.Positive
		avg.Negative += s.Score.Negative
		avg.Neutral += s.Score.Neutral
		avg.Mixed += s.Score.Mixed
	}
	n := float64(len(signals))
	avg.Positive /= n
	avg.Negative /= n
	avg.Neutral /= n
	avg.Mixed /= n

	return models.SentimentSignal{Label: dominantLabel(avg), Score: avg}
}

func dominantLabel(score models.SentimentScore) models.SentimentLabel {
	label := models.SentimentPositive
	top := score.Positive
	for _, c := range []struct {
		label models.SentimentLabel
		score float64
	}{
		{models.SentimentNegative, score.Negative},
		{models.SentimentNeutral, score.Neutral},
		{models.SentimentMixed, score.Mixed},
	} {
		if c.score > top {
			label, top = c.label, c.score
		}
	}
	return label
}
