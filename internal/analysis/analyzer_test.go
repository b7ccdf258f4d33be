package analysis

import (
	"context"
	"errors"
	"math"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/clipwise/backend/internal/models"
)

type fakeClient struct {
	mu            sync.Mutex
	sentiments    []models.SentimentSignal
	sentimentErr  error
	phrases       [][]string
	phraseErr     error
	sentimentCall int
	phraseCall    int
}

func (f *fakeClient) DetectSentiment(_ context.Context, _ string) (models.SentimentSignal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sentimentErr != nil {
		return models.SentimentSignal{}, f.sentimentErr
	}
	s := f.sentiments[f.sentimentCall%len(f.sentiments)]
	f.sentimentCall++
	return s, nil
}

func (f *fakeClient) DetectKeyPhrases(_ context.Context, _ string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.phraseErr != nil {
		return nil, f.phraseErr
	}
	p := f.phrases[f.phraseCall%len(f.phrases)]
	f.phraseCall++
	return p, nil
}

func TestSplitChunks(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("this is a sentence. ", 10))
	chunks := SplitChunks(text, 60)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for _, c := range chunks {
		if len(c) >= 60+len("this is a sentence.") {
			t.Errorf("chunk exceeds limit: %d chars", len(c))
		}
	}
	if got := SplitChunks("", 60); got != nil {
		t.Errorf("empty text should produce no chunks, got %v", got)
	}
}

func TestSentimentAveragesChunks(t *testing.T) {
	client := &fakeClient{sentiments: []models.SentimentSignal{
		{Label: models.SentimentPositive, Score: models.SentimentScore{Positive: 0.8, Negative: 0.1, Neutral: 0.1}},
		{Label: models.SentimentNeutral, Score: models.SentimentScore{Positive: 0.2, Negative: 0.1, Neutral: 0.7}},
	}}
	a := New(client, 30, 2, nil)

	// Long enough for exactly two chunks.
	text := "first chunk sentence goes here. second chunk sentence goes here"
	got := a.Sentiment(context.Background(), text)

	want := models.SentimentScore{Positive: 0.5, Negative: 0.1, Neutral: 0.4}
	approx := func(a, b float64) bool { return math.Abs(a-b) < 1e-9 }
	if !approx(got.Score.Positive, want.Positive) || !approx(got.Score.Negative, want.Negative) ||
		!approx(got.Score.Neutral, want.Neutral) || !approx(got.Score.Mixed, want.Mixed) {
		t.Errorf("averaged score = %+v, want %+v", got.Score, want)
	}
	if got.Label != models.SentimentPositive {
		t.Errorf("dominant label = %s, want POSITIVE", got.Label)
	}
}

func TestSentimentDegradesToNeutral(t *testing.T) {
	client := &fakeClient{sentimentErr: errors.New("throttled")}
	a := New(client, 4000, 2, nil)

	got := a.Sentiment(context.Background(), "some transcript text.")
	if !reflect.DeepEqual(got, models.NeutralSentiment()) {
		t.Errorf("degraded signal = %+v, want neutral default", got)
	}
}

func TestKeyPhrasesConcatenatesChunks(t *testing.T) {
	client := &fakeClient{phrases: [][]string{{"machine learning"}, {"neural networks", "training data"}}}
	a := New(client, 30, 1, nil)

	got := a.KeyPhrases(context.Background(), "first chunk sentence goes here. second chunk sentence goes here")
	want := []string{"machine learning", "neural networks", "training data"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("phrases = %v, want %v", got, want)
	}
}

func TestKeyPhrasesEmptyOnFailure(t *testing.T) {
	client := &fakeClient{phraseErr: errors.New("unreachable")}
	a := New(client, 4000, 2, nil)

	if got := a.KeyPhrases(context.Background(), "text."); len(got) != 0 {
		t.Errorf("expected no phrases on failure, got %v", got)
	}
}

func TestDominantLabelPrefersHighest(t *testing.T) {
	got := aggregateSentiment([]models.SentimentSignal{
		{Score: models.SentimentScore{Positive: 0.1, Negative: 0.7, Neutral: 0.2}},
	})
	if got.Label != models.SentimentNegative {
		t.Errorf("label = %s, want NEGATIVE", got.Label)
	}
}
