package transcript

import (
	"context"
	"errors"
	"testing"

	"github.com/clipwise/backend/internal/models"
)

type fakeFetcher struct {
	raw   []RawSegment
	lang  string
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(_ context.Context, _ string, _ []string) ([]RawSegment, string, error) {
	f.calls++
	return f.raw, f.lang, f.err
}

type memCache struct {
	byID map[string]*models.Transcript
}

func (m *memCache) Get(_ context.Context, videoID string) (*models.Transcript, error) {
	return m.byID[videoID], nil
}

func (m *memCache) Save(_ context.Context, tr *models.Transcript) error {
	m.byID[tr.VideoID] = tr
	return nil
}

func TestGetNormalizesSegments(t *testing.T) {
	fetcher := &fakeFetcher{
		raw: []RawSegment{
			{Start: 0, Duration: 4.5, Text: "  hello there  "},
			{Start: 4.5, Duration: 3, Text: "why does this always break"},
		},
		lang: "en",
	}
	svc := NewService(fetcher, nil, nil)

	tr, err := svc.Get(context.Background(), "https://www.youtube.com/watch?v=abc123")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if tr.VideoID != "abc123" || tr.Language != "en" {
		t.Errorf("metadata = %q/%q", tr.VideoID, tr.Language)
	}
	if len(tr.Segments) != 2 {
		t.Fatalf("segments = %d", len(tr.Segments))
	}
	first := tr.Segments[0]
	if first.Index != 0 || first.Text != "hello there" || first.WordCount != 2 || first.CharCount != 11 {
		t.Errorf("first segment = %+v", first)
	}
	if first.End != first.Start+first.Duration {
		t.Errorf("end invariant broken: %v != %v + %v", first.End, first.Start, first.Duration)
	}
	if tr.TotalDuration != 7.5 {
		t.Errorf("total duration = %v, want 7.5", tr.TotalDuration)
	}
}

func TestGetRejectsInvalidURL(t *testing.T) {
	svc := NewService(&fakeFetcher{}, nil, nil)
	_, err := svc.Get(context.Background(), "https://vimeo.com/12345")
	if !errors.Is(err, ErrInvalidURL) {
		t.Fatalf("err = %v, want ErrInvalidURL", err)
	}
}

func TestGetEmptyTranscriptIsUnavailable(t *testing.T) {
	svc := NewService(&fakeFetcher{lang: "en"}, nil, nil)
	_, err := svc.Get(context.Background(), "https://www.youtube.com/watch?v=abc123")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}

func TestGetFetchErrorIsNotUnavailable(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("timedtext request: connection reset")}
	svc := NewService(fetcher, nil, nil)
	_, err := svc.Get(context.Background(), "https://www.youtube.com/watch?v=abc123")
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrUnavailable) {
		t.Errorf("transport failure wrongly classified as missing captions: %v", err)
	}
}

func TestGetUsesCache(t *testing.T) {
	cache := &memCache{byID: map[string]*models.Transcript{
		"abc123": {VideoID: "abc123", Language: "en", Segments: []models.TranscriptSegment{{Text: "cached"}}},
	}}
	fetcher := &fakeFetcher{err: errors.New("should not be called")}
	svc := NewService(fetcher, cache, nil)

	tr, err := svc.Get(context.Background(), "https://youtu.be/abc123")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if fetcher.calls != 0 {
		t.Errorf("fetcher called %d times for cached transcript", fetcher.calls)
	}
	if tr.Segments[0].Text != "cached" {
		t.Errorf("unexpected transcript: %+v", tr)
	}
}

func TestGetSavesToCache(t *testing.T) {
	cache := &memCache{byID: map[string]*models.Transcript{}}
	fetcher := &fakeFetcher{raw: []RawSegment{{Start: 0, Duration: 2, Text: "hi"}}, lang: "en"}
	svc := NewService(fetcher, cache, nil)

	if _, err := svc.Get(context.Background(), "https://youtu.be/xyz789"); err != nil {
		t.Fatalf("get: %v", err)
	}
	if cache.byID["xyz789"] == nil {
		t.Error("transcript was not written to the cache")
	}
}

func TestParseTimedText(t *testing.T) {
	body := []byte(`<?xml version="1.0" encoding="utf-8"?>
<transcript>
  <text start="0.0" dur="4.2">hello &amp; welcome</text>
  <text start="4.2" dur="3.1">second line</text>
  <text start="7.3" dur="0">zero duration dropped</text>
</transcript>`)

	segs, err := parseTimedText(body)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(segs) != 2 {
		t.Fatalf("segments = %d, want 2", len(segs))
	}
	if segs[0].Text != "hello & welcome" {
		t.Errorf("entities not unescaped: %q", segs[0].Text)
	}
	if segs[1].Start != 4.2 || segs[1].Duration != 3.1 {
		t.Errorf("timing = %+v", segs[1])
	}
}
