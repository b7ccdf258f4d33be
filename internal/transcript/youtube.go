package transcript

import (
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const timedTextBaseURL = "https://video.google.com/timedtext"

// RawSegment is one line as returned by the transcript source, before
// normalization.
type RawSegment struct {
	Start    float64
	Duration float64
	Text     string
}

// TimedTextClient fetches YouTube captions from the public timedtext endpoint.
type TimedTextClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewTimedTextClient creates a timedtext fetcher with a request timeout.
func NewTimedTextClient(timeout time.Duration) *TimedTextClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &TimedTextClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    timedTextBaseURL,
	}
}

type timedTextDoc struct {
	XMLName xml.Name       `xml:"transcript"`
	Lines   []timedTextSeg `xml:"text"`
}

type timedTextSeg struct {
	Start    float64 `xml:"start,attr"`
	Duration float64 `xml:"dur,attr"`
	Body     string  `xml:",chardata"`
}

type trackListDoc struct {
	XMLName xml.Name    `xml:"transcript_list"`
	Tracks  []trackItem `xml:"track"`
}

type trackItem struct {
	LangCode string `xml:"lang_code,attr"`
}

// Fetch retrieves the transcript for a video, trying each preferred language
// in order and then any available track. Returns the raw segments and the
// language that was used.
func (c *TimedTextClient) Fetch(ctx context.Context, videoID string, languages []string) ([]RawSegment, string, error) {
	if len(languages) == 0 {
		languages = []string{"en", "en-US"}
	}

	for _, lang := range languages {
		segs, err := c.fetchLanguage(ctx, videoID, lang)
		if err == nil && len(segs) > 0 {
			return segs, lang, nil
		}
	}

	// Fall back to whatever track the video exposes.
	lang, err := c.firstAvailableLanguage(ctx, videoID)
	if err != nil {
		return nil, "", fmt.Errorf("no transcript for video %s: %w", videoID, err)
	}
	segs, err := c.fetchLanguage(ctx, videoID, lang)
	if err != nil {
		return nil, "", fmt.Errorf("fetch transcript (%s): %w", lang, err)
	}
	if len(segs) == 0 {
		return nil, "", fmt.Errorf("empty transcript for video %s", videoID)
	}
	return segs, lang, nil
}

func (c *TimedTextClient) fetchLanguage(ctx context.Context, videoID, lang string) ([]RawSegment, error) {
	q := url.Values{"v": {videoID}, "lang": {lang}}
	body, err := c.get(ctx, q)
	if err != nil {
		return nil, err
	}
	return parseTimedText(body)
}

func (c *TimedTextClient) firstAvailableLanguage(ctx context.Context, videoID string) (string, error) {
	q := url.Values{"v": {videoID}, "type": {"list"}}
	body, err := c.get(ctx, q)
	if err != nil {
		return "", err
	}
	var list trackListDoc
	if err := xml.Unmarshal(body, &list); err != nil {
		return "", fmt.Errorf("parse track list: %w", err)
	}
	if len(list.Tracks) == 0 {
		return "", fmt.Errorf("no caption tracks")
	}
	return list.Tracks[0].LangCode, nil
}

func (c *TimedTextClient) get(ctx context.Context, q url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("timedtext request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("timedtext status: %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

func parseTimedText(body []byte) ([]RawSegment, error) {
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, nil
	}
	var doc timedTextDoc
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("parse timedtext: %w", err)
	}
	segs := make([]RawSegment, 0, len(doc.Lines))
	for _, line := range doc.Lines {
		text := strings.TrimSpace(html.UnescapeString(line.Body))
		if text == "" || line.Duration <= 0 {
			continue
		}
		segs = append(segs, RawSegment{Start: line.Start, Duration: line.Duration, Text: text})
	}
	return segs, nil
}
