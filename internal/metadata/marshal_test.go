package metadata

import (
	"reflect"
	"testing"
	"time"

	"github.com/clipwise/backend/internal/models"
)

func TestClipItemRoundTrip(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	rec := models.StoredClipRecord{
		ClipID:          "vid42_000012_000042",
		VideoID:         "vid42",
		S3Key:           "clips/vid42_000012_000042/vid42_000012_000042.mp4",
		SignedURL:       "https://example.com/signed",
		StartTime:       12,
		EndTime:         42,
		Duration:        30,
		FileSize:        2048,
		FileSizeDisplay: "2.0 KB",
		Resolution:      "1280x720",
		InterestScore:   8,
		InterestReasons: []string{"question", "2 keywords"},
		TranscriptText:  "why does this always break",
		WordCount:       5,
		CharCount:       26,
		CreatedAt:       created,
		ExpiresAt:       created.Add(24 * time.Hour),
	}

	item, err := toItem(rec)
	if err != nil {
		t.Fatalf("toItem: %v", err)
	}
	got, err := fromItem(item)
	if err != nil {
		t.Fatalf("fromItem: %v", err)
	}
	if !reflect.DeepEqual(got, rec) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, rec)
	}
}

func TestFromItemSubSecondExpiryTruncated(t *testing.T) {
	rec := models.StoredClipRecord{
		ClipID:    "v_000000_000030",
		VideoID:   "v",
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		ExpiresAt: time.Now().UTC().Add(time.Hour).Truncate(time.Second).Add(400 * time.Millisecond),
	}
	item, err := toItem(rec)
	if err != nil {
		t.Fatalf("toItem: %v", err)
	}
	got, err := fromItem(item)
	if err != nil {
		t.Fatalf("fromItem: %v", err)
	}
	if got.ExpiresAt != rec.ExpiresAt.Truncate(time.Second) {
		t.Errorf("expiry = %s, want whole-second %s", got.ExpiresAt, rec.ExpiresAt.Truncate(time.Second))
	}
}
