package utils

import "testing"

func TestFormatTimestamp(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00"},
		{59.9, "00:00:59"},
		{61, "00:01:01"},
		{3600, "01:00:00"},
		{3725.4, "01:02:05"},
	}
	for _, tc := range cases {
		if got := FormatTimestamp(tc.seconds); got != tc.want {
			t.Errorf("FormatTimestamp(%v) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestClipIDDeterministic(t *testing.T) {
	a := ClipID("abc123", 12.7, 42.7)
	b := ClipID("abc123", 12.9, 42.1)
	if a != b {
		t.Fatalf("clip IDs differ for same whole-second window: %q vs %q", a, b)
	}
	if a != "abc123_000012_000042" {
		t.Fatalf("unexpected clip ID: %q", a)
	}
}

func TestFormatFileSize(t *testing.T) {
	cases := []struct {
		size int64
		want string
	}{
		{0, "0B"},
		{512, "512.0B"},
		{1024, "1.0KB"},
		{1536, "1.5KB"},
		{5 * 1024 * 1024, "5.0MB"},
		{3 * 1024 * 1024 * 1024, "3.0GB"},
	}
	for _, tc := range cases {
		if got := FormatFileSize(tc.size); got != tc.want {
			t.Errorf("FormatFileSize(%d) = %q, want %q", tc.size, got, tc.want)
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	got := SanitizeFilename(`a<b>:c"/d\e|f?g*.mp4`)
	want := "a_b__c__d_e_f_g_.mp4"
	if got != want {
		t.Errorf("SanitizeFilename = %q, want %q", got, want)
	}

	long := make([]rune, 150)
	for i := range long {
		long[i] = 'x'
	}
	if got := SanitizeFilename(string(long)); len([]rune(got)) != 100 {
		t.Errorf("expected 100-rune cap, got %d", len([]rune(got)))
	}
}
