package clipper

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/clipwise/backend/internal/models"
)

type fakeDownloader struct {
	err   error
	calls int
}

func (f *fakeDownloader) Download(_ context.Context, _, destPath string) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(destPath, []byte("source"), 0o644)
}

type fakeCutter struct {
	mu      sync.Mutex
	failFor map[string]error // keyed by outPath suffix match via clip id
	cuts    []string
}

func (f *fakeCutter) Cut(_ context.Context, _, outPath string, _, _ float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, err := range f.failFor {
		if strings.Contains(outPath, id) {
			return err
		}
	}
	f.cuts = append(f.cuts, outPath)
	return os.WriteFile(outPath, []byte("clip"), 0o644)
}

func (f *fakeCutter) Preview(_ context.Context, _, outPath string, _ float64) error {
	return os.WriteFile(outPath, []byte("preview"), 0o644)
}

type fakeProber struct {
	err error
}

func (f *fakeProber) Probe(_ context.Context, _ string) (ProbeInfo, error) {
	if f.err != nil {
		return ProbeInfo{}, f.err
	}
	return ProbeInfo{FileSize: 4, Resolution: "1280x720"}, nil
}

func suggestion(id string, start, end float64) models.ClipSuggestion {
	return models.ClipSuggestion{
		ClipID:    id,
		VideoID:   "vid1",
		StartTime: start,
		EndTime:   end,
		Duration:  end - start,
	}
}

func TestAssembleDownloadsOnceAndRemovesSource(t *testing.T) {
	dl := &fakeDownloader{}
	a := NewAssembler(dl, &fakeCutter{}, &fakeProber{}, t.TempDir(), 30, 2, nil)

	artifacts, failures, err := a.Assemble(context.Background(), "url", "vid1", []models.ClipSuggestion{
		suggestion("clip_a", 0, 20),
		suggestion("clip_b", 40, 60),
		suggestion("clip_c", 80, 100),
	})
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if dl.calls != 1 {
		t.Errorf("download called %d times, want 1", dl.calls)
	}
	if len(artifacts) != 3 || len(failures) != 0 {
		t.Fatalf("artifacts=%d failures=%d", len(artifacts), len(failures))
	}
	for _, art := range artifacts {
		if art.FileSize != 4 || art.Resolution != "1280x720" {
			t.Errorf("artifact metadata = %+v", art)
		}
		if _, err := os.Stat(art.FilePath); err != nil {
			t.Errorf("clip file missing: %v", err)
		}
	}

	// Shared source file must not outlive the run.
	entries, _ := os.ReadDir(a.workDir)
	for _, e := range entries {
		if strings.Contains(e.Name(), "source_") {
			t.Errorf("source file left behind: %s", e.Name())
		}
	}
}

func TestAssembleIsolatesSingleFailure(t *testing.T) {
	cutter := &fakeCutter{failFor: map[string]error{"clip_b": errors.New("transcode boom")}}
	a := NewAssembler(&fakeDownloader{}, cutter, &fakeProber{}, t.TempDir(), 30, 1, nil)

	artifacts, failures, err := a.Assemble(context.Background(), "url", "vid1", []models.ClipSuggestion{
		suggestion("clip_a", 0, 20),
		suggestion("clip_b", 40, 60),
		suggestion("clip_c", 80, 100),
	})
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if len(artifacts) != 2 {
		t.Fatalf("artifacts = %d, want 2 (exactly N-1)", len(artifacts))
	}
	if len(failures) != 1 || failures[0].ClipID != "clip_b" || failures[0].Stage != StageExtract {
		t.Fatalf("failures = %+v", failures)
	}
}

func TestAssembleFatalOnDownloadFailure(t *testing.T) {
	dl := &fakeDownloader{err: errors.New("video unavailable")}
	a := NewAssembler(dl, &fakeCutter{}, &fakeProber{}, t.TempDir(), 30, 2, nil)

	_, _, err := a.Assemble(context.Background(), "url", "vid1", []models.ClipSuggestion{
		suggestion("clip_a", 0, 20),
	})
	if err == nil {
		t.Fatal("expected fatal error when source download fails")
	}
}

func TestAssembleRevalidatesDuration(t *testing.T) {
	cutter := &fakeCutter{}
	a := NewAssembler(&fakeDownloader{}, cutter, &fakeProber{}, t.TempDir(), 30, 1, nil)

	artifacts, failures, err := a.Assemble(context.Background(), "url", "vid1", []models.ClipSuggestion{
		suggestion("clip_long", 0, 45), // over the cap; must not reach the cutter
		suggestion("clip_ok", 0, 20),
	})
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if len(artifacts) != 1 || artifacts[0].ClipID != "clip_ok" {
		t.Fatalf("artifacts = %+v", artifacts)
	}
	if len(failures) != 1 || failures[0].ClipID != "clip_long" {
		t.Fatalf("failures = %+v", failures)
	}
	if len(cutter.cuts) != 1 {
		t.Errorf("cutter invoked %d times, want 1", len(cutter.cuts))
	}
}

func TestAssembleProbeFailureKeepsClip(t *testing.T) {
	a := NewAssembler(&fakeDownloader{}, &fakeCutter{}, &fakeProber{err: errors.New("probe boom")}, t.TempDir(), 30, 1, nil)

	artifacts, failures, err := a.Assemble(context.Background(), "url", "vid1", []models.ClipSuggestion{
		suggestion("clip_a", 0, 20),
	})
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if len(failures) != 0 {
		t.Fatalf("failures = %+v", failures)
	}
	if len(artifacts) != 1 {
		t.Fatalf("artifacts = %d, want 1", len(artifacts))
	}
	if artifacts[0].FileSize != 0 || artifacts[0].Resolution != "unknown" {
		t.Errorf("placeholder metadata not applied: %+v", artifacts[0])
	}
}
