package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"scribe/internal/capability"
	"scribe/internal/media"
	"scribe/internal/services"
)

// scenarioProber serves canned metadata for the three-file scenario:
// a.wav 10MB/2min, b.mp3 30MB/1min, c.m4a 5MB/10min.
func scenarioProber(t *testing.T, dir string) (*countingProber, map[string]string) {
	t.Helper()
	paths := map[string]string{
		"a.wav": writeFile(t, dir, "a.wav", "wav"),
		"b.mp3": writeFile(t, dir, "b.mp3", "mp3"),
		"c.m4a": writeFile(t, dir, "c.m4a", "m4a"),
	}
	base := time.Now().Add(-time.Hour).Truncate(time.Second)
	for i, name := range []string{"a.wav", "b.mp3", "c.m4a"} {
		stamp := base.Add(time.Duration(i) * time.Minute)
		if err := os.Chtimes(paths[name], stamp, stamp); err != nil {
			t.Fatalf("chtimes: %v", err)
		}
	}
	stat := func(name string) time.Time {
		info, err := os.Stat(paths[name])
		if err != nil {
			t.Fatalf("stat: %v", err)
		}
		return info.ModTime()
	}
	return &countingProber{meta: map[string]Metadata{
		paths["a.wav"]: {SizeBytes: 10 << 20, ModTime: stat("a.wav"), Format: media.FormatWAV, Duration: 120, DurationKnown: true},
		paths["b.mp3"]: {SizeBytes: 30 << 20, ModTime: stat("b.mp3"), Format: media.FormatMP3, Duration: 60, DurationKnown: true},
		paths["c.m4a"]: {SizeBytes: 5 << 20, ModTime: stat("c.m4a"), Format: media.FormatM4A, Duration: 600, DurationKnown: true},
	}}, paths
}

func TestListScenarioFilterAndSort(t *testing.T) {
	dir := t.TempDir()
	prober, paths := scenarioProber(t, dir)
	index := NewIndex(dir, prober, nil)

	got, err := index.List(context.Background(), FilterSpec{MinSizeBytes: i64(8 << 20)}, SortSpec{Key: SortByName})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].Path != paths["a.wav"] || got[1].Path != paths["b.mp3"] {
		t.Fatalf("min_size=8MB should keep a.wav and b.mp3, got %v", listPaths(got))
	}

	got, err = index.List(context.Background(), FilterSpec{}, SortSpec{Key: SortByDuration, Descending: true})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{paths["c.m4a"], paths["a.wav"], paths["b.mp3"]}
	for i := range want {
		if got[i].Path != want[i] {
			t.Fatalf("duration desc order wrong: %v", listPaths(got))
		}
	}
}

func TestListAnnotatesEligibility(t *testing.T) {
	dir := t.TempDir()
	prober, paths := scenarioProber(t, dir)
	index := NewIndex(dir, prober, nil)

	files, err := index.List(context.Background(), FilterSpec{}, SortSpec{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	byPath := map[string]File{}
	for _, f := range files {
		byPath[f.Path] = f
	}

	// b.mp3 is 30MB: format-eligible for both backends but size-ineligible everywhere.
	if b := byPath[paths["b.mp3"]]; len(b.Backends) != 0 {
		t.Fatalf("oversized mp3 should be eligible nowhere, got %v", b.Backends)
	}
	// a.wav 10MB: both backends.
	if a := byPath[paths["a.wav"]]; !a.EligibleFor(capability.SpeechToText) || !a.EligibleFor(capability.MultimodalCompletion) {
		t.Fatalf("10MB wav should be eligible for both, got %v", a.Backends)
	}
	// c.m4a 5MB: whisper only.
	c := byPath[paths["c.m4a"]]
	if !c.EligibleFor(capability.SpeechToText) || c.EligibleFor(capability.MultimodalCompletion) {
		t.Fatalf("m4a should be whisper-only, got %v", c.Backends)
	}
}

func TestListExcludesUnprobeableFiles(t *testing.T) {
	dir := t.TempDir()
	prober, _ := scenarioProber(t, dir)
	broken := writeFile(t, dir, "broken.mp3", "junk")
	probeErr := services.Wrap(services.ErrProbe, "", "inspect", "undecodable", nil)
	failing := ProberFunc(func(ctx context.Context, path string) (Metadata, error) {
		if path == broken {
			return Metadata{}, probeErr
		}
		return prober.Probe(ctx, path)
	})
	index := NewIndex(dir, failing, nil)

	files, err := index.List(context.Background(), FilterSpec{}, SortSpec{})
	if err != nil {
		t.Fatalf("per-file probe failure must not fail the listing: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("expected 3 probeable files, got %d", len(files))
	}
	for _, f := range files {
		if f.Path == broken {
			t.Fatal("unprobeable file leaked into listing")
		}
	}
}

func TestListSkipsDirectoriesAndUnsupportedExtensions(t *testing.T) {
	dir := t.TempDir()
	prober, _ := scenarioProber(t, dir)
	writeFile(t, dir, "notes.txt", "text")
	if err := os.Mkdir(filepath.Join(dir, "nested.mp3"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	index := NewIndex(dir, prober, nil)

	files, err := index.List(context.Background(), FilterSpec{}, SortSpec{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("expected only the 3 audio files, got %v", listPaths(files))
	}
}

func TestListMissingRootIsStructural(t *testing.T) {
	index := NewIndex(filepath.Join(t.TempDir(), "gone"), &countingProber{}, nil)
	_, err := index.List(context.Background(), FilterSpec{}, SortSpec{})
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
	if !services.Structural(err) {
		t.Fatal("missing root must be structural")
	}
}

func TestLatest(t *testing.T) {
	dir := t.TempDir()
	prober, paths := scenarioProber(t, dir)
	index := NewIndex(dir, prober, nil)

	latest, err := index.Latest(context.Background())
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest.Path != paths["c.m4a"] {
		t.Fatalf("expected most recently modified c.m4a, got %s", latest.Path)
	}
}

func TestLatestEmptyDirectory(t *testing.T) {
	index := NewIndex(t.TempDir(), &countingProber{}, nil)
	_, err := index.Latest(context.Background())
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestListReflectsLiveState(t *testing.T) {
	dir := t.TempDir()
	prober, _ := scenarioProber(t, dir)
	caching := NewCachingProber(ProberFunc(prober.Probe), NewCache(0))
	index := NewIndex(dir, caching, nil)

	before, err := index.List(context.Background(), FilterSpec{}, SortSpec{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	writeFile(t, dir, "d.webm", "webm")
	after, err := index.List(context.Background(), FilterSpec{}, SortSpec{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(after) != len(before)+1 {
		t.Fatalf("new file should appear on next scan: before %d after %d", len(before), len(after))
	}
}

func listPaths(files []File) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	return out
}
