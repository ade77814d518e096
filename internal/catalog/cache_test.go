package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"scribe/internal/media"
)

type countingProber struct {
	calls map[string]int
	meta  map[string]Metadata
	err   error
}

func (p *countingProber) Probe(ctx context.Context, path string) (Metadata, error) {
	if p.calls == nil {
		p.calls = make(map[string]int)
	}
	p.calls[path]++
	if p.err != nil {
		return Metadata{}, p.err
	}
	if meta, ok := p.meta[path]; ok {
		return meta, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return Metadata{}, err
	}
	return Metadata{SizeBytes: info.Size(), ModTime: info.ModTime(), Format: media.FormatMP3, Duration: 1, DurationKnown: true}, nil
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestCachingProberProbesOncePerUnmodifiedFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.mp3", "aaa")

	inner := &countingProber{}
	prober := NewCachingProber(inner, NewCache(0))

	first, err := prober.Probe(context.Background(), path)
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	second, err := prober.Probe(context.Background(), path)
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if inner.calls[path] != 1 {
		t.Fatalf("expected a single decode, got %d", inner.calls[path])
	}
	if first != second {
		t.Fatalf("cache hit should return identical metadata: %+v vs %+v", first, second)
	}
}

func TestCachingProberReprobesAfterModTimeChange(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.mp3", "aaa")

	inner := &countingProber{}
	prober := NewCachingProber(inner, NewCache(0))

	if _, err := prober.Probe(context.Background(), path); err != nil {
		t.Fatalf("probe: %v", err)
	}

	touched := time.Now().Add(2 * time.Hour)
	if err := os.Chtimes(path, touched, touched); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	if _, err := prober.Probe(context.Background(), path); err != nil {
		t.Fatalf("probe: %v", err)
	}
	if inner.calls[path] != 2 {
		t.Fatalf("expected re-probe after touch, got %d calls", inner.calls[path])
	}
	if prober.Cache().Len() != 1 {
		t.Fatalf("replacement must not grow the cache: %d entries", prober.Cache().Len())
	}
}

func TestCachingProberDoesNotCacheFailures(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.mp3", "aaa")

	inner := &countingProber{err: os.ErrPermission}
	prober := NewCachingProber(inner, NewCache(0))

	if _, err := prober.Probe(context.Background(), path); err == nil {
		t.Fatal("expected probe failure")
	}
	if prober.Cache().Len() != 0 {
		t.Fatal("failures must not be cached")
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	cache := NewCache(2)
	now := time.Now()
	for _, path := range []string{"/a", "/b", "/c"} {
		cache.Put(path, Metadata{ModTime: now})
	}
	if cache.Len() != 2 {
		t.Fatalf("expected cap of 2, got %d", cache.Len())
	}
	if _, ok := cache.Get("/a", now); ok {
		t.Fatal("oldest entry should have been evicted")
	}
	if _, ok := cache.Get("/c", now); !ok {
		t.Fatal("newest entry should remain")
	}
}

func TestCacheInvalidateAndReset(t *testing.T) {
	cache := NewCache(0)
	now := time.Now()
	cache.Put("/a", Metadata{ModTime: now})
	cache.Put("/b", Metadata{ModTime: now})

	cache.Invalidate("/a")
	if _, ok := cache.Get("/a", now); ok {
		t.Fatal("invalidated entry should miss")
	}
	cache.Reset()
	if cache.Len() != 0 {
		t.Fatalf("reset should empty the cache, got %d", cache.Len())
	}
}
