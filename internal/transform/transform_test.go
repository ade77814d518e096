package transform

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"scribe/internal/config"
	"scribe/internal/media"
	"scribe/internal/services"
)

func newTestPipeline(t *testing.T) (*Pipeline, string) {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.WorkDir = t.TempDir()
	cfg.Compression = config.Compression{
		DefaultCeilingMB: 25,
		StartBitrateKbps: 128,
		MinBitrateKbps:   32,
		MaxAttempts:      6,
	}
	return New(&cfg, nil), cfg.Paths.WorkDir
}

func writeSource(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("source-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// fakeEncoder writes the output file (final arg) sized as bitrate*1000 bytes.
func fakeEncoder(t *testing.T, bitrates *[]int) Runner {
	t.Helper()
	return func(ctx context.Context, name string, args ...string) error {
		output := args[len(args)-1]
		size := 1000
		for i, arg := range args {
			if arg == "-b:a" && i+1 < len(args) {
				kbps, err := strconv.Atoi(strings.TrimSuffix(args[i+1], "k"))
				if err != nil {
					t.Fatalf("bad bitrate arg %q", args[i+1])
				}
				if bitrates != nil {
					*bitrates = append(*bitrates, kbps)
				}
				size = kbps * 1000
			}
		}
		return os.WriteFile(output, make([]byte, size), 0o644)
	}
}

func TestConvertProducesSiblingArtifact(t *testing.T) {
	pipeline, _ := newTestPipeline(t)
	source := writeSource(t, "take.m4a")

	var gotArgs []string
	pipeline.WithRunner(func(ctx context.Context, name string, args ...string) error {
		gotArgs = args
		return os.WriteFile(args[len(args)-1], []byte("converted"), 0o644)
	})

	artifact, err := pipeline.Convert(context.Background(), source, media.FormatMP3)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	want := filepath.Join(filepath.Dir(source), "take.mp3")
	if artifact != want {
		t.Fatalf("artifact path: got %q want %q", artifact, want)
	}
	if data, err := os.ReadFile(source); err != nil || string(data) != "source-bytes" {
		t.Fatalf("source must be untouched: %q %v", data, err)
	}
	joined := strings.Join(gotArgs, " ")
	if !strings.Contains(joined, "-i "+source) || !strings.Contains(joined, "-vn") {
		t.Fatalf("unexpected ffmpeg args: %v", gotArgs)
	}
}

func TestConvertRejectsIdenticalTarget(t *testing.T) {
	pipeline, _ := newTestPipeline(t)
	source := writeSource(t, "take.mp3")
	_, err := pipeline.Convert(context.Background(), source, media.FormatMP3)
	if !errors.Is(err, services.ErrConversion) {
		t.Fatalf("expected conversion error, got %v", err)
	}
}

func TestConvertCleansUpOnEncoderFailure(t *testing.T) {
	pipeline, _ := newTestPipeline(t)
	source := writeSource(t, "take.m4a")
	pipeline.WithRunner(func(ctx context.Context, name string, args ...string) error {
		output := args[len(args)-1]
		_ = os.WriteFile(output, []byte("partial"), 0o644)
		return fmt.Errorf("exit status 1")
	})

	_, err := pipeline.Convert(context.Background(), source, media.FormatWAV)
	if !errors.Is(err, services.ErrConversion) {
		t.Fatalf("expected conversion error, got %v", err)
	}
	leftover := filepath.Join(filepath.Dir(source), "take.wav")
	if _, err := os.Stat(leftover); !os.IsNotExist(err) {
		t.Fatal("partial artifact should be removed on failure")
	}
}

func TestCompressSucceedsAtStartBitrate(t *testing.T) {
	pipeline, _ := newTestPipeline(t)
	source := writeSource(t, "long.wav")
	pipeline.WithRunner(fakeEncoder(t, nil))

	artifact, err := pipeline.Compress(context.Background(), source, 200_000)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	want := filepath.Join(filepath.Dir(source), "long_compressed.mp3")
	if artifact != want {
		t.Fatalf("artifact path: got %q want %q", artifact, want)
	}
	info, err := os.Stat(artifact)
	if err != nil {
		t.Fatalf("artifact missing: %v", err)
	}
	if info.Size() > 200_000 {
		t.Fatalf("oversized success: %d bytes", info.Size())
	}
}

func TestCompressNarrowsTowardFloor(t *testing.T) {
	pipeline, _ := newTestPipeline(t)
	source := writeSource(t, "long.wav")
	var bitrates []int
	pipeline.WithRunner(fakeEncoder(t, &bitrates))

	// Only encodings at <= 44kbps fit: forces several narrowing steps.
	artifact, err := pipeline.Compress(context.Background(), source, 44_000)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if len(bitrates) < 2 {
		t.Fatalf("expected iterative search, got attempts %v", bitrates)
	}
	for i := 1; i < len(bitrates); i++ {
		if bitrates[i] >= bitrates[i-1] {
			t.Fatalf("bitrates must strictly decrease: %v", bitrates)
		}
	}
	info, err := os.Stat(artifact)
	if err != nil || info.Size() > 44_000 {
		t.Fatalf("result must fit ceiling: %v size=%d", err, info.Size())
	}
}

func TestCompressFailsWhenFloorStillOversized(t *testing.T) {
	pipeline, workDir := newTestPipeline(t)
	source := writeSource(t, "long.wav")
	var bitrates []int
	pipeline.WithRunner(fakeEncoder(t, &bitrates))

	_, err := pipeline.Compress(context.Background(), source, 10_000)
	if !errors.Is(err, services.ErrCompression) {
		t.Fatalf("expected compression error, got %v", err)
	}
	if got := bitrates[len(bitrates)-1]; got != 32 {
		t.Fatalf("search should bottom out at the floor, last attempt %d", got)
	}
	artifact := filepath.Join(filepath.Dir(source), "long_compressed.mp3")
	if _, err := os.Stat(artifact); !os.IsNotExist(err) {
		t.Fatal("failed compression must not leave an artifact")
	}
	entries, err := os.ReadDir(workDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("temp attempts should be cleaned up, found %d", len(entries))
	}
}

func TestCompressAttemptBudgetBoundsSearch(t *testing.T) {
	pipeline, _ := newTestPipeline(t)
	source := writeSource(t, "long.wav")
	attempts := 0
	pipeline.WithRunner(func(ctx context.Context, name string, args ...string) error {
		attempts++
		// Always oversized regardless of bitrate.
		return os.WriteFile(args[len(args)-1], make([]byte, 1<<20), 0o644)
	})

	_, err := pipeline.Compress(context.Background(), source, 1)
	if !errors.Is(err, services.ErrCompression) {
		t.Fatalf("expected compression error, got %v", err)
	}
	if attempts > 6 {
		t.Fatalf("attempt budget exceeded: %d", attempts)
	}
}

func TestCompressRejectsNonPositiveCeiling(t *testing.T) {
	pipeline, _ := newTestPipeline(t)
	source := writeSource(t, "long.wav")
	_, err := pipeline.Compress(context.Background(), source, 0)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
