package catalog

import (
	"context"
	"fmt"
	"os"

	"scribe/internal/media"
	"scribe/internal/media/ffprobe"
	"scribe/internal/services"
)

// Prober extracts metadata for a single audio file.
type Prober interface {
	Probe(ctx context.Context, path string) (Metadata, error)
}

// ProberFunc adapts a function to the Prober interface.
type ProberFunc func(ctx context.Context, path string) (Metadata, error)

// Probe implements Prober.
func (f ProberFunc) Probe(ctx context.Context, path string) (Metadata, error) {
	return f(ctx, path)
}

// FFprobeProber probes files by shelling out to ffprobe.
type FFprobeProber struct {
	Binary string
	Runner ffprobe.Runner
}

// Probe stats the file and inspects it with ffprobe. Unreadable or
// undecodable files yield a probe-tagged error.
func (p *FFprobeProber) Probe(ctx context.Context, path string) (Metadata, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Metadata{}, services.Wrap(services.ErrProbe, "", "stat", path, err)
	}
	if info.IsDir() {
		return Metadata{}, services.Wrap(services.ErrProbe, "", "stat", fmt.Sprintf("%s is a directory", path), nil)
	}

	result, err := ffprobe.InspectWith(ctx, p.Runner, p.Binary, path)
	if err != nil {
		return Metadata{}, services.Wrap(services.ErrProbe, "", "inspect", path, err)
	}
	if result.AudioStreamCount() == 0 {
		return Metadata{}, services.Wrap(services.ErrProbe, "", "inspect", fmt.Sprintf("%s has no audio stream", path), nil)
	}
	format, ok := media.FormatFromProbe(result.Format.FormatName, path)
	if !ok {
		return Metadata{}, services.Wrap(services.ErrProbe, "", "inspect", fmt.Sprintf("%s: unsupported container %q", path, result.Format.FormatName), nil)
	}

	meta := Metadata{
		SizeBytes: info.Size(),
		ModTime:   info.ModTime(),
		Format:    format,
	}
	if duration, ok := result.DurationSeconds(); ok {
		meta.Duration = duration
		meta.DurationKnown = true
	}
	// ffprobe sometimes reports a stale size for files being written; the
	// stat size is authoritative.
	if meta.SizeBytes == 0 {
		meta.SizeBytes = result.SizeBytes()
	}
	return meta, nil
}
