package catalog

import (
	"time"

	"scribe/internal/capability"
	"scribe/internal/media"
)

// Metadata is the probe snapshot for a single audio file. It is immutable
// once built; the cache replaces whole snapshots, never fields.
type Metadata struct {
	SizeBytes int64
	ModTime   time.Time
	Format    media.Format
	// Duration is the container duration in seconds. DurationKnown is false
	// when the demuxer reported no usable duration.
	Duration      float64
	DurationKnown bool
}

// File is one annotated record in a directory listing. Identity is the
// absolute path; records are rebuilt on every scan and never persisted.
type File struct {
	Path     string
	Metadata Metadata
	// Backends lists the transcription backends the file is eligible for
	// without transformation.
	Backends []capability.Backend
}

// EligibleFor reports whether the file can be sent to the backend as-is.
func (f File) EligibleFor(backend capability.Backend) bool {
	for _, b := range f.Backends {
		if b == backend {
			return true
		}
	}
	return false
}

func newFile(path string, meta Metadata) File {
	return File{
		Path:     path,
		Metadata: meta,
		Backends: capability.Resolve(meta.Format, meta.SizeBytes),
	}
}
