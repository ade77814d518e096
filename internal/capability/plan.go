package capability

import (
	"fmt"

	"scribe/internal/media"
)

// Plan describes the ordered transformation required to make a file eligible
// for a backend: an optional format conversion followed by an optional
// size-constrained compression. Conversion runs first because compression
// ratios are format-dependent and converting can itself shrink the file.
type Plan struct {
	// Convert is set when the current format is not accepted by the backend.
	Convert bool
	// Target is the conversion target format when Convert is set.
	Target media.Format
	// Compress is set when the current size exceeds the backend ceiling.
	Compress bool
	// CeilingBytes is the size the compressed artifact must not exceed.
	CeilingBytes int64
}

// NoOp reports whether the file is already eligible as-is.
func (p Plan) NoOp() bool {
	return !p.Convert && !p.Compress
}

// compressionTarget is the conversion target for ineligible formats: every
// backend accepts mp3 and it compresses far better than wav.
const compressionTarget = media.FormatMP3

// PlanTransform computes the transformation needed for a file with the given
// format and size to become eligible for the backend. A zero Plan means the
// file is already eligible.
func PlanTransform(format media.Format, sizeBytes int64, backend Backend) (Plan, error) {
	limits, ok := backendLimits[backend]
	if !ok {
		return Plan{}, fmt.Errorf("unknown backend %q", backend)
	}

	var plan Plan
	if !backend.Accepts(format) {
		plan.Convert = true
		plan.Target = compressionTarget
	}
	if sizeBytes > limits.MaxBytes {
		plan.Compress = true
		plan.CeilingBytes = limits.MaxBytes
	}
	return plan, nil
}
