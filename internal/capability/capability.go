package capability

import (
	"fmt"
	"strings"

	"scribe/internal/media"
)

// Backend identifies one of the two external transcription services. The set
// is closed: each backend's accepted formats and size ceiling are service
// contract constants, not runtime-discovered.
type Backend string

const (
	// SpeechToText is the dedicated speech-to-text service (Whisper).
	SpeechToText Backend = "speech_to_text"
	// MultimodalCompletion is the audio-capable chat completion service (GPT-4o audio).
	MultimodalCompletion Backend = "multimodal_completion"
)

// MaxUploadBytes is the upload ceiling shared by both backends.
const MaxUploadBytes int64 = 25 << 20

// Limits describes what a backend accepts.
type Limits struct {
	Formats  []media.Format
	MaxBytes int64
}

var backendLimits = map[Backend]Limits{
	SpeechToText: {
		Formats:  []media.Format{media.FormatMP3, media.FormatMP4, media.FormatMPEG, media.FormatMPGA, media.FormatM4A, media.FormatWAV, media.FormatWebM},
		MaxBytes: MaxUploadBytes,
	},
	MultimodalCompletion: {
		Formats:  []media.Format{media.FormatMP3, media.FormatWAV},
		MaxBytes: MaxUploadBytes,
	},
}

// Backends returns every known backend in a stable order.
func Backends() []Backend {
	return []Backend{SpeechToText, MultimodalCompletion}
}

// ParseBackend validates a user-supplied backend name.
func ParseBackend(value string) (Backend, error) {
	cleaned := Backend(strings.ToLower(strings.TrimSpace(value)))
	for _, backend := range Backends() {
		if cleaned == backend {
			return backend, nil
		}
	}
	return "", fmt.Errorf("unknown backend %q", value)
}

// LimitsFor returns the accepted formats and size ceiling for a backend.
func LimitsFor(backend Backend) (Limits, error) {
	limits, ok := backendLimits[backend]
	if !ok {
		return Limits{}, fmt.Errorf("unknown backend %q", backend)
	}
	return limits, nil
}

// Accepts reports whether the backend accepts the container format.
func (b Backend) Accepts(format media.Format) bool {
	limits, ok := backendLimits[b]
	if !ok {
		return false
	}
	for _, accepted := range limits.Formats {
		if accepted == format {
			return true
		}
	}
	return false
}

// Eligible reports whether a file with the given format and size can be sent
// to the backend without transformation.
func Eligible(backend Backend, format media.Format, sizeBytes int64) bool {
	limits, ok := backendLimits[backend]
	if !ok {
		return false
	}
	return backend.Accepts(format) && sizeBytes <= limits.MaxBytes
}

// Resolve returns the set of backends the file is eligible for, in stable order.
func Resolve(format media.Format, sizeBytes int64) []Backend {
	var eligible []Backend
	for _, backend := range Backends() {
		if Eligible(backend, format, sizeBytes) {
			eligible = append(eligible, backend)
		}
	}
	return eligible
}
