package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrProbe           = errors.New("probe error")
	ErrConversion      = errors.New("conversion error")
	ErrCompression     = errors.New("compression error")
	ErrCapability      = errors.New("capability error")
	ErrExternalService = errors.New("external service error")
	ErrValidation      = errors.New("validation error")
	ErrConfiguration   = errors.New("configuration error")
	ErrNotFound        = errors.New("not found")
)

// Wrap builds an error message that includes tool context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, tool, operation, message string, err error) error {
	detail := buildDetail(tool, operation, message)
	if marker == nil {
		marker = ErrExternalService
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind is the wire-friendly classification of a toolkit error.
type Kind string

const (
	KindProbe           Kind = "probe"
	KindConversion      Kind = "conversion"
	KindCompression     Kind = "compression"
	KindCapability      Kind = "capability"
	KindExternalService Kind = "external_service"
	KindValidation      Kind = "validation"
	KindConfiguration   Kind = "configuration"
	KindNotFound        Kind = "not_found"
	KindUnknown         Kind = "unknown"
)

// Classify maps an error to its taxonomy kind so per-file batch outcomes can
// carry a typed failure descriptor across the IPC boundary.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrProbe):
		return KindProbe
	case errors.Is(err, ErrConversion):
		return KindConversion
	case errors.Is(err, ErrCompression):
		return KindCompression
	case errors.Is(err, ErrCapability):
		return KindCapability
	case errors.Is(err, ErrExternalService):
		return KindExternalService
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrConfiguration):
		return KindConfiguration
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	default:
		return KindUnknown
	}
}

// Structural reports whether the error should fail a whole call before any
// per-file work begins, as opposed to being captured in a per-file slot.
func Structural(err error) bool {
	switch Classify(err) {
	case KindValidation, KindConfiguration, KindNotFound:
		return true
	default:
		return false
	}
}

func buildDetail(tool, operation, message string) string {
	parts := make([]string, 0, 3)
	if tool = strings.TrimSpace(tool); tool != "" {
		parts = append(parts, tool)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
