package catalog

import (
	"path/filepath"
	"regexp"
	"time"

	"scribe/internal/media"
	"scribe/internal/services"
)

// FilterSpec is a conjunction of optional constraints applied to listing
// results. Absent fields leave the result unconstrained; numeric and time
// ranges are inclusive at both ends.
type FilterSpec struct {
	// Pattern is a regular expression matched against the file's basename.
	Pattern            string
	MinSizeBytes       *int64
	MaxSizeBytes       *int64
	MinDurationSeconds *float64
	MaxDurationSeconds *float64
	ModifiedAfter      *time.Time
	ModifiedBefore     *time.Time
	Format             *media.Format
}

type compiledFilter struct {
	spec    FilterSpec
	pattern *regexp.Regexp
}

// Compile validates the spec up front so an invalid pattern fails the whole
// call before any per-file work begins.
func (s FilterSpec) Compile() (*compiledFilter, error) {
	filter := &compiledFilter{spec: s}
	if s.Pattern != "" {
		pattern, err := regexp.Compile(s.Pattern)
		if err != nil {
			return nil, services.Wrap(services.ErrValidation, "", "filter", "invalid pattern", err)
		}
		filter.pattern = pattern
	}
	return filter, nil
}

// Matches applies every present constraint. A duration bound on a file whose
// duration could not be probed fails the constraint: the filter promises a
// range, and an unknown duration cannot satisfy it.
func (f *compiledFilter) Matches(file File) bool {
	meta := file.Metadata
	if f.pattern != nil && !f.pattern.MatchString(filepath.Base(file.Path)) {
		return false
	}
	if f.spec.MinSizeBytes != nil && meta.SizeBytes < *f.spec.MinSizeBytes {
		return false
	}
	if f.spec.MaxSizeBytes != nil && meta.SizeBytes > *f.spec.MaxSizeBytes {
		return false
	}
	if f.spec.MinDurationSeconds != nil || f.spec.MaxDurationSeconds != nil {
		if !meta.DurationKnown {
			return false
		}
		if f.spec.MinDurationSeconds != nil && meta.Duration < *f.spec.MinDurationSeconds {
			return false
		}
		if f.spec.MaxDurationSeconds != nil && meta.Duration > *f.spec.MaxDurationSeconds {
			return false
		}
	}
	if f.spec.ModifiedAfter != nil && meta.ModTime.Before(*f.spec.ModifiedAfter) {
		return false
	}
	if f.spec.ModifiedBefore != nil && meta.ModTime.After(*f.spec.ModifiedBefore) {
		return false
	}
	if f.spec.Format != nil && meta.Format != *f.spec.Format {
		return false
	}
	return true
}
