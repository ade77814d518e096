package catalog

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// SortKey names the attribute a listing is ordered by.
type SortKey string

const (
	SortByName     SortKey = "name"
	SortBySize     SortKey = "size"
	SortByDuration SortKey = "duration"
	SortByModified SortKey = "modified"
	SortByFormat   SortKey = "format"
)

// SortKeys returns every supported sort key.
func SortKeys() []SortKey {
	return []SortKey{SortByName, SortBySize, SortByDuration, SortByModified, SortByFormat}
}

// ParseSortKey validates a user-supplied sort key name.
func ParseSortKey(value string) (SortKey, error) {
	cleaned := SortKey(strings.ToLower(strings.TrimSpace(value)))
	for _, key := range SortKeys() {
		if cleaned == key {
			return key, nil
		}
	}
	return "", fmt.Errorf("unknown sort key %q", value)
}

// SortSpec selects a single active sort key and direction. Ties always break
// by path ascending so orderings are deterministic.
type SortSpec struct {
	Key        SortKey
	Descending bool
}

// Sort orders files in place according to the spec. Files with unknown
// duration sort before any known duration when sorting ascending by duration.
func Sort(files []File, spec SortSpec) {
	key := spec.Key
	if key == "" {
		key = SortByName
	}
	sort.SliceStable(files, func(i, j int) bool {
		a, b := files[i], files[j]
		less, equal := compare(a, b, key)
		if equal {
			return a.Path < b.Path
		}
		if spec.Descending {
			return !less
		}
		return less
	})
}

func compare(a, b File, key SortKey) (less, equal bool) {
	switch key {
	case SortBySize:
		return a.Metadata.SizeBytes < b.Metadata.SizeBytes, a.Metadata.SizeBytes == b.Metadata.SizeBytes
	case SortByDuration:
		da, db := durationRank(a), durationRank(b)
		return da < db, da == db
	case SortByModified:
		return a.Metadata.ModTime.Before(b.Metadata.ModTime), a.Metadata.ModTime.Equal(b.Metadata.ModTime)
	case SortByFormat:
		fa, fb := string(a.Metadata.Format), string(b.Metadata.Format)
		return fa < fb, fa == fb
	default: // SortByName
		na, nb := filepath.Base(a.Path), filepath.Base(b.Path)
		return na < nb, na == nb
	}
}

func durationRank(f File) float64 {
	if !f.Metadata.DurationKnown {
		return -1
	}
	return f.Metadata.Duration
}
