package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteAudioFile creates a file of the given size in dir and returns its path.
func WriteAudioFile(t testing.TB, dir, name string, size int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
