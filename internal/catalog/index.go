package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"scribe/internal/logging"
	"scribe/internal/media"
	"scribe/internal/services"
)

// Index enumerates and annotates the audio files in a flat drop folder. The
// scan is deliberately non-recursive. Every call reflects live filesystem
// state because the cache self-invalidates on modification-time changes.
type Index struct {
	root   string
	prober Prober
	logger *slog.Logger
}

// NewIndex builds an index over root using the given (typically cache-backed)
// prober.
func NewIndex(root string, prober Prober, logger *slog.Logger) *Index {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Index{root: root, prober: prober, logger: logger}
}

// Root returns the indexed directory.
func (idx *Index) Root() string {
	return idx.root
}

// List returns the ordered, filtered set of audio files under the root.
// Structural problems (missing root, invalid filter) fail the call; files
// that cannot be probed are logged and excluded, never fatal.
func (idx *Index) List(ctx context.Context, filter FilterSpec, order SortSpec) ([]File, error) {
	compiled, err := filter.Compile()
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(idx.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, services.Wrap(services.ErrNotFound, "", "scan", fmt.Sprintf("audio directory %s does not exist", idx.root), nil)
		}
		return nil, services.Wrap(services.ErrConfiguration, "", "scan", idx.root, err)
	}

	files := make([]File, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.Type().IsRegular() {
			continue
		}
		if _, ok := media.FormatFromExtension(entry.Name()); !ok {
			continue
		}
		path := filepath.Join(idx.root, entry.Name())
		meta, err := idx.prober.Probe(ctx, path)
		if err != nil {
			idx.logger.Warn("excluding unprobeable file", slog.String(logging.FieldPath, path), slog.Any("error", err))
			continue
		}
		file := newFile(path, meta)
		if compiled.Matches(file) {
			files = append(files, file)
		}
	}

	Sort(files, order)
	return files, nil
}

// Latest returns the most recently modified audio file under the root.
func (idx *Index) Latest(ctx context.Context) (File, error) {
	files, err := idx.List(ctx, FilterSpec{}, SortSpec{Key: SortByModified, Descending: true})
	if err != nil {
		return File{}, err
	}
	if len(files) == 0 {
		return File{}, services.Wrap(services.ErrNotFound, "", "latest", fmt.Sprintf("no audio files in %s", idx.root), nil)
	}
	return files[0], nil
}

// Get probes a single file (which need not live under the root) and returns
// its annotated record. Used to describe transform artifacts.
func (idx *Index) Get(ctx context.Context, path string) (File, error) {
	meta, err := idx.prober.Probe(ctx, path)
	if err != nil {
		return File{}, err
	}
	return newFile(path, meta), nil
}
