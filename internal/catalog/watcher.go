package catalog

import (
	"context"
	"log/slog"

	"github.com/fsnotify/fsnotify"

	"scribe/internal/logging"
)

// Watcher drops cache entries as soon as files in the audio directory change,
// instead of waiting for the next scan's mtime comparison. Purely an
// optimization: correctness never depends on it.
type Watcher struct {
	watcher *fsnotify.Watcher
	cache   *Cache
	logger  *slog.Logger
}

// NewWatcher starts watching root and invalidating cache entries.
func NewWatcher(root string, cache *Cache, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(root); err != nil {
		watcher.Close()
		return nil, err
	}
	return &Watcher{watcher: watcher, cache: cache, logger: logger}, nil
}

// Run processes events until the context is cancelled or the watcher closes.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", slog.Any("error", err))
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	w.cache.Invalidate(event.Name)
	w.logger.Debug("invalidated cache entry", slog.String(logging.FieldPath, event.Name), slog.String("op", event.Op.String()))
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
