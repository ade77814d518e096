package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"scribe/internal/catalog"
	"scribe/internal/config"
	"scribe/internal/deps"
	"scribe/internal/logging"
	"scribe/internal/services"
	"scribe/internal/services/openai"
	"scribe/internal/tools"
	"scribe/internal/transform"
)

// Daemon owns the long-lived toolkit state (probe cache, watcher, backend
// client) and enforces single-instance execution via a file lock.
type Daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	toolkit *tools.Toolkit
	cache   *catalog.Cache

	lockPath string
	lock     *flock.Flock

	transcriberReady bool

	running   atomic.Bool
	startedAt time.Time
	cancel    context.CancelFunc
	watcher   *catalog.Watcher
	wg        sync.WaitGroup
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	PID          int
	StartedAt    time.Time
	AudioDir     string
	SocketPath   string
	LockPath     string
	CacheEntries int
	Transcriber  bool
}

// New assembles the daemon and its toolkit. A missing API key does not fail
// construction: discovery and transform tools stay usable, and transcription
// reports the configuration error at call time.
func New(cfg *config.Config, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("daemon requires config")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	cache := catalog.NewCache(cfg.Cache.MaxEntries)
	prober := catalog.NewCachingProber(&catalog.FFprobeProber{Binary: cfg.Tools.FFprobe}, cache)
	index := catalog.NewIndex(cfg.Paths.AudioDir, prober, logger)
	pipeline := transform.New(cfg, logger)

	var transcriber tools.Transcriber
	transcriberReady := true
	client, err := openai.NewClient(cfg.OpenAI)
	switch {
	case err == nil:
		transcriber = client
	case errors.Is(err, services.ErrConfiguration):
		logger.Warn("transcription disabled", slog.Any("error", err))
		transcriber = unconfiguredTranscriber{err: err}
		transcriberReady = false
	default:
		return nil, err
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "scribed.lock")
	return &Daemon{
		cfg:              cfg,
		logger:           logger,
		toolkit:          tools.New(cfg, index, pipeline, transcriber, logger),
		cache:            cache,
		lockPath:         lockPath,
		lock:             flock.New(lockPath),
		transcriberReady: transcriberReady,
	}, nil
}

// Start acquires the single-instance lock and launches the cache watcher.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another scribed instance is already running")
	}

	for _, status := range deps.Missing(deps.CheckBinaries(deps.Audio(d.cfg))) {
		d.logger.Warn("external binary unavailable",
			slog.String("dependency", status.Name),
			slog.String("detail", status.Detail))
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	if d.cfg.Cache.Watch {
		watcher, err := catalog.NewWatcher(d.cfg.Paths.AudioDir, d.cache, d.logger)
		if err != nil {
			// The next scan re-probes on mtime mismatch anyway.
			d.logger.Warn("cache watcher unavailable", slog.Any("error", err))
		} else {
			d.watcher = watcher
			d.wg.Add(1)
			go func() {
				defer d.wg.Done()
				watcher.Run(runCtx)
			}()
		}
	}

	d.startedAt = time.Now()
	d.running.Store(true)
	d.logger.Info("scribed started",
		slog.String("audio_dir", d.cfg.Paths.AudioDir),
		slog.String("lock", d.lockPath))
	return nil
}

// Stop halts background work and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if d.watcher != nil {
		_ = d.watcher.Close()
		d.watcher = nil
	}
	d.wg.Wait()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", slog.Any("error", err))
	}
	d.running.Store(false)
	d.logger.Info("scribed stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	return nil
}

// Toolkit returns the tool surface served over IPC.
func (d *Daemon) Toolkit() *tools.Toolkit {
	return d.toolkit
}

// ResetCache drops every cached probe snapshot.
func (d *Daemon) ResetCache() {
	d.cache.Reset()
	d.logger.Info("probe cache reset")
}

// Status returns the current daemon status.
func (d *Daemon) Status() Status {
	return Status{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		StartedAt:    d.startedAt,
		AudioDir:     d.cfg.Paths.AudioDir,
		SocketPath:   d.cfg.Paths.SocketPath,
		LockPath:     d.lockPath,
		CacheEntries: d.cache.Len(),
		Transcriber:  d.transcriberReady,
	}
}

// unconfiguredTranscriber surfaces the credential problem when transcription
// is actually attempted.
type unconfiguredTranscriber struct {
	err error
}

func (u unconfiguredTranscriber) Transcribe(context.Context, string) (string, error) {
	return "", u.err
}

func (u unconfiguredTranscriber) TranscribeWithPrompt(context.Context, string, string) (string, error) {
	return "", u.err
}
