package transform

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"scribe/internal/config"
	"scribe/internal/fileutil"
	"scribe/internal/logging"
	"scribe/internal/media"
	"scribe/internal/services"
)

// Runner executes an external command. The default shells out; tests
// substitute a fake encoder.
type Runner func(ctx context.Context, name string, args ...string) error

func defaultRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// Pipeline performs format conversion and size-constrained compression by
// driving ffmpeg. Sources are never modified; every operation produces a new
// artifact next to the source.
type Pipeline struct {
	ffmpeg  string
	workDir string
	search  config.Compression
	runner  Runner
	logger  *slog.Logger
}

// New builds a pipeline from configuration.
func New(cfg *config.Config, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{
		ffmpeg:  cfg.Tools.FFmpeg,
		workDir: cfg.Paths.WorkDir,
		search:  cfg.Compression,
		runner:  defaultRunner,
		logger:  logger,
	}
}

// WithRunner sets a custom command runner (for testing).
func (p *Pipeline) WithRunner(runner Runner) {
	if runner != nil {
		p.runner = runner
	}
}

// Convert re-encodes source into the target container, writing
// <stem>.<target> beside the source. The source is left untouched.
func (p *Pipeline) Convert(ctx context.Context, source string, target media.Format) (string, error) {
	if _, err := os.Stat(source); err != nil {
		return "", services.Wrap(services.ErrConversion, "", "convert", source, err)
	}
	output := fileutil.SiblingWithExt(source, target.Extension())
	if output == source {
		return "", services.Wrap(services.ErrConversion, "", "convert", fmt.Sprintf("%s is already %s", source, target), nil)
	}

	args := []string{"-y", "-v", "error", "-i", source, "-vn", "-ac", "2", output}
	if err := p.runner(ctx, p.ffmpeg, args...); err != nil {
		_ = os.Remove(output)
		return "", services.Wrap(services.ErrConversion, "", "convert", source, err)
	}
	p.logger.Info("converted audio",
		slog.String(logging.FieldPath, source),
		slog.String("target_format", target.String()),
		slog.String("artifact", output))
	return output, nil
}

// Compress searches decreasing mp3 bitrates until the encoded artifact fits
// under ceilingBytes, writing <stem>_compressed.mp3 beside the source. The
// search halves the distance to the bitrate floor each attempt and is bounded
// by a fixed attempt budget, so it terminates regardless of input size. When
// even the floor encoding is oversized the artifact is discarded and a
// compression error is returned: callers never receive an oversized success.
func (p *Pipeline) Compress(ctx context.Context, source string, ceilingBytes int64) (string, error) {
	if ceilingBytes <= 0 {
		return "", services.Wrap(services.ErrValidation, "", "compress", "size ceiling must be positive", nil)
	}
	if _, err := os.Stat(source); err != nil {
		return "", services.Wrap(services.ErrCompression, "", "compress", source, err)
	}
	if err := os.MkdirAll(p.workDir, 0o755); err != nil {
		return "", services.Wrap(services.ErrCompression, "", "compress", "ensure work dir", err)
	}

	artifact := filepath.Join(filepath.Dir(source), fileutil.Stem(source)+"_compressed.mp3")
	floor := p.search.MinBitrateKbps
	bitrate := p.search.StartBitrateKbps

	var lastSize int64
	for attempt := 1; attempt <= p.search.MaxAttempts; attempt++ {
		temp := filepath.Join(p.workDir, uuid.NewString()+".mp3")
		args := []string{"-y", "-v", "error", "-i", source, "-vn", "-codec:a", "libmp3lame", "-b:a", fmt.Sprintf("%dk", bitrate), temp}
		if err := p.runner(ctx, p.ffmpeg, args...); err != nil {
			_ = os.Remove(temp)
			return "", services.Wrap(services.ErrCompression, "", "compress", source, err)
		}
		info, err := os.Stat(temp)
		if err != nil {
			return "", services.Wrap(services.ErrCompression, "", "compress", "stat attempt artifact", err)
		}
		lastSize = info.Size()
		p.logger.Debug("compression attempt",
			slog.String(logging.FieldPath, source),
			slog.Int("attempt", attempt),
			slog.Int("bitrate_kbps", bitrate),
			slog.Int64("size_bytes", lastSize),
			slog.Int64("ceiling_bytes", ceilingBytes))

		if lastSize <= ceilingBytes {
			if err := fileutil.MoveFile(temp, artifact); err != nil {
				_ = os.Remove(temp)
				return "", services.Wrap(services.ErrCompression, "", "compress", "finalize artifact", err)
			}
			p.logger.Info("compressed audio",
				slog.String(logging.FieldPath, source),
				slog.String("artifact", artifact),
				slog.Int("bitrate_kbps", bitrate),
				slog.Int64("size_bytes", lastSize))
			return artifact, nil
		}
		_ = os.Remove(temp)

		if bitrate == floor {
			break
		}
		bitrate = floor + (bitrate-floor)/2
		// Spend the last budgeted attempt on the floor itself so failure
		// means even minimum quality cannot fit the ceiling.
		if bitrate < floor || attempt == p.search.MaxAttempts-1 {
			bitrate = floor
		}
	}

	return "", services.Wrap(services.ErrCompression, "", "compress",
		fmt.Sprintf("%s: smallest encoding is %d bytes, ceiling %d", source, lastSize, ceilingBytes), nil)
}
