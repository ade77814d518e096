package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"scribe/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// stubFFprobe reports every supported demuxer so the file extension decides
// the detected format, plus a fixed duration and one audio stream.
const stubFFprobe = `#!/bin/sh
cat <<'EOF'
{"format":{"format_name":"mp3,mp4,mpeg,mpga,m4a,wav,webm","duration":"60.0"},"streams":[{"codec_type":"audio"}]}
EOF
`

// stubFFmpeg writes a tiny payload to its final argument, standing in for an
// encode.
const stubFFmpeg = `#!/bin/sh
for last; do :; done
printf 'encoded' > "$last"
`

// NewConfig produces a config seeded with unique temp directories per test,
// a placeholder API key, and stub ffmpeg/ffprobe binaries so nothing real is
// ever executed. Options customize the result.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.AudioDir = filepath.Join(base, "audio")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.WorkDir = filepath.Join(base, "work")
	cfgVal.Paths.SocketPath = filepath.Join(base, "scribed.sock")
	cfgVal.OpenAI.APIKey = "test-key"

	for _, dir := range []string{cfgVal.Paths.AudioDir, cfgVal.Paths.LogDir, cfgVal.Paths.WorkDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	binDir := filepath.Join(base, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir bin dir: %v", err)
	}
	cfgVal.Tools.FFprobe = writeStub(t, binDir, "ffprobe", stubFFprobe)
	cfgVal.Tools.FFmpeg = writeStub(t, binDir, "ffmpeg", stubFFmpeg)

	builder := &configBuilder{t: t, baseDir: base, cfg: &cfgVal}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithAPIKey overrides the placeholder OpenAI key on the test config.
func WithAPIKey(key string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.OpenAI.APIKey = key
	}
}

// WithCacheWatch enables the fsnotify cache watcher on the test config.
func WithCacheWatch() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Cache.Watch = true
	}
}

func writeStub(t testing.TB, dir, name, script string) string {
	t.Helper()
	target := filepath.Join(dir, name)
	if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	return target
}
