package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and socket configuration.
type Paths struct {
	AudioDir   string `toml:"audio_dir"`
	LogDir     string `toml:"log_dir"`
	WorkDir    string `toml:"work_dir"`
	SocketPath string `toml:"socket_path"`
}

// OpenAI contains connection settings for the transcription and
// audio-completion services.
type OpenAI struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	WhisperModel   string `toml:"whisper_model"`
	AudioModel     string `toml:"audio_model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Tools names the external binaries used for probing and transforming audio.
type Tools struct {
	FFmpeg  string `toml:"ffmpeg"`
	FFprobe string `toml:"ffprobe"`
}

// Batch contains settings for concurrent per-file dispatch.
type Batch struct {
	// MaxConcurrency bounds how many per-file operations run at once.
	MaxConcurrency int `toml:"max_concurrency"`
}

// Cache contains settings for the probe metadata cache.
type Cache struct {
	// MaxEntries caps the cache size; 0 means unbounded.
	MaxEntries int `toml:"max_entries"`
	// Watch enables filesystem notifications that drop stale entries eagerly.
	Watch bool `toml:"watch"`
}

// Compression contains settings for the size-constrained encode search.
type Compression struct {
	DefaultCeilingMB int `toml:"default_ceiling_mb"`
	StartBitrateKbps int `toml:"start_bitrate_kbps"`
	MinBitrateKbps   int `toml:"min_bitrate_kbps"`
	MaxAttempts      int `toml:"max_attempts"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for scribe.
//
// Configuration sections by subsystem:
//   - Paths: audio drop folder, logs, scratch space, IPC socket
//   - OpenAI: credentials and model names for both backends
//   - Tools: ffmpeg/ffprobe binary overrides
//   - Batch: concurrency ceiling for fan-out
//   - Cache: probe cache bound and watcher toggle
//   - Compression: bitrate search parameters
//   - Logging: log format and level
type Config struct {
	Paths       Paths       `toml:"paths"`
	OpenAI      OpenAI      `toml:"openai"`
	Tools       Tools       `toml:"tools"`
	Batch       Batch       `toml:"batch"`
	Cache       Cache       `toml:"cache"`
	Compression Compression `toml:"compression"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/scribe/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. Secrets absent from the
// file fall back to the environment (OPENAI_API_KEY, AUDIO_FILES_PATH).
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("scribe.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	if key := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); key != "" && strings.TrimSpace(c.OpenAI.APIKey) == "" {
		c.OpenAI.APIKey = key
	}
	if dir := strings.TrimSpace(os.Getenv("AUDIO_FILES_PATH")); dir != "" && strings.TrimSpace(c.Paths.AudioDir) == "" {
		c.Paths.AudioDir = dir
	}

	for _, field := range []*string{&c.Paths.AudioDir, &c.Paths.LogDir, &c.Paths.WorkDir, &c.Paths.SocketPath} {
		expanded, err := expandPath(*field)
		if err != nil {
			return err
		}
		*field = expanded
	}

	c.OpenAI.APIKey = strings.TrimSpace(c.OpenAI.APIKey)
	c.OpenAI.BaseURL = strings.TrimSpace(c.OpenAI.BaseURL)
	c.OpenAI.WhisperModel = strings.TrimSpace(c.OpenAI.WhisperModel)
	c.OpenAI.AudioModel = strings.TrimSpace(c.OpenAI.AudioModel)
	c.Tools.FFmpeg = strings.TrimSpace(c.Tools.FFmpeg)
	c.Tools.FFprobe = strings.TrimSpace(c.Tools.FFprobe)
	if c.Tools.FFmpeg == "" {
		c.Tools.FFmpeg = defaultFFmpegBinary
	}
	if c.Tools.FFprobe == "" {
		c.Tools.FFprobe = defaultFFprobeBinary
	}
	return nil
}

// EnsureDirectories creates required directories for daemon operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.LogDir, c.Paths.WorkDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(c.Paths.SocketPath), 0o755); err != nil {
		return fmt.Errorf("create socket directory: %w", err)
	}
	return nil
}

// CeilingBytes converts the configured default compression ceiling to bytes.
func (c *Config) CeilingBytes() int64 {
	return int64(c.Compression.DefaultCeilingMB) << 20
}

// WriteSample writes the embedded sample configuration to the given path,
// refusing to overwrite an existing file.
func WriteSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config file already exists at %s", expanded)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(expanded, []byte(sampleConfig), 0o644)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}
