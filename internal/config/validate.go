package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateOpenAI(); err != nil {
		return err
	}
	if err := c.validateBatch(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateCompression(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.AudioDir) == "" {
		return errors.New("paths.audio_dir must be set (or export AUDIO_FILES_PATH)")
	}
	if strings.TrimSpace(c.Paths.SocketPath) == "" {
		return errors.New("paths.socket_path must be set")
	}
	return nil
}

func (c *Config) validateOpenAI() error {
	if c.OpenAI.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/scribe/config.toml"
		}
		return fmt.Errorf("openai.api_key is required. Set OPENAI_API_KEY env var or edit %s (create with 'scribe config init')", defaultPath)
	}
	if c.OpenAI.WhisperModel == "" {
		return errors.New("openai.whisper_model must be set")
	}
	if c.OpenAI.AudioModel == "" {
		return errors.New("openai.audio_model must be set")
	}
	if c.OpenAI.TimeoutSeconds <= 0 {
		return errors.New("openai.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateBatch() error {
	if c.Batch.MaxConcurrency <= 0 {
		return errors.New("batch.max_concurrency must be positive")
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.MaxEntries < 0 {
		return errors.New("cache.max_entries must not be negative")
	}
	return nil
}

func (c *Config) validateCompression() error {
	if c.Compression.DefaultCeilingMB <= 0 {
		return errors.New("compression.default_ceiling_mb must be positive")
	}
	if c.Compression.MinBitrateKbps <= 0 {
		return errors.New("compression.min_bitrate_kbps must be positive")
	}
	if c.Compression.StartBitrateKbps < c.Compression.MinBitrateKbps {
		return errors.New("compression.start_bitrate_kbps must be at least min_bitrate_kbps")
	}
	if c.Compression.MaxAttempts <= 0 {
		return errors.New("compression.max_attempts must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}
