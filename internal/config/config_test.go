package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scribe/internal/config"
)

func TestLoadDefaultsUseEnvKeyAndExpandPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("AUDIO_FILES_PATH", filepath.Join(tempHome, "drops"))

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if cfg.OpenAI.APIKey != "test-key" {
		t.Fatalf("expected key from env, got %q", cfg.OpenAI.APIKey)
	}
	if cfg.Paths.AudioDir != filepath.Join(tempHome, "drops") {
		t.Fatalf("expected audio dir from env, got %q", cfg.Paths.AudioDir)
	}
	wantLogs := filepath.Join(tempHome, ".local", "share", "scribe", "logs")
	if cfg.Paths.LogDir != wantLogs {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLogs)
	}
	if cfg.Batch.MaxConcurrency != 4 {
		t.Fatalf("unexpected concurrency default: %d", cfg.Batch.MaxConcurrency)
	}
	if cfg.Compression.DefaultCeilingMB != 25 {
		t.Fatalf("unexpected ceiling default: %d", cfg.Compression.DefaultCeilingMB)
	}
	if cfg.CeilingBytes() != 25<<20 {
		t.Fatalf("unexpected ceiling bytes: %d", cfg.CeilingBytes())
	}
	if cfg.Tools.FFprobe != "ffprobe" {
		t.Fatalf("unexpected ffprobe binary: %q", cfg.Tools.FFprobe)
	}
}

func TestLoadParsesFileAndFileWinsOverDefaults(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("OPENAI_API_KEY", "env-key")
	t.Setenv("AUDIO_FILES_PATH", "")

	path := filepath.Join(tempHome, "scribe.toml")
	body := `
[paths]
audio_dir = "~/incoming"

[openai]
api_key = "file-key"
timeout_seconds = 60

[batch]
max_concurrency = 2

[compression]
start_bitrate_kbps = 96
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected config at %q to be used, got %q exists=%v", path, resolved, exists)
	}
	if cfg.OpenAI.APIKey != "file-key" {
		t.Fatalf("file key should win over env fallback, got %q", cfg.OpenAI.APIKey)
	}
	if cfg.Paths.AudioDir != filepath.Join(tempHome, "incoming") {
		t.Fatalf("expected tilde expansion, got %q", cfg.Paths.AudioDir)
	}
	if cfg.Batch.MaxConcurrency != 2 {
		t.Fatalf("unexpected concurrency: %d", cfg.Batch.MaxConcurrency)
	}
	if cfg.Compression.StartBitrateKbps != 96 {
		t.Fatalf("unexpected start bitrate: %d", cfg.Compression.StartBitrateKbps)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"missing key", func(c *config.Config) { c.OpenAI.APIKey = "" }, "openai.api_key"},
		{"zero concurrency", func(c *config.Config) { c.Batch.MaxConcurrency = 0 }, "batch.max_concurrency"},
		{"negative cache", func(c *config.Config) { c.Cache.MaxEntries = -1 }, "cache.max_entries"},
		{"zero ceiling", func(c *config.Config) { c.Compression.DefaultCeilingMB = 0 }, "default_ceiling_mb"},
		{"floor above start", func(c *config.Config) { c.Compression.StartBitrateKbps = 16 }, "start_bitrate_kbps"},
		{"bad format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.OpenAI.APIKey = "k"
			cfg.Paths.AudioDir = "/tmp/audio"
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err.Error(), tc.want)
			}
		})
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := config.WriteSample(path); err != nil {
		t.Fatalf("WriteSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[openai]") {
		t.Fatal("sample config missing openai section")
	}
	if err := config.WriteSample(path); err == nil {
		t.Fatal("expected refusal to overwrite existing config")
	}
}
