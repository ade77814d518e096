package daemon_test

import (
	"context"
	"errors"
	"testing"

	"scribe/internal/config"
	"scribe/internal/daemon"
	"scribe/internal/logging"
	"scribe/internal/services"
	"scribe/internal/testsupport"
)

func TestStartStopLifecycle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	d, err := daemon.New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	status := d.Status()
	if !status.Running {
		t.Fatal("expected running status")
	}
	if status.AudioDir != cfg.Paths.AudioDir {
		t.Fatalf("audio dir: got %q want %q", status.AudioDir, cfg.Paths.AudioDir)
	}
	if !status.Transcriber {
		t.Fatal("expected transcriber to be configured")
	}

	d.Stop()
	if d.Status().Running {
		t.Fatal("expected stopped status")
	}
}

func TestStartRejectsSecondInstance(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	first, err := daemon.New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() { _ = first.Close() })
	if err := first.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	second, err := daemon.New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() { _ = second.Close() })
	if err := second.Start(context.Background()); err == nil {
		t.Fatal("second instance must not acquire the lock")
	}
}

func TestMissingAPIKeyDisablesTranscriptionOnly(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.OpenAI.APIKey = ""
	t.Setenv("OPENAI_API_KEY", "")

	d, err := daemon.New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	if d.Status().Transcriber {
		t.Fatal("transcriber must report unconfigured")
	}
	path := testsupport.WriteAudioFile(t, cfg.Paths.AudioDir, "note.mp3", 1024)
	_, err = d.Toolkit().Transcribe(context.Background(), path)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error at call time, got %v", err)
	}
}
