package main

import (
	"strings"
	"testing"

	"scribe/internal/testsupport"
)

func TestListCommandRendersFiles(t *testing.T) {
	env := setupCLITestEnv(t)

	testsupport.WriteAudioFile(t, env.audioDir, "small.mp3", 2<<10)
	testsupport.WriteAudioFile(t, env.audioDir, "large.wav", 64<<10)

	out, _, err := runCLI(t, []string{"list", "--sort-by", "size", "--desc"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	requireContains(t, out, "small.mp3")
	requireContains(t, out, "large.wav")
	requireContains(t, out, "64 KiB")
	requireContains(t, out, "1:00")

	out, _, err = runCLI(t, []string{"list", "--min-size", "32KiB"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	requireContains(t, out, "large.wav")
	if strings.Contains(out, "small.mp3") {
		t.Fatalf("filtered output should not include small.mp3:\n%s", out)
	}

	out, _, err = runCLI(t, []string{"list", "--pattern", "nomatch"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("list empty: %v", err)
	}
	requireContains(t, out, "No audio files matched")

	if _, _, err := runCLI(t, []string{"list", "--min-size", "banana"}, env.socketPath, env.configPath); err == nil {
		t.Fatal("invalid size must fail")
	}
}

func TestLatestCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	testsupport.WriteAudioFile(t, env.audioDir, "memo.mp3", 2<<10)

	out, _, err := runCLI(t, []string{"latest"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	requireContains(t, out, "memo.mp3")
}
