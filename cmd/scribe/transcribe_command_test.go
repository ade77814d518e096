package main

import (
	"testing"

	"scribe/internal/testsupport"
)

func TestTranscribeCommandReportsCapabilityFailure(t *testing.T) {
	env := setupCLITestEnv(t)

	big := testsupport.WriteAudioFile(t, env.audioDir, "big.mp3", 26<<20)

	out, _, err := runCLI(t, []string{"transcribe", big}, env.socketPath, env.configPath)
	if err == nil {
		t.Fatal("oversized file must produce a failing exit")
	}
	requireContains(t, out, "capability")
	requireContains(t, out, "compress")
}

func TestTranscribeCommandRejectsConflictingFlags(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(
		t,
		[]string{"transcribe", "--prompt", "summarize", "--enhancement", "detailed", "whatever.mp3"},
		env.socketPath,
		env.configPath,
	)
	if err == nil {
		t.Fatal("--prompt and --enhancement together must fail")
	}
}

func TestTranscribeCommandRejectsUnknownTemplate(t *testing.T) {
	env := setupCLITestEnv(t)

	small := testsupport.WriteAudioFile(t, env.audioDir, "small.mp3", 2<<10)

	_, _, err := runCLI(t, []string{"transcribe", "--enhancement", "poetic", small}, env.socketPath, env.configPath)
	if err == nil {
		t.Fatal("unknown template must fail the call")
	}
}
