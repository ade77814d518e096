package capability_test

import (
	"testing"

	"scribe/internal/capability"
	"scribe/internal/media"
)

func TestParseBackend(t *testing.T) {
	if backend, err := capability.ParseBackend(" Speech_To_Text "); err != nil || backend != capability.SpeechToText {
		t.Fatalf("unexpected: %q %v", backend, err)
	}
	if _, err := capability.ParseBackend("clairvoyance"); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestEligibility(t *testing.T) {
	const under = int64(10 << 20)
	const over = capability.MaxUploadBytes + 1

	cases := []struct {
		name    string
		backend capability.Backend
		format  media.Format
		size    int64
		want    bool
	}{
		{"whisper mp3 small", capability.SpeechToText, media.FormatMP3, under, true},
		{"whisper webm small", capability.SpeechToText, media.FormatWebM, under, true},
		{"whisper mp3 oversized", capability.SpeechToText, media.FormatMP3, over, false},
		{"gpt4o wav small", capability.MultimodalCompletion, media.FormatWAV, under, true},
		{"gpt4o m4a small", capability.MultimodalCompletion, media.FormatM4A, under, false},
		{"gpt4o mp3 oversized", capability.MultimodalCompletion, media.FormatMP3, over, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := capability.Eligible(tc.backend, tc.format, tc.size); got != tc.want {
				t.Fatalf("Eligible(%s, %s, %d) = %v, want %v", tc.backend, tc.format, tc.size, got, tc.want)
			}
		})
	}
}

func TestSpeechToTextAcceptsStrictSuperset(t *testing.T) {
	stt, err := capability.LimitsFor(capability.SpeechToText)
	if err != nil {
		t.Fatal(err)
	}
	llm, err := capability.LimitsFor(capability.MultimodalCompletion)
	if err != nil {
		t.Fatal(err)
	}
	if len(llm.Formats) >= len(stt.Formats) {
		t.Fatalf("expected speech-to-text format set to be strictly larger: %d vs %d", len(stt.Formats), len(llm.Formats))
	}
	for _, format := range llm.Formats {
		if !capability.SpeechToText.Accepts(format) {
			t.Fatalf("speech-to-text should accept %s", format)
		}
	}
}

func TestResolve(t *testing.T) {
	got := capability.Resolve(media.FormatMP3, 1<<20)
	if len(got) != 2 {
		t.Fatalf("small mp3 should be eligible everywhere, got %v", got)
	}
	got = capability.Resolve(media.FormatM4A, 1<<20)
	if len(got) != 1 || got[0] != capability.SpeechToText {
		t.Fatalf("small m4a should be whisper-only, got %v", got)
	}
	if got := capability.Resolve(media.FormatWAV, capability.MaxUploadBytes+1); len(got) != 0 {
		t.Fatalf("oversized file should be eligible nowhere, got %v", got)
	}
}

func TestPlanTransform(t *testing.T) {
	plan, err := capability.PlanTransform(media.FormatMP3, 1<<20, capability.MultimodalCompletion)
	if err != nil {
		t.Fatal(err)
	}
	if !plan.NoOp() {
		t.Fatalf("eligible file should yield a no-op plan, got %+v", plan)
	}

	plan, err = capability.PlanTransform(media.FormatM4A, 1<<20, capability.MultimodalCompletion)
	if err != nil {
		t.Fatal(err)
	}
	if !plan.Convert || plan.Target != media.FormatMP3 || plan.Compress {
		t.Fatalf("format-only plan expected, got %+v", plan)
	}

	plan, err = capability.PlanTransform(media.FormatM4A, capability.MaxUploadBytes+1, capability.MultimodalCompletion)
	if err != nil {
		t.Fatal(err)
	}
	if !plan.Convert || !plan.Compress || plan.CeilingBytes != capability.MaxUploadBytes {
		t.Fatalf("convert-then-compress plan expected, got %+v", plan)
	}

	if _, err := capability.PlanTransform(media.FormatMP3, 1, capability.Backend("bogus")); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
