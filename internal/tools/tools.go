package tools

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"scribe/internal/batch"
	"scribe/internal/capability"
	"scribe/internal/catalog"
	"scribe/internal/config"
	"scribe/internal/enhance"
	"scribe/internal/logging"
	"scribe/internal/media"
	"scribe/internal/services"
	"scribe/internal/transform"
)

// Transcriber is the backend boundary for both transcription services.
type Transcriber interface {
	Transcribe(ctx context.Context, path string) (string, error)
	TranscribeWithPrompt(ctx context.Context, path, prompt string) (string, error)
}

// Toolkit is the tool surface: discovery, transformation, and transcription
// operations over the audio drop folder. Capability checks happen here, before
// any backend call, and transformation is never applied implicitly.
type Toolkit struct {
	cfg         *config.Config
	index       *catalog.Index
	pipeline    *transform.Pipeline
	transcriber Transcriber
	orch        *batch.Orchestrator
	logger      *slog.Logger
}

// New assembles the toolkit from its components.
func New(cfg *config.Config, index *catalog.Index, pipeline *transform.Pipeline, transcriber Transcriber, logger *slog.Logger) *Toolkit {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Toolkit{
		cfg:         cfg,
		index:       index,
		pipeline:    pipeline,
		transcriber: transcriber,
		orch:        batch.New(cfg.Batch.MaxConcurrency, logger),
		logger:      logger,
	}
}

// List returns the filtered, ordered audio files under the configured root.
func (t *Toolkit) List(ctx context.Context, filter catalog.FilterSpec, order catalog.SortSpec) ([]catalog.File, error) {
	return t.index.List(ctx, filter, order)
}

// Latest returns the most recently modified audio file under the root.
func (t *Toolkit) Latest(ctx context.Context) (catalog.File, error) {
	return t.index.Latest(ctx)
}

// convertTargets are the containers conversion may produce. Both are accepted
// by every backend, which is the whole point of converting.
var convertTargets = []media.Format{media.FormatMP3, media.FormatWAV}

func parseConvertTarget(value string) (media.Format, error) {
	format, err := media.ParseFormat(value)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "", "convert", value, err)
	}
	for _, target := range convertTargets {
		if format == target {
			return format, nil
		}
	}
	return "", services.Wrap(services.ErrValidation, "", "convert",
		fmt.Sprintf("unsupported conversion target %q (valid: mp3, wav)", value), nil)
}

// Convert re-encodes the file into target ("mp3" or "wav") and returns the
// probed record of the new artifact. The source file is never touched.
func (t *Toolkit) Convert(ctx context.Context, path, target string) (catalog.File, error) {
	format, err := parseConvertTarget(target)
	if err != nil {
		return catalog.File{}, err
	}
	artifact, err := t.pipeline.Convert(ctx, path, format)
	if err != nil {
		return catalog.File{}, err
	}
	return t.index.Get(ctx, artifact)
}

// Compress shrinks the file under ceilingBytes (0 selects the configured
// default) and returns the probed record of the result. A file already under
// the ceiling is returned as-is: compression of an eligible file is a no-op,
// not an error.
func (t *Toolkit) Compress(ctx context.Context, path string, ceilingBytes int64) (catalog.File, error) {
	if ceilingBytes == 0 {
		ceilingBytes = t.cfg.CeilingBytes()
	}
	file, err := t.index.Get(ctx, path)
	if err != nil {
		return catalog.File{}, err
	}
	if file.Metadata.SizeBytes <= ceilingBytes {
		t.logger.Debug("compression skipped, already under ceiling",
			slog.String(logging.FieldPath, path),
			slog.Int64("size_bytes", file.Metadata.SizeBytes),
			slog.Int64("ceiling_bytes", ceilingBytes))
		return file, nil
	}
	artifact, err := t.pipeline.Compress(ctx, path, ceilingBytes)
	if err != nil {
		return catalog.File{}, err
	}
	return t.index.Get(ctx, artifact)
}

// Transcribe sends the file to the speech-to-text backend. Ineligible files
// fail with a capability error naming the required transform; nothing is
// converted or compressed implicitly.
func (t *Toolkit) Transcribe(ctx context.Context, path string) (string, error) {
	if _, err := t.requireEligible(ctx, path, capability.SpeechToText); err != nil {
		return "", err
	}
	return t.transcriber.Transcribe(ctx, path)
}

// TranscribeWithPrompt sends the file inline to the multimodal backend with
// an instruction prompt.
func (t *Toolkit) TranscribeWithPrompt(ctx context.Context, path, prompt string) (string, error) {
	if _, err := t.requireEligible(ctx, path, capability.MultimodalCompletion); err != nil {
		return "", err
	}
	return t.transcriber.TranscribeWithPrompt(ctx, path, prompt)
}

// TranscribeWithEnhancement resolves a named enhancement template and sends
// the file to the multimodal backend with the template's instruction text.
func (t *Toolkit) TranscribeWithEnhancement(ctx context.Context, path, template string) (string, error) {
	prompt, err := enhance.BuildPrompt(template, "")
	if err != nil {
		return "", err
	}
	return t.TranscribeWithPrompt(ctx, path, prompt)
}

// ConvertAll converts every file concurrently. The target is validated once
// up front: a bad target is structural and fails before any per-file work.
func (t *Toolkit) ConvertAll(ctx context.Context, paths []string, target string) (batch.Result[catalog.File], error) {
	if _, err := parseConvertTarget(target); err != nil {
		return nil, err
	}
	return batch.Run(ctx, t.orch, paths, "convert", func(ctx context.Context, path string) (catalog.File, error) {
		return t.Convert(ctx, path, target)
	}), nil
}

// CompressAll compresses every file concurrently under a shared ceiling.
func (t *Toolkit) CompressAll(ctx context.Context, paths []string, ceilingBytes int64) batch.Result[catalog.File] {
	return batch.Run(ctx, t.orch, paths, "compress", func(ctx context.Context, path string) (catalog.File, error) {
		return t.Compress(ctx, path, ceilingBytes)
	})
}

// TranscribeAll transcribes every file concurrently via speech-to-text.
func (t *Toolkit) TranscribeAll(ctx context.Context, paths []string) batch.Result[string] {
	return batch.Run(ctx, t.orch, paths, "transcribe", func(ctx context.Context, path string) (string, error) {
		return t.Transcribe(ctx, path)
	})
}

// TranscribeAllWithPrompt transcribes every file concurrently via the
// multimodal backend with one shared instruction prompt.
func (t *Toolkit) TranscribeAllWithPrompt(ctx context.Context, paths []string, prompt string) batch.Result[string] {
	return batch.Run(ctx, t.orch, paths, "transcribe_prompted", func(ctx context.Context, path string) (string, error) {
		return t.TranscribeWithPrompt(ctx, path, prompt)
	})
}

// TranscribeAllWithEnhancement transcribes every file concurrently via the
// multimodal backend using one shared enhancement template, validated up
// front.
func (t *Toolkit) TranscribeAllWithEnhancement(ctx context.Context, paths []string, template string) (batch.Result[string], error) {
	prompt, err := enhance.BuildPrompt(template, "")
	if err != nil {
		return nil, err
	}
	return batch.Run(ctx, t.orch, paths, "transcribe_enhanced", func(ctx context.Context, path string) (string, error) {
		return t.TranscribeWithPrompt(ctx, path, prompt)
	}), nil
}

// requireEligible probes the file and rejects it when the backend cannot take
// it as-is, spelling out which transform would make it eligible.
func (t *Toolkit) requireEligible(ctx context.Context, path string, backend capability.Backend) (catalog.File, error) {
	file, err := t.index.Get(ctx, path)
	if err != nil {
		return catalog.File{}, err
	}
	if file.EligibleFor(backend) {
		return file, nil
	}

	plan, err := capability.PlanTransform(file.Metadata.Format, file.Metadata.SizeBytes, backend)
	if err != nil {
		return catalog.File{}, services.Wrap(services.ErrCapability, "", "transcribe", path, err)
	}
	var steps []string
	if plan.Convert {
		steps = append(steps, fmt.Sprintf("convert to %s", plan.Target))
	}
	if plan.Compress {
		steps = append(steps, fmt.Sprintf("compress under %d bytes", plan.CeilingBytes))
	}
	return catalog.File{}, services.Wrap(services.ErrCapability, "", "transcribe",
		fmt.Sprintf("%s (%s, %d bytes) is not eligible for %s: %s first",
			path, file.Metadata.Format, file.Metadata.SizeBytes, backend, strings.Join(steps, ", then ")), nil)
}
