package openai

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"time"

	sdk "github.com/sashabaranov/go-openai"

	"scribe/internal/config"
	"scribe/internal/media"
	"scribe/internal/services"
)

const defaultTimeout = 300 * time.Second

// Backend is the slice of the OpenAI SDK the client depends on. Tests
// substitute a fake; production wires *openai.Client from the SDK.
type Backend interface {
	CreateTranscription(ctx context.Context, request sdk.AudioRequest) (sdk.AudioResponse, error)
	CreateChatCompletion(ctx context.Context, request sdk.ChatCompletionRequest) (sdk.ChatCompletionResponse, error)
}

// Client performs speech-to-text and audio-prompt completions against the
// OpenAI API.
type Client struct {
	cfg     config.OpenAI
	backend Backend
	timeout time.Duration
}

// Option customizes the client.
type Option func(*Client)

// WithBackend overrides the SDK backend (for testing).
func WithBackend(backend Backend) Option {
	return func(c *Client) {
		if backend != nil {
			c.backend = backend
		}
	}
}

// NewClient constructs an OpenAI client from configuration. A missing API key
// is a configuration error: nothing downstream can degrade gracefully without
// credentials.
func NewClient(cfg config.OpenAI, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "openai", "init",
			"api key is not set (config openai.api_key or OPENAI_API_KEY)", nil)
	}
	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	client := &Client{cfg: cfg, timeout: timeout}
	for _, opt := range opts {
		opt(client)
	}
	if client.backend == nil {
		sdkCfg := sdk.DefaultConfig(cfg.APIKey)
		if strings.TrimSpace(cfg.BaseURL) != "" {
			sdkCfg.BaseURL = cfg.BaseURL
		}
		client.backend = sdk.NewClientWithConfig(sdkCfg)
	}
	return client, nil
}

// Transcribe sends the file to the speech-to-text endpoint and returns the
// plain transcript text.
func (c *Client) Transcribe(ctx context.Context, path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", services.Wrap(services.ErrNotFound, "openai", "transcribe", path, err)
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	response, err := c.backend.CreateTranscription(ctx, sdk.AudioRequest{
		Model:    c.cfg.WhisperModel,
		FilePath: path,
		Format:   sdk.AudioResponseFormatText,
	})
	if err != nil {
		return "", services.Wrap(services.ErrExternalService, "openai", "transcribe", path, err)
	}
	return response.Text, nil
}

// TranscribeWithPrompt uploads the audio inline to the multimodal chat
// endpoint with an instruction prompt, returning the model's text reply. Only
// mp3 and wav payloads are accepted by the endpoint.
func (c *Client) TranscribeWithPrompt(ctx context.Context, path, prompt string) (string, error) {
	format, err := inputAudioFormat(path)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", services.Wrap(services.ErrNotFound, "openai", "transcribe_prompted", path, err)
	}

	parts := make([]sdk.ChatMessagePart, 0, 2)
	if strings.TrimSpace(prompt) != "" {
		parts = append(parts, sdk.ChatMessagePart{
			Type: sdk.ChatMessagePartTypeText,
			Text: prompt,
		})
	}
	parts = append(parts, sdk.ChatMessagePart{
		Type: sdk.ChatMessagePartTypeInputAudio,
		InputAudio: &sdk.ChatMessagePartInputAudio{
			Data:   base64.StdEncoding.EncodeToString(data),
			Format: format,
		},
	})

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	response, err := c.backend.CreateChatCompletion(ctx, sdk.ChatCompletionRequest{
		Model:      c.cfg.AudioModel,
		Modalities: []sdk.ChatCompletionModality{sdk.ChatCompletionModalityText},
		Messages: []sdk.ChatCompletionMessage{
			{Role: sdk.ChatMessageRoleUser, MultiContent: parts},
		},
	})
	if err != nil {
		return "", services.Wrap(services.ErrExternalService, "openai", "transcribe_prompted", path, err)
	}
	if len(response.Choices) == 0 {
		return "", services.Wrap(services.ErrExternalService, "openai", "transcribe_prompted",
			fmt.Sprintf("%s: empty completion response", path), nil)
	}
	return response.Choices[0].Message.Content, nil
}

// inputAudioFormat maps the file extension to the wire format tag the chat
// endpoint understands.
func inputAudioFormat(path string) (string, error) {
	format, ok := media.FormatFromExtension(path)
	if !ok {
		return "", services.Wrap(services.ErrValidation, "openai", "transcribe_prompted",
			fmt.Sprintf("%s: unrecognized audio extension", path), nil)
	}
	switch format {
	case media.FormatMP3:
		return "mp3", nil
	case media.FormatWAV:
		return "wav", nil
	default:
		return "", services.Wrap(services.ErrValidation, "openai", "transcribe_prompted",
			fmt.Sprintf("%s: %s audio cannot be sent inline, convert to mp3 or wav first", path, format), nil)
	}
}
