// Package openai wraps the OpenAI SDK for the two audio backends: plain
// speech-to-text transcription and prompted multimodal completion over inline
// audio.
package openai
