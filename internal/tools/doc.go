// Package tools is the toolkit facade: the discovery, transformation, and
// transcription operations exposed to callers, composed from the catalog,
// transform pipeline, batch orchestrator, and transcription backends.
package tools
