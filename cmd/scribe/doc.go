// Package main hosts the scribe CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into IPC calls
// against the scribed daemon: listing and filtering the audio drop folder,
// conversion and compression requests, transcription dispatch, cache
// maintenance, and configuration scaffolding. It centralizes configuration
// resolution and socket discovery so subcommands can focus on presentation.
package main
