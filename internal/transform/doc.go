// Package transform is the audio transform pipeline: format conversion and
// size-constrained compression via ffmpeg. Compression is a bounded iterative
// bitrate search, not a single-shot encode.
package transform
