// Package ffprobe wraps the ffprobe binary for container inspection. Callers
// get a decoded JSON result with helpers for the handful of fields scribe
// cares about: duration, size, bitrate, and the demuxer name.
package ffprobe
