// Package media defines the closed set of audio container formats scribe
// understands and how they are detected from extensions and ffprobe output.
package media
