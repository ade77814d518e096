// Package logging builds the slog loggers used across scribe: a console
// handler for interactive use, JSON for log files, and helpers that derive
// structured fields from request context.
package logging
