// Package capability maps transcription backends to the container formats
// and upload ceilings they accept, answers per-file eligibility questions,
// and plans the convert-then-compress transformation for ineligible files.
package capability
