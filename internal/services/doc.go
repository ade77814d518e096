// Package services carries the cross-cutting plumbing shared by the toolkit
// components: the error taxonomy with its sentinel markers and wire
// classification, and context annotations used for log correlation.
//
// Every per-file failure surfaced by a tool is tagged with exactly one
// sentinel so callers can distinguish probe, transform, capability, and
// upstream-service failures without string matching.
package services
