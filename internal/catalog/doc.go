// Package catalog is the audio asset index: it scans the configured drop
// folder, probes files through a modification-time keyed cache, and applies
// composable filter and sort specifications to produce ordered listings
// annotated with backend eligibility.
package catalog
