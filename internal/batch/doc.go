// Package batch runs per-file operations concurrently under a bounded
// concurrency ceiling, collecting an ordered per-file outcome sequence in
// which failures stay isolated to their own slot.
package batch
