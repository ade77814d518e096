// Package ipc exposes the toolkit over JSON-RPC on a Unix domain socket and
// provides the matching client used by the CLI. Structural failures surface as
// RPC errors; per-file failures travel inside each response slot.
package ipc
