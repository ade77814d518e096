// Package daemon hosts the long-running scribed process state: the assembled
// toolkit, the probe cache and its optional watcher, and the single-instance
// file lock.
package daemon
