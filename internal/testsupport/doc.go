// Package testsupport provides shared fixtures for tests: temp-dir configs
// with stubbed external binaries and audio file helpers.
package testsupport
