// Package config loads, normalizes, and validates scribe's TOML
// configuration. Defaults live in defaults.go, structural checks in
// validate.go. Path fields are tilde-expanded and made absolute during Load
// so downstream code never handles relative paths.
package config
