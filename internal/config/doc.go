// Package config loads, normalizes, and validates Trainyard's TOML
// configuration. Path fields are tilde-expanded and made absolute, credential
// fields fall back to environment variables, and validation rejects configs
// that would fail deep inside a pipeline run (bad ratios, missing bucket,
// malformed image shape) before any work starts.
package config
