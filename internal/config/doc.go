// Package config loads, normalizes, and validates the TOML configuration
// consumed by every pipeline component. Components receive an explicit
// *Config; nothing reads ambient path state.
package config
