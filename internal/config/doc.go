// Package config loads, normalizes, and validates kiliexport configuration.
//
// It supplies repository defaults, reads TOML files, expands tilde paths, and
// honours KILI_* environment fallbacks. Always obtain settings through this
// package so downstream code receives sanitized paths and clear validation
// errors before any network or disk work starts.
package config
