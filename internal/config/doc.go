// Package config loads and validates the Chorus configuration.
//
// Configuration lives in a TOML file ("~/.config/chorus/config.toml" by
// default, or "chorus.toml" in the working directory). Every value has a
// sensible default so the tool runs without a file; the sample config
// documents the full surface. Paths are tilde-expanded and normalized to
// absolute form during load.
package config
