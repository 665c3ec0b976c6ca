// Package config loads and validates the TOML configuration shared by the
// mls commands: corpus location and language, splitter defaults, sample
// cache toggles, phonemizer settings, and logging options.
package config
