// Package config handles configuration loading and defaults.
//
// Values are resolved in priority order:
//
//  1. Defaults
//  2. User config file (~/.gemdo/gemdo.toml or OS-specific config dir)
//  3. Project config file (gemdo.toml or .gemdo.toml in current directory)
//  4. GEMDO_* environment variables
//  5. CLI flags
//
// The source of each field is tracked so `gemdo doctor` can report where
// a value came from. The Gemini API key is deliberately not a config-file
// field: it is read from GEMINI_API_KEY or GOOGLE_API_KEY by the
// suggestion client so that keys stay out of checked-in files.
package config
