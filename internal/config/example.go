package config

// ExampleConfig returns an example configuration showing all available
// options.
func ExampleConfig() string {
	return `# gemdo configuration file
# Values can be overridden by GEMDO_* environment variables or CLI flags

# Data directory (supports ~ expansion)
data_dir = "~/.gemdo"

# Tasks file (default: <data_dir>/tasks.json)
# tasks_file = "~/.gemdo/tasks.json"

# Theme file (default: <data_dir>/theme)
# theme_file = "~/.gemdo/theme"

# HTTP API listen address for the browser UI
listen = "127.0.0.1:8370"

# Allowed CORS origins for the HTTP API
allowed_origins = ["*"]

# Gemini model for task and category suggestions
# The API key is read from GEMINI_API_KEY or GOOGLE_API_KEY, never from
# this file.
model = "gemini-2.5-flash"

# Logging
log_level = "info"
log_format = "text"
log_timestamps = false
log_caller = false
`
}
