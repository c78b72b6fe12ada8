package config

// Source represents where a configuration value came from.
type Source string

const (
	SourceDefault  Source = "default"
	SourceUserFile Source = "user file"
	SourceProjFile Source = "project file"
	SourceEnv      Source = "environment"
	SourceFlag     Source = "flag"
)

// Default values.
const (
	DefaultDataDir   = "~/.gemdo"
	DefaultListen    = "127.0.0.1:8370"
	DefaultModel     = "gemini-2.5-flash"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Config holds the full configuration for gemdo.
type Config struct {
	// Paths
	DataDir   string `toml:"data_dir"`
	TasksFile string `toml:"tasks_file"` // defaults to <data_dir>/tasks.json
	ThemeFile string `toml:"theme_file"` // defaults to <data_dir>/theme

	// HTTP API
	Listen         string   `toml:"listen"`
	AllowedOrigins []string `toml:"allowed_origins"`

	// AI suggestions
	Model string `toml:"model"`

	// Logging
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Sources maps field names to where their value came from.
	Sources map[string]Source `toml:"-"`
}

// configFields lists the tracked field names.
func configFields() []string {
	return []string{
		"data_dir",
		"tasks_file",
		"theme_file",
		"listen",
		"allowed_origins",
		"model",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.DataDir = DefaultDataDir
	cfg.Listen = DefaultListen
	cfg.AllowedOrigins = []string{"*"}
	cfg.Model = DefaultModel
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat

	cfg.Sources = make(map[string]Source)
	for _, field := range configFields() {
		cfg.Sources[field] = SourceDefault
	}
}
