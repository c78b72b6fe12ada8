package config

import (
	"flag"
)

// parseFlags defines and parses the global CLI flags, recording which
// were explicitly set.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	if fs == nil {
		fs = flag.NewFlagSet("gemdo", flag.ContinueOnError)
	}

	var origins string

	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Data directory")
	fs.StringVar(&cfg.TasksFile, "tasks", cfg.TasksFile, "Path to tasks file")
	fs.StringVar(&cfg.ThemeFile, "theme-file", cfg.ThemeFile, "Path to theme file")
	fs.StringVar(&cfg.Listen, "listen", cfg.Listen, "HTTP API listen address")
	fs.StringVar(&origins, "origins", "", "Comma-separated allowed CORS origins")
	fs.StringVar(&cfg.Model, "model", cfg.Model, "Gemini model for suggestions")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug|info|warn|error|fatal)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text|json|logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Include timestamps in logs")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Include caller in logs")

	if err := fs.Parse(args); err != nil {
		return err
	}

	flagField := map[string]string{
		"data-dir":       "data_dir",
		"tasks":          "tasks_file",
		"theme-file":     "theme_file",
		"listen":         "listen",
		"origins":        "allowed_origins",
		"model":          "model",
		"log-level":      "log_level",
		"log-format":     "log_format",
		"log-timestamps": "log_timestamps",
		"log-caller":     "log_caller",
	}
	fs.Visit(func(f *flag.Flag) {
		field, ok := flagField[f.Name]
		if !ok {
			return
		}
		if f.Name == "origins" {
			cfg.AllowedOrigins = splitOrigins(origins)
		}
		cfg.Sources[field] = SourceFlag
	})

	return nil
}
