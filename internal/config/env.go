package config

import (
	"os"
	"strings"
)

// loadFromEnv overrides config from GEMDO_* environment variables.
func loadFromEnv(cfg *Config) {
	setEnv := func(field string) {
		cfg.Sources[field] = SourceEnv
	}

	if v := os.Getenv("GEMDO_DATA_DIR"); v != "" {
		cfg.DataDir = v
		setEnv("data_dir")
	}
	if v := os.Getenv("GEMDO_TASKS_FILE"); v != "" {
		cfg.TasksFile = v
		setEnv("tasks_file")
	}
	if v := os.Getenv("GEMDO_THEME_FILE"); v != "" {
		cfg.ThemeFile = v
		setEnv("theme_file")
	}
	if v := os.Getenv("GEMDO_LISTEN"); v != "" {
		cfg.Listen = v
		setEnv("listen")
	}
	if v := os.Getenv("GEMDO_ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = splitOrigins(v)
		setEnv("allowed_origins")
	}
	if v := os.Getenv("GEMDO_MODEL"); v != "" {
		cfg.Model = v
		setEnv("model")
	}
	if v := os.Getenv("GEMDO_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
		setEnv("log_level")
	}
	if v := os.Getenv("GEMDO_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
		setEnv("log_format")
	}
	if v := os.Getenv("GEMDO_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = isTruthy(v)
		setEnv("log_timestamps")
	}
	if v := os.Getenv("GEMDO_LOG_CALLER"); v != "" {
		cfg.LogCaller = isTruthy(v)
		setEnv("log_caller")
	}
}

// splitOrigins splits a comma-separated origin list, dropping blanks.
func splitOrigins(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
