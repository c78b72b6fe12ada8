package config

import (
	"flag"
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Load loads configuration from all sources in priority order:
// defaults, user config file, project config file, environment, CLI flags.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}

	// 1. Set defaults
	setDefaults(cfg)

	// 2. Try to load from user config file
	if userConfigFile := findUserConfigFile(); userConfigFile != "" {
		if err := loadConfigFile(cfg, userConfigFile, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userConfigFile, err)
		}
	}

	// 3. Try to load from project config file (overrides user config)
	if projectConfigFile := findProjectConfigFile(); projectConfigFile != "" {
		if err := loadConfigFile(cfg, projectConfigFile, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectConfigFile, err)
		}
	}

	// 4. Override from environment
	loadFromEnv(cfg)

	// 5. Parse CLI flags (they override everything)
	if err := parseFlags(cfg, fs, args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 6. Compute derived values
	finalizeConfig(cfg)

	return cfg, nil
}

// fileConfig mirrors the TOML layout. A separate struct keeps track of
// which keys a file actually set.
type fileConfig struct {
	DataDir        *string   `toml:"data_dir"`
	TasksFile      *string   `toml:"tasks_file"`
	ThemeFile      *string   `toml:"theme_file"`
	Listen         *string   `toml:"listen"`
	AllowedOrigins *[]string `toml:"allowed_origins"`
	Model          *string   `toml:"model"`
	LogLevel       *string   `toml:"log_level"`
	LogFormat      *string   `toml:"log_format"`
	LogTimestamps  *bool     `toml:"log_timestamps"`
	LogCaller      *bool     `toml:"log_caller"`
}

// loadConfigFile merges one TOML file into cfg, recording the source of
// each key the file set.
func loadConfigFile(cfg *Config, path string, source Source) error {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return err
	}

	set := func(field string, apply func()) {
		apply()
		cfg.Sources[field] = source
	}

	if fc.DataDir != nil {
		set("data_dir", func() { cfg.DataDir = *fc.DataDir })
	}
	if fc.TasksFile != nil {
		set("tasks_file", func() { cfg.TasksFile = *fc.TasksFile })
	}
	if fc.ThemeFile != nil {
		set("theme_file", func() { cfg.ThemeFile = *fc.ThemeFile })
	}
	if fc.Listen != nil {
		set("listen", func() { cfg.Listen = *fc.Listen })
	}
	if fc.AllowedOrigins != nil {
		set("allowed_origins", func() { cfg.AllowedOrigins = *fc.AllowedOrigins })
	}
	if fc.Model != nil {
		set("model", func() { cfg.Model = *fc.Model })
	}
	if fc.LogLevel != nil {
		set("log_level", func() { cfg.LogLevel = *fc.LogLevel })
	}
	if fc.LogFormat != nil {
		set("log_format", func() { cfg.LogFormat = *fc.LogFormat })
	}
	if fc.LogTimestamps != nil {
		set("log_timestamps", func() { cfg.LogTimestamps = *fc.LogTimestamps })
	}
	if fc.LogCaller != nil {
		set("log_caller", func() { cfg.LogCaller = *fc.LogCaller })
	}

	return nil
}

// finalizeConfig expands paths and fills in derived values.
func finalizeConfig(cfg *Config) {
	cfg.DataDir = expandPath(cfg.DataDir)

	if cfg.TasksFile == "" {
		cfg.TasksFile = filepath.Join(cfg.DataDir, "tasks.json")
	} else {
		cfg.TasksFile = expandPath(cfg.TasksFile)
	}

	if cfg.ThemeFile == "" {
		cfg.ThemeFile = filepath.Join(cfg.DataDir, "theme")
	} else {
		cfg.ThemeFile = expandPath(cfg.ThemeFile)
	}
}
