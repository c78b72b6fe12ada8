package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/gemdo/gemdo/internal/config"
	"github.com/gemdo/gemdo/internal/storage"
	"github.com/gemdo/gemdo/internal/suggest"
)

// doctorCommand checks config, data files, and the Gemini API key.
func doctorCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("gemdo doctor", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "Verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if rest := fs.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected arguments: %v", rest)
	}

	fmt.Println("gemdo Doctor")
	fmt.Println("============")
	fmt.Println()

	allOK := true

	// Config file
	fmt.Println("Config:")
	if f := cfg.ConfigFile(); f != "" {
		fmt.Printf("  ✅ Config file: %s\n", f)
	} else {
		fmt.Println("  ✅ Config file: none (using defaults)")
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "warning", "error", "fatal":
		fmt.Printf("  ✅ Log level: %s\n", cfg.LogLevel)
	default:
		fmt.Printf("  ⚠️  Log level: %q not recognized, using info\n", cfg.LogLevel)
	}
	if *verbose {
		for _, field := range []string{"data_dir", "tasks_file", "theme_file", "listen", "model"} {
			fmt.Printf("     %s: %s\n", field, cfg.Sources[field])
		}
	}
	fmt.Println()

	// Data files
	fmt.Println("Data:")
	files, err := storage.NewWithPaths(cfg.TasksFile, cfg.ThemeFile)
	if err != nil {
		fmt.Printf("  ❌ Data dir: %v\n", err)
		fmt.Println()
		fmt.Println("Some checks failed.")
		return fmt.Errorf("doctor checks failed")
	}
	fmt.Printf("  ✅ Tasks file: %s\n", cfg.TasksFile)
	tasks, loadErr := files.Load()
	switch {
	case loadErr != nil:
		fmt.Printf("  ❌ Tasks file is corrupt: %v\n", loadErr)
		allOK = false
	case tasks == nil:
		fmt.Println("  ✅ Tasks: none yet (first run)")
	default:
		fmt.Printf("  ✅ Tasks: %d loaded\n", len(tasks))
	}
	fmt.Printf("  ✅ Theme: %s\n", files.LoadTheme())
	fmt.Println()

	// Gemini API
	fmt.Println("Gemini:")
	client := suggest.New(suggest.WithModel(cfg.Model))
	if client.Available() {
		fmt.Printf("  ✅ API key: found\n")
		fmt.Printf("  ✅ Model: %s\n", client.Model())
	} else {
		fmt.Println("  ⚠️  API key: not found (set GEMINI_API_KEY)")
		fmt.Println("     Task and category suggestions will be disabled.")
	}
	fmt.Println()

	if cfg.ConfigFile() == "" && *verbose {
		fmt.Println("Example config (save as gemdo.toml):")
		fmt.Println()
		fmt.Print(config.ExampleConfig())
		fmt.Println()
	}

	if !allOK {
		fmt.Println("Some checks failed.")
		os.Exit(1)
	}
	fmt.Println("All checks passed.")
	return nil
}
