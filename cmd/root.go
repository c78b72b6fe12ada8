// Package cmd implements the CLI command structure for gemdo.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/gemdo/gemdo/internal/config"
	"github.com/gemdo/gemdo/internal/logging"
	"github.com/gemdo/gemdo/internal/storage"
	"github.com/gemdo/gemdo/internal/suggest"
	"github.com/gemdo/gemdo/internal/task"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Run executes the gemdo CLI.
func Run(ctx context.Context, args []string) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("gemdo", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs, os.Stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cfg, err := config.Load(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, os.Stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	// Determine the subcommand
	// If no args or first arg is a flag, use "ls" as default
	subcommand := "ls"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 {
		if !strings.HasPrefix(remainingArgs[0], "-") {
			subcommand = remainingArgs[0]
			remainingArgs = remainingArgs[1:]
		}
	}

	switch subcommand {
	case "serve":
		return serveCommand(ctx, cfg, remainingArgs)
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "add":
		return addCommand(ctx, cfg, remainingArgs)
	case "ls", "list":
		return lsCommand(cfg, remainingArgs)
	case "toggle", "done":
		return toggleCommand(cfg, remainingArgs)
	case "edit":
		return editCommand(cfg, remainingArgs)
	case "rm", "delete":
		return rmCommand(cfg, remainingArgs)
	case "clear":
		return clearCommand(cfg, remainingArgs)
	case "category":
		return categoryCommand(ctx, cfg, remainingArgs)
	case "suggest":
		return suggestCommand(ctx, cfg, remainingArgs)
	case "theme":
		return themeCommand(cfg, remainingArgs)
	case "doctor":
		return doctorCommand(cfg, remainingArgs)
	case "version", "--version", "-v":
		return versionCommand()
	case "help", "--help", "-h":
		printUsage(fs, os.Stdout)
		return nil
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, os.Stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// app bundles the wired-up pieces every command needs.
type app struct {
	cfg     *config.Config
	logger  *log.Logger
	files   *storage.Store
	store   *task.Store
	client  *suggest.Client
	warning string // recoverable load warning, if any
}

// buildApp loads the persisted list and wires the store, persistence
// adapter, and suggestion client together.
func buildApp(cfg *config.Config) (*app, error) {
	logger := logging.NewFromConfig(cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller)

	files, err := storage.NewWithPaths(cfg.TasksFile, cfg.ThemeFile)
	if err != nil {
		return nil, err
	}

	var warning string
	tasks, err := files.Load()
	if err != nil {
		// Recoverable: start with an empty list and keep the warning.
		logger.Warn(storage.LoadWarning, "error", err)
		warning = storage.LoadWarning
	}

	client := suggest.New(
		suggest.WithModel(cfg.Model),
		suggest.WithLogger(logger),
	)

	opts := []task.StoreOption{
		task.WithTasks(tasks),
		task.WithLogger(logger),
	}
	if client.Available() {
		opts = append(opts,
			task.WithCategorizer(client),
			task.WithSuggester(client),
		)
	}
	store := task.NewStore(files, opts...)

	return &app{
		cfg:     cfg,
		logger:  logger,
		files:   files,
		store:   store,
		client:  client,
		warning: warning,
	}, nil
}

func versionCommand() error {
	fmt.Printf("gemdo version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "gemdo - A to-do list with Gemini-assisted suggestions")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  gemdo [command] [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  ls [-filter f]        List tasks (default command)")
	fmt.Fprintln(w, "  add <text>            Add a task (categorized in the background)")
	fmt.Fprintln(w, "  toggle <id>           Toggle a task's completed flag")
	fmt.Fprintln(w, "  edit <id> <text>      Replace a task's text")
	fmt.Fprintln(w, "  rm <id>               Delete a task")
	fmt.Fprintln(w, "  clear                 Remove all completed tasks")
	fmt.Fprintln(w, "  category <id> <label> Set a task's category ('-' to ask Gemini)")
	fmt.Fprintln(w, "  suggest [-add]        Ask Gemini for new task suggestions")
	fmt.Fprintln(w, "  theme [light|dark]    Show or set the theme preference")
	fmt.Fprintln(w, "  serve                 Run the HTTP API for the browser UI")
	fmt.Fprintln(w, "  tui                   Launch terminal UI")
	fmt.Fprintln(w, "  doctor                Check config, data files, and API key")
	fmt.Fprintln(w, "  version               Show version information")
	fmt.Fprintln(w, "  help                  Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Task ids may be abbreviated to any unique prefix.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ls Options (use with 'ls' command):")
	fmt.Fprintln(w, "  -filter string")
	fmt.Fprintln(w, "        Filter tasks (all|active|completed)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Suggest Options (use with 'suggest' command):")
	fmt.Fprintln(w, "  -add")
	fmt.Fprintln(w, "        Add the suggested tasks to the list")
}
