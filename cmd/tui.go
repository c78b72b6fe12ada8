package cmd

import (
	"context"
	"fmt"

	"github.com/gemdo/gemdo/internal/config"
	"github.com/gemdo/gemdo/internal/ui"
)

// tuiCommand launches the terminal UI.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}

	a, err := buildApp(cfg)
	if err != nil {
		return err
	}

	if err := ui.RunTUI(ctx, a.store, cfg.TasksFile); err != nil {
		return err
	}
	a.store.Wait()
	return nil
}
