package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/gemdo/gemdo/internal/config"
)

// suggestCommand asks Gemini for new task suggestions. This is the one
// AI operation whose failure is reported instead of swallowed.
func suggestCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("gemdo suggest", flag.ContinueOnError)
	add := fs.Bool("add", false, "Add the suggested tasks to the list")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := buildApp(cfg)
	if err != nil {
		return err
	}

	fmt.Println("Thinking...")
	suggestions, err := a.store.SuggestTasks(ctx)
	if err != nil {
		return fmt.Errorf("failed to get suggestions: %w", err)
	}
	if len(suggestions) == 0 {
		fmt.Println("No suggestions.")
		return nil
	}

	if !*add {
		for _, s := range suggestions {
			fmt.Println("  " + s)
		}
		fmt.Println("\nRun 'gemdo suggest -add' to add them to the list.")
		return nil
	}

	for _, s := range suggestions {
		t, added, err := a.store.AddUnique(ctx, s)
		if err != nil {
			return err
		}
		if !added {
			fmt.Printf("  skipped (already on the list): %s\n", s)
			continue
		}
		fmt.Printf("  added: %s\n", t.Text)
	}
	a.store.Wait()
	return warnIfUnsaved(a)
}
