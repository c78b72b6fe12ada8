package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/gemdo/gemdo/internal/config"
	"github.com/gemdo/gemdo/internal/storage"
	"github.com/gemdo/gemdo/internal/task"
)

// addCommand adds a task and waits for its background categorization so
// the process does not exit with the request in flight.
func addCommand(ctx context.Context, cfg *config.Config, args []string) error {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return fmt.Errorf("usage: gemdo add <text>")
	}

	a, err := buildApp(cfg)
	if err != nil {
		return err
	}

	t, err := a.store.Add(ctx, text)
	if err != nil {
		return err
	}
	a.store.Wait()

	added, _ := a.store.Get(t.ID)
	printTask(added)
	return warnIfUnsaved(a)
}

func lsCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("gemdo ls", flag.ContinueOnError)
	filterName := fs.String("filter", "", "Filter tasks (all|active|completed)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	filter, err := task.ParseFilter(*filterName)
	if err != nil {
		return err
	}

	a, err := buildApp(cfg)
	if err != nil {
		return err
	}
	if a.warning != "" {
		fmt.Println("! " + a.warning)
	}

	tasks := a.store.Filtered(filter)
	if len(tasks) == 0 {
		if a.store.Len() == 0 {
			fmt.Println("No tasks yet. Add one with: gemdo add <text>")
		} else {
			fmt.Printf("No %s tasks.\n", filter)
		}
		return nil
	}

	for _, t := range tasks {
		printTask(t)
	}
	fmt.Printf("\n%d completed of %d total\n", a.store.CompletedCount(), a.store.Len())
	return nil
}

func toggleCommand(cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: gemdo toggle <id>")
	}

	a, err := buildApp(cfg)
	if err != nil {
		return err
	}
	id, err := resolveID(a.store, args[0])
	if err != nil {
		return err
	}

	a.store.Toggle(id)
	t, _ := a.store.Get(id)
	printTask(t)
	return warnIfUnsaved(a)
}

func editCommand(cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: gemdo edit <id> <text>")
	}

	a, err := buildApp(cfg)
	if err != nil {
		return err
	}
	id, err := resolveID(a.store, args[0])
	if err != nil {
		return err
	}

	if err := a.store.Edit(id, strings.Join(args[1:], " ")); err != nil {
		return err
	}
	t, _ := a.store.Get(id)
	printTask(t)
	return warnIfUnsaved(a)
}

func rmCommand(cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: gemdo rm <id>")
	}

	a, err := buildApp(cfg)
	if err != nil {
		return err
	}
	id, err := resolveID(a.store, args[0])
	if err != nil {
		return err
	}

	a.store.Delete(id)
	fmt.Printf("Deleted %s\n", shortID(id))
	return warnIfUnsaved(a)
}

func clearCommand(cfg *config.Config, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}

	a, err := buildApp(cfg)
	if err != nil {
		return err
	}

	removed := a.store.ClearCompleted()
	fmt.Printf("Removed %d completed task(s)\n", removed)
	return warnIfUnsaved(a)
}

// categoryCommand sets a task's category. The label "-" asks Gemini for
// candidates and prints them instead of mutating.
func categoryCommand(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: gemdo category <id> <label>")
	}

	a, err := buildApp(cfg)
	if err != nil {
		return err
	}
	id, err := resolveID(a.store, args[0])
	if err != nil {
		return err
	}

	label := strings.Join(args[1:], " ")
	if label == "-" {
		candidates := a.store.SuggestCategories(ctx, id)
		if len(candidates) == 0 {
			fmt.Println("No suggestions.")
			return nil
		}
		for _, c := range candidates {
			fmt.Println("  " + c)
		}
		return nil
	}

	a.store.SetCategory(id, label)
	t, _ := a.store.Get(id)
	printTask(t)
	return warnIfUnsaved(a)
}

func themeCommand(cfg *config.Config, args []string) error {
	a, err := buildApp(cfg)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		fmt.Println(a.files.LoadTheme())
		return nil
	}

	theme, err := storage.ParseTheme(args[0])
	if err != nil {
		return err
	}
	if err := a.files.SaveTheme(theme); err != nil {
		return err
	}
	fmt.Println(theme)
	return nil
}

// resolveID matches a full id or a unique id prefix against the list.
func resolveID(store *task.Store, prefix string) (string, error) {
	var matches []string
	for _, t := range store.Tasks() {
		if t.ID == prefix {
			return t.ID, nil
		}
		if strings.HasPrefix(t.ID, prefix) {
			matches = append(matches, t.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no task with id %q", prefix)
	case 1:
		return matches[0], nil
	}
	return "", fmt.Errorf("id %q is ambiguous (%d matches)", prefix, len(matches))
}

// printTask prints a single task.
func printTask(t task.Task) {
	marker := " "
	if t.Completed {
		marker = "x"
	}

	line := fmt.Sprintf("  [%s] %s  %s", marker, shortID(t.ID), t.Text)
	switch {
	case t.IsCategorizing:
		line += "  (categorizing...)"
	case t.Category != "":
		line += fmt.Sprintf("  (%s)", t.Category)
	}
	fmt.Println(line)
}

// shortID abbreviates a UUID to its first segment for display.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

// warnIfUnsaved reports a failed save after a mutation. The mutation
// itself still happened in memory.
func warnIfUnsaved(a *app) error {
	if warn := a.store.Warning(); warn != "" {
		return fmt.Errorf("%s", warn)
	}
	return nil
}
