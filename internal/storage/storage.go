package storage

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/gemdo/gemdo/internal/task"
)

//go:embed tasks.schema.json
var tasksSchemaJSON string

// LoadWarning is the user-visible warning attached to a LoadError.
const LoadWarning = "Could not load your saved tasks."

// LoadError reports a recoverable load failure. The list defaults to
// empty and the application stays usable.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load tasks from %s: %s", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// Store reads and writes the tasks file and the theme file.
type Store struct {
	TasksPath string
	ThemePath string
	schema    *jsonschema.Schema
}

// New creates a store over the given data directory, creating it if
// needed. The tasks file is tasks.json and the theme file is theme.
func New(dir string) (*Store, error) {
	return NewWithPaths(filepath.Join(dir, "tasks.json"), filepath.Join(dir, "theme"))
}

// NewWithPaths creates a store over explicit file paths, creating their
// parent directories if needed.
func NewWithPaths(tasksPath, themePath string) (*Store, error) {
	for _, p := range []string{tasksPath, themePath} {
		if dir := filepath.Dir(p); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("create data dir: %w", err)
			}
		}
	}

	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource("tasks.schema.json", strings.NewReader(tasksSchemaJSON)); err != nil {
		return nil, fmt.Errorf("add tasks schema: %w", err)
	}
	schema, err := compiler.Compile("tasks.schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile tasks schema: %w", err)
	}
	return &Store{
		TasksPath: tasksPath,
		ThemePath: themePath,
		schema:    schema,
	}, nil
}

// Load reads the task list. A missing file yields an empty list and no
// error. Corrupt or schema-invalid data yields an empty list and a
// *LoadError. Stale pending-categorization flags are cleared.
func (s *Store) Load() ([]task.Task, error) {
	data, err := os.ReadFile(s.TasksPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &LoadError{Path: s.TasksPath, Err: err}
	}

	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &LoadError{Path: s.TasksPath, Err: fmt.Errorf("parse tasks file: %w", err)}
	}
	if err := s.schema.Validate(raw); err != nil {
		return nil, &LoadError{Path: s.TasksPath, Err: fmt.Errorf("validate tasks file: %w", err)}
	}

	var tasks []task.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, &LoadError{Path: s.TasksPath, Err: fmt.Errorf("parse tasks file: %w", err)}
	}

	// A pending flag restored from a previous session has no outstanding
	// request to resolve it.
	for i := range tasks {
		tasks[i].IsCategorizing = false
	}

	return tasks, nil
}

// Save writes the full task list with 2-space indentation and a trailing
// newline, overwriting the previous contents.
func (s *Store) Save(tasks []task.Task) error {
	if tasks == nil {
		tasks = []task.Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}

	// Add trailing newline
	data = append(data, '\n')

	if err := os.WriteFile(s.TasksPath, data, 0644); err != nil {
		return fmt.Errorf("write tasks file: %w", err)
	}

	return nil
}
