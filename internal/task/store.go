package task

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// SaveWarning is the user-visible warning kept after a failed save.
const SaveWarning = "Could not save your tasks."

var (
	// ErrEmptyText is returned when an add or edit would store blank text.
	ErrEmptyText = errors.New("task text is empty")
	// ErrNotFound is returned when an operation targets an unknown task id.
	ErrNotFound = errors.New("task not found")
	// ErrNoSuggester is returned when AI suggestions are requested but no
	// suggestion client is configured.
	ErrNoSuggester = errors.New("suggestions are not configured, set GEMINI_API_KEY")
)

// Saver persists the full task list. It is called after every mutation.
type Saver interface {
	Save(tasks []Task) error
}

// SaverFunc adapts a function to the Saver interface.
type SaverFunc func(tasks []Task) error

// Save calls f.
func (f SaverFunc) Save(tasks []Task) error {
	return f(tasks)
}

// Categorizer assigns a category label to a task's text. Implementations
// must not fail: on any error they return a fallback label, or an empty
// string to leave the task uncategorized.
type Categorizer interface {
	Categorize(ctx context.Context, text string) string
}

// Suggester produces AI task and category suggestions.
type Suggester interface {
	// SuggestTasks proposes new tasks given the current list. Failures
	// propagate: this operation is user-triggered and its errors are shown.
	SuggestTasks(ctx context.Context, tasks []Task) ([]string, error)
	// SuggestCategories proposes candidate categories for a task's text.
	// Failures degrade to an empty result.
	SuggestCategories(ctx context.Context, text string) []string
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithCategorizer enables background categorization of added tasks.
func WithCategorizer(c Categorizer) StoreOption {
	return func(s *Store) {
		s.categorizer = c
	}
}

// WithSuggester enables AI task and category suggestions.
func WithSuggester(sg Suggester) StoreOption {
	return func(s *Store) {
		s.suggester = sg
	}
}

// WithTasks seeds the store with a previously loaded list.
func WithTasks(tasks []Task) StoreOption {
	return func(s *Store) {
		s.tasks = append([]Task(nil), tasks...)
	}
}

// WithLogger sets the logger used for background failures.
func WithLogger(logger *log.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

// Store owns the task list. All mutations are linearized through the store
// mutex and written through the Saver before returning.
type Store struct {
	mu          sync.Mutex
	tasks       []Task
	saver       Saver
	categorizer Categorizer
	suggester   Suggester
	logger      *log.Logger
	saveWarning string
	pending     sync.WaitGroup
}

// NewStore creates a store that persists through saver.
func NewStore(saver Saver, opts ...StoreOption) *Store {
	s := &Store{
		saver:  saver,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add creates a task from text, prepends it to the list, and kicks off
// background categorization when a categorizer is configured. The returned
// task reflects the state at creation time.
func (s *Store) Add(ctx context.Context, text string) (Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, ErrEmptyText
	}

	now := time.Now().UTC()
	t := Task{
		ID:             NewID(),
		Text:           text,
		CreatedAt:      &now,
		IsCategorizing: s.categorizer != nil,
	}

	s.mu.Lock()
	s.tasks = append([]Task{t}, s.tasks...)
	s.persistLocked()
	s.mu.Unlock()

	if s.categorizer != nil {
		// The categorization must outlive the caller's request context.
		bg := context.WithoutCancel(ctx)
		s.pending.Add(1)
		go func() {
			defer s.pending.Done()
			category := s.categorizer.Categorize(bg, t.Text)
			s.finishCategorize(t.ID, category)
		}()
	}

	return t, nil
}

// AddUnique adds a task unless one with the same text already exists
// (case-insensitive). It reports whether a task was added.
func (s *Store) AddUnique(ctx context.Context, text string) (Task, bool, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Task{}, false, ErrEmptyText
	}

	s.mu.Lock()
	for _, t := range s.tasks {
		if strings.EqualFold(t.Text, trimmed) {
			s.mu.Unlock()
			return Task{}, false, nil
		}
	}
	s.mu.Unlock()

	t, err := s.Add(ctx, trimmed)
	if err != nil {
		return Task{}, false, err
	}
	return t, true, nil
}

// finishCategorize applies a categorization result to the task with the
// given id. The task may have been deleted since the request started; the
// patch is silently discarded then. An existing category is overwritten:
// last writer wins.
func (s *Store) finishCategorize(id, category string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID != id {
			continue
		}
		if category != "" {
			s.tasks[i].Category = strings.TrimSpace(category)
		}
		s.tasks[i].IsCategorizing = false
		s.persistLocked()
		return
	}
}

// Toggle flips the completed flag on a task. It reports whether the task
// was found.
func (s *Store) Toggle(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i].Completed = !s.tasks[i].Completed
			s.persistLocked()
			return true
		}
	}
	return false
}

// Edit replaces a task's text. Blank text is rejected and the prior text
// is kept.
func (s *Store) Edit(id, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyText
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i].Text = text
			s.persistLocked()
			return nil
		}
	}
	return ErrNotFound
}

// Delete removes a task. It reports whether the task was found.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			s.persistLocked()
			return true
		}
	}
	return false
}

// ClearCompleted removes every completed task, preserving the relative
// order of the rest. It returns the number of removed tasks.
func (s *Store) ClearCompleted() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.tasks[:0]
	removed := 0
	for _, t := range s.tasks {
		if t.Completed {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	if removed == 0 {
		return 0
	}
	s.tasks = kept
	s.persistLocked()
	return removed
}

// SetCategory sets a task's category. The label is trimmed; an empty label
// becomes DefaultCategory. It reports whether the task was found.
func (s *Store) SetCategory(id, category string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i].Category = NormalizeCategory(category)
			s.persistLocked()
			return true
		}
	}
	return false
}

// Get returns a copy of the task with the given id.
func (s *Store) Get(id string) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// Tasks returns a copy of the full list, newest first.
func (s *Store) Tasks() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Task(nil), s.tasks...)
}

// Filtered returns the tasks matching the filter, preserving list order.
func (s *Store) Filtered(f Filter) []Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// CompletedCount returns the number of completed tasks.
func (s *Store) CompletedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, t := range s.tasks {
		if t.Completed {
			count++
		}
	}
	return count
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// SuggestTasks asks the suggestion client for new tasks based on the
// current list. Errors propagate to the caller.
func (s *Store) SuggestTasks(ctx context.Context) ([]string, error) {
	if s.suggester == nil {
		return nil, ErrNoSuggester
	}
	return s.suggester.SuggestTasks(ctx, s.Tasks())
}

// SuggestCategories asks the suggestion client for candidate categories
// for the task with the given id. An unknown id or any client failure
// yields an empty result.
func (s *Store) SuggestCategories(ctx context.Context, id string) []string {
	if s.suggester == nil {
		return nil
	}
	t, ok := s.Get(id)
	if !ok {
		return nil
	}
	return s.suggester.SuggestCategories(ctx, t.Text)
}

// Warning returns the user-visible warning from the most recent save, or
// an empty string if the last save succeeded.
func (s *Store) Warning() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveWarning
}

// Wait blocks until all background categorizations have resolved.
func (s *Store) Wait() {
	s.pending.Wait()
}

// persistLocked writes the full list through the saver. The caller must
// hold the mutex. Failures keep the in-memory list authoritative and are
// surfaced through Warning.
func (s *Store) persistLocked() {
	if s.saver == nil {
		return
	}
	if err := s.saver.Save(append([]Task(nil), s.tasks...)); err != nil {
		s.saveWarning = SaveWarning
		s.logger.Warn("Failed to save tasks", "error", err)
		return
	}
	s.saveWarning = ""
}
