// Package ui provides the optional terminal interface.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gemdo/gemdo/internal/task"
)

// RunTUI starts the terminal interface over the given store.
func RunTUI(ctx context.Context, store *task.Store, tasksPath string) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}
	model := newTUIModel(store, tasksPath)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type tuiModel struct {
	store        *task.Store
	tasksPath    string
	filter       task.Filter
	visible      []task.Task
	cursor       int
	showHelp     bool
	tickInterval time.Duration
}

type tickMsg time.Time

func newTUIModel(store *task.Store, tasksPath string) *tuiModel {
	return &tuiModel{
		store:        store,
		tasksPath:    tasksPath,
		filter:       task.FilterAll,
		tickInterval: time.Second,
	}
}

func (m *tuiModel) Init() tea.Cmd {
	m.refresh()
	// Categorization results arrive at an indeterminate later time, so
	// the view is re-read on a timer.
	return tickCmd(m.tickInterval)
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "h", "?":
			m.showHelp = !m.showHelp
			return m, nil
		case "j", "down":
			if m.cursor < len(m.visible)-1 {
				m.cursor++
			}
			return m, nil
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case " ", "enter":
			if t, ok := m.selected(); ok {
				m.store.Toggle(t.ID)
				m.refresh()
			}
			return m, nil
		case "d", "x":
			if t, ok := m.selected(); ok {
				m.store.Delete(t.ID)
				m.refresh()
			}
			return m, nil
		case "C":
			m.store.ClearCompleted()
			m.refresh()
			return m, nil
		case "1":
			m.setFilter(task.FilterActive)
			return m, nil
		case "2":
			m.setFilter(task.FilterCompleted)
			return m, nil
		case "0":
			m.setFilter(task.FilterAll)
			return m, nil
		case "f":
			m.cycleFilter()
			return m, nil
		case "r", "f5":
			m.refresh()
			return m, nil
		}
	case tickMsg:
		m.refresh()
		return m, tickCmd(m.tickInterval)
	}

	return m, nil
}

func (m *tuiModel) View() string {
	var b strings.Builder
	writeTitle(&b)

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b)
		return b.String()
	}

	if m.filter != task.FilterAll {
		b.WriteString(fmt.Sprintf("Filter: %s (0 to clear)\n\n", m.filter))
	}

	writeOverview(&b, m.store)

	if len(m.visible) == 0 {
		if m.store.Len() == 0 {
			b.WriteString("  Nothing to do. Add a task with: gemdo add <text>\n\n")
		} else {
			b.WriteString("  No tasks match this filter.\n\n")
		}
	} else {
		for i, t := range m.visible {
			b.WriteString(formatTask(&t, i == m.cursor))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if warn := m.store.Warning(); warn != "" {
		b.WriteString("! " + warn + "\n\n")
	}

	b.WriteString(fmt.Sprintf("Tasks File: %s\n\n", m.tasksPath))
	writeFooter(&b)
	return b.String()
}

func (m *tuiModel) refresh() {
	m.visible = m.store.Filtered(m.filter)
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *tuiModel) selected() (task.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return task.Task{}, false
	}
	return m.visible[m.cursor], true
}

func (m *tuiModel) setFilter(f task.Filter) {
	m.filter = f
	m.cursor = 0
	m.refresh()
}

func (m *tuiModel) cycleFilter() {
	switch m.filter {
	case task.FilterAll:
		m.setFilter(task.FilterActive)
	case task.FilterActive:
		m.setFilter(task.FilterCompleted)
	default:
		m.setFilter(task.FilterAll)
	}
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func writeTitle(b *strings.Builder) {
	title := "gemdo"
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func writeOverview(b *strings.Builder, store *task.Store) {
	total := store.Len()
	completed := store.CompletedCount()
	b.WriteString(fmt.Sprintf("  Active: %d  Completed: %d  Total: %d\n\n",
		total-completed, completed, total))
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, ctrl+c     Quit\n")
	b.WriteString("  j/k, arrows   Move cursor\n")
	b.WriteString("  space, enter  Toggle completed\n")
	b.WriteString("  d, x          Delete task\n")
	b.WriteString("  C             Clear completed tasks\n")
	b.WriteString("  f             Cycle filter\n")
	b.WriteString("  1             Filter by active\n")
	b.WriteString("  2             Filter by completed\n")
	b.WriteString("  0             Clear filter\n")
	b.WriteString("  r, F5         Refresh\n")
	b.WriteString("  h, ?          Toggle this help screen\n\n")
}

func writeFooter(b *strings.Builder) {
	b.WriteString("Press h for help | q to quit\n")
}

func formatTask(t *task.Task, selected bool) string {
	marker := " "
	if t.Completed {
		marker = "x"
	}

	pointer := " "
	if selected {
		pointer = ">"
	}

	line := fmt.Sprintf("%s [%s] %s", pointer, marker, t.Text)
	switch {
	case t.IsCategorizing:
		line += "  (categorizing...)"
	case t.Category != "":
		line += fmt.Sprintf("  (%s)", t.Category)
	}
	return line
}

// IsTTY returns true if stdout is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
