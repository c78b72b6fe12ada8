package storage

import (
	"fmt"
	"os"
	"strings"
)

// Theme is the persisted UI theme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme parses a theme name. Unrecognized values are an error.
func ParseTheme(s string) (Theme, error) {
	switch Theme(s) {
	case ThemeLight, ThemeDark:
		return Theme(s), nil
	}
	return "", fmt.Errorf("invalid theme %q, must be light or dark", s)
}

// LoadTheme reads the theme preference. Missing or unrecognized values
// default to light.
func (s *Store) LoadTheme() Theme {
	data, err := os.ReadFile(s.ThemePath)
	if err != nil {
		return ThemeLight
	}
	theme, err := ParseTheme(strings.TrimSpace(string(data)))
	if err != nil {
		return ThemeLight
	}
	return theme
}

// SaveTheme writes the theme preference. Best-effort: the returned error
// is informational and callers may ignore it.
func (s *Store) SaveTheme(theme Theme) error {
	if err := os.WriteFile(s.ThemePath, []byte(string(theme)+"\n"), 0644); err != nil {
		return fmt.Errorf("write theme file: %w", err)
	}
	return nil
}
