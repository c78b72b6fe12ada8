package suggest

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrBadResponse marks a model response that did not match the expected
// shape.
var ErrBadResponse = errors.New("unexpected response format")

// parseStringArray parses a model response that must be a JSON array of
// strings. Anything else is an ErrBadResponse.
func parseStringArray(text string) ([]string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("empty response: %w", ErrBadResponse)
	}

	var raw interface{}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("parse response: %w", ErrBadResponse)
	}

	items, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("response is not an array: %w", ErrBadResponse)
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("response element is not a string: %w", ErrBadResponse)
		}
		out = append(out, s)
	}
	return out, nil
}

// sanitizeCategory strips common markdown emphasis characters and
// surrounding whitespace from a free-text category response.
func sanitizeCategory(text string) string {
	text = strings.Map(func(r rune) rune {
		switch r {
		case '*', '_', '`':
			return -1
		}
		return r
	}, text)
	return strings.TrimSpace(text)
}
