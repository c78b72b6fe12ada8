// Package suggest wraps the Google Gemini API for the three AI features:
// new-task suggestions, single-category assignment, and candidate-category
// suggestions.
//
// Each operation is a stateless request/response round trip. The model is
// an untyped external data source, so every response is shape-checked
// before use. The error policy is deliberately asymmetric:
//
//   - SuggestTasks is user-triggered with a visible loading state, so
//     transport failures and malformed responses propagate to the caller.
//   - Categorize runs in the background on every add and must never fail
//     the add flow; any failure degrades to the "General" fallback.
//   - SuggestCategories feeds an optional picker; any failure degrades to
//     an empty result.
package suggest
