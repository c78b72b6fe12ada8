// Package task owns the in-memory task list and its mutation operations.
//
// The list is newest-first: Add prepends. Every mutation runs under the
// store mutex and is written through the injected Saver before the call
// returns. Save failures never fail the mutation; the in-memory list stays
// authoritative for the session and the failure is kept as a warning.
//
// Categorization is a background enhancement. Add marks the new task with
// IsCategorizing and spawns a request against the configured Categorizer;
// when it resolves, the result is applied as a patch-if-present mutation
// keyed by the task id. A task deleted in the meantime makes the patch a
// no-op. The patch overwrites whatever category is present at that point
// (last writer wins).
//
// # Task JSON shape
//
//	{
//	  "id": "9b1de3a4-...",
//	  "text": "Buy milk",
//	  "completed": false,
//	  "category": "Shopping",
//	  "isCategorizing": false,
//	  "created_at": "2024-01-01T00:00:00Z"
//	}
//
// # Filters
//
//   - "all": every task
//   - "active": completed == false
//   - "completed": completed == true
package task
