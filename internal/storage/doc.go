// Package storage persists the task list and theme preference to disk.
//
// The task list lives in a single JSON file (tasks.json by default): an
// array of task objects, 2-space indented, trailing newline. There is no
// versioning and no migration; every save overwrites the whole file.
//
// Loads are defensive. A missing file is a first run and yields an empty
// list. An unreadable, unparseable, or schema-invalid file also yields an
// empty list, plus a *LoadError so callers can show a non-blocking warning
// without losing the session. Loaded tasks that were still waiting on a
// categorization when the previous session ended have their pending flag
// cleared: no request is outstanding anymore, so the flag is stale.
//
// The theme preference ("light" or "dark") is stored in its own file and
// always degrades to light when missing or unrecognized.
package storage
