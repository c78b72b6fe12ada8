package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/gemdo/gemdo/internal/storage"
	"github.com/gemdo/gemdo/internal/task"
)

type fakeSuggester struct {
	tasks      []string
	tasksErr   error
	categories []string
}

func (f *fakeSuggester) SuggestTasks(ctx context.Context, tasks []task.Task) ([]string, error) {
	return f.tasks, f.tasksErr
}

func (f *fakeSuggester) SuggestCategories(ctx context.Context, text string) []string {
	return f.categories
}

func newTestServer(t *testing.T) (*httptest.Server, *task.Store) {
	t.Helper()

	files, err := storage.New(t.TempDir())
	if err != nil {
		t.Fatalf("storage.New failed: %v", err)
	}

	logger := log.New(io.Discard)
	store := task.NewStore(files, task.WithLogger(logger))

	srv := New(store, files, WithLogger(logger))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, store
}

func doJSON(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatal(err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, data
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/health", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}
	if string(body) != "OK" {
		t.Errorf("body: got %q, want OK", body)
	}
}

func TestAddAndListTasks(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/tasks", `{"text": "buy milk"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status: got %d, want 201, body: %s", resp.StatusCode, body)
	}
	var created task.Task
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("unmarshal created task: %v", err)
	}
	if created.Text != "buy milk" || created.ID == "" {
		t.Errorf("created task: %+v", created)
	}

	resp, body = doJSON(t, http.MethodGet, ts.URL+"/tasks", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}
	var list struct {
		Tasks          []task.Task `json:"tasks"`
		Total          int         `json:"total"`
		CompletedCount int         `json:"completed_count"`
	}
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatalf("unmarshal list: %v", err)
	}
	if list.Total != 1 || len(list.Tasks) != 1 {
		t.Errorf("list: %+v", list)
	}
}

func TestAddTaskRejectsBlankText(t *testing.T) {
	ts, store := newTestServer(t)

	for _, body := range []string{`{"text": ""}`, `{"text": "   "}`, `{}`} {
		resp, _ := doJSON(t, http.MethodPost, ts.URL+"/tasks", body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("POST %s status: got %d, want 400", body, resp.StatusCode)
		}
	}
	if store.Len() != 0 {
		t.Errorf("store length: got %d, want 0", store.Len())
	}
}

func TestListTasksFilter(t *testing.T) {
	ts, store := newTestServer(t)
	a, _ := store.Add(context.Background(), "task a")
	store.Add(context.Background(), "task b")
	store.Toggle(a.ID)

	var list struct {
		Tasks []task.Task `json:"tasks"`
		Total int         `json:"total"`
	}

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/tasks?filter=active", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatal(err)
	}
	if len(list.Tasks) != 1 || list.Tasks[0].Completed {
		t.Errorf("active view: %+v", list.Tasks)
	}
	// Total counts the whole list, not the view.
	if list.Total != 2 {
		t.Errorf("total: got %d, want 2", list.Total)
	}

	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/tasks?filter=bogus", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bogus filter status: got %d, want 400", resp.StatusCode)
	}
}

func TestToggleTask(t *testing.T) {
	ts, store := newTestServer(t)
	added, _ := store.Add(context.Background(), "buy milk")

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/tasks/"+added.ID+"/toggle", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}
	var got task.Task
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if !got.Completed {
		t.Error("task should be completed after toggle")
	}

	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/tasks/missing/toggle", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown id status: got %d, want 404", resp.StatusCode)
	}
}

func TestEditTask(t *testing.T) {
	ts, store := newTestServer(t)
	added, _ := store.Add(context.Background(), "buy milk")

	resp, body := doJSON(t, http.MethodPatch, ts.URL+"/tasks/"+added.ID, `{"text": "buy bread"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200, body: %s", resp.StatusCode, body)
	}
	var got task.Task
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if got.Text != "buy bread" {
		t.Errorf("Text: got %q, want buy bread", got.Text)
	}

	resp, _ = doJSON(t, http.MethodPatch, ts.URL+"/tasks/"+added.ID, `{"text": "  "}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("blank edit status: got %d, want 400", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodPatch, ts.URL+"/tasks/missing", `{"text": "x"}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown id status: got %d, want 404", resp.StatusCode)
	}
}

func TestDeleteTask(t *testing.T) {
	ts, store := newTestServer(t)
	added, _ := store.Add(context.Background(), "buy milk")

	resp, _ := doJSON(t, http.MethodDelete, ts.URL+"/tasks/"+added.ID, "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status: got %d, want 204", resp.StatusCode)
	}
	if store.Len() != 0 {
		t.Errorf("store length: got %d, want 0", store.Len())
	}

	// Deleting an unknown id is still a 204.
	resp, _ = doJSON(t, http.MethodDelete, ts.URL+"/tasks/"+added.ID, "")
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("repeat delete status: got %d, want 204", resp.StatusCode)
	}
}

func TestClearCompleted(t *testing.T) {
	ts, store := newTestServer(t)
	a, _ := store.Add(context.Background(), "task a")
	store.Add(context.Background(), "task b")
	store.Toggle(a.ID)

	resp, body := doJSON(t, http.MethodDelete, ts.URL+"/tasks/completed", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}
	var got map[string]int
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if got["removed"] != 1 {
		t.Errorf("removed: got %d, want 1", got["removed"])
	}
	if store.Len() != 1 {
		t.Errorf("store length: got %d, want 1", store.Len())
	}
}

func TestSetCategory(t *testing.T) {
	ts, store := newTestServer(t)
	added, _ := store.Add(context.Background(), "buy milk")

	resp, body := doJSON(t, http.MethodPut, ts.URL+"/tasks/"+added.ID+"/category", `{"category": "Shopping"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}
	var got task.Task
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if got.Category != "Shopping" {
		t.Errorf("Category: got %q, want Shopping", got.Category)
	}

	// Blank category falls back to the default label.
	_, body = doJSON(t, http.MethodPut, ts.URL+"/tasks/"+added.ID+"/category", `{"category": "  "}`)
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if got.Category != task.DefaultCategory {
		t.Errorf("Category: got %q, want %q", got.Category, task.DefaultCategory)
	}

	resp, _ = doJSON(t, http.MethodPut, ts.URL+"/tasks/missing/category", `{"category": "x"}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown id status: got %d, want 404", resp.StatusCode)
	}
}

func TestSuggestions(t *testing.T) {
	sg := &fakeSuggester{tasks: []string{"walk dog"}}
	files, err := storage.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	logger := log.New(io.Discard)
	store := task.NewStore(files, task.WithLogger(logger), task.WithSuggester(sg))
	srv := httptest.NewServer(New(store, files, WithLogger(logger)).Handler())
	defer srv.Close()

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/suggestions", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}
	var got map[string][]string
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if len(got["suggestions"]) != 1 || got["suggestions"][0] != "walk dog" {
		t.Errorf("suggestions: %v", got)
	}

	// Client failures surface as a gateway error with a friendly message.
	sg.tasksErr = errors.New("quota exceeded")
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/suggestions", "")
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("status: got %d, want 502", resp.StatusCode)
	}
	if !strings.Contains(string(body), "check your API key") {
		t.Errorf("error body: %s", body)
	}
}

func TestSuggestionsWithoutSuggester(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, _ := doJSON(t, http.MethodGet, ts.URL+"/suggestions", "")
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("status: got %d, want 502", resp.StatusCode)
	}
}

func TestCategorySuggestions(t *testing.T) {
	files, err := storage.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	logger := log.New(io.Discard)
	sg := &fakeSuggester{categories: []string{"Work", "Urgent"}}
	store := task.NewStore(files, task.WithLogger(logger), task.WithSuggester(sg))
	srv := httptest.NewServer(New(store, files, WithLogger(logger)).Handler())
	defer srv.Close()

	added, _ := store.Add(context.Background(), "finish report")

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/tasks/"+added.ID+"/categories", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}
	var got map[string][]string
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if len(got["categories"]) != 2 {
		t.Errorf("categories: %v", got)
	}

	// Unknown ids degrade to an empty list, not an error.
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/tasks/missing/categories", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if len(got["categories"]) != 0 {
		t.Errorf("categories for unknown id: %v", got)
	}
}

func TestTheme(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/theme", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}
	var got map[string]string
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if got["theme"] != "light" {
		t.Errorf("default theme: got %q, want light", got["theme"])
	}

	resp, _ = doJSON(t, http.MethodPut, ts.URL+"/theme", `{"theme": "dark"}`)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status: got %d, want 204", resp.StatusCode)
	}

	_, body = doJSON(t, http.MethodGet, ts.URL+"/theme", "")
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if got["theme"] != "dark" {
		t.Errorf("theme after save: got %q, want dark", got["theme"])
	}

	resp, _ = doJSON(t, http.MethodPut, ts.URL+"/theme", `{"theme": "neon"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("invalid theme status: got %d, want 400", resp.StatusCode)
	}
}

func TestLoadWarningOnList(t *testing.T) {
	files, err := storage.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	logger := log.New(io.Discard)
	store := task.NewStore(files, task.WithLogger(logger))
	srv := httptest.NewServer(New(store, files,
		WithLogger(logger),
		WithLoadWarning(storage.LoadWarning),
	).Handler())
	defer srv.Close()

	_, body := doJSON(t, http.MethodGet, srv.URL+"/tasks", "")
	var list struct {
		Warning string `json:"warning"`
	}
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatal(err)
	}
	if list.Warning != storage.LoadWarning {
		t.Errorf("warning: got %q, want %q", list.Warning, storage.LoadWarning)
	}
}

func TestCORSHeaders(t *testing.T) {
	ts, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/tasks", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin: got %q, want *", got)
	}
}
