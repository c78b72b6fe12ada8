// Package server exposes the task store over a CORS-enabled HTTP API for
// the browser presentation layer.
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/rs/cors"

	"github.com/gemdo/gemdo/internal/storage"
	"github.com/gemdo/gemdo/internal/task"
)

// Server wires the task store and persistence adapter into HTTP handlers.
// The presentation layer only reads derived views and issues mutation
// requests; it never touches the list directly.
type Server struct {
	store   *task.Store
	themes  *storage.Store
	logger  *log.Logger
	origins []string
	warning string // non-blocking warning from the initial load
}

// Option configures a Server.
type Option func(*Server)

// WithOrigins sets the allowed CORS origins.
func WithOrigins(origins []string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.origins = origins
		}
	}
}

// WithLoadWarning attaches a recoverable load warning that is reported on
// list responses until the next successful save.
func WithLoadWarning(warning string) Option {
	return func(s *Server) {
		s.warning = warning
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New creates a server over the given store and persistence adapter.
func New(store *task.Store, themes *storage.Store, opts ...Option) *Server {
	s := &Server{
		store:   store,
		themes:  themes,
		logger:  log.Default(),
		origins: []string{"*"},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the full route table wrapped in the CORS layer.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /tasks", s.handleListTasks)
	mux.HandleFunc("POST /tasks", s.handleAddTask)
	mux.HandleFunc("DELETE /tasks/completed", s.handleClearCompleted)
	mux.HandleFunc("POST /tasks/{id}/toggle", s.handleToggleTask)
	mux.HandleFunc("PATCH /tasks/{id}", s.handleEditTask)
	mux.HandleFunc("DELETE /tasks/{id}", s.handleDeleteTask)
	mux.HandleFunc("PUT /tasks/{id}/category", s.handleSetCategory)
	mux.HandleFunc("GET /tasks/{id}/categories", s.handleCategorySuggestions)
	mux.HandleFunc("GET /suggestions", s.handleSuggestions)
	mux.HandleFunc("GET /theme", s.handleGetTheme)
	mux.HandleFunc("PUT /theme", s.handleSetTheme)

	c := cors.New(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(mux)
}

// listResponse is the envelope for task list reads. The warning field
// carries recoverable persistence failures so the UI can show them
// without blocking.
type listResponse struct {
	Tasks          []task.Task `json:"tasks"`
	Total          int         `json:"total"`
	CompletedCount int         `json:"completed_count"`
	Warning        string      `json:"warning,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	filter, err := task.ParseFilter(r.URL.Query().Get("filter"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, listResponse{
		Tasks:          s.store.Filtered(filter),
		Total:          s.store.Len(),
		CompletedCount: s.store.CompletedCount(),
		Warning:        s.currentWarning(),
	})
}

func (s *Server) handleAddTask(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	t, err := s.store.Add(r.Context(), body.Text)
	if err != nil {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleToggleTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.store.Toggle(id) {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	t, _ := s.store.Get(id)
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleEditTask(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	id := r.PathValue("id")
	switch err := s.store.Edit(id, body.Text); {
	case errors.Is(err, task.ErrEmptyText):
		writeError(w, http.StatusBadRequest, "text is required")
		return
	case errors.Is(err, task.ErrNotFound):
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	t, _ := s.store.Get(id)
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	// Deleting an unknown id is a no-op, not an error.
	s.store.Delete(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearCompleted(w http.ResponseWriter, r *http.Request) {
	removed := s.store.ClearCompleted()
	writeJSON(w, http.StatusOK, map[string]int{"removed": removed})
}

func (s *Server) handleSetCategory(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Category string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	id := r.PathValue("id")
	if !s.store.SetCategory(id, body.Category) {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	t, _ := s.store.Get(id)
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleCategorySuggestions(w http.ResponseWriter, r *http.Request) {
	categories := s.store.SuggestCategories(r.Context(), r.PathValue("id"))
	if categories == nil {
		categories = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"categories": categories})
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	suggestions, err := s.store.SuggestTasks(r.Context())
	if err != nil {
		s.logger.Warn("Suggestion fetch failed", "error", err)
		writeError(w, http.StatusBadGateway, "Failed to get suggestions. Please check your API key and try again.")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"suggestions": suggestions})
}

func (s *Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]storage.Theme{"theme": s.themes.LoadTheme()})
}

func (s *Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Theme string `json:"theme"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	theme, err := storage.ParseTheme(body.Theme)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.themes.SaveTheme(theme); err != nil {
		// Best-effort per the persistence contract.
		s.logger.Warn("Failed to save theme", "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

// currentWarning prefers a live save warning over the startup load
// warning; the load warning clears once a save has succeeded.
func (s *Server) currentWarning() string {
	if warn := s.store.Warning(); warn != "" {
		return warn
	}
	return s.warning
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "encode error", http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
