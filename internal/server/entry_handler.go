// Package server exposes the journal over a JSON HTTP API.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/at-ishikawa/retain/internal/journal"
)

// EntryHandler handles HTTP requests for journal entries.
type EntryHandler struct {
	service *journal.Service
}

// NewEntryHandler creates a new EntryHandler over the given service.
func NewEntryHandler(service *journal.Service) *EntryHandler {
	return &EntryHandler{service: service}
}

// NewMux returns the route table for the API.
func (h *EntryHandler) NewMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.health)
	mux.HandleFunc("GET /entries", h.listEntries)
	mux.HandleFunc("POST /entries", h.createEntry)
	mux.HandleFunc("GET /entries/due", h.dueEntries)
	mux.HandleFunc("GET /entries/{id}", h.getEntry)
	mux.HandleFunc("DELETE /entries/{id}", h.deleteEntry)
	mux.HandleFunc("POST /entries/{id}/reviews", h.completeReview)
	return mux
}

// CORSMiddleware allows cross-origin requests from the configured origins.
func CORSMiddleware(next http.Handler, allowedOrigins []string) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowed[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Max-Age", "3600")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type reviewResponse struct {
	ReviewedAt time.Time `json:"reviewed_at"`
	Questions  []string  `json:"questions,omitempty"`
	Answers    []string  `json:"answers,omitempty"`
	Step       int       `json:"step"`
	Difficulty string    `json:"difficulty,omitempty"`
}

type entryResponse struct {
	ID        string           `json:"id"`
	Label     string           `json:"label"`
	Content   string           `json:"content"`
	Context   string           `json:"context,omitempty"`
	Tags      []string         `json:"tags,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	Step      int              `json:"step"`
	Reviews   []reviewResponse `json:"reviews,omitempty"`
}

func newEntryResponse(e journal.Entry) entryResponse {
	resp := entryResponse{
		ID:        e.ID,
		Label:     e.Label(),
		Content:   e.Content,
		Context:   e.Context,
		Tags:      e.Tags,
		CreatedAt: e.CreatedAt,
		Step:      e.Step,
	}
	for _, rev := range e.Reviews {
		resp.Reviews = append(resp.Reviews, reviewResponse{
			ReviewedAt: rev.ReviewedAt,
			Questions:  rev.Questions,
			Answers:    rev.Answers,
			Step:       rev.Step,
			Difficulty: string(rev.Difficulty),
		})
	}
	return resp
}

func newEntriesResponse(entries []journal.Entry) map[string]any {
	responses := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, newEntryResponse(e))
	}
	return map[string]any{"entries": responses}
}

func (h *EntryHandler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *EntryHandler) listEntries(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, newEntriesResponse(h.service.ListEntries()))
}

func (h *EntryHandler) dueEntries(w http.ResponseWriter, r *http.Request) {
	var today time.Time
	if date := r.URL.Query().Get("date"); date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", date, time.Local)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid date %q: expected YYYY-MM-DD", date))
			return
		}
		today = parsed
	}
	writeJSON(w, http.StatusOK, newEntriesResponse(h.service.DueEntries(today)))
}

type createEntryRequest struct {
	Content string   `json:"content"`
	Context string   `json:"context,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

func (h *EntryHandler) createEntry(w http.ResponseWriter, r *http.Request) {
	var req createEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.service.CreateEntry(r.Context(), req.Content, req.Context, req.Tags)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newEntryResponse(entry))
}

func (h *EntryHandler) getEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := h.service.Entry(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newEntryResponse(entry))
}

type completeReviewRequest struct {
	Questions  []string `json:"questions,omitempty"`
	Answers    []string `json:"answers,omitempty"`
	Difficulty string   `json:"difficulty,omitempty"`
}

func (h *EntryHandler) completeReview(w http.ResponseWriter, r *http.Request) {
	var req completeReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	difficulty := journal.Difficulty(req.Difficulty)
	if !difficulty.IsValid() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown difficulty %q", req.Difficulty))
		return
	}

	entry, err := h.service.CompleteReview(r.Context(), r.PathValue("id"), journal.CompleteReviewRequest{
		Questions:  req.Questions,
		Answers:    req.Answers,
		Difficulty: difficulty,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newEntryResponse(entry))
}

func (h *EntryHandler) deleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteEntry(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, journal.ErrNotFound):
		writeError(w, http.StatusNotFound, "entry not found")
	case errors.Is(err, journal.ErrEmptyContent):
		writeError(w, http.StatusBadRequest, "content is required")
	case errors.Is(err, journal.ErrStoreUnavailable):
		writeError(w, http.StatusServiceUnavailable, "storage unavailable")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
