package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/medimeld/medimeld/pkg/types"
)

// healthResponse is the GET / document.
type healthResponse struct {
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// notesResponse wraps note listings with their window parameters.
type notesResponse struct {
	Notes  []*types.StoredNote `json:"notes"`
	Count  int                 `json:"count"`
	Limit  int                 `json:"limit,omitempty"`
	Offset int                 `json:"offset,omitempty"`
}

// errorResponse mirrors the {"detail": ...} error shape of the API.
type errorResponse struct {
	Detail string `json:"detail"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Message:   "MediMeld Edge API",
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
	})
}

// handleSync ingests a batch of offline notes and returns the partitioned
// summary. Per-record failures land in the summary; only a request-level
// fault (store unreachable) produces a 500.
func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	var notes []*types.ClinicalNote
	if err := json.NewDecoder(r.Body).Decode(&notes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: fmt.Sprintf("invalid request body: %s", err)})
		return
	}

	summary, err := s.svc.Reconcile(notes)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: fmt.Sprintf("sync failed: %s", err)})
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// handleListNotes returns stored notes newest first. Storage faults are
// reported as errors, not as an empty listing, so callers can tell an
// outage apart from no data.
func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", types.DefaultListLimit)
	offset := queryInt(r, "offset", 0)

	notes, err := s.store.List(limit, offset)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: fmt.Sprintf("failed to retrieve notes: %s", err)})
		return
	}

	writeJSON(w, http.StatusOK, notesResponse{
		Notes:  notes,
		Count:  len(notes),
		Limit:  limit,
		Offset: offset,
	})
}

// handleListPending returns notes awaiting downstream acknowledgment,
// oldest first.
func (s *Server) handleListPending(w http.ResponseWriter, r *http.Request) {
	notes, err := s.svc.FetchPending()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: fmt.Sprintf("failed to retrieve pending notes: %s", err)})
		return
	}

	writeJSON(w, http.StatusOK, notesResponse{
		Notes: notes,
		Count: len(notes),
	})
}

// handleAcknowledge marks one note as absorbed by the downstream
// consumer. Idempotent: repeating the call succeeds.
func (s *Server) handleAcknowledge(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid note id"})
		return
	}

	if err := s.svc.Acknowledge(id); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Detail: fmt.Sprintf("note %d not found", id)})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: fmt.Sprintf("failed to acknowledge note: %s", err)})
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// queryInt parses an integer query parameter, falling back to def on
// absent or malformed values.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
