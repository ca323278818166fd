package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medimeld/medimeld/internal/sqlite"
	"github.com/medimeld/medimeld/internal/syncer"
	"github.com/medimeld/medimeld/pkg/types"
)

func setupServer(t *testing.T) (*Server, *sqlite.Store) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := sqlite.NewStore(logger)
	require.NoError(t, store.Attach(types.Config{DataDir: t.TempDir()}))
	t.Cleanup(func() { store.Detach() })
	svc := syncer.New(store, logger)
	return New(svc, store, logger), store
}

func postJSON(t *testing.T, srv http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func get(t *testing.T, srv http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func sampleBatch() []*types.ClinicalNote {
	observed := time.Now().UTC().Add(-time.Hour)
	return []*types.ClinicalNote{
		{
			ContentHash:   "h1",
			WoundType:     types.WoundLaceration,
			WoundSeverity: types.SeverityModerate,
			NoteText:      "Plan: closure with sutures.",
			ObservedAt:    observed,
		},
		{
			ContentHash:   "h2",
			WoundType:     types.WoundBurn,
			WoundSeverity: types.SeveritySevere,
			NoteText:      "Plan: silver sulfadiazine, burn referral.",
			ObservedAt:    observed.Add(time.Minute),
		},
	}
}

func TestServer_Health(t *testing.T) {
	srv, _ := setupServer(t)

	rec := get(t, srv, "/")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestServer_SyncBatch(t *testing.T) {
	srv, _ := setupServer(t)

	rec := postJSON(t, srv, "/sync", sampleBatch())
	require.Equal(t, http.StatusOK, rec.Code)

	var summary types.SyncSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 2, summary.SyncedCount)
	assert.Equal(t, 0, summary.FailedCount)
	assert.Empty(t, summary.FailedNotes)
}

func TestServer_SyncPartialFailure(t *testing.T) {
	srv, _ := setupServer(t)

	batch := sampleBatch()
	batch[1].WoundType = "gash"

	rec := postJSON(t, srv, "/sync", batch)
	require.Equal(t, http.StatusOK, rec.Code)

	var summary types.SyncSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 1, summary.SyncedCount)
	assert.Equal(t, 1, summary.FailedCount)
	require.Len(t, summary.FailedNotes, 1)
	assert.Equal(t, "h2", summary.FailedNotes[0].ContentHash)
}

func TestServer_SyncNullElement(t *testing.T) {
	srv, _ := setupServer(t)

	// [null] is valid JSON for the batch; the null element is rejected as
	// one failed record, not a request failure.
	req := httptest.NewRequest(http.MethodPost, "/sync", bytes.NewReader([]byte(`[null]`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var summary types.SyncSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 0, summary.SyncedCount)
	assert.Equal(t, 1, summary.FailedCount)
	require.Len(t, summary.FailedNotes, 1)
	assert.Contains(t, summary.FailedNotes[0].Error, "must not be null")
}

func TestServer_SyncMalformedBody(t *testing.T) {
	srv, _ := setupServer(t)

	req := httptest.NewRequest(http.MethodPost, "/sync", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_SyncStoreClosed(t *testing.T) {
	srv, store := setupServer(t)
	require.NoError(t, store.Detach())

	rec := postJSON(t, srv, "/sync", sampleBatch())
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["detail"], "sync failed")
}

func TestServer_ListNotesWindow(t *testing.T) {
	srv, store := setupServer(t)

	for i := 0; i < 5; i++ {
		_, err := store.Insert(&types.ClinicalNote{
			ContentHash:   fmt.Sprintf("h%d", i),
			WoundType:     types.WoundAbrasion,
			WoundSeverity: types.SeverityMild,
			NoteText:      "Plan: standard wound care.",
			ObservedAt:    time.Now().UTC(),
		})
		require.NoError(t, err)
	}

	rec := get(t, srv, "/notes?limit=2&offset=1")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Notes  []*types.StoredNote `json:"notes"`
		Count  int                 `json:"count"`
		Limit  int                 `json:"limit"`
		Offset int                 `json:"offset"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Count)
	assert.Equal(t, 2, body.Limit)
	assert.Equal(t, 1, body.Offset)
	require.Len(t, body.Notes, 2)
	// Newest first, with the single newest skipped by the offset.
	assert.Equal(t, "h3", body.Notes[0].ContentHash)
	assert.Equal(t, "h2", body.Notes[1].ContentHash)
}

func TestServer_ListNotesStorageFault(t *testing.T) {
	srv, store := setupServer(t)
	require.NoError(t, store.Detach())

	// An outage is distinguishable from an empty store.
	rec := get(t, srv, "/notes")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestServer_PendingAndAcknowledge(t *testing.T) {
	srv, _ := setupServer(t)

	rec := postJSON(t, srv, "/sync", sampleBatch())
	require.Equal(t, http.StatusOK, rec.Code)

	rec = get(t, srv, "/notes/pending")
	require.Equal(t, http.StatusOK, rec.Code)

	var pending notesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pending))
	require.Equal(t, 2, pending.Count)
	// Oldest first.
	assert.Equal(t, "h1", pending.Notes[0].ContentHash)

	ackPath := fmt.Sprintf("/notes/%d/sync", pending.Notes[0].ID)
	rec = postJSON(t, srv, ackPath, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Idempotent repeat.
	rec = postJSON(t, srv, ackPath, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = get(t, srv, "/notes/pending")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pending))
	require.Equal(t, 1, pending.Count)
	assert.Equal(t, "h2", pending.Notes[0].ContentHash)
}

func TestServer_AcknowledgeErrors(t *testing.T) {
	srv, _ := setupServer(t)

	rec := postJSON(t, srv, "/notes/424242/sync", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = postJSON(t, srv, "/notes/not-a-number/sync", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
