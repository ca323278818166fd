// This file implements the note operations of the store: insert, windowed
// listing, the unsynced query path, and the idempotent synced mark. Each
// operation acquires the gate, runs one unit of work to completion, and
// converts storage faults to typed errors after logging them.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/medimeld/medimeld/pkg/types"
)

// Insert validates and persists one clinical note, assigning its id and
// created_at. Constraint violations wrap types.ErrConstraint; the caller
// decides batch-level policy. Exactly one StoredNote exists iff Insert
// returns nil error.
func (s *Store) Insert(note *types.ClinicalNote) (*types.StoredNote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return nil, types.ErrStoreClosed
	}

	if err := note.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrConstraint, err)
	}

	now := time.Now().UTC()
	res, err := s.db.Exec(
		"INSERT INTO notes (content_hash, wound_type, wound_severity, note_text, observed_at, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		note.ContentHash,
		string(note.WoundType),
		string(note.WoundSeverity),
		note.NoteText,
		note.ObservedAt.UTC().Format(time.RFC3339),
		now.Format(time.RFC3339),
	)
	if err != nil {
		s.logger.Error("insert note failed", "content_hash", note.ContentHash, "error", err)
		return nil, fmt.Errorf("inserting note: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		s.logger.Error("reading inserted note id failed", "error", err)
		return nil, fmt.Errorf("reading inserted id: %w", err)
	}

	s.logger.Info("note saved",
		"id", id,
		"wound_type", note.WoundType,
		"wound_severity", note.WoundSeverity,
	)

	return &types.StoredNote{
		ID:            id,
		ContentHash:   note.ContentHash,
		WoundType:     note.WoundType,
		WoundSeverity: note.WoundSeverity,
		NoteText:      note.NoteText,
		ObservedAt:    note.ObservedAt.UTC(),
		CreatedAt:     now,
	}, nil
}

// List returns up to limit notes, newest first, skipping offset records.
// A non-positive limit falls back to types.DefaultListLimit; a negative
// offset is treated as zero. The id tiebreak keeps ordering deterministic
// for notes created within the same timestamp granularity.
func (s *Store) List(limit, offset int) ([]*types.StoredNote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return nil, types.ErrStoreClosed
	}

	if limit <= 0 {
		limit = types.DefaultListLimit
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.Query(
		"SELECT id, content_hash, wound_type, wound_severity, note_text, observed_at, created_at, synced_at FROM notes ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?",
		limit, offset,
	)
	if err != nil {
		s.logger.Error("list notes failed", "error", err)
		return nil, fmt.Errorf("querying notes: %w", err)
	}
	defer rows.Close()

	return hydrateNotes(rows)
}

// ListUnsynced returns every note not yet acknowledged downstream, oldest
// first, so a pull-based consumer drains pending work in FIFO order.
func (s *Store) ListUnsynced() ([]*types.StoredNote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return nil, types.ErrStoreClosed
	}

	rows, err := s.db.Query(
		"SELECT id, content_hash, wound_type, wound_severity, note_text, observed_at, created_at, synced_at FROM notes WHERE synced_at IS NULL ORDER BY created_at ASC, id ASC",
	)
	if err != nil {
		s.logger.Error("list unsynced notes failed", "error", err)
		return nil, fmt.Errorf("querying unsynced notes: %w", err)
	}
	defer rows.Close()

	return hydrateNotes(rows)
}

// MarkSynced records the downstream acknowledgment for a note. The
// transition happens at most once: a repeat call on an already-synced id
// succeeds without touching the original timestamp, so the first
// acknowledgment time survives for audit. Unknown ids return ErrNotFound.
func (s *Store) MarkSynced(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return types.ErrStoreClosed
	}

	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		"UPDATE notes SET synced_at = ? WHERE id = ? AND synced_at IS NULL",
		now, id,
	)
	if err != nil {
		s.logger.Error("mark synced failed", "id", id, "error", err)
		return fmt.Errorf("marking note synced: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if affected > 0 {
		s.logger.Info("note acknowledged", "id", id)
		return nil
	}

	// Nothing updated: either the note is already synced (idempotent
	// success) or it does not exist.
	var exists int
	err = s.db.QueryRow("SELECT 1 FROM notes WHERE id = ?", id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: id %d", types.ErrNotFound, id)
	}
	if err != nil {
		s.logger.Error("mark synced existence check failed", "id", id, "error", err)
		return fmt.Errorf("checking note existence: %w", err)
	}
	return nil
}

// hydrateNotes converts query rows into StoredNote values. Partially
// written records never appear here: inserts commit their full row under
// the gate before any read can run.
func hydrateNotes(rows *sql.Rows) ([]*types.StoredNote, error) {
	var notes []*types.StoredNote
	for rows.Next() {
		note, err := hydrateNote(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating note: %w", err)
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating notes: %w", err)
	}
	if notes == nil {
		notes = []*types.StoredNote{}
	}
	return notes, nil
}

func hydrateNote(rows *sql.Rows) (*types.StoredNote, error) {
	var n types.StoredNote
	var woundType, woundSeverity, observedAt, createdAt string
	var syncedAt sql.NullString

	if err := rows.Scan(&n.ID, &n.ContentHash, &woundType, &woundSeverity, &n.NoteText, &observedAt, &createdAt, &syncedAt); err != nil {
		return nil, err
	}

	n.WoundType = types.WoundType(woundType)
	n.WoundSeverity = types.WoundSeverity(woundSeverity)

	var err error
	n.ObservedAt, err = time.Parse(time.RFC3339, observedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing observed_at: %w", err)
	}
	n.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if syncedAt.Valid {
		t, err := time.Parse(time.RFC3339, syncedAt.String)
		if err != nil {
			return nil, fmt.Errorf("parsing synced_at: %w", err)
		}
		n.SyncedAt = &t
	}
	return &n, nil
}
