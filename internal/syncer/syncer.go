// Package syncer reconciles batches of offline clinical notes into the
// durable store and exposes the pending-note poll/ack loop used by a
// downstream consumer.
package syncer

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/medimeld/medimeld/internal/sqlite"
	"github.com/medimeld/medimeld/pkg/types"
)

// Service orchestrates batch reconciliation over the persistence engine.
type Service struct {
	store  *sqlite.Store
	logger *slog.Logger
}

// New creates a reconciliation service. If logger is nil the default slog
// logger is used.
func New(store *sqlite.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// Reconcile persists each note of the batch independently, in input
// order, and partitions the outcomes. A single record's failure never
// aborts the rest of the batch; the summary tells the client exactly
// which records still need retry. A store that is unreachable fails the
// whole request instead, as a coarser error tier.
func (s *Service) Reconcile(notes []*types.ClinicalNote) (*types.SyncSummary, error) {
	batchID := newBatchID()
	s.logger.Info("sync batch started", "batch_id", batchID, "size", len(notes))

	summary := &types.SyncSummary{
		FailedNotes: []types.FailedNote{},
	}

	for _, note := range notes {
		_, err := s.store.Insert(note)
		if err == nil {
			summary.SyncedCount++
			continue
		}
		if errors.Is(err, types.ErrStoreClosed) {
			// Request-level failure: the batch as a whole cannot run.
			s.logger.Error("sync batch aborted", "batch_id", batchID, "error", err)
			return nil, fmt.Errorf("reconciling batch: %w", err)
		}

		// A null batch element reaches here as a nil note; it has no hash
		// for the client to match, so the report carries an empty one.
		var hash string
		if note != nil {
			hash = note.ContentHash
		}
		summary.FailedCount++
		summary.FailedNotes = append(summary.FailedNotes, types.FailedNote{
			ContentHash: hash,
			Error:       err.Error(),
		})
		s.logger.Warn("note rejected",
			"batch_id", batchID,
			"content_hash", hash,
			"error", err,
		)
	}

	summary.Timestamp = time.Now().UTC()
	s.logger.Info("sync batch finished",
		"batch_id", batchID,
		"synced", summary.SyncedCount,
		"failed", summary.FailedCount,
	)
	return summary, nil
}

// FetchPending returns every note not yet acknowledged by the downstream
// consumer, oldest first. There is no leasing or backoff here; delivery
// guarantees are the caller's responsibility.
func (s *Service) FetchPending() ([]*types.StoredNote, error) {
	return s.store.ListUnsynced()
}

// Acknowledge marks a note as absorbed downstream. Idempotent; the store
// keeps the first acknowledgment timestamp. The caller is trusted to ack
// only after durably absorbing the record.
func (s *Service) Acknowledge(id int64) error {
	return s.store.MarkSynced(id)
}

// newBatchID returns a UUIDv7 for log correlation of one sync request.
func newBatchID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
