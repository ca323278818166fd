package types

import "time"

// FailedNote reports one record that could not be persisted during a sync
// batch. ContentHash echoes the client-supplied identifier so the client
// can retry exactly the records that failed.
type FailedNote struct {
	ContentHash string `json:"content_hash"`
	Error       string `json:"error"`
}

// SyncSummary is the outcome of one batch reconciliation. For a batch of
// N notes, SyncedCount + FailedCount == N; FailedNotes lists the failures
// in input order. Timestamp is the server time the summary was produced.
type SyncSummary struct {
	SyncedCount int          `json:"synced_count"`
	FailedCount int          `json:"failed_count"`
	FailedNotes []FailedNote `json:"failed_notes"`
	Timestamp   time.Time    `json:"timestamp"`
}
