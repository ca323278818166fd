package types

import "time"

// WoundType classifies a wound observation. The set is closed; values
// outside it are rejected at insert time.
type WoundType string

const (
	WoundAbrasion     WoundType = "abrasion"
	WoundLaceration   WoundType = "laceration"
	WoundPuncture     WoundType = "puncture"
	WoundBurn         WoundType = "burn"
	WoundUlcer        WoundType = "ulcer"
	WoundSurgical     WoundType = "surgical"
	WoundPressureSore WoundType = "pressure_sore"
	WoundOther        WoundType = "other"
)

// validWoundTypes is the set of recognized wound classification values.
var validWoundTypes = map[WoundType]bool{
	WoundAbrasion:     true,
	WoundLaceration:   true,
	WoundPuncture:     true,
	WoundBurn:         true,
	WoundUlcer:        true,
	WoundSurgical:     true,
	WoundPressureSore: true,
	WoundOther:        true,
}

// Valid reports whether the wound type is one of the recognized values.
func (w WoundType) Valid() bool {
	return validWoundTypes[w]
}

// WoundSeverity grades a wound observation. Severities form an ordered
// set; Rank exposes the ordering.
type WoundSeverity string

const (
	SeverityMild     WoundSeverity = "mild"
	SeverityModerate WoundSeverity = "moderate"
	SeveritySevere   WoundSeverity = "severe"
	SeverityCritical WoundSeverity = "critical"
)

// severityRank orders severities from least to most urgent.
var severityRank = map[WoundSeverity]int{
	SeverityMild:     1,
	SeverityModerate: 2,
	SeveritySevere:   3,
	SeverityCritical: 4,
}

// Valid reports whether the severity is one of the recognized values.
func (s WoundSeverity) Valid() bool {
	return severityRank[s] != 0
}

// Rank returns the position of the severity in the ordered set, starting
// at 1 for mild. Unknown severities rank 0.
func (s WoundSeverity) Rank() int {
	return severityRank[s]
}

// ClinicalNote is a client-supplied observation record produced offline
// on a mobile device. It is consumed exactly once by Store.Insert; the
// engine treats NoteText as opaque and stores it verbatim.
type ClinicalNote struct {
	// ContentHash is an opaque client-generated identifier (typically a
	// hash of the source image). It is the key the client matches against
	// failed-note reports; storage does not enforce uniqueness on it.
	ContentHash   string        `json:"content_hash"`
	WoundType     WoundType     `json:"wound_type"`
	WoundSeverity WoundSeverity `json:"wound_severity"`
	NoteText      string        `json:"note_text"`
	// ObservedAt is when the observation happened on the device, distinct
	// from the server ingestion time.
	ObservedAt time.Time `json:"observed_at"`
}

// Validate checks the note against the closed classification sets and
// required fields. It returns a sentinel error from this package on the
// first violation found. A nil note is a violation, not a panic: a JSON
// batch element of null decodes to a nil *ClinicalNote.
func (n *ClinicalNote) Validate() error {
	if n == nil {
		return ErrNoteNil
	}
	if n.ContentHash == "" {
		return ErrHashEmpty
	}
	if !n.WoundType.Valid() {
		return ErrWoundTypeUnknown
	}
	if !n.WoundSeverity.Valid() {
		return ErrSeverityUnknown
	}
	if n.NoteText == "" {
		return ErrNoteTextEmpty
	}
	if n.ObservedAt.IsZero() {
		return ErrObservedAtZero
	}
	return nil
}

// StoredNote is a durably persisted clinical note. ID and CreatedAt are
// assigned by the store at insert and never mutated; SyncedAt is nil until
// a downstream consumer acknowledges the record, and transitions at most
// once.
type StoredNote struct {
	ID            int64         `json:"id"`
	ContentHash   string        `json:"content_hash"`
	WoundType     WoundType     `json:"wound_type"`
	WoundSeverity WoundSeverity `json:"wound_severity"`
	NoteText      string        `json:"note_text"`
	ObservedAt    time.Time     `json:"observed_at"`
	CreatedAt     time.Time     `json:"created_at"`
	SyncedAt      *time.Time    `json:"synced_at"`
}

// Synced reports whether a downstream consumer has acknowledged the note.
func (n *StoredNote) Synced() bool {
	return n.SyncedAt != nil
}
