package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validNote() *ClinicalNote {
	return &ClinicalNote{
		ContentHash:   "a1b2c3d4e5f6",
		WoundType:     WoundLaceration,
		WoundSeverity: SeverityModerate,
		NoteText:      "Subjective: 3cm laceration on left forearm.",
		ObservedAt:    time.Now().UTC().Add(-2 * time.Hour),
	}
}

func TestClinicalNote_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(n *ClinicalNote)
		wantErr error
	}{
		{
			name:   "valid note passes",
			mutate: func(n *ClinicalNote) {},
		},
		{
			name:    "empty content hash",
			mutate:  func(n *ClinicalNote) { n.ContentHash = "" },
			wantErr: ErrHashEmpty,
		},
		{
			name:    "unknown wound type",
			mutate:  func(n *ClinicalNote) { n.WoundType = "gash" },
			wantErr: ErrWoundTypeUnknown,
		},
		{
			name:    "unknown severity",
			mutate:  func(n *ClinicalNote) { n.WoundSeverity = "fatal" },
			wantErr: ErrSeverityUnknown,
		},
		{
			name:    "empty note text",
			mutate:  func(n *ClinicalNote) { n.NoteText = "" },
			wantErr: ErrNoteTextEmpty,
		},
		{
			name:    "zero observed_at",
			mutate:  func(n *ClinicalNote) { n.ObservedAt = time.Time{} },
			wantErr: ErrObservedAtZero,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := validNote()
			tt.mutate(n)
			err := n.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClinicalNote_ValidateNil(t *testing.T) {
	// A JSON batch element of null decodes to a nil *ClinicalNote; it must
	// fail validation, not panic.
	var n *ClinicalNote
	assert.ErrorIs(t, n.Validate(), ErrNoteNil)
}

func TestWoundType_Valid(t *testing.T) {
	for _, w := range []WoundType{
		WoundAbrasion, WoundLaceration, WoundPuncture, WoundBurn,
		WoundUlcer, WoundSurgical, WoundPressureSore, WoundOther,
	} {
		assert.True(t, w.Valid(), "wound type %q should be valid", w)
	}
	assert.False(t, WoundType("").Valid())
	assert.False(t, WoundType("scrape").Valid())
}

func TestWoundSeverity_Rank(t *testing.T) {
	ordered := []WoundSeverity{SeverityMild, SeverityModerate, SeveritySevere, SeverityCritical}
	for i := 1; i < len(ordered); i++ {
		assert.Less(t, ordered[i-1].Rank(), ordered[i].Rank(),
			"%s should rank below %s", ordered[i-1], ordered[i])
	}
	assert.Equal(t, 0, WoundSeverity("unknown").Rank())
	assert.False(t, WoundSeverity("unknown").Valid())
}

func TestStoredNote_Synced(t *testing.T) {
	n := &StoredNote{}
	assert.False(t, n.Synced())

	now := time.Now().UTC()
	n.SyncedAt = &now
	assert.True(t, n.Synced())
}
