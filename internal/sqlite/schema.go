package sqlite

// Schema DDL for the notes table. Every statement is idempotent so that
// Initialize can run repeatedly and concurrently with itself.
const createNotes = `CREATE TABLE IF NOT EXISTS notes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    content_hash TEXT NOT NULL,
    wound_type TEXT NOT NULL,
    wound_severity TEXT NOT NULL,
    note_text TEXT NOT NULL,
    observed_at TEXT NOT NULL,
    created_at TEXT NOT NULL,
    synced_at TEXT
);`

// content_hash is deliberately not unique: the client may resubmit the
// same observation on retry and de-duplication happens upstream. The
// index only serves failed-note lookups and audit queries.
const (
	idxNotesSynced = `CREATE INDEX IF NOT EXISTS idx_notes_synced ON notes(synced_at);`
	idxNotesHash   = `CREATE INDEX IF NOT EXISTS idx_notes_hash ON notes(content_hash);`
)

// schemaDDL lists all schema statements in execution order.
var schemaDDL = []string{
	createNotes,
	idxNotesSynced,
	idxNotesHash,
}
