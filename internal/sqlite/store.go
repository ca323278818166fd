// Package sqlite implements the durable clinical note store for MediMeld.
//
// The store owns a single SQLite handle and serializes every operation
// through an instance-owned mutex: one unit of work runs at a time,
// process-wide, and the gate is released even on failure. SQLite has no
// cross-connection write coordination suitable for concurrent mutation,
// so the gate trades throughput for correctness.
package sqlite

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/medimeld/medimeld/pkg/types"
)

// DBFileName is the SQLite database file created inside DataDir.
const DBFileName = "medimeld.db"

// Store is the persistence engine for clinical notes. The zero value is
// not usable; construct with NewStore and call Attach before use.
type Store struct {
	mu       sync.Mutex
	attached bool
	db       *sql.DB
	dataDir  string
	logger   *slog.Logger
}

// NewStore creates a detached store. If logger is nil the default slog
// logger is used.
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{logger: logger}
}

// Attach opens the database file under config.DataDir, creating the
// directory and schema as needed. Returns ErrAlreadyAttached if the
// store is already attached.
func (s *Store) Attach(config types.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attached {
		return types.ErrAlreadyAttached
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, DBFileName)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}

	// One connection backs the single storage handle; the mutex above is
	// the only admission gate.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return fmt.Errorf("enabling WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return fmt.Errorf("setting busy timeout: %w", err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return fmt.Errorf("initializing schema: %w", err)
	}

	s.db = db
	s.dataDir = dataDir
	s.attached = true

	s.logger.Info("store attached", "path", dbPath)
	return nil
}

// Detach closes the database handle. Idempotent: detaching a detached
// store succeeds. After Detach, operations return ErrStoreClosed.
func (s *Store) Detach() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return nil
	}

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	s.db = nil
	s.attached = false

	return nil
}

// Initialize ensures the schema exists. Safe to call repeatedly and
// concurrently with itself; repeat calls are not an error.
func (s *Store) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return types.ErrStoreClosed
	}
	return initSchema(s.db)
}

// DataDir returns the directory the attached store writes to.
func (s *Store) DataDir() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dataDir
}

func initSchema(db *sql.DB) error {
	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("executing schema DDL: %w", err)
		}
	}
	return nil
}
