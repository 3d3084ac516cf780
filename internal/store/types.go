package store

import (
	"database/sql"
	"errors"
	"sync"
)

// store implements DocumentStore on a single SQLite/Turso documents table.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

var (
	// ErrNotFound is returned by Get when a document does not exist.
	ErrNotFound = errors.New("store: document not found")
	// ErrConflict is returned by Update when a touched document was
	// committed concurrently. Callers are expected to retry the whole
	// read-modify-write cycle.
	ErrConflict = errors.New("store: write conflict")
)
