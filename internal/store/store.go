package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// New creates a new DocumentStore backed by the given database.
func New(db *sql.DB) DocumentStore {
	return &store{
		db: db,
	}
}

func (s *store) Get(ctx context.Context, collection, id string) (json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var data string
	err := s.db.QueryRowContext(ctx, "SELECT data FROM documents WHERE collection = ? AND id = ?", collection, id).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
		}
		return nil, fmt.Errorf("failed to read document %s/%s: %w", collection, id, err)
	}
	return json.RawMessage(data), nil
}

func (s *store) List(ctx context.Context, collection string) (map[string]json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT id, data FROM documents WHERE collection = ?", collection)
	if err != nil {
		return nil, fmt.Errorf("failed to list collection %s: %w", collection, err)
	}
	defer rows.Close()

	docs := make(map[string]json.RawMessage)
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		docs[id] = json.RawMessage(data)
	}
	return docs, rows.Err()
}

// Update reads the requested documents with their versions, applies fn, and
// commits every returned document in one transaction. Each write is guarded
// by the version seen during the read; a guard that no longer holds means a
// concurrent commit and the whole transaction rolls back with ErrConflict.
func (s *store) Update(ctx context.Context, keys []Key, fn UpdateFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := make(map[Key]json.RawMessage, len(keys))
	versions := make(map[Key]int64, len(keys))

	for _, key := range keys {
		var version int64
		var data string
		err := s.db.QueryRowContext(ctx, "SELECT version, data FROM documents WHERE collection = ? AND id = ?", key.Collection, key.ID).Scan(&version, &data)
		switch {
		case err == sql.ErrNoRows:
			current[key] = nil
			versions[key] = 0
		case err != nil:
			return fmt.Errorf("failed to read document %s/%s: %w", key.Collection, key.ID, err)
		default:
			current[key] = json.RawMessage(data)
			versions[key] = version
		}
	}

	updated, err := fn(current)
	if err != nil {
		return err
	}
	if len(updated) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for key, data := range updated {
		version, ok := versions[key]
		if !ok {
			tx.Rollback()
			return fmt.Errorf("document %s/%s was not part of the read set", key.Collection, key.ID)
		}

		var res sql.Result
		if version == 0 {
			// The document did not exist during the read. A concurrent
			// creation makes the insert a no-op, which we surface as a
			// conflict.
			res, err = tx.ExecContext(ctx,
				"INSERT INTO documents (collection, id, version, data) VALUES (?, ?, 1, ?) ON CONFLICT (collection, id) DO NOTHING",
				key.Collection, key.ID, string(data))
		} else {
			res, err = tx.ExecContext(ctx,
				"UPDATE documents SET data = ?, version = version + 1 WHERE collection = ? AND id = ? AND version = ?",
				string(data), key.Collection, key.ID, version)
		}
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to write document %s/%s: %w", key.Collection, key.ID, err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to inspect write result for %s/%s: %w", key.Collection, key.ID, err)
		}
		if affected == 0 {
			tx.Rollback()
			log.Debug("Document version moved under us", "collection", key.Collection, "id", key.ID, "readVersion", version)
			return fmt.Errorf("%w: %s/%s", ErrConflict, key.Collection, key.ID)
		}
	}

	return tx.Commit()
}

func (s *store) Append(ctx context.Context, collection string, doc any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal document for %s: %w", collection, err)
	}

	id := uuid.New().String()
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO documents (collection, id, version, data) VALUES (?, ?, 1, ?)",
		collection, id, string(data))
	if err != nil {
		return "", fmt.Errorf("failed to append document to %s: %w", collection, err)
	}
	return id, nil
}
