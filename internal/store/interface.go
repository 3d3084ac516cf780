package store

import (
	"context"
	"encoding/json"
)

// DocumentStore is the durable keyed-document collaborator. All persistent
// state (players, teams, matches, seasons) is kept as JSON documents in
// named collections, and concurrent writers are reconciled with optimistic
// versioning: Update fails with ErrConflict when any touched document was
// committed by someone else between the read and the write.
type DocumentStore interface {
	// Get returns the current contents of a single document, or ErrNotFound.
	Get(ctx context.Context, collection, id string) (json.RawMessage, error)
	// List returns every document in a collection, keyed by id.
	List(ctx context.Context, collection string) (map[string]json.RawMessage, error)
	// Update runs one optimistic read-modify-write cycle over the given
	// documents. fn receives the current contents (nil for absent documents)
	// and returns the new contents for every document it wants written;
	// omitted keys are left untouched. All writes commit atomically or not
	// at all.
	Update(ctx context.Context, keys []Key, fn UpdateFunc) error
	// Append inserts a new immutable document and returns its generated id.
	Append(ctx context.Context, collection string, doc any) (string, error)
}

// Key addresses one document inside a collection.
type Key struct {
	Collection string
	ID         string
}

// UpdateFunc transforms the current revision of a set of documents into
// their next revision. Returning an error aborts the cycle without writing.
type UpdateFunc func(current map[Key]json.RawMessage) (map[Key]json.RawMessage, error)
