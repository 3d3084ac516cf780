package store

import (
	"context"
	"encoding/json"
	"sync"
)

// MockStore is a mock implementation of the DocumentStore interface for
// testing. It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	GetFunc    func(ctx context.Context, collection, id string) (json.RawMessage, error)
	ListFunc   func(ctx context.Context, collection string) (map[string]json.RawMessage, error)
	UpdateFunc func(ctx context.Context, keys []Key, fn UpdateFunc) error
	AppendFunc func(ctx context.Context, collection string, doc any) (string, error)

	// Call records
	GetCalls    []Key
	ListCalls   []string
	UpdateCalls [][]Key
	AppendCalls []AppendCall
}

// AppendCall holds the arguments for a call to Append.
type AppendCall struct {
	Collection string
	Doc        any
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) Get(ctx context.Context, collection, id string) (json.RawMessage, error) {
	m.mu.Lock()
	m.GetCalls = append(m.GetCalls, Key{Collection: collection, ID: id})
	fn := m.GetFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, collection, id)
	}
	return nil, ErrNotFound
}

func (m *MockStore) List(ctx context.Context, collection string) (map[string]json.RawMessage, error) {
	m.mu.Lock()
	m.ListCalls = append(m.ListCalls, collection)
	fn := m.ListFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, collection)
	}
	return nil, nil
}

func (m *MockStore) Update(ctx context.Context, keys []Key, fn UpdateFunc) error {
	m.mu.Lock()
	m.UpdateCalls = append(m.UpdateCalls, keys)
	spy := m.UpdateFunc
	m.mu.Unlock()
	if spy != nil {
		return spy(ctx, keys, fn)
	}
	return nil
}

func (m *MockStore) Append(ctx context.Context, collection string, doc any) (string, error) {
	m.mu.Lock()
	m.AppendCalls = append(m.AppendCalls, AppendCall{Collection: collection, Doc: doc})
	fn := m.AppendFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, collection, doc)
	}
	return "mock-id", nil
}
