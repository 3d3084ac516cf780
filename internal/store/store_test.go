package store_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/oyvinddd/officesports-sub001/internal/database"
	"github.com/oyvinddd/officesports-sub001/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestStore creates a temporary in-memory SQLite database for testing.
func setupTestStore(t *testing.T) (store.DocumentStore, *sql.DB, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	return store.New(db), db, dbTeardown
}

func TestGet(t *testing.T) {
	docs, db, teardown := setupTestStore(t)
	defer teardown()
	ctx := context.Background()

	t.Run("returns ErrNotFound for a missing document", func(t *testing.T) {
		_, err := docs.Get(ctx, "players", "ghost")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("returns the stored contents", func(t *testing.T) {
		_, err := db.Exec(`INSERT INTO documents (collection, id, version, data) VALUES ('players', 'p1', 1, '{"name":"Ada"}')`)
		require.NoError(t, err)

		data, err := docs.Get(ctx, "players", "p1")
		require.NoError(t, err)
		assert.JSONEq(t, `{"name":"Ada"}`, string(data))
	})
}

func TestList(t *testing.T) {
	docs, db, teardown := setupTestStore(t)
	defer teardown()
	ctx := context.Background()

	all, err := docs.List(ctx, "players")
	require.NoError(t, err)
	assert.Empty(t, all)

	_, err = db.Exec(`INSERT INTO documents (collection, id, version, data) VALUES
		('players', 'p1', 1, '{"name":"Ada"}'),
		('players', 'p2', 1, '{"name":"Grace"}'),
		('teams', 't1', 1, '{"name":"Oslo"}')`)
	require.NoError(t, err)

	all, err = docs.List(ctx, "players")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Contains(t, all, "p1")
	assert.Contains(t, all, "p2")
}

func TestAppend(t *testing.T) {
	docs, _, teardown := setupTestStore(t)
	defer teardown()
	ctx := context.Background()

	id, err := docs.Append(ctx, "matches", map[string]any{"sport": "foosball"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	data, err := docs.Get(ctx, "matches", id)
	require.NoError(t, err)
	assert.JSONEq(t, `{"sport":"foosball"}`, string(data))
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	key := store.Key{Collection: "players", ID: "p1"}

	t.Run("creates an absent document", func(t *testing.T) {
		docs, _, teardown := setupTestStore(t)
		defer teardown()

		err := docs.Update(ctx, []store.Key{key}, func(current map[store.Key]json.RawMessage) (map[store.Key]json.RawMessage, error) {
			require.Nil(t, current[key])
			return map[store.Key]json.RawMessage{key: json.RawMessage(`{"score":1200}`)}, nil
		})
		require.NoError(t, err)

		data, err := docs.Get(ctx, "players", "p1")
		require.NoError(t, err)
		assert.JSONEq(t, `{"score":1200}`, string(data))
	})

	t.Run("rewrites an existing document", func(t *testing.T) {
		docs, db, teardown := setupTestStore(t)
		defer teardown()

		_, err := db.Exec(`INSERT INTO documents (collection, id, version, data) VALUES ('players', 'p1', 1, '{"score":1200}')`)
		require.NoError(t, err)

		err = docs.Update(ctx, []store.Key{key}, func(current map[store.Key]json.RawMessage) (map[store.Key]json.RawMessage, error) {
			assert.JSONEq(t, `{"score":1200}`, string(current[key]))
			return map[store.Key]json.RawMessage{key: json.RawMessage(`{"score":1216}`)}, nil
		})
		require.NoError(t, err)

		var version int64
		var data string
		require.NoError(t, db.QueryRow("SELECT version, data FROM documents WHERE collection = 'players' AND id = 'p1'").Scan(&version, &data))
		assert.Equal(t, int64(2), version)
		assert.JSONEq(t, `{"score":1216}`, data)
	})

	t.Run("spans multiple collections atomically", func(t *testing.T) {
		docs, db, teardown := setupTestStore(t)
		defer teardown()

		season := store.Key{Collection: "seasons", ID: "2026-08|foosball|t1"}
		err := docs.Update(ctx, []store.Key{key, season}, func(current map[store.Key]json.RawMessage) (map[store.Key]json.RawMessage, error) {
			return map[store.Key]json.RawMessage{
				key:    json.RawMessage(`{"score":1200}`),
				season: json.RawMessage(`{"winner":"p1"}`),
			}, nil
		})
		require.NoError(t, err)

		var count int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM documents").Scan(&count))
		assert.Equal(t, 2, count)
	})

	t.Run("returns ErrConflict when a document moved under us", func(t *testing.T) {
		docs, db, teardown := setupTestStore(t)
		defer teardown()

		_, err := db.Exec(`INSERT INTO documents (collection, id, version, data) VALUES ('players', 'p1', 1, '{"score":1200}')`)
		require.NoError(t, err)

		err = docs.Update(ctx, []store.Key{key}, func(current map[store.Key]json.RawMessage) (map[store.Key]json.RawMessage, error) {
			// Simulate a concurrent commit landing between our read and write.
			_, execErr := db.Exec(`UPDATE documents SET version = version + 1, data = '{"score":1300}' WHERE collection = 'players' AND id = 'p1'`)
			require.NoError(t, execErr)
			return map[store.Key]json.RawMessage{key: json.RawMessage(`{"score":1216}`)}, nil
		})
		assert.ErrorIs(t, err, store.ErrConflict)

		// The losing write must not be visible.
		data, err := docs.Get(ctx, "players", "p1")
		require.NoError(t, err)
		assert.JSONEq(t, `{"score":1300}`, string(data))
	})

	t.Run("returns ErrConflict when a document was created concurrently", func(t *testing.T) {
		docs, db, teardown := setupTestStore(t)
		defer teardown()

		err := docs.Update(ctx, []store.Key{key}, func(current map[store.Key]json.RawMessage) (map[store.Key]json.RawMessage, error) {
			_, execErr := db.Exec(`INSERT INTO documents (collection, id, version, data) VALUES ('players', 'p1', 1, '{"score":1300}')`)
			require.NoError(t, execErr)
			return map[store.Key]json.RawMessage{key: json.RawMessage(`{"score":1200}`)}, nil
		})
		assert.ErrorIs(t, err, store.ErrConflict)
	})

	t.Run("a failing fn writes nothing", func(t *testing.T) {
		docs, db, teardown := setupTestStore(t)
		defer teardown()

		wantErr := assert.AnError
		err := docs.Update(ctx, []store.Key{key}, func(current map[store.Key]json.RawMessage) (map[store.Key]json.RawMessage, error) {
			return nil, wantErr
		})
		assert.ErrorIs(t, err, wantErr)

		var count int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM documents").Scan(&count))
		assert.Zero(t, count)
	})
}
