package docstore

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type note struct {
	Owner string `json:"owner"`
	Text  string `json:"text"`
}

func TestMemoryStore_GetMissingIsNotFound(t *testing.T) {
	store := NewMemoryStore()
	_, err := store.Get(context.Background(), "notes", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_SeedAndGet(t *testing.T) {
	store := NewMemoryStore()
	store.Seed("notes", "n1", note{Owner: "alice", Text: "hello"})

	doc, err := store.Get(context.Background(), "notes", "n1")
	require.NoError(t, err)
	assert.Equal(t, "n1", doc.ID)

	var got note
	require.NoError(t, doc.DataTo(&got))
	assert.Equal(t, "alice", got.Owner)
}

func TestMemoryStore_SeedGeneratesID(t *testing.T) {
	store := NewMemoryStore()
	id := store.Seed("notes", "", note{Owner: "alice"})
	require.NotEmpty(t, id)

	_, err := store.Get(context.Background(), "notes", id)
	assert.NoError(t, err)
}

func TestMemoryStore_QueryMatchesFieldEquality(t *testing.T) {
	store := NewMemoryStore()
	store.Seed("notes", "n1", note{Owner: "alice", Text: "a"})
	store.Seed("notes", "n2", note{Owner: "bob", Text: "b"})
	store.Seed("notes", "n3", note{Owner: "alice", Text: "c"})

	docs, err := store.Query(context.Background(), "notes", "owner", "alice")
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	count, err := store.Count(context.Background(), "notes", "owner", "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	none, err := store.Query(context.Background(), "notes", "owner", "carol")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemoryStore_BatchWritesLand(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	batch := store.Batch()
	batch.Set("notes", "n1", note{Owner: "alice"})
	batch.Set("logs", "l1", note{Owner: "alice"})

	_, err := store.Get(ctx, "notes", "n1")
	assert.ErrorIs(t, err, ErrNotFound, "nothing visible before Commit")

	require.NoError(t, batch.Commit(ctx))

	_, err = store.Get(ctx, "notes", "n1")
	assert.NoError(t, err)
	_, err = store.Get(ctx, "logs", "l1")
	assert.NoError(t, err)
}

func TestMemoryStore_DocumentIsImmutableAfterRead(t *testing.T) {
	store := NewMemoryStore()
	store.Seed("notes", "n1", note{Owner: "alice"})

	doc, err := store.Get(context.Background(), "notes", "n1")
	require.NoError(t, err)

	store.Seed("notes", "n1", note{Owner: "bob"})

	var got note
	require.NoError(t, doc.DataTo(&got))
	assert.Equal(t, "alice", got.Owner)
}

func TestMemoryStore_ConcurrentBatches(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			batch := store.Batch()
			id := string(rune('a' + n%26))
			batch.Set("notes", id, note{Owner: id})
			batch.Set("logs", id, note{Owner: id})
			assert.NoError(t, batch.Commit(ctx))
		}(i)
	}
	wg.Wait()

	notes, err := store.GetAll(ctx, "notes")
	require.NoError(t, err)
	logs, err := store.GetAll(ctx, "logs")
	require.NoError(t, err)
	assert.Equal(t, len(notes), len(logs), "paired writes must land together")
}
