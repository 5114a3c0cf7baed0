package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store with the same observable semantics as
// the Firestore adapter. It exists so service logic can be exercised without
// a network; documents round-trip through JSON, which covers every model in
// this codebase.
type MemoryStore struct {
	mu          sync.Mutex
	collections map[string]map[string]json.RawMessage
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]map[string]json.RawMessage)}
}

// Seed writes a document directly, generating a random id when id is empty.
// It returns the document id.
func (s *MemoryStore) Seed(collection, id string, data any) string {
	if id == "" {
		id = uuid.NewString()
	}
	raw, err := json.Marshal(data)
	if err != nil {
		panic(fmt.Sprintf("docstore: unmarshalable seed document: %v", err))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(collection, id, raw)
	return id
}

func (s *MemoryStore) put(collection, id string, raw json.RawMessage) {
	col, ok := s.collections[collection]
	if !ok {
		col = make(map[string]json.RawMessage)
		s.collections[collection] = col
	}
	col[id] = raw
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string) (Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.collections[collection][id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return rawDocument(id, raw), nil
}

func (s *MemoryStore) GetAll(ctx context.Context, collection string) ([]Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var docs []Document
	for id, raw := range s.collections[collection] {
		docs = append(docs, rawDocument(id, raw))
	}
	return docs, nil
}

func (s *MemoryStore) Query(ctx context.Context, collection, field string, value any) ([]Document, error) {
	want, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode query value: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var docs []Document
	for id, raw := range s.collections[collection] {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("corrupt document %s/%s: %w", collection, id, err)
		}
		if got, ok := fields[field]; ok && bytes.Equal(got, want) {
			docs = append(docs, rawDocument(id, raw))
		}
	}
	return docs, nil
}

func (s *MemoryStore) Count(ctx context.Context, collection, field string, value any) (int64, error) {
	docs, err := s.Query(ctx, collection, field, value)
	if err != nil {
		return 0, err
	}
	return int64(len(docs)), nil
}

func (s *MemoryStore) Batch() Batch {
	return &memoryBatch{store: s}
}

type memoryWrite struct {
	collection string
	id         string
	raw        json.RawMessage
}

// memoryBatch buffers writes and applies them under one lock acquisition, so
// a concurrent reader never observes only half of a scan's documents. As
// with the Firestore adapter, atomicity covers the writes only, not any
// reads performed before Commit.
type memoryBatch struct {
	store  *MemoryStore
	writes []memoryWrite
	err    error
}

func (b *memoryBatch) Set(collection, id string, data any) {
	raw, err := json.Marshal(data)
	if err != nil && b.err == nil {
		b.err = fmt.Errorf("failed to encode %s/%s: %w", collection, id, err)
		return
	}
	b.writes = append(b.writes, memoryWrite{collection: collection, id: id, raw: raw})
}

func (b *memoryBatch) Commit(ctx context.Context) error {
	if b.err != nil {
		return b.err
	}
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	for _, w := range b.writes {
		b.store.put(w.collection, w.id, w.raw)
	}
	return nil
}

func rawDocument(id string, raw json.RawMessage) Document {
	// Copy so a later write to the same id cannot mutate a handed-out doc.
	buf := make([]byte, len(raw))
	copy(buf, raw)
	return Document{
		ID: id,
		decode: func(v any) error {
			return json.Unmarshal(buf, v)
		},
	}
}
