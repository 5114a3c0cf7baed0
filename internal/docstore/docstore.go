// Package docstore narrows the remote document database to the four
// primitives the application actually depends on: get-by-id, get-all,
// equality query (plus an aggregate count), and an atomic multi-document
// batch write. The production implementation is Cloud Firestore; the
// in-memory implementation backs the tests.
package docstore

import (
	"context"
	"errors"
)

// ErrNotFound reports that a document id does not exist in its collection.
// It is a normal outcome, not a transport failure; callers distinguish the
// two with errors.Is.
var ErrNotFound = errors.New("docstore: document not found")

// Document is one decoded-on-demand document.
type Document struct {
	ID     string
	decode func(v any) error
}

// DataTo decodes the document body into v, which must be a pointer.
func (d Document) DataTo(v any) error {
	return d.decode(v)
}

// Store is the contract both implementations satisfy.
type Store interface {
	// Get fetches a single document by id, returning ErrNotFound when absent.
	Get(ctx context.Context, collection, id string) (Document, error)
	// GetAll fetches every document in a collection.
	GetAll(ctx context.Context, collection string) ([]Document, error)
	// Query fetches the documents whose field equals value.
	Query(ctx context.Context, collection, field string, value any) ([]Document, error)
	// Count counts the documents whose field equals value without fetching them.
	Count(ctx context.Context, collection, field string, value any) (int64, error)
	// Batch starts an atomic multi-document write. Writes are buffered until
	// Commit; either all of them apply or none do.
	Batch() Batch
}

type Batch interface {
	Set(collection, id string, data any)
	Commit(ctx context.Context) error
}
