package docstore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore adapts a Cloud Firestore client to the Store contract.
type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) Get(ctx context.Context, collection, id string) (Document, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return Document{}, ErrNotFound
		}
		return Document{}, fmt.Errorf("failed to get %s/%s: %w", collection, id, err)
	}
	return snapshotDocument(snap), nil
}

func (s *FirestoreStore) GetAll(ctx context.Context, collection string) ([]Document, error) {
	snaps, err := s.client.Collection(collection).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", collection, err)
	}
	docs := make([]Document, 0, len(snaps))
	for _, snap := range snaps {
		docs = append(docs, snapshotDocument(snap))
	}
	return docs, nil
}

func (s *FirestoreStore) Query(ctx context.Context, collection, field string, value any) ([]Document, error) {
	snaps, err := s.client.Collection(collection).Where(field, "==", value).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to query %s by %s: %w", collection, field, err)
	}
	docs := make([]Document, 0, len(snaps))
	for _, snap := range snaps {
		docs = append(docs, snapshotDocument(snap))
	}
	return docs, nil
}

func (s *FirestoreStore) Count(ctx context.Context, collection, field string, value any) (int64, error) {
	query := s.client.Collection(collection).Where(field, "==", value)
	results, err := query.NewAggregationQuery().WithCount("all").Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s by %s: %w", collection, field, err)
	}
	raw, ok := results["all"]
	if !ok {
		return 0, fmt.Errorf("count aggregation returned no result for %s", collection)
	}
	count, ok := raw.(*firestorepb.Value)
	if !ok {
		return 0, fmt.Errorf("unexpected count aggregation type %T", raw)
	}
	return count.GetIntegerValue(), nil
}

func (s *FirestoreStore) Batch() Batch {
	return &firestoreBatch{store: s}
}

type firestoreWrite struct {
	collection string
	id         string
	data       any
}

// firestoreBatch commits its buffered writes inside a single transaction so
// both documents of a scan either land together or not at all. Note this is
// atomic only across the writes themselves, not across the read-check that
// preceded them.
type firestoreBatch struct {
	store  *FirestoreStore
	writes []firestoreWrite
}

func (b *firestoreBatch) Set(collection, id string, data any) {
	b.writes = append(b.writes, firestoreWrite{collection: collection, id: id, data: data})
}

func (b *firestoreBatch) Commit(ctx context.Context) error {
	err := b.store.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		for _, w := range b.writes {
			if err := tx.Set(b.store.client.Collection(w.collection).Doc(w.id), w.data); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to commit batch of %d writes: %w", len(b.writes), err)
	}
	return nil
}

func snapshotDocument(snap *firestore.DocumentSnapshot) Document {
	return Document{
		ID:     snap.Ref.ID,
		decode: snap.DataTo,
	}
}
