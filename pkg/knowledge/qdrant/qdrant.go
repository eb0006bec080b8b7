// Package qdrant implements knowledge.VectorStore on a Qdrant instance,
// one Qdrant collection per knowledge collection.
package qdrant

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"github.com/unikit/regent/pkg/knowledge"
)

const (
	payloadChunkID = "chunk_id"
	payloadContent = "content"
)

// Store holds a Qdrant client and the vector width collections are
// created with.
type Store struct {
	client     *qdrant.Client
	vectorSize uint64
}

// New connects to Qdrant. Collections are created lazily on first write.
func New(host string, port int, vectorSize uint64) (*Store, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &Store{
		client:     client,
		vectorSize: vectorSize,
	}, nil
}

// EnsureCollection creates the collection with cosine distance if it does
// not already exist.
func (s *Store) EnsureCollection(ctx context.Context, collection string) error {
	exists, err := s.client.CollectionExists(ctx, collection)
	if err != nil {
		return fmt.Errorf("failed to check collection %s: %w", collection, err)
	}
	if exists {
		return nil
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     s.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection %s: %w", collection, err)
	}
	return nil
}

// HasCollection reports whether the collection exists.
func (s *Store) HasCollection(ctx context.Context, collection string) (bool, error) {
	exists, err := s.client.CollectionExists(ctx, collection)
	if err != nil {
		return false, fmt.Errorf("failed to check collection %s: %w", collection, err)
	}
	return exists, nil
}

// DeleteCollection drops the collection. Absent collections are ignored.
func (s *Store) DeleteCollection(ctx context.Context, collection string) error {
	exists, err := s.client.CollectionExists(ctx, collection)
	if err != nil {
		return fmt.Errorf("failed to check collection %s: %w", collection, err)
	}
	if !exists {
		return nil
	}
	if err := s.client.DeleteCollection(ctx, collection); err != nil {
		return fmt.Errorf("failed to delete collection %s: %w", collection, err)
	}
	return nil
}

// Upsert writes documents and their vectors. Qdrant point ids must be
// UUIDs or integers, so each chunk id is mapped to a deterministic UUID
// and the chunk id itself is kept in the payload; re-ingesting the same
// chunk id overwrites the point in place.
func (s *Store) Upsert(ctx context.Context, collection string, documents []knowledge.Document, vectors [][]float32) error {
	if len(vectors) != len(documents) {
		return fmt.Errorf("number of vectors and documents must match")
	}

	points := make([]*qdrant.PointStruct, len(documents))
	for i, doc := range documents {
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewIDUUID(pointID(collection, doc.ID)),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: map[string]*qdrant.Value{
				payloadChunkID: qdrant.NewValueString(doc.ID),
				payloadContent: qdrant.NewValueString(doc.Content),
			},
		}
	}

	wait := true
	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Points:         points,
		Wait:           &wait,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert %d points into %s: %w", len(points), collection, err)
	}
	return nil
}

// Search returns up to limit documents by descending cosine similarity.
// An absent collection yields an empty result.
func (s *Store) Search(ctx context.Context, collection string, query []float32, limit int) ([]knowledge.Document, error) {
	exists, err := s.client.CollectionExists(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to check collection %s: %w", collection, err)
	}
	if !exists {
		return nil, nil
	}

	limit64 := uint64(limit)
	res, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collection,
		Query:          qdrant.NewQuery(query...),
		Limit:          &limit64,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", collection, err)
	}

	docs := make([]knowledge.Document, len(res))
	for i, hit := range res {
		doc := knowledge.Document{Score: hit.Score}
		if v, ok := hit.Payload[payloadChunkID]; ok {
			doc.ID = v.GetStringValue()
		}
		if v, ok := hit.Payload[payloadContent]; ok {
			doc.Content = v.GetStringValue()
		}
		docs[i] = doc
	}

	return docs, nil
}

// pointID derives a stable UUID from a chunk id, namespaced by collection.
func pointID(collection, chunkID string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(collection+"/"+chunkID)).String()
}
