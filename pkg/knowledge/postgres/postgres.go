// Package postgres implements knowledge.VectorStore on Postgres with the
// pgvector extension. All collections share one table, partitioned by a
// collection column.
package postgres

import (
	"context"
	"fmt"

	"github.com/pgvector/pgvector-go"
	"github.com/unikit/regent/pkg/knowledge"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store implements knowledge.VectorStore using pgvector.
type Store struct {
	db *gorm.DB
}

// ChunkModel is the database schema for one stored chunk.
type ChunkModel struct {
	Collection string          `gorm:"primaryKey;size:128"`
	ChunkID    string          `gorm:"primaryKey;size:128;column:chunk_id"`
	Content    string          `gorm:"type:text"`
	Embedding  pgvector.Vector `gorm:"type:vector(1536)"` // text-embedding-3-small width
}

// TableName overrides the table name.
func (ChunkModel) TableName() string {
	return "chunks"
}

// New connects, enables pgvector and migrates the chunks table.
func New(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return nil, fmt.Errorf("failed to enable pgvector extension: %w", err)
	}

	if err := db.AutoMigrate(&ChunkModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Store{db: db}, nil
}

// EnsureCollection is a no-op: collections are rows in the shared table,
// created implicitly by the first upsert.
func (s *Store) EnsureCollection(ctx context.Context, collection string) error {
	return nil
}

// HasCollection reports whether any chunks exist under the collection.
func (s *Store) HasCollection(ctx context.Context, collection string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&ChunkModel{}).
		Where("collection = ?", collection).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to count collection %s: %w", collection, err)
	}
	return count > 0, nil
}

// DeleteCollection removes every chunk under the collection.
func (s *Store) DeleteCollection(ctx context.Context, collection string) error {
	err := s.db.WithContext(ctx).
		Where("collection = ?", collection).
		Delete(&ChunkModel{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete collection %s: %w", collection, err)
	}
	return nil
}

// Upsert writes documents and their vectors in one transaction, replacing
// rows that share a (collection, chunk_id) key.
func (s *Store) Upsert(ctx context.Context, collection string, documents []knowledge.Document, vectors [][]float32) error {
	if len(vectors) != len(documents) {
		return fmt.Errorf("number of vectors and documents must match")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, doc := range documents {
			model := ChunkModel{
				Collection: collection,
				ChunkID:    doc.ID,
				Content:    doc.Content,
				Embedding:  pgvector.NewVector(vectors[i]),
			}

			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "collection"}, {Name: "chunk_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"content", "embedding"}),
			}).Create(&model).Error
			if err != nil {
				return fmt.Errorf("failed to upsert chunk %s: %w", doc.ID, err)
			}
		}
		return nil
	})
}

// Search orders the collection's chunks by cosine distance to the query
// vector (pgvector's <=> operator) and returns the closest limit entries.
func (s *Store) Search(ctx context.Context, collection string, query []float32, limit int) ([]knowledge.Document, error) {
	var models []ChunkModel

	err := s.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order(clause.Expr{SQL: "embedding <=> ?", Vars: []interface{}{pgvector.NewVector(query)}}).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query collection %s: %w", collection, err)
	}

	docs := make([]knowledge.Document, len(models))
	for i, m := range models {
		docs[i] = knowledge.Document{
			ID:      m.ChunkID,
			Content: m.Content,
		}
	}

	return docs, nil
}
