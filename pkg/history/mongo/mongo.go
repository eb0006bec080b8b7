// Package mongo implements history.Store on a MongoDB collection.
package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/unikit/regent/pkg/history/consts"
	history "github.com/unikit/regent/pkg/history/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoHistory struct {
	client     *mongo.Client
	collection *mongo.Collection
	limit      int64
}

type exchangeDoc struct {
	ID        interface{} `bson:"_id,omitempty"`
	Token     string      `bson:"token"`
	Question  string      `bson:"question"`
	Answer    string      `bson:"answer"`
	CreatedAt time.Time   `bson:"created_at"`
}

// New creates a MongoDB-backed history keeping at most limit exchanges
// per token.
func New(client *mongo.Client, dbName, collectionName string, limit int) *MongoHistory {
	if limit <= 0 {
		limit = consts.DefaultLimit
	}
	return &MongoHistory{
		client:     client,
		collection: client.Database(dbName).Collection(collectionName),
		limit:      int64(limit),
	}
}

// Append inserts the exchange and prunes the caller's oldest documents
// beyond the limit.
func (h *MongoHistory) Append(ctx context.Context, token string, ex history.Exchange) error {
	doc := exchangeDoc{
		Token:     token,
		Question:  ex.Question,
		Answer:    ex.Answer,
		CreatedAt: time.Now(),
	}
	if _, err := h.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert exchange: %w", err)
	}

	filter := bson.M{consts.ColToken: token}
	count, err := h.collection.CountDocuments(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to count exchanges: %w", err)
	}
	if count <= h.limit {
		return nil
	}

	opts := options.Find().
		SetSort(bson.M{consts.ColCreatedAt: 1}).
		SetLimit(count - h.limit).
		SetProjection(bson.M{"_id": 1})
	cursor, err := h.collection.Find(ctx, filter, opts)
	if err != nil {
		return fmt.Errorf("failed to find stale exchanges: %w", err)
	}
	defer cursor.Close(ctx)

	var stale []interface{}
	for cursor.Next(ctx) {
		var doc exchangeDoc
		if err := cursor.Decode(&doc); err != nil {
			return err
		}
		stale = append(stale, doc.ID)
	}
	if err := cursor.Err(); err != nil {
		return err
	}
	if len(stale) == 0 {
		return nil
	}

	_, err = h.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": stale}})
	if err != nil {
		return fmt.Errorf("failed to prune stale exchanges: %w", err)
	}
	return nil
}

// List loads the caller's exchanges, oldest first.
func (h *MongoHistory) List(ctx context.Context, token string) ([]history.Exchange, error) {
	filter := bson.M{consts.ColToken: token}
	opts := options.Find().SetSort(bson.M{consts.ColCreatedAt: 1})

	cursor, err := h.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	defer cursor.Close(ctx)

	var exchanges []history.Exchange
	for cursor.Next(ctx) {
		var doc exchangeDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		exchanges = append(exchanges, history.Exchange{
			Question: doc.Question,
			Answer:   doc.Answer,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return exchanges, nil
}
