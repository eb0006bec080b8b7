// Package redis implements history.Store on a Redis list per caller
// token.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/unikit/regent/pkg/history/consts"
	history "github.com/unikit/regent/pkg/history/types"
)

// History implements history.Store using Redis. Each caller's exchanges
// live in a JSON list under "history:{token}", trimmed to the limit on
// every append.
type History struct {
	client *redis.Client
	limit  int64
}

// New creates a Redis-backed history keeping at most limit exchanges per
// token.
func New(client *redis.Client, limit int) *History {
	if limit <= 0 {
		limit = consts.DefaultLimit
	}
	return &History{client: client, limit: int64(limit)}
}

func key(token string) string {
	return fmt.Sprintf("history:%s", token)
}

// Append pushes the exchange and trims the list to the newest limit
// entries in one pipeline.
func (h *History) Append(ctx context.Context, token string, ex history.Exchange) error {
	b, err := json.Marshal(ex)
	if err != nil {
		return fmt.Errorf("failed to marshal exchange: %w", err)
	}

	pipe := h.client.TxPipeline()
	pipe.RPush(ctx, key(token), b)
	pipe.LTrim(ctx, key(token), -h.limit, -1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append exchange: %w", err)
	}
	return nil
}

// List loads the caller's exchanges, oldest first.
func (h *History) List(ctx context.Context, token string) ([]history.Exchange, error) {
	result, err := h.client.LRange(ctx, key(token), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	exchanges := make([]history.Exchange, len(result))
	for i, item := range result {
		var ex history.Exchange
		if err := json.Unmarshal([]byte(item), &ex); err != nil {
			return nil, fmt.Errorf("failed to unmarshal exchange at index %d: %w", i, err)
		}
		exchanges[i] = ex
	}

	return exchanges, nil
}
