// Package inmemory implements history.Store with a mutex-guarded map of
// bounded slices. State lives for the process lifetime.
package inmemory

import (
	"context"
	"sync"

	"github.com/unikit/regent/pkg/history/consts"
	history "github.com/unikit/regent/pkg/history/types"
)

// InMemory implements Store using a map keyed by caller token.
type InMemory struct {
	mu    sync.RWMutex
	limit int
	logs  map[string][]history.Exchange
}

// New creates an InMemory store keeping at most limit exchanges per token.
func New(limit int) *InMemory {
	if limit <= 0 {
		limit = consts.DefaultLimit
	}
	return &InMemory{
		limit: limit,
		logs:  make(map[string][]history.Exchange),
	}
}

// Append records one exchange, evicting the oldest entries past the
// limit.
func (m *InMemory) Append(ctx context.Context, token string, ex history.Exchange) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	log := append(m.logs[token], ex)
	if len(log) > m.limit {
		// Copy into a fresh slice so the backing array does not grow
		// without bound as old entries are trimmed off the front.
		trimmed := make([]history.Exchange, m.limit)
		copy(trimmed, log[len(log)-m.limit:])
		log = trimmed
	}
	m.logs[token] = log
	return nil
}

// List returns a snapshot of the caller's exchanges, oldest first.
func (m *InMemory) List(ctx context.Context, token string) ([]history.Exchange, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	log := m.logs[token]
	result := make([]history.Exchange, len(log))
	copy(result, log)

	return result, nil
}
