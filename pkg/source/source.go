// Package source fetches raw reference document text by key.
package source

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no document exists under a key.
var ErrNotFound = errors.New("document not found")

// Source is the interface for a document store holding extracted text.
type Source interface {
	// Fetch returns the UTF-8 text stored under key.
	Fetch(ctx context.Context, key string) (string, error)
}
