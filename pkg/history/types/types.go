// Package types holds the exchange record and store contract shared by
// the history package and its backends. It exists as a leaf package so
// the backends and the factory in package history do not form an import
// cycle; package history re-exports these names via type aliases.
package types

import "context"

// Exchange is one question/answer pair in a caller's conversation log.
type Exchange struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Store represents storage for caller conversation logs. Every
// implementation keeps at most the configured number of exchanges per
// token, evicting the oldest first.
type Store interface {
	// Append records one exchange for a caller token.
	Append(ctx context.Context, token string, ex Exchange) error
	// List returns a snapshot of the caller's exchanges, oldest first.
	List(ctx context.Context, token string) ([]Exchange, error)
}
