// Package sqlite provides a SQLite-backed history store.
package sqlite

import (
	"fmt"

	gormhist "github.com/unikit/regent/pkg/history/gorm"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// New creates a SQLite history store.
func New(dsn string, limit int) (*gormhist.History, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	return gormhist.New(db, limit)
}
