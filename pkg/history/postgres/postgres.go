// Package postgres provides a Postgres-backed history store.
package postgres

import (
	"fmt"

	gormhist "github.com/unikit/regent/pkg/history/gorm"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// New creates a Postgres history store.
func New(dsn string, limit int) (*gormhist.History, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	return gormhist.New(db, limit)
}
