// Package mysql provides a MySQL-backed history store.
package mysql

import (
	"fmt"

	gormhist "github.com/unikit/regent/pkg/history/gorm"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// New creates a MySQL history store.
func New(dsn string, limit int) (*gormhist.History, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql: %w", err)
	}
	return gormhist.New(db, limit)
}
