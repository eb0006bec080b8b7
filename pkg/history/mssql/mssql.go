// Package mssql provides a SQL Server-backed history store.
package mssql

import (
	"fmt"

	gormhist "github.com/unikit/regent/pkg/history/gorm"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
)

// New creates a SQL Server history store.
func New(dsn string, limit int) (*gormhist.History, error) {
	db, err := gorm.Open(sqlserver.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open mssql: %w", err)
	}
	return gormhist.New(db, limit)
}
