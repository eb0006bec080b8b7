// Package gorm implements history.Store on any GORM-supported SQL
// database.
package gorm

import (
	"context"
	"fmt"

	"github.com/unikit/regent/pkg/history/consts"
	history "github.com/unikit/regent/pkg/history/types"
	"gorm.io/gorm"
)

// History implements history.Store using GORM.
type History struct {
	db    *gorm.DB
	limit int
}

// ExchangeModel represents the database schema for one exchange.
type ExchangeModel struct {
	gorm.Model
	Token    string `gorm:"index"`
	Question string `gorm:"type:text"`
	Answer   string `gorm:"type:text"`
}

// TableName overrides the table name.
func (ExchangeModel) TableName() string {
	return consts.TableNameExchanges
}

// New creates a History keeping at most limit exchanges per token.
func New(db *gorm.DB, limit int) (*History, error) {
	if limit <= 0 {
		limit = consts.DefaultLimit
	}
	if err := db.AutoMigrate(&ExchangeModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return &History{db: db, limit: limit}, nil
}

// Append inserts the exchange and deletes the caller's oldest rows beyond
// the limit, in one transaction.
func (h *History) Append(ctx context.Context, token string, ex history.Exchange) error {
	return h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := ExchangeModel{
			Token:    token,
			Question: ex.Question,
			Answer:   ex.Answer,
		}
		if err := tx.Create(&model).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&ExchangeModel{}).Where("token = ?", token).Count(&count).Error; err != nil {
			return err
		}
		if int(count) <= h.limit {
			return nil
		}

		var stale []uint
		err := tx.Model(&ExchangeModel{}).
			Where("token = ?", token).
			Order("id asc").
			Limit(int(count)-h.limit).
			Pluck("id", &stale).Error
		if err != nil {
			return err
		}
		return tx.Delete(&ExchangeModel{}, stale).Error
	})
}

// List loads the caller's exchanges, oldest first.
func (h *History) List(ctx context.Context, token string) ([]history.Exchange, error) {
	var models []ExchangeModel
	err := h.db.WithContext(ctx).
		Where("token = ?", token).
		Order("id asc").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	exchanges := make([]history.Exchange, len(models))
	for i, m := range models {
		exchanges[i] = history.Exchange{
			Question: m.Question,
			Answer:   m.Answer,
		}
	}

	return exchanges, nil
}
