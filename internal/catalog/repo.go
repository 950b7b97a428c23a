package catalog

import (
	"context"

	"github.com/arduinodayph/adph-merch/internal/repo"
	"github.com/arduinodayph/adph-merch/pkg/db/models"
	"gorm.io/gorm"
)

// Repository reads merch items.
type Repository struct {
	repo.Base
}

// NewRepository constructs a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// ListActive returns active items in display order.
func (r *Repository) ListActive(ctx context.Context) ([]models.MerchItem, error) {
	var items []models.MerchItem
	err := r.DB(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC").
		Order("name ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
