package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultSize is applied to items that do not configure any sizes.
const DefaultSize = "One Size"

// MerchItem is a catalog entry offered on the storefront.
type MerchItem struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Name        string          `gorm:"column:name;not null"`
	Image       string          `gorm:"column:image;not null;default:''"`
	Tone        string          `gorm:"column:tone;not null;default:''"`
	Tag         string          `gorm:"column:tag;not null;default:''"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Sizes       pq.StringArray  `gorm:"column:sizes;type:text[]"`
	WeightGrams int             `gorm:"column:weight_grams;not null;default:0"`
	SortOrder   int             `gorm:"column:sort_order;not null;default:0"`
	IsActive    bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (MerchItem) TableName() string { return "merch_items" }

func (m *MerchItem) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// SizeOptions returns the configured sizes, falling back to DefaultSize.
func (m MerchItem) SizeOptions() []string {
	out := make([]string, 0, len(m.Sizes))
	for _, size := range m.Sizes {
		if size != "" {
			out = append(out, size)
		}
	}
	if len(out) == 0 {
		return []string{DefaultSize}
	}
	return out
}
