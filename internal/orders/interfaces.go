package orders

import (
	"context"

	"github.com/arduinodayph/adph-merch/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderRepository is the persistence surface the admin service needs.
type OrderRepository interface {
	WithTx(tx *gorm.DB) OrderRepository
	Create(ctx context.Context, order *models.Order) error
	List(ctx context.Context) ([]models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	UpdateColumns(ctx context.Context, order *models.Order, columns []string) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}
