package orders

import (
	"context"

	"github.com/arduinodayph/adph-merch/internal/repo"
	"github.com/arduinodayph/adph-merch/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists storefront orders.
type Repository struct {
	repo.Base
}

// NewRepository constructs an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) OrderRepository {
	return &Repository{Base: r.Bind(tx)}
}

// Create inserts a new order.
func (r *Repository) Create(ctx context.Context, order *models.Order) error {
	return r.DB(ctx).Create(order).Error
}

// List returns every order, newest first.
func (r *Repository) List(ctx context.Context) ([]models.Order, error) {
	var out []models.Order
	if err := r.DB(ctx).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// FindByID loads a single order.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.DB(ctx).Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateColumns writes only the named columns of order.
func (r *Repository) UpdateColumns(ctx context.Context, order *models.Order, columns []string) error {
	if len(columns) == 0 {
		return nil
	}
	cols := append(append([]string(nil), columns...), "updated_at")
	return r.DB(ctx).Model(order).Select(cols).Updates(order).Error
}
