package orders

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/arduinodayph/adph-merch/pkg/db"
	"github.com/arduinodayph/adph-merch/pkg/db/models"
	"github.com/arduinodayph/adph-merch/pkg/enums"
	pkgerrors "github.com/arduinodayph/adph-merch/pkg/errors"
	"github.com/arduinodayph/adph-merch/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	msgMissingOrderID = "Missing order id."
	msgOrderNotFound  = "Order not found."
	msgUpdateFailed   = "Unable to update order status."
	msgLoadFailed     = "Unable to load orders."
	msgInvalidStatus  = "Invalid order status."
)

type statusNotifier interface {
	NotifyStatus(ctx context.Context, order *models.Order, status enums.OrderStatus) error
}

type statusRecorder interface {
	IncStatusChange(status string)
}

// Service exposes the admin order operations.
type Service interface {
	ListOrders(ctx context.Context, filter Filter) ([]Summary, error)
	UpdateOrder(ctx context.Context, input UpdateOrderInput) (*UpdateResult, error)
	Stats(ctx context.Context) (*Stats, error)
	ExportCSV(ctx context.Context, filter Filter) ([]byte, error)
}

// ServiceParams groups the admin order dependencies. Metrics and Now are optional.
type ServiceParams struct {
	Repo              OrderRepository
	Tx                txRunner
	Notifier          statusNotifier
	Metrics           statusRecorder
	Logger            *logger.Logger
	StatusSet         enums.OrderStatusSet
	StrictTransitions bool
	Now               func() time.Time
}

type service struct {
	repo     OrderRepository
	tx       txRunner
	notifier statusNotifier
	metrics  statusRecorder
	logg     *logger.Logger
	statuses enums.OrderStatusSet
	strict   bool
	now      func() time.Time
}

// NewService builds the admin order service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("status notifier required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	statuses := params.StatusSet
	if len(statuses.Statuses()) == 0 {
		statuses = enums.ExtendedStatusSet
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:     params.Repo,
		tx:       params.Tx,
		notifier: params.Notifier,
		metrics:  params.Metrics,
		logg:     params.Logger,
		statuses: statuses,
		strict:   params.StrictTransitions,
		now:      now,
	}, nil
}

// UpdateOrderInput is a partial edit. Blank fields and a nil Items slice are left untouched.
type UpdateOrderInput struct {
	ID      string
	Status  string
	Email   string
	Phone   string
	Address string
	Items   []models.OrderLineItem

	// UpdatedBy and UpdatedByRole identify the operator; they are only logged.
	UpdatedBy     string
	UpdatedByRole string
}

// UpdateResult reports success plus any notification failure.
type UpdateResult struct {
	OK         bool   `json:"ok"`
	EmailError string `json:"emailError,omitempty"`
}

func (s *service) ListOrders(ctx context.Context, filter Filter) ([]Summary, error) {
	all, err := s.summaries(ctx)
	if err != nil {
		return nil, err
	}
	return filter.Apply(all), nil
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	all, err := s.summaries(ctx)
	if err != nil {
		return nil, err
	}
	stats := ComputeStats(all, s.now())
	return &stats, nil
}

func (s *service) ExportCSV(ctx context.Context, filter Filter) ([]byte, error) {
	rows, err := s.ListOrders(ctx, filter)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write orders csv")
	}
	return buf.Bytes(), nil
}

func (s *service) summaries(ctx context.Context) ([]Summary, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, msgLoadFailed)
	}
	out := make([]Summary, 0, len(list))
	for _, order := range list {
		out = append(out, Summarize(order))
	}
	return out, nil
}

func (s *service) UpdateOrder(ctx context.Context, input UpdateOrderInput) (*UpdateResult, error) {
	rawID := strings.TrimSpace(input.ID)
	if rawID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, msgMissingOrderID)
	}
	orderID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, msgOrderNotFound)
	}

	var nextStatus enums.OrderStatus
	if status := strings.TrimSpace(input.Status); status != "" {
		parsed, err := enums.ParseOrderStatus(status)
		if err != nil || !s.statuses.Contains(parsed) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, msgInvalidStatus).
				WithDetails(map[string]any{"allowed": s.statuses.Statuses()})
		}
		nextStatus = parsed
	}

	var (
		previous enums.OrderStatus
		updated  *models.Order
	)
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, orderID)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, msgOrderNotFound)
			}
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, msgOrderNotFound)
		}
		previous = order.Status

		if nextStatus != "" && s.strict && !enums.CanTransition(previous, nextStatus) {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("Order cannot move from %s to %s.", previous, nextStatus))
		}

		columns := applyUpdates(order, input, nextStatus)
		if err := repo.UpdateColumns(ctx, order, columns); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeUpstream, err, msgUpdateFailed)
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	logCtx := s.logg.WithFields(s.logg.WithOrderID(ctx, orderID.String()), map[string]any{
		"updated_by":      input.UpdatedBy,
		"updated_by_role": input.UpdatedByRole,
	})
	result := &UpdateResult{OK: true}
	if nextStatus == "" || nextStatus == previous {
		s.logg.Info(logCtx, "orders.updated")
		return result, nil
	}

	if s.metrics != nil {
		s.metrics.IncStatusChange(nextStatus.String())
	}
	s.logg.Info(s.logg.WithFields(logCtx, map[string]any{
		"from_status": previous.String(),
		"to_status":   nextStatus.String(),
	}), "orders.status_changed")

	if err := s.notifier.NotifyStatus(ctx, updated, nextStatus); err != nil {
		result.EmailError = pkgerrors.PublicMessage(err)
	}
	return result, nil
}

// applyUpdates mutates order with the supplied fields and returns the touched columns.
func applyUpdates(order *models.Order, input UpdateOrderInput, status enums.OrderStatus) []string {
	columns := make([]string, 0, 6)
	if status != "" {
		order.Status = status
		columns = append(columns, "status")
	}
	if v := strings.TrimSpace(input.Email); v != "" {
		order.Email = v
		columns = append(columns, "email")
	}
	if v := strings.TrimSpace(input.Phone); v != "" {
		order.Phone = v
		columns = append(columns, "phone")
	}
	if v := strings.TrimSpace(input.Address); v != "" {
		order.Address = v
		columns = append(columns, "address")
	}
	if input.Items != nil {
		order.Items = repriceItems(input.Items)
		subtotal := decimal.Zero
		grams := 0
		for _, item := range order.Items {
			subtotal = subtotal.Add(item.LineTotal)
			grams += item.LineWeightGrams
		}
		order.TotalAmount = subtotal.Add(order.DeliveryFee)
		order.TotalWeight, order.WeightUnit = models.TotalWeight(grams)
		columns = append(columns, "items", "total_amount", "total_weight", "weight_unit")
	}
	return columns
}

// repriceItems recomputes line totals and line weights from the edited lines.
func repriceItems(items []models.OrderLineItem) []models.OrderLineItem {
	out := make([]models.OrderLineItem, 0, len(items))
	for _, item := range items {
		if item.Quantity < 0 {
			item.Quantity = 0
		}
		item.LineTotal = item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		item.LineWeightGrams = item.WeightGrams * item.Quantity
		out = append(out, item)
	}
	return out
}
