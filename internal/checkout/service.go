package checkout

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/arduinodayph/adph-merch/internal/cart"
	"github.com/arduinodayph/adph-merch/pkg/db/models"
	"github.com/arduinodayph/adph-merch/pkg/enums"
	pkgerrors "github.com/arduinodayph/adph-merch/pkg/errors"
	"github.com/arduinodayph/adph-merch/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type cartStore interface {
	Load(ctx context.Context, cartID string) (cart.Cart, error)
	Delete(ctx context.Context, cartID string) error
}

type receiptUploader interface {
	Upload(ctx context.Context, object, contentType string, body io.Reader, size int64) error
	PublicURL(object string) string
}

type orderCreator interface {
	Create(ctx context.Context, order *models.Order) error
}

type statusNotifier interface {
	NotifyStatus(ctx context.Context, order *models.Order, status enums.OrderStatus) error
}

type submissionRecorder interface {
	IncSubmitted(fulfillment string)
}

// Service submits storefront orders.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error)
}

// ServiceParams groups the checkout dependencies. Metrics and NewObjectID are optional.
type ServiceParams struct {
	Carts           cartStore
	Receipts        receiptUploader
	Orders          orderCreator
	Notifier        statusNotifier
	Metrics         submissionRecorder
	Logger          *logger.Logger
	DeliveryFee     decimal.Decimal
	MaxReceiptBytes int64
	NewObjectID     func() string
}

type service struct {
	carts           cartStore
	receipts        receiptUploader
	orders          orderCreator
	notifier        statusNotifier
	metrics         submissionRecorder
	logg            *logger.Logger
	deliveryFee     decimal.Decimal
	maxReceiptBytes int64
	newObjectID     func() string
}

// NewService builds the checkout service.
func NewService(params ServiceParams) (Service, error) {
	if params.Carts == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if params.Receipts == nil {
		return nil, fmt.Errorf("receipt uploader required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("order creator required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("status notifier required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DeliveryFee.IsNegative() {
		return nil, fmt.Errorf("delivery fee must not be negative")
	}
	maxBytes := params.MaxReceiptBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxReceiptBytes
	}
	newObjectID := params.NewObjectID
	if newObjectID == nil {
		newObjectID = uuid.NewString
	}
	return &service{
		carts:           params.Carts,
		receipts:        params.Receipts,
		orders:          params.Orders,
		notifier:        params.Notifier,
		metrics:         params.Metrics,
		logg:            params.Logger,
		deliveryFee:     params.DeliveryFee,
		maxReceiptBytes: maxBytes,
		newObjectID:     newObjectID,
	}, nil
}

// SubmitInput carries one checkout attempt. When CartID is set the stored
// cart is used and cleared on success, otherwise Snapshot is decoded.
type SubmitInput struct {
	CartID   string
	Snapshot []byte
	Form     Form
	Receipt  *Receipt
}

// SubmitResult is returned on success. EmailError reports a failed
// confirmation email without failing the order.
type SubmitResult struct {
	OK         bool   `json:"ok"`
	OrderID    string `json:"orderId"`
	EmailError string `json:"emailError,omitempty"`
}

func (s *service) Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error) {
	c, err := s.resolveCart(ctx, input)
	if err != nil {
		return nil, err
	}
	form := input.Form.Normalize()
	if err := Validate(c, form, input.Receipt, s.maxReceiptBytes); err != nil {
		return nil, err
	}

	object := receiptObjectPrefix + s.newObjectID() + "." + ReceiptExtension(input.Receipt.Filename)
	if err := s.receipts.Upload(ctx, object, input.Receipt.ContentType, input.Receipt.Body, input.Receipt.Size); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, msgUploadFailed)
	}

	order := BuildOrder(c, form, s.receipts.PublicURL(object), s.deliveryFee)
	if err := s.orders.Create(ctx, order); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "receipt_object", object), "checkout.receipt_orphaned")
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, msgSubmitFailed)
	}

	ctx = s.logg.WithOrderID(ctx, order.ID.String())
	s.logg.Info(s.logg.WithField(ctx, "fulfillment", order.FulfillmentMethod.String()), "checkout.order_submitted")
	if s.metrics != nil {
		s.metrics.IncSubmitted(order.FulfillmentMethod.String())
	}

	if input.CartID != "" {
		if err := s.carts.Delete(ctx, input.CartID); err != nil {
			s.logg.Error(s.logg.WithCartID(ctx, input.CartID), "checkout.cart_clear_failed", err)
		}
	}

	result := &SubmitResult{OK: true, OrderID: order.ID.String()}
	if err := s.notifier.NotifyStatus(ctx, order, enums.OrderStatusPending); err != nil {
		result.EmailError = pkgerrors.PublicMessage(err)
	}
	return result, nil
}

func (s *service) resolveCart(ctx context.Context, input SubmitInput) (cart.Cart, error) {
	if input.CartID != "" {
		if err := cart.ValidateCartID(input.CartID); err != nil {
			return cart.Cart{}, err
		}
		return s.carts.Load(ctx, input.CartID)
	}
	c, err := cart.Decode(input.Snapshot)
	if errors.Is(err, cart.ErrCorruptSnapshot) {
		return cart.Cart{}, nil
	}
	return c, err
}

// BuildOrder freezes the cart into a pending order. Pickup orders store the
// venue sentinel instead of an address and carry no delivery fee.
func BuildOrder(c cart.Cart, form Form, receiptURL string, deliveryFee decimal.Decimal) *models.Order {
	lines := c.Purchasable()
	items := make([]models.OrderLineItem, 0, len(lines))
	subtotal := decimal.Zero
	totalGrams := 0
	for _, line := range lines {
		lineTotal := line.LineTotal()
		lineWeight := line.WeightGrams * line.Quantity
		items = append(items, models.OrderLineItem{
			ItemID:          line.ItemID,
			Name:            line.Name,
			Size:            line.Size,
			Quantity:        line.Quantity,
			Price:           line.Price,
			LineTotal:       lineTotal,
			WeightGrams:     line.WeightGrams,
			LineWeightGrams: lineWeight,
		})
		subtotal = subtotal.Add(lineTotal)
		totalGrams += lineWeight
	}

	fulfillment, _ := enums.ParseFulfillmentMethod(form.FulfillmentMethod)
	address := models.PickupAddress
	fee := decimal.Zero
	if fulfillment == enums.FulfillmentMethodDelivery {
		address = form.DeliveryAddress()
		fee = deliveryFee
	}
	weight, unit := models.TotalWeight(totalGrams)

	return &models.Order{
		FullName:          form.FullName,
		Email:             form.Email,
		Phone:             form.Phone,
		Address:           address,
		PaymentMethod:     enums.PaymentMethodGCash,
		FulfillmentMethod: fulfillment,
		GCashReference:    form.GCashReference,
		ReceiptURL:        receiptURL,
		Items:             items,
		DeliveryFee:       fee,
		TotalAmount:       subtotal.Add(fee),
		TotalWeight:       weight,
		WeightUnit:        unit,
		Status:            enums.OrderStatusPending,
	}
}
