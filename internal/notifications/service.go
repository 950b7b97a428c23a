package notifications

import (
	"context"
	"errors"
	"fmt"

	"github.com/arduinodayph/adph-merch/pkg/db/models"
	"github.com/arduinodayph/adph-merch/pkg/enums"
	pkgerrors "github.com/arduinodayph/adph-merch/pkg/errors"
	"github.com/arduinodayph/adph-merch/pkg/logger"
)

const (
	msgMissingCredentials = "Missing SMTP sender credentials."
	msgSendFailed         = "Unable to send status email."

	pickupReadyNote  = "Your items will be ready for pickup at the venue. Present your order reference at the merch booth."
	deliveryNoteSent = "Your parcel is on its way to the delivery address on file."
)

type notificationObserver interface {
	ObserveNotification(err error)
}

// Service sends order status emails.
type Service interface {
	NotifyStatus(ctx context.Context, order *models.Order, status enums.OrderStatus) error
}

// ServiceParams groups the notification dependencies. Metrics is optional.
type ServiceParams struct {
	Sender  Sender
	Logger  *logger.Logger
	Metrics notificationObserver
}

type service struct {
	sender  Sender
	logg    *logger.Logger
	metrics notificationObserver
}

// NewService wires the status notifier.
func NewService(params ServiceParams) (Service, error) {
	if params.Sender == nil {
		return nil, fmt.Errorf("notification sender required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{sender: params.Sender, logg: params.Logger, metrics: params.Metrics}, nil
}

// NotifyStatus composes and sends the status email. Failures come back as
// upstream errors whose message is safe to show to an operator.
func (s *service) NotifyStatus(ctx context.Context, order *models.Order, status enums.OrderStatus) error {
	if order == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "order required")
	}
	msg := Compose(order, status, ComposeOptions{FulfillmentNote: fulfillmentNote(order.FulfillmentMethod, status)})

	logCtx := s.logg.WithFields(s.logg.WithOrderID(ctx, order.ID.String()), map[string]any{
		"status": status.String(),
	})

	err := s.sender.Send(ctx, msg)
	if s.metrics != nil {
		s.metrics.ObserveNotification(err)
	}
	if err == nil {
		s.logg.Info(logCtx, "notification.sent")
		return nil
	}

	s.logg.Error(logCtx, "notification.failed", err)
	if errors.Is(err, ErrMissingCredentials) {
		return pkgerrors.Wrap(pkgerrors.CodeUpstream, err, msgMissingCredentials)
	}
	return pkgerrors.Wrap(pkgerrors.CodeUpstream, err, msgSendFailed)
}

func fulfillmentNote(method enums.FulfillmentMethod, status enums.OrderStatus) string {
	switch {
	case method == enums.FulfillmentMethodPickup &&
		(status == enums.OrderStatusConfirmed || status == enums.OrderStatusPacking):
		return pickupReadyNote
	case method == enums.FulfillmentMethodDelivery &&
		(status == enums.OrderStatusShipped || status == enums.OrderStatusInTransit):
		return deliveryNoteSent
	default:
		return ""
	}
}
