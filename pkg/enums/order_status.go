package enums

import (
	"fmt"
	"strings"
)

// OrderStatus tracks an order through review and fulfillment.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPacking   OrderStatus = "packing"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusInTransit OrderStatus = "intransit"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusPaid,
	OrderStatusConfirmed,
	OrderStatusPacking,
	OrderStatusShipped,
	OrderStatusInTransit,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderStatus.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are expected.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validOrderStatuses {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}

// OrderStatusSet is the subset of statuses a deployment accepts.
type OrderStatusSet struct {
	name     string
	statuses []OrderStatus
}

var (
	ExtendedStatusSet = OrderStatusSet{name: "extended", statuses: validOrderStatuses}
	BasicStatusSet    = OrderStatusSet{name: "basic", statuses: []OrderStatus{OrderStatusPending, OrderStatusPaid}}
)

// ParseOrderStatusSet resolves a configured set name.
func ParseOrderStatusSet(value string) (OrderStatusSet, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", ExtendedStatusSet.name:
		return ExtendedStatusSet, nil
	case BasicStatusSet.name:
		return BasicStatusSet, nil
	}
	return OrderStatusSet{}, fmt.Errorf("invalid order status set %q", value)
}

func (s OrderStatusSet) Name() string {
	return s.name
}

// Statuses returns a copy of the statuses in display order.
func (s OrderStatusSet) Statuses() []OrderStatus {
	out := make([]OrderStatus, len(s.statuses))
	copy(out, s.statuses)
	return out
}

func (s OrderStatusSet) Contains(status OrderStatus) bool {
	for _, candidate := range s.statuses {
		if candidate == status {
			return true
		}
	}
	return false
}

var strictTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusPaid, OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusPaid:      {OrderStatusConfirmed, OrderStatusPacking, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusPacking, OrderStatusCancelled},
	OrderStatusPacking:   {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusInTransit, OrderStatusDelivered},
	OrderStatusInTransit: {OrderStatusDelivered},
}

// CanTransition reports whether from -> to is part of the forward-only lifecycle.
// Staying on the same status is always allowed.
func CanTransition(from, to OrderStatus) bool {
	if from == to {
		return true
	}
	if from.IsTerminal() {
		return false
	}
	for _, next := range strictTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
