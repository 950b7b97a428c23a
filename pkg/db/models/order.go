package models

import (
	"time"

	"github.com/arduinodayph/adph-merch/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PickupAddress is stored in place of a postal address for pickup orders.
const PickupAddress = "Pickup at venue"

const gramsPerKilogram = 1000

// OrderLineItem is a frozen snapshot of one cart line at submission time.
type OrderLineItem struct {
	ItemID          string          `json:"id"`
	Name            string          `json:"name"`
	Size            string          `json:"size"`
	Quantity        int             `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
	LineTotal       decimal.Decimal `json:"line_total"`
	WeightGrams     int             `json:"weight_grams,omitempty"`
	LineWeightGrams int             `json:"line_weight_grams,omitempty"`
}

// Order is a submitted storefront order awaiting manual payment review.
type Order struct {
	ID                uuid.UUID               `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	FullName          string                  `gorm:"column:full_name;not null" json:"full_name"`
	Email             string                  `gorm:"column:email;not null" json:"email"`
	Phone             string                  `gorm:"column:phone;not null" json:"phone"`
	Address           string                  `gorm:"column:address;not null" json:"address"`
	PaymentMethod     enums.PaymentMethod     `gorm:"column:payment_method;not null;default:'gcash'" json:"payment_method"`
	FulfillmentMethod enums.FulfillmentMethod `gorm:"column:fulfillment_method;not null" json:"fulfillment_method"`
	GCashReference    string                  `gorm:"column:gcash_reference;not null" json:"gcash_reference"`
	ReceiptURL        string                  `gorm:"column:receipt_url;not null" json:"receipt_url"`
	Items             []OrderLineItem         `gorm:"column:items;type:jsonb;serializer:json" json:"items"`
	DeliveryFee       decimal.Decimal         `gorm:"column:delivery_fee;type:numeric(12,2);not null;default:0" json:"delivery_fee"`
	TotalAmount       decimal.Decimal         `gorm:"column:total_amount;type:numeric(12,2);not null" json:"total_amount"`
	TotalWeight       decimal.Decimal         `gorm:"column:total_weight;type:numeric(12,3);not null;default:0" json:"total_weight"`
	WeightUnit        string                  `gorm:"column:weight_unit;not null;default:'g'" json:"weight_unit"`
	Status            enums.OrderStatus       `gorm:"column:status;not null;default:'pending'" json:"status"`
	CreatedAt         time.Time               `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time               `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Order) TableName() string { return "orders" }

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// ItemCount sums quantities across line items.
func (o Order) ItemCount() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// TotalWeight reports grams below one kilogram and kilograms from there on.
func TotalWeight(grams int) (decimal.Decimal, string) {
	if grams < gramsPerKilogram {
		return decimal.NewFromInt(int64(grams)), "g"
	}
	return decimal.NewFromInt(int64(grams)).Div(decimal.NewFromInt(gramsPerKilogram)), "kg"
}
