package cart

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/arduinodayph/adph-merch/internal/catalog"
	pkgerrors "github.com/arduinodayph/adph-merch/pkg/errors"
	"github.com/arduinodayph/adph-merch/pkg/logger"
	"github.com/shopspring/decimal"
)

type itemLookup interface {
	FindActive(ctx context.Context, id string) (*catalog.Item, error)
}

type cartStore interface {
	Load(ctx context.Context, cartID string) (Cart, error)
	Save(ctx context.Context, cartID string, c Cart) error
	Delete(ctx context.Context, cartID string) error
}

// Service exposes the stored bag to the storefront.
type Service interface {
	Get(ctx context.Context, cartID string) (*View, error)
	AddLine(ctx context.Context, cartID string, input AddLineInput) (*AddLineResult, error)
	UpdateLine(ctx context.Context, cartID string, index int, input UpdateLineInput) (*View, error)
	RemoveLine(ctx context.Context, cartID string, index int) (*View, error)
	Clear(ctx context.Context, cartID string) error
}

// ServiceParams groups the cart service dependencies.
type ServiceParams struct {
	Store   cartStore
	Catalog itemLookup
	Logger  *logger.Logger
}

type service struct {
	store   cartStore
	catalog itemLookup
	logg    *logger.Logger
}

// NewService builds a cart service backed by the provided stack.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog lookup required")
	}
	return &service{
		store:   params.Store,
		catalog: params.Catalog,
		logg:    params.Logger,
	}, nil
}

// View is the cart as returned to clients.
type View struct {
	Lines    []Line          `json:"lines"`
	Count    int             `json:"count"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// NewView derives count and subtotal from the purchasable lines.
func NewView(c Cart) *View {
	visible := New(c.Purchasable())
	return &View{
		Lines:    visible.Lines(),
		Count:    visible.Count(),
		Subtotal: visible.Subtotal(),
	}
}

// Quantity accepts a JSON number or string and normalizes it like user input.
type Quantity int

// UnmarshalJSON implements json.Unmarshaler.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case float64:
		*q = Quantity(ParseQuantity(fmt.Sprintf("%v", v)))
	case string:
		*q = Quantity(ParseQuantity(v))
	default:
		*q = 0
	}
	return nil
}

// AddLineInput is the add-to-bag request.
type AddLineInput struct {
	ItemID   string
	Size     string
	Quantity int
}

// AddLineResult carries the updated bag plus the confirmation notice.
type AddLineResult struct {
	Cart    *View  `json:"cart"`
	Message string `json:"message"`
}

// UpdateLineInput holds the optional per-line edits. Step is applied after Quantity.
type UpdateLineInput struct {
	Quantity *int
	Step     *int
	Size     *string
}

func (s *service) Get(ctx context.Context, cartID string) (*View, error) {
	if err := ValidateCartID(cartID); err != nil {
		return nil, err
	}
	c, err := s.store.Load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	return NewView(c), nil
}

func (s *service) AddLine(ctx context.Context, cartID string, input AddLineInput) (*AddLineResult, error) {
	if err := ValidateCartID(cartID); err != nil {
		return nil, err
	}
	if input.ItemID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}

	found, err := s.catalog.FindActive(ctx, input.ItemID)
	if err != nil {
		return nil, err
	}
	item := Item{
		ID:          found.ID,
		Name:        found.Name,
		Image:       found.Image,
		Price:       found.Price,
		Sizes:       found.Sizes,
		WeightGrams: found.WeightGrams,
	}

	sel := NewSelection(item)
	if input.Size != "" {
		sel = sel.SelectSize(input.Size)
	}
	sel = sel.SetQuantity(input.Quantity)

	current, err := s.store.Load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	next, _, notice, err := current.AddLine(item, sel)
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, cartID, next); err != nil {
		return nil, err
	}

	if s.logg != nil {
		logCtx := s.logg.WithFields(s.logg.WithCartID(ctx, cartID), map[string]any{
			"item_id": item.ID,
			"size":    sel.Size,
		})
		s.logg.Info(logCtx, "cart.line_added")
	}
	return &AddLineResult{Cart: NewView(next), Message: notice}, nil
}

func (s *service) UpdateLine(ctx context.Context, cartID string, index int, input UpdateLineInput) (*View, error) {
	if err := ValidateCartID(cartID); err != nil {
		return nil, err
	}
	if input.Quantity == nil && input.Step == nil && input.Size == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity, step or size is required")
	}
	c, err := s.store.Load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if input.Size != nil {
		c = c.SelectLineSize(index, *input.Size)
	}
	if input.Quantity != nil {
		c = c.SetLineQuantity(index, *input.Quantity)
	}
	if input.Step != nil {
		c = c.AdjustLineQuantity(index, *input.Step)
	}
	if err := s.store.Save(ctx, cartID, c); err != nil {
		return nil, err
	}
	return NewView(c), nil
}

func (s *service) RemoveLine(ctx context.Context, cartID string, index int) (*View, error) {
	if err := ValidateCartID(cartID); err != nil {
		return nil, err
	}
	c, err := s.store.Load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	c = c.RemoveLine(index)
	if err := s.store.Save(ctx, cartID, c); err != nil {
		return nil, err
	}
	return NewView(c), nil
}

func (s *service) Clear(ctx context.Context, cartID string) error {
	if err := ValidateCartID(cartID); err != nil {
		return err
	}
	return s.store.Delete(ctx, cartID)
}
