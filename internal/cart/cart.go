package cart

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	pkgerrors "github.com/arduinodayph/adph-merch/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	msgSelectSize     = "Select a size first."
	msgSelectQuantity = "Set a quantity first."
)

// Item is the catalog view the cart needs to build a line.
type Item struct {
	ID          string
	Name        string
	Image       string
	Price       decimal.Decimal
	Sizes       []string
	WeightGrams int
}

// Line is a single (item, size) entry in the bag. It serializes in the
// snapshot shape, so a returned view can be posted back as a checkout cart.
type Line struct {
	ItemID      string
	Name        string
	Image       string
	Price       decimal.Decimal
	Size        string
	Quantity    int
	WeightGrams int
}

// LineTotal is unit price times quantity.
func (l Line) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Selection is the pending size/quantity choice for one catalog item.
type Selection struct {
	Size     string
	Quantity int
	sizes    []string
}

// NewSelection starts at quantity zero and preselects the size when the item has only one.
func NewSelection(item Item) Selection {
	sel := Selection{sizes: append([]string(nil), item.Sizes...)}
	if len(item.Sizes) == 1 {
		sel.Size = item.Sizes[0]
	}
	return sel
}

// SetQuantity clamps to zero and picks the first size once a positive quantity is chosen.
func (s Selection) SetQuantity(qty int) Selection {
	if qty < 0 {
		qty = 0
	}
	s.Quantity = qty
	if qty > 0 && s.Size == "" && len(s.sizes) > 0 {
		s.Size = s.sizes[0]
	}
	return s
}

// SelectSize assigns the size as given.
func (s Selection) SelectSize(size string) Selection {
	s.Size = size
	return s
}

// ParseQuantity normalizes raw user input; anything non-numeric is zero.
func ParseQuantity(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return clamp(n)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || f <= 0 {
		return 0
	}
	if f > float64(maxQuantity) {
		return maxQuantity
	}
	return clamp(int(f))
}

const maxQuantity = 1 << 20

func clamp(n int) int {
	if n < 0 {
		return 0
	}
	if n > maxQuantity {
		return maxQuantity
	}
	return n
}

// Cart is an immutable bag value; every mutation returns a new Cart.
type Cart struct {
	lines []Line
}

// New builds a cart from existing lines.
func New(lines []Line) Cart {
	return Cart{lines: append([]Line(nil), lines...)}
}

// Lines returns a copy of the cart lines.
func (c Cart) Lines() []Line {
	return append([]Line(nil), c.lines...)
}

// IsEmpty reports whether the bag has no lines.
func (c Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Count sums quantities across lines.
func (c Cart) Count() int {
	total := 0
	for _, line := range c.lines {
		total += line.Quantity
	}
	return total
}

// Subtotal sums unit price times quantity across lines.
func (c Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.LineTotal())
	}
	return total
}

// AddLine merges the selection into the bag, keyed by (item id, size).
// It returns the updated cart, the selection reset to zero and the confirmation notice.
func (c Cart) AddLine(item Item, sel Selection) (Cart, Selection, string, error) {
	if sel.Size == "" && len(item.Sizes) == 1 {
		sel.Size = item.Sizes[0]
	}
	if sel.Size == "" {
		return c, sel, "", pkgerrors.New(pkgerrors.CodeValidation, msgSelectSize)
	}
	if sel.Quantity <= 0 {
		return c, sel, "", pkgerrors.New(pkgerrors.CodeValidation, msgSelectQuantity)
	}

	lines := c.Lines()
	merged := false
	for i := range lines {
		if lines[i].ItemID == item.ID && lines[i].Size == sel.Size {
			lines[i].Quantity += sel.Quantity
			merged = true
			break
		}
	}
	if !merged {
		lines = append(lines, Line{
			ItemID:      item.ID,
			Name:        item.Name,
			Image:       item.Image,
			Price:       item.Price,
			Size:        sel.Size,
			Quantity:    sel.Quantity,
			WeightGrams: item.WeightGrams,
		})
	}

	return Cart{lines: lines}, sel.SetQuantity(0), fmt.Sprintf("%s added to bag", item.Name), nil
}

// RemoveLine drops the line at index; out-of-range is a no-op.
func (c Cart) RemoveLine(index int) Cart {
	if index < 0 || index >= len(c.lines) {
		return c
	}
	lines := make([]Line, 0, len(c.lines)-1)
	lines = append(lines, c.lines[:index]...)
	lines = append(lines, c.lines[index+1:]...)
	return Cart{lines: lines}
}

// Clear empties the bag.
func (c Cart) Clear() Cart {
	return Cart{}
}

// SetLineQuantity clamps to zero. A zero line stays until the cart is persisted.
func (c Cart) SetLineQuantity(index, qty int) Cart {
	if index < 0 || index >= len(c.lines) {
		return c
	}
	lines := c.Lines()
	lines[index].Quantity = clamp(qty)
	return Cart{lines: lines}
}

// AdjustLineQuantity applies a +/- step to one line, clamping at zero.
func (c Cart) AdjustLineQuantity(index, delta int) Cart {
	if index < 0 || index >= len(c.lines) {
		return c
	}
	current := c.lines[index].Quantity
	if delta > maxQuantity-current {
		return c.SetLineQuantity(index, maxQuantity)
	}
	return c.SetLineQuantity(index, current+delta)
}

// SelectLineSize reassigns a line's size without checking the item's size set.
func (c Cart) SelectLineSize(index int, size string) Cart {
	if index < 0 || index >= len(c.lines) {
		return c
	}
	lines := c.Lines()
	lines[index].Size = size
	return Cart{lines: lines}
}

// Purchasable returns the lines with a positive quantity.
func (c Cart) Purchasable() []Line {
	out := make([]Line, 0, len(c.lines))
	for _, line := range c.lines {
		if line.Quantity > 0 {
			out = append(out, line)
		}
	}
	return out
}
