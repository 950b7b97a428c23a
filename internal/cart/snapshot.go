package cart

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"
)

// StorageKey is the fixed key a cart snapshot is persisted under.
const StorageKey = "adph-cart-items"

// ErrCorruptSnapshot marks a payload that is not a JSON array of lines.
var ErrCorruptSnapshot = errors.New("cart snapshot is corrupt")

type snapshotLine struct {
	ItemID      string      `json:"itemId"`
	Name        string      `json:"name"`
	Image       string      `json:"image,omitempty"`
	Price       json.Number `json:"price"`
	Size        string      `json:"size"`
	Quantity    int         `json:"quantity"`
	WeightGrams int         `json:"weightGrams,omitempty"`
}

// Encode serializes the purchasable lines. Zero-quantity lines are not written.
func Encode(c Cart) ([]byte, error) {
	lines := c.Purchasable()
	out := make([]snapshotLine, 0, len(lines))
	for _, line := range lines {
		out = append(out, toSnapshotLine(line))
	}
	return json.Marshal(out)
}

// MarshalJSON implements json.Marshaler.
func (l Line) MarshalJSON() ([]byte, error) {
	return json.Marshal(toSnapshotLine(l))
}

func toSnapshotLine(line Line) snapshotLine {
	return snapshotLine{
		ItemID:      line.ItemID,
		Name:        line.Name,
		Image:       line.Image,
		Price:       json.Number(line.Price.String()),
		Size:        line.Size,
		Quantity:    line.Quantity,
		WeightGrams: line.WeightGrams,
	}
}

// Decode parses a snapshot, dropping entries that fail the shape check.
func Decode(data []byte) (Cart, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Cart{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw []any
	if err := dec.Decode(&raw); err != nil {
		return Cart{}, ErrCorruptSnapshot
	}

	lines := make([]Line, 0, len(raw))
	for _, entry := range raw {
		fields, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if line, ok := decodeLine(fields); ok {
			lines = append(lines, line)
		}
	}
	return Cart{lines: lines}, nil
}

func decodeLine(entry map[string]any) (Line, bool) {
	if entry == nil {
		return Line{}, false
	}
	itemID, ok := entry["itemId"].(string)
	if !ok {
		return Line{}, false
	}
	name, ok := entry["name"].(string)
	if !ok {
		return Line{}, false
	}
	size, ok := entry["size"].(string)
	if !ok {
		return Line{}, false
	}
	var image string
	if v, present := entry["image"]; present && v != nil {
		s, isString := v.(string)
		if !isString {
			return Line{}, false
		}
		image = s
	}

	price, ok := numberField(entry["price"])
	if !ok || price.IsNegative() {
		return Line{}, false
	}
	qty, ok := numberField(entry["quantity"])
	if !ok || !qty.IsInteger() || !qty.IsPositive() {
		return Line{}, false
	}

	line := Line{
		ItemID:   itemID,
		Name:     name,
		Image:    image,
		Price:    price,
		Size:     size,
		Quantity: clamp(int(qty.IntPart())),
	}
	if w, ok := numberField(entry["weightGrams"]); ok && w.IsPositive() {
		line.WeightGrams = int(w.IntPart())
	}
	return line, true
}

func numberField(v any) (decimal.Decimal, bool) {
	num, ok := v.(json.Number)
	if !ok {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(num.String())
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
