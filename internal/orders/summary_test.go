package orders

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/arduinodayph/adph-merch/pkg/db/models"
	"github.com/arduinodayph/adph-merch/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func summaryFixture(name, email string, status enums.OrderStatus, items ...models.OrderLineItem) Summary {
	return Summarize(models.Order{
		ID:                uuid.New(),
		FullName:          name,
		Email:             email,
		Phone:             "0917",
		Address:           "123 Main, St",
		FulfillmentMethod: enums.FulfillmentMethodDelivery,
		Items:             items,
		DeliveryFee:       decimal.NewFromInt(50),
		TotalAmount:       decimal.NewFromInt(1050),
		Status:            status,
		CreatedAt:         time.Date(2026, 3, 21, 9, 30, 0, 0, time.UTC),
	})
}

func shirtLine(qty int) models.OrderLineItem {
	return models.OrderLineItem{Name: "Shirt", Size: "M", Quantity: qty, Price: decimal.NewFromInt(500), LineTotal: decimal.NewFromInt(int64(500 * qty))}
}

func TestSummarizeSkipsIncompleteLines(t *testing.T) {
	s := summaryFixture("Ada", "ada@example.com", enums.OrderStatusPending,
		shirtLine(2),
		models.OrderLineItem{Name: "", Size: "L", Quantity: 4, LineTotal: decimal.NewFromInt(99)},
	)
	if s.ItemCount != 2 || !s.Subtotal.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("unexpected derived fields %d / %s", s.ItemCount, s.Subtotal)
	}
	if s.ItemsSummary != "Shirt (M) x2" {
		t.Fatalf("unexpected summary %q", s.ItemsSummary)
	}
}

func TestFilterMatches(t *testing.T) {
	rows := []Summary{
		summaryFixture("Ada", "ada@example.com", enums.OrderStatusPending, shirtLine(1)),
		summaryFixture("Grace", "grace@example.com", enums.OrderStatusConfirmed),
	}

	if got := (Filter{}).Apply(rows); len(got) != 2 {
		t.Fatalf("expected empty filter to match all, got %d", len(got))
	}
	if got := (Filter{Query: "GRACE"}).Apply(rows); len(got) != 1 || got[0].FullName != "Grace" {
		t.Fatalf("expected case-insensitive name match, got %+v", got)
	}
	if got := (Filter{Query: "shirt (m)"}).Apply(rows); len(got) != 1 || got[0].FullName != "Ada" {
		t.Fatalf("expected items summary match, got %+v", got)
	}
	if got := (Filter{Query: rows[1].ID.String()[:8]}).Apply(rows); len(got) != 1 {
		t.Fatalf("expected id prefix match, got %d", len(got))
	}
	if got := (Filter{Status: "confirmed"}).Apply(rows); len(got) != 1 || got[0].FullName != "Grace" {
		t.Fatalf("expected status match, got %+v", got)
	}
	if got := (Filter{Status: "all", Query: "example.com"}).Apply(rows); len(got) != 2 {
		t.Fatalf("expected all status to match both, got %d", len(got))
	}
}

func TestComputeStats(t *testing.T) {
	rows := []Summary{
		summaryFixture("A", "a@example.com", enums.OrderStatusPending, shirtLine(2)),
		summaryFixture("B", "b@example.com", enums.OrderStatusPending, shirtLine(1)),
		summaryFixture("C", "c@example.com", enums.OrderStatusConfirmed, shirtLine(3)),
		summaryFixture("D", "d@example.com", enums.OrderStatusDelivered),
	}
	now := time.Date(2026, 3, 22, 0, 0, 0, 0, time.UTC)
	stats := ComputeStats(rows, now)
	if stats.TotalOrders != 4 || stats.TotalItems != 6 || stats.Pending != 2 || stats.Confirmed != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if !stats.GeneratedAt.Equal(now) {
		t.Fatalf("unexpected generated at %s", stats.GeneratedAt)
	}
}

func TestWriteCSVQuotesFields(t *testing.T) {
	rows := []Summary{
		summaryFixture("Ada", "ada@example.com", enums.OrderStatusPending, shirtLine(2)),
		summaryFixture("Grace \"Amazing\" Hopper", "grace@example.com", enums.OrderStatusPaid),
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	raw := buf.String()
	if !strings.Contains(raw, `"123 Main, St"`) {
		t.Fatalf("expected address to be quoted:\n%s", raw)
	}
	if !strings.Contains(raw, `"Grace ""Amazing"" Hopper"`) {
		t.Fatalf("expected embedded quotes doubled:\n%s", raw)
	}

	records, err := csv.NewReader(strings.NewReader(raw)).ReadAll()
	if err != nil {
		t.Fatalf("read csv back: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus two rows, got %d", len(records))
	}
	if strings.Join(records[0], "|") != strings.Join(exportHeader, "|") {
		t.Fatalf("unexpected header %v", records[0])
	}
	first := records[1]
	if first[4] != "123 Main, St" || first[5] != "Shirt (M) x2" || first[6] != "2" || first[7] != "50" || first[8] != "1050" {
		t.Fatalf("unexpected row %v", first)
	}
	if first[13] != "2026-03-21T09:30:00Z" {
		t.Fatalf("unexpected date %q", first[13])
	}
	if records[2][5] != "No items" {
		t.Fatalf("expected No items summary, got %q", records[2][5])
	}
}
