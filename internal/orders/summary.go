package orders

import (
	"strings"
	"time"

	"github.com/arduinodayph/adph-merch/internal/notifications"
	"github.com/arduinodayph/adph-merch/pkg/db/models"
	"github.com/arduinodayph/adph-merch/pkg/enums"
	"github.com/shopspring/decimal"
)

// Summary is an order as shown on the admin dashboard.
type Summary struct {
	models.Order
	ItemsSummary string          `json:"items_summary"`
	ItemCount    int             `json:"item_count"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

// Summarize derives the dashboard fields. Incomplete lines are ignored.
func Summarize(order models.Order) Summary {
	count := 0
	subtotal := decimal.Zero
	for _, item := range order.Items {
		if strings.TrimSpace(item.Name) == "" || strings.TrimSpace(item.Size) == "" || item.Quantity <= 0 {
			continue
		}
		count += item.Quantity
		subtotal = subtotal.Add(item.LineTotal)
	}
	return Summary{
		Order:        order,
		ItemsSummary: notifications.ItemsSummary(order.Items),
		ItemCount:    count,
		Subtotal:     subtotal,
	}
}

// Filter narrows the dashboard list. Zero value matches everything.
type Filter struct {
	Query  string
	Status string
}

// Matches applies the case-insensitive query over id, name, email and items
// summary, plus an exact status match unless Status is blank or "all".
func (f Filter) Matches(s Summary) bool {
	status := strings.ToLower(strings.TrimSpace(f.Status))
	if status != "" && status != "all" && s.Status.String() != status {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	for _, field := range []string{s.ID.String(), s.FullName, s.Email, s.ItemsSummary} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// Apply returns the summaries matching f, preserving order.
func (f Filter) Apply(in []Summary) []Summary {
	out := make([]Summary, 0, len(in))
	for _, s := range in {
		if f.Matches(s) {
			out = append(out, s)
		}
	}
	return out
}

// Stats are the dashboard counters.
type Stats struct {
	TotalOrders int       `json:"total"`
	TotalItems  int       `json:"items"`
	Pending     int       `json:"pending"`
	Confirmed   int       `json:"confirmed"`
	GeneratedAt time.Time `json:"generated_at"`
}

// ComputeStats counts over the full, unfiltered list.
func ComputeStats(in []Summary, now time.Time) Stats {
	stats := Stats{TotalOrders: len(in), GeneratedAt: now.UTC()}
	for _, s := range in {
		stats.TotalItems += s.ItemCount
		switch s.Status {
		case enums.OrderStatusPending:
			stats.Pending++
		case enums.OrderStatusConfirmed:
			stats.Confirmed++
		}
	}
	return stats
}
