package notifications

import (
	_ "embed"
	"fmt"
	"html"
	"strings"

	"github.com/arduinodayph/adph-merch/pkg/db/models"
	"github.com/arduinodayph/adph-merch/pkg/enums"
)

//go:embed templates/order_status.html
var orderStatusTemplate string

const (
	introLine        = "We are delighted to confirm that your Arduino Day Official Merchandise order has been successfully placed."
	prepLine         = "Our team is currently preparing your items with the utmost care."
	noItems          = "No items"
	defaultRecipient = "Customer"
	itemSeparator    = " · "
)

// Message is a composed status email.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// ComposeOptions toggles the optional blocks of the status email.
type ComposeOptions struct {
	OmitStatusLine  bool
	FulfillmentNote string
}

// Compose renders the status email for order.
func Compose(order *models.Order, status enums.OrderStatus, opts ComposeOptions) Message {
	summary := ItemsSummary(order.Items)
	statusLabel := strings.ToUpper(status.String())

	lines := []string{
		introLine,
		"",
		prepLine,
		"",
		"Order Reference: " + order.ID.String(),
		"Items: " + summary,
	}
	if !opts.OmitStatusLine {
		lines = append(lines, "Status: "+statusLabel)
	}
	if opts.FulfillmentNote != "" {
		lines = append(lines, "", opts.FulfillmentNote)
	}

	recipient := strings.TrimSpace(order.FullName)
	if recipient == "" {
		recipient = defaultRecipient
	}

	statusBlock := ""
	if !opts.OmitStatusLine {
		statusBlock = renderStatusBlock(statusLabel)
	}
	noteBlock := ""
	if opts.FulfillmentNote != "" {
		noteBlock = renderFulfillmentBlock(opts.FulfillmentNote)
	}

	body := strings.NewReplacer(
		"{recipient}", html.EscapeString(recipient),
		"{order_id}", html.EscapeString(order.ID.String()),
		"{order_items}", html.EscapeString(summary),
		"{status_block}", statusBlock,
		"{fulfillment_note}", noteBlock,
	).Replace(orderStatusTemplate)

	return Message{
		To:      order.Email,
		Subject: fmt.Sprintf("Order %s status update", order.ID),
		Text:    strings.Join(lines, "\n"),
		HTML:    body,
	}
}

// ItemsSummary renders "Name (Size) xQty" entries, skipping incomplete lines.
func ItemsSummary(items []models.OrderLineItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		name := strings.TrimSpace(item.Name)
		size := strings.TrimSpace(item.Size)
		if name == "" || size == "" || item.Quantity <= 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s (%s) x%d", name, size, item.Quantity))
	}
	if len(parts) == 0 {
		return noItems
	}
	return strings.Join(parts, itemSeparator)
}

func renderStatusBlock(label string) string {
	return `<div style="margin-top: 14px; padding: 10px 12px; border-radius: 10px; background: #e6f4f2; border: 1px solid #c9e7e2">
  <span style="font-size: 12px; color: #285e5a; letter-spacing: 0.6px">STATUS</span>
  <div style="margin-top: 4px; font-size: 14px; font-weight: 700; color: #003333; letter-spacing: 1px">` + html.EscapeString(label) + `</div>
</div>`
}

func renderFulfillmentBlock(note string) string {
	return `<table width="100%" cellpadding="0" cellspacing="0" style="border-collapse: collapse; margin: 0 0 24px 0; border: 1px solid #e7eceb; border-radius: 12px; background: #fdf7ef">
  <tr>
    <td style="padding: 14px 16px; font-family: &quot;IBM Plex Sans&quot;, sans-serif; color: #6a4a1f; font-size: 14px; line-height: 1.7">` + html.EscapeString(note) + `</td>
  </tr>
</table>`
}
