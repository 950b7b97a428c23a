package orders

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

// ExportFilename is the attachment name used for CSV downloads.
const ExportFilename = "orders.csv"

var exportHeader = []string{
	"Order ID",
	"Customer",
	"Email",
	"Phone",
	"Address",
	"Items",
	"Item Count",
	"Delivery Fee",
	"Total",
	"GCash Ref",
	"Receipt URL",
	"Fulfillment",
	"Status",
	"Date",
}

// WriteCSV writes the header and one row per summary with RFC 4180 quoting.
func WriteCSV(w io.Writer, rows []Summary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, s := range rows {
		record := []string{
			s.ID.String(),
			s.FullName,
			s.Email,
			s.Phone,
			s.Address,
			s.ItemsSummary,
			strconv.Itoa(s.ItemCount),
			s.DeliveryFee.String(),
			s.TotalAmount.String(),
			s.GCashReference,
			s.ReceiptURL,
			s.FulfillmentMethod.String(),
			s.Status.String(),
			s.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
