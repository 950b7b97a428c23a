package checkout

import (
	"io"
	"strings"

	"github.com/arduinodayph/adph-merch/internal/cart"
	"github.com/arduinodayph/adph-merch/pkg/enums"
	pkgerrors "github.com/arduinodayph/adph-merch/pkg/errors"
)

// DefaultMaxReceiptBytes is the inclusive receipt size limit.
const DefaultMaxReceiptBytes int64 = 5 * 1024 * 1024

const (
	msgEmptyCart          = "Add items to your bag before submitting."
	msgIncompleteFields   = "Please complete all fields."
	msgSelectGCash        = "Select GCash as your payment method."
	msgSelectFulfillment  = "Select pickup or delivery."
	msgMissingReference   = "Enter your GCash reference number."
	msgMissingReceipt     = "Upload your GCash receipt."
	msgReceiptNotImage    = "Receipt must be an image file."
	msgReceiptTooLarge    = "Receipt image must be under 5MB."
	msgUploadFailed       = "Unable to upload receipt. Please try again."
	msgSubmitFailed       = "Unable to submit order. Please try again."
	defaultReceiptExt     = "jpg"
	receiptObjectPrefix   = "gcash/"
	maxReceiptExtensionSz = 10
)

// Address is the structured delivery address.
type Address struct {
	Line1      string
	Line2      string
	City       string
	Province   string
	PostalCode string
}

// IsComplete reports whether the required parts are present.
func (a Address) IsComplete() bool {
	return a.Line1 != "" && a.City != "" && a.Province != "" && a.PostalCode != ""
}

// Format joins the parts into a single mailing line.
func (a Address) Format() string {
	parts := make([]string, 0, 4)
	for _, part := range []string{a.Line1, a.Line2, a.City} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	tail := strings.TrimSpace(a.Province + " " + a.PostalCode)
	if tail != "" {
		parts = append(parts, tail)
	}
	return strings.Join(parts, ", ")
}

// Form is the customer-entered checkout data.
type Form struct {
	FullName          string
	Email             string
	Phone             string
	Address           string
	AddressParts      Address
	PaymentMethod     string
	FulfillmentMethod string
	GCashReference    string
}

// Normalize trims every field and applies the gcash/pickup defaults for blank choices.
func (f Form) Normalize() Form {
	f.FullName = strings.TrimSpace(f.FullName)
	f.Email = strings.TrimSpace(f.Email)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Address = strings.TrimSpace(f.Address)
	f.AddressParts = Address{
		Line1:      strings.TrimSpace(f.AddressParts.Line1),
		Line2:      strings.TrimSpace(f.AddressParts.Line2),
		City:       strings.TrimSpace(f.AddressParts.City),
		Province:   strings.TrimSpace(f.AddressParts.Province),
		PostalCode: strings.TrimSpace(f.AddressParts.PostalCode),
	}
	f.PaymentMethod = strings.ToLower(strings.TrimSpace(f.PaymentMethod))
	if f.PaymentMethod == "" {
		f.PaymentMethod = enums.PaymentMethodGCash.String()
	}
	f.FulfillmentMethod = strings.ToLower(strings.TrimSpace(f.FulfillmentMethod))
	if f.FulfillmentMethod == "" {
		f.FulfillmentMethod = enums.FulfillmentMethodPickup.String()
	}
	f.GCashReference = strings.TrimSpace(f.GCashReference)
	return f
}

// DeliveryAddress prefers the structured parts when they are complete.
func (f Form) DeliveryAddress() string {
	if f.AddressParts.IsComplete() {
		return f.AddressParts.Format()
	}
	return f.Address
}

// Receipt is the uploaded payment screenshot.
type Receipt struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Validate runs the checkout checks in order and returns the first failure.
// It never touches the network.
func Validate(c cart.Cart, form Form, receipt *Receipt, maxBytes int64) error {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxReceiptBytes
	}
	form = form.Normalize()

	if len(c.Purchasable()) == 0 {
		return invalid(msgEmptyCart)
	}
	if form.FullName == "" || form.Email == "" || form.Phone == "" {
		return invalid(msgIncompleteFields)
	}
	if form.FulfillmentMethod == enums.FulfillmentMethodDelivery.String() && form.DeliveryAddress() == "" {
		return invalid(msgIncompleteFields)
	}
	if method, err := enums.ParsePaymentMethod(form.PaymentMethod); err != nil || method != enums.PaymentMethodGCash {
		return invalid(msgSelectGCash)
	}
	if _, err := enums.ParseFulfillmentMethod(form.FulfillmentMethod); err != nil {
		return invalid(msgSelectFulfillment)
	}
	if form.GCashReference == "" {
		return invalid(msgMissingReference)
	}
	if receipt == nil || receipt.Size <= 0 || receipt.Body == nil {
		return invalid(msgMissingReceipt)
	}
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(receipt.ContentType)), "image/") {
		return invalid(msgReceiptNotImage)
	}
	if receipt.Size > maxBytes {
		return invalid(msgReceiptTooLarge)
	}
	return nil
}

func invalid(msg string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, msg)
}

// ReceiptTooLarge is the validation error for an upload past the size limit.
func ReceiptTooLarge() error {
	return invalid(msgReceiptTooLarge)
}

// ReceiptExtension derives the object extension from the filename.
func ReceiptExtension(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 || idx == len(filename)-1 {
		return defaultReceiptExt
	}
	ext := strings.ToLower(filename[idx+1:])
	if len(ext) > maxReceiptExtensionSz {
		return defaultReceiptExt
	}
	for _, r := range ext {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return defaultReceiptExt
		}
	}
	return ext
}
