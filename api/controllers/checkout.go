package controllers

import (
	"errors"
	"net/http"

	"github.com/arduinodayph/adph-merch/api/responses"
	"github.com/arduinodayph/adph-merch/api/validators"
	"github.com/arduinodayph/adph-merch/internal/checkout"
	"github.com/arduinodayph/adph-merch/pkg/logger"
)

// formOverheadBytes covers the text fields and multipart framing around the receipt.
const formOverheadBytes int64 = 1 << 20

// CheckoutBodyLimit is the largest checkout request accepted for a given receipt cap.
func CheckoutBodyLimit(maxReceiptBytes int64) int64 {
	return maxReceiptBytes + formOverheadBytes
}

const receiptField = "gcashReceipt"

// CheckoutSubmit accepts the multipart order form with its GCash receipt.
func CheckoutSubmit(svc checkout.Service, maxReceiptBytes int64, logg *logger.Logger) http.HandlerFunc {
	if maxReceiptBytes <= 0 {
		maxReceiptBytes = checkout.DefaultMaxReceiptBytes
	}
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, CheckoutBodyLimit(maxReceiptBytes))
		if err := validators.ParseMultipart(r); err != nil {
			// An over-cap body is reported as an oversized receipt before any form
			// check runs, even when the cart is empty; the form is never fully read.
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				err = checkout.ReceiptTooLarge()
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer func() {
			_ = r.MultipartForm.RemoveAll()
		}()

		upload, err := validators.OpenFormFile(r, receiptField)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var receipt *checkout.Receipt
		if upload != nil {
			defer upload.File.Close()
			receipt = &checkout.Receipt{
				Filename:    upload.Filename,
				ContentType: upload.ContentType,
				Size:        upload.Size,
				Body:        upload.File,
			}
		}

		input := checkout.SubmitInput{
			CartID:   validators.FormValue(r, "cartId"),
			Snapshot: []byte(validators.FormValue(r, "cart")),
			Form:     formFromRequest(r),
			Receipt:  receipt,
		}

		result, err := svc.Submit(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

func formFromRequest(r *http.Request) checkout.Form {
	return checkout.Form{
		FullName: validators.FormValue(r, "fullName"),
		Email:    validators.FormValue(r, "email"),
		Phone:    validators.FormValue(r, "contactNumber"),
		Address:  validators.FormValue(r, "address"),
		AddressParts: checkout.Address{
			Line1:      validators.FormValue(r, "addressLine1"),
			Line2:      validators.FormValue(r, "addressLine2"),
			City:       validators.FormValue(r, "city"),
			Province:   validators.FormValue(r, "province"),
			PostalCode: validators.FormValue(r, "postalCode"),
		},
		PaymentMethod:     validators.FormValue(r, "paymentMethod"),
		FulfillmentMethod: validators.FormValue(r, "fulfillmentMethod"),
		GCashReference:    validators.FormValue(r, "gcashReference"),
	}
}
