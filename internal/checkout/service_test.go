package checkout

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/arduinodayph/adph-merch/internal/cart"
	"github.com/arduinodayph/adph-merch/pkg/db/models"
	"github.com/arduinodayph/adph-merch/pkg/enums"
	pkgerrors "github.com/arduinodayph/adph-merch/pkg/errors"
	"github.com/arduinodayph/adph-merch/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type stubCarts struct {
	carts   map[string]cart.Cart
	deleted []string
}

func (s *stubCarts) Load(_ context.Context, cartID string) (cart.Cart, error) {
	return s.carts[cartID], nil
}

func (s *stubCarts) Delete(_ context.Context, cartID string) error {
	s.deleted = append(s.deleted, cartID)
	delete(s.carts, cartID)
	return nil
}

type stubUploader struct {
	err     error
	objects []string
	types   []string
}

func (u *stubUploader) Upload(_ context.Context, object, contentType string, body io.Reader, _ int64) error {
	if u.err != nil {
		return u.err
	}
	if _, err := io.ReadAll(body); err != nil {
		return err
	}
	u.objects = append(u.objects, object)
	u.types = append(u.types, contentType)
	return nil
}

func (u *stubUploader) PublicURL(object string) string {
	return "https://storage.example.com/receipts/" + object
}

type stubOrders struct {
	err     error
	created []*models.Order
}

func (o *stubOrders) Create(_ context.Context, order *models.Order) error {
	if o.err != nil {
		return o.err
	}
	order.ID = uuid.MustParse("11111111-2222-3333-4444-555555555555")
	o.created = append(o.created, order)
	return nil
}

type stubNotifier struct {
	err      error
	statuses []enums.OrderStatus
}

func (n *stubNotifier) NotifyStatus(_ context.Context, _ *models.Order, status enums.OrderStatus) error {
	n.statuses = append(n.statuses, status)
	return n.err
}

type stubRecorder struct {
	fulfillments []string
}

func (r *stubRecorder) IncSubmitted(fulfillment string) {
	r.fulfillments = append(r.fulfillments, fulfillment)
}

type checkoutFixture struct {
	svc      Service
	carts    *stubCarts
	uploader *stubUploader
	orders   *stubOrders
	notifier *stubNotifier
	recorder *stubRecorder
}

func newCheckoutFixture(t *testing.T, fee decimal.Decimal) *checkoutFixture {
	t.Helper()
	f := &checkoutFixture{
		carts:    &stubCarts{carts: map[string]cart.Cart{"cart-1": sampleCart(t)}},
		uploader: &stubUploader{},
		orders:   &stubOrders{},
		notifier: &stubNotifier{},
		recorder: &stubRecorder{},
	}
	svc, err := NewService(ServiceParams{
		Carts:       f.carts,
		Receipts:    f.uploader,
		Orders:      f.orders,
		Notifier:    f.notifier,
		Metrics:     f.recorder,
		Logger:      logger.New(logger.Options{ServiceName: "checkout-test", Output: io.Discard}),
		DeliveryFee: fee,
		NewObjectID: func() string { return "fixed-id" },
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	f.svc = svc
	return f
}

func validInput() SubmitInput {
	return SubmitInput{
		CartID:  "cart-1",
		Form:    validForm(),
		Receipt: &Receipt{Filename: "receipt.PNG", ContentType: "image/png", Size: 4, Body: bytes.NewReader([]byte("data"))},
	}
}

func TestSubmitDeliveryOrder(t *testing.T) {
	f := newCheckoutFixture(t, decimal.NewFromInt(50))

	res, err := f.svc.Submit(context.Background(), validInput())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !res.OK || res.OrderID != "11111111-2222-3333-4444-555555555555" || res.EmailError != "" {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(f.uploader.objects) != 1 || f.uploader.objects[0] != "gcash/fixed-id.png" {
		t.Fatalf("unexpected upload objects %v", f.uploader.objects)
	}

	order := f.orders.created[0]
	if order.Status != enums.OrderStatusPending || order.PaymentMethod != enums.PaymentMethodGCash {
		t.Fatalf("unexpected order status/payment %s/%s", order.Status, order.PaymentMethod)
	}
	if order.ReceiptURL != "https://storage.example.com/receipts/gcash/fixed-id.png" {
		t.Fatalf("unexpected receipt url %q", order.ReceiptURL)
	}
	if !order.TotalAmount.Equal(decimal.NewFromInt(1050)) || !order.DeliveryFee.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected total 1050 with fee 50, got %s / %s", order.TotalAmount, order.DeliveryFee)
	}
	if len(order.Items) != 1 || !order.Items[0].LineTotal.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("unexpected items %+v", order.Items)
	}
	if order.Address != "123 Main, St" {
		t.Fatalf("unexpected address %q", order.Address)
	}
	if order.WeightUnit != "g" || !order.TotalWeight.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("unexpected weight %s %s", order.TotalWeight, order.WeightUnit)
	}
	if len(f.carts.deleted) != 1 || f.carts.deleted[0] != "cart-1" {
		t.Fatalf("expected stored cart cleared, got %v", f.carts.deleted)
	}
	if len(f.notifier.statuses) != 1 || f.notifier.statuses[0] != enums.OrderStatusPending {
		t.Fatalf("expected pending notification, got %v", f.notifier.statuses)
	}
	if len(f.recorder.fulfillments) != 1 || f.recorder.fulfillments[0] != "delivery" {
		t.Fatalf("expected submission metric, got %v", f.recorder.fulfillments)
	}
}

func TestSubmitPickupUsesSentinelAndNoFee(t *testing.T) {
	f := newCheckoutFixture(t, decimal.NewFromInt(50))
	input := validInput()
	input.Form.FulfillmentMethod = "pickup"
	input.Form.Address = ""

	if _, err := f.svc.Submit(context.Background(), input); err != nil {
		t.Fatalf("submit: %v", err)
	}
	order := f.orders.created[0]
	if order.Address != models.PickupAddress {
		t.Fatalf("expected pickup sentinel, got %q", order.Address)
	}
	if !order.DeliveryFee.IsZero() || !order.TotalAmount.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("expected no fee, got %s / %s", order.DeliveryFee, order.TotalAmount)
	}
}

func TestSubmitFromSnapshot(t *testing.T) {
	f := newCheckoutFixture(t, decimal.Zero)
	payload, err := cart.Encode(sampleCart(t))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	input := validInput()
	input.CartID = ""
	input.Snapshot = payload

	if _, err := f.svc.Submit(context.Background(), input); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(f.carts.deleted) != 0 {
		t.Fatalf("expected no stored cart deletion for snapshots")
	}
}

func TestSubmitCorruptSnapshotIsEmptyCart(t *testing.T) {
	f := newCheckoutFixture(t, decimal.Zero)
	input := validInput()
	input.CartID = ""
	input.Snapshot = []byte("{broken")

	_, err := f.svc.Submit(context.Background(), input)
	expectMessage(t, err, "Add items to your bag before submitting.")
}

func TestSubmitRejectsNonImageWithoutUpload(t *testing.T) {
	f := newCheckoutFixture(t, decimal.Zero)
	input := validInput()
	input.Receipt.ContentType = "application/pdf"

	_, err := f.svc.Submit(context.Background(), input)
	expectMessage(t, err, "Receipt must be an image file.")
	if len(f.uploader.objects) != 0 {
		t.Fatalf("expected no upload")
	}
}

func TestSubmitUploadFailurePreservesCart(t *testing.T) {
	f := newCheckoutFixture(t, decimal.Zero)
	f.uploader.err = errors.New("503 from storage")

	_, err := f.svc.Submit(context.Background(), validInput())
	if got := pkgerrors.PublicMessage(err); got != "Unable to upload receipt. Please try again." {
		t.Fatalf("unexpected message %q", got)
	}
	if len(f.orders.created) != 0 || len(f.carts.deleted) != 0 {
		t.Fatalf("expected no order and cart preserved")
	}
}

func TestSubmitInsertFailurePreservesCart(t *testing.T) {
	f := newCheckoutFixture(t, decimal.Zero)
	f.orders.err = errors.New("insert failed")

	_, err := f.svc.Submit(context.Background(), validInput())
	if got := pkgerrors.PublicMessage(err); got != "Unable to submit order. Please try again." {
		t.Fatalf("unexpected message %q", got)
	}
	if len(f.carts.deleted) != 0 || len(f.notifier.statuses) != 0 {
		t.Fatalf("expected cart preserved and no email")
	}
}

func TestSubmitEmailFailureIsSoft(t *testing.T) {
	f := newCheckoutFixture(t, decimal.Zero)
	f.notifier.err = pkgerrors.New(pkgerrors.CodeUpstream, "Missing SMTP sender credentials.")

	res, err := f.svc.Submit(context.Background(), validInput())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !res.OK || res.EmailError != "Missing SMTP sender credentials." {
		t.Fatalf("unexpected result %+v", res)
	}
}
