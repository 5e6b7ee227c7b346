package payments

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/RedNight114/TenerifeParadiseTourApp-sub008/internal/modules/redsys"
	"github.com/RedNight114/TenerifeParadiseTourApp-sub008/internal/modules/reservations"
)

const testSecret = "sq7HjrUOBfKmC576ILgskD5srU870gJ7"

type fakeReservations struct {
	byID map[string]reservations.Reservation
}

func (f *fakeReservations) Payable(_ context.Context, id string) (reservations.Reservation, error) {
	res, ok := f.byID[id]
	if !ok {
		return reservations.Reservation{}, reservations.ErrNotFound
	}
	if res.Status != reservations.StatusConfirmed {
		return reservations.Reservation{}, reservations.ErrNotPayable
	}
	return res, nil
}

func testReservation(id string) reservations.Reservation {
	return reservations.Reservation{
		ID:          id,
		TourName:    "Teide Sunset",
		AmountCents: 18000,
		Currency:    "EUR",
		Status:      reservations.StatusConfirmed,
	}
}

func newTestService(store Store, res ...reservations.Reservation) *Service {
	src := &fakeReservations{byID: map[string]reservations.Reservation{}}
	for _, r := range res {
		src.byID[r.ID] = r
	}
	builder := redsys.Builder{MerchantCode: "367529286", Terminal: "1", MaxAmountCents: 1_000_000}
	return NewService(store, src, redsys.NewSigner(testSecret), builder,
		"https://sis-t.redsys.es:25443/sis/realizarPago", slog.Default())
}

func redirectInput(id string) CreateRedirectInput {
	return CreateRedirectInput{
		ReservationID: id,
		OKURL:         "https://example.com/pay/ok",
		KOURL:         "https://example.com/pay/ko",
		NotifyURL:     "https://example.com/webhooks/redsys",
	}
}

func TestCreateAuthorizationRedirect(t *testing.T) {
	store := NewMemStore()
	svc := newTestService(store, testReservation("res-1111-aaaa"))

	out, err := svc.CreateAuthorizationRedirect(context.Background(), redirectInput("res-1111-aaaa"))
	if err != nil {
		t.Fatalf("create redirect: %v", err)
	}
	if !redsys.ValidOrderCode(out.OrderCode) {
		t.Fatalf("order code %q invalid", out.OrderCode)
	}
	if out.Request.SignatureVersion != redsys.SignatureVersion {
		t.Fatalf("signature version got %s", out.Request.SignatureVersion)
	}
	if out.Request.MerchantParameters == "" || out.Request.Signature == "" {
		t.Fatalf("incomplete signed request: %+v", out.Request)
	}

	tx, err := store.Get(context.Background(), out.OrderCode)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if tx.State != StatePending {
		t.Fatalf("state got %s want pending", tx.State)
	}
	if tx.AmountCents != 18000 || tx.Currency != "EUR" {
		t.Fatalf("transaction amount: %+v", tx)
	}
}

func TestCreateAuthorizationRedirect_NotPayable(t *testing.T) {
	res := testReservation("res-2222-bbbb")
	res.Status = reservations.StatusPending
	svc := newTestService(NewMemStore(), res)

	_, err := svc.CreateAuthorizationRedirect(context.Background(), redirectInput("res-2222-bbbb"))
	if !errors.Is(err, reservations.ErrNotPayable) {
		t.Fatalf("got %v want ErrNotPayable", err)
	}
}

func TestCreateAuthorizationRedirect_ValidationOpensNothing(t *testing.T) {
	store := NewMemStore()
	res := testReservation("res-3333-cccc")
	res.Currency = "XAU" // tabloda yok
	svc := newTestService(store, res)

	_, err := svc.CreateAuthorizationRedirect(context.Background(), redirectInput("res-3333-cccc"))
	if !errors.Is(err, redsys.ErrUnsupportedCurrency) {
		t.Fatalf("got %v want ErrUnsupportedCurrency", err)
	}

	// validasyon hatası pending transaction bırakmamalı
	code, _ := redsys.EncodeOrderCode("res-3333-cccc", 0)
	if _, err := store.Get(context.Background(), code); !errors.Is(err, ErrTransactionNotFound) {
		t.Fatalf("unexpected transaction after failed validation: %v", err)
	}
}

func TestCreateAuthorizationRedirect_CollisionBumpsAttempt(t *testing.T) {
	store := NewMemStore()
	svc := newTestService(store, testReservation("res-4444-dddd"))

	first, err := svc.CreateAuthorizationRedirect(context.Background(), redirectInput("res-4444-dddd"))
	if err != nil {
		t.Fatalf("first redirect: %v", err)
	}

	// aynı attempt ile ikinci istek: aktif kod çakışır, attempt otomatik artar
	second, err := svc.CreateAuthorizationRedirect(context.Background(), redirectInput("res-4444-dddd"))
	if err != nil {
		t.Fatalf("second redirect: %v", err)
	}
	if second.OrderCode == first.OrderCode {
		t.Fatalf("expected a fresh order code, got %s twice", first.OrderCode)
	}
	if second.Attempt != first.Attempt+1 {
		t.Fatalf("attempt got %d want %d", second.Attempt, first.Attempt+1)
	}
}

func seedTransaction(t *testing.T, store Store, orderCode, state string) {
	t.Helper()
	now := time.Now()
	err := store.Create(context.Background(), &Transaction{
		OrderCode:     orderCode,
		ReservationID: "res-5555-eeee",
		AmountCents:   18000,
		Currency:      "EUR",
		State:         state,
		CreatedAt:     now,
		LastEventAt:   now,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestCapture(t *testing.T) {
	store := NewMemStore()
	svc := newTestService(store)
	seedTransaction(t, store, "res5555eeee0", StateAuthorized)

	out, err := svc.Capture(context.Background(), "res5555eeee0")
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if out.Transaction.State != StateCaptured {
		t.Fatalf("state got %s", out.Transaction.State)
	}
	if out.Request.Signature == "" {
		t.Fatal("capture request must be signed")
	}
}

func TestCapture_InvalidFromPending(t *testing.T) {
	store := NewMemStore()
	svc := newTestService(store)
	seedTransaction(t, store, "res5555eeee1", StatePending)

	if _, err := svc.Capture(context.Background(), "res5555eeee1"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("got %v want ErrInvalidTransition", err)
	}
}

func TestCancel_InvalidFromCaptured(t *testing.T) {
	store := NewMemStore()
	svc := newTestService(store)
	seedTransaction(t, store, "res5555eeee2", StateCaptured)

	if _, err := svc.Cancel(context.Background(), "res5555eeee2"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("got %v want ErrInvalidTransition", err)
	}
}

func TestCapture_UnknownOrder(t *testing.T) {
	svc := newTestService(NewMemStore())
	if _, err := svc.Capture(context.Background(), "nosuchorder0"); !errors.Is(err, ErrTransactionNotFound) {
		t.Fatalf("got %v want ErrTransactionNotFound", err)
	}
}

func TestRefund(t *testing.T) {
	store := NewMemStore()
	svc := newTestService(store)
	seedTransaction(t, store, "res5555eeee3", StateCaptured)

	// kısmi iade
	out, err := svc.Refund(context.Background(), "res5555eeee3", 5000)
	if err != nil {
		t.Fatalf("refund: %v", err)
	}
	if out.Transaction.RefundedCents != 5000 {
		t.Fatalf("refunded got %d", out.Transaction.RefundedCents)
	}

	// kalanı aşan istek reddedilir, sessiz kırpma yok
	if _, err := svc.Refund(context.Background(), "res5555eeee3", 14000); !errors.Is(err, ErrNotRefundable) {
		t.Fatalf("over-refund: got %v want ErrNotRefundable", err)
	}
	tx, err := store.Get(context.Background(), "res5555eeee3")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if tx.RefundedCents != 5000 {
		t.Fatalf("rejected refund mutated state: refunded %d", tx.RefundedCents)
	}

	// 0 => kalanın tamamı
	out, err = svc.Refund(context.Background(), "res5555eeee3", 0)
	if err != nil {
		t.Fatalf("full refund: %v", err)
	}
	if out.Transaction.RefundedCents != 18000 {
		t.Fatalf("refunded total got %d", out.Transaction.RefundedCents)
	}

	// artık iade edilecek bir şey yok
	if _, err := svc.Refund(context.Background(), "res5555eeee3", 100); !errors.Is(err, ErrNotRefundable) {
		t.Fatalf("got %v want ErrNotRefundable", err)
	}
}

func TestRefund_OnlyFromCaptured(t *testing.T) {
	store := NewMemStore()
	svc := newTestService(store)
	seedTransaction(t, store, "res5555eeee4", StateAuthorized)

	if _, err := svc.Refund(context.Background(), "res5555eeee4", 100); !errors.Is(err, ErrNotRefundable) {
		t.Fatalf("got %v want ErrNotRefundable", err)
	}
}
