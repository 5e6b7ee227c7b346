package payments

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/RedNight114/TenerifeParadiseTourApp-sub008/internal/modules/redsys"
	"github.com/RedNight114/TenerifeParadiseTourApp-sub008/internal/modules/reservations"
)

// ReservationSource is the collaborator that tells us what a reservation
// costs and whether it may be paid.
type ReservationSource interface {
	Payable(ctx context.Context, id string) (reservations.Reservation, error)
}

// Service, gateway'e giden tarafı üretir: redirect payload, capture/cancel/
// refund istekleri. Protokol matematiği redsys paketinde; burada lifecycle ve
// persistence var.
type Service struct {
	store      Store
	res        ReservationSource
	signer     redsys.Signer
	builder    redsys.Builder
	gatewayURL string
	logger     *slog.Logger
}

func NewService(store Store, res ReservationSource, signer redsys.Signer, builder redsys.Builder, gatewayURL string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, res: res, signer: signer, builder: builder, gatewayURL: gatewayURL, logger: logger}
}

type CreateRedirectInput struct {
	ReservationID string
	// Attempt: caller tarafından takip edilir; retry = attempt+1, asla aynı
	// attempt ile tekrar (çift tahsilat belirsizliği olmasın).
	Attempt   int
	OKURL     string
	KOURL     string
	NotifyURL string
}

// SignedRedirect is everything the front end needs to POST the customer to
// the gateway.
type SignedRedirect struct {
	GatewayURL string               `json:"gateway_url"`
	OrderCode  string               `json:"order_code"`
	Attempt    int                  `json:"attempt"`
	Request    redsys.SignedRequest `json:"request"`
}

// OperationResult: merchant-initiated bir işlemin (capture/cancel/refund)
// yeni durumu + gateway'e iletilecek imzalı istek.
type OperationResult struct {
	Transaction Transaction          `json:"transaction"`
	Request     redsys.SignedRequest `json:"request"`
}

// CreateAuthorizationRedirect opens a pending transaction for a payable
// reservation and returns the signed redirect payload. Tüm validasyon
// hataları senkron döner, sessiz default yok.
func (s *Service) CreateAuthorizationRedirect(ctx context.Context, in CreateRedirectInput) (SignedRedirect, error) {
	res, err := s.res.Payable(ctx, in.ReservationID)
	if err != nil {
		return SignedRedirect{}, err
	}

	var lookupErr error
	orderCode, attempt, err := redsys.UniqueOrderCode(in.ReservationID, in.Attempt, func(code string) bool {
		active, aerr := s.store.ActiveOrderCodeExists(ctx, code)
		if aerr != nil {
			lookupErr = aerr
			return true // hata varsa kodu kullanma
		}
		return active
	})
	if lookupErr != nil {
		return SignedRedirect{}, lookupErr
	}
	if err != nil {
		return SignedRedirect{}, err
	}

	// build + sign önce: parametre hatası varsa pending transaction açılmaz
	params, err := s.builder.Build(redsys.OpAuthorize, redsys.TransactionContext{
		OrderCode: orderCode,
		Amount:    redsys.Money{Cents: res.AmountCents, Currency: res.Currency},
		OKURL:     in.OKURL,
		KOURL:     in.KOURL,
		NotifyURL: in.NotifyURL,
	})
	if err != nil {
		return SignedRedirect{}, err
	}
	req, err := s.signer.SignRequest(params)
	if err != nil {
		return SignedRedirect{}, err
	}

	now := time.Now()
	t := Transaction{
		OrderCode:     orderCode,
		ReservationID: res.ID,
		Attempt:       attempt,
		AmountCents:   res.AmountCents,
		Currency:      res.Currency,
		State:         StatePending,
		CreatedAt:     now,
		LastEventAt:   now,
	}
	if err := s.store.Create(ctx, &t); err != nil {
		return SignedRedirect{}, err
	}

	s.logger.InfoContext(ctx, "authorization redirect issued",
		"order_code", orderCode,
		"reservation_id", res.ID,
		"amount", redsys.Money{Cents: res.AmountCents, Currency: res.Currency}.String(),
		"attempt", attempt,
	)

	return SignedRedirect{GatewayURL: s.gatewayURL, OrderCode: orderCode, Attempt: attempt, Request: req}, nil
}

// Capture confirms a preauthorization. Authorized dışından çağrılırsa
// ErrInvalidTransition.
func (s *Service) Capture(ctx context.Context, orderCode string) (OperationResult, error) {
	return s.transition(ctx, orderCode, redsys.OpCapture, StateCaptured)
}

// Cancel releases a preauthorization.
func (s *Service) Cancel(ctx context.Context, orderCode string) (OperationResult, error) {
	return s.transition(ctx, orderCode, redsys.OpCancel, StateCancelled)
}

func (s *Service) transition(ctx context.Context, orderCode string, op redsys.Operation, to string) (OperationResult, error) {
	t, err := s.store.Mutate(ctx, orderCode, func(t *Transaction) error {
		if err := ValidateTransition(t.State, to); err != nil {
			return err
		}
		t.State = to
		t.LastEventAt = time.Now()
		return nil
	})
	if err != nil {
		return OperationResult{}, err
	}

	req, err := s.signedOperation(op, t, t.AmountCents)
	if err != nil {
		return OperationResult{}, err
	}

	s.logger.InfoContext(ctx, "transaction transitioned",
		"order_code", orderCode, "state", t.State, "operation", string(op))
	return OperationResult{Transaction: t, Request: req}, nil
}

// Refund tracks partial/full refunds of a captured transaction. Lifecycle
// state değişmez; refunded_cents captured tutarı aşamaz. amountCents 0 =
// kalanın tamamı, kalanı aşan açık bir istek reddedilir.
func (s *Service) Refund(ctx context.Context, orderCode string, amountCents int64) (OperationResult, error) {
	var refund int64
	t, err := s.store.Mutate(ctx, orderCode, func(t *Transaction) error {
		if t.State != StateCaptured {
			return fmt.Errorf("%w: state %s", ErrNotRefundable, t.State)
		}
		remaining := t.AmountCents - t.RefundedCents
		if remaining <= 0 {
			return fmt.Errorf("%w: nothing left to refund", ErrNotRefundable)
		}
		refund = amountCents
		if refund < 0 {
			return fmt.Errorf("%w: negative refund", redsys.ErrInvalidAmount)
		}
		if refund == 0 {
			refund = remaining
		}
		if refund > remaining {
			return fmt.Errorf("%w: refund %d exceeds remaining %d", ErrNotRefundable, refund, remaining)
		}
		t.RefundedCents += refund
		t.LastEventAt = time.Now()
		return nil
	})
	if err != nil {
		return OperationResult{}, err
	}

	req, err := s.signedOperation(redsys.OpRefund, t, refund)
	if err != nil {
		return OperationResult{}, err
	}

	s.logger.InfoContext(ctx, "refund issued",
		"order_code", orderCode, "refund_cents", refund, "refunded_total", t.RefundedCents)
	return OperationResult{Transaction: t, Request: req}, nil
}

func (s *Service) signedOperation(op redsys.Operation, t Transaction, cents int64) (redsys.SignedRequest, error) {
	params, err := s.builder.Build(op, redsys.TransactionContext{
		OrderCode: t.OrderCode,
		Amount:    redsys.Money{Cents: cents, Currency: t.Currency},
	})
	if err != nil {
		return redsys.SignedRequest{}, err
	}
	return s.signer.SignRequest(params)
}

// Get exposes the current transaction for diagnostics endpoints.
func (s *Service) Get(ctx context.Context, orderCode string) (Transaction, error) {
	return s.store.Get(ctx, orderCode)
}
