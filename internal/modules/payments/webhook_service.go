package payments

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/RedNight114/TenerifeParadiseTourApp-sub008/internal/modules/redsys"
)

const (
	RejectSignatureMismatch = "signature_mismatch"
)

// Outcome is what webhook handling reports back to the HTTP layer. Verified
// false asla state değiştirmez; Duplicate true = idempotent no-op.
type Outcome struct {
	OrderCode    string `json:"order_code"`
	Verified     bool   `json:"verified"`
	RejectReason string `json:"reject_reason,omitempty"`
	Duplicate    bool   `json:"duplicate,omitempty"`
	State        string `json:"state,omitempty"`
	ResponseCode string `json:"response_code,omitempty"`
}

// WebhookService consumes gateway notifications: parse, verify, apply.
// State geçişini sadece burası ve Service.transition yapar.
type WebhookService struct {
	store  Store
	signer redsys.Signer
	logger *slog.Logger
}

func NewWebhookService(store Store, signer redsys.Signer, logger *slog.Logger) *WebhookService {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebhookService{store: store, signer: signer, logger: logger}
}

// Handle processes one notification delivery. Returns ErrMalformedPayload
// (wrapped) for unparseable bodies; signature mismatch is NOT an error, it is
// a rejected outcome. Kötü niyetli bir webhook servisi düşürmemeli.
func (s *WebhookService) Handle(ctx context.Context, form url.Values) (Outcome, error) {
	raw, err := redsys.ParseNotification(form)
	if err != nil {
		return Outcome{}, err
	}
	n := raw.Decoded

	// Key derivation order code'u payload'ın kendisinden okunur (gateway
	// kendi aldığı order ile imzalar), yan kanaldan değil.
	if err := s.signer.CheckSignature(n.Order, raw.Params, raw.Signature); err != nil {
		s.logger.WarnContext(ctx, "webhook rejected",
			"reason", RejectSignatureMismatch,
			"order_code", n.Order,
			"signature", truncate(raw.Signature, 12),
			"err", err,
		)
		s.recordEvent(ctx, raw, false)
		return Outcome{
			OrderCode:    n.Order,
			Verified:     false,
			RejectReason: RejectSignatureMismatch,
		}, nil
	}

	outcome := Outcome{OrderCode: n.Order, Verified: true, ResponseCode: n.Response}

	t, err := s.store.Mutate(ctx, n.Order, func(t *Transaction) error {
		if t.State != StatePending {
			// re-delivery: terminal/authorized transaction'a ikinci teslimat
			// no-op, mevcut durum döner
			outcome.Duplicate = true
			return nil
		}

		to := StateFailed
		if n.Authorized() {
			to = StateAuthorized
		}
		if err := ValidateTransition(t.State, to); err != nil {
			return err
		}

		t.State = to
		code := n.Response
		t.GatewayResponseCode = &code
		if n.AuthorisationCode != "" {
			auth := n.AuthorisationCode
			t.AuthorisationCode = &auth
		}
		t.LastEventAt = time.Now()
		return nil
	})
	if err != nil {
		// bulunamadı/DB hatası => 500, gateway retry etsin
		return Outcome{}, err
	}

	if created := s.recordEvent(ctx, raw, true); !created {
		outcome.Duplicate = true
	}

	outcome.State = t.State
	s.logger.InfoContext(ctx, "webhook applied",
		"order_code", t.OrderCode,
		"state", t.State,
		"response_code", n.Response,
		"duplicate", outcome.Duplicate,
	)
	return outcome, nil
}

// recordEvent: audit + dedupe kaydı. Apply idempotent olduğu için buradaki
// bir hata akışı durdurmaz, sadece loglanır.
func (s *WebhookService) recordEvent(ctx context.Context, raw redsys.RawNotification, verified bool) bool {
	payload, err := base64.StdEncoding.DecodeString(raw.Params)
	if err != nil {
		payload = []byte("{}")
	}
	created, err := s.store.InsertEvent(ctx, &GatewayEvent{
		ID:           uuid.NewString(),
		OrderCode:    raw.Decoded.Order,
		Signature:    truncate(raw.Signature, 64),
		ResponseCode: raw.Decoded.Response,
		Verified:     verified,
		PayloadJSON:  datatypes.JSON(payload),
		ReceivedAt:   time.Now(),
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to persist gateway event",
			"order_code", raw.Decoded.Order, "err", err)
		return true
	}
	return created
}

// IsMalformed reports whether a Handle error means the body itself was
// unusable (HTTP 400) rather than a processing failure (HTTP 500).
func IsMalformed(err error) bool {
	return errors.Is(err, redsys.ErrMalformedPayload)
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}
