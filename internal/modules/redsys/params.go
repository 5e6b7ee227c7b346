package redsys

import (
	"fmt"
	"net/url"
)

// Operation: gateway'in DS_MERCHANT_TRANSACTIONTYPE kodları (preauth akışı).
type Operation string

const (
	OpAuthorize Operation = "1" // preauthorization
	OpCapture   Operation = "2" // confirmation of a preauthorization
	OpRefund    Operation = "3" // refund
	OpCancel    Operation = "9" // cancellation of a preauthorization
)

func (o Operation) Valid() bool {
	switch o {
	case OpAuthorize, OpCapture, OpRefund, OpCancel:
		return true
	}
	return false
}

// MerchantParameters is the exact field set the gateway accepts. Field
// declaration order is the canonical JSON order on both the signing and the
// verification path; never reorder fields without a new signature vector.
// Her değer string: wire üzerinde numeric/boolean tip yok.
type MerchantParameters struct {
	Amount          string `json:"DS_MERCHANT_AMOUNT"`
	Order           string `json:"DS_MERCHANT_ORDER"`
	MerchantCode    string `json:"DS_MERCHANT_MERCHANTCODE"`
	Currency        string `json:"DS_MERCHANT_CURRENCY"`
	TransactionType string `json:"DS_MERCHANT_TRANSACTIONTYPE"`
	Terminal        string `json:"DS_MERCHANT_TERMINAL"`
	MerchantURL     string `json:"DS_MERCHANT_MERCHANTURL,omitempty"`
	URLOK           string `json:"DS_MERCHANT_URLOK,omitempty"`
	URLKO           string `json:"DS_MERCHANT_URLKO,omitempty"`
}

// TransactionContext carries everything a single build needs; the parameter
// set is fully determined by (operation, context), no hidden state.
type TransactionContext struct {
	OrderCode string
	Amount    Money

	// Sadece Authorize: redirect dönüş ve notification URL'leri.
	OKURL     string
	KOURL     string
	NotifyURL string
}

type Builder struct {
	MerchantCode string
	Terminal     string

	// MaxAmountCents: fat-finger/overflow koruması. 0 => limit yok değil,
	// config'te zorunlu.
	MaxAmountCents int64

	// AllowInsecureURLs: yalnızca dev. Prod'da https dışı callback kabul etme.
	AllowInsecureURLs bool
}

// Build assembles the parameter set for one operation. Unknown/extra fields
// are never produced; the gateway rejects them.
func (b Builder) Build(op Operation, tc TransactionContext) (MerchantParameters, error) {
	if !op.Valid() {
		return MerchantParameters{}, fmt.Errorf("unknown operation %q", op)
	}
	if !ValidOrderCode(tc.OrderCode) {
		return MerchantParameters{}, fmt.Errorf("%w: %q", ErrInvalidOrderCode, tc.OrderCode)
	}

	amount, err := b.wireAmount(op, tc.Amount.Cents)
	if err != nil {
		return MerchantParameters{}, err
	}

	currency, ok := CurrencyCode(tc.Amount.Currency)
	if !ok {
		return MerchantParameters{}, fmt.Errorf("%w: %q", ErrUnsupportedCurrency, tc.Amount.Currency)
	}

	p := MerchantParameters{
		Amount:          amount,
		Order:           tc.OrderCode,
		MerchantCode:    b.MerchantCode,
		Currency:        currency,
		TransactionType: string(op),
		Terminal:        b.Terminal,
	}

	if op == OpAuthorize {
		for _, u := range []string{tc.NotifyURL, tc.OKURL, tc.KOURL} {
			if err := b.checkCallbackURL(u); err != nil {
				return MerchantParameters{}, err
			}
		}
		p.MerchantURL = tc.NotifyURL
		p.URLOK = tc.OKURL
		p.URLKO = tc.KOURL
	}

	return p, nil
}

// wireAmount: minor unit -> 12 haneli zero-padded decimal string.
func (b Builder) wireAmount(op Operation, cents int64) (string, error) {
	if cents < 0 {
		return "", fmt.Errorf("%w: negative", ErrInvalidAmount)
	}
	if cents == 0 && op == OpAuthorize {
		return "", fmt.Errorf("%w: zero amount for authorize", ErrInvalidAmount)
	}
	if b.MaxAmountCents > 0 && cents > b.MaxAmountCents {
		return "", fmt.Errorf("%w: %d exceeds maximum %d", ErrInvalidAmount, cents, b.MaxAmountCents)
	}
	return fmt.Sprintf("%012d", cents), nil
}

func (b Builder) checkCallbackURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("%w: empty", ErrInvalidCallbackURL)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCallbackURL, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("%w: %q is not absolute", ErrInvalidCallbackURL, raw)
	}
	switch u.Scheme {
	case "https":
		return nil
	case "http":
		if b.AllowInsecureURLs {
			return nil // dev only
		}
		return fmt.Errorf("%w: %q must be https", ErrInvalidCallbackURL, raw)
	default:
		return fmt.Errorf("%w: scheme %q", ErrInvalidCallbackURL, u.Scheme)
	}
}
