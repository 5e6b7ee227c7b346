package redsys

import "errors"

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	ErrInvalidCallbackURL  = errors.New("invalid callback url")
	ErrInvalidOrderCode    = errors.New("invalid order code")
	ErrOrderCodeExhausted  = errors.New("order code attempts exhausted")
	ErrMalformedPayload    = errors.New("malformed notification payload")
	ErrSignatureMismatch   = errors.New("signature mismatch")
	ErrBadSecretKey        = errors.New("merchant secret key is not a valid 3DES key")
)
