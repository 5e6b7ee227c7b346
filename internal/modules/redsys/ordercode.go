package redsys

import (
	"fmt"
	"regexp"
)

// OrderCodeLength: gateway sipariş numarası her zaman 12 karakter.
const OrderCodeLength = 12

// attemptDigits: suffix her zaman 2 hane. Değişken genişlik olmaz; attempt 7
// ve 47 farklı kod üretmek zorunda.
const (
	attemptDigits       = 2
	maxOrderCodeAttempt = 99
)

const maxOrderCodeRetries = 5

var (
	nonAlnum    = regexp.MustCompile(`[^A-Za-z0-9]+`)
	orderCodeRe = regexp.MustCompile(`^[A-Za-z0-9]{12}$`)
)

// ValidOrderCode reports whether s satisfies the gateway order-code format.
func ValidOrderCode(s string) bool { return orderCodeRe.MatchString(s) }

// EncodeOrderCode derives the gateway order code for one payment attempt of a
// reservation. Deterministic: same (reservationID, attempt) always yields the
// same code. The attempt occupies a fixed-width tail so retries for the same
// reservation never collide with each other, whatever their decimal width.
func EncodeOrderCode(reservationID string, attempt int) (string, error) {
	if attempt < 0 {
		return "", fmt.Errorf("%w: negative attempt", ErrInvalidOrderCode)
	}
	if attempt > maxOrderCodeAttempt {
		return "", fmt.Errorf("%w: attempt %d exceeds %d", ErrInvalidOrderCode, attempt, maxOrderCodeAttempt)
	}
	cleaned := nonAlnum.ReplaceAllString(reservationID, "")
	if cleaned == "" {
		return "", fmt.Errorf("%w: reservation id has no usable characters", ErrInvalidOrderCode)
	}

	suffix := fmt.Sprintf("%0*d", attemptDigits, attempt)
	room := OrderCodeLength - attemptDigits

	base := cleaned
	if len(base) > room {
		base = base[:room]
	}
	// kısa id => '0' ile doldur (deterministik)
	for len(base) < room {
		base += "0"
	}
	return base + suffix, nil
}

// UniqueOrderCode retries EncodeOrderCode while the produced code is still
// active on the caller's side. Pure over its inputs: the active-set lookup is
// injected, no state is touched here.
func UniqueOrderCode(reservationID string, attempt int, active func(code string) bool) (string, int, error) {
	for i := 0; i < maxOrderCodeRetries; i++ {
		code, err := EncodeOrderCode(reservationID, attempt+i)
		if err != nil {
			return "", 0, err
		}
		if active == nil || !active(code) {
			return code, attempt + i, nil
		}
	}
	return "", 0, ErrOrderCodeExhausted
}
