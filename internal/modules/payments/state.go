package payments

import "fmt"

// allowedTransitions: key mevcut state, value geçilebilecek state'ler.
// Captured/Cancelled/Failed terminal.
var allowedTransitions = map[string][]string{
	StatePending:    {StateAuthorized, StateFailed},
	StateAuthorized: {StateCaptured, StateCancelled},
	StateCaptured:   {},
	StateCancelled:  {},
	StateFailed:     {},
}

func CanTransition(from, to string) bool {
	allowed, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

func ValidateTransition(from, to string) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

func IsTerminal(state string) bool {
	return state == StateCaptured || state == StateCancelled || state == StateFailed
}
