package payments

import "errors"

var (
	ErrDuplicateOrderCode  = errors.New("order code already in use")
	ErrInvalidTransition   = errors.New("invalid state transition")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrNotRefundable       = errors.New("transaction not refundable")
)
