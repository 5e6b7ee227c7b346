package reservations

import "errors"

var (
	ErrNotFound   = errors.New("reservation not found")
	ErrNotPayable = errors.New("reservation not payable")
)
