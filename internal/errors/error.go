package errors

import (
	"errors"
)

var (
	// ErrSubmission marks a sale that could not be persisted. The cart is left untouched and the
	// operator may retry.
	ErrSubmission = errors.New("failed submitting sale")
	// ErrQuery marks a day report that could not be read from the store.
	ErrQuery              = errors.New("failed querying sales")
	ErrSubmissionInFlight = errors.New("a sale submission is already in progress")
	ErrProductNotFound    = errors.New("product not found")
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidSale        = errors.New("invalid sale")
)
