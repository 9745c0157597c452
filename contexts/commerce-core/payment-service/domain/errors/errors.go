package errors

import "errors"

var (
	ErrInvalidRequest      = errors.New("invalid payment request")
	ErrOrderNotFound       = errors.New("order not found")
	ErrNotOrderOwner       = errors.New("caller does not own this order")
	ErrOrderNotApproved    = errors.New("order is not approved for checkout")
	ErrAlreadyProcessed    = errors.New("payment already processed")
	ErrNoPaymentSession    = errors.New("order has no checkout session")
	ErrSessionNotFound     = errors.New("checkout session not found")
	ErrPaymentIncomplete   = errors.New("checkout session is not paid")
	ErrProviderUnavailable = errors.New("payment provider unavailable")
)
