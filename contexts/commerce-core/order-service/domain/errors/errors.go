package errors

import "errors"

var (
	ErrInvalidRequest         = errors.New("invalid request")
	ErrOrderNotFound          = errors.New("order not found")
	ErrTrackingNotFound       = errors.New("tracking record not found")
	ErrProductNotFound        = errors.New("product not found")
	ErrDuplicateActiveOrder   = errors.New("active order already exists for this product")
	ErrInvalidTransition      = errors.New("order status transition not allowed")
	ErrUnknownStatus          = errors.New("unknown order status")
	ErrNotOrderOwner          = errors.New("order belongs to another buyer")
	ErrOrderNotApproved       = errors.New("order is not approved")
	ErrAlreadyProcessed       = errors.New("payment already processed")
	ErrIdempotencyKeyRequired = errors.New("idempotency key required")
	ErrIdempotencyConflict    = errors.New("idempotency key conflict")
)
