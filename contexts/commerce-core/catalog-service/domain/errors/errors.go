package errors

import "errors"

var (
	ErrInvalidRequest  = errors.New("invalid request")
	ErrProductNotFound = errors.New("product not found")
	ErrNotProductOwner = errors.New("not the product owner")
)
