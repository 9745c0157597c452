package errors

import "errors"

var (
	ErrInvalidRequest      = errors.New("invalid request")
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailTaken          = errors.New("user already exists")
	ErrUnknownRole         = errors.New("unknown role")
	ErrUnknownStatus       = errors.New("unknown status")
	ErrInvalidStatusChange = errors.New("status change not allowed")
	ErrAccountSuspended    = errors.New("account suspended")
)
