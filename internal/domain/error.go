package domain

import "errors"

var (
	ErrInvalidPayment       = errors.New("invalid payment event")
	ErrDuplicatePayment     = errors.New("payment already applied")
	ErrIncorrectCredentials = errors.New("incorrect credentials")
	ErrInvalidStats         = errors.New("invalid stats values")
)
