package payment_controller

import "errors"

var (
	ErrPaymentNotSucceeded   = errors.New("payment has not succeeded")
	ErrAuthorizationMismatch = errors.New("authorization does not belong to this booking")
	ErrBookingNotPending     = errors.New("booking is no longer pending")
)
