package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrEmptyCart indicates a submission was attempted with zero lines.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrPaymentTimeout indicates the capture call did not complete in time.
	ErrPaymentTimeout = errors.New("payment capture timed out")

	// ErrCancellationNotAllowed indicates the order already reached a
	// terminal status and can no longer be cancelled.
	ErrCancellationNotAllowed = errors.New("order can no longer be cancelled")
)

// ValidationError names the submission field that is missing or invalid.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// PaymentError is a capture failure reported by the payment provider.
type PaymentError struct {
	Reason string
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("payment failed: %s", e.Reason)
}

// InvalidTransitionError is a requested status change that does not follow
// the legal sequence. It signals a stale or misbehaving caller, not user
// error.
type InvalidTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("illegal status transition %s -> %s", e.From, e.To)
}
