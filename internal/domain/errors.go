package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the order core. Idempotent no-ops
// (already paid / already assigned / already cashed out) are modelled as
// errors internally so every mutating operation returns an explicit
// success-or-named-failure result; handlers decide how benign they are.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrStaleState       = errors.New("stale state: lost a concurrent update, re-fetch and retry")
	ErrAlreadyPaid      = errors.New("order is already paid")
	ErrAlreadyAssigned  = errors.New("order is already assigned")
	ErrAlreadyCashedOut = errors.New("delivery is already cashed out")
	ErrRiderUnavailable = errors.New("no available rider in the requested thana")
	ErrEmptyCart        = errors.New("cart is empty")
)

// UnavailableItemError means a referenced food is no longer sellable.
// The customer can recover by removing the line from the cart.
type UnavailableItemError struct {
	FoodID string
}

func (e *UnavailableItemError) Error() string {
	return fmt.Sprintf("item %s is unavailable", e.FoodID)
}

// InvalidStateTransitionError reports an attempted edge that is not in the
// order status graph. The order is left unchanged.
type InvalidStateTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("invalid state transition: %s -> %s", e.From, e.To)
}

// AmountMismatchError means a payment confirmation disagreed with the frozen
// order total. Fatal: flagged for manual review, never silently accepted.
type AmountMismatchError struct {
	OrderID  string
	Expected float64
	Got      float64
}

func (e *AmountMismatchError) Error() string {
	return fmt.Sprintf("payment amount mismatch for order %s: expected %.2f, got %.2f", e.OrderID, e.Expected, e.Got)
}
