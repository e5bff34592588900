package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Checkout failure taxonomy. Every member is recoverable at the request
// boundary: a failed checkout leaves stock, discounts, and the ledger
// untouched.
var (
	ErrEmptyCart             = errors.New("cart is empty")
	ErrInvalidLineItem       = errors.New("invalid line item")
	ErrDiscountNotApplicable = errors.New("discount not applicable")
	ErrInsufficientPayment   = errors.New("insufficient payment")
)

// InsufficientStockError reports the first cart line whose requested quantity
// exceeds the live stock level.
type InsufficientStockError struct {
	ProductID   uuid.UUID
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %q: available %d, requested %d",
		e.ProductName, e.Available, e.Requested)
}

// PersistenceError wraps a storage fault during commit, including
// transaction-number collisions under race. It is the only retryable kind;
// the engine retries it a bounded number of times before surfacing it.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("checkout persistence failure: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
