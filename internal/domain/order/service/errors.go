package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrAccessDenied    = errors.New("access denied")
	ErrInvalidStatus   = errors.New("invalid order status")
	ErrStatusFinalized = errors.New("order status can no longer change")
)

// OutOfStockError lists the items that blocked checkout.
type OutOfStockError struct {
	Items []string // "name: reason"
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("some products are out of stock: %s", strings.Join(e.Items, ", "))
}

// PaymentInitError wraps a gateway failure during checkout. The order has
// already been rolled back when this is returned.
type PaymentInitError struct {
	Err error
}

func (e *PaymentInitError) Error() string {
	return fmt.Sprintf("failed to initiate payment: %v", e.Err)
}

func (e *PaymentInitError) Unwrap() error {
	return e.Err
}
