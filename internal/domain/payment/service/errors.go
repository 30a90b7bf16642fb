package service

import "errors"

var (
	// ErrMissingReference means the webhook carried no merchant
	// transaction id, so it cannot be correlated to an order.
	ErrMissingReference = errors.New("missing merchant transaction ID")

	// ErrOrderNotFound means the referenced order does not exist.
	ErrOrderNotFound = errors.New("order not found")

	// ErrAmountMismatch means the gateway-settled amount differs from the
	// order total beyond tolerance. Possible fraud; the order is never
	// mutated on this path.
	ErrAmountMismatch = errors.New("amount mismatch")
)
