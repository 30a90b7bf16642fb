package gateway

import "errors"

var (
	// ErrNotConfigured means merchant credentials are missing; UPI
	// initiation is refused while COD keeps working.
	ErrNotConfigured = errors.New("phonepe credentials not configured")

	// ErrPaymentInitiation wraps a gateway rejection or malformed pay
	// response; the caller rolls the order back.
	ErrPaymentInitiation = errors.New("payment initiation failed")

	// ErrPaymentStatus wraps a failed status check; the order is left
	// unchanged.
	ErrPaymentStatus = errors.New("payment status check failed")

	// ErrGatewayTimeout marks the bounded-timeout expiry on an outbound
	// call, distinct from a gateway-side rejection.
	ErrGatewayTimeout = errors.New("payment gateway timeout")
)
