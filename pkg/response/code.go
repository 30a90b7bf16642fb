package response

// Business status codes
const (
	CodeSuccess = 0
	CodeError   = 1

	// user module 100xx
	ErrUserExists   = 10001
	ErrUserNotFound = 10002
	ErrAuthFailed   = 10003
	ErrTokenInvalid = 10004
	ErrNoPermission = 10005

	// product module 200xx
	ErrProductNotFound = 20001

	// cart module 300xx
	ErrCartNotFound     = 30001
	ErrCartItemNotFound = 30002

	// order module 400xx
	ErrOrderNotFound = 40001
	ErrOutOfStock    = 40002

	// payment module 600xx
	ErrPaymentInit     = 60001
	ErrPaymentStatus   = 60002
	ErrGatewayConfig   = 60003
	ErrAmountMismatch  = 60004
	ErrInvalidWebhook  = 60005

	// system errors 500xx
	ErrServerInternal  = 50001
	ErrInvalidParam    = 50002
	ErrTooManyRequests = 50003
)
