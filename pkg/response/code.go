package response

// Business codes
const (
	CodeSuccess = 0

	// Order module errors 300xx
	ErrInvalidPackage = 30001
	ErrOrderNotFound  = 30002
	ErrPaymentGateway = 30003
	ErrInvalidEvent   = 30004
	ErrProvisioning   = 30005

	// System errors 500xx
	ErrServerInternal  = 50001
	ErrInvalidParam    = 50002
	ErrTooManyRequests = 50003
)
