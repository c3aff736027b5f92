package payment

import "errors"

var (
	// -- Validation (client-caused, non-retryable) --
	ErrInvalidCart   = errors.New("invalid cart")
	ErrInvalidTotal  = errors.New("invalid total")
	ErrTotalMismatch = errors.New("declared total does not match server total")

	// -- Infrastructure (retryable) --
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")

	ErrPaymentNotFound = errors.New("payment not found")
)
