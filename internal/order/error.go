package order

import "errors"

var (
	ErrInvalidAddress = errors.New("address not found or not owned by buyer")
	ErrEmptyCart      = errors.New("cart is empty")
	ErrOrderNotFound  = errors.New("order not found")
	ErrInvalidVerdict = errors.New("invalid payment verdict")
	ErrUnauthorized   = errors.New("unauthorized")
)
