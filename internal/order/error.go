package order

import "errors"

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrUnauthorized  = errors.New("not authorized to access this order")
	ErrEmptyCart     = errors.New("cart is empty")
	ErrInvalidState  = errors.New("order cannot be changed at this stage")
	ErrNotPaid       = errors.New("order payment not completed")
)
