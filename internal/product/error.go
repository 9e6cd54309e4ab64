package product

import "errors"

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrProductUnavailable = errors.New("product is no longer available")
	ErrInsufficientStock  = errors.New("insufficient stock")
)
