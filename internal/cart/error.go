package cart

import "errors"

var (
	ErrInvalidQuantity  = errors.New("invalid cart quantity")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrCartEmpty        = errors.New("cart is empty")
)
