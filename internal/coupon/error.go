package coupon

import "errors"

var (
	ErrCouponNotFound = errors.New("invalid coupon code")
	ErrLimitReached   = errors.New("coupon usage limit reached")
)
