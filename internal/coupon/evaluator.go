package coupon

import (
	"fmt"
	"time"
)

// Validation is the evaluator verdict for one coupon against one cart total.
type Validation struct {
	Valid   bool
	Message string
}

// Validate applies the validity checks in order, short-circuiting on the
// first failure.
func Validate(c *Coupon, cartTotal float64) Validation {
	now := time.Now()

	if !c.IsActive {
		return Validation{Message: "Coupon is inactive"}
	}
	if now.Before(c.ValidFrom) {
		return Validation{Message: "Coupon is not yet active"}
	}
	if now.After(c.ValidUntil) {
		return Validation{Message: "Coupon has expired"}
	}
	if c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit {
		return Validation{Message: "Coupon usage limit reached"}
	}
	if cartTotal < c.MinPurchase {
		return Validation{Message: fmt.Sprintf("Minimum purchase of ₹%.0f required", c.MinPurchase)}
	}

	return Validation{Valid: true}
}

// Discount computes the rupee discount for a valid coupon. Percent coupons
// are capped at MaxDiscount when set; every discount is capped at the cart
// total so the effective discount never exceeds 100%.
func Discount(c *Coupon, cartTotal float64) float64 {
	var discount float64
	if c.DiscountType == DiscountPercent {
		discount = cartTotal * c.DiscountValue / 100
		if c.MaxDiscount != nil && discount > *c.MaxDiscount {
			discount = *c.MaxDiscount
		}
	} else {
		discount = c.DiscountValue
	}

	if discount > cartTotal {
		discount = cartTotal
	}
	return discount
}
