package coupon

import "time"

type DiscountType string

const (
	DiscountPercent DiscountType = "percent"
	DiscountFixed   DiscountType = "fixed"
)

type Coupon struct {
	ID            uint         `json:"id"`
	Code          string       `json:"code"`
	DiscountType  DiscountType `json:"discountType"`
	DiscountValue float64      `json:"discountValue"`
	MinPurchase   float64      `json:"minPurchase"`
	MaxDiscount   *float64     `json:"maxDiscount,omitempty"`
	ValidFrom     time.Time    `json:"validFrom"`
	ValidUntil    time.Time    `json:"validUntil"`
	UsageLimit    *int         `json:"usageLimit,omitempty"`
	UsedCount     int          `json:"usedCount"`
	IsActive      bool         `json:"isActive"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}
