package settings

import "time"

// Settings is the single-row store configuration.
type Settings struct {
	ID                uint      `json:"id"`
	StoreName         string    `json:"storeName"`
	SupportEmail      string    `json:"supportEmail"`
	ShippingCharge    float64   `json:"shippingCharge"`
	FreeShippingAbove *float64  `json:"freeShippingAbove,omitempty"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// ShippingFor returns the shipping charge for an items total, honouring the
// free-shipping threshold when one is configured.
func (s *Settings) ShippingFor(itemsTotal float64) float64 {
	if s.FreeShippingAbove != nil && itemsTotal >= *s.FreeShippingAbove {
		return 0
	}
	return s.ShippingCharge
}
