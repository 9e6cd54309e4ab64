package product

import "time"

type Product struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	OfferPrice  *float64  `json:"offerPrice,omitempty"`
	Images      []string  `json:"images"`
	Sizes       []string  `json:"sizes"`
	Colors      []string  `json:"colors"`
	Stock       int       `json:"stock"`
	Sold        int       `json:"sold"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SellingPrice is the price frozen into an order line: the offer price when
// one is set, the list price otherwise.
func (p *Product) SellingPrice() float64 {
	if p.OfferPrice != nil && *p.OfferPrice > 0 {
		return *p.OfferPrice
	}
	return p.Price
}

// MainImage returns the first catalog image, or empty when none exist.
func (p *Product) MainImage() string {
	if len(p.Images) > 0 {
		return p.Images[0]
	}
	return ""
}

type ListOptions struct {
	Category string
	Search   string
	Page     int
	Limit    int
}
