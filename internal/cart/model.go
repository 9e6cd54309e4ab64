package cart

import (
	"time"

	"vastra-be/internal/product"
)

// Item is one cart line. Product is the live catalog record joined in at
// read time; price is never stored on the line itself.
type Item struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"-"`
	ProductID uint      `json:"productId"`
	Size      string    `json:"size"`
	Color     string    `json:"color"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Product *product.Product `json:"product,omitempty"`
}

type AddItemParams struct {
	UserID    uint
	ProductID uint
	Size      string
	Color     string
	Quantity  int
}
