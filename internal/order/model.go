package order

import "time"

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
	StatusReturned   Status = "returned"
)

type PaymentMethod string

const (
	MethodRazorpay PaymentMethod = "razorpay"
	MethodCOD      PaymentMethod = "cod"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// Item is a frozen snapshot of a product at order-creation time. Prices are
// copied once and never re-read from the catalog.
type Item struct {
	ID        uint    `json:"id"`
	OrderID   uint    `json:"-"`
	ProductID uint    `json:"productId"`
	Title     string  `json:"title"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
	Size      string  `json:"size"`
	Color     string  `json:"color"`
	Quantity  int     `json:"quantity"`
}

type ShippingAddress struct {
	FullName     string `json:"fullName"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
	Country      string `json:"country"`
}

type PaymentInfo struct {
	Method            PaymentMethod `json:"method"`
	RazorpayOrderID   string        `json:"razorpayOrderId,omitempty"`
	RazorpayPaymentID string        `json:"razorpayPaymentId,omitempty"`
	PaidAt            *time.Time    `json:"paidAt,omitempty"`
	Status            PaymentStatus `json:"status"`
}

type TrackingInfo struct {
	Carrier        string `json:"carrier,omitempty"`
	TrackingNumber string `json:"trackingNumber,omitempty"`
	TrackingURL    string `json:"trackingUrl,omitempty"`
}

type Order struct {
	ID              uint            `json:"id"`
	OrderNumber     string          `json:"orderNumber"`
	UserID          uint            `json:"userId"`
	Items           []Item          `json:"items"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentInfo     PaymentInfo     `json:"paymentInfo"`
	ItemsTotal      float64         `json:"itemsTotal"`
	ShippingCharge  float64         `json:"shippingCharge"`
	Discount        float64         `json:"discount"`
	CouponUsed      *string         `json:"couponUsed,omitempty"`
	TotalAmount     float64         `json:"totalAmount"`
	Status          Status          `json:"status"`
	TrackingInfo    TrackingInfo    `json:"trackingInfo"`
	DeliveredAt     *time.Time      `json:"deliveredAt,omitempty"`
	CancelledAt     *time.Time      `json:"cancelledAt,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// Cancellable reports whether a user may still cancel the order.
func (o *Order) Cancellable() bool {
	return o.Status == StatusPending || o.Status == StatusConfirmed
}

// AdminStatuses are the transitions an admin may drive directly.
var AdminStatuses = map[Status]bool{
	StatusConfirmed:  true,
	StatusProcessing: true,
	StatusShipped:    true,
	StatusDelivered:  true,
	StatusCancelled:  true,
	StatusReturned:   true,
}

type CreateOrderInput struct {
	ShippingAddress ShippingAddress
	CouponCode      string
	PaymentMethod   PaymentMethod
}
