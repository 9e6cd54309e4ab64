package payment

import "time"

type Status string

const (
	StatusCreated    Status = "created"
	StatusAuthorized Status = "authorized"
	StatusCaptured   Status = "captured"
	StatusFailed     Status = "failed"
	StatusRefunded   Status = "refunded"
)

// Payment tracks the gateway's view of a single payment attempt tied to one
// order. An order may accumulate several records across retries, but only
// one should ever reach captured.
type Payment struct {
	ID                uint      `json:"id"`
	OrderID           uint      `json:"orderId"`
	UserID            uint      `json:"userId"`
	RazorpayOrderID   string    `json:"razorpayOrderId"`
	RazorpayPaymentID *string   `json:"razorpayPaymentId,omitempty"`
	RazorpaySignature *string   `json:"-"`
	Amount            float64   `json:"amount"`
	Currency          string    `json:"currency"`
	Status            Status    `json:"status"`
	Method            string    `json:"method,omitempty"`
	ErrorCode         *string   `json:"errorCode,omitempty"`
	ErrorDescription  *string   `json:"errorDescription,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// WebhookEvent is the subset of the gateway's webhook payload the
// reconciliation logic consumes.
type WebhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity PaymentEntity `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

type PaymentEntity struct {
	ID               string `json:"id"`
	OrderID          string `json:"order_id"`
	Method           string `json:"method"`
	ErrorCode        string `json:"error_code"`
	ErrorDescription string `json:"error_description"`
}
