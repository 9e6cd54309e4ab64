package payment

import "context"

// GatewayOrder is the gateway's own record of a pending charge, distinct
// from a storefront order.
type GatewayOrder struct {
	ID       string
	Amount   int64 // minor currency units
	Currency string
	Receipt  string
	Status   string
}

type RefundResult struct {
	ID       string
	Amount   int64
	Status   string
	SpeedReq string
}

// Gateway is the capability to create remote orders, refund captured
// payments, and verify signatures. Constructed once at startup and injected
// into the services that need it; tests provide a fake.
type Gateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (*GatewayOrder, error)
	Refund(ctx context.Context, paymentID string, amount int64, notes map[string]string) (*RefundResult, error)

	// VerifyPaymentSignature checks the client-submitted signature over
	// "<orderID>|<paymentID>" from the synchronous verify call.
	VerifyPaymentSignature(orderID, paymentID, signature string) bool

	// VerifyWebhookSignature checks the gateway's signature over the raw
	// webhook body. The body must not be re-parsed before verification.
	VerifyWebhookSignature(body []byte, signature string) bool

	// KeyID is the public key id the browser checkout widget needs.
	KeyID() string
}
