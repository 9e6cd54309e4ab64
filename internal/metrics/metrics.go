package metrics

import (
	"sync/atomic"
	"time"
)

type Counter struct {
	value uint64
}

func (c *Counter) Inc() {
	atomic.AddUint64(&c.value, 1)
}

func (c *Counter) Add(n uint64) {
	atomic.AddUint64(&c.value, n)
}

func (c *Counter) Load() uint64 {
	return atomic.LoadUint64(&c.value)
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// Registry holds the process-wide storefront counters.
type Registry struct {
	OrdersCreated     Counter
	OrdersCancelled   Counter
	PaymentsCaptured  Counter
	PaymentsFailed    Counter
	RefundsInitiated  Counter
	WebhooksReceived  Counter
	WebhooksRejected  Counter
	WebhooksDuplicate Counter
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Snapshot returns a point-in-time copy of every counter, keyed for the
// admin metrics endpoint.
func (r *Registry) Snapshot() map[string]uint64 {
	return map[string]uint64{
		"orders_created":     r.OrdersCreated.Load(),
		"orders_cancelled":   r.OrdersCancelled.Load(),
		"payments_captured":  r.PaymentsCaptured.Load(),
		"payments_failed":    r.PaymentsFailed.Load(),
		"refunds_initiated":  r.RefundsInitiated.Load(),
		"webhooks_received":  r.WebhooksReceived.Load(),
		"webhooks_rejected":  r.WebhooksRejected.Load(),
		"webhooks_duplicate": r.WebhooksDuplicate.Load(),
	}
}
