package webhook

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"vastra-be/internal/logger"
	"vastra-be/internal/metrics"
	"vastra-be/internal/order"
	"vastra-be/internal/payment"

	"go.uber.org/zap"
)

const signatureHeader = "X-Razorpay-Signature"

// Handler receives Razorpay's asynchronous payment events and feeds them
// into the reconciliation service.
type Handler struct {
	PaymentSvc payment.Service
	Gateway    payment.Gateway
	Metrics    *metrics.Registry
}

func NewWebhookHandler(paymentSvc payment.Service, gateway payment.Gateway, reg *metrics.Registry) *Handler {
	return &Handler{
		PaymentSvc: paymentSvc,
		Gateway:    gateway,
		Metrics:    reg,
	}
}

// WebhookHandler is the actual route handler.
func (h *Handler) WebhookHandler(w http.ResponseWriter, r *http.Request) {
	log := logger.FromCtx(r.Context())
	h.Metrics.WebhooksReceived.Inc()

	// Step 1️⃣ – Read the raw body; the signature covers these exact bytes.
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	// Step 2️⃣ – Verify the signature before trusting anything in the payload
	if !h.Gateway.VerifyWebhookSignature(body, r.Header.Get(signatureHeader)) {
		h.Metrics.WebhooksRejected.Inc()
		log.Warn("❌ webhook signature rejected")
		http.Error(w, "invalid signature", http.StatusBadRequest)
		return
	}

	var event payment.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		http.Error(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}

	log.Info("✅ webhook received",
		zap.String("event", event.Event),
		zap.String("razorpay_order_id", event.Payload.Payment.Entity.OrderID),
	)

	// Step 3️⃣ – Route the event to the reconciliation service
	switch event.Event {
	case "payment.captured":
		err = h.PaymentSvc.HandleCaptured(r.Context(), event.Payload.Payment.Entity)
	case "payment.failed":
		err = h.PaymentSvc.HandleFailed(r.Context(), event.Payload.Payment.Entity)
	default:
		// Acknowledge events we do not act on so Razorpay stops retrying.
		writeOK(w)
		return
	}

	// Step 4️⃣ – Handle update result. An unknown gateway order id is
	// acknowledged: retrying cannot make it known.
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			log.Warn("webhook for unknown order",
				zap.String("razorpay_order_id", event.Payload.Payment.Entity.OrderID),
			)
			writeOK(w)
			return
		}
		log.Error("❌ failed to reconcile webhook", zap.Error(err))
		http.Error(w, "failed to process event", http.StatusInternalServerError)
		return
	}

	writeOK(w)
}

func writeOK(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
