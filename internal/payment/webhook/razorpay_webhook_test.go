package webhook

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"vastra-be/internal/metrics"
	"vastra-be/internal/order"
	"vastra-be/internal/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) CreateGatewayOrder(ctx context.Context, userID, orderID uint) (*payment.CheckoutSession, error) {
	args := m.Called(ctx, userID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.CheckoutSession), args.Error(1)
}

func (m *MockPaymentService) VerifyPayment(ctx context.Context, userID uint, input payment.VerifyInput) (*order.Order, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockPaymentService) HandleCaptured(ctx context.Context, entity payment.PaymentEntity) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *MockPaymentService) HandleFailed(ctx context.Context, entity payment.PaymentEntity) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *MockPaymentService) InitiateRefund(ctx context.Context, orderID uint) (*payment.RefundResult, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.RefundResult), args.Error(1)
}

func (m *MockPaymentService) GetByOrder(ctx context.Context, userID uint, isAdmin bool, orderID uint) (*payment.Payment, error) {
	args := m.Called(ctx, userID, isAdmin, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

// stubGateway accepts or rejects every signature.
type stubGateway struct {
	payment.Gateway
	valid bool
}

func (s *stubGateway) VerifyWebhookSignature(body []byte, signature string) bool {
	return s.valid
}

func post(h *Handler, body string, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/api/v1/payments/webhook", bytes.NewBufferString(body))
	req.Header.Set("X-Razorpay-Signature", signature)
	rec := httptest.NewRecorder()
	h.WebhookHandler(rec, req)
	return rec
}

const capturedBody = `{
	"event": "payment.captured",
	"payload": {
		"payment": {
			"entity": {
				"id": "pay_abc",
				"order_id": "order_rzp1",
				"method": "upi"
			}
		}
	}
}`

func TestWebhookHandler(t *testing.T) {
	t.Run("RejectedSignature", func(t *testing.T) {
		svc := new(MockPaymentService)
		reg := metrics.NewRegistry()
		h := NewWebhookHandler(svc, &stubGateway{valid: false}, reg)

		rec := post(h, capturedBody, "bad-sig")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, uint64(1), reg.WebhooksRejected.Load())
		svc.AssertNotCalled(t, "HandleCaptured", mock.Anything, mock.Anything)
	})

	t.Run("CapturedEvent", func(t *testing.T) {
		svc := new(MockPaymentService)
		reg := metrics.NewRegistry()
		h := NewWebhookHandler(svc, &stubGateway{valid: true}, reg)

		svc.On("HandleCaptured", mock.Anything, payment.PaymentEntity{
			ID:      "pay_abc",
			OrderID: "order_rzp1",
			Method:  "upi",
		}).Return(nil)

		rec := post(h, capturedBody, "good-sig")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"ok"`)
		assert.Equal(t, uint64(1), reg.WebhooksReceived.Load())
		svc.AssertExpectations(t)
	})

	t.Run("FailedEvent", func(t *testing.T) {
		svc := new(MockPaymentService)
		h := NewWebhookHandler(svc, &stubGateway{valid: true}, metrics.NewRegistry())

		body := `{
			"event": "payment.failed",
			"payload": {
				"payment": {
					"entity": {
						"id": "pay_abc",
						"order_id": "order_rzp1",
						"error_code": "BAD_REQUEST_ERROR",
						"error_description": "Payment declined"
					}
				}
			}
		}`
		svc.On("HandleFailed", mock.Anything, mock.MatchedBy(func(e payment.PaymentEntity) bool {
			return e.OrderID == "order_rzp1" && e.ErrorCode == "BAD_REQUEST_ERROR"
		})).Return(nil)

		rec := post(h, body, "good-sig")

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("IgnoredEvent", func(t *testing.T) {
		svc := new(MockPaymentService)
		h := NewWebhookHandler(svc, &stubGateway{valid: true}, metrics.NewRegistry())

		rec := post(h, `{"event":"order.paid","payload":{"payment":{"entity":{}}}}`, "good-sig")

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertNotCalled(t, "HandleCaptured", mock.Anything, mock.Anything)
		svc.AssertNotCalled(t, "HandleFailed", mock.Anything, mock.Anything)
	})

	t.Run("UnknownOrder_Acknowledged", func(t *testing.T) {
		// Razorpay retries on non-2xx; an order we will never know about
		// must be acknowledged, not retried forever.
		svc := new(MockPaymentService)
		h := NewWebhookHandler(svc, &stubGateway{valid: true}, metrics.NewRegistry())

		svc.On("HandleCaptured", mock.Anything, mock.Anything).Return(order.ErrOrderNotFound)

		rec := post(h, capturedBody, "good-sig")

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("ServiceError", func(t *testing.T) {
		svc := new(MockPaymentService)
		h := NewWebhookHandler(svc, &stubGateway{valid: true}, metrics.NewRegistry())

		svc.On("HandleCaptured", mock.Anything, mock.Anything).Return(assert.AnError)

		rec := post(h, capturedBody, "good-sig")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		svc := new(MockPaymentService)
		h := NewWebhookHandler(svc, &stubGateway{valid: true}, metrics.NewRegistry())

		rec := post(h, `{not-json`, "good-sig")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
