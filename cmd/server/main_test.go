package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"vastra-be/internal/cart"
	"vastra-be/internal/coupon"
	"vastra-be/internal/metrics"
	"vastra-be/internal/order"
	"vastra-be/internal/payment"
	"vastra-be/internal/payment/webhook"
	"vastra-be/internal/product"
	"vastra-be/internal/settings"
	"vastra-be/internal/user"

	"github.com/stretchr/testify/assert"
)

// testMux builds the route table with inert handlers; the cases below only
// exercise method/path matching and the auth guards in front of handlers.
func testMux() *http.ServeMux {
	reg := metrics.NewRegistry()
	gateway := payment.NewRazorpayGateway("rzp_test_key", "test_secret", "whsec_123")
	return routes(routeHandlers{
		user:     user.NewHandler(nil),
		product:  product.NewHandler(nil),
		cart:     cart.NewHandler(nil),
		coupon:   coupon.NewHandler(nil),
		settings: settings.NewHandler(nil),
		order:    order.NewHandler(nil, storeName),
		payment:  payment.NewHandler(nil),
		webhook:  webhook.NewWebhookHandler(nil, gateway, reg),
		metrics:  reg,
	})
}

func TestRoutes_CancelUsesPut(t *testing.T) {
	mux := testMux()

	t.Run("PUT matches", func(t *testing.T) {
		// An anonymous request reaches the auth guard, proving the route
		// and method matched.
		r := httptest.NewRequest("PUT", "/api/v1/orders/1/cancel", nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("POST rejected", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/api/v1/orders/1/cancel", nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, r)
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}

func TestRoutes_WebhookPath(t *testing.T) {
	mux := testMux()

	t.Run("Mounted at /payments/webhook", func(t *testing.T) {
		// A garbage signature reaches the webhook handler's rejection path,
		// proving the route matched without any auth guard in front.
		r := httptest.NewRequest("POST", "/api/v1/payments/webhook", strings.NewReader(`{}`))
		r.Header.Set("X-Razorpay-Signature", "bogus")
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, r)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("No gateway-suffixed alias", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/api/v1/payments/webhook/razorpay", strings.NewReader(`{}`))
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, r)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
