package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"vastra-be/internal/utils"

	"github.com/stretchr/testify/assert"
)

func TestResolveRateTier(t *testing.T) {
	tests := []struct {
		path string
		tier string
	}{
		{"/api/v1/auth/login", "strict"},
		{"/api/v1/payments/verify", "strict"},
		{"/api/v1/payments/webhook", "strict"},
		{"/api/v1/products", "general"},
		{"/api/v1/orders", "general"},
		{"/healthz", "general"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.path, nil)
			_, _, tier := resolveRateTier(r)
			assert.Equal(t, tt.tier, tier)
		})
	}
}

func TestRateLimit_StrictTierExhausts(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := RateLimit(ok)

	send := func() int {
		r := httptest.NewRequest("POST", "/api/v1/auth/login", nil)
		r.RemoteAddr = "203.0.113.10:1234"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		return w.Code
	}

	// Burst allows the first few requests, then the bucket runs dry.
	for i := 0; i < burstStrict; i++ {
		assert.Equal(t, http.StatusNoContent, send(), "request %d should pass", i+1)
	}
	assert.Equal(t, http.StatusTooManyRequests, send())
}

func TestRateLimit_AuthenticatedUsersGetOwnBucket(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := RateLimit(ok)

	send := func(userID uint) int {
		r := httptest.NewRequest("POST", "/api/v1/auth/login", nil)
		r.RemoteAddr = "203.0.113.20:1234"
		ctx := utils.SetUserContext(r.Context(), userID, fmt.Sprintf("u%d@example.com", userID), utils.RoleUser)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r.WithContext(ctx))
		return w.Code
	}

	// Drain one user's bucket entirely.
	for i := 0; i < burstStrict; i++ {
		send(101)
	}
	assert.Equal(t, http.StatusTooManyRequests, send(101))

	// A different user behind the same IP is unaffected.
	assert.Equal(t, http.StatusNoContent, send(102))
}
