package main

import (
	"net/http"

	"vastra-be/internal/api"
	"vastra-be/internal/cart"
	"vastra-be/internal/config"
	"vastra-be/internal/coupon"
	"vastra-be/internal/db"
	"vastra-be/internal/logger"
	"vastra-be/internal/metrics"
	"vastra-be/internal/middleware"
	"vastra-be/internal/notification"
	"vastra-be/internal/order"
	"vastra-be/internal/payment"
	"vastra-be/internal/payment/webhook"
	"vastra-be/internal/product"
	"vastra-be/internal/settings"
	"vastra-be/internal/user"

	"go.uber.org/zap"
)

const storeName = "VastraPoint"

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	reg := metrics.NewRegistry()

	dispatcher := notification.NewDispatcher(notification.NewSMTPMailer(cfg), 64)
	defer dispatcher.Close()

	gateway := payment.NewRazorpayGateway(cfg.RazorpayKeyID, cfg.RazorpaySecret, cfg.RazorpayWebhookSecret)

	productRepo := product.NewRepository(database)
	productSvc := product.NewService(productRepo)

	userRepo := user.NewRepository(database)
	userSvc := user.NewService(userRepo)

	cartRepo := cart.NewRepository(database)
	cartSvc := cart.NewService(cartRepo, productRepo)

	couponRepo := coupon.NewRepository(database)
	couponSvc := coupon.NewService(couponRepo)

	settingsRepo := settings.NewRepository(database)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, productRepo, cartRepo, couponSvc,
		settingsRepo, userRepo, dispatcher, reg, cfg.AdminEmail)

	paymentRepo := payment.NewRepository(database)
	paymentSvc := payment.NewService(paymentRepo, orderRepo, userRepo, gateway,
		dispatcher, reg, cfg.AdminEmail)

	mux := routes(routeHandlers{
		user:     user.NewHandler(userSvc),
		product:  product.NewHandler(productSvc),
		cart:     cart.NewHandler(cartSvc),
		coupon:   coupon.NewHandler(couponSvc),
		settings: settings.NewHandler(settingsRepo),
		order:    order.NewHandler(orderSvc, storeName),
		payment:  payment.NewHandler(paymentSvc),
		webhook:  webhook.NewWebhookHandler(paymentSvc, gateway, reg),
		metrics:  reg,
	})

	handler := logger.RequestIDMiddleware(
		logger.LoggingMiddleware(
			middleware.Auth(
				middleware.RateLimit(mux),
			),
		),
	)

	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}

	logger.L().Info("🚀 API server running", zap.String("port", port))
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}

type routeHandlers struct {
	user     *user.Handler
	product  *product.Handler
	cart     *cart.Handler
	coupon   *coupon.Handler
	settings *settings.Handler
	order    *order.Handler
	payment  *payment.Handler
	webhook  *webhook.Handler
	metrics  *metrics.Registry
}

func routes(h routeHandlers) *http.ServeMux {
	userHandler := h.user
	productHandler := h.product
	cartHandler := h.cart
	couponHandler := h.coupon
	settingsHandler := h.settings
	orderHandler := h.order
	paymentHandler := h.payment
	webhookHandler := h.webhook
	reg := h.metrics

	mux := http.NewServeMux()

	// Auth
	mux.HandleFunc("POST /api/v1/auth/register", userHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/login", userHandler.Login)
	mux.HandleFunc("GET /api/v1/auth/me", middleware.RequireAuth(userHandler.Me))

	// Catalog (public)
	mux.HandleFunc("GET /api/v1/products", productHandler.List)
	mux.HandleFunc("GET /api/v1/products/{id}", productHandler.Get)

	// Cart
	mux.HandleFunc("GET /api/v1/cart", middleware.RequireAuth(cartHandler.Get))
	mux.HandleFunc("POST /api/v1/cart", middleware.RequireAuth(cartHandler.Add))
	mux.HandleFunc("PATCH /api/v1/cart/{id}", middleware.RequireAuth(cartHandler.UpdateQuantity))
	mux.HandleFunc("DELETE /api/v1/cart/{id}", middleware.RequireAuth(cartHandler.Remove))
	mux.HandleFunc("DELETE /api/v1/cart", middleware.RequireAuth(cartHandler.Clear))

	// Coupons
	mux.HandleFunc("POST /api/v1/coupons/validate", middleware.RequireAuth(couponHandler.Validate))
	mux.HandleFunc("GET /api/v1/admin/coupons", middleware.RequireAdmin(couponHandler.List))
	mux.HandleFunc("POST /api/v1/admin/coupons", middleware.RequireAdmin(couponHandler.Create))
	mux.HandleFunc("PUT /api/v1/admin/coupons/{id}", middleware.RequireAdmin(couponHandler.Update))
	mux.HandleFunc("DELETE /api/v1/admin/coupons/{id}", middleware.RequireAdmin(couponHandler.Delete))

	// Orders
	mux.HandleFunc("POST /api/v1/orders", middleware.RequireAuth(orderHandler.Create))
	mux.HandleFunc("GET /api/v1/orders", middleware.RequireAuth(orderHandler.ListMine))
	mux.HandleFunc("GET /api/v1/orders/{id}", middleware.RequireAuth(orderHandler.Get))
	mux.HandleFunc("PUT /api/v1/orders/{id}/cancel", middleware.RequireAuth(orderHandler.Cancel))
	mux.HandleFunc("GET /api/v1/orders/{id}/invoice", middleware.RequireAuth(orderHandler.Invoice))
	mux.HandleFunc("PATCH /api/v1/admin/orders/{id}/status", middleware.RequireAdmin(orderHandler.UpdateStatus))
	mux.HandleFunc("POST /api/v1/admin/orders/{id}/refund", middleware.RequireAdmin(paymentHandler.Refund))

	// Payments
	mux.HandleFunc("POST /api/v1/payments/create-order", middleware.RequireAuth(paymentHandler.CreateGatewayOrder))
	mux.HandleFunc("POST /api/v1/payments/verify", middleware.RequireAuth(paymentHandler.Verify))
	mux.HandleFunc("GET /api/v1/payments/order/{id}", middleware.RequireAuth(paymentHandler.GetByOrder))
	mux.HandleFunc("POST /api/v1/payments/webhook", webhookHandler.WebhookHandler)

	// Store settings
	mux.HandleFunc("GET /api/v1/settings", settingsHandler.Get)
	mux.HandleFunc("PUT /api/v1/admin/settings", middleware.RequireAdmin(settingsHandler.Update))

	// Ops
	mux.HandleFunc("GET /api/v1/admin/metrics", middleware.RequireAdmin(func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, reg.Snapshot(), "OK")
	}))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return mux
}
