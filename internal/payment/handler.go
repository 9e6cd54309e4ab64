package payment

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"vastra-be/internal/api"
	"vastra-be/internal/order"
	"vastra-be/internal/utils"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

type createGatewayOrderRequest struct {
	OrderID uint `json:"orderId"`
}

func (h *Handler) CreateGatewayOrder(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var req createGatewayOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.OrderID == 0 {
		api.ValidationError(w, "Validation failed", []string{"orderId is required"})
		return
	}

	session, err := h.svc.CreateGatewayOrder(r.Context(), userID, req.OrderID)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrOrderNotFound):
			api.Error(w, "Order not found", http.StatusNotFound)
		case errors.Is(err, order.ErrUnauthorized):
			api.Error(w, "Not authorized", http.StatusForbidden)
		case errors.Is(err, order.ErrInvalidState):
			api.Error(w, "Order is not awaiting payment", http.StatusBadRequest)
		default:
			api.Error(w, "Failed to initiate payment", http.StatusInternalServerError)
		}
		return
	}

	api.Created(w, map[string]interface{}{"checkout": session}, "Payment initiated")
}

func validateVerify(in VerifyInput) []string {
	var errs []string
	if strings.TrimSpace(in.RazorpayOrderID) == "" {
		errs = append(errs, "razorpay_order_id is required")
	}
	if strings.TrimSpace(in.RazorpayPaymentID) == "" {
		errs = append(errs, "razorpay_payment_id is required")
	}
	if strings.TrimSpace(in.RazorpaySignature) == "" {
		errs = append(errs, "razorpay_signature is required")
	}
	return errs
}

func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var req VerifyInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if errs := validateVerify(req); len(errs) > 0 {
		api.ValidationError(w, "Validation failed", errs)
		return
	}

	o, err := h.svc.VerifyPayment(r.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrSignatureMismatch):
			api.Error(w, "Payment verification failed", http.StatusBadRequest)
		case errors.Is(err, order.ErrOrderNotFound):
			api.Error(w, "Order not found", http.StatusNotFound)
		case errors.Is(err, order.ErrUnauthorized):
			api.Error(w, "Not authorized", http.StatusForbidden)
		default:
			api.Error(w, "Failed to verify payment", http.StatusInternalServerError)
		}
		return
	}

	api.Success(w, map[string]interface{}{"order": o}, "Payment verified successfully")
}

func (h *Handler) GetByOrder(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	orderID, err := utils.ToUint(r.PathValue("id"))
	if err != nil {
		api.Error(w, "Invalid order id", http.StatusBadRequest)
		return
	}

	p, err := h.svc.GetByOrder(r.Context(), userID, utils.IsAdmin(r.Context()), orderID)
	if err != nil {
		switch {
		case errors.Is(err, ErrPaymentNotFound):
			api.Error(w, "Payment not found", http.StatusNotFound)
		case errors.Is(err, order.ErrUnauthorized):
			api.Error(w, "Not authorized", http.StatusForbidden)
		default:
			api.Error(w, "Failed to fetch payment", http.StatusInternalServerError)
		}
		return
	}

	api.Success(w, map[string]interface{}{"payment": p}, "OK")
}

// Refund is admin-only; routing enforces the role.
func (h *Handler) Refund(w http.ResponseWriter, r *http.Request) {
	orderID, err := utils.ToUint(r.PathValue("id"))
	if err != nil {
		api.Error(w, "Invalid order id", http.StatusBadRequest)
		return
	}

	res, err := h.svc.InitiateRefund(r.Context(), orderID)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrOrderNotFound):
			api.Error(w, "Order not found", http.StatusNotFound)
		case errors.Is(err, order.ErrNotPaid):
			api.Error(w, "Order has no captured payment to refund", http.StatusBadRequest)
		default:
			api.Error(w, "Failed to initiate refund", http.StatusInternalServerError)
		}
		return
	}

	api.Success(w, map[string]interface{}{
		"refundId": res.ID,
		"amount":   res.Amount,
		"status":   res.Status,
	}, "Refund initiated")
}
