package order

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"vastra-be/internal/api"
	"vastra-be/internal/product"
	"vastra-be/internal/utils"
)

type Handler struct {
	svc       Service
	storeName string
}

func NewHandler(svc Service, storeName string) *Handler {
	return &Handler{svc: svc, storeName: storeName}
}

type createOrderRequest struct {
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	CouponCode      string          `json:"couponCode,omitempty"`
	PaymentMethod   string          `json:"paymentMethod,omitempty"`
}

func validateAddress(a ShippingAddress) []string {
	var errs []string
	if strings.TrimSpace(a.FullName) == "" {
		errs = append(errs, "shippingAddress.fullName is required")
	}
	if strings.TrimSpace(a.Phone) == "" {
		errs = append(errs, "shippingAddress.phone is required")
	}
	if strings.TrimSpace(a.AddressLine1) == "" {
		errs = append(errs, "shippingAddress.addressLine1 is required")
	}
	if strings.TrimSpace(a.City) == "" {
		errs = append(errs, "shippingAddress.city is required")
	}
	if strings.TrimSpace(a.Pincode) == "" {
		errs = append(errs, "shippingAddress.pincode is required")
	}
	return errs
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if errs := validateAddress(req.ShippingAddress); len(errs) > 0 {
		api.ValidationError(w, "Validation failed", errs)
		return
	}
	if req.ShippingAddress.Country == "" {
		req.ShippingAddress.Country = "India"
	}

	method := MethodRazorpay
	switch req.PaymentMethod {
	case "", string(MethodRazorpay):
	case string(MethodCOD):
		method = MethodCOD
	default:
		api.Error(w, "Unsupported payment method", http.StatusBadRequest)
		return
	}

	o, err := h.svc.Create(r.Context(), userID, CreateOrderInput{
		ShippingAddress: req.ShippingAddress,
		CouponCode:      req.CouponCode,
		PaymentMethod:   method,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyCart):
			api.Error(w, "Cart is empty", http.StatusBadRequest)
		case errors.Is(err, product.ErrProductUnavailable):
			api.Error(w, "A product in your cart is no longer available", http.StatusBadRequest)
		case errors.Is(err, product.ErrInsufficientStock):
			api.Error(w, "A product in your cart does not have enough stock", http.StatusBadRequest)
		default:
			api.Error(w, "Failed to place order", http.StatusInternalServerError)
		}
		return
	}

	api.Created(w, map[string]interface{}{"order": o}, "Order placed successfully")
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())
	page, limit := utils.ParsePagination(r.URL.Query().Get("page"), r.URL.Query().Get("limit"))

	orders, total, err := h.svc.ListMine(r.Context(), userID, page, limit)
	if err != nil {
		api.Error(w, "Failed to fetch orders", http.StatusInternalServerError)
		return
	}
	if orders == nil {
		orders = []*Order{}
	}

	api.Paginated(w, orders, api.NewPagination(page, limit, total))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) (*Order, bool) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	orderID, err := utils.ToUint(r.PathValue("id"))
	if err != nil {
		api.Error(w, "Invalid order id", http.StatusBadRequest)
		return nil, false
	}

	o, err := h.svc.Get(r.Context(), userID, utils.IsAdmin(r.Context()), orderID)
	if err != nil {
		switch {
		case errors.Is(err, ErrOrderNotFound):
			api.Error(w, "Order not found", http.StatusNotFound)
		case errors.Is(err, ErrUnauthorized):
			api.Error(w, "Not authorized", http.StatusForbidden)
		default:
			api.Error(w, "Failed to fetch order", http.StatusInternalServerError)
		}
		return nil, false
	}
	return o, true
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	o, ok := h.get(w, r)
	if !ok {
		return
	}
	api.Success(w, map[string]interface{}{"order": o}, "OK")
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	orderID, err := utils.ToUint(r.PathValue("id"))
	if err != nil {
		api.Error(w, "Invalid order id", http.StatusBadRequest)
		return
	}

	o, err := h.svc.Cancel(r.Context(), userID, orderID)
	if err != nil {
		switch {
		case errors.Is(err, ErrOrderNotFound):
			api.Error(w, "Order not found", http.StatusNotFound)
		case errors.Is(err, ErrUnauthorized):
			api.Error(w, "Not authorized", http.StatusForbidden)
		case errors.Is(err, ErrInvalidState):
			api.Error(w, "Order cannot be cancelled at this stage", http.StatusBadRequest)
		default:
			api.Error(w, "Failed to cancel order", http.StatusInternalServerError)
		}
		return
	}

	api.Success(w, map[string]interface{}{"order": o}, "Order cancelled successfully")
}

func (h *Handler) Invoice(w http.ResponseWriter, r *http.Request) {
	o, ok := h.get(w, r)
	if !ok {
		return
	}

	doc := RenderInvoice(o, h.storeName)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=invoice-%s.txt", o.OrderNumber))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

type updateStatusRequest struct {
	Status   string        `json:"status"`
	Tracking *TrackingInfo `json:"trackingInfo,omitempty"`
}

// UpdateStatus is admin-only; routing enforces the role.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := utils.ToUint(r.PathValue("id"))
	if err != nil {
		api.Error(w, "Invalid order id", http.StatusBadRequest)
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.svc.UpdateStatus(r.Context(), orderID, Status(req.Status), req.Tracking); err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			api.Error(w, "Order not found", http.StatusNotFound)
			return
		}
		api.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	api.Success(w, nil, "Order status updated")
}
