package coupon

import (
	"encoding/json"
	"errors"
	"net/http"

	"vastra-be/internal/api"
	"vastra-be/internal/utils"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

type validateRequest struct {
	Code      string  `json:"code"`
	CartTotal float64 `json:"cartTotal"`
}

func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		api.Error(w, "Coupon code is required", http.StatusBadRequest)
		return
	}

	c, discount, err := h.svc.Check(r.Context(), req.Code, req.CartTotal)
	if err != nil {
		var invalid *ErrInvalidCoupon
		switch {
		case errors.Is(err, ErrCouponNotFound):
			api.Error(w, "Invalid coupon code", http.StatusNotFound)
		case errors.As(err, &invalid):
			api.Error(w, invalid.Message, http.StatusBadRequest)
		default:
			api.Error(w, "Failed to validate coupon", http.StatusInternalServerError)
		}
		return
	}

	api.Success(w, map[string]interface{}{
		"coupon": map[string]interface{}{
			"code":          c.Code,
			"discountType":  c.DiscountType,
			"discountValue": c.DiscountValue,
		},
		"discount":    discount,
		"finalAmount": req.CartTotal - discount,
	}, "Coupon applied successfully")
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.svc.List(r.Context())
	if err != nil {
		api.Error(w, "Failed to fetch coupons", http.StatusInternalServerError)
		return
	}
	api.Success(w, coupons, "OK")
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var c Coupon
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		api.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var errs []string
	if c.Code == "" {
		errs = append(errs, "code is required")
	}
	if c.DiscountType != DiscountPercent && c.DiscountType != DiscountFixed {
		errs = append(errs, "discountType must be percent or fixed")
	}
	if c.DiscountValue <= 0 {
		errs = append(errs, "discountValue must be positive")
	}
	if c.ValidUntil.IsZero() {
		errs = append(errs, "validUntil is required")
	}
	if len(errs) > 0 {
		api.ValidationError(w, "Validation failed", errs)
		return
	}

	if err := h.svc.Create(r.Context(), &c); err != nil {
		api.Error(w, "Failed to create coupon", http.StatusInternalServerError)
		return
	}

	api.Created(w, map[string]interface{}{"coupon": c}, "Coupon created successfully")
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ToUint(r.PathValue("id"))
	if err != nil {
		api.Error(w, "Invalid coupon id", http.StatusBadRequest)
		return
	}

	var c Coupon
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		api.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	c.ID = id

	if err := h.svc.Update(r.Context(), &c); err != nil {
		if errors.Is(err, ErrCouponNotFound) {
			api.Error(w, "Coupon not found", http.StatusNotFound)
			return
		}
		api.Error(w, "Failed to update coupon", http.StatusInternalServerError)
		return
	}

	api.Success(w, map[string]interface{}{"coupon": c}, "Coupon updated")
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ToUint(r.PathValue("id"))
	if err != nil {
		api.Error(w, "Invalid coupon id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrCouponNotFound) {
			api.Error(w, "Coupon not found", http.StatusNotFound)
			return
		}
		api.Error(w, "Failed to delete coupon", http.StatusInternalServerError)
		return
	}

	api.Success(w, nil, "Coupon deleted")
}
