package cart

import (
	"encoding/json"
	"errors"
	"net/http"

	"vastra-be/internal/api"
	"vastra-be/internal/product"
	"vastra-be/internal/utils"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	items, err := h.svc.GetCart(r.Context(), userID)
	if err != nil {
		api.Error(w, "Failed to fetch cart", http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []*Item{}
	}

	api.Success(w, map[string]interface{}{"items": items}, "OK")
}

type addItemRequest struct {
	ProductID uint   `json:"productId"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity"`
}

func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	item, err := h.svc.AddItem(r.Context(), AddItemParams{
		UserID:    userID,
		ProductID: req.ProductID,
		Size:      req.Size,
		Color:     req.Color,
		Quantity:  req.Quantity,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidQuantity):
			api.Error(w, "Quantity must be greater than zero", http.StatusBadRequest)
		case errors.Is(err, product.ErrProductNotFound),
			errors.Is(err, product.ErrProductUnavailable):
			api.Error(w, "Product not available", http.StatusNotFound)
		case errors.Is(err, product.ErrInsufficientStock):
			api.Error(w, "Not enough stock available", http.StatusBadRequest)
		default:
			api.Error(w, "Failed to add to cart", http.StatusInternalServerError)
		}
		return
	}

	api.Created(w, map[string]interface{}{"item": item}, "Added to cart")
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	itemID, err := utils.ToUint(r.PathValue("id"))
	if err != nil {
		api.Error(w, "Invalid cart item id", http.StatusBadRequest)
		return
	}

	var req updateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.svc.UpdateQuantity(r.Context(), userID, itemID, req.Quantity); err != nil {
		switch {
		case errors.Is(err, ErrInvalidQuantity):
			api.Error(w, "Quantity must be greater than zero", http.StatusBadRequest)
		case errors.Is(err, ErrCartItemNotFound):
			api.Error(w, "Cart item not found", http.StatusNotFound)
		default:
			api.Error(w, "Failed to update cart", http.StatusInternalServerError)
		}
		return
	}

	api.Success(w, nil, "Cart updated")
}

func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	itemID, err := utils.ToUint(r.PathValue("id"))
	if err != nil {
		api.Error(w, "Invalid cart item id", http.StatusBadRequest)
		return
	}

	if err := h.svc.RemoveItem(r.Context(), userID, itemID); err != nil {
		if errors.Is(err, ErrCartItemNotFound) {
			api.Error(w, "Cart item not found", http.StatusNotFound)
			return
		}
		api.Error(w, "Failed to remove from cart", http.StatusInternalServerError)
		return
	}

	api.Success(w, nil, "Removed from cart")
}

func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	if err := h.svc.Clear(r.Context(), userID); err != nil {
		api.Error(w, "Failed to clear cart", http.StatusInternalServerError)
		return
	}

	api.Success(w, nil, "Cart cleared")
}
