package settings

import (
	"encoding/json"
	"net/http"

	"vastra-be/internal/api"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.repo.Get(r.Context())
	if err != nil {
		api.Error(w, "Failed to fetch settings", http.StatusInternalServerError)
		return
	}
	api.Success(w, map[string]interface{}{"settings": s}, "OK")
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var s Settings
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		api.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if s.ShippingCharge < 0 {
		api.Error(w, "Shipping charge cannot be negative", http.StatusBadRequest)
		return
	}

	if err := h.repo.Update(r.Context(), &s); err != nil {
		api.Error(w, "Failed to update settings", http.StatusInternalServerError)
		return
	}

	api.Success(w, map[string]interface{}{"settings": s}, "Settings updated")
}
