package product

import (
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

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, limit := utils.ParsePagination(q.Get("page"), q.Get("limit"))

	products, total, err := h.svc.List(r.Context(), ListOptions{
		Category: q.Get("category"),
		Search:   q.Get("search"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		api.Error(w, "Failed to fetch products", http.StatusInternalServerError)
		return
	}

	api.Paginated(w, products, api.NewPagination(page, limit, total))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ToUint(r.PathValue("id"))
	if err != nil {
		api.Error(w, "Invalid product id", http.StatusBadRequest)
		return
	}

	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			api.Error(w, "Product not found", http.StatusNotFound)
			return
		}
		api.Error(w, "Failed to fetch product", http.StatusInternalServerError)
		return
	}

	api.Success(w, map[string]interface{}{"product": p}, "OK")
}
