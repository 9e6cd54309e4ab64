package user

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"vastra-be/internal/api"
	"vastra-be/internal/utils"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var errs []string
	if strings.TrimSpace(req.Name) == "" {
		errs = append(errs, "name is required")
	}
	if !strings.Contains(req.Email, "@") {
		errs = append(errs, "a valid email is required")
	}
	if len(req.Password) < 6 {
		errs = append(errs, "password must be at least 6 characters")
	}
	if len(errs) > 0 {
		api.ValidationError(w, "Validation failed", errs)
		return
	}

	token, u, err := h.svc.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			api.Error(w, "Email already registered", http.StatusBadRequest)
			return
		}
		api.Error(w, "Registration failed", http.StatusInternalServerError)
		return
	}

	api.Created(w, authResponse{Token: token, User: u}, "Registered successfully")
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	token, u, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			api.Error(w, "Invalid email or password", http.StatusUnauthorized)
			return
		}
		api.Error(w, "Login failed", http.StatusInternalServerError)
		return
	}

	api.Success(w, authResponse{Token: token, User: u}, "Logged in successfully")
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		api.Error(w, "Not authorized", http.StatusUnauthorized)
		return
	}

	u, err := h.svc.GetByID(r.Context(), userID)
	if err != nil {
		api.Error(w, "User not found", http.StatusNotFound)
		return
	}

	api.Success(w, map[string]interface{}{"user": u}, "OK")
}
