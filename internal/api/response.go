package api

import (
	"encoding/json"
	"net/http"
)

// Envelope is the uniform response shape used across the whole API.
type Envelope struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Errors     []string    `json:"errors,omitempty"`
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

func write(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

func Success(w http.ResponseWriter, data interface{}, message string) {
	write(w, http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

func Created(w http.ResponseWriter, data interface{}, message string) {
	write(w, http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

func Paginated(w http.ResponseWriter, data interface{}, p Pagination) {
	write(w, http.StatusOK, Envelope{Success: true, Message: "OK", Data: data, Pagination: &p})
}

func Error(w http.ResponseWriter, message string, status int) {
	write(w, status, Envelope{Success: false, Message: message})
}

func ValidationError(w http.ResponseWriter, message string, errs []string) {
	write(w, http.StatusBadRequest, Envelope{Success: false, Message: message, Errors: errs})
}

func NewPagination(page, limit int, total int64) Pagination {
	pages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}
