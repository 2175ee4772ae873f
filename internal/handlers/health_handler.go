package handlers

import (
	"encoding/json"
	"net/http"

	"aguada-backend/internal/health"
)

type HealthHandler struct {
	checker *health.HealthChecker
}

func NewHealthHandler(checker *health.HealthChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	status := h.checker.CheckBasic()

	code := http.StatusOK
	if status.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(status)
}
