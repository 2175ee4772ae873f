package http

import (
	"aguada-backend/internal/handlers"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	reportAPIHandler *handlers.ReportAPIHandler,
	healthHandler *handlers.HealthHandler,
	monitoringHandler *handlers.MonitoringHandler,
) *mux.Router {
	r := mux.NewRouter()

	// The ledger API is one action-dispatched endpoint; the method is
	// largely irrelevant to the action, so every verb lands on the
	// same dispatcher.
	r.HandleFunc("/api/relatorios", reportAPIHandler.Dispatch).
		Methods("GET", "POST", "PUT", "DELETE")

	// Operational surface
	r.HandleFunc("/health", healthHandler.Check).Methods("GET")
	r.HandleFunc("/api/monitoring/system", monitoringHandler.SystemStats).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return r
}
