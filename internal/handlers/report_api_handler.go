package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"aguada-backend/internal/apperrors"
	"aguada-backend/internal/cache"
	"aguada-backend/internal/metrics"
	"aguada-backend/internal/models"
	"aguada-backend/internal/services"
	"aguada-backend/pkg/utils"
)

// ReportAPIHandler is the single action-dispatched endpoint of the
// ledger: /api/relatorios?action=... The action comes from the query
// string and defaults to list, matching the legacy wire contract.
type ReportAPIHandler struct {
	Reports *services.ReportService
	Balance *services.BalanceService
	Supply  *services.SupplyService
	Pending *services.PendingService
}

func NewReportAPIHandler(
	reports *services.ReportService,
	balance *services.BalanceService,
	supply *services.SupplyService,
	pending *services.PendingService,
) *ReportAPIHandler {
	return &ReportAPIHandler{
		Reports: reports,
		Balance: balance,
		Supply:  supply,
		Pending: pending,
	}
}

func (h *ReportAPIHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	action := r.URL.Query().Get("action")
	if action == "" {
		action = "list"
	}

	switch action {
	case "list":
		h.list(w, r)
	case "create":
		h.create(w, r)
	case "get":
		h.get(w, r)
	case "update":
		h.update(w, r)
	case "validate":
		h.validate(w, r)
	case "delete":
		h.delete(w, r)
	case "calcular_balanco":
		h.computeBalance(w, r)
	case "get_balanco_diario":
		h.dailyBalance(w, r)
	case "registrar_abastecimento":
		h.recordSupply(w, r)
	case "get_abastecimentos":
		h.listSupply(w, r)
	case "get_pendentes":
		h.pendingReports(w, r)
	default:
		utils.Error(w, http.StatusBadRequest, fmt.Sprintf("Ação inválida: %s", action))
	}
}

// writeError translates the tagged error types to the JSON envelope.
// Validation, conflict and not-found map to 400; anything else is a
// storage failure and maps to 500 with the store's error text.
func writeError(w http.ResponseWriter, err error) {
	if apperrors.IsClientError(err) {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.Error(w, http.StatusInternalServerError, err.Error())
}

func (h *ReportAPIHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	filter := models.ReportFilter{
		DateStart: q.Get("data_inicio"),
		DateEnd:   q.Get("data_fim"),
		Operator:  q.Get("operador"),
	}
	if v := q.Get("validado"); v != "" {
		validated := v == "true"
		filter.Validated = &validated
	}

	reports, pagination, err := h.Reports.ListReports(r.Context(), filter, page, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if reports == nil {
		reports = []models.ReportSummary{}
	}

	utils.Success(w, map[string]interface{}{
		"data":       reports,
		"pagination": pagination,
	})
}

func (h *ReportAPIHandler) create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}

	id, err := h.Reports.CreateReport(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}

	metrics.ReportsCreated.Inc()
	cache.InvalidateBalanceCaches(r.Context())
	cache.InvalidatePendingCache(r.Context())

	utils.Success(w, map[string]interface{}{
		"relatorio_id": id,
		"message":      "Relatório criado com sucesso",
	})
}

func (h *ReportAPIHandler) get(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.URL.Query().Get("id"))

	report, err := h.Reports.GetReport(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if report.Readings == nil {
		report.Readings = []models.ReservoirReading{}
	}

	utils.Success(w, map[string]interface{}{"data": report})
}

func (h *ReportAPIHandler) update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}

	if err := h.Reports.UpdateReport(r.Context(), &req); err != nil {
		writeError(w, err)
		return
	}

	cache.InvalidateBalanceCaches(r.Context())

	utils.Success(w, map[string]interface{}{
		"message": "Relatório atualizado com sucesso",
	})
}

func (h *ReportAPIHandler) validate(w http.ResponseWriter, r *http.Request) {
	var req models.ValidateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}

	if err := h.Reports.ValidateReport(r.Context(), &req); err != nil {
		writeError(w, err)
		return
	}

	metrics.ReportsValidated.Inc()
	cache.InvalidatePendingCache(r.Context())

	utils.Success(w, map[string]interface{}{
		"message": "Relatório validado com sucesso",
	})
}

func (h *ReportAPIHandler) delete(w http.ResponseWriter, r *http.Request) {
	// id may come from the query string (DELETE) or the body (POST)
	id, _ := strconv.Atoi(r.URL.Query().Get("id"))
	if id == 0 {
		var body struct {
			ID int `json:"id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			id = body.ID
		}
	}

	if err := h.Reports.DeleteReport(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	cache.InvalidateBalanceCaches(r.Context())
	cache.InvalidatePendingCache(r.Context())

	utils.Success(w, map[string]interface{}{
		"message": "Relatório deletado com sucesso",
	})
}

func (h *ReportAPIHandler) computeBalance(w http.ResponseWriter, r *http.Request) {
	var req models.ComputeBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}

	record, err := h.Balance.ComputeBalance(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}

	metrics.BalanceComputations.Inc()

	utils.Success(w, map[string]interface{}{"data": record})
}

func (h *ReportAPIHandler) dailyBalance(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	dateStart := q.Get("data_inicio")
	dateEnd := q.Get("data_fim")
	reservoir := q.Get("reservatorio")

	key := cache.DailyBalanceKey(dateStart, dateEnd, reservoir)
	if cached, ok := cache.GetCached(r.Context(), key); ok {
		utils.Success(w, map[string]interface{}{"data": json.RawMessage(cached)})
		return
	}

	daily, err := h.Balance.DailyBalance(r.Context(), dateStart, dateEnd, reservoir)
	if err != nil {
		writeError(w, err)
		return
	}
	if daily == nil {
		daily = []models.DailyBalance{}
	}

	if data, err := json.Marshal(daily); err == nil {
		cache.SetCached(r.Context(), key, data, 5*time.Minute)
	}

	utils.Success(w, map[string]interface{}{"data": daily})
}

func (h *ReportAPIHandler) recordSupply(w http.ResponseWriter, r *http.Request) {
	var req models.RecordSupplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}

	event, err := h.Supply.RecordSupply(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}

	metrics.SupplyEventsRecorded.Inc()
	cache.InvalidateBalanceCaches(r.Context())

	utils.Success(w, map[string]interface{}{
		"abastecimento_id": event.ID,
		"message":          "Abastecimento registrado com sucesso",
	})
}

func (h *ReportAPIHandler) listSupply(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	events, err := h.Supply.ListSupplyEvents(r.Context(), q.Get("data_inicio"), q.Get("data_fim"))
	if err != nil {
		writeError(w, err)
		return
	}
	if events == nil {
		events = []models.SupplyEvent{}
	}

	utils.Success(w, map[string]interface{}{
		"data":  events,
		"total": len(events),
	})
}

func (h *ReportAPIHandler) pendingReports(w http.ResponseWriter, r *http.Request) {
	if cached, ok := cache.GetCached(r.Context(), cache.PendingReportsKey); ok {
		var entries []models.PendingReportEntry
		if err := json.Unmarshal(cached, &entries); err == nil {
			utils.Success(w, map[string]interface{}{
				"data":  entries,
				"total": len(entries),
			})
			return
		}
	}

	pending, err := h.Pending.PendingReports(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if pending == nil {
		pending = []models.PendingReportEntry{}
	}

	if data, err := json.Marshal(pending); err == nil {
		cache.SetCached(r.Context(), cache.PendingReportsKey, data, time.Minute)
	}

	utils.Success(w, map[string]interface{}{
		"data":  pending,
		"total": len(pending),
	})
}
