package services

import (
	"context"
	"fmt"
	"time"

	"aguada-backend/internal/apperrors"
	"aguada-backend/internal/models"
	"aguada-backend/internal/timeutil"
)

// ReportStore is the persistence surface the report ledger needs.
// *repositories.ReportRepository satisfies it; tests use an in-memory
// fake.
type ReportStore interface {
	Create(ctx context.Context, report *models.ServiceReport, readings []models.ReservoirReading) (int, error)
	Get(ctx context.Context, id int) (*models.ServiceReport, error)
	List(ctx context.Context, f models.ReportFilter, page, limit int) ([]models.ReportSummary, int, error)
	UpdateHeader(ctx context.Context, req *models.UpdateReportRequest) error
	Validate(ctx context.Context, id int, validatedBy string) error
	Delete(ctx context.Context, id int) error
	LatestByShift(ctx context.Context) (map[string]time.Time, error)
}

// ReportService owns creation, retrieval, filtered listing, editing
// and validation-locking of shift reports.
type ReportService struct {
	Store ReportStore
}

func NewReportService(store ReportStore) *ReportService {
	return &ReportService{Store: store}
}

const (
	defaultStatus           = "NORMAL"
	defaultOperationalState = "NORMAL"
)

// CreateReport validates the header, derives per-reading consumption
// and persists header plus readings atomically. Returns the new id.
func (s *ReportService) CreateReport(ctx context.Context, req *models.CreateReportRequest) (int, error) {
	for field, value := range map[string]string{
		"data_relatorio": req.ReportDate,
		"turno":          req.Shift,
		"operador":       req.Operator,
	} {
		if value == "" {
			return 0, apperrors.Validation(fmt.Sprintf("Campo obrigatório: %s", field))
		}
	}
	if _, err := timeutil.ParseDate(req.ReportDate); err != nil {
		return 0, apperrors.Validation("Data inválida: " + req.ReportDate)
	}

	report := &models.ServiceReport{
		ReportDate:        req.ReportDate,
		Shift:             req.Shift,
		Operator:          req.Operator,
		Supervisor:        req.Supervisor,
		OverallStatus:     defaultStatus,
		WeatherConditions: req.WeatherConditions,
		Incidents:         req.Incidents,
		MaintenanceNotes:  req.MaintenanceNotes,
		PendingIssues:     req.PendingIssues,
	}
	if req.OverallStatus != nil && *req.OverallStatus != "" {
		report.OverallStatus = *req.OverallStatus
	}

	readings := make([]models.ReservoirReading, 0, len(req.Readings))
	for _, rr := range req.Readings {
		if rr.ReservoirID == "" {
			return 0, apperrors.Validation("Campo obrigatório: reservatorio_id")
		}
		readings = append(readings, buildReading(rr))
	}

	return s.Store.Create(ctx, report, readings)
}

// buildReading applies defaults and the consumption derivation rule:
// when consumo_litros is absent it is volume_inicial - volume_final,
// which may legitimately be negative (net increase).
func buildReading(rr models.CreateReadingRequest) models.ReservoirReading {
	reading := models.ReservoirReading{
		ReservoirID:      rr.ReservoirID,
		LevelInitialCM:   rr.LevelInitialCM,
		LevelFinalCM:     rr.LevelFinalCM,
		PercentInitial:   rr.PercentInitial,
		PercentFinal:     rr.PercentFinal,
		VolumeInitialL:   rr.VolumeInitialL,
		VolumeFinalL:     rr.VolumeFinalL,
		PumpUsed:         rr.PumpUsed,
		ValveInState:     rr.ValveInState,
		ValveOutState:    rr.ValveOutState,
		OperationalState: defaultOperationalState,
		Notes:            rr.Notes,
		IsAutomatic:      rr.IsAutomatic,
	}
	if rr.OperationalState != nil && *rr.OperationalState != "" {
		reading.OperationalState = *rr.OperationalState
	}
	if rr.SupplyL != nil {
		reading.SupplyL = *rr.SupplyL
	}
	if rr.ConsumptionL != nil {
		reading.ConsumptionL = *rr.ConsumptionL
	} else {
		var initial, final int
		if rr.VolumeInitialL != nil {
			initial = *rr.VolumeInitialL
		}
		if rr.VolumeFinalL != nil {
			final = *rr.VolumeFinalL
		}
		reading.ConsumptionL = initial - final
	}
	return reading
}

// GetReport returns header plus ordered readings.
func (s *ReportService) GetReport(ctx context.Context, id int) (*models.ServiceReport, error) {
	if id <= 0 {
		return nil, apperrors.Validation("ID inválido")
	}
	return s.Store.Get(ctx, id)
}

// ListReports returns one page plus pagination data.
func (s *ReportService) ListReports(ctx context.Context, f models.ReportFilter, page, limit int) ([]models.ReportSummary, models.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	reports, total, err := s.Store.List(ctx, f, page, limit)
	if err != nil {
		return nil, models.Pagination{}, err
	}

	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	return reports, models.Pagination{Page: page, Limit: limit, Total: total, Pages: pages}, nil
}

// UpdateReport applies a header-only partial update; validated reports
// are immutable.
func (s *ReportService) UpdateReport(ctx context.Context, req *models.UpdateReportRequest) error {
	if req.ID <= 0 {
		return apperrors.Validation("ID inválido")
	}
	return s.Store.UpdateHeader(ctx, req)
}

// ValidateReport locks the report against further edits.
func (s *ReportService) ValidateReport(ctx context.Context, req *models.ValidateReportRequest) error {
	if req.ID <= 0 {
		return apperrors.Validation("ID inválido")
	}
	if req.ValidatedBy == "" {
		return apperrors.Validation("Nome do supervisor obrigatório")
	}
	return s.Store.Validate(ctx, req.ID, req.ValidatedBy)
}

// DeleteReport removes an unvalidated report and its readings.
func (s *ReportService) DeleteReport(ctx context.Context, id int) error {
	if id <= 0 {
		return apperrors.Validation("ID inválido")
	}
	return s.Store.Delete(ctx, id)
}
