package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aguada-backend/internal/apperrors"
	"aguada-backend/internal/models"
)

// fakeReportStore mimics the repository's state rules in memory:
// validated reports reject updates and deletes, validation is
// first-wins.
type fakeReportStore struct {
	nextID  int
	reports map[int]*models.ServiceReport
}

func newFakeReportStore() *fakeReportStore {
	return &fakeReportStore{nextID: 1, reports: map[int]*models.ServiceReport{}}
}

func (f *fakeReportStore) Create(_ context.Context, report *models.ServiceReport, readings []models.ReservoirReading) (int, error) {
	id := f.nextID
	f.nextID++
	stored := *report
	stored.ID = id
	stored.Readings = readings
	f.reports[id] = &stored
	return id, nil
}

func (f *fakeReportStore) Get(_ context.Context, id int) (*models.ServiceReport, error) {
	r, ok := f.reports[id]
	if !ok {
		return nil, apperrors.NotFound("Relatório não encontrado")
	}
	return r, nil
}

func (f *fakeReportStore) List(_ context.Context, _ models.ReportFilter, page, limit int) ([]models.ReportSummary, int, error) {
	var all []models.ReportSummary
	for _, r := range f.reports {
		all = append(all, models.ReportSummary{ServiceReport: *r, NumReservoirs: len(r.Readings)})
	}
	start := (page - 1) * limit
	if start >= len(all) {
		return []models.ReportSummary{}, len(all), nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], len(all), nil
}

func (f *fakeReportStore) UpdateHeader(_ context.Context, req *models.UpdateReportRequest) error {
	r, ok := f.reports[req.ID]
	if !ok {
		return apperrors.NotFound("Relatório não encontrado")
	}
	if r.Validated {
		return apperrors.Conflict("Não é possível editar relatório validado")
	}
	if req.OverallStatus != nil {
		r.OverallStatus = *req.OverallStatus
	}
	if req.PendingIssues != nil {
		r.PendingIssues = req.PendingIssues
	}
	return nil
}

func (f *fakeReportStore) Validate(_ context.Context, id int, validatedBy string) error {
	r, ok := f.reports[id]
	if !ok || r.Validated {
		return apperrors.Conflict("Relatório não encontrado ou já validado")
	}
	now := time.Now()
	r.Validated = true
	r.ValidatedBy = &validatedBy
	r.ValidatedAt = &now
	return nil
}

func (f *fakeReportStore) Delete(_ context.Context, id int) error {
	r, ok := f.reports[id]
	if !ok {
		return apperrors.NotFound("Relatório não encontrado")
	}
	if r.Validated {
		return apperrors.Conflict("Não é possível deletar relatório validado")
	}
	delete(f.reports, id)
	return nil
}

func (f *fakeReportStore) LatestByShift(_ context.Context) (map[string]time.Time, error) {
	return map[string]time.Time{}, nil
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func validCreateRequest() *models.CreateReportRequest {
	return &models.CreateReportRequest{
		ReportDate: "2024-06-10",
		Shift:      "manha",
		Operator:   "Carlos Silva",
	}
}

func TestCreateReport_RequiredFields(t *testing.T) {
	svc := NewReportService(newFakeReportStore())

	tests := []struct {
		name   string
		mutate func(*models.CreateReportRequest)
	}{
		{"missing date", func(r *models.CreateReportRequest) { r.ReportDate = "" }},
		{"missing shift", func(r *models.CreateReportRequest) { r.Shift = "" }},
		{"missing operator", func(r *models.CreateReportRequest) { r.Operator = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRequest()
			tt.mutate(req)
			_, err := svc.CreateReport(context.Background(), req)
			require.Error(t, err)
			var ve *apperrors.ValidationError
			assert.ErrorAs(t, err, &ve)
			assert.Contains(t, err.Error(), "Campo obrigatório")
		})
	}
}

func TestCreateReport_InvalidDate(t *testing.T) {
	svc := NewReportService(newFakeReportStore())

	req := validCreateRequest()
	req.ReportDate = "10/06/2024"
	_, err := svc.CreateReport(context.Background(), req)

	require.Error(t, err)
	assert.True(t, apperrors.IsClientError(err))
	assert.Contains(t, err.Error(), "Data inválida")
}

func TestCreateReport_ConsumptionDerivation(t *testing.T) {
	store := newFakeReportStore()
	svc := NewReportService(store)

	req := validCreateRequest()
	req.Readings = []models.CreateReadingRequest{
		// explicit consumption wins over the volumes
		{ReservoirID: "R1", VolumeInitialL: intPtr(10000), VolumeFinalL: intPtr(8000), ConsumptionL: intPtr(1500)},
		// derived: initial - final
		{ReservoirID: "R2", VolumeInitialL: intPtr(5000), VolumeFinalL: intPtr(4200)},
		// derived negative: net fill during the shift
		{ReservoirID: "R3", VolumeInitialL: intPtr(3000), VolumeFinalL: intPtr(3600)},
		// no volumes at all
		{ReservoirID: "R4"},
	}

	id, err := svc.CreateReport(context.Background(), req)
	require.NoError(t, err)

	stored := store.reports[id]
	require.Len(t, stored.Readings, 4)
	assert.Equal(t, 1500, stored.Readings[0].ConsumptionL)
	assert.Equal(t, 800, stored.Readings[1].ConsumptionL)
	assert.Equal(t, -600, stored.Readings[2].ConsumptionL)
	assert.Equal(t, 0, stored.Readings[3].ConsumptionL)
}

func TestCreateReport_ReadingRequiresReservoir(t *testing.T) {
	svc := NewReportService(newFakeReportStore())

	req := validCreateRequest()
	req.Readings = []models.CreateReadingRequest{{VolumeInitialL: intPtr(100)}}

	_, err := svc.CreateReport(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reservatorio_id")
}

func TestCreateReport_Defaults(t *testing.T) {
	store := newFakeReportStore()
	svc := NewReportService(store)

	req := validCreateRequest()
	req.Readings = []models.CreateReadingRequest{{ReservoirID: "R1"}}

	id, err := svc.CreateReport(context.Background(), req)
	require.NoError(t, err)

	stored := store.reports[id]
	assert.Equal(t, "NORMAL", stored.OverallStatus)
	assert.Equal(t, "NORMAL", stored.Readings[0].OperationalState)
	assert.False(t, stored.Validated)
}

func TestCreateReport_ExplicitStatus(t *testing.T) {
	store := newFakeReportStore()
	svc := NewReportService(store)

	req := validCreateRequest()
	req.OverallStatus = strPtr("ALERTA")

	id, err := svc.CreateReport(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "ALERTA", store.reports[id].OverallStatus)
}

func TestGetReport_NotFound(t *testing.T) {
	svc := NewReportService(newFakeReportStore())

	_, err := svc.GetReport(context.Background(), 99)
	require.Error(t, err)
	var ne *apperrors.NotFoundError
	assert.ErrorAs(t, err, &ne)
}

func TestGetReport_InvalidID(t *testing.T) {
	svc := NewReportService(newFakeReportStore())

	_, err := svc.GetReport(context.Background(), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ID inválido")
}

func TestListReports_Pagination(t *testing.T) {
	store := newFakeReportStore()
	svc := NewReportService(store)

	for i := 0; i < 45; i++ {
		_, err := svc.CreateReport(context.Background(), validCreateRequest())
		require.NoError(t, err)
	}

	reports, pg, err := svc.ListReports(context.Background(), models.ReportFilter{}, 3, 20)
	require.NoError(t, err)

	assert.Len(t, reports, 5)
	assert.Equal(t, 3, pg.Page)
	assert.Equal(t, 20, pg.Limit)
	assert.Equal(t, 45, pg.Total)
	assert.Equal(t, 3, pg.Pages)
}

func TestListReports_DefaultsPageAndLimit(t *testing.T) {
	svc := NewReportService(newFakeReportStore())

	_, pg, err := svc.ListReports(context.Background(), models.ReportFilter{}, 0, -5)
	require.NoError(t, err)
	assert.Equal(t, 1, pg.Page)
	assert.Equal(t, 20, pg.Limit)
	assert.Equal(t, 0, pg.Pages)
}

func TestUpdateReport_ValidatedIsImmutable(t *testing.T) {
	store := newFakeReportStore()
	svc := NewReportService(store)

	id, err := svc.CreateReport(context.Background(), validCreateRequest())
	require.NoError(t, err)
	require.NoError(t, svc.ValidateReport(context.Background(), &models.ValidateReportRequest{ID: id, ValidatedBy: "Ana"}))

	err = svc.UpdateReport(context.Background(), &models.UpdateReportRequest{ID: id, OverallStatus: strPtr("CRITICO")})
	require.Error(t, err)
	var ce *apperrors.ConflictError
	assert.ErrorAs(t, err, &ce)
	assert.Equal(t, "NORMAL", store.reports[id].OverallStatus)
}

func TestUpdateReport_PartialHeader(t *testing.T) {
	store := newFakeReportStore()
	svc := NewReportService(store)

	id, err := svc.CreateReport(context.Background(), validCreateRequest())
	require.NoError(t, err)

	err = svc.UpdateReport(context.Background(), &models.UpdateReportRequest{ID: id, PendingIssues: strPtr("válvula R2 travada")})
	require.NoError(t, err)

	stored := store.reports[id]
	require.NotNil(t, stored.PendingIssues)
	assert.Equal(t, "válvula R2 travada", *stored.PendingIssues)
	assert.Equal(t, "NORMAL", stored.OverallStatus)
}

func TestValidateReport_FirstWins(t *testing.T) {
	store := newFakeReportStore()
	svc := NewReportService(store)

	id, err := svc.CreateReport(context.Background(), validCreateRequest())
	require.NoError(t, err)

	require.NoError(t, svc.ValidateReport(context.Background(), &models.ValidateReportRequest{ID: id, ValidatedBy: "Ana"}))

	err = svc.ValidateReport(context.Background(), &models.ValidateReportRequest{ID: id, ValidatedBy: "Bruno"})
	require.Error(t, err)
	var ce *apperrors.ConflictError
	assert.ErrorAs(t, err, &ce)

	require.NotNil(t, store.reports[id].ValidatedBy)
	assert.Equal(t, "Ana", *store.reports[id].ValidatedBy)
}

func TestValidateReport_RequiresSupervisor(t *testing.T) {
	svc := NewReportService(newFakeReportStore())

	err := svc.ValidateReport(context.Background(), &models.ValidateReportRequest{ID: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "supervisor")
}

func TestDeleteReport_ValidatedIsProtected(t *testing.T) {
	store := newFakeReportStore()
	svc := NewReportService(store)

	id, err := svc.CreateReport(context.Background(), validCreateRequest())
	require.NoError(t, err)
	require.NoError(t, svc.ValidateReport(context.Background(), &models.ValidateReportRequest{ID: id, ValidatedBy: "Ana"}))

	err = svc.DeleteReport(context.Background(), id)
	require.Error(t, err)
	var ce *apperrors.ConflictError
	assert.ErrorAs(t, err, &ce)
	assert.Contains(t, store.reports, id)
}

func TestDeleteReport_Unvalidated(t *testing.T) {
	store := newFakeReportStore()
	svc := NewReportService(store)

	id, err := svc.CreateReport(context.Background(), validCreateRequest())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteReport(context.Background(), id))
	assert.NotContains(t, store.reports, id)
}
