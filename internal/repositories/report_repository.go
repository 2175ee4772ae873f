package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"aguada-backend/internal/apperrors"
	"aguada-backend/internal/models"
	"aguada-backend/internal/timeutil"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReportRepository struct {
	DB *pgxpool.Pool
}

func NewReportRepository(db *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{DB: db}
}

const reportColumns = `id, data_relatorio, turno, operador, supervisor, status_geral,
	condicoes_climaticas, ocorrencias, manutencoes_realizadas, pendencias,
	validado, validado_por, validado_em, criado_em`

// Create inserts the header and all reading rows in one transaction.
// If any reading insert fails the whole report rolls back; no partial
// report is ever observable.
func (r *ReportRepository) Create(ctx context.Context, report *models.ServiceReport, readings []models.ReservoirReading) (int, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO relatorios_servico (
			data_relatorio, turno, operador, supervisor, status_geral,
			condicoes_climaticas, ocorrencias, manutencoes_realizadas, pendencias
		 ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, criado_em`,
		report.ReportDate, report.Shift, report.Operator, report.Supervisor,
		report.OverallStatus, report.WeatherConditions, report.Incidents,
		report.MaintenanceNotes, report.PendingIssues,
	).Scan(&report.ID, &report.CreatedAt)
	if err != nil {
		return 0, err
	}

	for i := range readings {
		rd := &readings[i]
		rd.ReportID = report.ID
		err = tx.QueryRow(ctx,
			`INSERT INTO relatorio_reservatorios (
				relatorio_id, reservatorio_id,
				nivel_inicial_cm, nivel_final_cm,
				percentual_inicial, percentual_final,
				volume_inicial_litros, volume_final_litros,
				consumo_litros, abastecimento_litros,
				bomba_utilizada, valvula_entrada, valvula_saida,
				estado_operacional, observacoes, dados_automaticos
			 ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
			 RETURNING id`,
			rd.ReportID, rd.ReservoirID,
			rd.LevelInitialCM, rd.LevelFinalCM,
			rd.PercentInitial, rd.PercentFinal,
			rd.VolumeInitialL, rd.VolumeFinalL,
			rd.ConsumptionL, rd.SupplyL,
			rd.PumpUsed, rd.ValveInState, rd.ValveOutState,
			rd.OperationalState, rd.Notes, rd.IsAutomatic,
		).Scan(&rd.ID)
		if err != nil {
			return 0, fmt.Errorf("failed to insert reading for %s: %w", rd.ReservoirID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return report.ID, nil
}

// Get returns the header joined with its readings ordered by
// reservatorio_id.
func (r *ReportRepository) Get(ctx context.Context, id int) (*models.ServiceReport, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+reportColumns+` FROM relatorios_servico WHERE id=$1`, id)

	report, err := scanReport(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("Relatório não encontrado")
		}
		return nil, err
	}

	rows, err := r.DB.Query(ctx,
		`SELECT id, relatorio_id, reservatorio_id,
		        nivel_inicial_cm, nivel_final_cm,
		        percentual_inicial, percentual_final,
		        volume_inicial_litros, volume_final_litros,
		        consumo_litros, abastecimento_litros,
		        bomba_utilizada, valvula_entrada, valvula_saida,
		        estado_operacional, observacoes, dados_automaticos
		 FROM relatorio_reservatorios
		 WHERE relatorio_id=$1
		 ORDER BY reservatorio_id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var rd models.ReservoirReading
		err := rows.Scan(&rd.ID, &rd.ReportID, &rd.ReservoirID,
			&rd.LevelInitialCM, &rd.LevelFinalCM,
			&rd.PercentInitial, &rd.PercentFinal,
			&rd.VolumeInitialL, &rd.VolumeFinalL,
			&rd.ConsumptionL, &rd.SupplyL,
			&rd.PumpUsed, &rd.ValveInState, &rd.ValveOutState,
			&rd.OperationalState, &rd.Notes, &rd.IsAutomatic)
		if err != nil {
			return nil, err
		}
		report.Readings = append(report.Readings, rd)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return report, nil
}

// List returns one page of headers annotated with reading count and
// per-report totals, plus the unpaged total for pagination. Filters
// combine with AND; every value is bound, never concatenated.
func (r *ReportRepository) List(ctx context.Context, f models.ReportFilter, page, limit int) ([]models.ReportSummary, int, error) {
	b := &condBuilder{}
	if f.DateStart != "" {
		b.add("r.data_relatorio >= $%d", f.DateStart)
	}
	if f.DateEnd != "" {
		b.add("r.data_relatorio <= $%d", f.DateEnd)
	}
	if f.Operator != "" {
		b.add("r.operador ILIKE $%d", "%"+f.Operator+"%")
	}
	if f.Validated != nil {
		b.add("r.validado = $%d", *f.Validated)
	}

	query := fmt.Sprintf(`
		SELECT r.id, r.data_relatorio, r.turno, r.operador, r.supervisor, r.status_geral,
		       r.condicoes_climaticas, r.ocorrencias, r.manutencoes_realizadas, r.pendencias,
		       r.validado, r.validado_por, r.validado_em, r.criado_em,
		       COUNT(rr.id) AS num_reservatorios,
		       COALESCE(SUM(rr.consumo_litros), 0) AS consumo_total,
		       COALESCE(SUM(rr.abastecimento_litros), 0) AS abastecimento_total
		FROM relatorios_servico r
		LEFT JOIN relatorio_reservatorios rr ON rr.relatorio_id = r.id
		%s
		GROUP BY r.id
		ORDER BY r.data_relatorio DESC, r.criado_em DESC
		LIMIT $%d OFFSET $%d`,
		b.where(), b.next(), b.next()+1)

	pageArgs := append(append([]interface{}{}, b.args...), limit, (page-1)*limit)

	rows, err := r.DB.Query(ctx, query, pageArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var reports []models.ReportSummary
	for rows.Next() {
		var s models.ReportSummary
		var date time.Time
		err := rows.Scan(&s.ID, &date, &s.Shift, &s.Operator, &s.Supervisor, &s.OverallStatus,
			&s.WeatherConditions, &s.Incidents, &s.MaintenanceNotes, &s.PendingIssues,
			&s.Validated, &s.ValidatedBy, &s.ValidatedAt, &s.CreatedAt,
			&s.NumReservoirs, &s.TotalConsumption, &s.TotalSupply)
		if err != nil {
			return nil, 0, err
		}
		s.ReportDate = date.Format(timeutil.DateLayout)
		reports = append(reports, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	// The count query reuses the builder's args exactly, without the
	// paging pair.
	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM relatorios_servico r %s", b.where())
	if err := r.DB.QueryRow(ctx, countQuery, b.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	return reports, total, nil
}

// UpdateHeader applies the supplied fields only. The validado flag is
// checked under a row lock so a concurrent validate cannot slip
// between the check and the write.
func (r *ReportRepository) UpdateHeader(ctx context.Context, req *models.UpdateReportRequest) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var validated bool
	err = tx.QueryRow(ctx,
		`SELECT validado FROM relatorios_servico WHERE id=$1 FOR UPDATE`,
		req.ID).Scan(&validated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NotFound("Relatório não encontrado")
		}
		return err
	}
	if validated {
		return apperrors.Conflict("Não é possível editar relatório validado")
	}

	b := &condBuilder{}
	if req.OverallStatus != nil {
		b.add("status_geral = $%d", *req.OverallStatus)
	}
	if req.WeatherConditions != nil {
		b.add("condicoes_climaticas = $%d", *req.WeatherConditions)
	}
	if req.Incidents != nil {
		b.add("ocorrencias = $%d", *req.Incidents)
	}
	if req.MaintenanceNotes != nil {
		b.add("manutencoes_realizadas = $%d", *req.MaintenanceNotes)
	}
	if req.PendingIssues != nil {
		b.add("pendencias = $%d", *req.PendingIssues)
	}
	if b.empty() {
		// Nothing to change; the lock still verified the report exists
		// and is editable.
		return tx.Commit(ctx)
	}

	query := fmt.Sprintf("UPDATE relatorios_servico SET %s WHERE id = $%d", b.set(), b.next())
	args := append(append([]interface{}{}, b.args...), req.ID)
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Validate locks the report with a single conditional update. Zero
// affected rows means unknown id or already validated; this
// compare-and-swap is the guard against double-validation races.
func (r *ReportRepository) Validate(ctx context.Context, id int, validatedBy string) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE relatorios_servico
		 SET validado = TRUE, validado_por = $1, validado_em = NOW()
		 WHERE id = $2 AND validado = FALSE`,
		validatedBy, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.Conflict("Relatório não encontrado ou já validado")
	}
	return nil
}

// Delete removes the header; readings go with it via cascade. Same
// row-lock discipline as UpdateHeader.
func (r *ReportRepository) Delete(ctx context.Context, id int) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var validated bool
	err = tx.QueryRow(ctx,
		`SELECT validado FROM relatorios_servico WHERE id=$1 FOR UPDATE`,
		id).Scan(&validated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NotFound("Relatório não encontrado")
		}
		return err
	}
	if validated {
		return apperrors.Conflict("Não é possível deletar relatório validado")
	}

	if _, err := tx.Exec(ctx, `DELETE FROM relatorios_servico WHERE id=$1`, id); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// LatestByShift returns the most recent report date per shift, for
// the pending report monitor.
func (r *ReportRepository) LatestByShift(ctx context.Context) (map[string]time.Time, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT turno, MAX(data_relatorio) FROM relatorios_servico GROUP BY turno`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	latest := make(map[string]time.Time)
	for rows.Next() {
		var shift string
		var date time.Time
		if err := rows.Scan(&shift, &date); err != nil {
			return nil, err
		}
		latest[shift] = date
	}
	return latest, rows.Err()
}

type reportRow interface {
	Scan(dest ...any) error
}

func scanReport(row reportRow) (*models.ServiceReport, error) {
	var rep models.ServiceReport
	var date time.Time
	err := row.Scan(&rep.ID, &date, &rep.Shift, &rep.Operator, &rep.Supervisor, &rep.OverallStatus,
		&rep.WeatherConditions, &rep.Incidents, &rep.MaintenanceNotes, &rep.PendingIssues,
		&rep.Validated, &rep.ValidatedBy, &rep.ValidatedAt, &rep.CreatedAt)
	if err != nil {
		return nil, err
	}
	rep.ReportDate = date.Format(timeutil.DateLayout)
	return &rep, nil
}
