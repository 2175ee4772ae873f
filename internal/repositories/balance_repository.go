package repositories

import (
	"context"
	"errors"
	"time"

	"aguada-backend/internal/apperrors"
	"aguada-backend/internal/models"
	"aguada-backend/internal/timeutil"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BalanceRepository struct {
	DB *pgxpool.Pool
}

func NewBalanceRepository(db *pgxpool.Pool) *BalanceRepository {
	return &BalanceRepository{DB: db}
}

// Compute re-derives the balance for (reservoir, period) from the
// durable source rows and upserts the result in one statement.
// Consumption comes from report readings whose report date falls in
// the inclusive period; supply is the net of transfer events
// (positive at the destination, negative at the source). Purely a
// re-derivation, so concurrent recomputation is last-writer-wins.
func (r *BalanceRepository) Compute(ctx context.Context, reservoirID, periodStart, periodEnd string) (*models.BalanceRecord, error) {
	rec := &models.BalanceRecord{
		ReservoirID: reservoirID,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
	}

	err := r.DB.QueryRow(ctx,
		`INSERT INTO balanco_hidrico (
			reservatorio_id, periodo_inicio, periodo_fim,
			consumo_total_litros, abastecimento_total_litros, variacao_litros, calculado_em
		 )
		 SELECT $1, $2::date, $3::date,
		        c.total,
		        a.total,
		        a.total - c.total,
		        NOW()
		 FROM (
		     SELECT COALESCE(SUM(rr.consumo_litros), 0) AS total
		     FROM relatorio_reservatorios rr
		     JOIN relatorios_servico r ON r.id = rr.relatorio_id
		     WHERE rr.reservatorio_id = $1
		       AND r.data_relatorio BETWEEN $2::date AND $3::date
		 ) c, (
		     SELECT COALESCE(SUM(CASE
		         WHEN ea.reservatorio_destino = $1 THEN ea.volume_litros
		         ELSE -ea.volume_litros
		     END), 0) AS total
		     FROM eventos_abastecimento ea
		     WHERE (ea.reservatorio_destino = $1 OR ea.reservatorio_origem = $1)
		       AND ea.datetime::date BETWEEN $2::date AND $3::date
		 ) a
		 ON CONFLICT (reservatorio_id, periodo_inicio, periodo_fim) DO UPDATE SET
		     consumo_total_litros = EXCLUDED.consumo_total_litros,
		     abastecimento_total_litros = EXCLUDED.abastecimento_total_litros,
		     variacao_litros = EXCLUDED.variacao_litros,
		     calculado_em = EXCLUDED.calculado_em
		 RETURNING consumo_total_litros, abastecimento_total_litros, variacao_litros, calculado_em`,
		reservoirID, periodStart, periodEnd,
	).Scan(&rec.TotalConsumption, &rec.TotalSupply, &rec.NetChange, &rec.ComputedAt)
	if err != nil {
		return nil, err
	}

	return rec, nil
}

// Get reads the stored balance for an exact (reservoir, period) key.
func (r *BalanceRepository) Get(ctx context.Context, reservoirID, periodStart, periodEnd string) (*models.BalanceRecord, error) {
	rec := &models.BalanceRecord{}
	var start, end time.Time
	err := r.DB.QueryRow(ctx,
		`SELECT reservatorio_id, periodo_inicio, periodo_fim,
		        consumo_total_litros, abastecimento_total_litros, variacao_litros, calculado_em
		 FROM balanco_hidrico
		 WHERE reservatorio_id = $1 AND periodo_inicio = $2::date AND periodo_fim = $3::date`,
		reservoirID, periodStart, periodEnd,
	).Scan(&rec.ReservoirID, &start, &end,
		&rec.TotalConsumption, &rec.TotalSupply, &rec.NetChange, &rec.ComputedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("Balanço não encontrado")
		}
		return nil, err
	}
	rec.PeriodStart = start.Format(timeutil.DateLayout)
	rec.PeriodEnd = end.Format(timeutil.DateLayout)
	return rec, nil
}

// DailyRange reads the daily rollup view for the inclusive window,
// optionally filtered to one reservoir, date DESC then reservoir.
func (r *BalanceRepository) DailyRange(ctx context.Context, dateStart, dateEnd, reservoirID string) ([]models.DailyBalance, error) {
	b := &condBuilder{}
	b.add("data >= $%d", dateStart)
	b.add("data <= $%d", dateEnd)
	if reservoirID != "" {
		b.add("reservatorio_id = $%d", reservoirID)
	}

	rows, err := r.DB.Query(ctx,
		`SELECT data, reservatorio_id, consumo_litros, abastecimento_litros, variacao_litros
		 FROM vw_balanco_diario `+b.where()+`
		 ORDER BY data DESC, reservatorio_id`, b.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var daily []models.DailyBalance
	for rows.Next() {
		var d models.DailyBalance
		var date time.Time
		if err := rows.Scan(&date, &d.ReservoirID, &d.Consumption, &d.Supply, &d.NetChange); err != nil {
			return nil, err
		}
		d.Date = date.Format(timeutil.DateLayout)
		daily = append(daily, d)
	}
	return daily, rows.Err()
}
