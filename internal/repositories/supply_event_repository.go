package repositories

import (
	"context"

	"aguada-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type SupplyEventRepository struct {
	DB *pgxpool.Pool
}

func NewSupplyEventRepository(db *pgxpool.Pool) *SupplyEventRepository {
	return &SupplyEventRepository{DB: db}
}

// Create inserts a transfer event and fills in the generated id.
func (r *SupplyEventRepository) Create(ctx context.Context, e *models.SupplyEvent) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO eventos_abastecimento (
			datetime, reservatorio_origem, reservatorio_destino,
			volume_litros, duracao_minutos, bomba_utilizada, vazao_lpm, operador, observacoes
		 ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		e.OccurredAt, e.SourceID, e.DestinationID,
		e.VolumeL, e.DurationMin, e.PumpUsed, e.FlowRateLPM, e.Operator, e.Notes,
	).Scan(&e.ID)
}

// ListByPeriod returns events touching the given inclusive date range,
// newest first. Used by the read side of the ledger UI.
func (r *SupplyEventRepository) ListByPeriod(ctx context.Context, dateStart, dateEnd string) ([]models.SupplyEvent, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, datetime, reservatorio_origem, reservatorio_destino,
		        volume_litros, duracao_minutos, bomba_utilizada, vazao_lpm, operador, observacoes
		 FROM eventos_abastecimento
		 WHERE datetime::date BETWEEN $1 AND $2
		 ORDER BY datetime DESC`, dateStart, dateEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.SupplyEvent
	for rows.Next() {
		var e models.SupplyEvent
		err := rows.Scan(&e.ID, &e.OccurredAt, &e.SourceID, &e.DestinationID,
			&e.VolumeL, &e.DurationMin, &e.PumpUsed, &e.FlowRateLPM, &e.Operator, &e.Notes)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
