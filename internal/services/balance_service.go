package services

import (
	"context"

	"aguada-backend/internal/apperrors"
	"aguada-backend/internal/models"
	"aguada-backend/internal/timeutil"

	"github.com/jonboulle/clockwork"
)

// BalanceStore is the persistence surface for balance computation and
// the daily rollup.
type BalanceStore interface {
	Compute(ctx context.Context, reservoirID, periodStart, periodEnd string) (*models.BalanceRecord, error)
	Get(ctx context.Context, reservoirID, periodStart, periodEnd string) (*models.BalanceRecord, error)
	DailyRange(ctx context.Context, dateStart, dateEnd, reservoirID string) ([]models.DailyBalance, error)
}

// BalanceService computes water balances on demand and reads the
// daily rollup.
type BalanceService struct {
	Store BalanceStore
	clock clockwork.Clock
}

func NewBalanceService(store BalanceStore) *BalanceService {
	return &BalanceService{Store: store, clock: clockwork.NewRealClock()}
}

// SetClock swaps the time source; tests freeze time with a fake.
func (s *BalanceService) SetClock(c clockwork.Clock) {
	s.clock = c
}

// ComputeBalance re-derives and stores the balance for the inclusive
// period. Idempotent: identical inputs yield an identical stored
// record.
func (s *BalanceService) ComputeBalance(ctx context.Context, req *models.ComputeBalanceRequest) (*models.BalanceRecord, error) {
	if req.ReservoirID == "" || req.PeriodStart == "" || req.PeriodEnd == "" {
		return nil, apperrors.Validation("Parâmetros obrigatórios: reservatorio, periodo_inicio, periodo_fim")
	}
	start, err := timeutil.ParseDate(req.PeriodStart)
	if err != nil {
		return nil, apperrors.Validation("Data inválida: " + req.PeriodStart)
	}
	end, err := timeutil.ParseDate(req.PeriodEnd)
	if err != nil {
		return nil, apperrors.Validation("Data inválida: " + req.PeriodEnd)
	}
	if end.Before(start) {
		return nil, apperrors.Validation("Período inválido: periodo_fim anterior a periodo_inicio")
	}

	return s.Store.Compute(ctx, req.ReservoirID, req.PeriodStart, req.PeriodEnd)
}

// DailyBalance reads the per-day rollup for the window, defaulting to
// the last 7 days, optionally filtered to one reservoir.
func (s *BalanceService) DailyBalance(ctx context.Context, dateStart, dateEnd, reservoirID string) ([]models.DailyBalance, error) {
	now := s.clock.Now().In(timeutil.BRT)
	if dateEnd == "" {
		dateEnd = now.Format(timeutil.DateLayout)
	}
	if dateStart == "" {
		dateStart = now.AddDate(0, 0, -7).Format(timeutil.DateLayout)
	}
	for _, d := range []string{dateStart, dateEnd} {
		if _, err := timeutil.ParseDate(d); err != nil {
			return nil, apperrors.Validation("Data inválida: " + d)
		}
	}
	return s.Store.DailyRange(ctx, dateStart, dateEnd, reservoirID)
}
