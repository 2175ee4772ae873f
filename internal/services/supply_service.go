package services

import (
	"context"
	"fmt"
	"time"

	"aguada-backend/internal/apperrors"
	"aguada-backend/internal/models"
	"aguada-backend/internal/timeutil"

	"github.com/jonboulle/clockwork"
)

// SupplyStore is the persistence surface for transfer events.
type SupplyStore interface {
	Create(ctx context.Context, e *models.SupplyEvent) error
	ListByPeriod(ctx context.Context, dateStart, dateEnd string) ([]models.SupplyEvent, error)
}

// SupplyService records discrete water transfers between reservoirs.
type SupplyService struct {
	Store SupplyStore
	clock clockwork.Clock
}

func NewSupplyService(store SupplyStore) *SupplyService {
	return &SupplyService{Store: store, clock: clockwork.NewRealClock()}
}

// SetClock swaps the time source; tests freeze time with a fake.
func (s *SupplyService) SetClock(c clockwork.Clock) {
	s.clock = c
}

// RecordSupply validates and persists one transfer event, deriving
// vazao_lpm = volume/duração when a positive duration is present.
// Self-transfers (origem == destino) are rejected: they carry no
// accounting meaning.
func (s *SupplyService) RecordSupply(ctx context.Context, req *models.RecordSupplyRequest) (*models.SupplyEvent, error) {
	for field, value := range map[string]string{
		"reservatorio_origem":  req.SourceID,
		"reservatorio_destino": req.DestinationID,
	} {
		if value == "" {
			return nil, apperrors.Validation(fmt.Sprintf("Campo obrigatório: %s", field))
		}
	}
	if req.VolumeL <= 0 {
		return nil, apperrors.Validation("Campo obrigatório: volume_litros")
	}
	if req.SourceID == req.DestinationID {
		return nil, apperrors.Validation("Reservatório de origem e destino devem ser diferentes")
	}
	if req.DurationMin != nil && *req.DurationMin <= 0 {
		return nil, apperrors.Validation("Duração inválida: duracao_minutos")
	}

	occurredAt := s.clock.Now().In(timeutil.BRT)
	if req.OccurredAt != "" {
		parsed, err := parseEventTime(req.OccurredAt)
		if err != nil {
			return nil, apperrors.Validation("Data/hora inválida: " + req.OccurredAt)
		}
		occurredAt = parsed
	}

	event := &models.SupplyEvent{
		OccurredAt:    occurredAt,
		SourceID:      req.SourceID,
		DestinationID: req.DestinationID,
		VolumeL:       req.VolumeL,
		DurationMin:   req.DurationMin,
		PumpUsed:      req.PumpUsed,
		Operator:      req.Operator,
		Notes:         req.Notes,
	}
	if req.DurationMin != nil && *req.DurationMin > 0 {
		rate := float64(req.VolumeL) / float64(*req.DurationMin)
		event.FlowRateLPM = &rate
	}

	if err := s.Store.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// ListSupplyEvents returns events within the inclusive date window,
// defaulting to the last 7 days.
func (s *SupplyService) ListSupplyEvents(ctx context.Context, dateStart, dateEnd string) ([]models.SupplyEvent, error) {
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
	return s.Store.ListByPeriod(ctx, dateStart, dateEnd)
}

// parseEventTime accepts the site's "2006-01-02 15:04:05" form and
// RFC3339.
func parseEventTime(value string) (time.Time, error) {
	if t, err := time.ParseInLocation(timeutil.DateTimeLayout, value, timeutil.BRT); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}
