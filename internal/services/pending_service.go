package services

import (
	"context"
	"sort"
	"time"

	"aguada-backend/internal/models"
	"aguada-backend/internal/timeutil"

	"github.com/jonboulle/clockwork"
)

// LatestReportStore is the slice of the report store the pending
// monitor needs: the most recent report date per shift.
type LatestReportStore interface {
	LatestByShift(ctx context.Context) (map[string]time.Time, error)
}

// PendingService derives which expected shift reports are missing or
// late, against the configured reporting schedule.
type PendingService struct {
	Store       LatestReportStore
	Shifts      []string
	CadenceDays int
	clock       clockwork.Clock
}

func NewPendingService(store LatestReportStore, shifts []string, cadenceDays int) *PendingService {
	if cadenceDays <= 0 {
		cadenceDays = 1
	}
	return &PendingService{
		Store:       store,
		Shifts:      shifts,
		CadenceDays: cadenceDays,
		clock:       clockwork.NewRealClock(),
	}
}

// SetClock swaps the time source; tests freeze time with a fake.
func (s *PendingService) SetClock(c clockwork.Clock) {
	s.clock = c
}

// PendingReports compares the schedule against the latest report per
// shift. A shift is pending when its expected date (last report +
// cadence, or one cadence ago when no report exists) lies in the past.
// Most overdue first.
func (s *PendingService) PendingReports(ctx context.Context) ([]models.PendingReportEntry, error) {
	latest, err := s.Store.LatestByShift(ctx)
	if err != nil {
		return nil, err
	}

	today := timeutil.StartOfDay(s.clock.Now().In(timeutil.BRT))

	var pending []models.PendingReportEntry
	for _, shift := range s.Shifts {
		var expected time.Time
		var lastReport *string

		if last, ok := latest[shift]; ok {
			lastDay := timeutil.StartOfDay(last.In(timeutil.BRT))
			expected = lastDay.AddDate(0, 0, s.CadenceDays)
			formatted := lastDay.Format(timeutil.DateLayout)
			lastReport = &formatted
		} else {
			expected = today.AddDate(0, 0, -s.CadenceDays)
		}

		overdue := timeutil.DaysBetween(expected, today)
		if overdue <= 0 {
			continue
		}

		pending = append(pending, models.PendingReportEntry{
			Shift:        shift,
			ExpectedDate: expected.Format(timeutil.DateLayout),
			DaysOverdue:  overdue,
			LastReport:   lastReport,
		})
	}

	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].DaysOverdue > pending[j].DaysOverdue
	})

	return pending, nil
}
