package timeutil

import (
	"time"
)

// BRT is the site timezone (UTC-3, Brasília time). Report dates and
// shift schedules are interpreted in this zone.
var BRT *time.Location

func init() {
	var err error
	BRT, err = time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		// Fallback: fixed zone if tzdata is unavailable
		BRT = time.FixedZone("BRT", -3*60*60)
	}
}

// Now returns the current time in BRT.
func Now() time.Time {
	return time.Now().In(BRT)
}

// ToBRT converts any time to BRT.
func ToBRT(t time.Time) time.Time {
	return t.In(BRT)
}

// ParseDate parses a YYYY-MM-DD string as a BRT calendar date.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, BRT)
}

// StartOfDay returns 00:00:00 BRT for the given time's calendar day.
func StartOfDay(t time.Time) time.Time {
	brt := t.In(BRT)
	return time.Date(brt.Year(), brt.Month(), brt.Day(), 0, 0, 0, 0, BRT)
}

// DaysBetween returns the number of whole calendar days from a to b
// in BRT. Negative when b is before a.
func DaysBetween(a, b time.Time) int {
	return int(StartOfDay(b).Sub(StartOfDay(a)).Hours() / 24)
}

// Common layouts
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)
