package models

// PendingReportEntry flags a shift slot whose expected report is
// missing or late. Derived, never stored.
type PendingReportEntry struct {
	Shift       string  `json:"turno"`
	ExpectedDate string `json:"data_esperada"` // YYYY-MM-DD
	DaysOverdue int     `json:"dias_atraso"`
	LastReport  *string `json:"ultimo_relatorio,omitempty"` // date of the latest report, if any
}
