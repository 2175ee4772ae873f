package models

import "time"

// ServiceReport is one shift report submitted by an operator. Once
// Validated is set the report and its readings are immutable.
type ServiceReport struct {
	ID                int                `json:"id"`
	ReportDate        string             `json:"data_relatorio"` // YYYY-MM-DD
	Shift             string             `json:"turno"`
	Operator          string             `json:"operador"`
	Supervisor        *string            `json:"supervisor,omitempty"`
	OverallStatus     string             `json:"status_geral"`
	WeatherConditions *string            `json:"condicoes_climaticas,omitempty"`
	Incidents         *string            `json:"ocorrencias,omitempty"`
	MaintenanceNotes  *string            `json:"manutencoes_realizadas,omitempty"`
	PendingIssues     *string            `json:"pendencias,omitempty"`
	Validated         bool               `json:"validado"`
	ValidatedBy       *string            `json:"validado_por,omitempty"`
	ValidatedAt       *time.Time         `json:"validado_em,omitempty"`
	CreatedAt         time.Time          `json:"criado_em"`
	Readings          []ReservoirReading `json:"reservatorios,omitempty"`
}

// ReservoirReading is one reservoir row inside a report. It has no
// lifecycle of its own and cascades with the parent report.
type ReservoirReading struct {
	ID               int     `json:"id"`
	ReportID         int     `json:"relatorio_id"`
	ReservoirID      string  `json:"reservatorio_id"`
	LevelInitialCM   *int    `json:"nivel_inicial_cm,omitempty"`
	LevelFinalCM     *int    `json:"nivel_final_cm,omitempty"`
	PercentInitial   *int    `json:"percentual_inicial,omitempty"`
	PercentFinal     *int    `json:"percentual_final,omitempty"`
	VolumeInitialL   *int    `json:"volume_inicial_litros,omitempty"`
	VolumeFinalL     *int    `json:"volume_final_litros,omitempty"`
	ConsumptionL     int     `json:"consumo_litros"`
	SupplyL          int     `json:"abastecimento_litros"`
	PumpUsed         *string `json:"bomba_utilizada,omitempty"`
	ValveInState     *string `json:"valvula_entrada,omitempty"`
	ValveOutState    *string `json:"valvula_saida,omitempty"`
	OperationalState string  `json:"estado_operacional"`
	Notes            *string `json:"observacoes,omitempty"`
	IsAutomatic      bool    `json:"dados_automaticos"`
}

// ReportSummary is a list row: the header annotated with reading count
// and per-report consumption/supply totals.
type ReportSummary struct {
	ServiceReport
	NumReservoirs    int `json:"num_reservatorios"`
	TotalConsumption int `json:"consumo_total"`
	TotalSupply      int `json:"abastecimento_total"`
}

// CreateReportRequest is the body of action=create.
type CreateReportRequest struct {
	ReportDate        string                  `json:"data_relatorio"`
	Shift             string                  `json:"turno"`
	Operator          string                  `json:"operador"`
	Supervisor        *string                 `json:"supervisor"`
	OverallStatus     *string                 `json:"status_geral"`
	WeatherConditions *string                 `json:"condicoes_climaticas"`
	Incidents         *string                 `json:"ocorrencias"`
	MaintenanceNotes  *string                 `json:"manutencoes"`
	PendingIssues     *string                 `json:"pendencias"`
	Readings          []CreateReadingRequest  `json:"reservatorios"`
}

// CreateReadingRequest is one reservoir entry of action=create.
// ConsumptionL nil means "derive from volumes".
type CreateReadingRequest struct {
	ReservoirID      string  `json:"reservatorio_id"`
	LevelInitialCM   *int    `json:"nivel_inicial_cm"`
	LevelFinalCM     *int    `json:"nivel_final_cm"`
	PercentInitial   *int    `json:"percentual_inicial"`
	PercentFinal     *int    `json:"percentual_final"`
	VolumeInitialL   *int    `json:"volume_inicial_litros"`
	VolumeFinalL     *int    `json:"volume_final_litros"`
	ConsumptionL     *int    `json:"consumo_litros"`
	SupplyL          *int    `json:"abastecimento_litros"`
	PumpUsed         *string `json:"bomba_utilizada"`
	ValveInState     *string `json:"valvula_entrada"`
	ValveOutState    *string `json:"valvula_saida"`
	OperationalState *string `json:"estado_operacional"`
	Notes            *string `json:"observacoes"`
	IsAutomatic      bool    `json:"dados_automaticos"`
}

// UpdateReportRequest is the body of action=update. Header-only,
// partial: nil fields are left unchanged.
type UpdateReportRequest struct {
	ID                int     `json:"id"`
	OverallStatus     *string `json:"status_geral"`
	WeatherConditions *string `json:"condicoes_climaticas"`
	Incidents         *string `json:"ocorrencias"`
	MaintenanceNotes  *string `json:"manutencoes"`
	PendingIssues     *string `json:"pendencias"`
}

// ValidateReportRequest is the body of action=validate.
type ValidateReportRequest struct {
	ID          int    `json:"id"`
	ValidatedBy string `json:"validado_por"`
}

// ReportFilter holds the optional, AND-combined list filters.
type ReportFilter struct {
	DateStart string // inclusive, YYYY-MM-DD
	DateEnd   string // inclusive
	Operator  string // substring match
	Validated *bool
}

// Pagination echoes paging data on list responses.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}
