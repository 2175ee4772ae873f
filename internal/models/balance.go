package models

import "time"

// BalanceRecord is the stored water balance for one reservoir over one
// period. Keyed by (reservoir, period); recomputation overwrites.
type BalanceRecord struct {
	ReservoirID      string    `json:"reservatorio_id"`
	PeriodStart      string    `json:"periodo_inicio"` // YYYY-MM-DD, inclusive
	PeriodEnd        string    `json:"periodo_fim"`    // inclusive
	TotalConsumption int       `json:"consumo_total_litros"`
	TotalSupply      int       `json:"abastecimento_total_litros"`
	NetChange        int       `json:"variacao_litros"`
	ComputedAt       time.Time `json:"calculado_em"`
}

// DailyBalance is one row of the per-day rollup view: the same
// accounting as BalanceRecord applied to a single calendar day.
type DailyBalance struct {
	Date        string `json:"data"`
	ReservoirID string `json:"reservatorio_id"`
	Consumption int    `json:"consumo_litros"`
	Supply      int    `json:"abastecimento_litros"`
	NetChange   int    `json:"variacao_litros"`
}

// ComputeBalanceRequest is the body of action=calcular_balanco.
type ComputeBalanceRequest struct {
	ReservoirID string `json:"reservatorio"`
	PeriodStart string `json:"periodo_inicio"`
	PeriodEnd   string `json:"periodo_fim"`
}
