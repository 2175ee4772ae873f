package models

import "time"

// SupplyEvent is a discrete water transfer between two reservoirs,
// recorded independently of service reports.
type SupplyEvent struct {
	ID            int       `json:"id"`
	OccurredAt    time.Time `json:"datetime"`
	SourceID      string    `json:"reservatorio_origem"`
	DestinationID string    `json:"reservatorio_destino"`
	VolumeL       int       `json:"volume_litros"`
	DurationMin   *int      `json:"duracao_minutos,omitempty"`
	PumpUsed      *string   `json:"bomba_utilizada,omitempty"`
	FlowRateLPM   *float64  `json:"vazao_lpm,omitempty"`
	Operator      *string   `json:"operador,omitempty"`
	Notes         *string   `json:"observacoes,omitempty"`
}

// RecordSupplyRequest is the body of action=registrar_abastecimento.
// OccurredAt empty defaults to submission time.
type RecordSupplyRequest struct {
	OccurredAt    string  `json:"datetime"`
	SourceID      string  `json:"reservatorio_origem"`
	DestinationID string  `json:"reservatorio_destino"`
	VolumeL       int     `json:"volume_litros"`
	DurationMin   *int    `json:"duracao_minutos"`
	PumpUsed      *string `json:"bomba_utilizada"`
	Operator      *string `json:"operador"`
	Notes         *string `json:"observacoes"`
}
