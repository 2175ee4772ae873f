package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

// MonitoringHandler exposes host and pool statistics for the ops
// dashboard. Read-only, no auth (trusted network, like the rest of
// the API).
type MonitoringHandler struct {
	db *pgxpool.Pool
}

type SystemStats struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	MemoryUsedMB  uint64  `json:"memory_used_mb"`
	MemoryTotalMB uint64  `json:"memory_total_mb"`
	DiskPercent   float64 `json:"disk_percent"`

	DBTotalConns    int32 `json:"db_total_conns"`
	DBIdleConns     int32 `json:"db_idle_conns"`
	DBAcquiredConns int32 `json:"db_acquired_conns"`
}

func NewMonitoringHandler(db *pgxpool.Pool) *MonitoringHandler {
	return &MonitoringHandler{db: db}
}

func (h *MonitoringHandler) SystemStats(w http.ResponseWriter, r *http.Request) {
	stats := SystemStats{}

	if percents, err := cpu.Percent(200*time.Millisecond, false); err == nil && len(percents) > 0 {
		stats.CPUPercent = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		stats.MemoryPercent = vm.UsedPercent
		stats.MemoryUsedMB = vm.Used / 1024 / 1024
		stats.MemoryTotalMB = vm.Total / 1024 / 1024
	}
	if du, err := disk.Usage("/"); err == nil {
		stats.DiskPercent = du.UsedPercent
	}

	if h.db != nil {
		poolStats := h.db.Stat()
		stats.DBTotalConns = poolStats.TotalConns()
		stats.DBIdleConns = poolStats.IdleConns()
		stats.DBAcquiredConns = poolStats.AcquiredConns()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
