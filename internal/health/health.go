package health

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"aguada-backend/internal/cache"
)

type HealthChecker struct {
	db *pgxpool.Pool
}

type HealthStatus struct {
	Status   string         `json:"status"`
	Database DatabaseHealth `json:"database"`
	Cache    CacheHealth    `json:"cache"`
}

type DatabaseHealth struct {
	Status       string `json:"status"`
	ResponseTime int64  `json:"response_time_ms"`
	Reports      int    `json:"relatorios"`
}

// CacheHealth is informational: Redis being down degrades reads but
// never takes the API down.
type CacheHealth struct {
	Status string `json:"status"`
}

func NewHealthChecker(db *pgxpool.Pool) *HealthChecker {
	return &HealthChecker{db: db}
}

func (h *HealthChecker) CheckBasic() HealthStatus {
	dbHealth := h.checkDatabase()

	status := "healthy"
	if dbHealth.Status != "healthy" {
		status = "unhealthy"
	}

	return HealthStatus{
		Status:   status,
		Database: dbHealth,
		Cache:    h.checkCache(),
	}
}

// checkDatabase pings the pool and probes the ledger table, so a
// healthy response also proves the migrations ran.
func (h *HealthChecker) checkDatabase() DatabaseHealth {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	start := time.Now()
	err := h.db.Ping(ctx)
	if err != nil {
		return DatabaseHealth{
			Status:       "unhealthy",
			ResponseTime: time.Since(start).Milliseconds(),
		}
	}

	var reports int
	err = h.db.QueryRow(ctx, "SELECT COUNT(*) FROM relatorios_servico").Scan(&reports)
	responseTime := time.Since(start).Milliseconds()
	if err != nil {
		return DatabaseHealth{
			Status:       "unhealthy",
			ResponseTime: responseTime,
		}
	}

	return DatabaseHealth{
		Status:       "healthy",
		ResponseTime: responseTime,
		Reports:      reports,
	}
}

func (h *HealthChecker) checkCache() CacheHealth {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := cache.Ping(ctx); err != nil {
		return CacheHealth{Status: "degraded"}
	}
	return CacheHealth{Status: "healthy"}
}
