package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"aguada-backend/internal/cache"
	"aguada-backend/internal/config"
	"aguada-backend/internal/database"
	"aguada-backend/internal/db"
	"aguada-backend/internal/handlers"
	"aguada-backend/internal/health"
	h "aguada-backend/internal/http"
	"aguada-backend/internal/middleware"
	"aguada-backend/internal/repositories"
	"aguada-backend/internal/services"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	migrationsDir := flag.String("migrations", "migrations", "Directory with .sql migration files")
	flag.Parse()

	// Load configuration
	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}

	// Connect to Postgres; the pool is injected into every repository
	pool, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Initialize Redis cache (optional - graceful fallback if unavailable)
	if err := cache.Init(cfg); err != nil {
		log.Printf("[Redis] Cache unavailable: %v (read endpoints will hit the database)", err)
	} else {
		log.Println("[Redis] Cache connected successfully")
	}

	// Run database migrations
	log.Println("Running database migrations...")
	migrator := database.NewMigrator(pool, *migrationsDir)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := migrator.RunMigrations(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize repositories
	reportRepo := repositories.NewReportRepository(pool)
	supplyRepo := repositories.NewSupplyEventRepository(pool)
	balanceRepo := repositories.NewBalanceRepository(pool)

	// Initialize services
	reportService := services.NewReportService(reportRepo)
	supplyService := services.NewSupplyService(supplyRepo)
	balanceService := services.NewBalanceService(balanceRepo)
	pendingService := services.NewPendingService(reportRepo, cfg.Schedule.Shifts, cfg.Schedule.CadenceDays)

	// Initialize handlers
	reportAPIHandler := handlers.NewReportAPIHandler(reportService, balanceService, supplyService, pendingService)
	healthHandler := handlers.NewHealthHandler(health.NewHealthChecker(pool))
	monitoringHandler := handlers.NewMonitoringHandler(pool)

	// Router wrapped with panic recovery, metrics and CORS
	router := h.NewRouter(reportAPIHandler, healthHandler, monitoringHandler)
	corsMiddleware := middleware.NewCORS(cfg)
	handler := middleware.PanicRecovery(middleware.MetricsMiddleware(corsMiddleware(router)))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Report ledger API listening on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
