package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	fmt.Println("========================================")
	fmt.Println("   Reset Database for Testing")
	fmt.Println("========================================")
	fmt.Println()
	fmt.Println("⚠️  WARNING: This will DELETE ALL REPORT DATA!")
	fmt.Println()
	fmt.Println("This will:")
	fmt.Println("  - Delete all service reports and readings")
	fmt.Println("  - Delete all supply events")
	fmt.Println("  - Delete all computed balances")
	fmt.Println("  - Reset all ID sequences")
	fmt.Println()
	fmt.Print("Type 'yes' to confirm: ")

	var confirm string
	fmt.Scanln(&confirm)

	if confirm != "yes" {
		fmt.Println("Reset cancelled.")
		return
	}

	// Load environment variables
	godotenv.Load()

	// Database connection
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbUser := getEnv("DB_USER", "postgres")
	dbPassword := getEnv("DB_PASSWORD", "postgres")
	dbName := getEnv("DB_NAME", "aguada_db")

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		dbUser, dbPassword, dbHost, dbPort, dbName)

	pool, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v\n", err)
	}
	defer pool.Close()

	fmt.Println()
	fmt.Println("🔄 Resetting database...")

	ctx := context.Background()

	// Start transaction
	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("Failed to begin transaction: %v\n", err)
	}
	defer tx.Rollback(ctx)

	// Truncate all tables (readings cascade with their reports)
	tables := []string{
		"relatorio_reservatorios",
		"relatorios_servico",
		"eventos_abastecimento",
		"balanco_hidrico",
	}

	for _, table := range tables {
		_, err = tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			log.Fatalf("Failed to truncate %s: %v\n", table, err)
		}
		fmt.Printf("  ✓ Cleared %s\n", table)
	}

	// Reset sequences
	sequences := []string{
		"relatorios_servico_id_seq",
		"relatorio_reservatorios_id_seq",
		"eventos_abastecimento_id_seq",
	}

	for _, seq := range sequences {
		_, err = tx.Exec(ctx, fmt.Sprintf("ALTER SEQUENCE %s RESTART WITH 1", seq))
		if err != nil {
			log.Printf("Warning: Failed to reset sequence %s: %v\n", seq, err)
		}
	}
	fmt.Println("  ✓ Reset ID sequences")

	// Commit transaction
	err = tx.Commit(ctx)
	if err != nil {
		log.Fatalf("Failed to commit transaction: %v\n", err)
	}

	fmt.Println()
	fmt.Println("✅ Database reset successful!")
	fmt.Println()
	fmt.Println("Database is now ready for testing!")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
