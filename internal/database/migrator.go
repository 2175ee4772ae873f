package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrator applies the .sql files of a directory in lexical order and
// records each applied file in schema_migrations, so restarts only run
// what is new. Files are read from disk rather than embedded, letting
// operators ship schema fixes without recompiling.
type Migrator struct {
	pool *pgxpool.Pool
	dir  string
}

func NewMigrator(pool *pgxpool.Pool, dir string) *Migrator {
	return &Migrator{pool: pool, dir: dir}
}

// RunMigrations brings the schema up to date. Safe to call on every
// boot.
func (m *Migrator) RunMigrations(ctx context.Context) error {
	log.Println("[Migrator] Starting database migrations...")

	if err := m.ensureTrackingTable(ctx); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := m.appliedSet(ctx)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	files, err := m.pendingFiles()
	if err != nil {
		return err
	}

	ran := 0
	for _, filename := range files {
		if applied[filename] {
			log.Printf("[Migrator]   ✓ Already applied: %s", filename)
			continue
		}

		content, err := os.ReadFile(filepath.Join(m.dir, filename))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", filename, err)
		}

		log.Printf("[Migrator]   → Running: %s", filename)
		if _, err := m.pool.Exec(ctx, string(content)); err != nil {
			return fmt.Errorf("failed to run migration %s: %w", filename, err)
		}

		if _, err := m.pool.Exec(ctx,
			`INSERT INTO schema_migrations (filename) VALUES ($1) ON CONFLICT (filename) DO NOTHING`,
			filename); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", filename, err)
		}
		ran++
	}

	if ran > 0 {
		log.Printf("[Migrator] ✓ Ran %d new migration(s)", ran)
	} else {
		log.Println("[Migrator] ✓ Schema is up to date")
	}
	return nil
}

// pendingFiles lists the .sql files in lexical order. Files whose name
// contains "reset" are destructive helpers and never run automatically.
func (m *Migrator) pendingFiles() ([]string, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}
		if strings.Contains(name, "reset") {
			log.Printf("[Migrator]   ⊘ Skipping: %s (reset script)", name)
			continue
		}
		files = append(files, name)
	}
	sort.Strings(files)
	return files, nil
}

func (m *Migrator) ensureTrackingTable(ctx context.Context) error {
	_, err := m.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			id SERIAL PRIMARY KEY,
			filename VARCHAR(255) UNIQUE NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	return err
}

func (m *Migrator) appliedSet(ctx context.Context) (map[string]bool, error) {
	rows, err := m.pool.Query(ctx, "SELECT filename FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var filename string
		if err := rows.Scan(&filename); err != nil {
			return nil, err
		}
		applied[filename] = true
	}
	return applied, rows.Err()
}
