package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"
)

//go:embed sql/*.sql
var migrationFiles embed.FS

// Migration is one numbered schema change read from NNNNNN_name.up.sql
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// MigrationState pairs a migration with when it was applied, nil if pending
type MigrationState struct {
	Migration
	AppliedAt *time.Time
}

type MigrationsRunner struct {
	db         *sql.DB
	migrations []Migration
	logger     *log.Logger
}

// NewMigrationsRunner loads the migrations compiled into the binary
func NewMigrationsRunner(db *sql.DB) (*MigrationsRunner, error) {
	sub, err := fs.Sub(migrationFiles, "sql")
	if err != nil {
		return nil, err
	}
	migrations, err := LoadMigrations(sub)
	if err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}
	return &MigrationsRunner{
		db:         db,
		migrations: migrations,
		logger:     log.New(os.Stdout, "migrate: ", log.LstdFlags),
	}, nil
}

// Quiet discards progress output
func (r *MigrationsRunner) Quiet() *MigrationsRunner {
	r.logger.SetOutput(io.Discard)
	return r
}

// LoadMigrations reads every *.up.sql at the root of fsys, sorted by
// version. Files without a numeric prefix are skipped and a duplicate
// version is an error.
func LoadMigrations(fsys fs.FS) ([]Migration, error) {
	names, err := fs.Glob(fsys, "*.up.sql")
	if err != nil {
		return nil, err
	}

	seen := make(map[int]string)
	var migrations []Migration
	for _, name := range names {
		prefix, label, ok := strings.Cut(strings.TrimSuffix(path.Base(name), ".up.sql"), "_")
		if !ok {
			continue
		}
		version, err := strconv.Atoi(prefix)
		if err != nil || version <= 0 {
			continue
		}
		if prev, dup := seen[version]; dup {
			return nil, fmt.Errorf("migration version %d used by both %s and %s", version, prev, name)
		}
		seen[version] = name

		body, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		migrations = append(migrations, Migration{Version: version, Name: label, SQL: string(body)})
	}

	sort.Slice(migrations, func(i, j int) bool { return migrations[i].Version < migrations[j].Version })
	return migrations, nil
}

const migrationsTable = `
    CREATE TABLE IF NOT EXISTS schema_migrations (
        version INTEGER PRIMARY KEY,
        name VARCHAR(255) NOT NULL,
        applied_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
    )
`

// applied returns applied_at keyed by version
func (r *MigrationsRunner) applied(ctx context.Context) (map[int]time.Time, error) {
	if _, err := r.db.ExecContext(ctx, migrationsTable); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, "SELECT version, applied_at FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read applied migrations: %w", err)
	}
	defer rows.Close()

	out := make(map[int]time.Time)
	for rows.Next() {
		var version int
		var at time.Time
		if err := rows.Scan(&version, &at); err != nil {
			return nil, err
		}
		out[version] = at
	}
	return out, rows.Err()
}

// Status lists every known migration and whether it has run
func (r *MigrationsRunner) Status(ctx context.Context) ([]MigrationState, error) {
	applied, err := r.applied(ctx)
	if err != nil {
		return nil, err
	}

	states := make([]MigrationState, 0, len(r.migrations))
	for _, m := range r.migrations {
		state := MigrationState{Migration: m}
		if at, ok := applied[m.Version]; ok {
			at := at
			state.AppliedAt = &at
		}
		states = append(states, state)
	}
	return states, nil
}

// Run applies pending migrations in order, one transaction each, and
// stops at the first failure. It returns how many were applied.
func (r *MigrationsRunner) Run(ctx context.Context) (int, error) {
	states, err := r.Status(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, state := range states {
		if state.AppliedAt != nil {
			continue
		}
		if err := r.apply(ctx, state.Migration); err != nil {
			return count, err
		}
		r.logger.Printf("✓ %06d_%s", state.Version, state.Name)
		count++
	}

	if count == 0 {
		r.logger.Println("schema is up to date")
	}
	return count, nil
}

func (r *MigrationsRunner) apply(ctx context.Context, m Migration) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, m.SQL); err != nil {
		return fmt.Errorf("failed to apply migration %d (%s): %w", m.Version, m.Name, err)
	}
	if _, err = tx.ExecContext(ctx,
		"INSERT INTO schema_migrations (version, name) VALUES ($1, $2)", m.Version, m.Name,
	); err != nil {
		return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
	}
	return nil
}
