package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/url"
	"os"
	"time"

	_ "github.com/lib/pq"
)

// Config describes how to reach Postgres. URL wins over the individual fields.
type Config struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string

	MaxOpenConns  int
	MaxIdleConns  int
	CheckInterval time.Duration
}

// ConfigFromEnv reads DATABASE_URL or the DB_* variables
func ConfigFromEnv() Config {
	return Config{
		URL:           os.Getenv("DATABASE_URL"),
		Host:          envOr("DB_HOST", "localhost"),
		Port:          envOr("DB_PORT", "5432"),
		User:          envOr("DB_USER", "dht_user"),
		Password:      envOr("DB_PASSWORD", "dht_pass"),
		Name:          envOr("DB_NAME", "dht_db"),
		SSLMode:       envOr("DB_SSLMODE", "disable"),
		MaxOpenConns:  10,
		MaxIdleConns:  3,
		CheckInterval: 30 * time.Second,
	}
}

// DSN renders the connection string handed to lib/pq
func (c Config) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   c.Host + ":" + c.Port,
		Path:   "/" + c.Name,
	}
	if c.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {c.SSLMode}}.Encode()
	}
	return u.String()
}

// Redacted is DSN with the password masked, for logs
func (c Config) Redacted() string {
	u, err := url.Parse(c.DSN())
	if err != nil {
		return "postgres://invalid"
	}
	return u.Redacted()
}

// open creates a pool and verifies it answers within ten seconds
func (c Config) open() (*sql.DB, error) {
	db, err := sql.Open("postgres", c.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database %s: %w", c.Redacted(), err)
	}

	if c.MaxOpenConns > 0 {
		db.SetMaxOpenConns(c.MaxOpenConns)
	}
	if c.MaxIdleConns > 0 {
		db.SetMaxIdleConns(c.MaxIdleConns)
	}
	return db, nil
}

// DatabaseManager owns the reading and user tables
type DatabaseManager struct {
	db            *sql.DB
	healthChecker *HealthChecker
}

// NewDatabaseManager connects using the environment
func NewDatabaseManager() (*DatabaseManager, error) {
	return Connect(ConfigFromEnv())
}

// Connect opens a pool for cfg and starts watching it
func Connect(cfg Config) (*DatabaseManager, error) {
	db, err := cfg.open()
	if err != nil {
		return nil, err
	}

	interval := cfg.CheckInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	hc := NewHealthChecker(db, interval)
	hc.dial = cfg.open
	hc.Start()

	log.Printf("✓ Connected to %s", cfg.Redacted())
	return &DatabaseManager{db: db, healthChecker: hc}, nil
}

// GetDB returns the live pool. It changes after a reconnect.
func (dm *DatabaseManager) GetDB() *sql.DB {
	if dm.healthChecker == nil {
		return dm.db
	}
	return dm.healthChecker.pool()
}

func (dm *DatabaseManager) Close() error {
	if dm.healthChecker != nil {
		dm.healthChecker.Stop()
	}
	db := dm.GetDB()
	if db == nil {
		return nil
	}
	return db.Close()
}

// Health reports the checker's view of the pool
func (dm *DatabaseManager) Health() HealthStatus {
	if dm.healthChecker == nil {
		return HealthStatus{Healthy: dm.db != nil}
	}
	return dm.healthChecker.Status()
}

func (dm *DatabaseManager) IsConnectionHealthy() bool {
	return dm.Health().Healthy
}

// QueryWithHealthCheck runs query once the pool answers a ping
func (dm *DatabaseManager) QueryWithHealthCheck(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	if err := dm.healthChecker.EnsureConnection(ctx); err != nil {
		return nil, err
	}
	return dm.GetDB().QueryContext(ctx, query, args...)
}

// ExecWithHealthCheck runs a statement once the pool answers a ping
func (dm *DatabaseManager) ExecWithHealthCheck(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	if err := dm.healthChecker.EnsureConnection(ctx); err != nil {
		return nil, err
	}
	return dm.GetDB().ExecContext(ctx, query, args...)
}

// row defers a failed health check to Scan so callers keep the
// QueryRow chaining style without mistaking an outage for sql.ErrNoRows.
type row struct {
	*sql.Row
	err error
}

func (r row) Scan(dest ...interface{}) error {
	if r.err != nil {
		return r.err
	}
	return r.Row.Scan(dest...)
}

func (dm *DatabaseManager) queryRow(ctx context.Context, query string, args ...interface{}) row {
	if err := dm.healthChecker.EnsureConnection(ctx); err != nil {
		return row{err: err}
	}
	return row{Row: dm.GetDB().QueryRowContext(ctx, query, args...)}
}

// Init applies pending migrations
func (dm *DatabaseManager) Init() error {
	_, err := dm.Migrate(context.Background())
	return err
}

// Migrate applies pending migrations and returns how many ran
func (dm *DatabaseManager) Migrate(ctx context.Context) (int, error) {
	runner, err := NewMigrationsRunner(dm.GetDB())
	if err != nil {
		return 0, err
	}
	n, err := runner.Run(ctx)
	if err != nil {
		return n, fmt.Errorf("failed to run migrations: %w", err)
	}
	return n, nil
}

// MigrationStatus lists known migrations with their applied time
func (dm *DatabaseManager) MigrationStatus(ctx context.Context) ([]MigrationState, error) {
	runner, err := NewMigrationsRunner(dm.GetDB())
	if err != nil {
		return nil, err
	}
	return runner.Quiet().Status(ctx)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
