package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// ErrUnhealthy is returned while the last health check failed
var ErrUnhealthy = errors.New("database connection is not healthy")

// HealthStatus is a snapshot of what the checker last saw
type HealthStatus struct {
	Healthy    bool
	LastCheck  time.Time
	LastError  string
	Failures   int
	Reconnects int
}

// HealthChecker pings the pool on an interval and swaps in a fresh one
// when the ping fails and dial succeeds.
type HealthChecker struct {
	checkInterval time.Duration
	dial          func() (*sql.DB, error)
	stopChan      chan struct{}
	stopOnce      sync.Once

	mu     sync.RWMutex
	db     *sql.DB
	status HealthStatus
}

// NewHealthChecker watches db. Without a dial function it only reports.
func NewHealthChecker(db *sql.DB, checkInterval time.Duration) *HealthChecker {
	return &HealthChecker{
		db:            db,
		checkInterval: checkInterval,
		stopChan:      make(chan struct{}),
		status:        HealthStatus{Healthy: true},
	}
}

func (hc *HealthChecker) Start() {
	go hc.loop()
}

func (hc *HealthChecker) loop() {
	ticker := time.NewTicker(hc.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-hc.stopChan:
			return
		case <-ticker.C:
			hc.check()
		}
	}
}

// Stop is idempotent
func (hc *HealthChecker) Stop() {
	hc.stopOnce.Do(func() { close(hc.stopChan) })
}

func (hc *HealthChecker) check() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err := hc.pool().PingContext(ctx)
	cancel()

	if err == nil {
		if hc.record(nil) {
			log.Println("✓ Database connection restored")
		}
		return
	}

	log.Printf("❌ Database ping failed: %v", err)
	hc.record(err)

	if hc.dial == nil {
		return
	}
	fresh, err := hc.dial()
	if err != nil {
		log.Printf("❌ Database reconnect failed: %v", err)
		return
	}

	hc.mu.Lock()
	old := hc.db
	hc.db = fresh
	hc.status.Healthy = true
	hc.status.LastError = ""
	hc.status.Reconnects++
	hc.mu.Unlock()

	if old != nil {
		old.Close()
	}
	log.Println("✓ Database connection re-established")
}

// record stores the outcome of a ping and reports whether it recovered
// from an unhealthy state.
func (hc *HealthChecker) record(err error) bool {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	recovered := err == nil && !hc.status.Healthy
	hc.status.LastCheck = time.Now()
	if err != nil {
		hc.status.Healthy = false
		hc.status.LastError = err.Error()
		hc.status.Failures++
		return false
	}
	hc.status.Healthy = true
	hc.status.LastError = ""
	return recovered
}

func (hc *HealthChecker) pool() *sql.DB {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	return hc.db
}

func (hc *HealthChecker) Status() HealthStatus {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	return hc.status
}

func (hc *HealthChecker) IsHealthy() bool {
	return hc.Status().Healthy
}

// EnsureConnection fails fast while the pool is known to be down and
// otherwise pings it with a two second budget.
func (hc *HealthChecker) EnsureConnection(ctx context.Context) error {
	if !hc.IsHealthy() {
		return ErrUnhealthy
	}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := hc.pool().PingContext(pingCtx); err != nil {
		hc.record(err)
		return fmt.Errorf("database connection check failed: %w", err)
	}
	return nil
}
