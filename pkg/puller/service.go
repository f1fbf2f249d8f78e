package puller

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/models"
)

// Store persists pulled readings
type Store interface {
	StoreObservations(ctx context.Context, readings []models.SensorReading) (int, error)
}

// Hook runs after a provider's readings were stored
type Hook func(ctx context.Context, providerType string, readings []models.SensorReading)

// PullerService polls every registered puller on an interval
type PullerService struct {
	store          Store
	pullerRegistry *PullerRegistry
	interval       time.Duration
	pullTimeout    time.Duration
	stopChan       chan struct{}
	stopOnce       sync.Once
	done           chan struct{}
	hooks          []Hook
	started        bool
	mu             sync.RWMutex
}

// NewPullerService creates a new PullerService. store may be nil, in which
// case readings are only handed to the hooks.
func NewPullerService(store Store, registry *PullerRegistry, interval time.Duration) *PullerService {
	return &PullerService{
		store:          store,
		pullerRegistry: registry,
		interval:       interval,
		pullTimeout:    30 * time.Second,
		stopChan:       make(chan struct{}),
		done:           make(chan struct{}),
	}
}

// OnPull registers a hook called after every successful pull
func (ps *PullerService) OnPull(hook Hook) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.hooks = append(ps.hooks, hook)
}

// Start begins the periodic pulling service
func (ps *PullerService) Start() {
	ps.mu.Lock()
	ps.started = true
	ps.mu.Unlock()

	go ps.run()
	log.Printf("✓ Puller service started (every %s)", ps.interval)
}

// Stop halts the pulling service and waits for an in-flight pull to finish
func (ps *PullerService) Stop() {
	ps.stopOnce.Do(func() {
		close(ps.stopChan)

		ps.mu.RLock()
		started := ps.started
		ps.mu.RUnlock()
		if started {
			<-ps.done
		}
		log.Println("✓ Puller service stopped")
	})
}

func (ps *PullerService) run() {
	defer close(ps.done)

	ticker := time.NewTicker(ps.interval)
	defer ticker.Stop()

	// Pull immediately on start
	ps.PullAll()

	for {
		select {
		case <-ps.stopChan:
			return
		case <-ticker.C:
			ps.PullAll()
		}
	}
}

// PullAll pulls once from every registered provider
func (ps *PullerService) PullAll() {
	for _, p := range ps.pullerRegistry.All() {
		ps.pullFromProvider(p)
	}
}

func (ps *PullerService) pullFromProvider(p Puller) {
	ctx, cancel := context.WithTimeout(context.Background(), ps.pullTimeout)
	defer cancel()

	readings, err := p.Pull(ctx)
	if err != nil {
		log.Printf("❌ Error pulling from %s: %v", p.GetProviderType(), err)
		return
	}

	if len(readings) == 0 {
		log.Printf("⚠ No readings received from %s", p.GetProviderType())
		return
	}

	if ps.store != nil {
		if _, err := ps.store.StoreObservations(ctx, readings); err != nil {
			log.Printf("❌ Error storing readings from %s: %v", p.GetProviderType(), err)
			return
		}
	}

	ps.mu.RLock()
	hooks := append([]Hook(nil), ps.hooks...)
	ps.mu.RUnlock()

	for _, hook := range hooks {
		hook(ctx, p.GetProviderType(), readings)
	}

	log.Printf("✓ Pulled %d readings from %s", len(readings), p.GetProviderType())
}
