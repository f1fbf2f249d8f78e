package puller

import (
	"context"
	"sync"

	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/models"
)

// Puller is an upstream that has to be polled for readings
type Puller interface {
	// GetProviderType names the upstream, e.g. "thingspeak"
	GetProviderType() string

	// Pull returns whatever the upstream currently holds; duplicates of
	// already stored readings are expected.
	Pull(ctx context.Context) ([]models.SensorReading, error)
}

// PullerRegistry keeps pullers in registration order, one per provider type
type PullerRegistry struct {
	mu      sync.RWMutex
	pullers []Puller
}

func NewPullerRegistry() *PullerRegistry {
	return &PullerRegistry{}
}

// Register appends p. A puller with the same provider type is replaced
// in place so polling order stays stable.
func (r *PullerRegistry) Register(p Puller) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := r.index(p.GetProviderType()); i >= 0 {
		r.pullers[i] = p
		return
	}
	r.pullers = append(r.pullers, p)
}

func (r *PullerRegistry) Get(providerType string) (Puller, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.index(providerType); i >= 0 {
		return r.pullers[i], true
	}
	return nil, false
}

// All returns a copy safe to iterate while others register
func (r *PullerRegistry) All() []Puller {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Puller(nil), r.pullers...)
}

func (r *PullerRegistry) index(providerType string) int {
	for i, p := range r.pullers {
		if p.GetProviderType() == providerType {
			return i
		}
	}
	return -1
}
