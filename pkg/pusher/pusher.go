package pusher

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"sync"

	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/models"
)

var (
	// ErrUnauthorized means the request carried a missing or wrong write key
	ErrUnauthorized = errors.New("invalid api key")
	// ErrNoReadings means the request carried neither temperature nor humidity
	ErrNoReadings = errors.New("no readings in request")
)

// Pusher parses readings that a device pushes over HTTP
type Pusher interface {
	// GetEndpoint returns the HTTP endpoint path for this pusher
	GetEndpoint() string

	// GetDeviceType returns the device type identifier
	GetDeviceType() string

	// Parse converts request parameters into a reading
	Parse(params url.Values) (*models.SensorReading, error)
}

// Registry maps device types to pushers. Two device types may not share
// an endpoint since the router mounts one handler per path.
type Registry struct {
	mu      sync.RWMutex
	pushers []Pusher
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds p, replacing a pusher of the same device type
func (r *Registry) Register(p Pusher) error {
	if p == nil {
		return errors.New("nil pusher")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.pushers {
		switch {
		case existing.GetDeviceType() == p.GetDeviceType():
			r.pushers[i] = p
			return nil
		case existing.GetEndpoint() == p.GetEndpoint():
			return fmt.Errorf("endpoint %s already serves %s", p.GetEndpoint(), existing.GetDeviceType())
		}
	}
	r.pushers = append(r.pushers, p)
	return nil
}

func (r *Registry) Get(deviceType string) (Pusher, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.pushers {
		if p.GetDeviceType() == deviceType {
			return p, true
		}
	}
	return nil, false
}

// All returns the pushers sorted by endpoint
func (r *Registry) All() []Pusher {
	r.mu.RLock()
	out := append([]Pusher(nil), r.pushers...)
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].GetEndpoint() < out[j].GetEndpoint() })
	return out
}
