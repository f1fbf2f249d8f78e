package notify

import (
	"context"
	"log"
	"sync"

	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/models"
)

// Notifier delivers raised alerts somewhere outside the process
type Notifier interface {
	Notify(ctx context.Context, alerts []models.Alert) error
	Close() error
}

// LogNotifier writes alerts to the standard logger
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, alerts []models.Alert) error {
	for _, a := range alerts {
		prefix := "⚠"
		if a.Severity == models.SeverityDanger {
			prefix = "❌"
		}
		log.Printf("%s [%s] %s (entry %d)", prefix, a.Severity, a.Message, a.EntryID)
	}
	return nil
}

func (LogNotifier) Close() error { return nil }

// ChangeFilter forwards an alert only when the severity for its metric
// differs from the last one seen, so a reading that stays out of range
// is reported once.
type ChangeFilter struct {
	next Notifier

	mu   sync.Mutex
	last map[string]string
}

// NewChangeFilter wraps next
func NewChangeFilter(next Notifier) *ChangeFilter {
	return &ChangeFilter{next: next, last: make(map[string]string)}
}

// Notify forwards the alerts whose severity changed. Metrics absent from
// alerts are considered back in range.
func (f *ChangeFilter) Notify(ctx context.Context, alerts []models.Alert) error {
	f.mu.Lock()
	seen := make(map[string]bool, len(alerts))
	var changed []models.Alert
	for _, a := range alerts {
		seen[a.Metric] = true
		if f.last[a.Metric] != a.Severity {
			changed = append(changed, a)
		}
		f.last[a.Metric] = a.Severity
	}
	for metric := range f.last {
		if !seen[metric] {
			delete(f.last, metric)
		}
	}
	f.mu.Unlock()

	if len(changed) == 0 {
		return nil
	}
	return f.next.Notify(ctx, changed)
}

func (f *ChangeFilter) Close() error {
	return f.next.Close()
}
