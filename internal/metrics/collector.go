package metrics

import "time"

// Collector is an interface for components that record the outcome of slash
// command dispatches.
type Collector interface {
	// Rejected records one request that failed verification.
	Rejected()
	// Handled records one processed command and how long processing took.
	Handled(command string, duration time.Duration)
	// DeliveryFailed records one response that could not be delivered.
	DeliveryFailed()
}

type nopCollector struct{}

// NewNopCollector returns a Collector that discards everything.
func NewNopCollector() Collector {
	return nopCollector{}
}

func (nopCollector) Rejected() {}

func (nopCollector) Handled(string, time.Duration) {}

func (nopCollector) DeliveryFailed() {}
