package router

import "sync"

// Metrics is the minimal per-service success/error/latency counter
// set exposed at GET /router/metrics.
type Metrics struct {
	mu    sync.Mutex
	stats map[string]*serviceStats
}

type serviceStats struct {
	Successes      int64   `json:"successes"`
	Errors         int64   `json:"errors"`
	TotalLatencyMs float64 `json:"total_latency_ms"`
}

// NewMetrics builds an empty metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{stats: make(map[string]*serviceStats)}
}

// RecordSuccess increments the success counter and latency sum for name.
func (m *Metrics) RecordSuccess(name string, latencyMs float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.entry(name)
	s.Successes++
	s.TotalLatencyMs += latencyMs
}

// RecordError increments the error counter for name.
func (m *Metrics) RecordError(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entry(name).Errors++
}

func (m *Metrics) entry(name string) *serviceStats {
	s, ok := m.stats[name]
	if !ok {
		s = &serviceStats{}
		m.stats[name] = s
	}
	return s
}

// ServiceSnapshot is one entry of Metrics.Snapshot's per-service view.
type ServiceSnapshot struct {
	Name           string  `json:"name"`
	Successes      int64   `json:"successes"`
	Errors         int64   `json:"errors"`
	TotalLatencyMs float64 `json:"total_latency_ms"`
}

// Snapshot returns a defensive copy of every service's counters.
func (m *Metrics) Snapshot() []ServiceSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ServiceSnapshot, 0, len(m.stats))
	for name, s := range m.stats {
		out = append(out, ServiceSnapshot{
			Name:           name,
			Successes:      s.Successes,
			Errors:         s.Errors,
			TotalLatencyMs: s.TotalLatencyMs,
		})
	}
	return out
}
