package router

import (
	"math"
	"sort"
	"strings"
	"sync"
)

const (
	PolicyFirstHealthy  = "first_healthy"
	PolicyRoundRobin    = "round_robin"
	PolicyLowestLatency = "lowest_latency"
)

// SelectionPolicy chooses one descriptor among a tag's healthy
// candidates. round_robin needs a per-tag monotonic cursor, so the
// policy is a stateful type rather than a free function.
type SelectionPolicy struct {
	mu      sync.Mutex
	cursors map[string]int
}

// NewSelectionPolicy builds an empty policy with no round-robin history.
func NewSelectionPolicy() *SelectionPolicy {
	return &SelectionPolicy{cursors: make(map[string]int)}
}

// Select resolves tag to one healthy descriptor under the named
// policy. Unknown policy strings fall back to first_healthy.
func (p *SelectionPolicy) Select(registry *ServiceRegistry, tag, policy string) (*ServiceDescriptor, error) {
	candidates := registry.GetByTag(tag)
	if len(candidates) == 0 {
		return nil, newServiceNotFound("no service registered for tag %q", tag)
	}

	var healthy []*ServiceDescriptor
	for _, c := range candidates {
		if isHealthy(c.Health) {
			healthy = append(healthy, c)
		}
	}
	if len(healthy) == 0 {
		return nil, newNoHealthyService("no healthy service for tag %q", tag)
	}

	sort.Slice(healthy, func(i, j int) bool { return healthy[i].Name < healthy[j].Name })

	switch strings.ToLower(strings.TrimSpace(policy)) {
	case PolicyRoundRobin:
		return p.selectRoundRobin(tag, healthy), nil
	case PolicyLowestLatency:
		return selectLowestLatency(healthy), nil
	case PolicyFirstHealthy, "":
		return healthy[0], nil
	default:
		return healthy[0], nil
	}
}

func (p *SelectionPolicy) selectRoundRobin(tag string, healthy []*ServiceDescriptor) *ServiceDescriptor {
	p.mu.Lock()
	defer p.mu.Unlock()
	idx := p.cursors[tag] % len(healthy)
	p.cursors[tag] = p.cursors[tag] + 1
	return healthy[idx]
}

func selectLowestLatency(healthy []*ServiceDescriptor) *ServiceDescriptor {
	best := healthy[0]
	bestLatency := latencyOrInf(best)
	for _, c := range healthy[1:] {
		l := latencyOrInf(c)
		if l < bestLatency {
			best, bestLatency = c, l
		}
	}
	return best
}

func latencyOrInf(d *ServiceDescriptor) float64 {
	if d.Health == nil || d.Health.LatencyMs < 0 {
		return math.Inf(1)
	}
	return d.Health.LatencyMs
}
