package router

import (
	"strings"
	"sync"
)

// ServiceRegistry is a thread-safe, in-memory map of name to
// ServiceDescriptor. It is the single source of truth for both static
// service wiring and mutable health state. Every read method returns a
// defensive copy; callers can never reach registry-owned memory
// without the lock held.
type ServiceRegistry struct {
	mu       sync.Mutex
	services map[string]*ServiceDescriptor
}

// NewServiceRegistry builds an empty registry.
func NewServiceRegistry() *ServiceRegistry {
	return &ServiceRegistry{services: make(map[string]*ServiceDescriptor)}
}

// Register stores desc under its Name, replacing any prior descriptor
// of that name atomically. Returns a copy of what was stored.
func (r *ServiceRegistry) Register(desc *ServiceDescriptor) (*ServiceDescriptor, error) {
	if desc == nil || strings.TrimSpace(desc.Name) == "" {
		return nil, newValidationError("descriptor name must be non-empty")
	}
	stored := desc.clone()
	r.mu.Lock()
	r.services[stored.Name] = stored
	r.mu.Unlock()
	return stored.clone(), nil
}

// Unregister removes a service by name, reporting whether it was present.
func (r *ServiceRegistry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.services[name]; !ok {
		return false
	}
	delete(r.services, name)
	return true
}

// GetByName returns a defensive copy of the named descriptor, or
// ServiceNotFoundError if it isn't registered.
func (r *ServiceRegistry) GetByName(name string) (*ServiceDescriptor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.services[name]
	if !ok {
		return nil, newServiceNotFound("service %q not found", name)
	}
	return d.clone(), nil
}

// GetByTag returns copies of every descriptor carrying tag
// (case-insensitive). May return an empty slice.
func (r *ServiceRegistry) GetByTag(tag string) []*ServiceDescriptor {
	tag = strings.ToLower(strings.TrimSpace(tag))
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*ServiceDescriptor
	for _, d := range r.services {
		if hasTag(d.Tags, tag) {
			out = append(out, d.clone())
		}
	}
	return out
}

// List returns copies of every registered descriptor.
func (r *ServiceRegistry) List() []*ServiceDescriptor {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*ServiceDescriptor, 0, len(r.services))
	for _, d := range r.services {
		out = append(out, d.clone())
	}
	return out
}

// HealthPatch is the whole-snapshot form accepted by UpdateHealthPatch;
// a nil LatencyMs yields a latency of 0 and a nil Error an empty error.
type HealthPatch struct {
	State     string
	LatencyMs *float64
	Error     *string
}

// UpdateHealth sets the health snapshot for name to state, with
// optional latency and error, and returns a copy of the updated
// descriptor. ServiceNotFoundError if name isn't registered.
func (r *ServiceRegistry) UpdateHealth(name string, state HealthState, latencyMs *float64, errMsg *string) (*ServiceDescriptor, error) {
	patch := HealthPatch{State: string(state), LatencyMs: latencyMs, Error: errMsg}
	return r.UpdateHealthPatch(name, patch)
}

// UpdateHealthPatch replaces the health snapshot with one built from a
// HealthPatch, normalizing State to upper-case. Nil LatencyMs/Error
// leave those fields at their zero values; nothing from the previous
// snapshot is kept.
func (r *ServiceRegistry) UpdateHealthPatch(name string, patch HealthPatch) (*ServiceDescriptor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.services[name]
	if !ok {
		return nil, newServiceNotFound("service %q not found", name)
	}
	h := &Health{State: normalizeHealthState(patch.State)}
	if patch.LatencyMs != nil {
		h.LatencyMs = *patch.LatencyMs
	}
	if patch.Error != nil {
		h.Error = *patch.Error
	}
	d.Health = h
	return d.clone(), nil
}
