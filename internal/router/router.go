// Package router implements the DinoAir Service Router.
//
// The router dispatches named or tag-selected service requests through
// pluggable adapters (in-process local calls, remote LM-Studio-style HTTP
// calls), enforcing per-service rate limits and schema contracts, tracking
// health, and emitting a structured log line for every call.
package router

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ServiceRouter orchestrates the full Execute pipeline: registry
// lookup, adapter resolution, rate limiting, schema validation,
// invocation, health update, metrics, and logging.
type ServiceRouter struct {
	registry *ServiceRegistry
	limiter  *RateLimiter
	policy   *SelectionPolicy
	metrics  *Metrics

	validatorsMu sync.Mutex
	validators   map[string]*compiledValidators
}

type compiledValidators struct {
	input  *SchemaValidator
	output *SchemaValidator
}

// NewServiceRouter builds a router over its own fresh registry,
// limiter, policy, and metrics collector.
func NewServiceRouter() *ServiceRouter {
	return &ServiceRouter{
		registry:   NewServiceRegistry(),
		limiter:    NewRateLimiter(),
		policy:     NewSelectionPolicy(),
		metrics:    NewMetrics(),
		validators: make(map[string]*compiledValidators),
	}
}

// Registry exposes the underlying ServiceRegistry for registration and
// introspection (e.g. by ConfigLoader or the HTTP handlers).
func (r *ServiceRouter) Registry() *ServiceRegistry { return r.registry }

// Metrics exposes the router's metrics snapshot source.
func (r *ServiceRouter) Metrics() *Metrics { return r.metrics }

// Register stores desc and pre-builds its input/output validators so
// Execute never constructs a validator per request.
func (r *ServiceRouter) Register(desc *ServiceDescriptor) (*ServiceDescriptor, error) {
	stored, err := r.registry.Register(desc)
	if err != nil {
		return nil, err
	}
	r.validatorsMu.Lock()
	r.validators[stored.Name] = &compiledValidators{
		input:  NewSchemaValidator(stored.InputSchema),
		output: NewSchemaValidator(stored.OutputSchema),
	}
	r.validatorsMu.Unlock()
	return stored, nil
}

func (r *ServiceRouter) validatorsFor(name string) *compiledValidators {
	r.validatorsMu.Lock()
	defer r.validatorsMu.Unlock()
	v, ok := r.validators[name]
	if !ok {
		return &compiledValidators{input: NewSchemaValidator(nil), output: NewSchemaValidator(nil)}
	}
	return v
}

var (
	singletonOnce sync.Once
	singleton     *ServiceRouter
)

// GetRouter returns the process-wide ServiceRouter, constructing it on
// first use.
func GetRouter() *ServiceRouter {
	singletonOnce.Do(func() {
		singleton = NewServiceRouter()
	})
	return singleton
}

// Execute runs the full dispatch pipeline for a single named service.
//
// A schema rejection (input or output) or rate-limit rejection is
// logged, counted as an error, and returns (nil, nil) with no health
// change; only lookup failures, a missing or unknown adapter kind, and
// adapter construction or invocation failures return a non-nil error.
func (r *ServiceRouter) Execute(ctx context.Context, name string, payload map[string]any) (map[string]any, error) {
	start := time.Now()
	callID := uuid.New().String()

	desc, err := r.registry.GetByName(name)
	if err != nil {
		r.logEvent(callID, name, "execute", time.Since(start), false, "", "", err.Error())
		return nil, err
	}

	if desc.AdapterKind == "" {
		verr := newValidationError("missing adapter kind for service '" + name + "'")
		r.logEvent(callID, name, "execute", time.Since(start), false, "", "", verr.Error())
		return nil, verr
	}

	if rpm := resolveRPM(desc); rpm > 0 {
		if err := r.limiter.Allow(name, rpm); err != nil {
			r.metrics.RecordError(name)
			r.logEvent(callID, name, "execute", time.Since(start), false, "", "", err.Error())
			return nil, nil
		}
	}

	validators := r.validatorsFor(name)

	validatedInput, err := validators.input.Validate(payload)
	if err != nil {
		r.metrics.RecordError(name)
		r.logEvent(callID, name, "execute", time.Since(start), false, "", "", "input validation failed: "+err.Error())
		return nil, nil
	}

	adapter, err := MakeAdapter(desc.AdapterKind, desc.AdapterConfig)
	if err != nil {
		r.metrics.RecordError(name)
		r.logEvent(callID, name, "execute", time.Since(start), false, "", "", err.Error())
		return nil, err
	}

	result, err := adapter.Invoke(ctx, desc, validatedInput)
	if err != nil {
		r.failExecution(name, callID, start, err)
		return nil, err
	}

	validatedOutput, err := validators.output.Validate(result)
	if err != nil {
		r.metrics.RecordError(name)
		r.logEvent(callID, name, "execute", time.Since(start), false, "", "", "output validation failed: "+err.Error())
		return nil, nil
	}

	latency := float64(time.Since(start)) / float64(time.Millisecond)
	r.registry.UpdateHealth(name, HealthHealthy, &latency, nil)
	r.metrics.RecordSuccess(name, latency)
	r.logEvent(callID, name, "execute", time.Since(start), true, "", "", "")
	return validatedOutput, nil
}

// failExecution records the invocation-failed outcome: error metric,
// health Down with latency and message, error-level log.
func (r *ServiceRouter) failExecution(name, callID string, start time.Time, err error) {
	latency := float64(time.Since(start)) / float64(time.Millisecond)
	msg := err.Error()
	r.metrics.RecordError(name)
	r.registry.UpdateHealth(name, HealthDown, &latency, &msg)
	r.logEvent(callID, name, "execute", time.Since(start), false, "", "", msg)
}

// ExecuteByTag selects a candidate for tag under policy (default
// first_healthy) and delegates to Execute.
func (r *ServiceRouter) ExecuteByTag(ctx context.Context, tag string, payload map[string]any, policy string) (map[string]any, error) {
	if policy == "" {
		policy = PolicyFirstHealthy
	}
	callID := uuid.New().String()

	chosen, err := r.policy.Select(r.registry, tag, policy)
	if err != nil {
		r.logEvent(callID, "", "route_select", 0, false, tag, policy, err.Error())
		return nil, err
	}
	r.logEvent(callID, chosen.Name, "route_select", 0, true, tag, policy, "")

	return r.Execute(ctx, chosen.Name, payload)
}

// CheckHealth pings the named service's adapter and records the
// resulting health state, returning a defensive copy of the snapshot.
func (r *ServiceRouter) CheckHealth(ctx context.Context, name string) (*Health, error) {
	start := time.Now()
	callID := uuid.New().String()

	desc, err := r.registry.GetByName(name)
	if err != nil {
		r.logEvent(callID, name, "check_health", time.Since(start), false, "", "", err.Error())
		return nil, err
	}

	adapter, err := MakeAdapter(desc.AdapterKind, desc.AdapterConfig)
	if err != nil {
		r.logEvent(callID, name, "check_health", time.Since(start), false, "", "", err.Error())
		return nil, err
	}

	state, latencyMs := pingWithTiming(ctx, adapter)
	updated, err := r.registry.UpdateHealth(name, state, &latencyMs, nil)
	ok := state == HealthHealthy
	r.logEvent(callID, name, "check_health", time.Since(start), ok, "", "", "")
	if err != nil {
		return nil, err
	}
	return updated.Health.Clone(), nil
}

// pingWithTiming wraps adapter.Ping with wall-clock timing and panic
// recovery: true -> Healthy, false -> Degraded, panic -> Down.
func pingWithTiming(ctx context.Context, adapter Adapter) (state HealthState, latencyMs float64) {
	start := time.Now()
	defer func() {
		latencyMs = float64(time.Since(start)) / float64(time.Millisecond)
		if rec := recover(); rec != nil {
			state = HealthDown
		}
	}()

	if adapter.Ping(ctx) {
		return HealthHealthy, 0
	}
	return HealthDegraded, 0
}

// logEvent emits one structured line per routed event: service, event,
// duration_ms, ok always present; tag/policy/error only when non-empty.
// ok=true logs at info, ok=false at error.
func (r *ServiceRouter) logEvent(callID, service, event string, duration time.Duration, ok bool, tag, policy, errMsg string) {
	durationMs := int64(duration / time.Millisecond)

	var evt *zerolog.Event
	if ok {
		evt = log.Info()
	} else {
		evt = log.Error()
	}
	evt = evt.Str("call_id", callID).
		Str("service", service).
		Str("event", event).
		Int64("duration_ms", durationMs).
		Bool("ok", ok)
	if tag != "" {
		evt = evt.Str("tag", tag)
	}
	if policy != "" {
		evt = evt.Str("policy", policy)
	}
	if errMsg != "" {
		evt = evt.Str("error", errMsg)
	}
	evt.Msg("service router event")
}
