package router

import "context"

// Adapter is the invocation transport for one adapter kind. Ping must
// not panic under normal conditions; a caller that observes a panic
// (recovered by the router) treats the kind as Down, same as an
// Invoke failure. Implementations must either be safe for concurrent
// Invoke calls or be constructed fresh per call.
type Adapter interface {
	Ping(ctx context.Context) bool
	Invoke(ctx context.Context, desc *ServiceDescriptor, payload map[string]any) (map[string]any, error)
}

const (
	AdapterKindLocal   = "local"
	AdapterKindHTTPLLM = "http_llm"
)

// MakeAdapter builds the Adapter for a descriptor's adapter_kind and
// adapter_config. An unknown kind is a ValidationError, surfaced the
// same way as a missing kind.
func MakeAdapter(kind string, config map[string]any) (Adapter, error) {
	switch kind {
	case AdapterKindLocal:
		return NewLocalAdapter(config)
	case AdapterKindHTTPLLM:
		return NewHTTPAdapter(config)
	default:
		return nil, newValidationError("unknown adapter kind " + quote(kind))
	}
}

func quote(s string) string { return "\"" + s + "\"" }
