package router

import "strings"

// ServiceDescriptor describes a registered service: its identity,
// schema contracts, adapter wiring, and runtime health. It is handed
// out by the registry as a value; callers must go through
// ServiceRegistry.UpdateHealth to mutate Health, never write to a
// descriptor obtained from GetByName/GetByTag/List directly.
type ServiceDescriptor struct {
	Name    string   `yaml:"name" json:"name"`
	Version string   `yaml:"version" json:"version"`
	Tags    []string `yaml:"tags" json:"tags"`

	AdapterKind   string         `yaml:"adapter" json:"adapter_kind"`
	AdapterConfig map[string]any `yaml:"adapter_config" json:"adapter_config"`

	InputSchema  map[string]any `yaml:"input_schema" json:"input_schema,omitempty"`
	OutputSchema map[string]any `yaml:"output_schema" json:"output_schema,omitempty"`

	RateLimits map[string]any `yaml:"rate_limits" json:"rate_limits,omitempty"`
	Deps       []string       `yaml:"deps" json:"deps,omitempty"`
	Metadata   map[string]any `yaml:"metadata" json:"metadata,omitempty"`

	Health *Health `yaml:"-" json:"health,omitempty"`
}

// clone returns a deep-enough copy so that a caller mutating the
// returned descriptor (its maps, slices, or Health pointer) cannot
// reach back into registry-owned state.
func (d *ServiceDescriptor) clone() *ServiceDescriptor {
	if d == nil {
		return nil
	}
	c := &ServiceDescriptor{
		Name:        d.Name,
		Version:     d.Version,
		AdapterKind: d.AdapterKind,
	}
	c.Tags = append([]string(nil), d.Tags...)
	c.AdapterConfig = cloneMap(d.AdapterConfig)
	c.InputSchema = cloneMap(d.InputSchema)
	c.OutputSchema = cloneMap(d.OutputSchema)
	c.RateLimits = cloneMap(d.RateLimits)
	c.Deps = append([]string(nil), d.Deps...)
	c.Metadata = cloneMap(d.Metadata)
	c.Health = d.Health.Clone()
	return c
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		switch vv := v.(type) {
		case map[string]any:
			out[k] = cloneMap(vv)
		case []any:
			out[k] = append([]any(nil), vv...)
		default:
			out[k] = vv
		}
	}
	return out
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
