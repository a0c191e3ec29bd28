package router

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const defaultServicesFile = "config/services.lmstudio.yaml"

// manifestEntry mirrors ServiceDescriptor's YAML shape; kept
// separate so manifest parsing never has to fight ServiceDescriptor's
// yaml:"-" Health field.
type manifestEntry struct {
	Name          string         `yaml:"name"`
	Version       string         `yaml:"version"`
	Tags          []string       `yaml:"tags"`
	Adapter       string         `yaml:"adapter"`
	AdapterConfig map[string]any `yaml:"adapter_config"`
	InputSchema   map[string]any `yaml:"input_schema"`
	OutputSchema  map[string]any `yaml:"output_schema"`
	RateLimits    map[string]any `yaml:"rate_limits"`
	Deps          []string       `yaml:"deps"`
	Metadata      map[string]any `yaml:"metadata"`
}

// ServicesFilePath resolves the manifest path; DINO_SERVICES_FILE
// overrides the default.
func ServicesFilePath() string {
	if v := strings.TrimSpace(os.Getenv("DINO_SERVICES_FILE")); v != "" {
		return v
	}
	return defaultServicesFile
}

// LoadServicesFromFile reads and parses the YAML manifest at path,
// applying environment-variable substitution inside each entry's
// adapter_config.
func LoadServicesFromFile(path string) ([]*ServiceDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var entries []manifestEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, err
	}

	out := make([]*ServiceDescriptor, 0, len(entries))
	for _, e := range entries {
		out = append(out, &ServiceDescriptor{
			Name:          e.Name,
			Version:       e.Version,
			Tags:          e.Tags,
			AdapterKind:   e.Adapter,
			AdapterConfig: expandEnvInConfig(e.AdapterConfig),
			InputSchema:   e.InputSchema,
			OutputSchema:  e.OutputSchema,
			RateLimits:    e.RateLimits,
			Deps:          e.Deps,
			Metadata:      e.Metadata,
		})
	}
	return out, nil
}

// expandEnvInConfig applies os.Expand to every string value of config,
// letting a manifest reference e.g. "${LMSTUDIO_HOST}" in base_url.
func expandEnvInConfig(config map[string]any) map[string]any {
	if config == nil {
		return nil
	}
	out := make(map[string]any, len(config))
	for k, v := range config {
		if s, ok := v.(string); ok {
			out[k] = os.Expand(s, os.Getenv)
			continue
		}
		out[k] = v
	}
	return out
}

// AutoRegisterFromConfigAndEnv loads the manifest at servicesFile,
// registers every entry, and soft-probes http_llm entries for base_url
// reachability. Never returns an error: a failed load leaves the
// registry empty, and a bad entry is skipped with a debug log.
func AutoRegisterFromConfigAndEnv(r *ServiceRouter, servicesFile string) {
	entries, err := LoadServicesFromFile(servicesFile)
	if err != nil {
		log.Debug().Err(err).Str("file", servicesFile).Msg("no service manifest loaded")
		return
	}

	for _, desc := range entries {
		registerServiceSafely(r, desc)
	}
}

func registerServiceSafely(r *ServiceRouter, desc *ServiceDescriptor) {
	stored, err := r.Register(desc)
	if err != nil {
		log.Debug().Err(err).Str("service", desc.Name).Msg("skipping manifest entry")
		return
	}

	if !strings.EqualFold(stored.AdapterKind, AdapterKindHTTPLLM) {
		return
	}
	validateAndProbeService(r, stored)
}

// validateAndProbeService soft-validates an http_llm entry: a missing
// base_url marks Degraded without a network call; otherwise a short
// HEAD/GET probe marks Healthy or Degraded. Never errors.
func validateAndProbeService(r *ServiceRouter, desc *ServiceDescriptor) {
	baseURL, _ := desc.AdapterConfig["base_url"].(string)
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		errMsg := "missing base_url"
		zero := 0.0
		r.Registry().UpdateHealth(desc.Name, HealthDegraded, &zero, &errMsg)
		return
	}

	zero := 0.0
	if probeReachable(baseURL) {
		r.Registry().UpdateHealth(desc.Name, HealthHealthy, &zero, nil)
	} else {
		r.Registry().UpdateHealth(desc.Name, HealthDegraded, &zero, nil)
	}
}

// probeReachable performs the same short-timeout HEAD-then-GET probe
// as HTTPAdapter.Ping, used by ConfigLoader before a router pipeline
// even exists for the service.
func probeReachable(baseURL string) bool {
	client := &http.Client{Timeout: 800 * time.Millisecond}

	if req, err := http.NewRequest(http.MethodHead, baseURL, nil); err == nil {
		if resp, err := client.Do(req); err == nil {
			resp.Body.Close()
			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return true
			}
		}
	}

	if req, err := http.NewRequest(http.MethodGet, baseURL, nil); err == nil {
		if resp, err := client.Do(req); err == nil {
			resp.Body.Close()
			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return true
			}
		}
	}

	return false
}
