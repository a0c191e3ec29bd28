package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	httpProbeTimeout  = 1 * time.Second
	httpInvokeTimeout = 30 * time.Second
)

// HTTPAdapter invokes an LM-Studio-compatible HTTP backend: a plain
// net/http.Client with a bounded timeout, JSON-encoded request and
// response bodies.
type HTTPAdapter struct {
	baseURL string
	client  *http.Client
	config  map[string]any
}

// NewHTTPAdapter builds an HTTPAdapter from adapter_config; base_url
// is required.
func NewHTTPAdapter(config map[string]any) (*HTTPAdapter, error) {
	baseURL, _ := config["base_url"].(string)
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, newValidationError("adapter_config[\"base_url\"] is required for http_llm adapter")
	}
	invokeTimeout := httpInvokeTimeout
	if secs, ok := numberFromAny(config["timeout_seconds"]); ok && secs > 0 {
		invokeTimeout = time.Duration(secs * float64(time.Second))
	}
	return &HTTPAdapter{
		baseURL: baseURL,
		client:  &http.Client{Timeout: invokeTimeout},
		config:  config,
	}, nil
}

// Ping performs a short-timeout HEAD, falling back to a short-timeout
// GET; success iff either yields a 2xx status.
func (a *HTTPAdapter) Ping(ctx context.Context) bool {
	if a.probe(ctx, http.MethodHead) {
		return true
	}
	return a.probe(ctx, http.MethodGet)
}

func (a *HTTPAdapter) probe(ctx context.Context, method string) bool {
	probeCtx, cancel := context.WithTimeout(ctx, httpProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, method, a.baseURL, nil)
	if err != nil {
		return false
	}
	client := &http.Client{Timeout: httpProbeTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// Invoke POSTs payload as JSON to baseURL and parses the JSON
// response. An optional adapter_config["body"] mapping supplies
// default request fields (model name, temperature, ...) that the
// payload overrides key by key. HTTP >= 400 or a transport/decode
// error becomes an AdapterError{kind:"http_llm"}.
func (a *HTTPAdapter) Invoke(ctx context.Context, desc *ServiceDescriptor, payload map[string]any) (map[string]any, error) {
	shaped := payload
	if defaults, ok := a.config["body"].(map[string]any); ok {
		shaped = cloneMap(defaults)
		for k, v := range payload {
			shaped[k] = v
		}
	}

	body, err := json.Marshal(shaped)
	if err != nil {
		return nil, newAdapterError(AdapterKindHTTPLLM, "failed to encode request body: "+err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, newAdapterError(AdapterKindHTTPLLM, "failed to build request: "+err.Error())
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, newAdapterError(AdapterKindHTTPLLM, "request failed: "+err.Error())
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newAdapterError(AdapterKindHTTPLLM, "failed to read response: "+err.Error())
	}

	if resp.StatusCode >= 400 {
		return nil, newAdapterError(AdapterKindHTTPLLM, fmt.Sprintf("status %d: %s", resp.StatusCode, truncate(string(respBody), 200)))
	}

	var decoded map[string]any
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return nil, newAdapterError(AdapterKindHTTPLLM, "failed to decode response: "+err.Error())
	}
	return decoded, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
