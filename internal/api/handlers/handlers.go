// Package handlers adapts the ServiceRouter to HTTP. The core returns
// typed errors; this layer maps them onto status codes.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dinoair/servicerouter/internal/config"
	"github.com/dinoair/servicerouter/internal/router"
)

func nowRFC3339() string { return time.Now().UTC().Format(time.RFC3339) }

// Handlers wires the ServiceRouter and ambient Config to HTTP endpoints.
type Handlers struct {
	Router *router.ServiceRouter
	Config *config.Config
}

// New builds a Handlers bound to router r and configuration cfg.
func New(r *router.ServiceRouter, cfg *config.Config) *Handlers {
	return &Handlers{Router: r, Config: cfg}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// statusForError maps the router's typed errors onto HTTP status
// codes: ServiceNotFound->404, ValidationError->400,
// NoHealthyService->503, NotImplemented->501, everything else
// (AdapterError, etc.)->500.
func statusForError(err error) int {
	switch err.(type) {
	case *router.ServiceNotFoundError:
		return http.StatusNotFound
	case *router.ValidationError:
		return http.StatusBadRequest
	case *router.NoHealthyServiceError:
		return http.StatusServiceUnavailable
	case *router.NotImplementedError:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusForError(err), map[string]any{"error": err.Error()})
}

// Health responds to GET /health. The adapters check summarizes the
// registry's health snapshots: any Down service degrades it, all Down
// makes it unhealthy. HTTP 200 only when the overall status is ok.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	adapters := "ok"
	services := h.Router.Registry().List()
	down := 0
	for _, svc := range services {
		if svc.Health != nil && svc.Health.State == router.HealthDown {
			down++
		}
	}
	if down > 0 {
		adapters = "degraded"
		if down == len(services) {
			adapters = "unhealthy"
		}
	}

	status := adapters
	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]any{
		"status": status,
		"checks": map[string]any{
			"router":   "ok",
			"adapters": adapters,
			"time":     nowRFC3339(),
		},
	})
}

// Version responds to GET /version.
func (h *Handlers) Version(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"version": h.Config.Version,
		"build":   h.Config.Build,
		"commit":  h.Config.Commit,
	})
}

type executeRequest struct {
	Service string         `json:"service"`
	Payload map[string]any `json:"payload"`
}

// Execute responds to POST /router/execute.
func (h *Handlers) Execute(w http.ResponseWriter, r *http.Request) {
	var req executeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	result, err := h.Router.Execute(r.Context(), req.Service, req.Payload)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"result": result})
}

type executeByTagRequest struct {
	Tag     string         `json:"tag"`
	Payload map[string]any `json:"payload"`
	Policy  string         `json:"policy"`
}

// ExecuteByTag responds to POST /router/executeBy.
func (h *Handlers) ExecuteByTag(w http.ResponseWriter, r *http.Request) {
	var req executeByTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	result, err := h.Router.ExecuteByTag(r.Context(), req.Tag, req.Payload, req.Policy)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"result": result})
}

// Metrics responds to GET /router/metrics.
func (h *Handlers) Metrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"services": h.Router.Metrics().Snapshot()})
}

// ListServices responds to GET /router/services.
func (h *Handlers) ListServices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"services": h.Router.Registry().List()})
}

// GetService responds to GET /router/services/{name}.
func (h *Handlers) GetService(w http.ResponseWriter, r *http.Request, name string) {
	desc, err := h.Router.Registry().GetByName(name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, desc)
}

// CheckHealth responds to POST /router/services/{name}/check.
func (h *Handlers) CheckHealth(w http.ResponseWriter, r *http.Request, name string) {
	health, err := h.Router.CheckHealth(r.Context(), name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, health)
}

// NotImplemented stubs an endpoint that is named but not wired,
// returning a structured NotImplementedError body instead of a bare 404.
func NotImplemented(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := &router.NotImplementedError{Message: name + " is not implemented"}
		writeError(w, err)
	}
}
