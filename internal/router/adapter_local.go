package router

import (
	"context"
	"strings"
)

// LocalFunc is the signature every allowlisted local function must
// satisfy: take a defensive copy of the payload, return a result map
// or an error.
type LocalFunc func(payload map[string]any) (map[string]any, error)

// allowedLocalModules is the static allowlist table gating LocalAdapter
// resolution: module -> allowed function names. There is no dynamic
// code loading.
var allowedLocalModules = map[string]map[string]LocalFunc{
	"api.services.translator": {
		"router_translate": localEcho,
	},
	"api.services.search": {
		"router_search": localEcho,
	},
	"api.services.mock_chat": {
		"mock_chat_completion": localEcho,
	},
	"allowed": {
		"echo": localEcho,
	},
}

// localEcho is the stand-in implementation for allowlisted entries
// that simply echo their payload back; real deployments register a
// concrete function for each entry instead.
func localEcho(payload map[string]any) (map[string]any, error) {
	return cloneMap(payload), nil
}

// LocalAdapter dispatches to an allowlisted "module:function" local
// call. Configured via adapter_config["function_path"].
type LocalAdapter struct {
	path string
}

// NewLocalAdapter builds a LocalAdapter from adapter_config. The
// function_path is parsed but not resolved yet; resolution and its
// allowlist enforcement happen per Ping/Invoke call.
func NewLocalAdapter(config map[string]any) (*LocalAdapter, error) {
	path, _ := config["function_path"].(string)
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, newAdapterError(AdapterKindLocal, "adapter_config[\"function_path\"] must be non-empty")
	}
	return &LocalAdapter{path: path}, nil
}

func (a *LocalAdapter) resolve() (LocalFunc, error) {
	module, fn, ok := strings.Cut(a.path, ":")
	module, fn = strings.TrimSpace(module), strings.TrimSpace(fn)
	if !ok || module == "" || fn == "" {
		return nil, newAdapterError(AdapterKindLocal, "invalid function_path: "+a.path)
	}
	funcs, ok := allowedLocalModules[module]
	if !ok {
		return nil, newAdapterError(AdapterKindLocal, "module not allowed: "+module)
	}
	f, ok := funcs[fn]
	if !ok {
		return nil, newAdapterError(AdapterKindLocal, "function not allowed for module "+module+": "+fn)
	}
	return f, nil
}

// Ping succeeds iff the function_path resolves against the allowlist.
func (a *LocalAdapter) Ping(ctx context.Context) bool {
	_, err := a.resolve()
	return err == nil
}

// Invoke resolves the function and calls it with a defensive copy of
// payload, returning its result verbatim.
func (a *LocalAdapter) Invoke(ctx context.Context, desc *ServiceDescriptor, payload map[string]any) (map[string]any, error) {
	f, err := a.resolve()
	if err != nil {
		return nil, err
	}
	result, err := f(cloneMap(payload))
	if err != nil {
		if _, ok := err.(*AdapterError); ok {
			return nil, err
		}
		return nil, newAdapterError(AdapterKindLocal, err.Error())
	}
	return result, nil
}
