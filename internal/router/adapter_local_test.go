package router_test

import (
	"context"
	"testing"

	"github.com/dinoair/servicerouter/internal/router"
)

func TestLocalAdapter_AllowlistedFunctionSucceeds(t *testing.T) {
	adapter, err := router.NewLocalAdapter(map[string]any{"function_path": "allowed:echo"})
	if err != nil {
		t.Fatalf("NewLocalAdapter() error = %v", err)
	}
	if !adapter.Ping(context.Background()) {
		t.Error("Ping() = false, want true for an allowlisted function")
	}

	out, err := adapter.Invoke(context.Background(), nil, map[string]any{"x": 1})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if out["x"] != 1 {
		t.Errorf("Invoke() = %v, want echo of input", out)
	}
}

func TestLocalAdapter_ModuleNotAllowlisted(t *testing.T) {
	adapter, err := router.NewLocalAdapter(map[string]any{"function_path": "evil.module:run"})
	if err != nil {
		t.Fatalf("NewLocalAdapter() error = %v", err)
	}
	if adapter.Ping(context.Background()) {
		t.Error("Ping() = true, want false for a non-allowlisted module")
	}

	_, err = adapter.Invoke(context.Background(), nil, map[string]any{})
	if err == nil {
		t.Fatal("Invoke() error = nil, want AdapterError")
	}
	aerr, ok := err.(*router.AdapterError)
	if !ok {
		t.Fatalf("Invoke() error type = %T, want *AdapterError", err)
	}
	if aerr.Kind != router.AdapterKindLocal {
		t.Errorf("AdapterError.Kind = %q, want %q", aerr.Kind, router.AdapterKindLocal)
	}
}

func TestLocalAdapter_FunctionNotAllowedForModule(t *testing.T) {
	adapter, err := router.NewLocalAdapter(map[string]any{"function_path": "allowed:not_a_real_fn"})
	if err != nil {
		t.Fatalf("NewLocalAdapter() error = %v", err)
	}
	if _, err := adapter.Invoke(context.Background(), nil, map[string]any{}); err == nil {
		t.Fatal("Invoke() error = nil, want function-not-allowed AdapterError")
	}
}

func TestLocalAdapter_MissingFunctionPath(t *testing.T) {
	_, err := router.NewLocalAdapter(map[string]any{})
	if err == nil {
		t.Fatal("NewLocalAdapter() error = nil, want AdapterError for missing function_path")
	}
}

func TestLocalAdapter_InvalidPathShape(t *testing.T) {
	adapter, err := router.NewLocalAdapter(map[string]any{"function_path": "no-colon-here"})
	if err != nil {
		t.Fatalf("NewLocalAdapter() error = %v", err)
	}
	if _, err := adapter.Invoke(context.Background(), nil, map[string]any{}); err == nil {
		t.Fatal("Invoke() error = nil, want AdapterError for invalid function_path shape")
	}
}
