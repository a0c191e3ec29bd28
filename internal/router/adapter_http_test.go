package router_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dinoair/servicerouter/internal/router"
)

func TestHTTPAdapter_InvokeSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		var body map[string]any
		json.NewDecoder(req.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"echo": body["msg"]})
	}))
	defer srv.Close()

	adapter, err := router.NewHTTPAdapter(map[string]any{"base_url": srv.URL})
	if err != nil {
		t.Fatalf("NewHTTPAdapter() error = %v", err)
	}

	result, err := adapter.Invoke(context.Background(), nil, map[string]any{"msg": "hi"})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if result["echo"] != "hi" {
		t.Errorf("Invoke() = %v, want echo=hi", result)
	}
}

func TestHTTPAdapter_BodyDefaultsMergedUnderPayload(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		json.NewDecoder(req.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("{}"))
	}))
	defer srv.Close()

	adapter, err := router.NewHTTPAdapter(map[string]any{
		"base_url": srv.URL,
		"body":     map[string]any{"model": "default-model", "temperature": 0.2},
	})
	if err != nil {
		t.Fatalf("NewHTTPAdapter() error = %v", err)
	}

	if _, err := adapter.Invoke(context.Background(), nil, map[string]any{"model": "override", "msg": "hi"}); err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if got["model"] != "override" {
		t.Errorf("body model = %v, want payload override", got["model"])
	}
	if got["temperature"] != 0.2 {
		t.Errorf("body temperature = %v, want default 0.2", got["temperature"])
	}
	if got["msg"] != "hi" {
		t.Errorf("body msg = %v, want payload field preserved", got["msg"])
	}
}

func TestHTTPAdapter_InvokeErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer srv.Close()

	adapter, err := router.NewHTTPAdapter(map[string]any{"base_url": srv.URL})
	if err != nil {
		t.Fatalf("NewHTTPAdapter() error = %v", err)
	}

	_, err = adapter.Invoke(context.Background(), nil, map[string]any{})
	if err == nil {
		t.Fatal("Invoke() error = nil, want AdapterError")
	}
	if _, ok := err.(*router.AdapterError); !ok {
		t.Errorf("Invoke() error type = %T, want *AdapterError", err)
	}
}

func TestHTTPAdapter_PingHeadThenGetFallback(t *testing.T) {
	var sawGet bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		sawGet = true
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	adapter, err := router.NewHTTPAdapter(map[string]any{"base_url": srv.URL})
	if err != nil {
		t.Fatalf("NewHTTPAdapter() error = %v", err)
	}

	if !adapter.Ping(context.Background()) {
		t.Error("Ping() = false, want true via GET fallback")
	}
	if !sawGet {
		t.Error("Ping() never attempted the GET fallback")
	}
}

func TestHTTPAdapter_MissingBaseURL(t *testing.T) {
	_, err := router.NewHTTPAdapter(map[string]any{})
	if err == nil {
		t.Fatal("NewHTTPAdapter() error = nil, want ValidationError")
	}
	if _, ok := err.(*router.ValidationError); !ok {
		t.Errorf("NewHTTPAdapter() error type = %T, want *ValidationError", err)
	}
}
