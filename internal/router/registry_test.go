package router_test

import (
	"testing"

	"github.com/dinoair/servicerouter/internal/router"
)

func TestRegistry_GetByTagCaseInsensitive(t *testing.T) {
	r := router.NewServiceRegistry()
	r.Register(&router.ServiceDescriptor{Name: "svc", Tags: []string{"LLM"}})

	got := r.GetByTag("llm")
	if len(got) != 1 || got[0].Name != "svc" {
		t.Errorf("GetByTag(%q) = %v, want [svc]", "llm", got)
	}

	if got := r.GetByTag("nope"); len(got) != 0 {
		t.Errorf("GetByTag(%q) = %v, want empty", "nope", got)
	}
}

func TestRegistry_GetByNameReturnsDefensiveCopy(t *testing.T) {
	r := router.NewServiceRegistry()
	r.Register(&router.ServiceDescriptor{Name: "svc", Tags: []string{"a"}})

	got, err := r.GetByName("svc")
	if err != nil {
		t.Fatalf("GetByName() error = %v", err)
	}
	got.Tags[0] = "mutated"

	got2, err := r.GetByName("svc")
	if err != nil {
		t.Fatalf("GetByName() error = %v", err)
	}
	if got2.Tags[0] != "a" {
		t.Errorf("registry state leaked through caller mutation: %v", got2.Tags)
	}
}

func TestRegistry_GetByNameNotFound(t *testing.T) {
	r := router.NewServiceRegistry()
	if _, err := r.GetByName("missing"); err == nil {
		t.Fatal("GetByName() error = nil, want ServiceNotFoundError")
	} else if _, ok := err.(*router.ServiceNotFoundError); !ok {
		t.Errorf("GetByName() error type = %T, want *ServiceNotFoundError", err)
	}
}

func TestRegistry_RegisterRejectsEmptyName(t *testing.T) {
	r := router.NewServiceRegistry()
	if _, err := r.Register(&router.ServiceDescriptor{Name: "  "}); err == nil {
		t.Fatal("Register() error = nil, want ValidationError for empty name")
	} else if _, ok := err.(*router.ValidationError); !ok {
		t.Errorf("Register() error type = %T, want *ValidationError", err)
	}
}

func TestRegistry_List(t *testing.T) {
	r := router.NewServiceRegistry()
	r.Register(&router.ServiceDescriptor{Name: "a"})
	r.Register(&router.ServiceDescriptor{Name: "b"})

	if got := r.List(); len(got) != 2 {
		t.Errorf("List() = %v, want 2 entries", got)
	}
}
