package router_test

import (
	"testing"

	"github.com/dinoair/servicerouter/internal/router"
)

func TestSchemaValidator_RequiredFieldMissing(t *testing.T) {
	v := router.NewSchemaValidator(map[string]any{
		"type":       "object",
		"properties": map[string]any{"name": map[string]any{"type": "string"}},
		"required":   []any{"name"},
	})

	_, err := v.Validate(map[string]any{})
	if err == nil {
		t.Fatal("Validate() error = nil, want ValidationError")
	}
	verr, ok := err.(*router.ValidationError)
	if !ok {
		t.Fatalf("Validate() error type = %T, want *ValidationError", err)
	}
	if len(verr.Details) != 1 || verr.Details[0].Path != "name" {
		t.Errorf("Validate() details = %v, want one entry for 'name'", verr.Details)
	}
}

func TestSchemaValidator_MinLength(t *testing.T) {
	v := router.NewSchemaValidator(map[string]any{
		"type":       "object",
		"properties": map[string]any{"msg": map[string]any{"type": "string", "minLength": 3}},
	})

	if _, err := v.Validate(map[string]any{"msg": "hi"}); err == nil {
		t.Fatal("Validate() error = nil, want minLength failure")
	}
	if _, err := v.Validate(map[string]any{"msg": "hey"}); err != nil {
		t.Errorf("Validate() error = %v, want success", err)
	}
}

func TestSchemaValidator_ArrayMinItemsAndItemType(t *testing.T) {
	v := router.NewSchemaValidator(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"tags": map[string]any{
				"type":     "array",
				"minItems": 2,
				"items":    map[string]any{"type": "string"},
			},
		},
	})

	if _, err := v.Validate(map[string]any{"tags": []any{"a"}}); err == nil {
		t.Fatal("Validate() error = nil, want minItems failure")
	}
	if _, err := v.Validate(map[string]any{"tags": []any{1, 2}}); err == nil {
		t.Fatal("Validate() error = nil, want item type failure")
	}
	out, err := v.Validate(map[string]any{"tags": []any{"a", "b"}})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if tags, ok := out["tags"].([]any); !ok || len(tags) != 2 {
		t.Errorf("Validate() tags = %v, want [a b]", out["tags"])
	}
}

func TestSchemaValidator_AdditionalPropertiesPreserved(t *testing.T) {
	v := router.NewSchemaValidator(map[string]any{
		"type":       "object",
		"properties": map[string]any{"a": map[string]any{"type": "string"}},
	})

	out, err := v.Validate(map[string]any{"a": "x", "extra": 1})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if out["extra"] != 1 {
		t.Errorf("Validate() dropped additional property: %v", out)
	}
}

func TestSchemaValidator_NonObjectRootWrapsAndUnwraps(t *testing.T) {
	v := router.NewSchemaValidator(map[string]any{"type": "string", "minLength": 1})

	out, err := v.ValidateAny("hi")
	if err != nil {
		t.Fatalf("ValidateAny() error = %v", err)
	}
	if out != "hi" {
		t.Errorf("ValidateAny() = %v, want unwrapped scalar %q", out, "hi")
	}

	if _, err := v.ValidateAny(""); err == nil {
		t.Fatal("ValidateAny() error = nil, want minLength failure for empty string")
	}
}
