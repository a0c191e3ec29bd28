package router

import (
	"fmt"
	"math"
)

// SchemaValidator validates payloads against a minimal JSON-Schema
// subset: a root object schema with typed properties, required fields,
// string minLength, and array minItems. Validators are built once per
// descriptor at register time and reused for every call.
type SchemaValidator struct {
	schema map[string]any
}

// NewSchemaValidator wraps a schema mapping. A nil schema is valid and
// makes Validate an identity/shallow-copy pass.
func NewSchemaValidator(schema map[string]any) *SchemaValidator {
	return &SchemaValidator{schema: schema}
}

// Validate is the router's entry point: every adapter payload and
// result is a map[string]any, so this is ValidateAny narrowed to the
// object case callers actually exercise.
func (v *SchemaValidator) Validate(payload map[string]any) (map[string]any, error) {
	out, err := v.ValidateAny(payload)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, nil
	}
	m, ok := out.(map[string]any)
	if !ok {
		return nil, newValidationError("schema root is not object-shaped for a map payload")
	}
	return m, nil
}

// ValidateAny checks payload against the wrapped schema and returns
// the validated value: for an object-root schema, the payload with any
// null-valued keys excluded; for a non-object root, payload is wrapped
// as {"value": payload} for validation and the validated value is
// unwrapped back out (which may itself be a non-map scalar). With no
// schema attached, ValidateAny is an identity/shallow-copy pass.
func (v *SchemaValidator) ValidateAny(payload any) (any, error) {
	if v == nil || v.schema == nil {
		if m, ok := payload.(map[string]any); ok {
			return cloneMap(m), nil
		}
		return payload, nil
	}

	schemaType, _ := v.schema["type"].(string)
	if schemaType != "" && schemaType != "object" {
		wrapped := map[string]any{"value": payload}
		result, details := validateObject(v.wrappedRootSchema(), wrapped)
		if len(details) > 0 {
			return nil, newValidationError("validation failed", details...)
		}
		return result["value"], nil
	}

	payloadMap, ok := payload.(map[string]any)
	if !ok {
		return nil, newValidationError("expected object payload for object-root schema")
	}
	result, details := validateObject(v.schema, payloadMap)
	if len(details) > 0 {
		return nil, newValidationError("validation failed", details...)
	}
	return result, nil
}

// wrappedRootSchema builds the synthetic object schema used to validate a
// non-object root: {"type":"object","properties":{"value": <schema>}}.
func (v *SchemaValidator) wrappedRootSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"value": v.schema,
		},
		"required": []any{"value"},
	}
}

// validateObject walks an object-shaped schema against payload,
// returning the validated (null-stripped) map and any failures.
func validateObject(schema map[string]any, payload map[string]any) (map[string]any, []ValidationDetail) {
	var details []ValidationDetail

	properties, _ := schema["properties"].(map[string]any)
	required := stringList(schema["required"])

	for _, req := range required {
		val, present := payload[req]
		if !present || val == nil {
			details = append(details, ValidationDetail{Path: req, Message: "required field missing"})
		}
	}

	result := make(map[string]any, len(payload))
	for key, val := range payload {
		if val == nil {
			continue
		}
		propSchema, hasPropSchema := properties[key].(map[string]any)
		if !hasPropSchema {
			result[key] = val
			continue
		}
		validated, msg := validateValue(propSchema, val)
		if msg != "" {
			details = append(details, ValidationDetail{Path: key, Message: msg})
			continue
		}
		result[key] = validated
	}

	if len(details) > 0 {
		return nil, details
	}
	return result, nil
}

// validateValue checks a single property's value against its schema
// and returns the (possibly recursively validated) value, or a
// non-empty failure message.
func validateValue(propSchema map[string]any, val any) (any, string) {
	propType, _ := propSchema["type"].(string)

	switch propType {
	case "string":
		s, ok := val.(string)
		if !ok {
			return nil, "expected string"
		}
		if minLen, ok := intFromAny(propSchema["minLength"]); ok && len(s) < minLen {
			return nil, fmt.Sprintf("string shorter than minLength %d", minLen)
		}
		return s, ""
	case "integer":
		n, ok := numberFromAny(val)
		if !ok || n != math.Trunc(n) {
			return nil, "expected integer"
		}
		return n, ""
	case "number":
		n, ok := numberFromAny(val)
		if !ok {
			return nil, "expected number"
		}
		return n, ""
	case "boolean":
		b, ok := val.(bool)
		if !ok {
			return nil, "expected boolean"
		}
		return b, ""
	case "array":
		arr, ok := val.([]any)
		if !ok {
			return nil, "expected array"
		}
		if minItems, ok := intFromAny(propSchema["minItems"]); ok && len(arr) < minItems {
			return nil, fmt.Sprintf("array shorter than minItems %d", minItems)
		}
		itemsSchema, _ := propSchema["items"].(map[string]any)
		if itemsSchema == nil {
			return arr, ""
		}
		out := make([]any, 0, len(arr))
		for i, elem := range arr {
			validated, msg := validateValue(itemsSchema, elem)
			if msg != "" {
				return nil, fmt.Sprintf("item %d: %s", i, msg)
			}
			out = append(out, validated)
		}
		return out, ""
	case "object":
		obj, ok := val.(map[string]any)
		if !ok {
			return nil, "expected object"
		}
		result, details := validateObject(propSchema, obj)
		if len(details) > 0 {
			return nil, details[0].Message
		}
		return result, ""
	default:
		return val, ""
	}
}

func stringList(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func intFromAny(v any) (int, bool) {
	n, ok := numberFromAny(v)
	if !ok {
		return 0, false
	}
	return int(math.Round(n)), true
}

func numberFromAny(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
