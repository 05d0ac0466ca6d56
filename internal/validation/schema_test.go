package validation

import (
	"errors"
	"strings"
	"testing"
)

var testSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"required":             []any{"name"},
	"properties": map[string]any{
		"name":  map[string]any{"type": "string"},
		"count": map[string]any{"type": "integer"},
	},
}

func TestValidatePayloadAccepts(t *testing.T) {
	payload := map[string]any{"name": "release-audit", "count": float64(2)}
	if err := ValidatePayload(testSchema, payload); err != nil {
		t.Fatalf("expected valid payload, got %v", err)
	}
}

func TestValidatePayloadCollectsIssues(t *testing.T) {
	err := ValidatePayload(testSchema, map[string]any{"count": "three"})
	if err == nil {
		t.Fatal("expected validation failure")
	}
	if !errors.Is(err, ErrSchemaValidation) {
		t.Fatalf("expected ErrSchemaValidation, got %v", err)
	}

	issues := Issues(err)
	if len(issues) == 0 {
		t.Fatal("expected at least one issue")
	}
	if !strings.Contains(err.Error(), "#") {
		t.Fatalf("issue locations missing from message: %q", err.Error())
	}
}

func TestValidatePayloadNilSchemaAcceptsEverything(t *testing.T) {
	if err := ValidatePayload(nil, map[string]any{"anything": true}); err != nil {
		t.Fatalf("nil schema must validate, got %v", err)
	}
}

func TestValidateSchemaRejectsBroken(t *testing.T) {
	broken := map[string]any{"type": "object", "properties": map[string]any{
		"name": map[string]any{"type": "nonsense"},
	}}
	if err := ValidateSchema(broken); !errors.Is(err, ErrSchemaInvalid) {
		t.Fatalf("expected ErrSchemaInvalid, got %v", err)
	}
}
