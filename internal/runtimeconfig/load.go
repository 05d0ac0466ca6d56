package runtimeconfig

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/PactoSigna/qms-actions/internal/validation"
	"github.com/PactoSigna/qms-actions/pkg/interfaces"
)

// configSchema structurally validates the raw YAML before it is decoded into
// Config, so typos in key names or mistyped values surface with a location
// instead of silently falling back to defaults.
var configSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"properties": map[string]any{
		"docs": map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties": map[string]any{
				"dir":       map[string]any{"type": "string"},
				"pattern":   map[string]any{"type": "string"},
				"recursive": map[string]any{"type": "boolean"},
			},
		},
		"features": map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties": map[string]any{
				"traceability": map[string]any{"type": "boolean"},
				"risk_matrix":  map[string]any{"type": "boolean"},
				"logger":       map[string]any{"type": "boolean"},
			},
		},
		"traceability": map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties": map[string]any{
				"chains": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type":                 "object",
						"additionalProperties": false,
						"required":             []any{"source_type", "target_type", "relation"},
						"properties": map[string]any{
							"source_type": map[string]any{"type": "string"},
							"target_type": map[string]any{"type": "string"},
							"relation":    map[string]any{"type": "string"},
							"reversible":  map[string]any{"type": "boolean"},
						},
					},
				},
			},
		},
		"risk": map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties": map[string]any{
				"grid_size": map[string]any{"type": "integer", "minimum": 1, "maximum": 9},
			},
		},
		"logging": map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties": map[string]any{
				"provider":   map[string]any{"type": "string"},
				"level":      map[string]any{"type": "string"},
				"format":     map[string]any{"type": "string"},
				"add_source": map[string]any{"type": "boolean"},
				"focus": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
			},
		},
	},
}

// Load reads a YAML configuration file, validates it against the config
// schema, and decodes it over DefaultConfig so absent keys keep their
// defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("qms config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration bytes over DefaultConfig.
func Parse(data []byte) (Config, error) {
	payload, err := yamlPayload(data)
	if err != nil {
		return Config{}, err
	}
	if err := validation.ValidatePayload(configSchema, payload); err != nil {
		return Config{}, fmt.Errorf("qms config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("qms config: decode: %w", err)
	}
	applyReversibleDefault(&cfg, payload)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyReversibleDefault turns the reversible flag on for verification
// chains that never declared it. The verifying artifact usually carries the
// link, so verification coverage is bidirectional unless a chain opts out
// explicitly.
func applyReversibleDefault(cfg *Config, payload map[string]any) {
	declared := map[int]bool{}
	if traceability, ok := payload["traceability"].(map[string]any); ok {
		if chains, ok := traceability["chains"].([]any); ok {
			for i, raw := range chains {
				if chain, ok := raw.(map[string]any); ok {
					_, declared[i] = chain["reversible"]
				}
			}
		}
	}
	for i := range cfg.Traceability.Chains {
		chain := &cfg.Traceability.Chains[i]
		if chain.Relation == interfaces.RelationVerifiedBy && !declared[i] {
			chain.Reversible = true
		}
	}
}

// yamlPayload decodes YAML into the JSON-typed value shape the schema
// validator expects. The round trip through encoding/json normalizes YAML
// integers and nested maps.
func yamlPayload(data []byte) (map[string]any, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("qms config: parse yaml: %w", err)
	}
	if raw == nil {
		return map[string]any{}, nil
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("qms config: normalize: %w", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(encoded, &payload); err != nil {
		return nil, fmt.Errorf("qms config: normalize: %w", err)
	}
	return payload, nil
}
