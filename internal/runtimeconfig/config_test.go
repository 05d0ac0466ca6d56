package runtimeconfig

import (
	"errors"
	"testing"

	"github.com/PactoSigna/qms-actions/pkg/interfaces"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
	if cfg.Docs.Dir != "docs" || cfg.Docs.Pattern != "*.md" || !cfg.Docs.Recursive {
		t.Fatalf("docs defaults wrong: %#v", cfg.Docs)
	}
	if cfg.Risk.GridSize != 5 {
		t.Fatalf("grid size default wrong: %d", cfg.Risk.GridSize)
	}
}

func TestValidateRejectsMissingDocsDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Docs.Dir = "  "
	if err := cfg.Validate(); !errors.Is(err, ErrDocsDirRequired) {
		t.Fatalf("expected ErrDocsDirRequired, got %v", err)
	}
}

func TestValidateRejectsChainsWithoutFeature(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Traceability.Chains = DefaultChains()
	if err := cfg.Validate(); !errors.Is(err, ErrChainsRequireTraceability) {
		t.Fatalf("expected ErrChainsRequireTraceability, got %v", err)
	}
}

func TestValidateRejectsUnknownChainType(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Features.Traceability = true
	cfg.Traceability.Chains = []interfaces.TraceabilityChain{
		{SourceType: "gadget", TargetType: interfaces.DocTypeUserNeed, Relation: interfaces.RelationDerivesFrom},
	}
	if err := cfg.Validate(); !errors.Is(err, ErrChainTypeUnknown) {
		t.Fatalf("expected ErrChainTypeUnknown, got %v", err)
	}
}

func TestValidateRejectsUnknownLoggingProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "syslog"
	if err := cfg.Validate(); !errors.Is(err, ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}
}

func TestParseLayersOverDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
docs:
  dir: documents
features:
  traceability: true
  risk_matrix: true
traceability:
  chains:
    - source_type: software_requirement
      target_type: test_case
      relation: verified_by
      reversible: true
risk:
  grid_size: 3
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Docs.Dir != "documents" {
		t.Fatalf("docs dir not applied: %q", cfg.Docs.Dir)
	}
	if cfg.Docs.Pattern != "*.md" {
		t.Fatalf("pattern default lost: %q", cfg.Docs.Pattern)
	}
	if !cfg.Features.Traceability || !cfg.Features.RiskMatrix {
		t.Fatalf("features not applied: %#v", cfg.Features)
	}
	if cfg.Risk.GridSize != 3 {
		t.Fatalf("grid size not applied: %d", cfg.Risk.GridSize)
	}
	if len(cfg.Traceability.Chains) != 1 {
		t.Fatalf("chains not decoded: %#v", cfg.Traceability.Chains)
	}
	chain := cfg.Traceability.Chains[0]
	if chain.Relation != interfaces.RelationVerifiedBy || !chain.Reversible {
		t.Fatalf("chain decoded wrong: %#v", chain)
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("docs:\n  directory: documents\n"))
	if err == nil {
		t.Fatal("expected schema rejection for unknown key")
	}
}

func TestParseRejectsMistypedValues(t *testing.T) {
	_, err := Parse([]byte("risk:\n  grid_size: huge\n"))
	if err == nil {
		t.Fatal("expected schema rejection for non-integer grid size")
	}
}

func TestParseEmptyUsesDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("parse empty: %v", err)
	}
	if cfg.Docs.Dir != "docs" {
		t.Fatalf("defaults not applied: %#v", cfg.Docs)
	}
}
