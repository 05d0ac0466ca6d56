package trace

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/PactoSigna/qms-actions/internal/docstore"
	"github.com/PactoSigna/qms-actions/pkg/interfaces"
)

func snapshotFrom(tb testing.TB, files map[string]string) *docstore.Snapshot {
	tb.Helper()
	filesystem := fstest.MapFS{}
	for path, content := range files {
		filesystem[path] = &fstest.MapFile{Data: []byte(content)}
	}
	store := docstore.NewStoreWithFS(filesystem, docstore.Config{Recursive: true}, nil)
	snapshot, err := store.Load(context.Background())
	if err != nil {
		tb.Fatalf("load snapshot: %v", err)
	}
	return snapshot
}

func derivesChain() interfaces.TraceabilityChain {
	return interfaces.TraceabilityChain{
		SourceType: interfaces.DocTypeSoftwareRequirement,
		TargetType: interfaces.DocTypeProductRequirement,
		Relation:   interfaces.RelationDerivesFrom,
	}
}

func verificationChain() interfaces.TraceabilityChain {
	return interfaces.TraceabilityChain{
		SourceType: interfaces.DocTypeSoftwareRequirement,
		TargetType: interfaces.DocTypeTestCase,
		Relation:   interfaces.RelationVerifiedBy,
		Reversible: true,
	}
}

func TestEvaluateDisabledIsNoOp(t *testing.T) {
	snapshot := snapshotFrom(t, map[string]string{
		"software_requirements/srs-001.md": "---\nid: SRS-001\n---\nNo links.\n",
	})

	result := NewEngine(nil).Evaluate(snapshot, Config{Enabled: false, Chains: []interfaces.TraceabilityChain{derivesChain()}})

	if len(result.Warnings) != 0 || len(result.Coverage) != 0 || len(result.Gaps) != 0 {
		t.Fatalf("expected empty result for disabled repository, got %#v", result)
	}
}

func TestEvaluateOutboundCoverage(t *testing.T) {
	snapshot := snapshotFrom(t, map[string]string{
		"software_requirements/srs-001.md": "---\nid: SRS-001\n---\n**Derives from:** [PR-001]\n",
		"software_requirements/srs-002.md": "---\nid: SRS-002\n---\nNothing declared.\n",
		"product_requirements/pr-001.md":   "---\nid: PR-001\n---\nBody.\n",
	})

	result := NewEngine(nil).Evaluate(snapshot, Config{Enabled: true, Chains: []interfaces.TraceabilityChain{derivesChain()}})

	if len(result.Coverage) != 1 {
		t.Fatalf("expected one coverage row, got %#v", result.Coverage)
	}
	cov := result.Coverage[0]
	if cov.TotalSources != 2 || cov.CoveredSources != 1 || cov.CoveragePercent != 50 {
		t.Fatalf("unexpected coverage: %#v", cov)
	}
	if cov.ChainName != "software_requirement → product_requirement" {
		t.Fatalf("unexpected chain name %q", cov.ChainName)
	}

	if len(result.Warnings) != 1 {
		t.Fatalf("expected one warning, got %#v", result.Warnings)
	}
	warning := result.Warnings[0]
	if warning.File != "software_requirements/srs-002.md" {
		t.Fatalf("warning scoped to wrong file: %q", warning.File)
	}
	if warning.Rule != "traceability/missing-derives-from" {
		t.Fatalf("unexpected rule %q", warning.Rule)
	}

	if len(result.Gaps) != 1 || result.Gaps[0].GapType != "missing_derives_from" {
		t.Fatalf("unexpected gaps: %#v", result.Gaps)
	}
	if result.Gaps[0].DocumentID != "SRS-002" {
		t.Fatalf("gap scoped to wrong document: %q", result.Gaps[0].DocumentID)
	}
}

func TestEvaluateReverseVerificationCoverage(t *testing.T) {
	snapshot := snapshotFrom(t, map[string]string{
		"software_requirements/srs-001.md": "---\nid: SRS-001\n---\nRequirement text only.\n",
		"test_cases/tc-001.md":             "---\nid: TC-001\n---\n**Verifies:** [SRS-001]\n",
	})

	result := NewEngine(nil).Evaluate(snapshot, Config{Enabled: true, Chains: []interfaces.TraceabilityChain{verificationChain()}})

	cov := result.Coverage[0]
	if cov.CoveredSources != 1 || cov.CoveragePercent != 100 {
		t.Fatalf("reverse verification not counted: %#v", cov)
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %#v", result.Warnings)
	}
}

func TestEvaluateReverseCheckRequiresReversibleFlag(t *testing.T) {
	// Same layout, but the chain is declared outbound-only.
	snapshot := snapshotFrom(t, map[string]string{
		"software_requirements/srs-001.md": "---\nid: SRS-001\n---\nRequirement text only.\n",
		"test_cases/tc-001.md":             "---\nid: TC-001\n---\n**Verifies:** [SRS-001]\n",
	})
	chain := verificationChain()
	chain.Reversible = false

	result := NewEngine(nil).Evaluate(snapshot, Config{Enabled: true, Chains: []interfaces.TraceabilityChain{chain}})

	if result.Coverage[0].CoveredSources != 0 {
		t.Fatalf("outbound-only chain must ignore inbound links: %#v", result.Coverage[0])
	}
}

func TestEvaluateEmptyChainIsVacuouslyCovered(t *testing.T) {
	snapshot := snapshotFrom(t, map[string]string{
		"test_cases/tc-001.md": "---\nid: TC-001\n---\nBody.\n",
	})

	result := NewEngine(nil).Evaluate(snapshot, Config{Enabled: true, Chains: []interfaces.TraceabilityChain{derivesChain()}})

	cov := result.Coverage[0]
	if cov.TotalSources != 0 || cov.CoveragePercent != 100 {
		t.Fatalf("zero-source chain must report 100%%: %#v", cov)
	}
}

func TestEvaluateUnknownRelationUsesGenericRule(t *testing.T) {
	snapshot := snapshotFrom(t, map[string]string{
		"software_requirements/srs-001.md": "---\nid: SRS-001\n---\nBody.\n",
	})
	chain := interfaces.TraceabilityChain{
		SourceType: interfaces.DocTypeSoftwareRequirement,
		TargetType: interfaces.DocTypeDesign,
		Relation:   interfaces.RelationKind("supersedes"),
	}

	result := NewEngine(nil).Evaluate(snapshot, Config{Enabled: true, Chains: []interfaces.TraceabilityChain{chain}})

	if len(result.Warnings) != 1 || result.Warnings[0].Rule != "traceability/missing-link" {
		t.Fatalf("expected generic missing-link rule, got %#v", result.Warnings)
	}
}

func TestHazardChainMissingSituation(t *testing.T) {
	snapshot := snapshotFrom(t, map[string]string{
		"risks/risk-001.md":  "---\nid: RISK-001\n---\n**Analyzes:** [HAZ-001]\n",
		"hazards/haz-001.md": "---\nid: HAZ-001\n---\nNo onward link.\n",
	})

	result := NewEngine(nil).Evaluate(snapshot, Config{Enabled: true})

	if len(result.Warnings) != 1 {
		t.Fatalf("expected exactly one warning, got %#v", result.Warnings)
	}
	if result.Warnings[0].File != "hazards/haz-001.md" {
		t.Fatalf("warning must be scoped to the hazard file, got %q", result.Warnings[0].File)
	}
	if len(result.Gaps) != 1 || result.Gaps[0].GapType != "hazard_no_situation" {
		t.Fatalf("unexpected gaps: %#v", result.Gaps)
	}
}

func TestHazardChainMissingHarm(t *testing.T) {
	snapshot := snapshotFrom(t, map[string]string{
		"risks/risk-001.md":              "---\nid: RISK-001\n---\n**Analyzes:** [HAZ-001]\n",
		"hazards/haz-001.md":             "---\nid: HAZ-001\n---\n**Leads to:** [HS-001]\n",
		"hazardous_situations/hs-001.md": "---\nid: HS-001\n---\nNo harm declared.\n",
	})

	result := NewEngine(nil).Evaluate(snapshot, Config{Enabled: true})

	if len(result.Gaps) != 1 || result.Gaps[0].GapType != "situation_no_harm" {
		t.Fatalf("unexpected gaps: %#v", result.Gaps)
	}
	if result.Warnings[0].File != "hazardous_situations/hs-001.md" {
		t.Fatalf("warning must be scoped to the situation file, got %q", result.Warnings[0].File)
	}
}

func TestHazardChainCompleteProducesNothing(t *testing.T) {
	snapshot := snapshotFrom(t, map[string]string{
		"risks/risk-001.md":              "---\nid: RISK-001\n---\n**Analyzes:** [HAZ-001]\n",
		"hazards/haz-001.md":             "---\nid: HAZ-001\n---\n**Leads to:** [HS-001]\n",
		"hazardous_situations/hs-001.md": "---\nid: HS-001\n---\n**Results in:** [HARM-001]\n",
		"harms/harm-001.md":              "---\nid: HARM-001\n---\nHarm description.\n",
	})

	result := NewEngine(nil).Evaluate(snapshot, Config{Enabled: true})

	if len(result.Warnings) != 0 || len(result.Gaps) != 0 {
		t.Fatalf("complete hazard chain must be silent, got %#v", result)
	}
}

func TestHazardChainSkipsUnresolvedAnchor(t *testing.T) {
	snapshot := snapshotFrom(t, map[string]string{
		"risks/risk-001.md": "---\nid: RISK-001\n---\n**Analyzes:** [HAZ-404]\n",
	})

	result := NewEngine(nil).Evaluate(snapshot, Config{Enabled: true})

	if len(result.Warnings) != 0 || len(result.Gaps) != 0 {
		t.Fatalf("unresolved analyzes anchor must be skipped silently, got %#v", result)
	}
}
