// Package trace evaluates configured traceability chains and the fixed
// hazard chain over one document snapshot, producing coverage figures,
// advisory warnings, and machine-readable gap entries.
package trace

import (
	"fmt"
	"math"

	"github.com/PactoSigna/qms-actions/internal/docstore"
	"github.com/PactoSigna/qms-actions/internal/links"
	"github.com/PactoSigna/qms-actions/internal/logging"
	"github.com/PactoSigna/qms-actions/pkg/interfaces"
)

// Config selects which chains the engine evaluates. Disabled repositories
// produce empty results rather than errors.
type Config struct {
	Enabled bool
	Chains  []interfaces.TraceabilityChain
}

// Result groups everything one evaluation produced. Warnings and gaps
// preserve the order their generating checks ran; report builders sort them
// before presentation.
type Result struct {
	Warnings []interfaces.ValidationWarning
	Coverage []interfaces.TraceabilityCoverage
	Gaps     []interfaces.GapEntry
}

// Engine runs traceability evaluation. It holds no per-run state; every
// invocation is a pure function of the snapshot and configuration.
type Engine struct {
	logger interfaces.Logger
}

// NewEngine constructs an Engine with an optional logger.
func NewEngine(logger interfaces.Logger) *Engine {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Engine{logger: logger}
}

// missingLinkRules maps relationship kinds to the fixed warning rule names.
// Unrecognized kinds fall back to the generic missing-link rule.
var missingLinkRules = map[interfaces.RelationKind]string{
	interfaces.RelationDerivesFrom: "traceability/missing-derives-from",
	interfaces.RelationVerifiedBy:  "traceability/missing-verification",
	interfaces.RelationValidates:   "traceability/missing-validation",
	interfaces.RelationImplements:  "traceability/missing-implementation",
	interfaces.RelationMitigates:   "traceability/missing-mitigation",
	interfaces.RelationAnalyzes:    "traceability/missing-analysis",
	interfaces.RelationLeadsTo:     "traceability/missing-leads-to",
	interfaces.RelationResultsIn:   "traceability/missing-results-in",
}

const genericMissingLinkRule = "traceability/missing-link"

// Evaluate runs every configured chain followed by the fixed hazard chain.
func (e *Engine) Evaluate(snapshot *docstore.Snapshot, cfg Config) *Result {
	result := &Result{}
	if !cfg.Enabled || snapshot == nil {
		return result
	}

	for _, chain := range cfg.Chains {
		e.evaluateChain(snapshot, chain, result)
	}
	e.evaluateHazardChain(snapshot, result)

	e.logger.Debug("trace.evaluate.completed",
		"chains", len(cfg.Chains),
		"warnings", len(result.Warnings),
		"gaps", len(result.Gaps),
	)
	return result
}

// evaluateChain checks one configured source→target expectation. A source
// document is covered by its own outbound link of the chain's relation;
// reversible chains also accept an inbound link of that relation declared by
// any target-type document.
func (e *Engine) evaluateChain(snapshot *docstore.Snapshot, chain interfaces.TraceabilityChain, result *Result) {
	sources := snapshot.OfType(chain.SourceType)
	covered := 0

	for _, doc := range sources {
		if e.isCovered(snapshot, chain, doc) {
			covered++
			continue
		}

		rule, ok := missingLinkRules[chain.Relation]
		if !ok {
			rule = genericMissingLinkRule
		}
		message := fmt.Sprintf("%s has no %q link to a %s document",
			doc.ID, chain.Relation, chain.TargetType)

		result.Warnings = append(result.Warnings, interfaces.ValidationWarning{
			File:     doc.FilePath,
			Rule:     rule,
			Message:  message,
			Severity: interfaces.SeverityWarning,
		})
		result.Gaps = append(result.Gaps, interfaces.GapEntry{
			DocumentID: doc.ID,
			GapType:    "missing_" + string(chain.Relation),
			Message:    message,
			Severity:   interfaces.SeverityWarning,
		})
	}

	result.Coverage = append(result.Coverage, interfaces.TraceabilityCoverage{
		ChainName:       chain.Name(),
		SourceType:      chain.SourceType,
		TargetType:      chain.TargetType,
		TotalSources:    len(sources),
		CoveredSources:  covered,
		CoveragePercent: coveragePercent(covered, len(sources)),
	})
}

func (e *Engine) isCovered(snapshot *docstore.Snapshot, chain interfaces.TraceabilityChain, doc *interfaces.Document) bool {
	if links.HasKind(doc, chain.Relation) {
		return true
	}
	if !chain.Reversible {
		return false
	}
	// The declaring side may be the target artifact (e.g. the test case
	// declares what it verifies). Accept an inbound link of the same kind.
	for _, candidate := range snapshot.OfType(chain.TargetType) {
		for _, link := range links.OfKind(candidate, chain.Relation) {
			if link.TargetID == doc.ID {
				return true
			}
		}
	}
	return false
}

// evaluateHazardChain enforces the fixed three-hop expectation
// hazard → hazardous situation → harm for every analyzed hazard. A risk
// whose analyzes target cannot be resolved is skipped silently: the chain
// has no anchor to evaluate.
func (e *Engine) evaluateHazardChain(snapshot *docstore.Snapshot, result *Result) {
	for _, risk := range snapshot.OfType(interfaces.DocTypeRisk) {
		for _, analyzed := range links.OfKind(risk, interfaces.RelationAnalyzes) {
			hazard, ok := snapshot.Resolve(analyzed.TargetID)
			if !ok {
				continue
			}

			situationLinks := links.OfKind(hazard, interfaces.RelationLeadsTo)
			if len(situationLinks) == 0 {
				message := fmt.Sprintf("hazard %s has no %q link to a hazardous situation",
					hazard.ID, interfaces.RelationLeadsTo)
				appendHazardGap(result, hazard, "hazard_no_situation", message)
				continue
			}

			for _, situationLink := range situationLinks {
				situation, ok := snapshot.Resolve(situationLink.TargetID)
				if !ok {
					continue
				}
				if links.HasKind(situation, interfaces.RelationResultsIn) {
					continue
				}
				message := fmt.Sprintf("hazardous situation %s has no %q link to a harm",
					situation.ID, interfaces.RelationResultsIn)
				appendHazardGap(result, situation, "situation_no_harm", message)
			}
		}
	}
}

// appendHazardGap emits the warning/gap pair scoped to the document that
// should have declared the missing link.
func appendHazardGap(result *Result, doc *interfaces.Document, gapType, message string) {
	result.Warnings = append(result.Warnings, interfaces.ValidationWarning{
		File:     doc.FilePath,
		Rule:     "traceability/hazard-chain",
		Message:  message,
		Severity: interfaces.SeverityWarning,
	})
	result.Gaps = append(result.Gaps, interfaces.GapEntry{
		DocumentID: doc.ID,
		GapType:    gapType,
		Message:    message,
		Severity:   interfaces.SeverityWarning,
	})
}

// coveragePercent rounds covered/total to an integer percentage. A chain
// with nothing to check passes vacuously.
func coveragePercent(covered, total int) int {
	if total == 0 {
		return 100
	}
	return int(math.Round(float64(covered) / float64(total) * 100))
}
