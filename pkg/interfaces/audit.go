package interfaces

import (
	"context"

	"github.com/google/uuid"
)

// RelationKind identifies the semantic meaning of a declared link between
// two documents.
type RelationKind string

const (
	RelationDerivesFrom RelationKind = "derives_from"
	RelationVerifiedBy  RelationKind = "verified_by"
	RelationValidates   RelationKind = "validates"
	RelationImplements  RelationKind = "implements"
	RelationMitigates   RelationKind = "mitigates"
	RelationAnalyzes    RelationKind = "analyzes"
	RelationLeadsTo     RelationKind = "leads_to"
	RelationResultsIn   RelationKind = "results_in"
)

// Link is a directed, typed reference from one document to another,
// extracted on demand from declared text patterns. A target that resolves to
// no known document is still a valid Link; broken references are a separate
// validation concern.
type Link struct {
	Kind     RelationKind
	TargetID string
}

// TraceabilityChain configures an expected directed edge class between two
// document-type groups. Reversible chains also accept the link declared by
// the target side (the common pattern for verification, where the test case
// rather than the requirement declares the relationship).
type TraceabilityChain struct {
	SourceType DocType      `yaml:"source_type"`
	TargetType DocType      `yaml:"target_type"`
	Relation   RelationKind `yaml:"relation"`
	Reversible bool         `yaml:"reversible"`
}

// Name renders the human-readable "Source → Target" chain label used in
// coverage reports.
func (c TraceabilityChain) Name() string {
	return string(c.SourceType) + " → " + string(c.TargetType)
}

// WarningSeverity grades validation findings. The audit core never treats
// any severity as fatal; callers decide what blocks a workflow.
type WarningSeverity string

const (
	SeverityWarning WarningSeverity = "warning"
	SeverityError   WarningSeverity = "error"
)

// ValidationWarning is one advisory finding scoped to a file.
type ValidationWarning struct {
	File     string
	Rule     string
	Message  string
	Severity WarningSeverity
}

// TraceabilityCoverage reports how one configured chain fared across the
// snapshot. Recomputed fully each run; never cumulative.
type TraceabilityCoverage struct {
	ChainName       string
	SourceType      DocType
	TargetType      DocType
	TotalSources    int
	CoveredSources  int
	CoveragePercent int
}

// GapEntry records one missing expected link as machine-readable data,
// independent of the human-readable warning text.
type GapEntry struct {
	DocumentID string
	GapType    string
	Message    string
	Severity   WarningSeverity
}

// AcceptabilityTier classifies a risk's residual exposure.
type AcceptabilityTier string

const (
	TierAcceptable     AcceptabilityTier = "acceptable"
	TierReviewRequired AcceptabilityTier = "review_required"
	TierUnacceptable   AcceptabilityTier = "unacceptable"
)

// RiskEntry is the evaluated view of one risk-typed document. Severity and
// probability are 1-based ordinals on the configured grid scale; residual
// values default to the inherent ones when not independently declared.
type RiskEntry struct {
	ID                  string
	Title               string
	Severity            int
	Probability         int
	ResidualSeverity    int
	ResidualProbability int
	Mitigations         []string
	Tier                AcceptabilityTier
}

// RiskSummary aggregates tier totals across all risk entries.
type RiskSummary struct {
	Total          int
	Acceptable     int
	ReviewRequired int
	Unacceptable   int
}

// RiskMatrix carries the populated severity×probability count grids together
// with the fixed acceptability grid and the full entry list. A repository
// with no risk-typed documents produces no matrix at all, which is distinct
// from a matrix with zero entries.
type RiskMatrix struct {
	GridSize      int
	Inherent      [][]int
	Residual      [][]int
	Acceptability [][]AcceptabilityTier
	Risks         []RiskEntry
	Summary       RiskSummary
	// Skipped counts risk-typed documents that carried no extractable
	// severity/probability and therefore contributed no entry.
	Skipped int
}

// AuditReport is the full outcome of one audit run over a single immutable
// snapshot of the document tree.
type AuditReport struct {
	RunID       uuid.UUID
	Documents   int
	SkippedDocs int
	Warnings    []ValidationWarning
	Coverage    []TraceabilityCoverage
	Gaps        []GapEntry
	// RiskMatrix is nil when the snapshot holds no risk-typed documents.
	RiskMatrix *RiskMatrix
}

// HasErrors reports whether any warning carries the error severity.
func (r *AuditReport) HasErrors() bool {
	if r == nil {
		return false
	}
	for _, warning := range r.Warnings {
		if warning.Severity == SeverityError {
			return true
		}
	}
	return false
}

// AuditService runs the full document audit pipeline.
type AuditService interface {
	Run(ctx context.Context) (*AuditReport, error)
}

// MarkdownRenderer converts markdown bytes into HTML, used when publishing
// audit reports outside of plain-text channels.
type MarkdownRenderer interface {
	Render(markdown []byte) ([]byte, error)
}
