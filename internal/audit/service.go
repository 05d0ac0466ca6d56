// Package audit composes document discovery, validation, traceability, and
// risk evaluation into one run over a single immutable snapshot.
package audit

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/PactoSigna/qms-actions/internal/docstore"
	"github.com/PactoSigna/qms-actions/internal/logging"
	"github.com/PactoSigna/qms-actions/internal/risk"
	"github.com/PactoSigna/qms-actions/internal/trace"
	"github.com/PactoSigna/qms-actions/pkg/interfaces"
)

// Config aggregates the per-module settings one audit run needs.
type Config struct {
	Docs         docstore.Config
	Traceability trace.Config
	Risk         risk.Config
	// RiskEnabled gates matrix building entirely; a disabled repository
	// reports no matrix even when risk documents exist.
	RiskEnabled bool
}

// Service implements interfaces.AuditService for filesystem-backed document
// trees.
type Service struct {
	cfg     Config
	store   *docstore.Store
	engine  *trace.Engine
	builder *risk.Builder
	logger  interfaces.Logger
}

var _ interfaces.AuditService = (*Service)(nil)

// NewService constructs the audit pipeline rooted at cfg.Docs.BasePath.
func NewService(cfg Config, provider interfaces.LoggerProvider) (*Service, error) {
	store, err := docstore.NewStore(cfg.Docs, logging.DocstoreLogger(provider))
	if err != nil {
		return nil, err
	}
	return NewServiceWithStore(store, cfg, provider), nil
}

// NewServiceWithStore wires the pipeline over an existing store, letting
// tests and embedded repositories supply their own filesystem.
func NewServiceWithStore(store *docstore.Store, cfg Config, provider interfaces.LoggerProvider) *Service {
	return &Service{
		cfg:     cfg,
		store:   store,
		engine:  trace.NewEngine(logging.TraceLogger(provider)),
		builder: risk.NewBuilder(logging.RiskLogger(provider)),
		logger:  logging.AuditLogger(provider),
	}
}

// Run executes one full audit: discover, validate, trace, and build the
// risk matrix. Individual findings never abort the batch; the only errors
// returned are I/O failures while reading the tree and context
// cancellation. Warnings and gaps are sorted before the report is returned
// so output is reproducible across platforms.
func (s *Service) Run(ctx context.Context) (*interfaces.AuditReport, error) {
	snapshot, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	report := &interfaces.AuditReport{
		RunID:       uuid.New(),
		Documents:   len(snapshot.Documents),
		SkippedDocs: snapshot.Skipped,
	}

	report.Warnings = append(report.Warnings, validateFrontmatter(snapshot)...)
	report.Warnings = append(report.Warnings, validateReferences(snapshot)...)

	traceResult := s.engine.Evaluate(snapshot, s.cfg.Traceability)
	report.Warnings = append(report.Warnings, traceResult.Warnings...)
	report.Coverage = traceResult.Coverage
	report.Gaps = traceResult.Gaps

	if s.cfg.RiskEnabled {
		report.RiskMatrix = s.builder.Build(snapshot, s.cfg.Risk)
	}

	sortReport(report)

	s.logger.Info("audit.run.completed",
		"run_id", report.RunID.String(),
		"documents", report.Documents,
		"skipped", report.SkippedDocs,
		"warnings", len(report.Warnings),
		"gaps", len(report.Gaps),
	)
	return report, nil
}

// sortReport orders warnings by file then rule then message, and gaps by
// document then gap type. Check-run order is an implementation detail;
// consumers get a canonical ordering.
func sortReport(report *interfaces.AuditReport) {
	sort.SliceStable(report.Warnings, func(i, j int) bool {
		a, b := report.Warnings[i], report.Warnings[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Rule != b.Rule {
			return a.Rule < b.Rule
		}
		return a.Message < b.Message
	})
	sort.SliceStable(report.Gaps, func(i, j int) bool {
		a, b := report.Gaps[i], report.Gaps[j]
		if a.DocumentID != b.DocumentID {
			return a.DocumentID < b.DocumentID
		}
		if a.GapType != b.GapType {
			return a.GapType < b.GapType
		}
		return a.Message < b.Message
	})
}
