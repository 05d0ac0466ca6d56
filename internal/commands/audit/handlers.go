package auditcmd

import (
	"context"
	"strings"

	command "github.com/goliatone/go-command"

	"github.com/PactoSigna/qms-actions/internal/audit"
	"github.com/PactoSigna/qms-actions/internal/commands"
	"github.com/PactoSigna/qms-actions/internal/docstore"
	"github.com/PactoSigna/qms-actions/internal/logging"
	"github.com/PactoSigna/qms-actions/internal/risk"
	"github.com/PactoSigna/qms-actions/internal/runtimeconfig"
	"github.com/PactoSigna/qms-actions/internal/trace"
	"github.com/PactoSigna/qms-actions/pkg/interfaces"
)

const runAuditOperation = "audit.run_repository"

var _ command.Commander[RunAuditCommand] = (*RunAuditHandler)(nil)

// ReportSink receives the completed report. Handlers return only errors, so
// callers that want the report data register a sink.
type ReportSink func(*interfaces.AuditReport)

// RunAuditHandler orchestrates one repository audit via the shared command
// handler foundation.
type RunAuditHandler struct {
	inner *commands.Handler[RunAuditCommand]
}

// NewRunAuditHandler creates a handler bound to the supplied runtime
// configuration. The document store is constructed per execution so one
// handler can audit different roots.
func NewRunAuditHandler(cfg runtimeconfig.Config, provider interfaces.LoggerProvider, sink ReportSink, opts ...commands.HandlerOption[RunAuditCommand]) *RunAuditHandler {
	baseLogger := commands.CommandLogger(provider, "audit")

	exec := func(ctx context.Context, msg RunAuditCommand) error {
		service, err := audit.NewService(auditConfig(cfg, msg), provider)
		if err != nil {
			return err
		}

		report, err := service.Run(ctx)
		if err != nil {
			return err
		}

		logging.WithFields(baseLogger, map[string]any{
			"run_id":    report.RunID.String(),
			"documents": report.Documents,
			"warnings":  len(report.Warnings),
			"gaps":      len(report.Gaps),
			"has_risk":  report.RiskMatrix != nil,
		}).Info("audit.command.run_repository.completed")

		if sink != nil {
			sink(report)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[RunAuditCommand]{
		commands.WithLogger[RunAuditCommand](baseLogger),
		commands.WithOperation[RunAuditCommand](runAuditOperation),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &RunAuditHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[RunAuditCommand].
func (h *RunAuditHandler) Execute(ctx context.Context, msg RunAuditCommand) error {
	return h.inner.Execute(ctx, msg)
}

// auditConfig maps runtime configuration plus per-message overrides onto the
// audit pipeline's config shape.
func auditConfig(cfg runtimeconfig.Config, msg RunAuditCommand) audit.Config {
	docs := docstore.Config{
		BasePath:  cfg.Docs.Dir,
		Pattern:   cfg.Docs.Pattern,
		Recursive: cfg.Docs.Recursive,
	}
	if dir := strings.TrimSpace(msg.DocsDir); dir != "" {
		docs.BasePath = dir
	}
	if pattern := strings.TrimSpace(msg.Pattern); pattern != "" {
		docs.Pattern = pattern
	}

	chains := cfg.Traceability.Chains
	if cfg.Features.Traceability && len(chains) == 0 {
		chains = runtimeconfig.DefaultChains()
	}

	return audit.Config{
		Docs: docs,
		Traceability: trace.Config{
			Enabled: cfg.Features.Traceability,
			Chains:  chains,
		},
		Risk: risk.Config{
			GridSize: cfg.Risk.GridSize,
		},
		RiskEnabled: cfg.Features.RiskMatrix,
	}
}
