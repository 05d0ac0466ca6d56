// Package qms audits trees of controlled markdown documents for internal
// consistency: required metadata, resolvable cross-references, traceability
// between requirements and their verifying artifacts, and ISO-14971-style
// risk acceptability.
package qms

import (
	"context"
	"fmt"
	"strings"

	"github.com/PactoSigna/qms-actions/internal/audit"
	"github.com/PactoSigna/qms-actions/internal/docstore"
	"github.com/PactoSigna/qms-actions/internal/logging"
	"github.com/PactoSigna/qms-actions/internal/logging/gologger"
	"github.com/PactoSigna/qms-actions/internal/report"
	"github.com/PactoSigna/qms-actions/internal/risk"
	"github.com/PactoSigna/qms-actions/internal/runtimeconfig"
	"github.com/PactoSigna/qms-actions/internal/trace"
	"github.com/PactoSigna/qms-actions/pkg/interfaces"
)

// Module is the top level audit runtime facade.
type Module struct {
	cfg      Config
	provider interfaces.LoggerProvider
	service  *audit.Service
	markdown *report.MarkdownBuilder
	html     *report.HTMLRenderer
}

// Option overrides module wiring during construction.
type Option func(*Module)

// WithLoggerProvider replaces the configured logging provider, letting host
// applications route audit logs through their own stack.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(m *Module) {
		m.provider = provider
	}
}

// New constructs the audit module from the provided configuration.
func New(cfg Config, opts ...Option) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Module{cfg: cfg}
	for _, opt := range opts {
		opt(m)
	}

	if m.provider == nil && cfg.Features.Logger {
		provider, err := buildProvider(cfg.Logging)
		if err != nil {
			return nil, err
		}
		m.provider = provider
	}

	chains := cfg.Traceability.Chains
	if cfg.Features.Traceability && len(chains) == 0 {
		chains = runtimeconfig.DefaultChains()
	}

	service, err := audit.NewService(audit.Config{
		Docs: docstore.Config{
			BasePath:  cfg.Docs.Dir,
			Pattern:   cfg.Docs.Pattern,
			Recursive: cfg.Docs.Recursive,
		},
		Traceability: trace.Config{
			Enabled: cfg.Features.Traceability,
			Chains:  chains,
		},
		Risk: risk.Config{
			GridSize: cfg.Risk.GridSize,
		},
		RiskEnabled: cfg.Features.RiskMatrix,
	}, m.provider)
	if err != nil {
		return nil, err
	}

	m.service = service
	m.markdown = report.NewMarkdownBuilder(logging.ReportLogger(m.provider))
	m.html = report.NewHTMLRenderer()
	return m, nil
}

// Audit returns the configured audit service.
func (m *Module) Audit() interfaces.AuditService {
	return m.service
}

// Run executes one full audit over the configured documents root.
func (m *Module) Run(ctx context.Context) (*interfaces.AuditReport, error) {
	return m.service.Run(ctx)
}

// MarkdownReport renders the report into the markdown summary shape.
func (m *Module) MarkdownReport(r *interfaces.AuditReport) []byte {
	return m.markdown.Build(r)
}

// HTMLReport renders the report's markdown summary into HTML.
func (m *Module) HTMLReport(r *interfaces.AuditReport) ([]byte, error) {
	return m.html.Render(m.markdown.Build(r))
}

// LoggerProvider exposes the wired provider for host integrations. Nil when
// logging is disabled.
func (m *Module) LoggerProvider() interfaces.LoggerProvider {
	if m == nil {
		return nil
	}
	return m.provider
}

func buildProvider(cfg LoggingConfig) (interfaces.LoggerProvider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "noop":
		return nil, nil
	case "gologger":
		return gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
	default:
		return nil, fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, cfg.Provider)
	}
}
