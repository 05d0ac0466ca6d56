package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	qms "github.com/PactoSigna/qms-actions"
	auditcmd "github.com/PactoSigna/qms-actions/internal/commands/audit"
	"github.com/PactoSigna/qms-actions/internal/runtimeconfig"
	"github.com/PactoSigna/qms-actions/pkg/interfaces"
)

func main() {
	code, err := runAudit(os.Args[1:], os.Stdout)
	if err != nil {
		log.Fatalf("qms-audit: %v", err)
	}
	os.Exit(code)
}

func runAudit(args []string, stdout *os.File) (int, error) {
	fs := flag.NewFlagSet("qms-audit", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to a .qms-config.yml file (optional)")
	docsDir := fs.String("docs-dir", "", "Documents root (overrides config)")
	pattern := fs.String("pattern", "", "Glob pattern applied when discovering markdown files (overrides config)")
	traceability := fs.Bool("traceability", false, "Enable traceability chain evaluation")
	riskMatrix := fs.Bool("risk-matrix", false, "Enable risk matrix building")
	format := fs.String("format", "markdown", "Report format: markdown or html")
	output := fs.String("output", "", "Write the report to this file instead of stdout")
	failOnError := fs.Bool("fail-on-error", false, "Exit non-zero when any error-severity finding exists")

	if err := fs.Parse(args); err != nil {
		return 0, err
	}

	cfg, err := resolveConfig(*configPath, *docsDir, *traceability, *riskMatrix)
	if err != nil {
		return 0, err
	}

	module, err := qms.New(cfg)
	if err != nil {
		return 0, fmt.Errorf("build module: %w", err)
	}

	var captured *interfaces.AuditReport
	handler := auditcmd.NewRunAuditHandler(cfg, module.LoggerProvider(), func(r *interfaces.AuditReport) {
		captured = r
	})

	cmd := auditcmd.RunAuditCommand{
		DocsDir: cfg.Docs.Dir,
		Pattern: *pattern,
	}
	if err := handler.Execute(context.Background(), cmd); err != nil {
		return 0, fmt.Errorf("execute audit command: %w", err)
	}
	if captured == nil {
		return 0, fmt.Errorf("audit produced no report")
	}

	rendered, err := renderReport(module, captured, *format)
	if err != nil {
		return 0, err
	}

	if *output != "" {
		if err := os.WriteFile(*output, rendered, 0o644); err != nil {
			return 0, fmt.Errorf("write report: %w", err)
		}
	} else {
		if _, err := stdout.Write(rendered); err != nil {
			return 0, fmt.Errorf("write report: %w", err)
		}
	}

	if *failOnError && captured.HasErrors() {
		return 1, nil
	}
	return 0, nil
}

// resolveConfig layers CLI flags over the YAML file over defaults.
func resolveConfig(configPath, docsDir string, traceability, riskMatrix bool) (qms.Config, error) {
	cfg := qms.DefaultConfig()
	if configPath != "" {
		loaded, err := runtimeconfig.Load(configPath)
		if err != nil {
			return qms.Config{}, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if docsDir != "" {
		cfg.Docs.Dir = docsDir
	}
	if traceability {
		cfg.Features.Traceability = true
	}
	if riskMatrix {
		cfg.Features.RiskMatrix = true
	}
	return cfg, nil
}

func renderReport(module *qms.Module, r *interfaces.AuditReport, format string) ([]byte, error) {
	switch format {
	case "", "markdown", "md":
		return module.MarkdownReport(r), nil
	case "html":
		return module.HTMLReport(r)
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}
