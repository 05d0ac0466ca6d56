package logging

import (
	"context"
	"strings"

	"github.com/PactoSigna/qms-actions/pkg/interfaces"
)

const (
	rootModule     = "qms"
	docstoreModule = "qms.docstore"
	traceModule    = "qms.trace"
	riskModule     = "qms.risk"
	auditModule    = "qms.audit"
	reportModule   = "qms.report"
)

const (
	fieldDocumentPath = "document_path"
	fieldDocumentID   = "document_id"
	fieldDocumentType = "document_type"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(map[string]any{
			"module": module,
		})
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// DocstoreLogger returns the logger namespace reserved for document discovery.
func DocstoreLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, docstoreModule)
}

// TraceLogger returns the logger namespace reserved for traceability checks.
func TraceLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, traceModule)
}

// RiskLogger returns the logger namespace reserved for risk-matrix building.
func RiskLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, riskModule)
}

// AuditLogger returns the logger namespace reserved for the audit pipeline.
func AuditLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, auditModule)
}

// ReportLogger returns the logger namespace reserved for report rendering.
func ReportLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, reportModule)
}

// WithDocumentContext enriches the provided logger with the common document
// fields. Empty values are ignored.
func WithDocumentContext(logger interfaces.Logger, path, id, docType string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		fields[fieldDocumentPath] = trimmed
	}
	if trimmed := strings.TrimSpace(id); trimmed != "" {
		fields[fieldDocumentID] = trimmed
	}
	if trimmed := strings.TrimSpace(docType); trimmed != "" {
		fields[fieldDocumentType] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
