// Package runtimeconfig aggregates feature flags and per-module settings for
// the audit runtime, with opinionated defaults for device repositories.
package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PactoSigna/qms-actions/pkg/interfaces"
)

// ErrDocsDirRequired indicates the documents root is missing.
var ErrDocsDirRequired = errors.New("qms config: docs directory is required")

// ErrChainsRequireTraceability guards chain configuration behind the feature flag.
var ErrChainsRequireTraceability = errors.New("qms config: traceability chains require the traceability feature to be enabled")

var ErrChainTypeUnknown = errors.New("qms config: traceability chain references an unknown document type")
var ErrChainRelationRequired = errors.New("qms config: traceability chain relation is required")
var ErrGridSizeInvalid = errors.New("qms config: risk grid size must be between 1 and 9")
var ErrLoggingProviderRequired = errors.New("qms config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("qms config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("qms config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("qms config: logging format is invalid")

// Config aggregates everything one audit invocation needs. Fields
// intentionally use simple types so host applications (CI runners, bots) can
// populate them from any source.
type Config struct {
	Docs         DocsConfig         `yaml:"docs"`
	Features     Features           `yaml:"features"`
	Traceability TraceabilityConfig `yaml:"traceability"`
	Risk         RiskConfig         `yaml:"risk"`
	Logging      LoggingConfig      `yaml:"logging"`
}

// DocsConfig captures filesystem discovery behaviour for the document tree.
type DocsConfig struct {
	// Dir is the root directory where controlled documents live.
	Dir string `yaml:"dir"`
	// Pattern limits discovery to matching files (defaults to "*.md").
	Pattern   string `yaml:"pattern"`
	Recursive bool   `yaml:"recursive"`
}

// Features toggles module functionality. A repository that never opted into
// traceability runs frontmatter and reference checks only.
type Features struct {
	Traceability bool `yaml:"traceability"`
	RiskMatrix   bool `yaml:"risk_matrix"`
	Logger       bool `yaml:"logger"`
}

// TraceabilityConfig lists the expected chains between document-type groups.
type TraceabilityConfig struct {
	Chains []interfaces.TraceabilityChain `yaml:"chains"`
}

// RiskConfig captures matrix dimensions.
type RiskConfig struct {
	GridSize int `yaml:"grid_size"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `yaml:"provider"`
	Level     string   `yaml:"level"`
	Format    string   `yaml:"format"`
	AddSource bool     `yaml:"add_source"`
	Focus     []string `yaml:"focus"`
}

// DefaultChains is the chain set a device repository gets when it enables
// traceability without configuring its own. Verification is reversible: the
// test case usually declares what it verifies, not the other way around.
func DefaultChains() []interfaces.TraceabilityChain {
	return []interfaces.TraceabilityChain{
		{SourceType: interfaces.DocTypeProductRequirement, TargetType: interfaces.DocTypeUserNeed, Relation: interfaces.RelationDerivesFrom},
		{SourceType: interfaces.DocTypeSoftwareRequirement, TargetType: interfaces.DocTypeProductRequirement, Relation: interfaces.RelationDerivesFrom},
		{SourceType: interfaces.DocTypeDesign, TargetType: interfaces.DocTypeSoftwareRequirement, Relation: interfaces.RelationImplements},
		{SourceType: interfaces.DocTypeSoftwareRequirement, TargetType: interfaces.DocTypeTestCase, Relation: interfaces.RelationVerifiedBy, Reversible: true},
		{SourceType: interfaces.DocTypeTestCase, TargetType: interfaces.DocTypeUserNeed, Relation: interfaces.RelationValidates},
		{SourceType: interfaces.DocTypeRisk, TargetType: interfaces.DocTypeHazard, Relation: interfaces.RelationAnalyzes},
	}
}

// DefaultConfig returns defaults matching a device repository layout.
func DefaultConfig() Config {
	return Config{
		Docs: DocsConfig{
			Dir:       "docs",
			Pattern:   "*.md",
			Recursive: true,
		},
		Features: Features{},
		Risk: RiskConfig{
			GridSize: 5,
		},
		Logging: LoggingConfig{
			Provider: "gologger",
			Level:    "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Docs.Dir) == "" {
		return ErrDocsDirRequired
	}
	if len(cfg.Traceability.Chains) > 0 && !cfg.Features.Traceability {
		return ErrChainsRequireTraceability
	}
	for _, chain := range cfg.Traceability.Chains {
		if !chain.SourceType.Known() {
			return fmt.Errorf("%w: %s", ErrChainTypeUnknown, chain.SourceType)
		}
		if !chain.TargetType.Known() {
			return fmt.Errorf("%w: %s", ErrChainTypeUnknown, chain.TargetType)
		}
		if strings.TrimSpace(string(chain.Relation)) == "" {
			return fmt.Errorf("%w: %s", ErrChainRelationRequired, chain.Name())
		}
	}
	if cfg.Risk.GridSize < 0 || cfg.Risk.GridSize > 9 {
		return fmt.Errorf("%w: %d", ErrGridSizeInvalid, cfg.Risk.GridSize)
	}
	if cfg.Features.Logger {
		provider := strings.ToLower(strings.TrimSpace(cfg.Logging.Provider))
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "gologger", "noop":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
