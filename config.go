package qms

import "github.com/PactoSigna/qms-actions/internal/runtimeconfig"

var (
	ErrDocsDirRequired           = runtimeconfig.ErrDocsDirRequired
	ErrChainsRequireTraceability = runtimeconfig.ErrChainsRequireTraceability
	ErrChainTypeUnknown          = runtimeconfig.ErrChainTypeUnknown
	ErrChainRelationRequired     = runtimeconfig.ErrChainRelationRequired
	ErrGridSizeInvalid           = runtimeconfig.ErrGridSizeInvalid
	ErrLoggingProviderRequired   = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown    = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid       = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid      = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config             = runtimeconfig.Config
	DocsConfig         = runtimeconfig.DocsConfig
	Features           = runtimeconfig.Features
	TraceabilityConfig = runtimeconfig.TraceabilityConfig
	RiskConfig         = runtimeconfig.RiskConfig
	LoggingConfig      = runtimeconfig.LoggingConfig
)

// DefaultConfig returns defaults matching a device repository layout.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads and validates a YAML configuration file.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.Load(path)
}
