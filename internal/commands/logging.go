package commands

import (
	"strings"

	"github.com/PactoSigna/qms-actions/internal/logging"
	"github.com/PactoSigna/qms-actions/pkg/interfaces"
)

const commandModuleRoot = "qms.commands"

// CommandLogger returns a module-scoped logger for command handlers,
// enriched with consistent structured fields so command executions can be
// filtered uniformly.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	name := strings.TrimSpace(module)
	if name == "" {
		name = "core"
	}
	logger := logging.ModuleLogger(provider, commandModuleRoot+"."+name)
	return logging.WithFields(logger, map[string]any{
		"component":      "command",
		"command_module": name,
	})
}
