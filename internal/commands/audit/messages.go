// Package auditcmd exposes the repository audit as a dispatchable command.
package auditcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const runAuditMessageType = "qms.audit.run_repository"

// RunAuditCommand triggers one full audit over the document tree rooted at
// DocsDir. Zero-valued fields fall back to the runtime configuration the
// handler was constructed with.
type RunAuditCommand struct {
	// DocsDir selects the documents root (relative or absolute).
	DocsDir string `json:"docs_dir"`
	// Pattern overrides the discovery glob when non-empty.
	Pattern string `json:"pattern,omitempty"`
}

// Type implements command.Message.
func (RunAuditCommand) Type() string { return runAuditMessageType }

// Validate ensures the documents root is present before handlers execute.
func (cmd RunAuditCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.DocsDir, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("qms.audit.run_repository.docs_dir_required", "docs dir is required")
			}
			return nil
		})),
	)
}
