package audit

import (
	"fmt"

	"github.com/PactoSigna/qms-actions/internal/docstore"
	"github.com/PactoSigna/qms-actions/internal/links"
	"github.com/PactoSigna/qms-actions/pkg/interfaces"
)

// requiredFields lists the frontmatter keys every controlled document must
// declare. The id field is enforced earlier, at parse time, by dropping the
// document; these are the fields a materialized document still owes.
var requiredFields = []string{"title", "status"}

// validateFrontmatter reports missing required fields and duplicate ids.
// Both are error-severity findings: they break lookups every other check
// depends on.
func validateFrontmatter(snapshot *docstore.Snapshot) []interfaces.ValidationWarning {
	var warnings []interfaces.ValidationWarning

	seen := make(map[string]string, len(snapshot.Documents))
	for _, doc := range snapshot.Documents {
		for _, field := range requiredFields {
			if doc.MetaString(field) != "" {
				continue
			}
			warnings = append(warnings, interfaces.ValidationWarning{
				File:     doc.FilePath,
				Rule:     "frontmatter/missing-field",
				Message:  fmt.Sprintf("%s is missing required field %q", doc.ID, field),
				Severity: interfaces.SeverityError,
			})
		}

		if firstPath, ok := seen[doc.ID]; ok {
			warnings = append(warnings, interfaces.ValidationWarning{
				File:     doc.FilePath,
				Rule:     "frontmatter/duplicate-id",
				Message:  fmt.Sprintf("id %s already declared by %s", doc.ID, firstPath),
				Severity: interfaces.SeverityError,
			})
			continue
		}
		seen[doc.ID] = doc.FilePath
	}

	return warnings
}

// validateReferences reports declared links whose target id resolves to no
// known document. The link extractor intentionally accepts such links; this
// is where they surface.
func validateReferences(snapshot *docstore.Snapshot) []interfaces.ValidationWarning {
	var warnings []interfaces.ValidationWarning

	for _, doc := range snapshot.Documents {
		for _, link := range links.Extract(doc) {
			if _, ok := snapshot.Resolve(link.TargetID); ok {
				continue
			}
			warnings = append(warnings, interfaces.ValidationWarning{
				File:     doc.FilePath,
				Rule:     "references/broken-link",
				Message:  fmt.Sprintf("%s declares %q link to unknown document %s", doc.ID, link.Kind, link.TargetID),
				Severity: interfaces.SeverityError,
			})
		}
	}

	return warnings
}
