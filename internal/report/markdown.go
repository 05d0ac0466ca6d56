// Package report renders audit outcomes into markdown summaries and HTML,
// the shapes CI bots and reviewers consume.
package report

import (
	"fmt"
	"strings"

	slug "github.com/goliatone/go-slug"

	"github.com/PactoSigna/qms-actions/internal/logging"
	"github.com/PactoSigna/qms-actions/pkg/interfaces"
)

// sectionTitles drive both the headings and the table of contents. Order is
// presentation order.
var sectionTitles = []string{
	"Summary",
	"Traceability Coverage",
	"Risk Matrix",
	"Warnings",
	"Gaps",
}

// MarkdownBuilder renders an AuditReport into a markdown document. The
// builder is stateless and safe for reuse.
type MarkdownBuilder struct {
	logger interfaces.Logger
}

// NewMarkdownBuilder constructs a builder with an optional logger.
func NewMarkdownBuilder(logger interfaces.Logger) *MarkdownBuilder {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &MarkdownBuilder{logger: logger}
}

// Build renders the report. The input is expected to be pre-sorted by the
// audit service; the builder writes rows in the order given.
func (b *MarkdownBuilder) Build(report *interfaces.AuditReport) []byte {
	if report == nil {
		return nil
	}

	var out strings.Builder
	out.WriteString("# QMS Audit Report\n\n")
	fmt.Fprintf(&out, "Run `%s` audited %d documents (%d skipped).\n\n",
		report.RunID.String(), report.Documents, report.SkippedDocs)

	b.writeTOC(&out)
	b.writeSummary(&out, report)
	b.writeCoverage(&out, report.Coverage)
	b.writeRiskMatrix(&out, report.RiskMatrix)
	b.writeWarnings(&out, report.Warnings)
	b.writeGaps(&out, report.Gaps)

	b.logger.Debug("report.markdown.built",
		"bytes", out.Len(),
		"warnings", len(report.Warnings),
	)
	return []byte(out.String())
}

func (b *MarkdownBuilder) writeTOC(out *strings.Builder) {
	for _, title := range sectionTitles {
		anchor, err := slug.Normalize(title)
		if err != nil {
			anchor = strings.ToLower(strings.ReplaceAll(title, " ", "-"))
		}
		fmt.Fprintf(out, "- [%s](#%s)\n", title, anchor)
	}
	out.WriteString("\n")
}

func (b *MarkdownBuilder) writeSummary(out *strings.Builder, report *interfaces.AuditReport) {
	out.WriteString("## Summary\n\n")

	errorCount := 0
	for _, warning := range report.Warnings {
		if warning.Severity == interfaces.SeverityError {
			errorCount++
		}
	}

	out.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(out, "| Documents | %d |\n", report.Documents)
	fmt.Fprintf(out, "| Skipped (no id) | %d |\n", report.SkippedDocs)
	fmt.Fprintf(out, "| Warnings | %d |\n", len(report.Warnings)-errorCount)
	fmt.Fprintf(out, "| Errors | %d |\n", errorCount)
	fmt.Fprintf(out, "| Gaps | %d |\n", len(report.Gaps))
	out.WriteString("\n")
}

func (b *MarkdownBuilder) writeCoverage(out *strings.Builder, coverage []interfaces.TraceabilityCoverage) {
	out.WriteString("## Traceability Coverage\n\n")
	if len(coverage) == 0 {
		out.WriteString("Traceability is not enabled for this repository.\n\n")
		return
	}

	out.WriteString("| Chain | Relation Sources | Covered | Coverage |\n|---|---|---|---|\n")
	for _, entry := range coverage {
		fmt.Fprintf(out, "| %s | %d | %d | %d%% |\n",
			entry.ChainName, entry.TotalSources, entry.CoveredSources, entry.CoveragePercent)
	}
	out.WriteString("\n")
}

func (b *MarkdownBuilder) writeRiskMatrix(out *strings.Builder, matrix *interfaces.RiskMatrix) {
	out.WriteString("## Risk Matrix\n\n")
	if matrix == nil {
		out.WriteString("No risk documents found.\n\n")
		return
	}

	fmt.Fprintf(out, "%d risks assessed: %d acceptable, %d review required, %d unacceptable (%d skipped).\n\n",
		matrix.Summary.Total, matrix.Summary.Acceptable, matrix.Summary.ReviewRequired,
		matrix.Summary.Unacceptable, matrix.Skipped)

	out.WriteString("### Residual grid\n\n")
	writeGrid(out, matrix.Residual, matrix.GridSize)

	out.WriteString("### Inherent grid\n\n")
	writeGrid(out, matrix.Inherent, matrix.GridSize)

	if len(matrix.Risks) > 0 {
		out.WriteString("### Risks\n\n")
		out.WriteString("| ID | Title | S/P | Residual S/P | Tier | Mitigations |\n|---|---|---|---|---|---|\n")
		for _, entry := range matrix.Risks {
			mitigations := "—"
			if len(entry.Mitigations) > 0 {
				mitigations = strings.Join(entry.Mitigations, ", ")
			}
			fmt.Fprintf(out, "| %s | %s | %d/%d | %d/%d | %s | %s |\n",
				entry.ID, entry.Title,
				entry.Severity, entry.Probability,
				entry.ResidualSeverity, entry.ResidualProbability,
				tierLabel(entry.Tier), mitigations)
		}
		out.WriteString("\n")
	}
}

// writeGrid renders one count grid with probability rows descending so the
// most frequent row sits on top, the usual ISO 14971 presentation.
func writeGrid(out *strings.Builder, grid [][]int, gridSize int) {
	out.WriteString("| P \\ S |")
	for severity := 1; severity <= gridSize; severity++ {
		fmt.Fprintf(out, " S%d |", severity)
	}
	out.WriteString("\n|---|")
	out.WriteString(strings.Repeat("---|", gridSize))
	out.WriteString("\n")

	for probability := gridSize; probability >= 1; probability-- {
		fmt.Fprintf(out, "| P%d |", probability)
		for severity := 1; severity <= gridSize; severity++ {
			count := 0
			if probability-1 < len(grid) && severity-1 < len(grid[probability-1]) {
				count = grid[probability-1][severity-1]
			}
			if count == 0 {
				out.WriteString(" |")
				continue
			}
			fmt.Fprintf(out, " %d |", count)
		}
		out.WriteString("\n")
	}
	out.WriteString("\n")
}

func (b *MarkdownBuilder) writeWarnings(out *strings.Builder, warnings []interfaces.ValidationWarning) {
	out.WriteString("## Warnings\n\n")
	if len(warnings) == 0 {
		out.WriteString("No findings.\n\n")
		return
	}

	out.WriteString("| Severity | File | Rule | Message |\n|---|---|---|---|\n")
	for _, warning := range warnings {
		fmt.Fprintf(out, "| %s | %s | %s | %s |\n",
			warning.Severity, warning.File, warning.Rule, escapeCell(warning.Message))
	}
	out.WriteString("\n")
}

func (b *MarkdownBuilder) writeGaps(out *strings.Builder, gaps []interfaces.GapEntry) {
	out.WriteString("## Gaps\n\n")
	if len(gaps) == 0 {
		out.WriteString("No traceability gaps.\n\n")
		return
	}

	out.WriteString("| Document | Gap | Message |\n|---|---|---|\n")
	for _, gap := range gaps {
		fmt.Fprintf(out, "| %s | `%s` | %s |\n",
			gap.DocumentID, gap.GapType, escapeCell(gap.Message))
	}
	out.WriteString("\n")
}

func tierLabel(tier interfaces.AcceptabilityTier) string {
	switch tier {
	case interfaces.TierAcceptable:
		return "✅ acceptable"
	case interfaces.TierUnacceptable:
		return "❌ unacceptable"
	default:
		return "⚠️ review required"
	}
}

// escapeCell keeps free-text messages from breaking table rows.
func escapeCell(text string) string {
	text = strings.ReplaceAll(text, "|", "\\|")
	return strings.ReplaceAll(text, "\n", " ")
}
