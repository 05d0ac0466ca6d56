// Package risk extracts severity/probability assessments from risk-typed
// documents and aggregates them into the repository risk matrix.
package risk

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PactoSigna/qms-actions/internal/docstore"
	"github.com/PactoSigna/qms-actions/internal/links"
	"github.com/PactoSigna/qms-actions/internal/logging"
	"github.com/PactoSigna/qms-actions/pkg/interfaces"
)

// Config controls matrix dimensions. GridSize defaults to 5.
type Config struct {
	GridSize int
}

const defaultGridSize = 5

// Builder turns a document snapshot into a risk matrix. Stateless; every
// Build call derives everything fresh from the snapshot.
type Builder struct {
	logger interfaces.Logger
}

// NewBuilder constructs a Builder with an optional logger.
func NewBuilder(logger interfaces.Logger) *Builder {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Builder{logger: logger}
}

// Body-table fallbacks for repositories that record assessments as markdown
// rows instead of frontmatter fields. The first captured digit wins.
var (
	severityRow            = regexp.MustCompile(`(?mi)^\|\s*Severity\s*\|\s*(\d)`)
	probabilityRow         = regexp.MustCompile(`(?mi)^\|\s*Probability\s*\|\s*(\d)`)
	residualSeverityRow    = regexp.MustCompile(`(?mi)^\|\s*Residual[ _]Severity\s*\|\s*(\d)`)
	residualProbabilityRow = regexp.MustCompile(`(?mi)^\|\s*Residual[ _]Probability\s*\|\s*(\d)`)
)

// Build extracts a RiskEntry per assessable risk document and populates the
// inherent and residual count grids. It returns nil when the snapshot holds
// no risk-typed documents at all, which callers must distinguish from a
// matrix whose entry list is empty.
func (b *Builder) Build(snapshot *docstore.Snapshot, cfg Config) *interfaces.RiskMatrix {
	if snapshot == nil {
		return nil
	}
	riskDocs := snapshot.OfType(interfaces.DocTypeRisk)
	if len(riskDocs) == 0 {
		return nil
	}

	gridSize := cfg.GridSize
	if gridSize <= 0 {
		gridSize = defaultGridSize
	}

	matrix := &interfaces.RiskMatrix{
		GridSize:      gridSize,
		Inherent:      emptyGrid(gridSize),
		Residual:      emptyGrid(gridSize),
		Acceptability: AcceptabilityGrid(),
	}

	for _, doc := range riskDocs {
		entry, ok := b.extractEntry(doc)
		if !ok {
			matrix.Skipped++
			continue
		}

		incrementCell(matrix.Inherent, entry.Probability, entry.Severity, gridSize)
		incrementCell(matrix.Residual, entry.ResidualProbability, entry.ResidualSeverity, gridSize)

		matrix.Risks = append(matrix.Risks, entry)
		matrix.Summary.Total++
		switch entry.Tier {
		case interfaces.TierAcceptable:
			matrix.Summary.Acceptable++
		case interfaces.TierUnacceptable:
			matrix.Summary.Unacceptable++
		default:
			matrix.Summary.ReviewRequired++
		}
	}

	b.logger.Debug("risk.build.completed",
		"entries", matrix.Summary.Total,
		"skipped", matrix.Skipped,
	)
	return matrix
}

// extractEntry reads the assessment off one risk document. The second return
// is false when neither metadata nor the body yields any inherent value; such
// documents are legitimate (an assessment may not exist yet) and are skipped
// without complaint.
func (b *Builder) extractEntry(doc *interfaces.Document) (interfaces.RiskEntry, bool) {
	severity := firstOf(metaInt(doc, "severity"), bodyDigit(doc, severityRow))
	probability := firstOf(metaInt(doc, "probability"), bodyDigit(doc, probabilityRow))

	if severity == 0 && probability == 0 {
		return interfaces.RiskEntry{}, false
	}

	residualSeverity := firstOf(metaInt(doc, "residual_severity"), bodyDigit(doc, residualSeverityRow), severity)
	residualProbability := firstOf(metaInt(doc, "residual_probability"), bodyDigit(doc, residualProbabilityRow), probability)

	entry := interfaces.RiskEntry{
		ID:                  doc.ID,
		Title:               doc.Title,
		Severity:            severity,
		Probability:         probability,
		ResidualSeverity:    residualSeverity,
		ResidualProbability: residualProbability,
		Tier:                Classify(residualProbability, residualSeverity),
	}
	for _, link := range links.OfKind(doc, interfaces.RelationMitigates) {
		entry.Mitigations = append(entry.Mitigations, link.TargetID)
	}
	return entry, true
}

// incrementCell bumps the grid cell for a (probability, severity) pair,
// skipping coordinates outside 1..gridSize. The entry itself is still
// recorded; only the count is dropped.
func incrementCell(grid [][]int, probability, severity, gridSize int) {
	if probability < 1 || probability > gridSize || severity < 1 || severity > gridSize {
		return
	}
	grid[probability-1][severity-1]++
}

func emptyGrid(size int) [][]int {
	grid := make([][]int, size)
	for i := range grid {
		grid[i] = make([]int, size)
	}
	return grid
}

func firstOf(values ...int) int {
	for _, value := range values {
		if value != 0 {
			return value
		}
	}
	return 0
}

// metaInt coerces a frontmatter field into an int. YAML decoding may hand
// back int, float, or string forms depending on how authors quoted values.
func metaInt(doc *interfaces.Document, key string) int {
	if doc == nil || doc.Meta == nil {
		return 0
	}
	switch value := doc.Meta[key].(type) {
	case int:
		return value
	case int64:
		return int(value)
	case float64:
		return int(value)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

func bodyDigit(doc *interfaces.Document, pattern *regexp.Regexp) int {
	match := pattern.FindSubmatch(doc.Body)
	if len(match) < 2 {
		return 0
	}
	digit, err := strconv.Atoi(string(match[1]))
	if err != nil {
		return 0
	}
	return digit
}
