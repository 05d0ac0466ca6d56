package audit

import (
	"context"
	"reflect"
	"sort"
	"testing"
	"testing/fstest"

	"github.com/google/uuid"

	"github.com/PactoSigna/qms-actions/internal/docstore"
	"github.com/PactoSigna/qms-actions/internal/risk"
	"github.com/PactoSigna/qms-actions/internal/trace"
	"github.com/PactoSigna/qms-actions/pkg/interfaces"
)

func deviceRepoFS() fstest.MapFS {
	return fstest.MapFS{
		"user_needs/un-001.md": file("---\nid: UN-001\ntitle: Dose tracking\nstatus: approved\n---\nNeed text.\n"),
		"software_requirements/srs-001.md": file("---\nid: SRS-001\ntitle: Record doses\nstatus: approved\n---\n" +
			"**Derives from:** [UN-001]\n"),
		"test_cases/tc-001.md": file("---\nid: TC-001\ntitle: Verify dose recording\nstatus: approved\n---\n" +
			"**Verifies:** [SRS-001]\n"),
		"risks/risk-001.md": file("---\nid: RISK-001\ntitle: Overdose\nstatus: approved\n" +
			"severity: 4\nprobability: 3\nresidual_severity: 4\nresidual_probability: 1\n---\n" +
			"**Analyzes:** [HAZ-001]\n**Mitigates:** [SRS-001]\n"),
		"hazards/haz-001.md": file("---\nid: HAZ-001\ntitle: Pump overrun\nstatus: approved\n---\n" +
			"**Leads to:** [HS-001]\n"),
		"hazardous_situations/hs-001.md": file("---\nid: HS-001\ntitle: Excess insulin delivered\nstatus: approved\n---\n" +
			"**Results in:** [HARM-001]\n"),
		"harms/harm-001.md": file("---\nid: HARM-001\ntitle: Hypoglycemia\nstatus: approved\n---\nHarm text.\n"),
	}
}

func file(content string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(content)}
}

func newService(filesystem fstest.MapFS, cfg Config) *Service {
	store := docstore.NewStoreWithFS(filesystem, docstore.Config{Recursive: true}, nil)
	return NewServiceWithStore(store, cfg, nil)
}

func deviceConfig() Config {
	return Config{
		Traceability: trace.Config{
			Enabled: true,
			Chains: []interfaces.TraceabilityChain{
				{
					SourceType: interfaces.DocTypeSoftwareRequirement,
					TargetType: interfaces.DocTypeUserNeed,
					Relation:   interfaces.RelationDerivesFrom,
				},
				{
					SourceType: interfaces.DocTypeSoftwareRequirement,
					TargetType: interfaces.DocTypeTestCase,
					Relation:   interfaces.RelationVerifiedBy,
					Reversible: true,
				},
			},
		},
		Risk:        risk.Config{GridSize: 5},
		RiskEnabled: true,
	}
}

func TestRunCleanRepository(t *testing.T) {
	svc := newService(deviceRepoFS(), deviceConfig())

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if report.Documents != 7 || report.SkippedDocs != 0 {
		t.Fatalf("unexpected document counts: %#v", report)
	}
	if len(report.Warnings) != 0 {
		t.Fatalf("clean repository must produce no warnings, got %#v", report.Warnings)
	}
	if report.HasErrors() {
		t.Fatalf("clean repository must not report errors")
	}

	if len(report.Coverage) != 2 {
		t.Fatalf("expected two coverage rows, got %#v", report.Coverage)
	}
	for _, cov := range report.Coverage {
		if cov.CoveragePercent != 100 {
			t.Fatalf("expected full coverage, got %#v", cov)
		}
	}

	if report.RiskMatrix == nil {
		t.Fatalf("expected risk matrix")
	}
	if report.RiskMatrix.Summary.Acceptable != 1 {
		t.Fatalf("risk must classify acceptable: %#v", report.RiskMatrix.Summary)
	}
	if report.RunID == uuid.Nil {
		t.Fatalf("expected run id to be assigned")
	}
}

func TestRunReportsFrontmatterAndReferenceFindings(t *testing.T) {
	filesystem := fstest.MapFS{
		"software_requirements/srs-001.md": file("---\nid: SRS-001\n---\n**Derives from:** [UN-404]\n"),
		"a/dup.md":                         file("---\nid: SRS-001\ntitle: Dup\nstatus: draft\n---\nBody.\n"),
	}
	svc := newService(filesystem, Config{})

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	rules := map[string]int{}
	for _, warning := range report.Warnings {
		rules[warning.Rule]++
	}
	if rules["frontmatter/missing-field"] != 2 {
		t.Fatalf("expected missing title and status findings, got %#v", rules)
	}
	if rules["frontmatter/duplicate-id"] != 1 {
		t.Fatalf("expected duplicate id finding, got %#v", rules)
	}
	if rules["references/broken-link"] != 1 {
		t.Fatalf("expected broken link finding, got %#v", rules)
	}
	if !report.HasErrors() {
		t.Fatalf("error-severity findings must surface through HasErrors")
	}
}

func TestRunTraceabilityDisabled(t *testing.T) {
	svc := newService(deviceRepoFS(), Config{RiskEnabled: true})

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(report.Coverage) != 0 || len(report.Gaps) != 0 {
		t.Fatalf("disabled traceability must produce empty results, got %#v", report)
	}
	if report.RiskMatrix == nil {
		t.Fatalf("risk matrix is independent of traceability")
	}
}

func TestRunOutputIsSorted(t *testing.T) {
	filesystem := fstest.MapFS{
		"z_last/srs-009.md":  file("---\nid: SRS-009\n---\nBody.\n"),
		"a_first/srs-001.md": file("---\nid: SRS-001\n---\nBody.\n"),
	}
	svc := newService(filesystem, Config{})

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	files := make([]string, 0, len(report.Warnings))
	for _, warning := range report.Warnings {
		files = append(files, warning.File)
	}
	if !sort.StringsAreSorted(files) {
		t.Fatalf("warnings must be sorted by file: %#v", files)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	svc := newService(deviceRepoFS(), deviceConfig())

	first, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	second, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}

	// Everything except the per-run id must match exactly.
	first.RunID = second.RunID
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("reports differ across identical runs:\n%#v\n%#v", first, second)
	}
}
