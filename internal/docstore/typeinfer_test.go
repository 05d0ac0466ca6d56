package docstore

import (
	"testing"

	"github.com/PactoSigna/qms-actions/pkg/interfaces"
)

func TestInferType(t *testing.T) {
	cases := []struct {
		name string
		path string
		id   string
		want interfaces.DocType
	}{
		{
			name: "directory match wins over id prefix",
			path: "docs/test_cases/risk-check.md",
			id:   "RISK-001",
			want: interfaces.DocTypeTestCase,
		},
		{
			name: "deepest directory segment wins",
			path: "risks/test_cases/tc-001.md",
			id:   "TC-001",
			want: interfaces.DocTypeTestCase,
		},
		{
			name: "prefix fallback when no directory matches",
			path: "misc/srs-002.md",
			id:   "SRS-002",
			want: interfaces.DocTypeSoftwareRequirement,
		},
		{
			name: "prefix is case insensitive",
			path: "misc/doc.md",
			id:   "haz-010",
			want: interfaces.DocTypeHazard,
		},
		{
			name: "prefix stops at first separator",
			path: "misc/doc.md",
			id:   "HS-3",
			want: interfaces.DocTypeHazardousSituation,
		},
		{
			name: "unknown when nothing matches",
			path: "notes/scratch.md",
			id:   "XYZ-1",
			want: interfaces.DocTypeUnknown,
		},
		{
			name: "file in repository root uses prefix",
			path: "un-001.md",
			id:   "UN-001",
			want: interfaces.DocTypeUserNeed,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := InferType(tc.path, tc.id)
			if got != tc.want {
				t.Fatalf("InferType(%q, %q) = %q, want %q", tc.path, tc.id, got, tc.want)
			}
		})
	}
}

func TestParseDocType(t *testing.T) {
	if got := interfaces.ParseDocType(" Test_Case "); got != interfaces.DocTypeTestCase {
		t.Fatalf("expected test_case, got %q", got)
	}
	if got := interfaces.ParseDocType("nonsense"); got != interfaces.DocTypeUnknown {
		t.Fatalf("expected unknown, got %q", got)
	}
	if interfaces.DocTypeUnknown.Known() {
		t.Fatalf("unknown must not report as known")
	}
}
