// Package links extracts declared relationship links from document bodies.
// Extraction is pure: it never stores anything on the document and always
// yields the same ordered list for the same body.
package links

import (
	"regexp"
	"strings"

	"github.com/PactoSigna/qms-actions/pkg/interfaces"
)

// marker binds one bold-label phrase to the relationship kind it declares.
// The table is ordered; earlier markers are matched first on each line.
type marker struct {
	label string
	kind  interfaces.RelationKind
}

// markers covers every relationship the audit engines evaluate. Only these
// declared lines count: arbitrary inline markdown links elsewhere in the
// body are not relationships.
var markers = []marker{
	{"**Derives from:**", interfaces.RelationDerivesFrom},
	{"**Verifies:**", interfaces.RelationVerifiedBy},
	{"**Validates:**", interfaces.RelationValidates},
	{"**Implements:**", interfaces.RelationImplements},
	{"**Mitigates:**", interfaces.RelationMitigates},
	{"**Analyzes:**", interfaces.RelationAnalyzes},
	{"**Leads to:**", interfaces.RelationLeadsTo},
	{"**Results in:**", interfaces.RelationResultsIn},
}

var bracketedID = regexp.MustCompile(`\[([^\[\]]+)\]`)

// Extract returns the ordered list of outbound links declared in the
// document body. A line carrying several bracketed identifiers yields one
// link per identifier, all of the same kind; a marker line without brackets
// uses the trimmed remainder verbatim as a single target id.
func Extract(doc *interfaces.Document) []interfaces.Link {
	if doc == nil || len(doc.Body) == 0 {
		return nil
	}

	var found []interfaces.Link
	for _, line := range strings.Split(string(doc.Body), "\n") {
		trimmed := strings.TrimSpace(line)
		for _, m := range markers {
			rest, ok := strings.CutPrefix(trimmed, m.label)
			if !ok {
				continue
			}
			found = append(found, lineLinks(m.kind, rest)...)
			break
		}
	}
	return found
}

// OfKind filters the document's links down to one relationship kind,
// preserving encounter order.
func OfKind(doc *interfaces.Document, kind interfaces.RelationKind) []interfaces.Link {
	var matched []interfaces.Link
	for _, link := range Extract(doc) {
		if link.Kind == kind {
			matched = append(matched, link)
		}
	}
	return matched
}

// HasKind reports whether the document declares at least one link of kind.
func HasKind(doc *interfaces.Document, kind interfaces.RelationKind) bool {
	return len(OfKind(doc, kind)) > 0
}

// FirstTarget returns the target id of the document's first link of kind,
// or "" when none is declared.
func FirstTarget(doc *interfaces.Document, kind interfaces.RelationKind) string {
	matched := OfKind(doc, kind)
	if len(matched) == 0 {
		return ""
	}
	return matched[0].TargetID
}

func lineLinks(kind interfaces.RelationKind, rest string) []interfaces.Link {
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return nil
	}

	matches := bracketedID.FindAllStringSubmatch(rest, -1)
	if len(matches) == 0 {
		return []interfaces.Link{{Kind: kind, TargetID: rest}}
	}

	out := make([]interfaces.Link, 0, len(matches))
	for _, match := range matches {
		target := strings.TrimSpace(match[1])
		if target == "" {
			continue
		}
		out = append(out, interfaces.Link{Kind: kind, TargetID: target})
	}
	return out
}
