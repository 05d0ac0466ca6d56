package interfaces

import "strings"

// DocType classifies a controlled document by the role it plays in the
// quality system. The set is closed over the categories the audit engine
// understands; anything it cannot place resolves to DocTypeUnknown so
// unrecognized repository layouts degrade instead of failing.
type DocType string

const (
	DocTypeUserNeed            DocType = "user_need"
	DocTypeProductRequirement  DocType = "product_requirement"
	DocTypeSoftwareRequirement DocType = "software_requirement"
	DocTypeArchitecture        DocType = "architecture"
	DocTypeDesign              DocType = "design"
	DocTypeTestCase            DocType = "test_case"
	DocTypeRisk                DocType = "risk"
	DocTypeHazard              DocType = "hazard"
	DocTypeHazardousSituation  DocType = "hazardous_situation"
	DocTypeHarm                DocType = "harm"
	DocTypeSOP                 DocType = "sop"
	DocTypePolicy              DocType = "policy"
	DocTypeWorkInstruction     DocType = "work_instruction"
	DocTypeExternalReport      DocType = "external_report"
	DocTypeUnknown             DocType = "unknown"
)

// KnownDocTypes enumerates every classification the engine evaluates,
// excluding the unknown escape hatch.
func KnownDocTypes() []DocType {
	return []DocType{
		DocTypeUserNeed,
		DocTypeProductRequirement,
		DocTypeSoftwareRequirement,
		DocTypeArchitecture,
		DocTypeDesign,
		DocTypeTestCase,
		DocTypeRisk,
		DocTypeHazard,
		DocTypeHazardousSituation,
		DocTypeHarm,
		DocTypeSOP,
		DocTypePolicy,
		DocTypeWorkInstruction,
		DocTypeExternalReport,
	}
}

// Known reports whether the type is one of the closed categories.
func (t DocType) Known() bool {
	return t != "" && t != DocTypeUnknown
}

// ParseDocType coerces arbitrary type strings into a known classification,
// falling back to DocTypeUnknown.
func ParseDocType(input string) DocType {
	candidate := DocType(strings.ToLower(strings.TrimSpace(input)))
	for _, known := range KnownDocTypes() {
		if candidate == known {
			return known
		}
	}
	return DocTypeUnknown
}

// Document represents one parsed markdown file from the controlled document
// tree. The struct is shared between the interfaces package and internal
// implementations so consumers can depend on a stable contract. Documents are
// built once per audit run and never mutated afterwards.
type Document struct {
	// FilePath is the slash-separated path relative to the documents root.
	// It is the stable identifier used for path lookups and warning scoping.
	FilePath string
	// ID is the declared document identifier (e.g. "SRS-001"). A document
	// without an ID is never materialized.
	ID     string
	Title  string
	Status string
	// Type is always structurally inferred from the file location or the ID
	// prefix; a declared type field in the frontmatter is not consulted.
	Type DocType
	// Meta carries the raw frontmatter key/value pairs without coercion.
	Meta map[string]any
	// Body holds the markdown content with the frontmatter stripped.
	Body []byte
}

// MetaString returns the trimmed string form of a frontmatter field, or ""
// when the field is absent.
func (d *Document) MetaString(key string) string {
	if d == nil || d.Meta == nil {
		return ""
	}
	value, ok := d.Meta[key]
	if !ok || value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	default:
		return ""
	}
}
