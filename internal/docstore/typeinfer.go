package docstore

import (
	"path"
	"strings"
	"unicode"

	"github.com/PactoSigna/qms-actions/pkg/interfaces"
)

// directoryTypes maps directory segment names to document types. Matching
// scans from the deepest containing directory upward, so the most specific
// placement wins.
var directoryTypes = map[string]interfaces.DocType{
	"user_needs":            interfaces.DocTypeUserNeed,
	"product_requirements":  interfaces.DocTypeProductRequirement,
	"software_requirements": interfaces.DocTypeSoftwareRequirement,
	"architecture":          interfaces.DocTypeArchitecture,
	"design":                interfaces.DocTypeDesign,
	"designs":               interfaces.DocTypeDesign,
	"test_cases":            interfaces.DocTypeTestCase,
	"risks":                 interfaces.DocTypeRisk,
	"risk_assessments":      interfaces.DocTypeRisk,
	"hazards":               interfaces.DocTypeHazard,
	"hazardous_situations":  interfaces.DocTypeHazardousSituation,
	"harms":                 interfaces.DocTypeHarm,
	"sops":                  interfaces.DocTypeSOP,
	"policies":              interfaces.DocTypePolicy,
	"work_instructions":     interfaces.DocTypeWorkInstruction,
	"external_reports":      interfaces.DocTypeExternalReport,
}

// prefixTypes maps the leading alphabetic segment of a document id (before
// its first separator) to a document type. Used only when no directory
// segment matched.
var prefixTypes = map[string]interfaces.DocType{
	"UN":   interfaces.DocTypeUserNeed,
	"PR":   interfaces.DocTypeProductRequirement,
	"SRS":  interfaces.DocTypeSoftwareRequirement,
	"ARCH": interfaces.DocTypeArchitecture,
	"SDS":  interfaces.DocTypeDesign,
	"DES":  interfaces.DocTypeDesign,
	"TC":   interfaces.DocTypeTestCase,
	"RISK": interfaces.DocTypeRisk,
	"HAZ":  interfaces.DocTypeHazard,
	"HS":   interfaces.DocTypeHazardousSituation,
	"HARM": interfaces.DocTypeHarm,
	"SOP":  interfaces.DocTypeSOP,
	"POL":  interfaces.DocTypePolicy,
	"WI":   interfaces.DocTypeWorkInstruction,
	"EXT":  interfaces.DocTypeExternalReport,
}

// InferType classifies a document from its relative path and id. Directory
// segments take precedence over the id prefix; when neither table matches
// the type is DocTypeUnknown. Declared metadata is intentionally never
// consulted: the repository structure is treated as ground truth.
func InferType(relPath, id string) interfaces.DocType {
	dir := path.Dir(strings.TrimSpace(relPath))
	if dir != "." && dir != "/" {
		segments := strings.Split(dir, "/")
		for i := len(segments) - 1; i >= 0; i-- {
			segment := strings.ToLower(strings.TrimSpace(segments[i]))
			if docType, ok := directoryTypes[segment]; ok {
				return docType
			}
		}
	}

	if prefix := idPrefix(id); prefix != "" {
		if docType, ok := prefixTypes[prefix]; ok {
			return docType
		}
	}

	return interfaces.DocTypeUnknown
}

// idPrefix returns the leading alphabetic run of id, upper-cased, stopping
// at the first non-letter character.
func idPrefix(id string) string {
	id = strings.TrimSpace(id)
	for i, r := range id {
		if !unicode.IsLetter(r) {
			return strings.ToUpper(id[:i])
		}
	}
	return strings.ToUpper(id)
}
