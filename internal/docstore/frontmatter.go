package docstore

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/PactoSigna/qms-actions/pkg/interfaces"
)

// ParseFrontMatter extracts declared metadata and markdown body content from
// the provided source bytes. It returns the raw metadata mapping, the body
// without delimiters, and any error encountered. Files without a frontmatter
// block yield an empty mapping and the full source as body.
func ParseFrontMatter(source []byte) (map[string]any, []byte, error) {
	var meta frontMatterEnvelope

	reader := bytes.NewReader(source)
	body, err := frontmatter.Parse(reader, &meta)
	if err != nil {
		return nil, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	return envelopeToMeta(meta), body, nil
}

// BuildDocument assembles an interfaces.Document from the supplied relative
// path and raw content. A document whose frontmatter declares no id is never
// materialized: the function returns (nil, nil) so callers can skip it
// without treating the file as an error. Type is always structurally
// inferred from the path and id; a declared type field is carried in Meta
// but not consulted.
func BuildDocument(path string, source []byte) (*interfaces.Document, error) {
	meta, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, err
	}

	id := metaString(meta, "id")
	if id == "" {
		return nil, nil
	}

	return &interfaces.Document{
		FilePath: path,
		ID:       id,
		Title:    metaString(meta, "title"),
		Status:   metaString(meta, "status"),
		Type:     InferType(path, id),
		Meta:     meta,
		Body:     body,
	}, nil
}

type frontMatterEnvelope struct {
	ID     string         `yaml:"id"`
	Title  string         `yaml:"title"`
	Status string         `yaml:"status"`
	Custom map[string]any `yaml:",inline"`
}

func envelopeToMeta(env frontMatterEnvelope) map[string]any {
	meta := make(map[string]any, len(env.Custom)+3)
	for key, value := range env.Custom {
		meta[key] = value
	}
	if env.ID != "" {
		meta["id"] = env.ID
	}
	if env.Title != "" {
		meta["title"] = env.Title
	}
	if env.Status != "" {
		meta["status"] = env.Status
	}
	return meta
}

func metaString(meta map[string]any, key string) string {
	value, ok := meta[key]
	if !ok || value == nil {
		return ""
	}
	str, ok := value.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(str)
}
