package docstore

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/PactoSigna/qms-actions/internal/logging"
	"github.com/PactoSigna/qms-actions/pkg/interfaces"
)

// Config controls how the document store discovers and parses files.
type Config struct {
	BasePath  string
	Pattern   string
	Recursive bool
}

// Store implements document discovery for filesystem-backed repositories.
type Store struct {
	cfg    Config
	loader *Loader
	logger interfaces.Logger
}

// Snapshot is the immutable per-run view over every materialized document.
// The by-id index tolerates collisions by overwriting; duplicate detection
// is a validation concern layered on top, not an index invariant.
type Snapshot struct {
	Documents []*interfaces.Document
	ByID      map[string]*interfaces.Document
	ByPath    map[string]*interfaces.Document
	ByType    map[interfaces.DocType][]*interfaces.Document
	// Skipped counts files dropped for lacking an id, surfaced for
	// observability since the drop itself is silent.
	Skipped int
}

// NewStore constructs a Store rooted at cfg.BasePath.
func NewStore(cfg Config, logger interfaces.Logger) (*Store, error) {
	filesystem, err := prepareFilesystem(cfg.BasePath)
	if err != nil {
		return nil, err
	}
	return NewStoreWithFS(filesystem, cfg, logger), nil
}

// NewStoreWithFS constructs a Store over an arbitrary fs.FS, letting tests
// and embedded repositories supply their own filesystem.
func NewStoreWithFS(filesystem fs.FS, cfg Config, logger interfaces.Logger) *Store {
	if logger == nil {
		logger = logging.NoOp()
	}
	loader := NewLoader(filesystem, LoaderConfig{
		BasePath:  cfg.BasePath,
		Pattern:   cfg.Pattern,
		Recursive: cfg.Recursive,
	})
	return &Store{
		cfg:    cfg,
		loader: loader,
		logger: logger,
	}
}

// Load discovers every markdown document under the documents root and builds
// the snapshot indices. Files without an id are counted but excluded from
// all indices.
func (s *Store) Load(ctx context.Context) (*Snapshot, error) {
	docs, skipped, err := s.loader.LoadDirectory(ctx, ".")
	if err != nil {
		return nil, err
	}

	snapshot := buildSnapshot(docs, skipped)

	s.logger.Debug("docstore.load.completed",
		"documents", len(snapshot.Documents),
		"skipped", snapshot.Skipped,
		"types", len(snapshot.ByType),
	)
	return snapshot, nil
}

// buildSnapshot derives the three indices from an already-sorted document
// list. Insertion order within a type group follows the sorted discovery
// order, so groupings are stable across platforms.
func buildSnapshot(docs []*interfaces.Document, skipped int) *Snapshot {
	snapshot := &Snapshot{
		Documents: docs,
		ByID:      make(map[string]*interfaces.Document, len(docs)),
		ByPath:    make(map[string]*interfaces.Document, len(docs)),
		ByType:    make(map[interfaces.DocType][]*interfaces.Document),
		Skipped:   skipped,
	}

	for _, doc := range docs {
		snapshot.ByID[doc.ID] = doc
		snapshot.ByPath[doc.FilePath] = doc
		snapshot.ByType[doc.Type] = append(snapshot.ByType[doc.Type], doc)
	}

	return snapshot
}

// OfType returns the documents of the requested type in stable path order.
func (s *Snapshot) OfType(docType interfaces.DocType) []*interfaces.Document {
	if s == nil {
		return nil
	}
	return s.ByType[docType]
}

// Resolve looks a document up by id.
func (s *Snapshot) Resolve(id string) (*interfaces.Document, bool) {
	if s == nil {
		return nil, false
	}
	doc, ok := s.ByID[strings.TrimSpace(id)]
	return doc, ok
}

func prepareFilesystem(basePath string) (fs.FS, error) {
	if strings.TrimSpace(basePath) == "" {
		basePath = "."
	}
	if _, err := os.Stat(basePath); err != nil {
		return nil, fmt.Errorf("docstore: stat base path %s: %w", basePath, err)
	}
	return os.DirFS(basePath), nil
}
