package generator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"sort"
	"time"

	"github.com/goliatone/go-contentlayer/internal/logging"
	"github.com/goliatone/go-contentlayer/pkg/interfaces"
)

const (
	documentsDir  = "posts"
	indexFileName = "_index.json"
	tagsFileName  = "tags.json"
)

var (
	// ErrServiceDisabled indicates the generator feature is disabled.
	ErrServiceDisabled = errors.New("generator: service disabled")
	errOutputRequired  = errors.New("generator: output directory is required")
)

// Service writes generated documents.
type Service interface {
	Write(ctx context.Context, entries []Entry, meta BuildMeta) (*Result, error)
	Clean(ctx context.Context) error
}

// Config captures output location and per-document link settings.
type Config struct {
	OutputDir       string
	CleanBuild      bool
	EditURLTemplate string
	SiteURL         string
	OGCardPreset    string
}

// BuildMeta identifies the build that produced the output.
type BuildMeta struct {
	BuildID     string
	GeneratedAt time.Time
	Warnings    []string
}

// Result reports what was written.
type Result struct {
	Documents int
	Tags      int
	Files     []string
	Manifest  *Manifest
}

// NewService wires a filesystem backed generator.
func NewService(cfg Config, logger interfaces.Logger) Service {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &service{
		cfg:    cfg,
		writer: newFSWriter(cfg.OutputDir),
		logger: logger,
	}
}

// NewDisabledService returns a Service that fails every operation.
func NewDisabledService() Service {
	return disabledService{}
}

type service struct {
	cfg    Config
	writer artifactWriter
	logger interfaces.Logger
}

func (s *service) Write(ctx context.Context, entries []Entry, meta BuildMeta) (*Result, error) {
	if s.cfg.OutputDir == "" {
		return nil, errOutputRequired
	}
	if meta.GeneratedAt.IsZero() {
		meta.GeneratedAt = time.Now()
	}

	if s.cfg.CleanBuild {
		if err := s.Clean(ctx); err != nil {
			return nil, err
		}
	}
	if err := s.writer.EnsureDir(ctx, documentsDir); err != nil {
		return nil, fmt.Errorf("generator: ensure %s: %w", documentsDir, err)
	}

	docs := make([]Document, 0, len(entries))
	checksums := make(map[string][]byte, len(entries))
	for _, entry := range entries {
		if entry.Document == nil {
			continue
		}
		doc := NewDocument(entry, s.cfg)
		docs = append(docs, doc)
		checksums[doc.Slug] = entry.Document.Checksum
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Slug < docs[j].Slug })

	result := &Result{}
	manifest := newManifest(meta.BuildID, meta.GeneratedAt)
	manifest.Warnings = append(manifest.Warnings, meta.Warnings...)
	summaries := make([]Summary, 0, len(docs))

	for _, doc := range docs {
		output := path.Join(documentsDir, doc.Slug+".json")
		checksum, err := s.writeJSON(ctx, output, categoryDocument, doc)
		if err != nil {
			return nil, err
		}
		result.Files = append(result.Files, output)
		summaries = append(summaries, doc.Summary())

		manifest.Documents = append(manifest.Documents, ManifestDocument{
			Slug:           doc.Slug,
			Source:         doc.SourceFileName,
			Output:         output,
			SourceChecksum: hex.EncodeToString(checksums[doc.Slug]),
			OutputChecksum: checksum,
		})
		logging.WithDocumentContext(s.logger, doc.Slug, output).Debug("generated document written")
	}

	SortSummaries(summaries)
	if _, err := s.writeJSON(ctx, indexFileName, categoryIndex, summaries); err != nil {
		return nil, err
	}
	result.Files = append(result.Files, indexFileName)

	tags := TagIndex(summaries)
	if _, err := s.writeJSON(ctx, tagsFileName, categoryTags, tags); err != nil {
		return nil, err
	}
	result.Files = append(result.Files, tagsFileName)

	payload, err := manifest.marshal()
	if err != nil {
		return nil, fmt.Errorf("generator: marshal manifest: %w", err)
	}
	if err := s.writer.WriteFile(ctx, writeFileRequest{Path: manifestFileName, Content: payload, Category: categoryManifest}); err != nil {
		return nil, err
	}
	result.Files = append(result.Files, manifestFileName)

	result.Documents = len(docs)
	result.Tags = len(tags)
	result.Manifest = manifest
	s.logger.Info("generated output written", "documents", result.Documents, "tags", result.Tags, "output", s.cfg.OutputDir)
	return result, nil
}

func (s *service) Clean(ctx context.Context) error {
	if s.cfg.OutputDir == "" {
		return errOutputRequired
	}
	if err := s.writer.RemoveAll(ctx, "."); err != nil {
		return fmt.Errorf("generator: clean %s: %w", s.cfg.OutputDir, err)
	}
	return s.writer.EnsureDir(ctx, ".")
}

func (s *service) writeJSON(ctx context.Context, output string, category writeCategory, value any) (string, error) {
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return "", fmt.Errorf("generator: marshal %s: %w", output, err)
	}
	if err := s.writer.WriteFile(ctx, writeFileRequest{Path: output, Content: payload, Category: category}); err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

type disabledService struct{}

func (disabledService) Write(context.Context, []Entry, BuildMeta) (*Result, error) {
	return nil, ErrServiceDisabled
}

func (disabledService) Clean(context.Context) error {
	return ErrServiceDisabled
}
