package markdown

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-contentlayer/internal/logging"
	"github.com/goliatone/go-contentlayer/pkg/interfaces"
)

// Config controls where documents are read from and how they are rendered.
type Config struct {
	BasePath string
	Pattern  string
	Pipeline PipelineOptions
}

// Service loads documents from the content store and renders their bodies.
type Service struct {
	cfg      Config
	loader   *Loader
	pipeline interfaces.ContentPipeline
	logger   interfaces.Logger
}

// ServiceOption customises a Service.
type ServiceOption func(*Service)

// WithPipeline overrides the transform pipeline.
func WithPipeline(pipeline interfaces.ContentPipeline) ServiceOption {
	return func(s *Service) {
		if pipeline != nil {
			s.pipeline = pipeline
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithFS reads documents from filesystem instead of BasePath.
func WithFS(filesystem fs.FS) ServiceOption {
	return func(s *Service) {
		if filesystem != nil {
			s.loader = NewLoader(filesystem, s.cfg.Pattern)
		}
	}
}

// NewService constructs a Service. The base path is only checked when no
// filesystem override is supplied.
func NewService(cfg Config, opts ...ServiceOption) (*Service, error) {
	svc := &Service{
		cfg:    cfg,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}

	if svc.loader == nil {
		filesystem, err := prepareFilesystem(cfg.BasePath)
		if err != nil {
			return nil, err
		}
		svc.loader = NewLoader(filesystem, cfg.Pattern)
	}
	if svc.pipeline == nil {
		pipeline, err := NewPipeline(cfg.Pipeline)
		if err != nil {
			return nil, err
		}
		svc.pipeline = pipeline
	}
	return svc, nil
}

// Load reads a single document by file name.
func (s *Service) Load(ctx context.Context, name string) (*interfaces.Document, error) {
	doc, err := s.loader.LoadFile(ctx, name)
	if err != nil {
		return nil, err
	}
	logging.WithDocumentContext(s.logger, "", doc.FilePath).Debug("markdown document loaded")
	return doc, nil
}

// LoadAll reads every document in the content store.
func (s *Service) LoadAll(ctx context.Context) ([]*interfaces.Document, error) {
	docs, err := s.loader.LoadAll(ctx)
	if err != nil {
		var parseErr *interfaces.ParseError
		if errors.As(err, &parseErr) {
			s.logger.Error("markdown frontmatter invalid", "path", parseErr.Path, "issues", parseErr.Issues)
		}
		return nil, err
	}
	s.logger.Debug("markdown documents loaded", "count", len(docs))
	return docs, nil
}

// Render runs the transform pipeline for doc.
func (s *Service) Render(ctx context.Context, doc *interfaces.Document) (interfaces.RenderedBody, error) {
	body, err := s.pipeline.Render(ctx, doc)
	if err != nil {
		path := ""
		if doc != nil {
			path = doc.FilePath
		}
		logging.WithDocumentContext(s.logger, "", path).Error("markdown transform failed", "error", err)
		return interfaces.RenderedBody{}, err
	}
	return body, nil
}

func prepareFilesystem(basePath string) (fs.FS, error) {
	if strings.TrimSpace(basePath) == "" {
		basePath = "."
	}
	info, err := os.Stat(basePath)
	if err != nil {
		return nil, fmt.Errorf("markdown service: stat base path %s: %w", basePath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("markdown service: base path %s is not a directory", basePath)
	}
	return os.DirFS(basePath), nil
}
