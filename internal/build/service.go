package build

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-contentlayer/internal/cache"
	"github.com/goliatone/go-contentlayer/internal/computed"
	"github.com/goliatone/go-contentlayer/internal/generator"
	"github.com/goliatone/go-contentlayer/internal/logging"
	"github.com/goliatone/go-contentlayer/pkg/interfaces"
)

// ErrNoDocuments is returned when the content store holds no documents.
var ErrNoDocuments = errors.New("build: no documents found")

// DocumentSource loads and renders documents.
type DocumentSource interface {
	LoadAll(ctx context.Context) ([]*interfaces.Document, error)
	Render(ctx context.Context, doc *interfaces.Document) (interfaces.RenderedBody, error)
}

// StatsSource exposes cache counters for the report.
type StatsSource interface {
	Stats() cache.Stats
}

// Config tunes the build.
type Config struct {
	// Workers bounds concurrent document processing; zero means NumCPU.
	Workers int
	// AllowEmpty accepts an empty content store.
	AllowEmpty bool
}

// Options narrows a single run.
type Options struct {
	// DryRun processes every document but writes nothing.
	DryRun bool
	// BuildID overrides the generated build identifier.
	BuildID string
}

// Dependencies lists the collaborators of the build service.
type Dependencies struct {
	Documents DocumentSource
	Computed  interfaces.ComputedFieldResolver
	Output    generator.Service
	Stats     StatsSource
	Logger    interfaces.Logger
	Now       func() time.Time
	NewID     func() string
}

// Service orchestrates builds.
type Service struct {
	cfg  Config
	deps Dependencies
}

// NewService validates deps and returns a build service.
func NewService(cfg Config, deps Dependencies) (*Service, error) {
	if deps.Documents == nil {
		return nil, errors.New("build: document source is required")
	}
	if deps.Computed == nil {
		return nil, errors.New("build: computed field resolver is required")
	}
	if deps.Output == nil {
		deps.Output = generator.NewDisabledService()
	}
	if deps.Logger == nil {
		deps.Logger = logging.NoOp()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.NewID == nil {
		deps.NewID = func() string { return uuid.NewString() }
	}
	return &Service{cfg: cfg, deps: deps}, nil
}

// Build runs the whole pipeline once.
func (s *Service) Build(ctx context.Context, opts Options) (*Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	start := s.deps.Now()
	buildID := opts.BuildID
	if buildID == "" {
		buildID = s.deps.NewID()
	}
	report := &Report{
		BuildID:   buildID,
		StartedAt: start,
		DryRun:    opts.DryRun,
	}
	logger := logging.WithFields(s.deps.Logger, map[string]any{"build_id": report.BuildID})

	docs, err := s.deps.Documents.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 && !s.cfg.AllowEmpty {
		return nil, ErrNoDocuments
	}
	if err := checkDuplicateSlugs(docs); err != nil {
		return nil, err
	}

	entries, err := s.processConcurrently(ctx, docs, effectiveWorkerCount(s.cfg.Workers, len(docs)))
	if err != nil {
		logger.Error("build aborted", "error", err)
		return nil, err
	}

	for _, entry := range entries {
		report.Slugs = append(report.Slugs, entry.Computed.Slug)
		report.Warnings = append(report.Warnings, entry.Computed.Warnings...)
	}
	sort.Strings(report.Slugs)
	sort.SliceStable(report.Warnings, func(i, j int) bool {
		return report.Warnings[i].Slug < report.Warnings[j].Slug
	})
	report.Documents = len(entries)

	if !opts.DryRun {
		result, err := s.deps.Output.Write(ctx, entries, generator.BuildMeta{
			BuildID:     report.BuildID,
			GeneratedAt: start,
			Warnings:    report.WarningStrings(),
		})
		if err != nil {
			return nil, err
		}
		report.Files = result.Files
	}

	if s.deps.Stats != nil {
		report.Cache = s.deps.Stats.Stats()
	}
	report.Duration = s.deps.Now().Sub(start)
	logger.Info("build completed",
		"documents", report.Documents,
		"warnings", len(report.Warnings),
		"cache_hits", report.Cache.Hits,
		"cache_misses", report.Cache.Misses,
		"duration", report.Duration.String(),
		"dry_run", opts.DryRun,
	)
	return report, nil
}

// processConcurrently renders and resolves docs on a worker pool. The first
// failure cancels the remaining work. Results keep the input order.
func (s *Service) processConcurrently(ctx context.Context, docs []*interfaces.Document, workers int) ([]generator.Entry, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	entries := make([]generator.Entry, len(docs))
	jobs := make(chan int)

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					continue
				}
				entry, err := s.processDocument(ctx, docs[idx])
				if err != nil {
					fail(err)
					continue
				}
				entries[idx] = entry
			}
		}()
	}

dispatch:
	for idx := range docs {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- idx:
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *Service) processDocument(ctx context.Context, doc *interfaces.Document) (generator.Entry, error) {
	body, err := s.deps.Documents.Render(ctx, doc)
	if err != nil {
		return generator.Entry{}, err
	}
	fields, err := s.deps.Computed.Resolve(ctx, doc)
	if err != nil {
		return generator.Entry{}, err
	}
	return generator.Entry{Document: doc, Body: body, Computed: fields}, nil
}

func checkDuplicateSlugs(docs []*interfaces.Document) error {
	seen := make(map[string]string, len(docs))
	for _, doc := range docs {
		slug := computed.Slug(doc.SourceFileName)
		if previous, ok := seen[slug]; ok {
			return &interfaces.ParseError{
				Path:   doc.FilePath,
				Issues: []string{fmt.Sprintf("duplicate slug %q (also produced by %s)", slug, previous)},
			}
		}
		seen[slug] = doc.FilePath
	}
	return nil
}

func effectiveWorkerCount(configured, jobs int) int {
	workers := configured
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > jobs {
		workers = jobs
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}
