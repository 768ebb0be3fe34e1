package build

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goliatone/go-contentlayer/internal/cache"
	"github.com/goliatone/go-contentlayer/internal/computed"
	"github.com/goliatone/go-contentlayer/internal/generator"
	"github.com/goliatone/go-contentlayer/internal/images"
	"github.com/goliatone/go-contentlayer/internal/markdown"
	"github.com/goliatone/go-contentlayer/pkg/interfaces"
	"github.com/goliatone/go-contentlayer/pkg/testsupport"
)

type fakeSource struct {
	docs      []*interfaces.Document
	failOn    string
	rendered  atomic.Int32
	renderDur time.Duration
}

func (f *fakeSource) LoadAll(context.Context) ([]*interfaces.Document, error) {
	return f.docs, nil
}

func (f *fakeSource) Render(ctx context.Context, doc *interfaces.Document) (interfaces.RenderedBody, error) {
	if f.renderDur > 0 {
		select {
		case <-time.After(f.renderDur):
		case <-ctx.Done():
			return interfaces.RenderedBody{}, ctx.Err()
		}
	}
	f.rendered.Add(1)
	if doc.SourceFileName == f.failOn {
		return interfaces.RenderedBody{}, &interfaces.TransformError{Path: doc.FilePath, Stage: "render", Err: errors.New("boom")}
	}
	return interfaces.RenderedBody{Raw: string(doc.Body), HTML: "<p>" + string(doc.Body) + "</p>", Plain: string(doc.Body)}, nil
}

type recordingOutput struct {
	calls   int
	entries []generator.Entry
}

func (r *recordingOutput) Write(_ context.Context, entries []generator.Entry, _ generator.BuildMeta) (*generator.Result, error) {
	r.calls++
	r.entries = entries
	return &generator.Result{Documents: len(entries)}, nil
}

func (r *recordingOutput) Clean(context.Context) error { return nil }

func docsNamed(names ...string) []*interfaces.Document {
	docs := make([]*interfaces.Document, 0, len(names))
	for _, name := range names {
		docs = append(docs, &interfaces.Document{
			SourceFileName: name,
			FilePath:       name,
			Body:           []byte("body of " + name),
		})
	}
	return docs
}

func newService(t *testing.T, cfg Config, source DocumentSource, output generator.Service) *Service {
	t.Helper()
	svc, err := NewService(cfg, Dependencies{
		Documents: source,
		Computed:  computed.NewResolver(nil, nil),
		Output:    output,
		NewID:     func() string { return "build-id" },
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestBuildProcessesEveryDocument(t *testing.T) {
	source := &fakeSource{docs: docsNamed("c.mdx", "a.mdx", "b.mdx")}
	output := &recordingOutput{}
	svc := newService(t, Config{Workers: 2}, source, output)

	report, err := svc.Build(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if report.BuildID != "build-id" || report.Documents != 3 {
		t.Fatalf("unexpected report %+v", report)
	}
	if len(report.Slugs) != 3 || report.Slugs[0] != "a" || report.Slugs[2] != "c" {
		t.Fatalf("unexpected slugs %v", report.Slugs)
	}
	if output.calls != 1 || len(output.entries) != 3 {
		t.Fatalf("expected one write with 3 entries, got calls=%d entries=%d", output.calls, len(output.entries))
	}
	for _, entry := range output.entries {
		if entry.Body.HTML == "" || entry.Computed.Slug == "" {
			t.Fatalf("incomplete entry %+v", entry)
		}
	}
}

func TestBuildAbortsOnFirstTransformError(t *testing.T) {
	source := &fakeSource{docs: docsNamed("a.mdx", "b.mdx", "c.mdx", "d.mdx"), failOn: "b.mdx"}
	output := &recordingOutput{}
	svc := newService(t, Config{Workers: 1}, source, output)

	_, err := svc.Build(context.Background(), Options{})
	var transformErr *interfaces.TransformError
	if !errors.As(err, &transformErr) || transformErr.Path != "b.mdx" {
		t.Fatalf("expected TransformError for b.mdx, got %v", err)
	}
	if output.calls != 0 {
		t.Fatalf("expected no output on failure")
	}
	if got := source.rendered.Load(); got != 2 {
		t.Fatalf("expected rendering to stop after the failure, rendered %d", got)
	}
}

func TestBuildRejectsDuplicateSlugs(t *testing.T) {
	source := &fakeSource{docs: docsNamed("post.mdx", "post.md")}
	svc := newService(t, Config{}, source, &recordingOutput{})

	_, err := svc.Build(context.Background(), Options{})
	var parseErr *interfaces.ParseError
	if !errors.As(err, &parseErr) || parseErr.Path != "post.md" {
		t.Fatalf("expected ParseError for duplicate slug, got %v", err)
	}
}

func TestBuildDryRunSkipsOutput(t *testing.T) {
	output := &recordingOutput{}
	svc := newService(t, Config{}, &fakeSource{docs: docsNamed("a.mdx")}, output)

	report, err := svc.Build(context.Background(), Options{DryRun: true})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !report.DryRun || output.calls != 0 {
		t.Fatalf("expected dry run without writes, report=%+v calls=%d", report, output.calls)
	}
}

func TestBuildEmptyContentStore(t *testing.T) {
	svc := newService(t, Config{}, &fakeSource{}, &recordingOutput{})
	if _, err := svc.Build(context.Background(), Options{}); !errors.Is(err, ErrNoDocuments) {
		t.Fatalf("expected ErrNoDocuments, got %v", err)
	}

	allowed := newService(t, Config{AllowEmpty: true}, &fakeSource{}, &recordingOutput{})
	if _, err := allowed.Build(context.Background(), Options{}); err != nil {
		t.Fatalf("expected empty build to succeed, got %v", err)
	}
}

func TestBuildHonoursCancellation(t *testing.T) {
	source := &fakeSource{docs: docsNamed("a.mdx", "b.mdx"), renderDur: time.Second}
	svc := newService(t, Config{Workers: 2}, source, &recordingOutput{})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := svc.Build(ctx, Options{}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestEffectiveWorkerCount(t *testing.T) {
	if got := effectiveWorkerCount(4, 2); got != 2 {
		t.Fatalf("expected workers capped by jobs, got %d", got)
	}
	if got := effectiveWorkerCount(0, 0); got != 1 {
		t.Fatalf("expected at least one worker, got %d", got)
	}
	if got := effectiveWorkerCount(3, 10); got != 3 {
		t.Fatalf("expected configured workers, got %d", got)
	}
}

func TestBuildEndToEnd(t *testing.T) {
	contentDir := t.TempDir()
	outputDir := filepath.Join(t.TempDir(), "generated")
	err := testsupport.WriteFiles(contentDir, map[string]string{
		"first.mdx":  "---\ntitle: First\ndate: 2021-01-01\ntags: [go]\nimage: imgix:photos/sunset?w=800\n---\n\n# First\n\nHello there.\n",
		"second.mdx": "---\ntitle: Second\ndate: 2021-02-01\nimage: imgix:photos/sunset?w=800\n---\n\nSecond post :tada:\n",
		"third.mdx":  "---\ntitle: Third\ndate: 2021-03-01\n---\n\nNo image here.\n",
	})
	if err != nil {
		t.Fatalf("seed content: %v", err)
	}

	docs, err := markdown.NewService(markdown.Config{
		BasePath: contentDir,
		Pipeline: markdown.PipelineOptions{Emoji: true},
	})
	if err != nil {
		t.Fatalf("markdown.NewService: %v", err)
	}
	store := cache.NewInstrumented(cache.NewMemoryStore(), nil)
	imageResolver := images.NewResolver(store, images.WithSigner(images.NewImgixSigner("example.imgix.net", "", true)))

	svc, err := NewService(Config{Workers: 1}, Dependencies{
		Documents: docs,
		Computed:  computed.NewResolver(imageResolver, nil),
		Output:    generator.NewService(generator.Config{OutputDir: outputDir, CleanBuild: true}, nil),
		Stats:     store,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	report, err := svc.Build(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if report.Documents != 3 {
		t.Fatalf("expected 3 documents, got %d", report.Documents)
	}
	if report.Cache.Misses != 1 || report.Cache.Hits != 1 || report.Cache.Sets != 1 {
		t.Fatalf("expected shared image to hit the cache once, got %+v", report.Cache)
	}

	var doc generator.Document
	if err := testsupport.LoadGolden(filepath.Join(outputDir, "posts", "first.json"), &doc); err != nil {
		t.Fatalf("read generated document: %v", err)
	}
	if doc.Image == nil || doc.Image.CDN == nil {
		t.Fatalf("expected CDN image, got %+v", doc.Image)
	}
	if _, err := os.Stat(filepath.Join(outputDir, "manifest.json")); err != nil {
		t.Fatalf("expected manifest: %v", err)
	}
}

func TestBuildUsesSuppliedBuildID(t *testing.T) {
	svc := newService(t, Config{}, &fakeSource{docs: docsNamed("a.mdx")}, &recordingOutput{})
	report, err := svc.Build(context.Background(), Options{BuildID: "ci-42"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if report.BuildID != "ci-42" {
		t.Fatalf("expected supplied build id, got %q", report.BuildID)
	}
}
