package contentlayer_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	contentlayer "github.com/goliatone/go-contentlayer"
	"github.com/goliatone/go-contentlayer/internal/cache"
	"github.com/goliatone/go-contentlayer/internal/di"
	"github.com/goliatone/go-contentlayer/internal/images"
	"github.com/goliatone/go-contentlayer/pkg/testsupport"
)

func newModule(t *testing.T, files map[string]string) *contentlayer.Module {
	t.Helper()
	root := t.TempDir()
	cfg := contentlayer.DefaultConfig()
	cfg.Content.Dir = filepath.Join(root, "posts")
	cfg.Generator.OutputDir = filepath.Join(root, "out")
	cfg.Logging.Provider = "noop"
	if err := testsupport.WriteFiles(cfg.Content.Dir, files); err != nil {
		t.Fatalf("seed content: %v", err)
	}

	module, err := contentlayer.New(context.Background(), cfg,
		di.WithCacheStore(cache.NewMemoryStore()),
		di.WithGetenv(func(string) string { return "secret" }),
		di.WithCDNSigner(images.NewImgixSigner("example.imgix.net", "", true)),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = module.Close() })
	return module
}

func TestDefaultConfigValidates(t *testing.T) {
	if err := contentlayer.DefaultConfig().Validate(); err != nil {
		t.Fatalf("expected default config to be valid, got %v", err)
	}
}

func TestModuleBuildAndPreview(t *testing.T) {
	module := newModule(t, map[string]string{
		"hello.mdx": "---\ntitle: Hello\ndate: 2022-01-02\nimage: imgix:photos/a.jpg\n---\n\n## Intro\n\nWelcome :wave:\n",
	})

	doc, body, err := module.Preview(context.Background(), "hello.mdx")
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if doc.Frontmatter.Title != "Hello" {
		t.Fatalf("unexpected title %q", doc.Frontmatter.Title)
	}
	if !strings.Contains(body.HTML, `id="intro"`) || !strings.Contains(body.HTML, `role="img"`) {
		t.Fatalf("expected heading id and accessible emoji, got %s", body.HTML)
	}

	report, err := module.Build(context.Background(), contentlayer.BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if report.Documents != 1 || report.Slugs[0] != "hello" {
		t.Fatalf("unexpected report %+v", report)
	}

	keys, err := module.CacheKeys(context.Background())
	if err != nil || len(keys) != 1 || keys[0] != "imgix:photos/a.jpg" {
		t.Fatalf("expected cached reference, got %v (%v)", keys, err)
	}
}

func TestModuleBuildEmptyStore(t *testing.T) {
	module := newModule(t, map[string]string{"notes.txt": "ignored"})
	if _, err := module.Build(context.Background(), contentlayer.BuildOptions{}); !errors.Is(err, contentlayer.ErrNoDocuments) {
		t.Fatalf("expected ErrNoDocuments, got %v", err)
	}
}
