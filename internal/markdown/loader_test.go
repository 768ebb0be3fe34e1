package markdown

import (
	"context"
	"crypto/sha256"
	"errors"
	"testing"
	"testing/fstest"
	"time"

	"github.com/goliatone/go-contentlayer/pkg/interfaces"
)

func TestLoaderLoadAllFlatDirectory(t *testing.T) {
	modified := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	source := []byte("---\ntitle: B\ndate: 2021-01-01\n---\nbody\n")
	filesystem := fstest.MapFS{
		"b.mdx":          {Data: source, ModTime: modified},
		"a.mdx":          {Data: []byte("---\ntitle: A\ndate: 2021-01-02\n---\nbody\n"), ModTime: modified},
		"readme.md":      {Data: []byte("not a post")},
		"nested/c.mdx":   {Data: []byte("---\ntitle: C\ndate: 2021-01-03\n---\n")},
		"assets/img.png": {Data: []byte{0x89}},
	}

	docs, err := NewLoader(filesystem, "").LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if docs[0].SourceFileName != "a.mdx" || docs[1].SourceFileName != "b.mdx" {
		t.Fatalf("expected documents sorted by name, got %s, %s", docs[0].SourceFileName, docs[1].SourceFileName)
	}

	sum := sha256.Sum256(source)
	if string(docs[1].Checksum) != string(sum[:]) {
		t.Fatalf("checksum mismatch for b.mdx")
	}
	if !docs[1].LastModified.Equal(modified) {
		t.Fatalf("expected modification time, got %v", docs[1].LastModified)
	}
}

func TestLoaderAbortsOnFirstParseError(t *testing.T) {
	filesystem := fstest.MapFS{
		"good.mdx": {Data: []byte("---\ntitle: Good\ndate: 2021-01-01\n---\n")},
		"bad.mdx":  {Data: []byte("---\ndate: 2021-01-01\n---\n")},
	}

	_, err := NewLoader(filesystem, "*.mdx").LoadAll(context.Background())
	var parseErr *interfaces.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if parseErr.Path != "bad.mdx" {
		t.Fatalf("expected bad.mdx in error, got %q", parseErr.Path)
	}
}

func TestLoaderCustomPattern(t *testing.T) {
	filesystem := fstest.MapFS{
		"post.md":  {Data: []byte("---\ntitle: P\ndate: 2021-01-01\n---\n")},
		"post.mdx": {Data: []byte("---\ntitle: Q\ndate: 2021-01-01\n---\n")},
	}

	names, err := NewLoader(filesystem, "*.md").List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(names) != 1 || names[0] != "post.md" {
		t.Fatalf("unexpected names %v", names)
	}
}

func TestLoaderHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader(fstest.MapFS{}, "").LoadAll(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
