package markdown

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/goliatone/go-contentlayer/pkg/interfaces"
)

// DefaultPattern matches the blog's MDX sources.
const DefaultPattern = "*.mdx"

// Loader reads documents from a flat content directory.
type Loader struct {
	fs      fs.FS
	pattern string
}

// NewLoader constructs a Loader over filesystem. Only files directly inside
// the root that match pattern are considered.
func NewLoader(filesystem fs.FS, pattern string) *Loader {
	if strings.TrimSpace(pattern) == "" {
		pattern = DefaultPattern
	}
	return &Loader{fs: filesystem, pattern: pattern}
}

// LoadFile reads and parses a single document.
func (l *Loader) LoadFile(ctx context.Context, name string) (*interfaces.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rel := path.Clean(strings.TrimPrefix(name, "./"))
	data, err := fs.ReadFile(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("markdown loader read %s: %w", rel, err)
	}
	info, err := fs.Stat(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("markdown loader stat %s: %w", rel, err)
	}

	doc, err := BuildDocument(rel, data, info.ModTime())
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(data)
	doc.Checksum = sum[:]
	return doc, nil
}

// LoadAll reads every matching document, ordered by file name. The first
// parse failure aborts the load.
func (l *Loader) LoadAll(ctx context.Context) ([]*interfaces.Document, error) {
	names, err := l.List(ctx)
	if err != nil {
		return nil, err
	}

	docs := make([]*interfaces.Document, 0, len(names))
	for _, name := range names {
		doc, err := l.LoadFile(ctx, name)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// List returns the matching file names without reading them.
func (l *Loader) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := fs.ReadDir(l.fs, ".")
	if err != nil {
		return nil, fmt.Errorf("markdown loader list: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		match, err := path.Match(l.pattern, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("markdown loader pattern %q: %w", l.pattern, err)
		}
		if match {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func baseName(p string) string {
	return path.Base(strings.ReplaceAll(p, "\\", "/"))
}
