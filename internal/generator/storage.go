package generator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type writeCategory string

const (
	categoryDocument writeCategory = "document"
	categoryIndex    writeCategory = "index"
	categoryTags     writeCategory = "tags"
	categoryManifest writeCategory = "manifest"
)

// writeFileRequest describes a file write routed through the artifact writer.
type writeFileRequest struct {
	Path     string
	Content  []byte
	Category writeCategory
}

// artifactWriter abstracts where generated files land.
type artifactWriter interface {
	EnsureDir(ctx context.Context, path string) error
	WriteFile(ctx context.Context, req writeFileRequest) error
	RemoveAll(ctx context.Context, path string) error
}

// fsWriter writes below a root directory on the local filesystem. Files are
// written to a temporary sibling first and renamed into place.
type fsWriter struct {
	root string
}

func newFSWriter(root string) *fsWriter {
	return &fsWriter{root: filepath.Clean(root)}
}

func (w *fsWriter) EnsureDir(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target, err := w.resolve(path)
	if err != nil {
		return err
	}
	return os.MkdirAll(target, 0o755)
}

func (w *fsWriter) WriteFile(ctx context.Context, req writeFileRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(req.Path) == "" {
		return errors.New("generator: write requires path")
	}
	target, err := w.resolve(req.Path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("generator: write %s %s: %w", req.Category, req.Path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".tmp-*")
	if err != nil {
		return fmt.Errorf("generator: write %s %s: %w", req.Category, req.Path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(req.Content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("generator: write %s %s: %w", req.Category, req.Path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("generator: write %s %s: %w", req.Category, req.Path, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("generator: write %s %s: %w", req.Category, req.Path, err)
	}
	return nil
}

func (w *fsWriter) RemoveAll(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target, err := w.resolve(path)
	if err != nil {
		return err
	}
	return os.RemoveAll(target)
}

// resolve keeps every write inside root.
func (w *fsWriter) resolve(path string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(path))
	if clean == "." {
		return w.root, nil
	}
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("generator: path %q escapes output directory", path)
	}
	return filepath.Join(w.root, clean), nil
}
