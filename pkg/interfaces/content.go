package interfaces

import (
	"context"
	"time"
)

// Document is a source file read from the content store. It is immutable once
// loaded; computed values live in ComputedFields.
type Document struct {
	// SourceFileName is the base name of the file (e.g. "hello-world.mdx").
	SourceFileName string
	// FilePath is the slash separated path relative to the content root.
	FilePath    string
	Frontmatter Frontmatter
	// Body holds the raw Markdown without the frontmatter block.
	Body         []byte
	LastModified time.Time
	// Checksum stores the SHA-256 digest of the full source file.
	Checksum []byte
}

// Frontmatter models the Post document type fields.
type Frontmatter struct {
	Title   string         `json:"title"`
	Date    time.Time      `json:"date"`
	Tags    []string       `json:"tags,omitempty"`
	Image   string         `json:"image,omitempty"`
	Excerpt string         `json:"excerpt,omitempty"`
	Custom  map[string]any `json:"custom,omitempty"`
}

// ReadingTime is the derived reading estimate for a body of text.
type ReadingTime struct {
	Text    string  `json:"text"`
	Minutes float64 `json:"minutes"`
	Words   int     `json:"words"`
}

// ComputedFields is the read-only overlay derived from a Document.
type ComputedFields struct {
	Slug        string           `json:"slug"`
	ReadingTime ReadingTime      `json:"readingTime"`
	Image       *ImageResolution `json:"image"`
	// Warnings lists non-fatal resolution gaps; they are reported, not emitted.
	Warnings []ResolutionWarning `json:"-"`
}

// RenderedBody captures the pipeline output for a document body.
type RenderedBody struct {
	Raw   string `json:"raw"`
	HTML  string `json:"html"`
	Plain string `json:"plain"`
}

// ContentPipeline converts a Markdown body into renderable HTML plus a plain
// text extraction.
type ContentPipeline interface {
	Render(ctx context.Context, doc *Document) (RenderedBody, error)
}

// ComputedFieldResolver derives the computed overlay for a document.
type ComputedFieldResolver interface {
	Resolve(ctx context.Context, doc *Document) (ComputedFields, error)
}
