package computed

import (
	"context"
	"fmt"

	"github.com/goliatone/go-contentlayer/internal/images"
	"github.com/goliatone/go-contentlayer/internal/logging"
	"github.com/goliatone/go-contentlayer/pkg/interfaces"
)

// ImageResolver resolves a raw frontmatter image reference.
type ImageResolver interface {
	Resolve(ctx context.Context, raw string) (images.Result, error)
}

// Resolver derives the computed overlay for documents.
type Resolver struct {
	images ImageResolver
	logger interfaces.Logger
}

var _ interfaces.ComputedFieldResolver = (*Resolver)(nil)

// NewResolver constructs a Resolver. imageResolver may be nil when no
// document references an image.
func NewResolver(imageResolver ImageResolver, logger interfaces.Logger) *Resolver {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Resolver{images: imageResolver, logger: logger}
}

// Resolve computes slug, reading time and image for doc. Image lookup
// failures are returned; partial photo data only produces warnings.
func (r *Resolver) Resolve(ctx context.Context, doc *interfaces.Document) (interfaces.ComputedFields, error) {
	if doc == nil {
		return interfaces.ComputedFields{}, fmt.Errorf("computed: document is nil")
	}

	fields := interfaces.ComputedFields{
		Slug:        Slug(doc.SourceFileName),
		ReadingTime: ReadingTime(string(doc.Body)),
	}
	logger := logging.WithDocumentContext(r.logger, fields.Slug, doc.FilePath)
	if !IsURLSafe(fields.Slug) {
		logger.Warn("slug is not url safe", "slug", fields.Slug)
	}

	reference := doc.Frontmatter.Image
	if images.ParseReference(reference) == nil {
		return fields, nil
	}
	if r.images == nil {
		return interfaces.ComputedFields{}, fmt.Errorf("computed %s: %w", doc.FilePath, images.ErrPhotoClientMissing)
	}

	result, err := r.images.Resolve(ctx, reference)
	if err != nil {
		return interfaces.ComputedFields{}, fmt.Errorf("computed %s: image %q: %w", doc.FilePath, reference, err)
	}
	fields.Image = result.Resolution

	if len(result.Missing) > 0 {
		warning := interfaces.ResolutionWarning{
			Slug:      fields.Slug,
			Reference: reference,
			Missing:   result.Missing,
		}
		fields.Warnings = append(fields.Warnings, warning)
		logging.WithImageReference(logger, reference).Warn("image resolved with missing fields", "missing", result.Missing)
	}
	return fields, nil
}
