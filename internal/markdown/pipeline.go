package markdown

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/goliatone/go-contentlayer/pkg/interfaces"
)

// Pipeline stage names reported by TransformError.
const (
	StageParse  = "parse"
	StageRender = "render"
)

// PipelineOptions selects the transform stages.
type PipelineOptions struct {
	// Extensions adds goldmark extensions on top of GFM.
	Extensions []string
	// Theme is the chroma style name for code blocks.
	Theme  string
	Anchor AnchorOptions
	Emoji  bool
}

// Pipeline renders Markdown bodies. The stage order is fixed: GFM, code
// presentation, heading ids, heading anchors, emoji, syntax highlighting.
// Heading ids are assigned while parsing, so anchors always see them.
type Pipeline struct {
	engine goldmark.Markdown
	opts   PipelineOptions
}

var _ interfaces.ContentPipeline = (*Pipeline)(nil)

// NewPipeline validates opts and builds the goldmark engine.
func NewPipeline(opts PipelineOptions) (*Pipeline, error) {
	theme, err := resolveTheme(opts.Theme)
	if err != nil {
		return nil, fmt.Errorf("markdown pipeline: %w", err)
	}
	opts.Theme = theme

	anchor, err := opts.Anchor.normalized()
	if err != nil {
		return nil, fmt.Errorf("markdown pipeline: %w", err)
	}
	opts.Anchor = anchor

	extensions, err := collectExtensions(opts.Extensions)
	if err != nil {
		return nil, fmt.Errorf("markdown pipeline: %w", err)
	}
	extensions = append(extensions, codeHighlighting(opts.Theme))
	if opts.Emoji {
		extensions = append(extensions, accessibleEmoji())
	}

	engine := goldmark.New(
		goldmark.WithExtensions(extensions...),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
			renderer.WithNodeRenderers(
				util.Prioritized(newHeadingRenderer(opts.Anchor), 100),
			),
		),
	)

	return &Pipeline{engine: engine, opts: opts}, nil
}

// Options returns the effective options after defaults were applied.
func (p *Pipeline) Options() PipelineOptions {
	return p.opts
}

// Render converts the document body into HTML and plain text.
func (p *Pipeline) Render(ctx context.Context, doc *interfaces.Document) (interfaces.RenderedBody, error) {
	if doc == nil {
		return interfaces.RenderedBody{}, &interfaces.TransformError{Stage: StageParse, Err: fmt.Errorf("document is nil")}
	}
	if err := ctx.Err(); err != nil {
		return interfaces.RenderedBody{}, err
	}

	rendered, plain, err := p.convert(doc.Body)
	if err != nil {
		var transformErr *interfaces.TransformError
		if errors.As(err, &transformErr) {
			transformErr.Path = doc.FilePath
		}
		return interfaces.RenderedBody{}, err
	}

	return interfaces.RenderedBody{
		Raw:   string(doc.Body),
		HTML:  rendered,
		Plain: plain,
	}, nil
}

// RenderString is a convenience for previews and tests.
func (p *Pipeline) RenderString(source string) (string, error) {
	rendered, _, err := p.convert([]byte(source))
	return rendered, err
}

func (p *Pipeline) convert(source []byte) (htmlOut string, plain string, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = &interfaces.TransformError{Stage: StageRender, Err: fmt.Errorf("panic: %v", recovered)}
		}
	}()

	pctx := parser.NewContext(parser.WithIDs(newSlugIDs()))
	root := p.engine.Parser().Parse(text.NewReader(source), parser.WithContext(pctx))
	if root == nil {
		return "", "", &interfaces.TransformError{Stage: StageParse, Err: fmt.Errorf("empty document tree")}
	}

	var buf bytes.Buffer
	if err := p.engine.Renderer().Render(&buf, source, root); err != nil {
		return "", "", &interfaces.TransformError{Stage: StageRender, Err: err}
	}
	return buf.String(), PlainText(root, source), nil
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
	"typographer":   extension.Typographer,
}

// collectExtensions always starts with GFM and rejects unknown names.
func collectExtensions(names []string) ([]goldmark.Extender, error) {
	extenders := []goldmark.Extender{extension.GFM}
	seen := map[string]struct{}{"gfm": {}}

	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		ext, ok := extensionRegistry[key]
		if !ok {
			return nil, fmt.Errorf("unknown markdown extension %q", name)
		}
		extenders = append(extenders, ext)
		seen[key] = struct{}{}
	}
	return extenders, nil
}
