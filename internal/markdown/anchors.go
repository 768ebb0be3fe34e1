package markdown

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// Anchor positions relative to the heading element.
const (
	AnchorBefore  = "before"
	AnchorAfter   = "after"
	AnchorPrepend = "prepend"
	AnchorAppend  = "append"
)

const linkIcon = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 16 16" width="16" height="16" aria-hidden="true"><path fill-rule="evenodd" d="M7.775 3.275a.75.75 0 001.06 1.06l1.25-1.25a2 2 0 112.83 2.83l-2.5 2.5a2 2 0 01-2.83 0 .75.75 0 00-1.06 1.06 3.5 3.5 0 004.95 0l2.5-2.5a3.5 3.5 0 00-4.95-4.95l-1.25 1.25zm-4.69 9.64a2 2 0 010-2.83l2.5-2.5a2 2 0 012.83 0 .75.75 0 001.06-1.06 3.5 3.5 0 00-4.95 0l-2.5 2.5a3.5 3.5 0 004.95 4.95l1.25-1.25a.75.75 0 00-1.06-1.06l-1.25 1.25a2 2 0 01-2.83 0z"></path></svg>`

// AnchorOptions configures heading anchor links.
type AnchorOptions struct {
	Enabled   bool
	Position  string
	Group     bool
	GroupTag  string
	GroupCSS  string
	ClassName string
}

func (o AnchorOptions) normalized() (AnchorOptions, error) {
	o.Position = strings.ToLower(strings.TrimSpace(o.Position))
	if o.Position == "" {
		o.Position = AnchorAfter
	}
	switch o.Position {
	case AnchorBefore, AnchorAfter, AnchorPrepend, AnchorAppend:
	default:
		return o, fmt.Errorf("unsupported anchor position %q", o.Position)
	}
	if strings.TrimSpace(o.GroupTag) == "" {
		o.GroupTag = "div"
	}
	if strings.TrimSpace(o.ClassName) == "" {
		o.ClassName = "anchor"
	}
	return o, nil
}

// headingRenderer replaces goldmark's heading renderer so every heading with
// an id gets a self link.
type headingRenderer struct {
	html.Config
	opts AnchorOptions
}

func newHeadingRenderer(opts AnchorOptions, rendererOpts ...html.Option) renderer.NodeRenderer {
	r := &headingRenderer{Config: html.NewConfig(), opts: opts}
	for _, opt := range rendererOpts {
		opt.SetHTMLOption(&r.Config)
	}
	return r
}

func (r *headingRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindHeading, r.renderHeading)
}

func (r *headingRenderer) renderHeading(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Heading)
	id := headingID(n)
	linked := r.opts.Enabled && id != ""
	grouped := linked && r.opts.Group

	if entering {
		if grouped {
			_, _ = w.WriteString("<" + r.opts.GroupTag)
			if r.opts.GroupCSS != "" {
				_, _ = w.WriteString(` class="` + string(util.EscapeHTML([]byte(r.opts.GroupCSS))) + `"`)
			}
			_ = w.WriteByte('>')
		}
		if linked && r.opts.Position == AnchorBefore {
			r.writeAnchor(w, id, headingText(n, source))
		}
		_, _ = w.WriteString("<h")
		_ = w.WriteByte("0123456"[n.Level])
		if n.Attributes() != nil {
			html.RenderAttributes(w, node, html.HeadingAttributeFilter)
		}
		_ = w.WriteByte('>')
		if linked && r.opts.Position == AnchorPrepend {
			r.writeAnchor(w, id, headingText(n, source))
		}
		return ast.WalkContinue, nil
	}

	if linked && r.opts.Position == AnchorAppend {
		r.writeAnchor(w, id, headingText(n, source))
	}
	_, _ = w.WriteString("</h")
	_ = w.WriteByte("0123456"[n.Level])
	_ = w.WriteByte('>')
	if linked && r.opts.Position == AnchorAfter {
		r.writeAnchor(w, id, headingText(n, source))
	}
	if grouped {
		_, _ = w.WriteString("</" + r.opts.GroupTag + ">")
	}
	_ = w.WriteByte('\n')
	return ast.WalkContinue, nil
}

func (r *headingRenderer) writeAnchor(w util.BufWriter, id, label string) {
	_, _ = w.WriteString(`<a href="#`)
	_, _ = w.Write(util.EscapeHTML([]byte(id)))
	_, _ = w.WriteString(`" aria-hidden="true" tabindex="-1" class="`)
	_, _ = w.Write(util.EscapeHTML([]byte(r.opts.ClassName + " " + r.opts.Position)))
	_, _ = w.WriteString(`"><span class="visually-hidden">Read the &quot;`)
	_, _ = w.Write(util.EscapeHTML([]byte(label)))
	_, _ = w.WriteString(`&quot; section</span><span class="icon icon-link">`)
	_, _ = w.WriteString(linkIcon)
	_, _ = w.WriteString(`</span></a>`)
}

func headingID(n *ast.Heading) string {
	value, ok := n.AttributeString("id")
	if !ok {
		return ""
	}
	switch typed := value.(type) {
	case []byte:
		return string(typed)
	case string:
		return typed
	default:
		return ""
	}
}

func headingText(n ast.Node, source []byte) string {
	var sb strings.Builder
	writeInlineText(&sb, n, source)
	return strings.TrimSpace(sb.String())
}
