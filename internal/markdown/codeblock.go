package markdown

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/util"
)

// DefaultTheme is the chroma style used when none is configured.
const DefaultTheme = "github"

func resolveTheme(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return DefaultTheme, nil
	}
	if _, ok := styles.Registry[name]; !ok {
		return "", fmt.Errorf("unknown code theme %q", name)
	}
	return name, nil
}

// codeHighlighting highlights fenced code with chroma CSS classes and wraps
// every block in a presentation container carrying language and theme.
func codeHighlighting(theme string) goldmark.Extender {
	return highlighting.NewHighlighting(
		highlighting.WithStyle(theme),
		highlighting.WithFormatOptions(html.WithClasses(true)),
		highlighting.WithWrapperRenderer(codeBlockWrapper(theme)),
	)
}

func codeBlockWrapper(theme string) highlighting.WrapperRenderer {
	escapedTheme := util.EscapeHTML([]byte(theme))
	return func(w util.BufWriter, ctx highlighting.CodeBlockContext, entering bool) {
		language, hasLanguage := ctx.Language()
		if entering {
			_, _ = w.WriteString(`<div class="code-block"`)
			if hasLanguage && len(language) > 0 {
				_, _ = w.WriteString(` data-language="`)
				_, _ = w.Write(util.EscapeHTML(language))
				_ = w.WriteByte('"')
			}
			_, _ = w.WriteString(` data-theme="`)
			_, _ = w.Write(escapedTheme)
			_, _ = w.WriteString(`">`)
			if !ctx.Highlighted() {
				_, _ = w.WriteString("<pre><code")
				if hasLanguage && len(language) > 0 {
					_, _ = w.WriteString(` class="language-`)
					_, _ = w.Write(util.EscapeHTML(language))
					_ = w.WriteByte('"')
				}
				_ = w.WriteByte('>')
			}
			return
		}
		if !ctx.Highlighted() {
			_, _ = w.WriteString("</code></pre>")
		}
		_, _ = w.WriteString("</div>\n")
	}
}
