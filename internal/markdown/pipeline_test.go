package markdown

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-contentlayer/pkg/interfaces"
)

func newTestPipeline(t *testing.T, opts PipelineOptions) *Pipeline {
	t.Helper()
	pipeline, err := NewPipeline(opts)
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}
	return pipeline
}

func defaultAnchors() AnchorOptions {
	return AnchorOptions{
		Enabled:  true,
		Position: AnchorAfter,
		Group:    true,
		GroupCSS: "heading-container",
	}
}

func TestPipelineHeadingIDsAreDeduplicated(t *testing.T) {
	pipeline := newTestPipeline(t, PipelineOptions{})

	html, err := pipeline.RenderString("# Intro\n\n## Intro\n\n### Intro\n")
	if err != nil {
		t.Fatalf("RenderString: %v", err)
	}
	for _, want := range []string{`id="intro"`, `id="intro-1"`, `id="intro-2"`} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %s in %q", want, html)
		}
	}
}

func TestPipelineHeadingIDsResetPerDocument(t *testing.T) {
	pipeline := newTestPipeline(t, PipelineOptions{})

	for i := 0; i < 2; i++ {
		html, err := pipeline.RenderString("# Intro\n")
		if err != nil {
			t.Fatalf("RenderString: %v", err)
		}
		if !strings.Contains(html, `id="intro"`) {
			t.Fatalf("render %d: expected id=intro, got %q", i, html)
		}
	}
}

func TestPipelineAnchorAfterWithGroup(t *testing.T) {
	pipeline := newTestPipeline(t, PipelineOptions{Anchor: defaultAnchors()})

	html, err := pipeline.RenderString("## Setup\n")
	if err != nil {
		t.Fatalf("RenderString: %v", err)
	}

	want := `<div class="heading-container"><h2 id="setup">Setup</h2><a href="#setup" aria-hidden="true" tabindex="-1" class="anchor after">`
	if !strings.HasPrefix(html, want) {
		t.Fatalf("unexpected heading markup:\n%s", html)
	}
	if !strings.Contains(html, `<span class="visually-hidden">Read the &quot;Setup&quot; section</span>`) {
		t.Fatalf("expected visually hidden label, got %q", html)
	}
	if !strings.Contains(html, `<span class="icon icon-link"><svg`) {
		t.Fatalf("expected link icon, got %q", html)
	}
	if !strings.HasSuffix(strings.TrimSpace(html), "</a></div>") {
		t.Fatalf("expected group to close after anchor, got %q", html)
	}
}

func TestPipelineAnchorPositions(t *testing.T) {
	cases := []struct {
		position string
		prefix   string
	}{
		{position: AnchorBefore, prefix: `<a href="#title"`},
		{position: AnchorPrepend, prefix: `<h1 id="title"><a href="#title"`},
		{position: AnchorAppend, prefix: `<h1 id="title">Title<a href="#title"`},
		{position: AnchorAfter, prefix: `<h1 id="title">Title</h1><a href="#title"`},
	}

	for _, tc := range cases {
		t.Run(tc.position, func(t *testing.T) {
			pipeline := newTestPipeline(t, PipelineOptions{Anchor: AnchorOptions{Enabled: true, Position: tc.position}})
			html, err := pipeline.RenderString("# Title\n")
			if err != nil {
				t.Fatalf("RenderString: %v", err)
			}
			if !strings.HasPrefix(html, tc.prefix) {
				t.Fatalf("expected prefix %q, got %q", tc.prefix, html)
			}
		})
	}
}

func TestPipelineAnchorsDisabled(t *testing.T) {
	pipeline := newTestPipeline(t, PipelineOptions{})

	html, err := pipeline.RenderString("# Title\n")
	if err != nil {
		t.Fatalf("RenderString: %v", err)
	}
	if strings.Contains(html, "<a ") || strings.Contains(html, "heading-container") {
		t.Fatalf("expected plain heading, got %q", html)
	}
}

func TestPipelineCodeBlockPresentation(t *testing.T) {
	pipeline := newTestPipeline(t, PipelineOptions{Theme: "monokai"})

	html, err := pipeline.RenderString("```go\npackage main\n```\n\n```\nplain text\n```\n")
	if err != nil {
		t.Fatalf("RenderString: %v", err)
	}
	if !strings.Contains(html, `<div class="code-block" data-language="go" data-theme="monokai">`) {
		t.Fatalf("expected go code wrapper, got %q", html)
	}
	if !strings.Contains(html, `class="chroma"`) {
		t.Fatalf("expected chroma classes, got %q", html)
	}
	if !strings.Contains(html, `<div class="code-block" data-theme="monokai"><pre><code>plain text`) {
		t.Fatalf("expected unhighlighted block inside wrapper, got %q", html)
	}
}

func TestPipelineAccessibleEmoji(t *testing.T) {
	pipeline := newTestPipeline(t, PipelineOptions{Emoji: true})

	html, err := pipeline.RenderString("Welcome :wave:\n")
	if err != nil {
		t.Fatalf("RenderString: %v", err)
	}
	if !strings.Contains(html, `<span role="img" aria-label="`) {
		t.Fatalf("expected accessible emoji span, got %q", html)
	}
	if strings.Contains(html, ":wave:") {
		t.Fatalf("expected shortcode to be replaced, got %q", html)
	}
}

func TestPipelineAccessibleUnicodeEmoji(t *testing.T) {
	pipeline := newTestPipeline(t, PipelineOptions{Emoji: true})

	html, err := pipeline.RenderString("I love \U0001F355 and :pizza:\n")
	if err != nil {
		t.Fatalf("RenderString: %v", err)
	}
	want := "<p>I love <span role=\"img\" aria-label=\"pizza\">\U0001F355</span> and <span role=\"img\" aria-label=\"pizza\">\U0001F355</span></p>"
	if !strings.Contains(html, want) {
		t.Fatalf("expected both emoji to be labelled, got %q", html)
	}
}

func TestPipelineUnicodeEmojiSequences(t *testing.T) {
	pipeline := newTestPipeline(t, PipelineOptions{Emoji: true})

	html, err := pipeline.RenderString("Made with \u2764\uFE0F\nand `\U0001F355` in code\n")
	if err != nil {
		t.Fatalf("RenderString: %v", err)
	}
	if !strings.Contains(html, "<span role=\"img\" aria-label=\"red heart\">\u2764\uFE0F</span>\nand ") {
		t.Fatalf("expected labelled heart followed by the line break, got %q", html)
	}
	if !strings.Contains(html, "<code>\U0001F355</code>") {
		t.Fatalf("expected code span emoji untouched, got %q", html)
	}
}

func TestPipelineUnicodeEmojiInHeadingLabel(t *testing.T) {
	pipeline := newTestPipeline(t, PipelineOptions{Emoji: true, Anchor: defaultAnchors()})

	html, err := pipeline.RenderString("## Pizza \U0001F355\n")
	if err != nil {
		t.Fatalf("RenderString: %v", err)
	}
	if !strings.Contains(html, "<span role=\"img\" aria-label=\"pizza\">\U0001F355</span>") {
		t.Fatalf("expected heading emoji to be labelled, got %q", html)
	}
}

func TestGithubEmojiIndex(t *testing.T) {
	idx := githubEmojiIndex()
	if len(idx.byUnicode) == 0 {
		t.Fatalf("expected emoji index to be populated")
	}

	value, size := idx.match("\U0001F355!")
	if value == nil || value.Name != "pizza" || size != len("\U0001F355") {
		t.Fatalf("unexpected match %+v size %d", value, size)
	}
	value, size = idx.match("\u2764\uFE0F")
	if value == nil || value.Name != "red heart" || size != len("\u2764\uFE0F") {
		t.Fatalf("unexpected heart match %+v size %d", value, size)
	}
	if value, _ := idx.match("#1"); value != nil {
		t.Fatalf("expected no match for plain text, got %+v", value)
	}
}

func TestPipelineGFM(t *testing.T) {
	pipeline := newTestPipeline(t, PipelineOptions{})

	html, err := pipeline.RenderString("| a | b |\n|---|---|\n| 1 | 2 |\n\n~~gone~~\n")
	if err != nil {
		t.Fatalf("RenderString: %v", err)
	}
	if !strings.Contains(html, "<table>") || !strings.Contains(html, "<del>gone</del>") {
		t.Fatalf("expected GFM table and strikethrough, got %q", html)
	}
}

func TestPipelineRenderDocument(t *testing.T) {
	pipeline := newTestPipeline(t, PipelineOptions{Anchor: defaultAnchors(), Emoji: true})
	doc := &interfaces.Document{
		FilePath: "post.mdx",
		Body:     []byte("# Title\n\nSome *emphasis* here.\n\n```go\nx := 1\n```\n\n<Aside>\nraw\n</Aside>\n"),
	}

	body, err := pipeline.Render(context.Background(), doc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if body.Raw != string(doc.Body) {
		t.Fatalf("expected raw body to be preserved")
	}
	if !strings.Contains(body.HTML, "<em>emphasis</em>") {
		t.Fatalf("expected html output, got %q", body.HTML)
	}
	if body.Plain != "Title\n\nSome emphasis here.\n\nx := 1" {
		t.Fatalf("unexpected plain text %q", body.Plain)
	}
}

func TestPipelineRejectsInvalidOptions(t *testing.T) {
	cases := []PipelineOptions{
		{Theme: "not-a-theme"},
		{Extensions: []string{"mermaid"}},
		{Anchor: AnchorOptions{Enabled: true, Position: "sideways"}},
	}
	for _, opts := range cases {
		if _, err := NewPipeline(opts); err == nil {
			t.Fatalf("expected error for %+v", opts)
		}
	}
}

func TestPipelineRenderCancelled(t *testing.T) {
	pipeline := newTestPipeline(t, PipelineOptions{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := pipeline.Render(ctx, &interfaces.Document{Body: []byte("x")})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestPipelineNilDocument(t *testing.T) {
	pipeline := newTestPipeline(t, PipelineOptions{})

	_, err := pipeline.Render(context.Background(), nil)
	var transformErr *interfaces.TransformError
	if !errors.As(err, &transformErr) {
		t.Fatalf("expected TransformError, got %v", err)
	}
}
