package markdown

import (
	"reflect"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	emojiast "github.com/yuin/goldmark-emoji/ast"
	"github.com/yuin/goldmark-emoji/definition"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

const variationSelector = '\uFE0F'

// accessibleEmoji renders emoji wrapped in a labelled span so screen readers
// announce the emoji name. Both :shortcode: syntax and literal unicode emoji
// in text are converted.
func accessibleEmoji() goldmark.Extender {
	return &accessibleEmojiExtender{}
}

type accessibleEmojiExtender struct{}

func (e *accessibleEmojiExtender) Extend(m goldmark.Markdown) {
	emoji.New(
		emoji.WithRenderingMethod(emoji.Func),
		emoji.WithRendererFunc(renderAccessibleEmoji),
	).Extend(m)
	m.Parser().AddOptions(parser.WithASTTransformers(
		util.Prioritized(&unicodeEmojiTransformer{index: githubEmojiIndex()}, 900),
	))
}

func renderAccessibleEmoji(w util.BufWriter, source []byte, n *emojiast.Emoji, config *emoji.RendererConfig) {
	if n.Value == nil {
		_, _ = w.WriteString(":")
		_, _ = w.Write(n.ShortName)
		_, _ = w.WriteString(":")
		return
	}
	_, _ = w.WriteString(`<span role="img" aria-label="`)
	_, _ = w.Write(util.EscapeHTML([]byte(n.Value.Name)))
	_, _ = w.WriteString(`">`)
	_, _ = w.WriteString(string(n.Value.Unicode))
	_, _ = w.WriteString(`</span>`)
}

// emojiIndex maps unicode sequences to emoji definitions.
type emojiIndex struct {
	byUnicode map[string]*definition.Emoji
	first     map[rune]struct{}
	maxRunes  int
}

var (
	githubIndexOnce sync.Once
	githubIndex     *emojiIndex
)

func githubEmojiIndex() *emojiIndex {
	githubIndexOnce.Do(func() {
		githubIndex = newEmojiIndex(definition.Github())
	})
	return githubIndex
}

func newEmojiIndex(table definition.Emojis) *emojiIndex {
	idx := &emojiIndex{
		byUnicode: map[string]*definition.Emoji{},
		first:     map[rune]struct{}{},
	}
	for _, short := range tableShortNames(table) {
		value, ok := table.Get(short)
		if !ok || !value.IsUnicode() {
			continue
		}
		idx.add(value.Unicode, value)
		stripped := make([]rune, 0, len(value.Unicode))
		for _, r := range value.Unicode {
			if r != variationSelector {
				stripped = append(stripped, r)
			}
		}
		idx.add(stripped, value)
	}
	return idx
}

func (idx *emojiIndex) add(seq []rune, value *definition.Emoji) {
	if len(seq) == 0 {
		return
	}
	key := string(seq)
	if _, exists := idx.byUnicode[key]; exists {
		return
	}
	idx.byUnicode[key] = value
	idx.first[seq[0]] = struct{}{}
	if len(seq) > idx.maxRunes {
		idx.maxRunes = len(seq)
	}
}

// match returns the emoji at the start of s and the number of bytes it
// spans, preferring the longest sequence. A trailing variation selector is
// consumed with the emoji.
func (idx *emojiIndex) match(s string) (*definition.Emoji, int) {
	r, _ := utf8.DecodeRuneInString(s)
	if _, ok := idx.first[r]; !ok {
		return nil, 0
	}

	ends := make([]int, 0, idx.maxRunes)
	for pos := 0; pos < len(s) && len(ends) < idx.maxRunes; {
		_, width := utf8.DecodeRuneInString(s[pos:])
		pos += width
		ends = append(ends, pos)
	}

	for n := len(ends) - 1; n >= 0; n-- {
		end := ends[n]
		value, ok := idx.byUnicode[s[:end]]
		if !ok {
			continue
		}
		if next, size := utf8.DecodeRuneInString(s[end:]); next == variationSelector {
			end += size
		}
		return value, end
	}
	return nil, 0
}

// tableShortNames lists the primary short name of every emoji in table.
// definition.Emojis only supports lookup by short name, so the names are read
// from the backing list.
func tableShortNames(table definition.Emojis) []string {
	v := reflect.ValueOf(table)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}
	list := v.FieldByName("list")
	if !list.IsValid() || list.Kind() != reflect.Slice {
		return nil
	}

	names := make([]string, 0, list.Len())
	for i := 0; i < list.Len(); i++ {
		shortNames := list.Index(i).FieldByName("ShortNames")
		if !shortNames.IsValid() || shortNames.Kind() != reflect.Slice || shortNames.Len() == 0 {
			continue
		}
		names = append(names, shortNames.Index(0).String())
	}
	return names
}

// unicodeEmojiTransformer replaces literal emoji inside text nodes with
// emoji nodes, so they render through the same accessible markup as
// shortcodes. Code spans are left untouched.
type unicodeEmojiTransformer struct {
	index *emojiIndex
}

func (t *unicodeEmojiTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	if t.index == nil || len(t.index.byUnicode) == 0 {
		return
	}
	source := reader.Source()

	var texts []*ast.Text
	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := node.(type) {
		case *ast.CodeSpan, *ast.CodeBlock, *ast.FencedCodeBlock, *ast.HTMLBlock, *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			if !n.IsRaw() && n.Segment.Padding == 0 {
				texts = append(texts, n)
			}
		}
		return ast.WalkContinue, nil
	})

	for _, node := range texts {
		t.split(node, source)
	}
}

func (t *unicodeEmojiTransformer) split(node *ast.Text, source []byte) {
	segment := node.Segment
	value := string(segment.Value(source))
	if !strings.ContainsFunc(value, func(r rune) bool {
		_, ok := t.index.first[r]
		return ok
	}) {
		return
	}

	parent := node.Parent()
	if parent == nil {
		return
	}

	replaced := false
	last := 0
	for i := 0; i < len(value); {
		found, size := t.index.match(value[i:])
		if found == nil {
			_, width := utf8.DecodeRuneInString(value[i:])
			i += width
			continue
		}
		if i > last {
			parent.InsertBefore(parent, node, ast.NewTextSegment(text.NewSegment(segment.Start+last, segment.Start+i)))
		}
		matched := *found
		matched.Unicode = []rune(value[i : i+size])
		short := found.Name
		if len(found.ShortNames) > 0 {
			short = found.ShortNames[0]
		}
		parent.InsertBefore(parent, node, emojiast.NewEmoji([]byte(short), &matched))
		i += size
		last = i
		replaced = true
	}
	if !replaced {
		return
	}

	if last < len(value) || node.SoftLineBreak() || node.HardLineBreak() {
		rest := ast.NewTextSegment(text.NewSegment(segment.Start+last, segment.Stop))
		rest.SetSoftLineBreak(node.SoftLineBreak())
		rest.SetHardLineBreak(node.HardLineBreak())
		parent.InsertBefore(parent, node, rest)
	}
	parent.RemoveChild(parent, node)
}
