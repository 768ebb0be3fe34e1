package markdown

import (
	"strings"

	emojiast "github.com/yuin/goldmark-emoji/ast"
	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
)

// PlainText flattens a parsed document into text. Blocks are separated by a
// blank line; raw HTML is dropped.
func PlainText(doc ast.Node, source []byte) string {
	var blocks []string
	collectBlocks(doc, source, &blocks)
	return strings.Join(blocks, "\n\n")
}

func collectBlocks(node ast.Node, source []byte, blocks *[]string) {
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch n := child.(type) {
		case *ast.HTMLBlock, *ast.ThematicBreak:
			continue
		case *ast.FencedCodeBlock:
			appendBlock(blocks, codeLines(n, source))
		case *ast.CodeBlock:
			appendBlock(blocks, codeLines(n, source))
		case *ast.Paragraph, *ast.Heading, *ast.TextBlock, *extast.TableCell, *extast.DefinitionTerm:
			var sb strings.Builder
			writeInlineText(&sb, n, source)
			appendBlock(blocks, sb.String())
		default:
			collectBlocks(child, source, blocks)
		}
	}
}

func appendBlock(blocks *[]string, text string) {
	text = strings.TrimSpace(text)
	if text != "" {
		*blocks = append(*blocks, text)
	}
}

func codeLines(n ast.Node, source []byte) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		sb.Write(segment.Value(source))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func writeInlineText(sb *strings.Builder, node ast.Node, source []byte) {
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch n := child.(type) {
		case *ast.Text:
			sb.Write(n.Segment.Value(source))
			if n.SoftLineBreak() || n.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(n.Value)
		case *ast.AutoLink:
			sb.Write(n.Label(source))
		case *ast.RawHTML:
			continue
		case *emojiast.Emoji:
			if n.Value != nil {
				sb.WriteString(string(n.Value.Unicode))
			}
		case *extast.TaskCheckBox:
			continue
		default:
			writeInlineText(sb, child, source)
		}
	}
}
