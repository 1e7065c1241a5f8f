package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Markdown extracts text runs from Markdown files via the goldmark AST.
// ATX heading levels map onto the synthetic size scale; fenced and indented
// code blocks are skipped since code listings make meaningless headings and
// noisy section bodies.
type Markdown struct{}

func (e *Markdown) Formats() []string { return []string{"md", "markdown"} }

func (e *Markdown) Extract(ctx context.Context, path string) (*Document, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading markdown: %w", err)
	}

	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(src))

	doc := &Document{Path: path, Name: filepath.Base(path), Pages: 1}

	var b runBuilder
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			b.add(1, HeadingSize(node.Level), true, true, string(node.Text(src)))
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			continue
		default:
			b.addBlock(1, SizeBody, false, blockText(n, src))
		}
	}
	doc.Runs = b.runs

	return doc, nil
}

// blockText gets the text content of a goldmark AST node. Parsed prose
// blocks carry their text as inline children; the source-line fallback covers
// only childless blocks, so nothing is collected twice.
func blockText(n ast.Node, src []byte) string {
	switch n.(type) {
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		return ""
	}

	if !n.HasChildren() {
		var buf []byte
		if n.Type() == ast.TypeBlock {
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				buf = append(buf, lines.At(i).Value(src)...)
			}
		}
		return string(buf)
	}

	var buf []byte
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf = append(buf, t.Value(src)...)
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf = append(buf, '\n')
			}
			continue
		}
		buf = append(buf, blockText(c, src)...)
		if c.Type() == ast.TypeBlock {
			buf = append(buf, '\n')
		}
	}
	return string(buf)
}
