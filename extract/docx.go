package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fumiama/go-docx"
)

// DOCX extracts text runs from Word documents. Word carries structure as
// named paragraph styles rather than font metrics, so heading styles are
// mapped onto the synthetic size scale.
type DOCX struct{}

func (e *DOCX) Formats() []string { return []string{"docx"} }

func (e *DOCX) Extract(ctx context.Context, path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening docx: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat docx: %w", err)
	}

	parsed, err := docx.Parse(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("parsing docx: %w", err)
	}

	doc := &Document{Path: path, Name: filepath.Base(path), Pages: 1}

	var b runBuilder
	for _, item := range parsed.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}

		text := paragraphText(para)
		if text == "" {
			continue
		}

		switch style := paragraphStyle(para); {
		case strings.EqualFold(style, "Title"):
			b.add(1, SizeTitle, true, true, text)
			if doc.Title == "" {
				doc.Title = text
			}
		case headingStyleLevel(style) > 0:
			b.add(1, HeadingSize(headingStyleLevel(style)), true, true, text)
		default:
			b.addBlock(1, SizeBody, false, text)
		}
	}
	doc.Runs = b.runs

	return doc, nil
}

func paragraphStyle(para *docx.Paragraph) string {
	if para.Properties == nil || para.Properties.Style == nil {
		return ""
	}
	return para.Properties.Style.Val
}

// headingStyleLevel maps Word heading style names to their level, 0 when the
// style is not a heading. Both the "Heading1" and localized "heading 1"
// spellings occur in the wild.
func headingStyleLevel(style string) int {
	s := strings.ToLower(strings.ReplaceAll(style, " ", ""))
	if !strings.HasPrefix(s, "heading") {
		return 0
	}
	switch s {
	case "heading1":
		return 1
	case "heading2":
		return 2
	case "heading3":
		return 3
	case "heading4":
		return 4
	case "heading5":
		return 5
	case "heading6":
		return 6
	}
	return 0
}

func paragraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
