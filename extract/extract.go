// Package extract turns document files into streams of font-attributed text
// runs. Each supported format has its own Extractor; all of them emit runs in
// reading order so the downstream layout stage can group them into lines
// without format-specific knowledge.
package extract

import (
	"context"
	"strings"
)

// TextRun is a contiguous span of text sharing font attributes.
type TextRun struct {
	Text      string
	Page      int     // 1-based page, slide, or sheet number
	FontSize  float64 // points; synthetic for formats without font metrics
	Bold      bool
	X, Y      float64 // position; Y decreases down the page
	W         float64 // horizontal advance, when the format reports one
	ParaBreak bool    // run opens a new paragraph
}

// Document is the raw extraction product for one input file.
type Document struct {
	Path  string
	Name  string // base file name, used as the document identifier in results
	Title string // metadata title when the format carries one
	Pages int
	Runs  []TextRun
}

// Extractor produces TextRuns from one document format family.
type Extractor interface {
	Extract(ctx context.Context, path string) (*Document, error)
	Formats() []string
}

// Synthetic font sizes for formats that carry structural heading levels
// instead of font metrics. Chosen so the statistics stage sees the same shape
// it would in a PDF: body text clustered at one size, headings strictly above.
const (
	SizeTitle = 24.0
	SizeH1    = 18.0
	SizeH2    = 15.0
	SizeH3    = 13.0
	SizeBody  = 11.0
)

// lineSpacing separates synthetic lines vertically so the layout stage never
// merges two of them.
const lineSpacing = 12.0

// HeadingSize maps a 1-based structural heading level onto a synthetic size.
// Levels beyond three share the H3 size.
func HeadingSize(level int) float64 {
	switch {
	case level <= 1:
		return SizeH1
	case level == 2:
		return SizeH2
	default:
		return SizeH3
	}
}

// runBuilder accumulates reading-order runs for formats without real
// geometry, spacing lines lineSpacing apart.
type runBuilder struct {
	runs []TextRun
	line int
}

// add emits one synthetic line. Empty text is dropped.
func (b *runBuilder) add(page int, size float64, bold, paraBreak bool, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	b.runs = append(b.runs, TextRun{
		Text:      text,
		Page:      page,
		FontSize:  size,
		Bold:      bold,
		Y:         -float64(b.line) * lineSpacing,
		ParaBreak: paraBreak,
	})
	b.line++
}

// addBlock emits a multi-line block, one run per physical line, marking the
// first line as a paragraph start.
func (b *runBuilder) addBlock(page int, size float64, bold bool, text string) {
	first := true
	for _, ln := range strings.Split(text, "\n") {
		if strings.TrimSpace(ln) == "" {
			continue
		}
		b.add(page, size, bold, first, ln)
		first = false
	}
}
