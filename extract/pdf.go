package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDF extracts font-attributed text runs from PDF files.
type PDF struct {
	MaxPages int
}

func (e *PDF) Formats() []string { return []string{"pdf"} }

func (e *PDF) Extract(ctx context.Context, path string) (*Document, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pdf: %w", err)
	}
	defer f.Close()

	doc := &Document{
		Path:  path,
		Name:  filepath.Base(path),
		Title: strings.TrimSpace(reader.Trailer().Key("Info").Key("Title").Text()),
	}

	total := reader.NumPage()
	if e.MaxPages > 0 && total > e.MaxPages {
		total = e.MaxPages
	}
	doc.Pages = total

	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, t := range pageTexts(reader, i) {
			if strings.TrimSpace(t.S) == "" {
				continue
			}
			size := t.FontSize
			if size <= 0 {
				size = SizeBody
			}
			doc.Runs = append(doc.Runs, TextRun{
				Text:     t.S,
				Page:     i,
				FontSize: size,
				Bold:     boldFont(t.Font),
				X:        t.X,
				Y:        t.Y,
				W:        t.W,
			})
		}
	}

	// Content streams emit spans in drawing order, which is not always
	// reading order. Sort into top-to-bottom, left-to-right order; PDF Y
	// grows upward, so top of page is the largest Y.
	sort.SliceStable(doc.Runs, func(a, b int) bool {
		ra, rb := doc.Runs[a], doc.Runs[b]
		if ra.Page != rb.Page {
			return ra.Page < rb.Page
		}
		if ra.Y != rb.Y {
			return ra.Y > rb.Y
		}
		return ra.X < rb.X
	})

	return doc, nil
}

// pageTexts reads one page's text spans. The underlying parser panics on
// malformed content streams; a panic skips just that page.
func pageTexts(r *pdf.Reader, num int) (texts []pdf.Text) {
	defer func() {
		if rec := recover(); rec != nil {
			texts = nil
		}
	}()

	page := r.Page(num)
	if page.V.IsNull() {
		return nil
	}
	return page.Content().Text
}

// boldFont reports whether a PDF font name denotes a bold face. Font names
// carry the weight as a suffix like "Helvetica-Bold" or "NotoSans-SemiBold".
func boldFont(name string) bool {
	n := strings.ToLower(name)
	for _, marker := range []string{"bold", "black", "heavy", "semibold", "demibold"} {
		if strings.Contains(n, marker) {
			return true
		}
	}
	return false
}
