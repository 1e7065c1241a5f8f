package extract

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Text extracts runs from plain text files. Everything is body-sized; blank
// lines open paragraphs, form feeds always start a new page, and
// PageBreakLines paginates long files when set.
type Text struct {
	PageBreakLines int
}

func (e *Text) Formats() []string { return []string{"txt", "text"} }

func (e *Text) Extract(ctx context.Context, path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening text file: %w", err)
	}
	defer f.Close()

	doc := &Document{Path: path, Name: filepath.Base(path)}

	var b runBuilder
	page, pageLines := 1, 0
	paraBreak := true

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()

		if strings.Contains(line, "\f") {
			line = strings.ReplaceAll(line, "\f", "")
			page++
			pageLines = 0
			paraBreak = true
		}

		if strings.TrimSpace(line) == "" {
			paraBreak = true
			continue
		}

		b.add(page, SizeBody, false, paraBreak, line)
		paraBreak = false

		pageLines++
		if e.PageBreakLines > 0 && pageLines >= e.PageBreakLines {
			page++
			pageLines = 0
			paraBreak = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading text file: %w", err)
	}

	doc.Pages = page
	doc.Runs = b.runs

	return doc, nil
}
