// Package section slices a document into contiguous sections at heading
// boundaries.
package section

import (
	"strings"

	"github.com/docsight/docsight/layout"
	"github.com/docsight/docsight/outline"
)

// Section is a heading-delimited slice of one document. A section's body
// runs from its heading to the next heading of equal or coarser level, so a
// parent section's body subsumes the text of its subsections.
type Section struct {
	Document   string // document identifier, the base file name
	Heading    outline.Heading
	Page       int      // page of the heading
	Body       string   // paragraphs joined with blank lines
	Paragraphs []string // paragraph-level sub-units of Body
	WordCount  int
}

// Segment builds the section list for one document. Text before the first
// heading belongs to no section; a document without headings yields no
// sections. The final section runs to the end of the document.
func Segment(docName string, lines []layout.Line, headings []outline.Heading) []Section {
	located := locate(lines, headings)
	if len(located) == 0 {
		return nil
	}

	sections := make([]Section, 0, len(located))
	for i, cur := range located {
		end := len(lines)
		for j := i + 1; j < len(located); j++ {
			// The body of a subsection stops at the next heading of equal
			// or coarser granularity, not at an arbitrarily deeper one.
			if located[j].heading.Level <= cur.heading.Level {
				end = located[j].line
				break
			}
		}

		paragraphs := collectParagraphs(lines[cur.line+1 : end])
		body := strings.Join(paragraphs, "\n\n")

		sections = append(sections, Section{
			Document:   docName,
			Heading:    cur.heading,
			Page:       cur.heading.Page,
			Body:       body,
			Paragraphs: paragraphs,
			WordCount:  len(strings.Fields(body)),
		})
	}
	return sections
}

type locatedHeading struct {
	heading outline.Heading
	line    int
}

// locate finds each heading's line index with a single forward scan; both
// sequences are in reading order. Headings that cannot be matched back to a
// line are dropped rather than guessed at.
func locate(lines []layout.Line, headings []outline.Heading) []locatedHeading {
	located := make([]locatedHeading, 0, len(headings))
	cursor := 0
	for _, h := range headings {
		key := outline.NormText(h.Text)
		found := -1
		for i := cursor; i < len(lines); i++ {
			if lines[i].Page == h.Page && outline.NormText(lines[i].Text) == key {
				found = i
				break
			}
		}
		// A heading with no matching line is dropped without moving the
		// cursor, so later headings still resolve.
		if found < 0 {
			continue
		}
		located = append(located, locatedHeading{heading: h, line: found})
		cursor = found + 1
	}
	return located
}

// collectParagraphs groups a line span into paragraph strings using the
// layout paragraph marks. Lines within a paragraph join with single spaces.
func collectParagraphs(lines []layout.Line) []string {
	var paragraphs []string
	var cur []string

	flush := func() {
		if len(cur) > 0 {
			paragraphs = append(paragraphs, strings.Join(cur, " "))
			cur = nil
		}
	}

	for _, ln := range lines {
		if ln.ParaStart {
			flush()
		}
		if text := strings.TrimSpace(ln.Text); text != "" {
			cur = append(cur, text)
		}
	}
	flush()
	return paragraphs
}
