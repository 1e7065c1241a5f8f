// Package outline detects headings in formatted lines and assembles them,
// together with a resolved document title, into a three-level structural
// outline.
package outline

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/docsight/docsight/extract"
	"github.com/docsight/docsight/layout"
)

// Level is a heading hierarchy level. H1 is the coarsest.
type Level int

const (
	H1 Level = iota + 1
	H2
	H3
)

// String returns the wire spelling, "H1" through "H3".
func (l Level) String() string {
	switch l {
	case H1:
		return "H1"
	case H2:
		return "H2"
	case H3:
		return "H3"
	}
	return fmt.Sprintf("H%d", int(l))
}

// MarshalJSON serializes the level as its string form.
func (l Level) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON accepts the "H1".."H3" spellings.
func (l *Level) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "H1":
		*l = H1
	case "H2":
		*l = H2
	case "H3":
		*l = H3
	default:
		return fmt.Errorf("unknown heading level %q", s)
	}
	return nil
}

// Heading is one resolved outline entry.
type Heading struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
	Page  int    `json:"page"`
}

// Outline is the structural outline of one document.
type Outline struct {
	Title    string    `json:"title"`
	Headings []Heading `json:"outline"`
}

// FallbackTitle is used when neither metadata nor the first page offers a
// usable title.
const FallbackTitle = "Untitled Document"

// Build runs the full heading pipeline for one document: title resolution,
// candidate detection, level assignment, and deduplication. A document with
// no surviving candidates yields a title-only outline with an empty heading
// list; that is a valid result, not an error.
func Build(doc *extract.Document, lines []layout.Line, stats layout.FontStats, cfg Config) *Outline {
	out := &Outline{
		Title:    resolveTitle(doc, lines),
		Headings: make([]Heading, 0),
	}

	cands := Detect(lines, stats, cfg)
	headings := AssignLevels(cands, stats)

	// The title rendered on the first page is the document's name, not one
	// of its headings.
	first := firstPage(lines)
	titleKey := NormText(out.Title)
	for _, h := range headings {
		if h.Page == first && NormText(h.Text) == titleKey {
			continue
		}
		out.Headings = append(out.Headings, h)
	}
	return out
}

// resolveTitle picks the document title: metadata first, then the largest
// line on the first page, then the fallback literal.
func resolveTitle(doc *extract.Document, lines []layout.Line) string {
	if doc != nil {
		if t := strings.TrimSpace(doc.Title); t != "" {
			return t
		}
	}

	first := firstPage(lines)
	best := ""
	bestSize := 0.0
	for _, ln := range lines {
		if ln.Page != first {
			continue
		}
		if ln.FontSize > bestSize && len([]rune(strings.TrimSpace(ln.Text))) > 3 {
			best = strings.TrimSpace(ln.Text)
			bestSize = ln.FontSize
		}
	}
	if best != "" {
		return best
	}
	return FallbackTitle
}

// firstPage returns the lowest page number present.
func firstPage(lines []layout.Line) int {
	first := 0
	for _, ln := range lines {
		if first == 0 || ln.Page < first {
			first = ln.Page
		}
	}
	if first == 0 {
		first = 1
	}
	return first
}

// NormText is the comparison form for heading text: compatibility-normalized,
// lower-cased, single-spaced. Deduplication, title matching, and outline
// comparison all use it.
func NormText(s string) string {
	s = norm.NFKC.String(s)
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}
