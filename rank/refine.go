package rank

import (
	"sort"
	"strings"

	"github.com/docsight/docsight/section"
)

// MinExcerptLen is the smallest refined-text length worth emitting.
// Shorter paragraph units are discarded before they are ever scored.
const MinExcerptLen = 50

// Excerpt is one refined paragraph-level unit with its relevance.
type Excerpt struct {
	Document  string
	Text      string
	Page      int
	Relevance float64

	docOrder int
	index    int
}

// Refine splits every section body into paragraph units, whitespace-
// normalizes them, drops units of MinExcerptLen characters or fewer, scores
// the rest, and keeps the top maxExcerpts across the whole run ordered by
// relevance descending. No summarization happens: the refined text is the
// paragraph as written.
func Refine(docs [][]section.Section, scorer *Scorer, maxExcerpts int) []Excerpt {
	var excerpts []Excerpt
	unit := 0
	for docIdx, sections := range docs {
		for _, sec := range sections {
			for _, para := range paragraphUnits(sec) {
				text := strings.Join(strings.Fields(para), " ")
				if len(text) <= MinExcerptLen {
					continue
				}
				excerpts = append(excerpts, Excerpt{
					Document:  sec.Document,
					Text:      text,
					Page:      sec.Page,
					Relevance: scorer.Score(text),
					docOrder:  docIdx,
					index:     unit,
				})
				unit++
			}
		}
	}

	sort.SliceStable(excerpts, func(i, j int) bool {
		if excerpts[i].Relevance != excerpts[j].Relevance {
			return excerpts[i].Relevance > excerpts[j].Relevance
		}
		if excerpts[i].docOrder != excerpts[j].docOrder {
			return excerpts[i].docOrder < excerpts[j].docOrder
		}
		return excerpts[i].index < excerpts[j].index
	})

	if maxExcerpts > 0 && len(excerpts) > maxExcerpts {
		excerpts = excerpts[:maxExcerpts]
	}
	return excerpts
}

// paragraphUnits returns the section's paragraph list, falling back to a
// blank-line split of the body for sections rebuilt without layout marks.
func paragraphUnits(sec section.Section) []string {
	if len(sec.Paragraphs) > 0 {
		return sec.Paragraphs
	}
	if sec.Body == "" {
		return nil
	}
	return strings.Split(sec.Body, "\n\n")
}
