// Package rank scores document sections against a resolved persona and job
// profile and produces the ranked-section and refined-excerpt views of an
// analysis run.
package rank

import (
	"sort"

	"github.com/docsight/docsight/section"
)

// Ranked pairs a section with its relevance and its importance rank across
// the whole run.
type Ranked struct {
	Section   section.Section
	Relevance float64
	Rank      int // 1-based, contiguous over all sections of the run

	docOrder int
	index    int
}

// Rank scores every section of every document on its full body text and
// assigns contiguous importance ranks across the run. Ties keep input
// document order, then ascending page, then in-document section order.
// Sections with empty bodies score zero and sink to the bottom rather than
// being excluded.
func Rank(docs [][]section.Section, scorer *Scorer) []Ranked {
	var ranked []Ranked
	for docIdx, sections := range docs {
		for secIdx, sec := range sections {
			ranked = append(ranked, Ranked{
				Section:   sec,
				Relevance: scorer.Score(sec.Body),
				docOrder:  docIdx,
				index:     secIdx,
			})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Relevance != ranked[j].Relevance {
			return ranked[i].Relevance > ranked[j].Relevance
		}
		if ranked[i].docOrder != ranked[j].docOrder {
			return ranked[i].docOrder < ranked[j].docOrder
		}
		if ranked[i].Section.Page != ranked[j].Section.Page {
			return ranked[i].Section.Page < ranked[j].Section.Page
		}
		return ranked[i].index < ranked[j].index
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// Top returns the k highest-ranked entries, or everything when k <= 0 or
// exceeds the total.
func Top(ranked []Ranked, k int) []Ranked {
	if k <= 0 || k >= len(ranked) {
		return ranked
	}
	return ranked[:k]
}
