package outline

import (
	"math"

	"github.com/docsight/docsight/layout"
)

// AssignLevels maps accepted candidates onto hierarchy levels and removes
// repeated headings. Each candidate's size is matched to the nearest of the
// document's top sizes: the largest maps to H1, the next to H2, the third to
// H3. Sizes below every hierarchy size land on the finest level, so keyword
// and pattern candidates at body size survive as H3. Output order follows
// input order.
func AssignLevels(cands []Candidate, stats layout.FontStats) []Heading {
	headings := make([]Heading, 0, len(cands))

	type dedupKey struct {
		page int
		text string
	}
	seen := make(map[dedupKey]bool, len(cands))

	for _, c := range cands {
		key := dedupKey{page: c.Page, text: NormText(c.Text)}
		if seen[key] {
			continue
		}
		seen[key] = true

		headings = append(headings, Heading{
			Level: nearestLevel(c.FontSize, stats.TopSizes),
			Text:  c.Text,
			Page:  c.Page,
		})
	}
	return headings
}

// nearestLevel picks the hierarchy level whose size is closest to the
// candidate's. Equidistant candidates take the coarser level. With fewer
// than three distinct sizes in the document this naturally assigns all
// candidates to H1 (one size) or splits H1/H2 at the midpoint (two sizes).
func nearestLevel(size float64, topSizes []float64) Level {
	if len(topSizes) == 0 {
		return H1
	}

	best, bestDist := 0, math.Inf(1)
	for i, s := range topSizes {
		if d := math.Abs(size - s); d < bestDist {
			best, bestDist = i, d
		}
	}
	return H1 + Level(best)
}
