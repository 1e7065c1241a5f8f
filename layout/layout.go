// Package layout assembles extracted text runs into reading-order lines and
// computes the per-document font statistics the heading heuristics key off.
// Statistics are plain values scoped to one document; nothing here is shared
// across documents in a batch.
package layout

import (
	"math"
	"sort"
	"strings"

	"github.com/docsight/docsight/extract"
)

// Line is one visual line of text assembled from runs.
type Line struct {
	Text      string
	Page      int
	FontSize  float64 // largest run size on the line
	Bold      bool    // any run on the line is bold
	Y         float64 // baseline of the first run
	ParaStart bool    // line opens a paragraph
}

// Config controls line assembly.
type Config struct {
	// LineTolerance is the maximum vertical distance between two runs that
	// still land on the same line.
	LineTolerance float64
	// GapFactor marks a paragraph start when the gap above a line exceeds
	// GapFactor times the page's median line gap.
	GapFactor float64
}

// DefaultConfig mirrors the engine defaults.
func DefaultConfig() Config {
	return Config{LineTolerance: 2.0, GapFactor: 1.8}
}

// wordGapRatio decides when two horizontally adjacent runs need a space
// between them: when the gap exceeds this fraction of the font size.
const wordGapRatio = 0.2

// Normalize groups reading-order runs into lines and marks paragraph starts.
// Runs must already be in reading order; extractors guarantee that.
func Normalize(runs []extract.TextRun, cfg Config) []Line {
	if cfg.LineTolerance <= 0 {
		cfg.LineTolerance = DefaultConfig().LineTolerance
	}
	if cfg.GapFactor <= 0 {
		cfg.GapFactor = DefaultConfig().GapFactor
	}

	var lines []Line
	var cur *Line
	var buf strings.Builder
	var prevX, prevW float64
	var explicitPara bool

	flush := func() {
		if cur == nil {
			return
		}
		cur.Text = strings.Join(strings.Fields(buf.String()), " ")
		cur.ParaStart = explicitPara
		if cur.Text != "" {
			lines = append(lines, *cur)
		}
		cur = nil
		buf.Reset()
		explicitPara = false
	}

	for _, run := range runs {
		startNew := cur == nil ||
			run.Page != cur.Page ||
			run.ParaBreak ||
			math.Abs(run.Y-cur.Y) > cfg.LineTolerance

		if startNew {
			flush()
			cur = &Line{Page: run.Page, FontSize: run.FontSize, Bold: run.Bold, Y: run.Y}
			explicitPara = run.ParaBreak
			buf.WriteString(run.Text)
			prevX, prevW = run.X, run.W
			continue
		}

		if run.FontSize > cur.FontSize {
			cur.FontSize = run.FontSize
		}
		cur.Bold = cur.Bold || run.Bold

		// Within a line, spans abut when they continue a word and leave a
		// gap when a new word starts. Fall back to concatenation for formats
		// without geometry.
		gap := run.X - (prevX + prevW)
		if gap > wordGapRatio*math.Max(cur.FontSize, run.FontSize) {
			buf.WriteString(" ")
		}
		buf.WriteString(run.Text)
		prevX, prevW = run.X, run.W
	}
	flush()

	markParagraphs(lines, cfg.GapFactor)
	return lines
}

// markParagraphs sets ParaStart from vertical gaps: the first line of every
// page opens a paragraph, and so does any line separated from its predecessor
// by well over the page's usual line spacing. Explicit flags from extractors
// are kept.
func markParagraphs(lines []Line, gapFactor float64) {
	if len(lines) == 0 {
		return
	}
	lines[0].ParaStart = true

	median := medianGap(lines)
	for i := 1; i < len(lines); i++ {
		if lines[i].Page != lines[i-1].Page {
			lines[i].ParaStart = true
			continue
		}
		if median > 0 {
			gap := math.Abs(lines[i-1].Y - lines[i].Y)
			if gap > gapFactor*median {
				lines[i].ParaStart = true
			}
		}
	}
}

// medianGap is the median vertical distance between consecutive lines that
// share a page.
func medianGap(lines []Line) float64 {
	var gaps []float64
	for i := 1; i < len(lines); i++ {
		if lines[i].Page != lines[i-1].Page {
			continue
		}
		if g := math.Abs(lines[i-1].Y - lines[i].Y); g > 0 {
			gaps = append(gaps, g)
		}
	}
	if len(gaps) == 0 {
		return 0
	}
	sort.Float64s(gaps)
	return gaps[len(gaps)/2]
}

// FontStats are the per-document font statistics consumed by the heading
// detector and level assigner.
type FontStats struct {
	AvgSize  float64
	ModeSize float64
	TopSizes []float64 // up to 3 largest distinct sizes, descending
}

// Stats derives the statistics triple from one document's lines. Sizes are
// bucketed to half a point so that near-identical rendered sizes count as one.
func Stats(lines []Line) FontStats {
	if len(lines) == 0 {
		return FontStats{}
	}

	var sum float64
	counts := make(map[float64]int)
	for _, ln := range lines {
		sum += ln.FontSize
		counts[bucketSize(ln.FontSize)]++
	}

	stats := FontStats{AvgSize: sum / float64(len(lines))}

	for size, n := range counts {
		best := counts[stats.ModeSize]
		if n > best || (n == best && size > stats.ModeSize) {
			stats.ModeSize = size
		}
	}

	distinct := make([]float64, 0, len(counts))
	for size := range counts {
		distinct = append(distinct, size)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(distinct)))
	if len(distinct) > 3 {
		distinct = distinct[:3]
	}
	stats.TopSizes = distinct

	return stats
}

func bucketSize(size float64) float64 {
	return math.Round(size*2) / 2
}
