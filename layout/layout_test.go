package layout

import (
	"math"
	"testing"

	"github.com/docsight/docsight/extract"
)

// ---------------------------------------------------------------------------
// Line assembly
// ---------------------------------------------------------------------------

func TestNormalizeGroupsByBaseline(t *testing.T) {
	runs := []extract.TextRun{
		{Text: "Hello", Page: 1, FontSize: 12, X: 10, Y: 700, W: 30},
		{Text: "World", Page: 1, FontSize: 12, X: 45, Y: 700.5, W: 30},
		{Text: "Next line", Page: 1, FontSize: 12, X: 10, Y: 686, W: 50},
	}

	lines := Normalize(runs, DefaultConfig())

	if len(lines) != 2 {
		t.Fatalf("len(lines) = %d, want 2", len(lines))
	}
	if lines[0].Text != "Hello World" {
		t.Errorf("lines[0].Text = %q, want %q", lines[0].Text, "Hello World")
	}
	if lines[1].Text != "Next line" {
		t.Errorf("lines[1].Text = %q, want %q", lines[1].Text, "Next line")
	}
}

func TestNormalizeAbuttingSpansConcatenate(t *testing.T) {
	// Glyph-level spans with no gap between them belong to one word.
	runs := []extract.TextRun{
		{Text: "Exam", Page: 1, FontSize: 12, X: 10, Y: 700, W: 24},
		{Text: "ple", Page: 1, FontSize: 12, X: 34.5, Y: 700, W: 18},
	}

	lines := Normalize(runs, DefaultConfig())

	if len(lines) != 1 {
		t.Fatalf("len(lines) = %d, want 1", len(lines))
	}
	if lines[0].Text != "Example" {
		t.Errorf("Text = %q, want %q", lines[0].Text, "Example")
	}
}

func TestNormalizeSplitsOnPage(t *testing.T) {
	runs := []extract.TextRun{
		{Text: "end of page", Page: 1, FontSize: 12, Y: 100},
		{Text: "top of next", Page: 2, FontSize: 12, Y: 100},
	}

	lines := Normalize(runs, DefaultConfig())

	if len(lines) != 2 {
		t.Fatalf("len(lines) = %d, want 2", len(lines))
	}
	if lines[1].Page != 2 {
		t.Errorf("lines[1].Page = %d, want 2", lines[1].Page)
	}
	if !lines[1].ParaStart {
		t.Error("first line of a page should open a paragraph")
	}
}

func TestNormalizeAggregatesSizeAndBold(t *testing.T) {
	runs := []extract.TextRun{
		{Text: "Big", Page: 1, FontSize: 18, Bold: true, X: 10, Y: 700, W: 30},
		{Text: "small", Page: 1, FontSize: 11, X: 60, Y: 700, W: 30},
	}

	lines := Normalize(runs, DefaultConfig())

	if len(lines) != 1 {
		t.Fatalf("len(lines) = %d, want 1", len(lines))
	}
	if lines[0].FontSize != 18 {
		t.Errorf("FontSize = %v, want 18 (max of runs)", lines[0].FontSize)
	}
	if !lines[0].Bold {
		t.Error("line should be bold when any run is bold")
	}
}

func TestNormalizeWhitespaceCollapsed(t *testing.T) {
	runs := []extract.TextRun{
		{Text: "a  ", Page: 1, FontSize: 12, Y: 700},
		{Text: "   b", Page: 1, FontSize: 12, Y: 700},
	}

	lines := Normalize(runs, DefaultConfig())

	if len(lines) != 1 {
		t.Fatalf("len(lines) = %d, want 1", len(lines))
	}
	if lines[0].Text != "a b" {
		t.Errorf("Text = %q, want %q", lines[0].Text, "a b")
	}
}

func TestNormalizeExplicitParaBreaks(t *testing.T) {
	runs := []extract.TextRun{
		{Text: "para one", Page: 1, FontSize: 11, Y: 0, ParaBreak: true},
		{Text: "continuation", Page: 1, FontSize: 11, Y: -12},
		{Text: "para two", Page: 1, FontSize: 11, Y: -24, ParaBreak: true},
	}

	lines := Normalize(runs, DefaultConfig())

	if len(lines) != 3 {
		t.Fatalf("len(lines) = %d, want 3", len(lines))
	}
	if !lines[0].ParaStart || lines[1].ParaStart || !lines[2].ParaStart {
		t.Errorf("ParaStart flags = %v %v %v, want true false true",
			lines[0].ParaStart, lines[1].ParaStart, lines[2].ParaStart)
	}
}

func TestNormalizeGapParagraphs(t *testing.T) {
	// Uniform 14pt line spacing, then a 40pt gap before the last line.
	runs := []extract.TextRun{
		{Text: "l1", Page: 1, FontSize: 12, Y: 700},
		{Text: "l2", Page: 1, FontSize: 12, Y: 686},
		{Text: "l3", Page: 1, FontSize: 12, Y: 672},
		{Text: "l4", Page: 1, FontSize: 12, Y: 658},
		{Text: "after gap", Page: 1, FontSize: 12, Y: 618},
	}

	lines := Normalize(runs, DefaultConfig())

	if len(lines) != 5 {
		t.Fatalf("len(lines) = %d, want 5", len(lines))
	}
	if !lines[4].ParaStart {
		t.Error("line after an oversized gap should open a paragraph")
	}
	if lines[1].ParaStart || lines[2].ParaStart || lines[3].ParaStart {
		t.Error("regularly spaced lines must not open paragraphs")
	}
}

// ---------------------------------------------------------------------------
// Font statistics
// ---------------------------------------------------------------------------

func TestStats(t *testing.T) {
	lines := []Line{
		{FontSize: 24},
		{FontSize: 18},
		{FontSize: 14},
		{FontSize: 12},
		{FontSize: 12},
		{FontSize: 12},
	}

	stats := Stats(lines)

	wantAvg := (24.0 + 18 + 14 + 12 + 12 + 12) / 6
	if math.Abs(stats.AvgSize-wantAvg) > 1e-9 {
		t.Errorf("AvgSize = %v, want %v", stats.AvgSize, wantAvg)
	}
	if stats.ModeSize != 12 {
		t.Errorf("ModeSize = %v, want 12", stats.ModeSize)
	}
	if len(stats.TopSizes) != 3 {
		t.Fatalf("len(TopSizes) = %d, want 3", len(stats.TopSizes))
	}
	for i, want := range []float64{24, 18, 14} {
		if stats.TopSizes[i] != want {
			t.Errorf("TopSizes[%d] = %v, want %v", i, stats.TopSizes[i], want)
		}
	}
}

func TestStatsModeTieTakesLarger(t *testing.T) {
	lines := []Line{{FontSize: 11}, {FontSize: 11}, {FontSize: 14}, {FontSize: 14}}

	stats := Stats(lines)

	if stats.ModeSize != 14 {
		t.Errorf("ModeSize = %v, want 14 on a frequency tie", stats.ModeSize)
	}
}

func TestStatsBucketsNearbySizes(t *testing.T) {
	// 11.98 and 12.02 render identically; they must count as one size.
	lines := []Line{{FontSize: 11.98}, {FontSize: 12.02}, {FontSize: 18}}

	stats := Stats(lines)

	if stats.ModeSize != 12 {
		t.Errorf("ModeSize = %v, want 12", stats.ModeSize)
	}
	if len(stats.TopSizes) != 2 {
		t.Errorf("TopSizes = %v, want two distinct sizes", stats.TopSizes)
	}
}

func TestStatsFewDistinctSizes(t *testing.T) {
	stats := Stats([]Line{{FontSize: 12}, {FontSize: 12}})

	if len(stats.TopSizes) != 1 {
		t.Fatalf("TopSizes = %v, want a single size", stats.TopSizes)
	}
	if stats.TopSizes[0] != 12 {
		t.Errorf("TopSizes[0] = %v, want 12", stats.TopSizes[0])
	}
}

func TestStatsEmpty(t *testing.T) {
	stats := Stats(nil)

	if stats.AvgSize != 0 || stats.ModeSize != 0 || len(stats.TopSizes) != 0 {
		t.Errorf("Stats(nil) = %+v, want zero value", stats)
	}
}
