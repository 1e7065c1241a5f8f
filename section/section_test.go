package section

import (
	"strings"
	"testing"

	"github.com/docsight/docsight/layout"
	"github.com/docsight/docsight/outline"
)

func mkLine(text string, page int, size float64, para bool) layout.Line {
	return layout.Line{Text: text, Page: page, FontSize: size, ParaStart: para}
}

func TestSegmentBasic(t *testing.T) {
	lines := []layout.Line{
		mkLine("preamble text before any heading exists", 1, 11, true),
		mkLine("Introduction", 1, 18, true),
		mkLine("intro body line one", 1, 11, true),
		mkLine("intro body line two", 1, 11, false),
		mkLine("Conclusion", 2, 18, true),
		mkLine("closing words", 2, 11, true),
	}
	headings := []outline.Heading{
		{Level: outline.H1, Text: "Introduction", Page: 1},
		{Level: outline.H1, Text: "Conclusion", Page: 2},
	}

	sections := Segment("doc.pdf", lines, headings)

	if len(sections) != 2 {
		t.Fatalf("len(sections) = %d, want 2", len(sections))
	}

	intro := sections[0]
	if intro.Document != "doc.pdf" {
		t.Errorf("Document = %q, want doc.pdf", intro.Document)
	}
	if intro.Heading.Text != "Introduction" || intro.Page != 1 {
		t.Errorf("heading mismatch: %+v", intro.Heading)
	}
	if intro.Body != "intro body line one intro body line two" {
		t.Errorf("Body = %q", intro.Body)
	}
	if intro.WordCount != 8 {
		t.Errorf("WordCount = %d, want 8", intro.WordCount)
	}
	if strings.Contains(intro.Body, "preamble") {
		t.Error("preamble must not belong to any section")
	}

	if sections[1].Body != "closing words" {
		t.Errorf("final section body = %q, want %q", sections[1].Body, "closing words")
	}
}

func TestSegmentSubsectionBoundaries(t *testing.T) {
	// An H2's body subsumes its H3 children; the H3 bodies stop at the next
	// equal-or-coarser heading.
	lines := []layout.Line{
		mkLine("Methods", 1, 18, true),
		mkLine("methods overview text", 1, 11, true),
		mkLine("Sampling", 1, 14, true),
		mkLine("sampling details text", 1, 11, true),
		mkLine("Weighting", 2, 14, true),
		mkLine("weighting details text", 2, 11, true),
		mkLine("Results", 3, 18, true),
		mkLine("results body text", 3, 11, true),
	}
	headings := []outline.Heading{
		{Level: outline.H2, Text: "Methods", Page: 1},
		{Level: outline.H3, Text: "Sampling", Page: 1},
		{Level: outline.H3, Text: "Weighting", Page: 2},
		{Level: outline.H2, Text: "Results", Page: 3},
	}

	sections := Segment("doc.pdf", lines, headings)

	if len(sections) != 4 {
		t.Fatalf("len(sections) = %d, want 4", len(sections))
	}

	methods := sections[0]
	for _, want := range []string{"methods overview text", "Sampling", "sampling details text", "Weighting", "weighting details text"} {
		if !strings.Contains(methods.Body, want) {
			t.Errorf("Methods body missing %q: %q", want, methods.Body)
		}
	}
	if strings.Contains(methods.Body, "results body") {
		t.Error("Methods body must stop at the next H2")
	}

	sampling := sections[1]
	if strings.Contains(sampling.Body, "weighting") {
		t.Errorf("Sampling body must stop at the next H3: %q", sampling.Body)
	}
	if sampling.Body != "sampling details text" {
		t.Errorf("Sampling body = %q", sampling.Body)
	}

	weighting := sections[2]
	if !strings.Contains(weighting.Body, "weighting details text") {
		t.Errorf("Weighting body = %q", weighting.Body)
	}
	if strings.Contains(weighting.Body, "results") {
		t.Error("Weighting body must stop at the H2 Results")
	}
}

func TestSegmentParagraphs(t *testing.T) {
	lines := []layout.Line{
		mkLine("Topic", 1, 18, true),
		mkLine("first paragraph opening line", 1, 11, true),
		mkLine("still the first paragraph", 1, 11, false),
		mkLine("second paragraph entirely", 1, 11, true),
	}
	headings := []outline.Heading{{Level: outline.H1, Text: "Topic", Page: 1}}

	sections := Segment("d", lines, headings)

	if len(sections) != 1 {
		t.Fatalf("len(sections) = %d, want 1", len(sections))
	}
	paras := sections[0].Paragraphs
	if len(paras) != 2 {
		t.Fatalf("len(Paragraphs) = %d, want 2: %q", len(paras), paras)
	}
	if paras[0] != "first paragraph opening line still the first paragraph" {
		t.Errorf("Paragraphs[0] = %q", paras[0])
	}
	if paras[1] != "second paragraph entirely" {
		t.Errorf("Paragraphs[1] = %q", paras[1])
	}
	if sections[0].Body != paras[0]+"\n\n"+paras[1] {
		t.Errorf("Body = %q", sections[0].Body)
	}
}

func TestSegmentNoHeadings(t *testing.T) {
	lines := []layout.Line{mkLine("just text", 1, 11, true)}

	if sections := Segment("d", lines, nil); sections != nil {
		t.Errorf("Segment without headings = %+v, want nil", sections)
	}
}

func TestSegmentEmptyBody(t *testing.T) {
	lines := []layout.Line{
		mkLine("Lonely Heading", 1, 18, true),
	}
	headings := []outline.Heading{{Level: outline.H1, Text: "Lonely Heading", Page: 1}}

	sections := Segment("d", lines, headings)

	if len(sections) != 1 {
		t.Fatalf("len(sections) = %d, want 1", len(sections))
	}
	if sections[0].Body != "" || sections[0].WordCount != 0 {
		t.Errorf("empty section = %+v", sections[0])
	}
}

func TestSegmentUnmatchedHeadingDropped(t *testing.T) {
	lines := []layout.Line{
		mkLine("Real Heading", 1, 18, true),
		mkLine("body", 1, 11, true),
	}
	headings := []outline.Heading{
		{Level: outline.H1, Text: "Ghost Heading", Page: 1},
		{Level: outline.H1, Text: "Real Heading", Page: 1},
	}

	sections := Segment("d", lines, headings)

	if len(sections) != 1 {
		t.Fatalf("len(sections) = %d, want 1", len(sections))
	}
	if sections[0].Heading.Text != "Real Heading" {
		t.Errorf("kept heading = %q", sections[0].Heading.Text)
	}
}
