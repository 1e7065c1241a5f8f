package rank

import (
	"strings"
	"testing"

	"github.com/docsight/docsight/outline"
	"github.com/docsight/docsight/profile"
	"github.com/docsight/docsight/section"
)

func mkSection(doc string, page int, body string) section.Section {
	return section.Section{
		Document:   doc,
		Heading:    outline.Heading{Level: outline.H1, Text: "Heading", Page: page},
		Page:       page,
		Body:       body,
		Paragraphs: []string{body},
		WordCount:  len(strings.Fields(body)),
	}
}

func testScorer() *Scorer {
	p := profile.Profile{
		PersonaKeywords: []string{"alpha"},
		JobKeywords:     []string{"beta"},
		CriticalTerms:   []string{"critical"},
	}
	return NewScorer(p, DefaultWeights())
}

func TestRankOrdering(t *testing.T) {
	docs := [][]section.Section{
		{
			mkSection("a.pdf", 1, "alpha beta"),   // 0.4*0.5 + 0.6*0.5 = 0.5
			mkSection("a.pdf", 2, "alpha filler"), // 0.4*0.5 = 0.2
		},
		{
			mkSection("b.pdf", 1, "beta filler"), // 0.6*0.5 = 0.3
		},
	}

	ranked := Rank(docs, testScorer())

	if len(ranked) != 3 {
		t.Fatalf("len(ranked) = %d, want 3", len(ranked))
	}
	wantOrder := []struct {
		doc  string
		page int
	}{
		{"a.pdf", 1},
		{"b.pdf", 1},
		{"a.pdf", 2},
	}
	for i, want := range wantOrder {
		got := ranked[i]
		if got.Section.Document != want.doc || got.Section.Page != want.page {
			t.Errorf("ranked[%d] = %s p%d, want %s p%d",
				i, got.Section.Document, got.Section.Page, want.doc, want.page)
		}
		if got.Rank != i+1 {
			t.Errorf("ranked[%d].Rank = %d, want %d", i, got.Rank, i+1)
		}
	}
	if ranked[0].Relevance <= ranked[1].Relevance || ranked[1].Relevance <= ranked[2].Relevance {
		t.Errorf("relevance not descending: %v %v %v",
			ranked[0].Relevance, ranked[1].Relevance, ranked[2].Relevance)
	}
}

func TestRankTieBreak(t *testing.T) {
	// Identical bodies score identically; ties resolve by input document
	// order then ascending page.
	docs := [][]section.Section{
		{
			mkSection("first.pdf", 9, "alpha x"),
			mkSection("first.pdf", 2, "alpha x"),
		},
		{
			mkSection("second.pdf", 5, "alpha x"),
		},
	}

	ranked := Rank(docs, testScorer())

	wantOrder := []struct {
		doc  string
		page int
	}{
		{"first.pdf", 2},
		{"first.pdf", 9},
		{"second.pdf", 5},
	}
	for i, want := range wantOrder {
		got := ranked[i]
		if got.Section.Document != want.doc || got.Section.Page != want.page {
			t.Errorf("ranked[%d] = %s p%d, want %s p%d",
				i, got.Section.Document, got.Section.Page, want.doc, want.page)
		}
	}
}

func TestRankContiguous(t *testing.T) {
	docs := [][]section.Section{
		{
			mkSection("a.pdf", 1, "alpha beta critical"),
			mkSection("a.pdf", 2, "plain words only"),
			mkSection("a.pdf", 3, "beta beta beta"),
		},
		{
			mkSection("b.pdf", 1, "alpha"),
			mkSection("b.pdf", 2, ""),
		},
	}

	ranked := Rank(docs, testScorer())

	if len(ranked) != 5 {
		t.Fatalf("len(ranked) = %d, want 5", len(ranked))
	}
	seen := make(map[int]bool)
	for _, r := range ranked {
		if r.Rank < 1 || r.Rank > 5 {
			t.Errorf("Rank %d out of range 1..5", r.Rank)
		}
		if seen[r.Rank] {
			t.Errorf("duplicate Rank %d", r.Rank)
		}
		seen[r.Rank] = true
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].Relevance > ranked[i-1].Relevance {
			t.Errorf("relevance ascending at %d: %v > %v", i, ranked[i].Relevance, ranked[i-1].Relevance)
		}
	}
}

func TestRankEmptyBodySinksLast(t *testing.T) {
	docs := [][]section.Section{
		{
			mkSection("a.pdf", 1, "alpha rich body"),
			{Document: "a.pdf", Heading: outline.Heading{Level: outline.H2, Text: "Bare", Page: 3}, Page: 3},
		},
	}

	ranked := Rank(docs, testScorer())

	if len(ranked) != 2 {
		t.Fatalf("len(ranked) = %d, want 2 (empty sections still rank)", len(ranked))
	}
	last := ranked[len(ranked)-1]
	if last.Section.Heading.Text != "Bare" || last.Relevance != 0 {
		t.Errorf("empty section = %+v, want zero relevance at the bottom", last)
	}
}

func TestTop(t *testing.T) {
	docs := [][]section.Section{{
		mkSection("a.pdf", 1, "alpha beta"),
		mkSection("a.pdf", 2, "alpha"),
		mkSection("a.pdf", 3, "beta"),
	}}
	ranked := Rank(docs, testScorer())

	if got := Top(ranked, 2); len(got) != 2 || got[0].Rank != 1 || got[1].Rank != 2 {
		t.Errorf("Top(2) = %d entries, ranks %v", len(got), got)
	}
	if got := Top(ranked, 0); len(got) != 3 {
		t.Errorf("Top(0) = %d entries, want all", len(got))
	}
	if got := Top(ranked, 99); len(got) != 3 {
		t.Errorf("Top(99) = %d entries, want all", len(got))
	}
}
