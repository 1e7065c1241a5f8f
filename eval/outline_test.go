package eval

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/docsight/docsight/outline"
)

func mkOutline(title string, headings ...outline.Heading) outline.Outline {
	return outline.Outline{Title: title, Headings: headings}
}

func TestComparePerfect(t *testing.T) {
	o := mkOutline("Annual Report",
		outline.Heading{Level: outline.H1, Text: "Introduction", Page: 1},
		outline.Heading{Level: outline.H2, Text: "Scope", Page: 2},
	)

	r := Compare("report.pdf", o, o)

	if !r.TitleMatch {
		t.Error("TitleMatch = false")
	}
	if r.Matched != 2 || r.Precision != 1 || r.Recall != 1 || r.F1 != 1 {
		t.Errorf("result = %+v", r)
	}
}

func TestComparePartial(t *testing.T) {
	want := mkOutline("Doc",
		outline.Heading{Level: outline.H1, Text: "One", Page: 1},
		outline.Heading{Level: outline.H1, Text: "Two", Page: 2},
		outline.Heading{Level: outline.H2, Text: "Three", Page: 3},
	)
	got := mkOutline("Doc",
		outline.Heading{Level: outline.H1, Text: "One", Page: 1},
		outline.Heading{Level: outline.H1, Text: "Two", Page: 9}, // wrong page
		outline.Heading{Level: outline.H2, Text: "Three", Page: 3},
	)

	r := Compare("doc.pdf", got, want)

	if r.Matched != 2 {
		t.Errorf("Matched = %d, want 2", r.Matched)
	}
	if math.Abs(r.Precision-2.0/3.0) > 1e-9 || math.Abs(r.Recall-2.0/3.0) > 1e-9 {
		t.Errorf("P=%v R=%v, want 2/3 each", r.Precision, r.Recall)
	}
}

func TestCompareNormalizesText(t *testing.T) {
	want := mkOutline("Doc", outline.Heading{Level: outline.H1, Text: "introduction", Page: 1})
	got := mkOutline("DOC", outline.Heading{Level: outline.H1, Text: "  Introduction ", Page: 1})

	r := Compare("doc.pdf", got, want)

	if r.Matched != 1 || !r.TitleMatch {
		t.Errorf("result = %+v, want normalized match", r)
	}
}

func TestCompareLevelMismatch(t *testing.T) {
	want := mkOutline("Doc", outline.Heading{Level: outline.H1, Text: "Overview", Page: 1})
	got := mkOutline("Doc", outline.Heading{Level: outline.H2, Text: "Overview", Page: 1})

	if r := Compare("doc.pdf", got, want); r.Matched != 0 {
		t.Errorf("Matched = %d, want 0 on level mismatch", r.Matched)
	}
}

func TestCompareClaimsGoldenOnce(t *testing.T) {
	want := mkOutline("Doc", outline.Heading{Level: outline.H1, Text: "Repeated", Page: 1})
	got := mkOutline("Doc",
		outline.Heading{Level: outline.H1, Text: "Repeated", Page: 1},
		outline.Heading{Level: outline.H1, Text: "Repeated", Page: 1},
	)

	r := Compare("doc.pdf", got, want)

	if r.Matched != 1 {
		t.Errorf("Matched = %d, want 1 (golden heading claimed once)", r.Matched)
	}
	if r.Precision != 0.5 || r.Recall != 1 {
		t.Errorf("P=%v R=%v", r.Precision, r.Recall)
	}
}

func TestCompareEmpty(t *testing.T) {
	empty := mkOutline("Doc")

	if r := Compare("doc.pdf", empty, empty); r.Precision != 1 || r.Recall != 1 || r.F1 != 1 {
		t.Errorf("empty vs empty = %+v, want perfect", r)
	}

	want := mkOutline("Doc", outline.Heading{Level: outline.H1, Text: "One", Page: 1})
	if r := Compare("doc.pdf", empty, want); r.Precision != 0 || r.Recall != 0 || r.F1 != 0 {
		t.Errorf("empty vs golden = %+v, want zeros", r)
	}
}

func TestSummarize(t *testing.T) {
	results := []Result{
		{TitleMatch: true, Expected: 4, Detected: 4, Matched: 4},
		{TitleMatch: false, Expected: 2, Detected: 4, Matched: 2},
	}

	s := Summarize(results)

	if s.Documents != 2 {
		t.Errorf("Documents = %d", s.Documents)
	}
	if s.TitleAccuracy != 0.5 {
		t.Errorf("TitleAccuracy = %v, want 0.5", s.TitleAccuracy)
	}
	// Micro-averaged: 6 matched over 8 detected, 6 golden.
	if math.Abs(s.Precision-0.75) > 1e-9 || s.Recall != 1 {
		t.Errorf("P=%v R=%v", s.Precision, s.Recall)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.Documents != 0 || s.Precision != 0 || s.TitleAccuracy != 0 {
		t.Errorf("Summarize(nil) = %+v", s)
	}
}

func TestLoadGolden(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	content := `{"title":"Sample","outline":[{"level":"H1","text":"Intro","page":1}]}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	o, err := LoadGolden(path)
	if err != nil {
		t.Fatalf("LoadGolden: %v", err)
	}
	if o.Title != "Sample" || len(o.Headings) != 1 || o.Headings[0].Level != outline.H1 {
		t.Errorf("golden = %+v", o)
	}
}

func TestLoadGoldenErrors(t *testing.T) {
	if _, err := LoadGolden(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadGolden(bad); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestFormatReport(t *testing.T) {
	results := []Result{
		{Document: "good.pdf", TitleMatch: true, Expected: 1, Detected: 1, Matched: 1, Precision: 1, Recall: 1, F1: 1},
		{Document: "broken.pdf", Error: "no extractable text"},
	}
	report := FormatReport(results, Summarize(results))

	for _, want := range []string{"[PASS] 1. good.pdf", "[FAIL] 2. broken.pdf", "Title accuracy"} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
}
