// Package eval measures outline extraction quality against golden outline
// files kept next to a test corpus.
package eval

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/docsight/docsight/outline"
)

// Result holds the outline comparison metrics for one document.
type Result struct {
	Document   string  `json:"document"`
	TitleMatch bool    `json:"title_match"`
	Expected   int     `json:"expected"`
	Detected   int     `json:"detected"`
	Matched    int     `json:"matched"`
	Precision  float64 `json:"precision"`
	Recall     float64 `json:"recall"`
	F1         float64 `json:"f1"`
	Error      string  `json:"error,omitempty"`
}

// Summary aggregates results across a corpus, micro-averaged over headings.
type Summary struct {
	Documents     int     `json:"documents"`
	TitleAccuracy float64 `json:"title_accuracy"`
	Precision     float64 `json:"precision"`
	Recall        float64 `json:"recall"`
	F1            float64 `json:"f1"`
}

// LoadGolden reads a golden outline JSON file.
func LoadGolden(path string) (*outline.Outline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading golden file: %w", err)
	}
	var o outline.Outline
	if err := json.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("parsing golden file %s: %w", path, err)
	}
	return &o, nil
}

// Compare scores a detected outline against the golden one. A heading
// matches when level, normalized text, and page all agree; each golden
// heading is claimed at most once.
func Compare(document string, got, want outline.Outline) Result {
	r := Result{
		Document:   document,
		Expected:   len(want.Headings),
		Detected:   len(got.Headings),
		TitleMatch: outline.NormText(got.Title) == outline.NormText(want.Title),
	}

	claimed := make([]bool, len(want.Headings))
	for _, h := range got.Headings {
		for i, w := range want.Headings {
			if claimed[i] {
				continue
			}
			if h.Level == w.Level && h.Page == w.Page && outline.NormText(h.Text) == outline.NormText(w.Text) {
				claimed[i] = true
				r.Matched++
				break
			}
		}
	}

	r.Precision, r.Recall, r.F1 = prf(r.Matched, r.Detected, r.Expected)
	return r
}

// prf computes precision, recall, and F1. An empty outline compared against
// an empty golden one counts as a perfect match.
func prf(matched, detected, expected int) (p, recall, f1 float64) {
	if detected == 0 && expected == 0 {
		return 1, 1, 1
	}
	if detected > 0 {
		p = float64(matched) / float64(detected)
	}
	if expected > 0 {
		recall = float64(matched) / float64(expected)
	}
	if p+recall > 0 {
		f1 = 2 * p * recall / (p + recall)
	}
	return p, recall, f1
}

// Summarize micro-averages the per-document results.
func Summarize(results []Result) Summary {
	s := Summary{Documents: len(results)}
	if len(results) == 0 {
		return s
	}

	titles := 0
	var matched, detected, expected int
	for _, r := range results {
		if r.TitleMatch {
			titles++
		}
		matched += r.Matched
		detected += r.Detected
		expected += r.Expected
	}
	s.TitleAccuracy = float64(titles) / float64(len(results))
	s.Precision, s.Recall, s.F1 = prf(matched, detected, expected)
	return s
}

// FormatReport renders the results as a human-readable report.
func FormatReport(results []Result, s Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== Outline Evaluation ===\n")
	for i, r := range results {
		if r.Error != "" {
			fmt.Fprintf(&b, "[FAIL] %d. %s\n  Error: %s\n", i+1, r.Document, r.Error)
			continue
		}
		status := "PASS"
		if r.F1 < 1 || !r.TitleMatch {
			status = "MISS"
		}
		fmt.Fprintf(&b, "[%s] %d. %s\n", status, i+1, r.Document)
		fmt.Fprintf(&b, "  P=%.2f R=%.2f F1=%.2f (matched %d of %d detected, %d golden) title_match=%v\n",
			r.Precision, r.Recall, r.F1, r.Matched, r.Detected, r.Expected, r.TitleMatch)
	}
	fmt.Fprintf(&b, "\nDocuments: %d\n", s.Documents)
	fmt.Fprintf(&b, "Title accuracy: %.1f%%\n", s.TitleAccuracy*100)
	fmt.Fprintf(&b, "Precision: %.3f | Recall: %.3f | F1: %.3f\n", s.Precision, s.Recall, s.F1)
	return b.String()
}
