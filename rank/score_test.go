package rank

import (
	"math"
	"strings"
	"testing"

	"github.com/docsight/docsight/profile"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestDefaultWeights(t *testing.T) {
	w := DefaultWeights()
	if !almostEqual(w.Persona, 0.4) || !almostEqual(w.Job, 0.6) || !almostEqual(w.CriticalBonus, 0.1) {
		t.Errorf("DefaultWeights() = %+v", w)
	}
}

func TestScoreFormula(t *testing.T) {
	p := profile.Profile{
		PersonaKeywords: []string{"methodology"},
		JobKeywords:     []string{"dataset", "benchmark"},
		CriticalTerms:   []string{"key", "important"},
	}
	s := NewScorer(p, DefaultWeights())

	// 6 tokens, one persona hit, one job hit, one critical hit:
	// 0.4*(1/6) + 0.6*(1/6) + 0.1*1
	got := s.Score("The methodology uses a key dataset")
	want := 1.0/6.0 + 0.1
	if !almostEqual(got, want) {
		t.Errorf("Score = %v, want %v", got, want)
	}
}

func TestScorePerOccurrenceBoost(t *testing.T) {
	p := profile.Profile{CriticalTerms: []string{"key"}}
	s := NewScorer(p, DefaultWeights())

	// Every occurrence adds the flat bonus; nothing normalizes it away.
	if got := s.Score("key key key"); !almostEqual(got, 0.3) {
		t.Errorf("Score = %v, want 0.3", got)
	}
}

func TestScoreUnclamped(t *testing.T) {
	p := profile.Profile{CriticalTerms: []string{"key"}}
	s := NewScorer(p, DefaultWeights())

	got := s.Score(strings.TrimSpace(strings.Repeat("key ", 15)))
	if !almostEqual(got, 1.5) {
		t.Errorf("Score = %v, want 1.5 (no upper clamp)", got)
	}
}

func TestScoreCaseAndPunctuation(t *testing.T) {
	p := profile.Profile{PersonaKeywords: []string{"methodology"}}
	s := NewScorer(p, DefaultWeights())

	// All three tokens match after lowercasing and punctuation splitting.
	if got := s.Score("Methodology, METHODOLOGY; (methodology)"); !almostEqual(got, 0.4) {
		t.Errorf("Score = %v, want 0.4", got)
	}
}

func TestScorePhrases(t *testing.T) {
	p := profile.Profile{JobKeywords: []string{"cash flow"}}
	s := NewScorer(p, DefaultWeights())

	// Two phrase occurrences over six tokens.
	if got := s.Score("cash flow and more cash flow"); !almostEqual(got, 0.6*2.0/6.0) {
		t.Errorf("Score = %v, want %v", got, 0.6*2.0/6.0)
	}
	// Non-overlapping: only tokens 2-3 form the phrase.
	if got := s.Score("cash cash flow flow"); !almostEqual(got, 0.6*1.0/4.0) {
		t.Errorf("Score = %v, want %v", got, 0.6*1.0/4.0)
	}
}

func TestScoreEmptyUnit(t *testing.T) {
	s := NewScorer(profile.Resolve("Researcher", "literature review"), DefaultWeights())
	for _, text := range []string{"", "   ", "\n\t", "!!! --- ..."} {
		if got := s.Score(text); got != 0 {
			t.Errorf("Score(%q) = %v, want 0", text, got)
		}
	}
}

func TestScoreAtLeastBoost(t *testing.T) {
	// The persona and job terms are non-negative, so relevance can never
	// drop below the boost contribution alone.
	full := NewScorer(profile.Resolve("PhD Researcher", "literature review"), DefaultWeights())
	boostOnly := NewScorer(profile.Resolve("nobody", "nothing"), DefaultWeights())

	texts := []string{
		"the key methodology is important",
		"critical dataset with significant results",
		"nothing relevant here at all",
	}
	for _, text := range texts {
		if full.Score(text) < boostOnly.Score(text) {
			t.Errorf("Score(%q) = %v below boost %v", text, full.Score(text), boostOnly.Score(text))
		}
	}
}

func TestScoreResearcherScenario(t *testing.T) {
	p := profile.Resolve("PhD Researcher in Computational Biology", "literature review")
	s := NewScorer(p, DefaultWeights())

	rich := s.Score("The methodology section describes the dataset and benchmark used for evaluation")
	poor := s.Score("The cafeteria menu lists soups and sandwiches for the week")

	if rich <= poor {
		t.Errorf("rich = %v not above poor = %v", rich, poor)
	}
	if poor != 0 {
		t.Errorf("poor = %v, want 0", poor)
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"Hello, World!", []string{"hello", "world"}},
		{"cash-flow per Q3", []string{"cash", "flow", "per", "q3"}},
		{"", nil},
		{"...", nil},
	}
	for _, tt := range tests {
		got := tokenize(tt.text)
		if len(got) != len(tt.want) {
			t.Errorf("tokenize(%q) = %v, want %v", tt.text, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("tokenize(%q)[%d] = %q, want %q", tt.text, i, got[i], tt.want[i])
			}
		}
	}
}
