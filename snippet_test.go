package docsight

import (
	"strings"
	"testing"
)

func TestSearchSnippetBasicOverlap(t *testing.T) {
	body := "The motor operates at 5kW rated power. The voltage supply is 230V AC. " +
		"Safety requirements follow ISO 13849."

	snippet := searchSnippet(body, "motor rated power")
	if snippet == "" {
		t.Fatal("expected non-empty snippet")
	}
	if !strings.Contains(snippet, "motor") {
		t.Errorf("snippet misses the matching sentence: %q", snippet)
	}
}

func TestSearchSnippetNoOverlap(t *testing.T) {
	body := "The quick brown fox jumps over the lazy dog."

	if snippet := searchSnippet(body, "quantum superconducting qubits"); snippet != "" {
		t.Errorf("expected empty snippet without overlap, got %q", snippet)
	}
}

func TestSearchSnippetEmptyInputs(t *testing.T) {
	if s := searchSnippet("", "motor"); s != "" {
		t.Errorf("empty body: got %q", s)
	}
	if s := searchSnippet("some content here.", ""); s != "" {
		t.Errorf("empty query: got %q", s)
	}
	// A query of nothing but stop words matches nothing.
	if s := searchSnippet("some content here.", "the and with"); s != "" {
		t.Errorf("stop-word query: got %q", s)
	}
}

func TestSearchSnippetMaxLen(t *testing.T) {
	body := "First sentence about motors. Second sentence about voltage ratings. " +
		"Third sentence about safety compliance. Fourth sentence about wiring diagrams. " +
		"Fifth sentence about installation procedures. Sixth sentence about maintenance schedules."

	snippet := searchSnippet(body, "motors voltage safety wiring installation maintenance")
	if len(snippet) > snippetMaxLen {
		t.Errorf("snippet length %d exceeds %d", len(snippet), snippetMaxLen)
	}
}

func TestSearchSnippetAdjacentSentence(t *testing.T) {
	body := "Setup is easy. The motor runs at 5kW. The voltage is 230V."

	snippet := searchSnippet(body, "motor voltage")
	if !strings.Contains(snippet, "motor") || !strings.Contains(snippet, "voltage") {
		t.Errorf("expected both matching sentences, got %q", snippet)
	}
}

func TestQueryTerms(t *testing.T) {
	terms := queryTerms("The motor operates at 5kW. This is very important for safety.")

	for _, want := range []string{"motor", "operates", "important", "safety", "5kw"} {
		if !terms[want] {
			t.Errorf("missing term %q", want)
		}
	}
	for _, skip := range []string{"this", "very", "the", "at", "is"} {
		if terms[skip] {
			t.Errorf("term %q should be dropped", skip)
		}
	}
}

func TestSplitSentences(t *testing.T) {
	text := "First sentence. Second sentence? Third sentence! Final text without period"

	got := splitSentences(text)
	want := []string{
		"First sentence.",
		"Second sentence?",
		"Third sentence!",
		"Final text without period",
	}
	if len(got) != len(want) {
		t.Fatalf("sentences: got %d, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sentence %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSplitSentencesDecimalNumbers(t *testing.T) {
	// A period inside a number is not a sentence boundary.
	got := splitSentences("Revenue grew 3.5 percent. Costs fell.")
	if len(got) != 2 {
		t.Fatalf("sentences: got %d, want 2: %v", len(got), got)
	}
	if got[0] != "Revenue grew 3.5 percent." {
		t.Errorf("first sentence: got %q", got[0])
	}
}
