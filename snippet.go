package docsight

import (
	"strings"
	"unicode"
)

// snippetMaxLen caps a search snippet at roughly two sentences.
const snippetMaxLen = 300

// searchSnippet picks the one or two sentences of a stored section body
// that overlap the search query most. An empty string means no sentence
// mentions any query term; callers omit the snippet then.
func searchSnippet(body, query string) string {
	terms := queryTerms(query)
	if len(terms) == 0 || body == "" {
		return ""
	}

	sentences := splitSentences(body)
	if len(sentences) == 0 {
		return ""
	}

	scores := make([]int, len(sentences))
	best := 0
	for i, s := range sentences {
		for w := range queryTerms(s) {
			if terms[w] {
				scores[i]++
			}
		}
		if scores[i] > scores[best] {
			best = i
		}
	}
	if scores[best] == 0 {
		return ""
	}

	snippet := sentences[best]
	if next := bestNeighbor(scores, best); next >= 0 {
		joined := sentences[best] + " " + sentences[next]
		if next < best {
			joined = sentences[next] + " " + sentences[best]
		}
		if len(joined) <= snippetMaxLen {
			snippet = joined
		}
	}
	return snippet
}

// bestNeighbor returns the index of the higher-scoring sentence adjacent to
// best, or -1 when neither neighbor matches the query at all.
func bestNeighbor(scores []int, best int) int {
	next := -1
	top := 0
	for _, i := range []int{best + 1, best - 1} {
		if i >= 0 && i < len(scores) && scores[i] > top {
			top = scores[i]
			next = i
		}
	}
	return next
}

// queryTerms lowercases and tokenizes text, keeping words of three or more
// characters that are not stop words.
func queryTerms(text string) map[string]bool {
	terms := make(map[string]bool)
	for _, w := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if len(w) >= 3 && !snippetStopWords[w] {
			terms[w] = true
		}
	}
	return terms
}

// splitSentences cuts text at sentence-final punctuation followed by
// whitespace or end of text.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	runes := []rune(text)
	for i, r := range runes {
		if r != '.' && r != '?' && r != '!' {
			continue
		}
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}
		if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
			sentences = append(sentences, s)
		}
		start = i + 1
	}
	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// snippetStopWords are common words too generic to anchor a snippet.
var snippetStopWords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "was": true,
	"that": true, "this": true, "with": true, "from": true, "have": true,
	"been": true, "were": true, "they": true, "their": true, "will": true,
	"would": true, "could": true, "should": true, "about": true,
	"which": true, "there": true, "these": true, "those": true,
	"then": true, "than": true, "them": true, "what": true, "when": true,
	"where": true, "your": true, "more": true, "some": true, "such": true,
	"only": true, "also": true, "very": true, "just": true, "into": true,
	"over": true, "each": true, "does": true, "most": true, "after": true,
	"before": true, "other": true, "being": true, "same": true,
	"both": true, "between": true,
}
