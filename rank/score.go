package rank

import (
	"strings"
	"unicode"

	"github.com/docsight/docsight/profile"
)

// Weights controls the relative contribution of the scoring terms.
type Weights struct {
	Persona       float64
	Job           float64
	CriticalBonus float64
}

// DefaultWeights returns the standard blend: job intent weighs more than
// persona background, and each critical-term occurrence adds a flat bonus.
func DefaultWeights() Weights {
	return Weights{Persona: 0.4, Job: 0.6, CriticalBonus: 0.1}
}

// Scorer scores text units against one resolved profile. The keyword
// lookups are prepared once and reused for every unit in the run.
type Scorer struct {
	weights  Weights
	persona  vocabulary
	job      vocabulary
	critical vocabulary
}

// NewScorer builds a scorer for the profile's vocabularies.
func NewScorer(p profile.Profile, w Weights) *Scorer {
	return &Scorer{
		weights:  w,
		persona:  newVocabulary(p.PersonaKeywords),
		job:      newVocabulary(p.JobKeywords),
		critical: newVocabulary(p.CriticalTerms),
	}
}

// Score computes the relevance of a text unit. Keyword-dense text can score
// past 1.0; the value signals match strength, not a probability. Empty
// units score zero.
func (s *Scorer) Score(text string) float64 {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return 0
	}
	wc := float64(len(tokens))

	personaScore := float64(s.persona.occurrences(tokens)) / wc
	jobScore := float64(s.job.occurrences(tokens)) / wc
	boost := s.weights.CriticalBonus * float64(s.critical.occurrences(tokens))

	return s.weights.Persona*personaScore + s.weights.Job*jobScore + boost
}

// vocabulary holds one keyword set split into single tokens and multi-token
// phrases so occurrence counting stays a single pass over the unit.
type vocabulary struct {
	single  map[string]bool
	phrases [][]string
}

func newVocabulary(keywords []string) vocabulary {
	v := vocabulary{single: make(map[string]bool, len(keywords))}
	for _, kw := range keywords {
		tokens := tokenize(kw)
		switch len(tokens) {
		case 0:
		case 1:
			v.single[tokens[0]] = true
		default:
			v.phrases = append(v.phrases, tokens)
		}
	}
	return v
}

// occurrences counts keyword hits in the token stream. Single keywords
// count every occurrence; phrases count non-overlapping matches.
func (v vocabulary) occurrences(tokens []string) int {
	n := 0
	for _, t := range tokens {
		if v.single[t] {
			n++
		}
	}
	for _, phrase := range v.phrases {
		for i := 0; i+len(phrase) <= len(tokens); {
			if matchAt(tokens, i, phrase) {
				n++
				i += len(phrase)
			} else {
				i++
			}
		}
	}
	return n
}

func matchAt(tokens []string, at int, phrase []string) bool {
	for j, p := range phrase {
		if tokens[at+j] != p {
			return false
		}
	}
	return true
}

// tokenize lowercases the text and splits on any rune that is neither a
// letter nor a digit.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
