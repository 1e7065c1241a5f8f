package outline

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/docsight/docsight/layout"
)

// Signal identifies which detector signal accepted a line.
type Signal string

const (
	SignalSize    Signal = "sizeThreshold"
	SignalBold    Signal = "boldFlag"
	SignalPattern Signal = "patternMatch"
	SignalKeyword Signal = "keywordMatch"
)

// Candidate is a line provisionally identified as a heading, before level
// assignment.
type Candidate struct {
	Text     string
	Page     int
	FontSize float64
	Signals  []Signal
}

// HasSignal reports whether the candidate fired the given signal.
func (c Candidate) HasSignal(s Signal) bool {
	for _, have := range c.Signals {
		if have == s {
			return true
		}
	}
	return false
}

// Config holds the detector thresholds. Zero values fall back to defaults so
// a partially filled config stays usable.
type Config struct {
	SizeAvgFactor     float64  // size signal: line size >= factor x document average
	SizeModeFactor    float64  // size signal: line size >= factor x document mode
	MaxTitleCaseWords int      // title-case pattern only fires at or below this word count
	ExtraKeywords     []string // additional keyword-signal terms, e.g. from a resolved profile
}

// DefaultConfig returns the tuned detector thresholds.
func DefaultConfig() Config {
	return Config{
		SizeAvgFactor:     1.1,
		SizeModeFactor:    1.05,
		MaxTitleCaseWords: 10,
	}
}

// ---------------------------------------------------------------------------
// Pattern signal
// ---------------------------------------------------------------------------

// headingPatterns match the explicit heading shapes that fire the pattern
// signal regardless of font size.
var headingPatterns = []*regexp.Regexp{
	// "Chapter 3", "Section 2.1:", "Part 4."
	regexp.MustCompile(`(?i)^(chapter|section|part)\s+\d+`),
	// Numbered outline prefixes: "1. Title", "2.3 Title", "4.1.2 Title"
	regexp.MustCompile(`^\d+(\.\d+)*[.)]?\s+\S`),
}

// structuralKeywords fire the keyword signal when a line equals or starts
// with one of them, case-insensitively.
var structuralKeywords = []string{
	"introduction", "overview", "background", "methodology", "methods",
	"results", "discussion", "conclusion", "abstract", "summary",
	"literature", "references", "appendix", "acknowledgments",
	"contents", "index",
}

// ---------------------------------------------------------------------------
// Detection
// ---------------------------------------------------------------------------

// Detect evaluates every line against the four heading signals and returns
// the survivors in reading order. A line is accepted when any signal fires
// and no rejection filter triggers.
func Detect(lines []layout.Line, stats layout.FontStats, cfg Config) []Candidate {
	if cfg.SizeAvgFactor <= 0 {
		cfg.SizeAvgFactor = DefaultConfig().SizeAvgFactor
	}
	if cfg.SizeModeFactor <= 0 {
		cfg.SizeModeFactor = DefaultConfig().SizeModeFactor
	}
	if cfg.MaxTitleCaseWords <= 0 {
		cfg.MaxTitleCaseWords = DefaultConfig().MaxTitleCaseWords
	}

	keywords := structuralKeywords
	if len(cfg.ExtraKeywords) > 0 {
		keywords = append(append([]string{}, structuralKeywords...), cfg.ExtraKeywords...)
	}

	var cands []Candidate
	for _, ln := range lines {
		text := strings.TrimSpace(ln.Text)
		if rejected(text) {
			continue
		}

		var signals []Signal
		if ln.FontSize >= cfg.SizeAvgFactor*stats.AvgSize ||
			ln.FontSize >= cfg.SizeModeFactor*stats.ModeSize {
			signals = append(signals, SignalSize)
		}
		// Bold alone at body size is not sufficient.
		if ln.Bold && ln.FontSize >= stats.ModeSize {
			signals = append(signals, SignalBold)
		}
		if matchesPattern(text, cfg.MaxTitleCaseWords) {
			signals = append(signals, SignalPattern)
		}
		if matchesKeyword(text, keywords) {
			signals = append(signals, SignalKeyword)
		}

		if len(signals) == 0 {
			continue
		}
		cands = append(cands, Candidate{
			Text:     text,
			Page:     ln.Page,
			FontSize: ln.FontSize,
			Signals:  signals,
		})
	}
	return cands
}

// rejected applies the filters that discard a line no matter which signals
// fired: implausible lengths, text without a single letter, and lines ending
// in sentence punctuation.
func rejected(text string) bool {
	n := len([]rune(text))
	if n < 3 || n > 200 {
		return true
	}
	if !hasLetter(text) {
		return true
	}
	switch text[len(text)-1] {
	case '.', '!', '?':
		return true
	}
	return false
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func matchesPattern(text string, maxTitleCaseWords int) bool {
	for _, re := range headingPatterns {
		if re.MatchString(text) {
			return true
		}
	}
	if isAllCaps(text) {
		return true
	}
	return isTitleCase(text, maxTitleCaseWords)
}

// isAllCaps reports whether a line is fully upper-case prose: at least three
// letters, over 90% of them upper-case.
func isAllCaps(text string) bool {
	letters, upper := 0, 0
	for _, r := range text {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	return letters >= 3 && float64(upper) > 0.9*float64(letters)
}

// isTitleCase reports whether a short line capitalizes every word.
func isTitleCase(text string, maxWords int) bool {
	words := strings.Fields(text)
	if len(words) == 0 || len(words) > maxWords {
		return false
	}
	for _, w := range words {
		r := firstLetter(w)
		if r == 0 {
			continue // numbers and punctuation-only tokens don't break title case
		}
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

func firstLetter(w string) rune {
	for _, r := range w {
		if unicode.IsLetter(r) {
			return r
		}
	}
	return 0
}

func matchesKeyword(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.HasPrefix(lower, kw) {
			return true
		}
	}
	return false
}
