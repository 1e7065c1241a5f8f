// Package profile classifies free-text persona and job descriptions into
// closed categories and supplies the keyword vocabularies the ranking layer
// scores sections against.
package profile

import "strings"

// PersonaCategory identifies who the analysis is for.
type PersonaCategory string

const (
	PersonaResearcher   PersonaCategory = "researcher"
	PersonaStudent      PersonaCategory = "student"
	PersonaAnalyst      PersonaCategory = "analyst"
	PersonaJournalist   PersonaCategory = "journalist"
	PersonaEntrepreneur PersonaCategory = "entrepreneur"
	PersonaGeneric      PersonaCategory = "generic"
)

// JobCategory identifies what the reader is trying to get done.
type JobCategory string

const (
	JobLiteratureReview  JobCategory = "literature_review"
	JobExamPreparation   JobCategory = "exam_preparation"
	JobFinancialAnalysis JobCategory = "financial_analysis"
	JobMarketResearch    JobCategory = "market_research"
	JobGeneric           JobCategory = "generic"
)

// Profile is the resolved scoring profile for one analysis run. The keyword
// slices are copies owned by the profile; Generic categories carry empty
// keyword sets so scoring degrades to the critical-term boost alone.
type Profile struct {
	Persona         PersonaCategory
	Job             JobCategory
	RawPersona      string
	RawJob          string
	PersonaKeywords []string
	JobKeywords     []string
	CriticalTerms   []string
}

// criticalTerms boost any section that flags its own importance, regardless
// of the resolved categories.
var criticalTerms = []string{"key", "important", "essential", "critical", "significant"}

type personaClass struct {
	cat      PersonaCategory
	seeds    []string
	keywords []string
}

type jobClass struct {
	cat      JobCategory
	seeds    []string
	keywords []string
}

// Seed terms are matched by substring against the lowercased input, so
// "researcher" also satisfies the "research" seed. Order matters: on an
// exact match-count tie the earlier class wins.
var personaClasses = []personaClass{
	{
		cat:   PersonaResearcher,
		seeds: []string{"researcher", "research", "phd", "scientist", "professor", "academic", "postdoc", "scholar"},
		keywords: []string{
			"methodology", "hypothesis", "experiment", "dataset", "results",
			"analysis", "literature", "findings", "study", "evaluation",
			"abstract", "conclusion",
		},
	},
	{
		cat:   PersonaStudent,
		seeds: []string{"student", "undergraduate", "graduate", "learner", "freshman", "sophomore"},
		keywords: []string{
			"definition", "concept", "example", "summary", "exercise",
			"chapter", "introduction", "basics", "explanation", "practice",
			"formula", "principle",
		},
	},
	{
		cat:   PersonaAnalyst,
		seeds: []string{"analyst", "consultant", "advisor", "strategist", "banker"},
		keywords: []string{
			"revenue", "growth", "trend", "investment", "market",
			"performance", "forecast", "risk", "profit", "margin",
			"strategy", "valuation",
		},
	},
	{
		cat:   PersonaJournalist,
		seeds: []string{"journalist", "reporter", "editor", "correspondent", "columnist"},
		keywords: []string{
			"source", "statement", "event", "interview", "quote",
			"timeline", "evidence", "disclosure", "report", "investigation",
		},
	},
	{
		cat:   PersonaEntrepreneur,
		seeds: []string{"entrepreneur", "founder", "startup", "owner", "ceo"},
		keywords: []string{
			"opportunity", "customer", "product", "funding", "competition",
			"pricing", "launch", "scale", "partnership", "model",
		},
	},
}

var jobClasses = []jobClass{
	{
		cat:   JobLiteratureReview,
		seeds: []string{"literature review", "literature survey", "related work", "state of the art", "survey of research"},
		keywords: []string{
			"methodology", "dataset", "benchmark", "baseline", "approach",
			"evaluation", "citation", "contribution", "limitation", "comparison",
		},
	},
	{
		cat:   JobExamPreparation,
		seeds: []string{"exam", "test preparation", "study for", "revision", "quiz", "midterm"},
		keywords: []string{
			"definition", "formula", "concept", "theorem", "example",
			"summary", "principle", "rule", "practice", "solution",
		},
	},
	{
		cat:   JobFinancialAnalysis,
		seeds: []string{"financial analysis", "financial", "earnings", "investment analysis", "valuation", "annual report"},
		keywords: []string{
			"revenue", "income", "cash flow", "margin", "expense",
			"asset", "liability", "equity", "ratio", "dividend",
		},
	},
	{
		cat:   JobMarketResearch,
		seeds: []string{"market research", "market analysis", "competitive analysis", "customer survey", "market sizing"},
		keywords: []string{
			"market", "segment", "demand", "consumer", "competitor",
			"share", "trend", "growth", "survey", "audience",
		},
	},
}

// Resolve classifies the persona and job text and assembles the scoring
// vocabularies. It never fails: text matching no category resolves to the
// Generic fallback with an empty keyword set.
func Resolve(persona, job string) Profile {
	p := Profile{
		Persona:       PersonaGeneric,
		Job:           JobGeneric,
		RawPersona:    strings.TrimSpace(persona),
		RawJob:        strings.TrimSpace(job),
		CriticalTerms: append([]string(nil), criticalTerms...),
	}

	if cls := classifyPersona(p.RawPersona); cls != nil {
		p.Persona = cls.cat
		p.PersonaKeywords = append([]string(nil), cls.keywords...)
	}
	if cls := classifyJob(p.RawJob); cls != nil {
		p.Job = cls.cat
		p.JobKeywords = append([]string(nil), cls.keywords...)
	}
	return p
}

func classifyPersona(text string) *personaClass {
	lower := strings.ToLower(text)
	var best *personaClass
	bestMatches := 0
	for i := range personaClasses {
		if n := countSeeds(lower, personaClasses[i].seeds); n > bestMatches {
			bestMatches = n
			best = &personaClasses[i]
		}
	}
	return best
}

func classifyJob(text string) *jobClass {
	lower := strings.ToLower(text)
	var best *jobClass
	bestMatches := 0
	for i := range jobClasses {
		if n := countSeeds(lower, jobClasses[i].seeds); n > bestMatches {
			bestMatches = n
			best = &jobClasses[i]
		}
	}
	return best
}

func countSeeds(lower string, seeds []string) int {
	n := 0
	for _, s := range seeds {
		if strings.Contains(lower, s) {
			n++
		}
	}
	return n
}
