package profile

import (
	"slices"
	"testing"
)

// ---------- persona classification ----------

func TestResolvePersonaCategory(t *testing.T) {
	tests := []struct {
		persona string
		want    PersonaCategory
	}{
		{"PhD Researcher in Computational Biology", PersonaResearcher},
		{"Investment Analyst", PersonaAnalyst},
		{"Undergraduate Chemistry Student", PersonaStudent},
		{"freelance journalist covering technology", PersonaJournalist},
		{"Startup founder", PersonaEntrepreneur},
		{"Travel Planner", PersonaGeneric},
		{"", PersonaGeneric},
	}
	for _, tt := range tests {
		got := Resolve(tt.persona, "").Persona
		if got != tt.want {
			t.Errorf("Resolve(%q).Persona = %q, want %q", tt.persona, got, tt.want)
		}
	}
}

func TestResolvePersonaTieFirstListed(t *testing.T) {
	// One seed hit each for Analyst and Journalist; the earlier class wins.
	p := Resolve("analyst and journalist", "")
	if p.Persona != PersonaAnalyst {
		t.Errorf("Persona = %q, want %q on a tie", p.Persona, PersonaAnalyst)
	}
}

func TestResolvePersonaMostMatchesWins(t *testing.T) {
	// Researcher hits two seeds (phd, research) against Student's one.
	p := Resolve("student preparing a phd research proposal", "")
	if p.Persona != PersonaResearcher {
		t.Errorf("Persona = %q, want %q", p.Persona, PersonaResearcher)
	}
}

// ---------- job classification ----------

func TestResolveJobCategory(t *testing.T) {
	tests := []struct {
		job  string
		want JobCategory
	}{
		{"literature review of graph neural networks", JobLiteratureReview},
		{"prepare for the organic chemistry exam", JobExamPreparation},
		{"financial analysis of quarterly earnings", JobFinancialAnalysis},
		{"market research for a new product line", JobMarketResearch},
		{"summarize the main ideas", JobGeneric},
		{"", JobGeneric},
	}
	for _, tt := range tests {
		got := Resolve("", tt.job).Job
		if got != tt.want {
			t.Errorf("Resolve(_, %q).Job = %q, want %q", tt.job, got, tt.want)
		}
	}
}

// ---------- vocabularies ----------

func TestResolveKeywords(t *testing.T) {
	p := Resolve("PhD Researcher in Computational Biology", "literature review")

	if !slices.Contains(p.PersonaKeywords, "methodology") {
		t.Errorf("researcher keywords missing %q: %v", "methodology", p.PersonaKeywords)
	}
	for _, kw := range []string{"dataset", "benchmark"} {
		if !slices.Contains(p.JobKeywords, kw) {
			t.Errorf("literature review keywords missing %q: %v", kw, p.JobKeywords)
		}
	}
}

func TestResolveGenericKeywordsEmpty(t *testing.T) {
	p := Resolve("mystery person", "mystery task")

	if len(p.PersonaKeywords) != 0 {
		t.Errorf("generic persona keywords = %v, want empty", p.PersonaKeywords)
	}
	if len(p.JobKeywords) != 0 {
		t.Errorf("generic job keywords = %v, want empty", p.JobKeywords)
	}
	// The importance boost vocabulary is always present.
	want := []string{"key", "important", "essential", "critical", "significant"}
	if !slices.Equal(p.CriticalTerms, want) {
		t.Errorf("CriticalTerms = %v, want %v", p.CriticalTerms, want)
	}
}

func TestResolveTrimsRawText(t *testing.T) {
	p := Resolve("  Data Analyst  ", "\tfinancial analysis\n")
	if p.RawPersona != "Data Analyst" {
		t.Errorf("RawPersona = %q", p.RawPersona)
	}
	if p.RawJob != "financial analysis" {
		t.Errorf("RawJob = %q", p.RawJob)
	}
}

func TestResolveCaseInsensitive(t *testing.T) {
	if got := Resolve("SENIOR RESEARCH SCIENTIST", "").Persona; got != PersonaResearcher {
		t.Errorf("Persona = %q, want %q", got, PersonaResearcher)
	}
	if got := Resolve("", "Literature Review").Job; got != JobLiteratureReview {
		t.Errorf("Job = %q, want %q", got, JobLiteratureReview)
	}
}
