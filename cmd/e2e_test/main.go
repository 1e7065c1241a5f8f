package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/docsight/docsight"
)

// Smoke test for the whole pipeline: writes a small corpus, extracts an
// outline, runs a persona analysis with archiving on, then reads the run
// back and searches it. Build with -tags sqlite_fts5.

const reportDoc = `# Quarterly Revenue Report

Opening summary of the quarter in plain language.

## Revenue Trends

Revenue grew across both core segments with notable gains in subscriptions.
The services segment recovered after two flat quarters.

## R&D Investments

Research spending increased to support the new platform initiative.

### Hiring Plan

Engineering headcount grows by twelve positions over the next two quarters.
`

const strategyDoc = `# Market Strategy Notes

## Competitive Positioning

The product now leads the mid-market tier on both price and capability.
Two competitors exited the segment during the quarter.
`

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	tmpDir, err := os.MkdirTemp("", "docsight-e2e-*")
	if err != nil {
		fail("temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	docs := []struct{ name, content string }{
		{"report.md", reportDoc},
		{"strategy.md", strategyDoc},
	}
	var paths []string
	for _, d := range docs {
		p := filepath.Join(tmpDir, d.name)
		if err := os.WriteFile(p, []byte(d.content), 0o644); err != nil {
			fail("writing %s: %v", d.name, err)
		}
		paths = append(paths, p)
	}

	cfg := docsight.DefaultConfig()
	cfg.StoreResults = true
	cfg.DBPath = filepath.Join(tmpDir, "docsight.db")

	engine, err := docsight.New(cfg)
	if err != nil {
		fail("creating engine: %v", err)
	}
	defer engine.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// Outline
	fmt.Fprintf(os.Stderr, "\n=== OUTLINE %s ===\n", paths[0])
	outline, err := engine.Outline(ctx, paths[0])
	if err != nil {
		fail("outline error: %v", err)
	}
	if outline.Title == "" || len(outline.Headings) == 0 {
		fail("outline empty: title=%q headings=%d", outline.Title, len(outline.Headings))
	}
	fmt.Fprintf(os.Stderr, "Title: %s (%d headings)\n", outline.Title, len(outline.Headings))

	// Analyze
	persona := "Investment Analyst"
	job := "Analyze revenue trends, R&D investments, and market positioning"
	fmt.Fprintf(os.Stderr, "\n=== ANALYZE %d documents for %q ===\n", len(paths), persona)
	res, err := engine.Analyze(ctx, docsight.AnalysisRequest{
		Paths:   paths,
		Persona: persona,
		Job:     job,
	})
	if err != nil {
		fail("analyze error: %v", err)
	}
	if len(res.Sections) == 0 {
		fail("analysis returned no ranked sections")
	}
	fmt.Fprintf(os.Stderr, "Run %s: %d sections, %d excerpts\n",
		res.Metadata.RunID, len(res.Sections), len(res.Excerpts))

	// Read the archived run back
	fmt.Fprintf(os.Stderr, "\n=== RUN HISTORY ===\n")
	stored, err := engine.GetRun(ctx, res.Metadata.RunID)
	if err != nil {
		fail("get run error: %v", err)
	}
	if len(stored.Documents) != len(paths) {
		fail("stored documents: got %d, want %d", len(stored.Documents), len(paths))
	}
	fmt.Fprintf(os.Stderr, "Archived %d documents, %d sections\n",
		len(stored.Documents), len(stored.Sections))

	// Search
	query := "revenue"
	fmt.Fprintf(os.Stderr, "\n=== SEARCH %q ===\n", query)
	hits, err := engine.Search(ctx, query, 5)
	if err != nil {
		fail("search error: %v", err)
	}
	if len(hits) == 0 {
		fail("no search hits for %q", query)
	}
	fmt.Fprintf(os.Stderr, "%d hit(s), top: %s / %s\n", len(hits), hits[0].Document, hits[0].Title)

	out, _ := json.MarshalIndent(res, "", "  ")
	fmt.Println(string(out))
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
