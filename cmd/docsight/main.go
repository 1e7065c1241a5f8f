// Command docsight extracts document outlines and ranks sections against a
// reader persona over a directory of documents.
//
// Outline mode writes one JSON artifact per input document:
//
//	go run -tags sqlite_fts5 ./cmd/docsight \
//	  -input ./docs -output ./out
//
// Analysis mode ranks sections across the collection and writes a single
// analysis.json:
//
//	go run -tags sqlite_fts5 ./cmd/docsight \
//	  -input ./docs -output ./out \
//	  -persona "Investment Analyst" \
//	  -job "Analyze revenue trends and R&D investments"
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/docsight/docsight"
	"github.com/docsight/docsight/extract"
)

func main() {
	var (
		inputDir    = flag.String("input", "", "Directory of input documents")
		outputDir   = flag.String("output", "", "Directory for JSON artifacts")
		persona     = flag.String("persona", "", "Reader persona (enables analysis mode)")
		job         = flag.String("job", "", "Job to be done (enables analysis mode)")
		configPath  = flag.String("config", "", "Path to config file (YAML)")
		dbPath      = flag.String("db", "", "SQLite database path (overrides config)")
		logLevel    = flag.String("log-level", "info", "Log level: debug, info, warn, error")
		maxPages    = flag.Int("max-pages", 0, "Per-document page cap, 0 = unlimited")
		topSections = flag.Int("top-sections", 0, "Ranked sections to emit (analysis mode)")
		maxExcerpts = flag.Int("max-excerpts", 0, "Refined excerpts to emit (analysis mode)")
		noStore     = flag.Bool("no-store", false, "Disable run archiving")
	)
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(*logLevel),
	})))

	if *inputDir == "" {
		fatal("missing -input directory")
	}
	if *outputDir == "" {
		fatal("missing -output directory")
	}
	analyzeMode := *persona != "" || *job != ""

	cfg := docsight.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = docsight.LoadConfig(*configPath); err != nil {
			fatal("loading config: %v", err)
		}
	}
	if v := os.Getenv("DOCSIGHT_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *noStore {
		cfg.StoreResults = false
	}
	if *maxPages > 0 {
		cfg.MaxPages = *maxPages
	}
	if *topSections > 0 {
		cfg.TopSections = *topSections
	}
	if *maxExcerpts > 0 {
		cfg.MaxExcerpts = *maxExcerpts
	}

	engine, err := docsight.New(cfg)
	if err != nil {
		fatal("creating engine: %v", err)
	}
	defer engine.Close()

	ctx := context.Background()
	start := time.Now()

	if analyzeMode {
		runAnalyze(ctx, engine, *inputDir, *outputDir, *persona, *job)
	} else {
		runOutline(ctx, engine, *inputDir, *outputDir)
	}

	slog.Info("done", "elapsed", time.Since(start).Round(time.Millisecond))
}

// runOutline processes every supported document under inputDir and writes
// one <name>.json outline per document into outputDir.
func runOutline(ctx context.Context, engine docsight.Engine, inputDir, outputDir string) {
	res, err := engine.OutlineDir(ctx, inputDir, outputDir)
	if err != nil && !errors.Is(err, docsight.ErrNoValidDocuments) {
		fatal("outline: %v", err)
	}

	for _, f := range res.Failed {
		slog.Warn("document failed", "document", f.Document, "error", f.Error)
	}
	fmt.Fprintf(os.Stderr, "Processed %d document(s), %d failed\n", len(res.Processed), len(res.Failed))

	if len(res.Processed) == 0 {
		fatal("no document under %s could be processed", inputDir)
	}
}

// runAnalyze feeds the whole collection through section ranking and writes
// outputDir/analysis.json.
func runAnalyze(ctx context.Context, engine docsight.Engine, inputDir, outputDir, persona, job string) {
	paths, err := collectDocuments(inputDir)
	if err != nil {
		fatal("reading input directory: %v", err)
	}
	if len(paths) == 0 {
		fatal("no supported documents under %s", inputDir)
	}

	res, err := engine.Analyze(ctx, docsight.AnalysisRequest{
		Paths:   paths,
		Persona: persona,
		Job:     job,
	})
	if err != nil {
		fatal("analyze: %v", err)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		fatal("creating output directory: %v", err)
	}
	out := filepath.Join(outputDir, "analysis.json")
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		fatal("encoding analysis: %v", err)
	}
	if err := os.WriteFile(out, append(data, '\n'), 0o644); err != nil {
		fatal("writing %s: %v", out, err)
	}

	fmt.Fprintf(os.Stderr, "Analyzed %d document(s), wrote %s\n", len(res.Metadata.InputDocuments), out)
}

// collectDocuments returns the supported files directly under dir. ReadDir
// sorts by name, which fixes document order across runs.
func collectDocuments(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	registry := extract.NewRegistry(extract.Options{})
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !registry.Supported(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	return paths, nil
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "docsight: "+format+"\n", args...)
	os.Exit(1)
}

func parseLogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
