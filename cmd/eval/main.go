// Command eval scores outline extraction against golden outline files.
//
// Golden outlines live next to the documents as <name>.json:
//
//	go run ./cmd/eval -docs ./testdata/corpus
//
// A separate golden directory and a JSON report are also supported:
//
//	go run ./cmd/eval -docs ./docs -golden ./golden -output report.json
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/docsight/docsight"
	"github.com/docsight/docsight/eval"
	"github.com/docsight/docsight/extract"
	"github.com/docsight/docsight/outline"
)

func main() {
	var (
		docsDir    = flag.String("docs", "", "Directory of input documents")
		goldenDir  = flag.String("golden", "", "Directory of golden outline JSON files (default: -docs)")
		configPath = flag.String("config", "", "Path to config file (YAML)")
		maxPages   = flag.Int("max-pages", 0, "Per-document page cap, 0 = unlimited")
		outputFile = flag.String("output", "", "Path to write the JSON report")
		logLevel   = flag.String("log-level", "warn", "Log level: debug, info, warn, error")
	)
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(*logLevel),
	})))

	if *docsDir == "" {
		fatal("missing -docs directory")
	}
	if *goldenDir == "" {
		*goldenDir = *docsDir
	}

	cfg := docsight.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = docsight.LoadConfig(*configPath); err != nil {
			fatal("loading config: %v", err)
		}
	}
	if *maxPages > 0 {
		cfg.MaxPages = *maxPages
	}
	// Evaluation runs never archive.
	cfg.StoreResults = false

	engine, err := docsight.New(cfg)
	if err != nil {
		fatal("creating engine: %v", err)
	}
	defer engine.Close()

	results := evaluate(context.Background(), engine, *docsDir, *goldenDir)
	if len(results) == 0 {
		fatal("no document under %s has a golden outline in %s", *docsDir, *goldenDir)
	}

	summary := eval.Summarize(results)
	fmt.Print(eval.FormatReport(results, summary))

	if *outputFile != "" {
		report := struct {
			Results []eval.Result `json:"results"`
			Summary eval.Summary  `json:"summary"`
		}{Results: results, Summary: summary}

		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			fatal("encoding report: %v", err)
		}
		if err := os.WriteFile(*outputFile, append(data, '\n'), 0o644); err != nil {
			fatal("writing %s: %v", *outputFile, err)
		}
		fmt.Fprintf(os.Stderr, "Report written to %s\n", *outputFile)
	}
}

// evaluate runs outline extraction over every supported document in docsDir
// that has a golden outline and compares the two.
func evaluate(ctx context.Context, engine docsight.Engine, docsDir, goldenDir string) []eval.Result {
	entries, err := os.ReadDir(docsDir)
	if err != nil {
		fatal("reading %s: %v", docsDir, err)
	}

	registry := extract.NewRegistry(extract.Options{})
	var results []eval.Result
	for _, entry := range entries {
		if entry.IsDir() || !registry.Supported(entry.Name()) {
			continue
		}

		stem := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		goldenPath := filepath.Join(goldenDir, stem+".json")
		want, err := eval.LoadGolden(goldenPath)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				slog.Warn("no golden outline, skipping", "document", entry.Name())
				continue
			}
			fatal("golden outline for %s: %v", entry.Name(), err)
		}

		path := filepath.Join(docsDir, entry.Name())
		res, err := engine.Outline(ctx, path)
		if err != nil {
			results = append(results, eval.Result{Document: entry.Name(), Error: err.Error()})
			continue
		}

		got := outline.Outline{Title: res.Title, Headings: res.Headings}
		results = append(results, eval.Compare(entry.Name(), got, *want))
	}
	return results
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "eval: "+format+"\n", args...)
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
