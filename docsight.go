package docsight

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/docsight/docsight/extract"
	"github.com/docsight/docsight/layout"
	"github.com/docsight/docsight/outline"
	"github.com/docsight/docsight/profile"
	"github.com/docsight/docsight/rank"
	"github.com/docsight/docsight/section"
	"github.com/docsight/docsight/store"
)

// Engine is the main entry point for document outline extraction and
// persona-driven section analysis.
type Engine interface {
	// Outline runs the structural outline pipeline on one document.
	// A document with no detected headings yields a title-only outline,
	// not an error.
	Outline(ctx context.Context, path string, opts ...OutlineOption) (*OutlineResult, error)

	// OutlineDir outlines every supported document in inputDir in sorted
	// name order, writing one <stem>.json artifact per input to outputDir.
	// Per-document failures are logged and recorded in BatchResult.Failed;
	// the batch fails only when no document succeeds.
	OutlineDir(ctx context.Context, inputDir, outputDir string) (*BatchResult, error)

	// Analyze ranks the sections of a document collection against a reader
	// persona and job description. Failed documents are skipped; the run
	// fails only when no document could be processed.
	Analyze(ctx context.Context, req AnalysisRequest, opts ...AnalyzeOption) (*AnalysisResult, error)

	// Search runs a full-text query over archived section bodies.
	Search(ctx context.Context, query string, limit int) ([]store.SearchResult, error)

	// ListRuns returns recent archived runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]store.Run, error)

	// GetRun retrieves one archived run with all of its stored rows.
	GetRun(ctx context.Context, id string) (*RunResult, error)

	// DeleteRun removes an archived run and everything stored for it.
	DeleteRun(ctx context.Context, id string) error

	// Store returns the underlying result store, or nil when archiving is
	// disabled.
	Store() *store.Store

	// Close releases the engine's resources.
	Close() error
}

// OutlineResult is the outline artifact for one document. Its JSON form is
// exactly the per-document wire shape written by OutlineDir.
type OutlineResult struct {
	Title    string            `json:"title"`
	Headings []outline.Heading `json:"outline"`

	// Input identification, not part of the serialized artifact.
	Document string `json:"-"`
	Format   string `json:"-"`
	Pages    int    `json:"-"`
}

// BatchResult summarizes one OutlineDir run.
type BatchResult struct {
	Processed []string       `json:"processed"`
	Failed    []BatchFailure `json:"failed,omitempty"`
}

// BatchFailure records one document the batch skipped.
type BatchFailure struct {
	Document string `json:"document"`
	Error    error  `json:"error,omitempty"`
}

// AnalysisRequest names the inputs for one persona-driven analysis run.
// Documents are processed in the listed order.
type AnalysisRequest struct {
	Paths   []string
	Persona string
	Job     string
}

// AnalysisResult is the analysis artifact: run metadata, the top-ranked
// sections across all documents, and the refined sub-section excerpts.
type AnalysisResult struct {
	Metadata Metadata         `json:"metadata"`
	Sections []RankedSection  `json:"extracted_sections"`
	Excerpts []RefinedExcerpt `json:"subsection_analysis"`
}

// Metadata identifies one analysis run. Persona and Job carry the request
// text verbatim; InputDocuments lists every requested document by base name
// in input order, including ones that were skipped.
type Metadata struct {
	InputDocuments []string `json:"input_documents"`
	Persona        string   `json:"persona"`
	Job            string   `json:"job"`
	Timestamp      string   `json:"timestamp"`
	RunID          string   `json:"run_id"`
}

// RankedSection is one entry of the extracted_sections output.
type RankedSection struct {
	Document string `json:"document"`
	Title    string `json:"section_title"`
	Rank     int    `json:"importance_rank"`
	Page     int    `json:"page"`
}

// RefinedExcerpt is one entry of the subsection_analysis output.
type RefinedExcerpt struct {
	Document  string  `json:"document"`
	Text      string  `json:"refined_text"`
	Page      int     `json:"page"`
	Relevance float64 `json:"relevance_score"`
}

// RunResult is a fully hydrated archived run. Sections and Excerpts are
// empty for outline runs.
type RunResult struct {
	Run       store.Run             `json:"run"`
	Documents []StoredDocument      `json:"documents"`
	Sections  []store.RankedSection `json:"extracted_sections,omitempty"`
	Excerpts  []store.RankedExcerpt `json:"subsection_analysis,omitempty"`
}

// StoredDocument pairs an archived document with its stored outline.
type StoredDocument struct {
	store.Document
	Headings []store.Heading `json:"outline,omitempty"`
}

// OutlineOption configures one Outline call.
type OutlineOption func(*outlineOptions)

type outlineOptions struct {
	format string
}

// WithFormat overrides extension-based extractor selection, for inputs whose
// file name does not reflect their format.
func WithFormat(format string) OutlineOption {
	return func(o *outlineOptions) { o.format = format }
}

// AnalyzeOption configures one Analyze call.
type AnalyzeOption func(*analyzeOptions)

type analyzeOptions struct {
	topSections     int
	maxExcerpts     int
	headingKeywords []string
}

// WithTopSections overrides the configured ranked-section limit for this run.
func WithTopSections(n int) AnalyzeOption {
	return func(o *analyzeOptions) { o.topSections = n }
}

// WithMaxExcerpts overrides the configured excerpt limit for this run.
func WithMaxExcerpts(n int) AnalyzeOption {
	return func(o *analyzeOptions) { o.maxExcerpts = n }
}

// WithHeadingKeywords adds keyword-signal terms to heading detection for
// this run, for section names the built-in list does not cover.
func WithHeadingKeywords(words ...string) AnalyzeOption {
	return func(o *analyzeOptions) { o.headingKeywords = words }
}

// engine is the concrete implementation of Engine.
type engine struct {
	cfg       Config
	registry  *extract.Registry
	layoutCfg layout.Config
	detectCfg outline.Config
	weights   rank.Weights
	store     *store.Store // nil when archiving is disabled
}

// New creates a docsight engine. Zero-valued heuristic knobs fall back to
// the tuned defaults, so a sparse Config behaves like DefaultConfig for the
// fields it leaves out.
func New(cfg Config) (Engine, error) {
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &engine{
		cfg: cfg,
		registry: extract.NewRegistry(extract.Options{
			MaxPages:       cfg.MaxPages,
			PageBreakLines: cfg.PageBreakLines,
		}),
		layoutCfg: layout.Config{
			LineTolerance: cfg.LineTolerance,
			GapFactor:     cfg.GapFactor,
		},
		detectCfg: outline.Config{
			SizeAvgFactor:     cfg.SizeAvgFactor,
			SizeModeFactor:    cfg.SizeModeFactor,
			MaxTitleCaseWords: cfg.MaxTitleCaseWords,
		},
		weights: rank.Weights{
			Persona:       cfg.PersonaWeight,
			Job:           cfg.JobWeight,
			CriticalBonus: cfg.CriticalBonus,
		},
	}

	if cfg.StoreResults {
		s, err := store.New(cfg.resolveDBPath())
		if err != nil {
			return nil, fmt.Errorf("opening store: %w", err)
		}
		e.store = s
	}
	return e, nil
}

// Outline runs the outline pipeline for a single document.
func (e *engine) Outline(ctx context.Context, path string, opts ...OutlineOption) (*OutlineResult, error) {
	options := &outlineOptions{}
	for _, o := range opts {
		o(options)
	}

	start := time.Now()
	p, err := e.process(ctx, path, options.format, e.detectCfg)
	if err != nil {
		return nil, err
	}

	slog.Info("outline: document processed",
		"file", p.doc.Name, "format", p.format, "pages", p.doc.Pages,
		"headings", len(p.outline.Headings),
		"elapsed", time.Since(start).Round(time.Millisecond))

	if e.store != nil {
		run := store.Run{ID: uuid.NewString(), Kind: store.RunKindOutline}
		if err := e.store.SaveRun(ctx, run, []store.DocumentRecord{outlineRecord(p)}); err != nil {
			slog.Warn("outline: archiving failed", "file", p.doc.Name, "error", err)
		}
	}
	return outlineResult(p), nil
}

// OutlineDir outlines a directory of documents and writes one JSON artifact
// per input. The whole batch is archived as a single run.
func (e *engine) OutlineDir(ctx context.Context, inputDir, outputDir string) (*BatchResult, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory: %w", err)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	batch := &BatchResult{}
	var records []store.DocumentRecord

	// os.ReadDir returns entries sorted by name, which fixes batch order.
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(inputDir, entry.Name())
		if !e.registry.Supported(path) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return batch, err
		}

		start := time.Now()
		p, err := e.process(ctx, path, "", e.detectCfg)
		if err != nil {
			slog.Warn("batch: skipping document", "file", entry.Name(), "error", err)
			batch.Failed = append(batch.Failed, BatchFailure{Document: entry.Name(), Error: err})
			records = append(records, failedRecord(path))
			continue
		}

		outPath := filepath.Join(outputDir, stem(entry.Name())+".json")
		if err := writeJSON(outPath, outlineResult(p)); err != nil {
			slog.Warn("batch: writing artifact failed", "file", entry.Name(), "error", err)
			batch.Failed = append(batch.Failed, BatchFailure{Document: entry.Name(), Error: err})
			continue
		}

		slog.Info("batch: document complete",
			"file", entry.Name(), "pages", p.doc.Pages,
			"headings", len(p.outline.Headings),
			"elapsed", time.Since(start).Round(time.Millisecond))
		batch.Processed = append(batch.Processed, entry.Name())
		records = append(records, outlineRecord(p))
	}

	if e.store != nil && len(records) > 0 {
		run := store.Run{ID: uuid.NewString(), Kind: store.RunKindOutline}
		if err := e.store.SaveRun(ctx, run, records); err != nil {
			slog.Warn("batch: archiving failed", "run_id", run.ID, "error", err)
		}
	}

	if len(batch.Processed) == 0 {
		return batch, ErrNoValidDocuments
	}
	return batch, nil
}

// Analyze runs the full persona-driven pipeline over a document collection.
func (e *engine) Analyze(ctx context.Context, req AnalysisRequest, opts ...AnalyzeOption) (*AnalysisResult, error) {
	options := &analyzeOptions{
		topSections: e.cfg.TopSections,
		maxExcerpts: e.cfg.MaxExcerpts,
	}
	for _, o := range opts {
		o(options)
	}

	if len(req.Paths) == 0 {
		return nil, ErrEmptyInput
	}

	prof := profile.Resolve(req.Persona, req.Job)
	scorer := rank.NewScorer(prof, e.weights)

	detect := e.detectCfg
	detect.ExtraKeywords = options.headingKeywords

	names := make([]string, 0, len(req.Paths))
	var (
		docs    [][]section.Section
		owners  []int // record index per entry of docs
		records []store.DocumentRecord
	)

	for _, path := range req.Paths {
		names = append(names, filepath.Base(path))
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		p, err := e.process(ctx, path, "", detect)
		if err != nil {
			slog.Warn("analyze: skipping document", "file", filepath.Base(path), "error", err)
			records = append(records, failedRecord(path))
			continue
		}

		secs := section.Segment(p.doc.Name, p.lines, p.outline.Headings)
		slog.Info("analyze: document processed",
			"file", p.doc.Name, "pages", p.doc.Pages, "sections", len(secs),
			"elapsed", time.Since(start).Round(time.Millisecond))

		docs = append(docs, secs)
		owners = append(owners, len(records))
		records = append(records, outlineRecord(p))
	}

	if len(docs) == 0 {
		return nil, ErrNoValidDocuments
	}

	allRanked := rank.Rank(docs, scorer)
	top := rank.Top(allRanked, options.topSections)
	excerpts := rank.Refine(docs, scorer, options.maxExcerpts)

	slog.Info("analyze: ranking complete",
		"persona_category", prof.Persona, "job_category", prof.Job,
		"sections", len(allRanked), "reported", len(top), "excerpts", len(excerpts))

	res := &AnalysisResult{
		Metadata: Metadata{
			InputDocuments: names,
			Persona:        req.Persona,
			Job:            req.Job,
			Timestamp:      time.Now().UTC().Format(time.RFC3339),
			RunID:          uuid.NewString(),
		},
		Sections: make([]RankedSection, 0, len(top)),
		Excerpts: make([]RefinedExcerpt, 0, len(excerpts)),
	}
	for _, r := range top {
		res.Sections = append(res.Sections, RankedSection{
			Document: r.Section.Document,
			Title:    r.Section.Heading.Text,
			Rank:     r.Rank,
			Page:     r.Section.Page,
		})
	}
	for _, x := range excerpts {
		res.Excerpts = append(res.Excerpts, RefinedExcerpt{
			Document:  x.Document,
			Text:      x.Text,
			Page:      x.Page,
			Relevance: x.Relevance,
		})
	}

	if e.store != nil {
		attachAnalysisRows(records, owners, allRanked, excerpts)
		run := store.Run{
			ID:              res.Metadata.RunID,
			Kind:            store.RunKindAnalysis,
			Persona:         req.Persona,
			Job:             req.Job,
			PersonaCategory: string(prof.Persona),
			JobCategory:     string(prof.Job),
		}
		if err := e.store.SaveRun(ctx, run, records); err != nil {
			slog.Warn("analyze: archiving failed", "run_id", run.ID, "error", err)
		}
	}
	return res, nil
}

// Search queries archived section bodies. Each hit carries a short snippet
// around the best-matching sentences.
func (e *engine) Search(ctx context.Context, query string, limit int) ([]store.SearchResult, error) {
	if e.store == nil {
		return nil, ErrStoreDisabled
	}
	hits, err := e.store.SearchSections(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	for i := range hits {
		hits[i].Snippet = searchSnippet(hits[i].Body, query)
	}
	return hits, nil
}

// ListRuns returns the most recent archived runs.
func (e *engine) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	if e.store == nil {
		return nil, ErrStoreDisabled
	}
	if limit <= 0 {
		limit = 20
	}
	return e.store.RecentRuns(ctx, limit)
}

// GetRun hydrates one archived run.
func (e *engine) GetRun(ctx context.Context, id string) (*RunResult, error) {
	if e.store == nil {
		return nil, ErrStoreDisabled
	}

	run, err := e.store.GetRun(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
		}
		return nil, err
	}

	docs, err := e.store.DocumentsByRun(ctx, id)
	if err != nil {
		return nil, err
	}

	res := &RunResult{Run: *run, Documents: make([]StoredDocument, 0, len(docs))}
	for _, d := range docs {
		sd := StoredDocument{Document: d}
		if d.Status == store.DocStatusOK {
			if sd.Headings, err = e.store.HeadingsByDocument(ctx, d.ID); err != nil {
				return nil, err
			}
		}
		res.Documents = append(res.Documents, sd)
	}

	if run.Kind == store.RunKindAnalysis {
		if res.Sections, err = e.store.SectionsByRun(ctx, id); err != nil {
			return nil, err
		}
		if res.Excerpts, err = e.store.ExcerptsByRun(ctx, id); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// DeleteRun removes an archived run. Deleting an unknown ID is a no-op.
func (e *engine) DeleteRun(ctx context.Context, id string) error {
	if e.store == nil {
		return ErrStoreDisabled
	}
	return e.store.DeleteRun(ctx, id)
}

// Store returns the result store for diagnostic access.
func (e *engine) Store() *store.Store {
	return e.store
}

// Close shuts down the engine.
func (e *engine) Close() error {
	if e.store != nil {
		return e.store.Close()
	}
	return nil
}

// processed carries one document through the shared pipeline front end.
type processed struct {
	doc     *extract.Document
	format  string
	lines   []layout.Line
	outline *outline.Outline
}

// process runs extraction, the readability gate, line assembly, and heading
// detection for one document. Font statistics are derived fresh here, so no
// state leaks between documents in a batch.
func (e *engine) process(ctx context.Context, path, format string, detect outline.Config) (*processed, error) {
	if format == "" {
		format = extract.Format(path)
	}
	ex, err := e.registry.Get(format)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	doc, err := ex.Extract(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentUnreadable, err)
	}
	if !extract.Readable(doc, e.cfg.MinPrintableRatio) {
		return nil, ErrDocumentUnreadable
	}

	lines := layout.Normalize(doc.Runs, e.layoutCfg)
	stats := layout.Stats(lines)
	return &processed{
		doc:     doc,
		format:  format,
		lines:   lines,
		outline: outline.Build(doc, lines, stats, detect),
	}, nil
}

func outlineResult(p *processed) *OutlineResult {
	return &OutlineResult{
		Title:    p.outline.Title,
		Headings: p.outline.Headings,
		Document: p.doc.Name,
		Format:   p.format,
		Pages:    p.doc.Pages,
	}
}

func outlineRecord(p *processed) store.DocumentRecord {
	return store.DocumentRecord{
		Document: store.Document{
			Name:   p.doc.Name,
			Path:   p.doc.Path,
			Format: p.format,
			Title:  p.outline.Title,
			Pages:  p.doc.Pages,
			Status: store.DocStatusOK,
		},
		Headings: headingRows(p.outline.Headings),
	}
}

func failedRecord(path string) store.DocumentRecord {
	return store.DocumentRecord{Document: store.Document{
		Name:   filepath.Base(path),
		Path:   path,
		Format: extract.Format(path),
		Status: store.DocStatusUnreadable,
	}}
}

func headingRows(hs []outline.Heading) []store.Heading {
	rows := make([]store.Heading, len(hs))
	for i, h := range hs {
		rows[i] = store.Heading{Level: h.Level.String(), Text: h.Text, Page: h.Page, Position: i}
	}
	return rows
}

// attachAnalysisRows distributes the globally ranked sections and excerpts
// onto their documents' records for persistence. The store keeps the full
// ranked list, not just the reported top slice, so later full-text search
// covers every section body.
func attachAnalysisRows(records []store.DocumentRecord, owners []int, ranked []rank.Ranked, excerpts []rank.Excerpt) {
	byName := make(map[string]int, len(owners))
	for _, idx := range owners {
		name := records[idx].Document.Name
		if _, ok := byName[name]; !ok {
			byName[name] = idx
		}
	}

	for _, r := range ranked {
		idx, ok := byName[r.Section.Document]
		if !ok {
			continue
		}
		records[idx].Sections = append(records[idx].Sections, store.Section{
			Title:     r.Section.Heading.Text,
			Body:      r.Section.Body,
			Page:      r.Section.Page,
			WordCount: r.Section.WordCount,
			Relevance: r.Relevance,
			Rank:      r.Rank,
		})
	}
	for i, x := range excerpts {
		idx, ok := byName[x.Document]
		if !ok {
			continue
		}
		records[idx].Excerpts = append(records[idx].Excerpts, store.Excerpt{
			Text:      x.Text,
			Page:      x.Page,
			Relevance: x.Relevance,
			Position:  i,
		})
	}
}

func stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}
