// Package store persists docsight runs in SQLite: the input documents, the
// extracted outlines, and for analysis runs the ranked sections and refined
// excerpts. Section bodies are indexed with FTS5 so past runs stay
// searchable.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Run kinds.
const (
	RunKindOutline  = "outline"
	RunKindAnalysis = "analysis"
)

// Run represents a row in the runs table.
type Run struct {
	ID              string `json:"id"`
	Kind            string `json:"kind"`
	Persona         string `json:"persona,omitempty"`
	Job             string `json:"job,omitempty"`
	PersonaCategory string `json:"persona_category,omitempty"`
	JobCategory     string `json:"job_category,omitempty"`
	CreatedAt       string `json:"created_at"`
}

// Document represents a row in the documents table.
type Document struct {
	ID        int64  `json:"id"`
	RunID     string `json:"run_id"`
	Name      string `json:"name"`
	Path      string `json:"path"`
	Format    string `json:"format"`
	Title     string `json:"title"`
	Pages     int    `json:"pages"`
	Position  int    `json:"position"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// Document statuses.
const (
	DocStatusOK         = "ok"
	DocStatusUnreadable = "unreadable"
)

// Heading represents a row in the headings table.
type Heading struct {
	ID         int64  `json:"id"`
	DocumentID int64  `json:"document_id"`
	Level      string `json:"level"`
	Text       string `json:"text"`
	Page       int    `json:"page"`
	Position   int    `json:"position"`
}

// Section represents a row in the sections table.
type Section struct {
	ID         int64   `json:"id"`
	DocumentID int64   `json:"document_id"`
	Title      string  `json:"title"`
	Body       string  `json:"body"`
	Page       int     `json:"page"`
	WordCount  int     `json:"word_count"`
	Relevance  float64 `json:"relevance"`
	Rank       int     `json:"importance_rank"`
}

// Excerpt represents a row in the excerpts table.
type Excerpt struct {
	ID         int64   `json:"id"`
	DocumentID int64   `json:"document_id"`
	Text       string  `json:"text"`
	Page       int     `json:"page"`
	Relevance  float64 `json:"relevance"`
	Position   int     `json:"position"`
}

// DocumentRecord bundles one document's rows for atomic persistence.
// Outline runs leave Sections and Excerpts empty.
type DocumentRecord struct {
	Document Document
	Headings []Heading
	Sections []Section
	Excerpts []Excerpt
}

// RankedSection joins a stored section with its document for display.
type RankedSection struct {
	SectionID int64   `json:"section_id"`
	Document  string  `json:"document"`
	Title     string  `json:"section_title"`
	Page      int     `json:"page"`
	Relevance float64 `json:"relevance"`
	Rank      int     `json:"importance_rank"`
}

// RankedExcerpt joins a stored excerpt with its document for display.
type RankedExcerpt struct {
	Document  string  `json:"document"`
	Text      string  `json:"refined_text"`
	Page      int     `json:"page"`
	Relevance float64 `json:"relevance_score"`
}

// SearchResult holds one full-text search hit over stored section bodies.
// Snippet is filled by the caller, not by the query.
type SearchResult struct {
	SectionID int64   `json:"section_id"`
	RunID     string  `json:"run_id"`
	Document  string  `json:"document"`
	Title     string  `json:"section_title"`
	Body      string  `json:"body"`
	Snippet   string  `json:"snippet,omitempty"`
	Page      int     `json:"page"`
	Score     float64 `json:"score"`
}

// Stats summarizes row counts across all tables.
type Stats struct {
	Runs      int `json:"runs"`
	Documents int `json:"documents"`
	Headings  int `json:"headings"`
	Sections  int `json:"sections"`
	Excerpts  int `json:"excerpts"`
}

// Store wraps the SQLite database for all docsight persistence.
type Store struct {
	db *sql.DB
}

// New opens (or creates) a SQLite database at the given path and
// initialises the schema including the FTS5 virtual table.
func New(dbPath string) (*Store, error) {
	// Ensure parent directory exists
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// Create schema
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	// Connection pool settings for SQLite.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	s := &Store{db: db}

	// Run pending migrations.
	if err := s.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for advanced queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// --- Run operations ---

// SaveRun persists a run and all of its per-document rows in a single
// transaction. Document, heading, section, and excerpt IDs are assigned by
// the database; the record order fixes each row's position.
func (s *Store) SaveRun(ctx context.Context, run Run, records []DocumentRecord) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO runs (id, kind, persona, job, persona_category, job_category)
			VALUES (?, ?, ?, ?, ?, ?)
		`, run.ID, run.Kind, run.Persona, run.Job, run.PersonaCategory, run.JobCategory); err != nil {
			return fmt.Errorf("inserting run: %w", err)
		}

		headingStmt, err := tx.PrepareContext(ctx, `
			INSERT INTO headings (document_id, level, text, page, position)
			VALUES (?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer headingStmt.Close()

		sectionStmt, err := tx.PrepareContext(ctx, `
			INSERT INTO sections (document_id, title, body, page, word_count, relevance, importance_rank)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer sectionStmt.Close()

		excerptStmt, err := tx.PrepareContext(ctx, `
			INSERT INTO excerpts (document_id, text, page, relevance, position)
			VALUES (?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer excerptStmt.Close()

		for pos, rec := range records {
			doc := rec.Document
			res, err := tx.ExecContext(ctx, `
				INSERT INTO documents (run_id, name, path, format, title, pages, position, status)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			`, run.ID, doc.Name, doc.Path, doc.Format, doc.Title, doc.Pages, pos, doc.Status)
			if err != nil {
				return fmt.Errorf("inserting document %s: %w", doc.Name, err)
			}
			docID, err := res.LastInsertId()
			if err != nil {
				return err
			}

			for i, h := range rec.Headings {
				if _, err := headingStmt.ExecContext(ctx, docID, h.Level, h.Text, h.Page, i); err != nil {
					return fmt.Errorf("inserting heading: %w", err)
				}
			}
			for _, sec := range rec.Sections {
				if _, err := sectionStmt.ExecContext(ctx, docID, sec.Title, sec.Body,
					sec.Page, sec.WordCount, sec.Relevance, sec.Rank); err != nil {
					return fmt.Errorf("inserting section: %w", err)
				}
			}
			for _, e := range rec.Excerpts {
				if _, err := excerptStmt.ExecContext(ctx, docID, e.Text, e.Page,
					e.Relevance, e.Position); err != nil {
					return fmt.Errorf("inserting excerpt: %w", err)
				}
			}
		}
		return nil
	})
}

// GetRun retrieves a run by ID. Returns sql.ErrNoRows if it does not exist.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	run := &Run{}
	var persona, job, personaCat, jobCat sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, kind, persona, job, persona_category, job_category, created_at
		FROM runs WHERE id = ?
	`, id).Scan(&run.ID, &run.Kind, &persona, &job, &personaCat, &jobCat, &run.CreatedAt)
	if err != nil {
		return nil, err
	}
	run.Persona = persona.String
	run.Job = job.String
	run.PersonaCategory = personaCat.String
	run.JobCategory = jobCat.String
	return run, nil
}

// RecentRuns returns the most recent runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, persona, job, persona_category, job_category, created_at
		FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var persona, job, personaCat, jobCat sql.NullString
		if err := rows.Scan(&r.ID, &r.Kind, &persona, &job, &personaCat, &jobCat, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.Persona = persona.String
		r.Job = job.String
		r.PersonaCategory = personaCat.String
		r.JobCategory = jobCat.String
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// DeleteRun removes a run and all of its rows. Section deletes go through
// the FTS triggers so the index stays consistent.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM excerpts WHERE document_id IN (
				SELECT id FROM documents WHERE run_id = ?
			)`, id); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			DELETE FROM sections WHERE document_id IN (
				SELECT id FROM documents WHERE run_id = ?
			)`, id); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			DELETE FROM headings WHERE document_id IN (
				SELECT id FROM documents WHERE run_id = ?
			)`, id); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			"DELETE FROM documents WHERE run_id = ?", id); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			"DELETE FROM runs WHERE id = ?", id); err != nil {
			return err
		}

		return nil
	})
}

// --- Document operations ---

// DocumentsByRun returns a run's documents in input order.
func (s *Store) DocumentsByRun(ctx context.Context, runID string) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, name, path, format, title, pages, position, status, created_at
		FROM documents WHERE run_id = ? ORDER BY position
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		var status sql.NullString
		if err := rows.Scan(&d.ID, &d.RunID, &d.Name, &d.Path, &d.Format,
			&d.Title, &d.Pages, &d.Position, &status, &d.CreatedAt); err != nil {
			return nil, err
		}
		d.Status = status.String
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// HeadingsByDocument returns a document's outline in document order.
func (s *Store) HeadingsByDocument(ctx context.Context, docID int64) ([]Heading, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, document_id, level, text, page, position
		FROM headings WHERE document_id = ? ORDER BY position
	`, docID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var headings []Heading
	for rows.Next() {
		var h Heading
		if err := rows.Scan(&h.ID, &h.DocumentID, &h.Level, &h.Text, &h.Page, &h.Position); err != nil {
			return nil, err
		}
		headings = append(headings, h)
	}
	return headings, rows.Err()
}

// --- Section and excerpt operations ---

// SectionsByRun returns a run's sections ordered by importance rank.
func (s *Store) SectionsByRun(ctx context.Context, runID string) ([]RankedSection, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, d.name, s.title, s.page, s.relevance, s.importance_rank
		FROM sections s
		JOIN documents d ON d.id = s.document_id
		WHERE d.run_id = ?
		ORDER BY s.importance_rank
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []RankedSection
	for rows.Next() {
		var r RankedSection
		if err := rows.Scan(&r.SectionID, &r.Document, &r.Title, &r.Page, &r.Relevance, &r.Rank); err != nil {
			return nil, err
		}
		sections = append(sections, r)
	}
	return sections, rows.Err()
}

// ExcerptsByRun returns a run's refined excerpts in stored order.
func (s *Store) ExcerptsByRun(ctx context.Context, runID string) ([]RankedExcerpt, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT d.name, e.text, e.page, e.relevance
		FROM excerpts e
		JOIN documents d ON d.id = e.document_id
		WHERE d.run_id = ?
		ORDER BY e.position
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var excerpts []RankedExcerpt
	for rows.Next() {
		var e RankedExcerpt
		if err := rows.Scan(&e.Document, &e.Text, &e.Page, &e.Relevance); err != nil {
			return nil, err
		}
		excerpts = append(excerpts, e)
	}
	return excerpts, rows.Err()
}

// SearchSections performs a full-text search over stored section bodies and
// titles using FTS5 BM25 ranking.
func (s *Store) SearchSections(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	fts := sanitizeFTSQuery(query)
	if fts == "" {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT f.rowid, f.rank,
			sec.title, sec.body, sec.page,
			d.name, d.run_id
		FROM sections_fts f
		JOIN sections sec ON sec.id = f.rowid
		JOIN documents d ON d.id = sec.document_id
		WHERE sections_fts MATCH ?
		ORDER BY f.rank
		LIMIT ?
	`, fts, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		var rank float64
		if err := rows.Scan(&r.SectionID, &rank, &r.Title, &r.Body, &r.Page,
			&r.Document, &r.RunID); err != nil {
			return nil, err
		}
		// FTS5 rank is negative (lower = better), convert to positive score
		r.Score = -rank
		results = append(results, r)
	}
	return results, rows.Err()
}

// DBStats returns row counts for all tables.
func (s *Store) DBStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	queries := []struct {
		query string
		dest  *int
	}{
		{"SELECT COUNT(*) FROM runs", &stats.Runs},
		{"SELECT COUNT(*) FROM documents", &stats.Documents},
		{"SELECT COUNT(*) FROM headings", &stats.Headings},
		{"SELECT COUNT(*) FROM sections", &stats.Sections},
		{"SELECT COUNT(*) FROM excerpts", &stats.Excerpts},
	}
	for _, q := range queries {
		if err := s.db.QueryRowContext(ctx, q.query).Scan(q.dest); err != nil {
			return nil, fmt.Errorf("counting %s: %w", q.query, err)
		}
	}
	return stats, nil
}

// --- helpers ---

func (s *Store) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// sanitizeFTSQuery strips FTS5 special syntax and builds an OR query: the
// full phrase when multi-word, plus each word longer than two characters.
func sanitizeFTSQuery(query string) string {
	replacer := strings.NewReplacer(
		"\"", "", "*", "", "(", "", ")", "",
		"+", "", "-", "", "^", "", ":", "",
		"?", "", "[", "", "]", "", "{", "",
		"}", "", "!", "", ".", "", ",", "",
		";", "",
	)
	cleaned := replacer.Replace(query)

	words := strings.Fields(cleaned)
	if len(words) == 0 {
		return ""
	}

	var parts []string
	if len(words) > 1 {
		parts = append(parts, "\""+strings.Join(words, " ")+"\"")
	}
	// Bare terms are lowercased so none of them reads as an FTS5 operator.
	for _, w := range words {
		if len(w) > 2 {
			parts = append(parts, strings.ToLower(w))
		}
	}
	if len(parts) == 0 {
		for _, w := range words {
			parts = append(parts, strings.ToLower(w))
		}
	}
	return strings.Join(parts, " OR ")
}
