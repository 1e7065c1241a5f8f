package store

// schemaSQL is the DDL for all tables.
const schemaSQL = `
-- Outline and analysis runs
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    kind TEXT NOT NULL,
    persona TEXT,
    job TEXT,
    persona_category TEXT,
    job_category TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Input documents, one row per document per run
CREATE TABLE IF NOT EXISTS documents (
    id INTEGER PRIMARY KEY,
    run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    path TEXT NOT NULL,
    format TEXT NOT NULL,
    title TEXT NOT NULL,
    pages INTEGER NOT NULL DEFAULT 0,
    position INTEGER NOT NULL,
    status TEXT DEFAULT 'ok',
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Detected outline headings in document order
CREATE TABLE IF NOT EXISTS headings (
    id INTEGER PRIMARY KEY,
    document_id INTEGER NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
    level TEXT NOT NULL,
    text TEXT NOT NULL,
    page INTEGER NOT NULL,
    position INTEGER NOT NULL
);

-- Ranked sections of analysis runs
CREATE TABLE IF NOT EXISTS sections (
    id INTEGER PRIMARY KEY,
    document_id INTEGER NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
    title TEXT NOT NULL,
    body TEXT NOT NULL,
    page INTEGER NOT NULL,
    word_count INTEGER NOT NULL DEFAULT 0,
    relevance REAL NOT NULL DEFAULT 0,
    importance_rank INTEGER NOT NULL
);

-- Full-text search over section bodies via FTS5
CREATE VIRTUAL TABLE IF NOT EXISTS sections_fts USING fts5(
    body,
    title,
    content='sections',
    content_rowid='id',
    tokenize='porter unicode61'
);

-- FTS triggers to keep index in sync
CREATE TRIGGER IF NOT EXISTS sections_ai AFTER INSERT ON sections BEGIN
    INSERT INTO sections_fts(rowid, body, title) VALUES (new.id, new.body, new.title);
END;
CREATE TRIGGER IF NOT EXISTS sections_ad AFTER DELETE ON sections BEGIN
    INSERT INTO sections_fts(sections_fts, rowid, body, title) VALUES ('delete', old.id, old.body, old.title);
END;
CREATE TRIGGER IF NOT EXISTS sections_au AFTER UPDATE ON sections BEGIN
    INSERT INTO sections_fts(sections_fts, rowid, body, title) VALUES ('delete', old.id, old.body, old.title);
    INSERT INTO sections_fts(rowid, body, title) VALUES (new.id, new.body, new.title);
END;

-- Refined excerpts of analysis runs, position preserves rank order
CREATE TABLE IF NOT EXISTS excerpts (
    id INTEGER PRIMARY KEY,
    document_id INTEGER NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
    text TEXT NOT NULL,
    page INTEGER NOT NULL,
    relevance REAL NOT NULL DEFAULT 0,
    position INTEGER NOT NULL
);

-- Indexes
CREATE INDEX IF NOT EXISTS idx_documents_run ON documents(run_id);
CREATE INDEX IF NOT EXISTS idx_headings_document ON headings(document_id);
CREATE INDEX IF NOT EXISTS idx_sections_document ON sections(document_id);
CREATE INDEX IF NOT EXISTS idx_sections_rank ON sections(importance_rank);
CREATE INDEX IF NOT EXISTS idx_excerpts_document ON excerpts(document_id);
CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
`
