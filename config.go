package docsight

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the docsight engine. Every heuristic
// threshold and weight used by the pipeline lives here so tests and callers
// can probe boundary values directly instead of relying on hidden constants.
type Config struct {
	// DBPath is the full path to the SQLite database file.
	// If empty, defaults to ~/.docsight/<DBName>.db
	DBPath string `json:"db_path" yaml:"db_path"`

	// DBName is the name for the database (used when DBPath is empty).
	// Defaults to "docsight". The file will be <DBName>.db inside the
	// storage directory (~/.docsight/ or working dir).
	DBName string `json:"db_name" yaml:"db_name"`

	// StorageDir controls where the database is created when DBPath
	// is not explicitly set. Options: "home" (default) uses ~/.docsight/,
	// "local" uses the current working directory.
	StorageDir string `json:"storage_dir" yaml:"storage_dir"`

	// StoreResults enables archiving of outline and analysis runs to the
	// database. When false the engine never opens a database.
	StoreResults bool `json:"store_results" yaml:"store_results"`

	// Extraction
	MaxPages          int     `json:"max_pages" yaml:"max_pages"`                     // per-document page cap, 0 = unlimited
	MinPrintableRatio float64 `json:"min_printable_ratio" yaml:"min_printable_ratio"` // below this a document is treated as unreadable
	PageBreakLines    int     `json:"page_break_lines" yaml:"page_break_lines"`       // plain text: lines per synthetic page, 0 = single page

	// Line assembly
	LineTolerance float64 `json:"line_tolerance" yaml:"line_tolerance"` // max vertical distance for runs on one line
	GapFactor     float64 `json:"gap_factor" yaml:"gap_factor"`         // paragraph break when line gap exceeds GapFactor x median gap

	// Heading detection
	SizeAvgFactor     float64 `json:"size_avg_factor" yaml:"size_avg_factor"`           // size signal: fontSize >= factor x average size
	SizeModeFactor    float64 `json:"size_mode_factor" yaml:"size_mode_factor"`         // size signal: fontSize >= factor x mode size
	MaxTitleCaseWords int     `json:"max_title_case_words" yaml:"max_title_case_words"` // title-case pattern only fires at or below this word count

	// Relevance scoring
	PersonaWeight float64 `json:"persona_weight" yaml:"persona_weight"`
	JobWeight     float64 `json:"job_weight" yaml:"job_weight"`
	CriticalBonus float64 `json:"critical_bonus" yaml:"critical_bonus"` // per-occurrence bonus for critical terms, unclamped

	// Output limits
	TopSections int `json:"top_sections" yaml:"top_sections"` // ranked sections emitted per analysis
	MaxExcerpts int `json:"max_excerpts" yaml:"max_excerpts"` // refined excerpts emitted per analysis, run-wide
}

// DefaultConfig returns a Config with the tuned defaults.
// Database is stored in ~/.docsight/docsight.db by default.
func DefaultConfig() Config {
	return Config{
		DBName:            "docsight",
		StorageDir:        "home",
		StoreResults:      true,
		MaxPages:          50,
		MinPrintableRatio: 0.7,
		LineTolerance:     2.0,
		GapFactor:         1.8,
		SizeAvgFactor:     1.1,
		SizeModeFactor:    1.05,
		MaxTitleCaseWords: 10,
		PersonaWeight:     0.4,
		JobWeight:         0.6,
		CriticalBonus:     0.1,
		TopSections:       10,
		MaxExcerpts:       5,
	}
}

// LoadConfig reads a YAML config file and merges it over DefaultConfig,
// so a partial file only overrides the fields it names.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.MaxPages < 0:
		return fmt.Errorf("%w: max_pages must be >= 0", ErrInvalidConfig)
	case c.MinPrintableRatio < 0 || c.MinPrintableRatio > 1:
		return fmt.Errorf("%w: min_printable_ratio must be in [0,1]", ErrInvalidConfig)
	case c.SizeAvgFactor <= 0 || c.SizeModeFactor <= 0:
		return fmt.Errorf("%w: size factors must be positive", ErrInvalidConfig)
	case c.PersonaWeight < 0 || c.JobWeight < 0 || c.CriticalBonus < 0:
		return fmt.Errorf("%w: scoring weights must be non-negative", ErrInvalidConfig)
	case c.TopSections < 1:
		return fmt.Errorf("%w: top_sections must be >= 1", ErrInvalidConfig)
	case c.MaxExcerpts < 1:
		return fmt.Errorf("%w: max_excerpts must be >= 1", ErrInvalidConfig)
	}
	return nil
}

// fillDefaults replaces zero-valued knobs whose zero form has no meaning of
// its own with the tuned defaults. Fields where zero is meaningful (MaxPages,
// PageBreakLines, MinPrintableRatio, CriticalBonus) are left alone.
func (c *Config) fillDefaults() {
	def := DefaultConfig()
	if c.LineTolerance <= 0 {
		c.LineTolerance = def.LineTolerance
	}
	if c.GapFactor <= 0 {
		c.GapFactor = def.GapFactor
	}
	if c.SizeAvgFactor <= 0 {
		c.SizeAvgFactor = def.SizeAvgFactor
	}
	if c.SizeModeFactor <= 0 {
		c.SizeModeFactor = def.SizeModeFactor
	}
	if c.MaxTitleCaseWords <= 0 {
		c.MaxTitleCaseWords = def.MaxTitleCaseWords
	}
	if c.PersonaWeight == 0 && c.JobWeight == 0 {
		c.PersonaWeight = def.PersonaWeight
		c.JobWeight = def.JobWeight
		c.CriticalBonus = def.CriticalBonus
	}
	if c.TopSections <= 0 {
		c.TopSections = def.TopSections
	}
	if c.MaxExcerpts <= 0 {
		c.MaxExcerpts = def.MaxExcerpts
	}
}

// resolveDBPath computes the final database path from config fields.
func (c *Config) resolveDBPath() string {
	if c.DBPath != "" {
		return c.DBPath
	}

	name := c.DBName
	if name == "" {
		name = "docsight"
	}

	switch c.StorageDir {
	case "local", "cwd":
		return name + ".db"
	default: // "home" or empty
		home, err := os.UserHomeDir()
		if err != nil {
			return name + ".db" // fallback to cwd
		}
		dir := filepath.Join(home, ".docsight")
		return filepath.Join(dir, name+".db")
	}
}
