package extract

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Options carries the extraction knobs shared across formats.
type Options struct {
	MaxPages       int // per-document page/slide/sheet cap, 0 = unlimited
	PageBreakLines int // plain text: lines per synthetic page, 0 = single page
}

// Registry maps file formats to their extractors.
type Registry struct {
	extractors map[string]Extractor
}

// NewRegistry returns a registry with all built-in extractors registered.
func NewRegistry(opts Options) *Registry {
	r := &Registry{extractors: make(map[string]Extractor)}

	for _, e := range []Extractor{
		&PDF{MaxPages: opts.MaxPages},
		&DOCX{},
		&PPTX{MaxPages: opts.MaxPages},
		&XLSX{MaxPages: opts.MaxPages},
		&Markdown{},
		&HTML{},
		&Text{PageBreakLines: opts.PageBreakLines},
	} {
		for _, f := range e.Formats() {
			r.extractors[f] = e
		}
	}
	return r
}

// Register adds or replaces the extractor for a format.
func (r *Registry) Register(format string, e Extractor) {
	r.extractors[strings.ToLower(format)] = e
}

// Get returns the extractor for a format.
func (r *Registry) Get(format string) (Extractor, error) {
	e, ok := r.extractors[strings.ToLower(format)]
	if !ok {
		return nil, fmt.Errorf("no extractor for format: %s", format)
	}
	return e, nil
}

// ForPath returns the extractor matching the path's extension.
func (r *Registry) ForPath(path string) (Extractor, error) {
	return r.Get(Format(path))
}

// Supported reports whether the path's extension has an extractor.
func (r *Registry) Supported(path string) bool {
	_, ok := r.extractors[Format(path)]
	return ok
}

// Format derives the registry format key from a file path.
func Format(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}
