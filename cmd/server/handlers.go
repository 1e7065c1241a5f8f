package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/docsight/docsight"
	"github.com/docsight/docsight/store"
)

// maxUploadBytes caps one multipart request body.
const maxUploadBytes = 256 << 20

type handler struct {
	engine docsight.Engine
}

func newHandler(e docsight.Engine) *handler {
	return &handler{engine: e}
}

func newRouter(h *handler, apiKey, corsOrigins string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(requestLogger)
	r.Use(cors(corsOrigins))

	r.Get("/healthz", h.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(auth(apiKey))

		r.Post("/api/outline", h.handleOutline)
		r.Post("/api/analyze", h.handleAnalyze)
		r.Get("/api/runs", h.handleListRuns)
		r.Get("/api/runs/{id}", h.handleGetRun)
		r.Delete("/api/runs/{id}", h.handleDeleteRun)
		r.Get("/api/search", h.handleSearch)
	})

	return r
}

// POST /api/outline
// Multipart upload: "file" is the document, optional "format" overrides
// extension-based format detection.
func (h *handler) handleOutline(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	dir, err := os.MkdirTemp("", "docsight-*")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		slog.Error("creating upload dir", "error", err)
		return
	}
	defer os.RemoveAll(dir)

	path, err := saveUpload(dir, file, header)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var opts []docsight.OutlineOption
	if format := r.FormValue("format"); format != "" {
		opts = append(opts, docsight.WithFormat(format))
	}

	res, err := h.engine.Outline(ctx, path, opts...)
	if err != nil {
		respondEngineError(w, err, "outline failed")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// POST /api/analyze
// Multipart upload: repeated "files" parts carry the collection, "persona"
// and "job" carry the reader profile. Optional "top_sections" and
// "max_excerpts" override the configured output limits.
func (h *handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Minute)
	defer cancel()

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		writeError(w, http.StatusBadRequest, "at least one file is required")
		return
	}

	dir, err := os.MkdirTemp("", "docsight-*")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		slog.Error("creating upload dir", "error", err)
		return
	}
	defer os.RemoveAll(dir)

	paths := make([]string, 0, len(headers))
	for _, fh := range headers {
		file, err := fh.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, "reading upload "+fh.Filename)
			return
		}
		path, err := saveUpload(dir, file, fh)
		file.Close()
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		paths = append(paths, path)
	}

	var opts []docsight.AnalyzeOption
	if n, ok := formInt(r, "top_sections"); ok {
		opts = append(opts, docsight.WithTopSections(n))
	}
	if n, ok := formInt(r, "max_excerpts"); ok {
		opts = append(opts, docsight.WithMaxExcerpts(n))
	}

	res, err := h.engine.Analyze(ctx, docsight.AnalysisRequest{
		Paths:   paths,
		Persona: r.FormValue("persona"),
		Job:     r.FormValue("job"),
	}, opts...)
	if err != nil {
		respondEngineError(w, err, "analysis failed")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GET /api/runs
func (h *handler) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if n, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && n > 0 && n <= 100 {
		limit = n
	}

	runs, err := h.engine.ListRuns(r.Context(), limit)
	if err != nil {
		respondEngineError(w, err, "listing runs failed")
		return
	}
	if runs == nil {
		runs = []store.Run{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

// GET /api/runs/{id}
func (h *handler) handleGetRun(w http.ResponseWriter, r *http.Request) {
	res, err := h.engine.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondEngineError(w, err, "loading run failed")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// DELETE /api/runs/{id}
func (h *handler) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.DeleteRun(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondEngineError(w, err, "deleting run failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// GET /api/search?q=...
func (h *handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "q query parameter is required")
		return
	}
	limit := 20
	if n, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && n > 0 && n <= 100 {
		limit = n
	}

	hits, err := h.engine.Search(r.Context(), query, limit)
	if err != nil {
		respondEngineError(w, err, "search failed")
		return
	}
	if hits == nil {
		hits = []store.SearchResult{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"query": query, "results": hits})
}

// GET /healthz
func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// saveUpload writes one uploaded file into dir under its sanitized base
// name. The base name is preserved because it becomes the document
// identifier in results.
func saveUpload(dir string, file multipart.File, header *multipart.FileHeader) (string, error) {
	name := filepath.Base(header.Filename)
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "", errors.New("upload has no usable file name")
	}

	path := filepath.Join(dir, name)
	dst, err := os.Create(path)
	if err != nil {
		return "", errors.New("storing upload failed")
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", errors.New("storing upload failed")
	}
	return path, nil
}

func formInt(r *http.Request, field string) (int, bool) {
	v := r.FormValue(field)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// respondEngineError maps engine errors onto response codes. Unexpected
// errors are logged and reported generically.
func respondEngineError(w http.ResponseWriter, err error, logMsg string) {
	status := httpStatus(err)
	if status == http.StatusInternalServerError {
		slog.Error(logMsg, "error", err)
		writeError(w, status, logMsg)
		return
	}
	writeError(w, status, err.Error())
}

func httpStatus(err error) int {
	switch {
	case errors.Is(err, docsight.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, docsight.ErrDocumentUnreadable),
		errors.Is(err, docsight.ErrNoValidDocuments):
		return http.StatusUnprocessableEntity
	case errors.Is(err, docsight.ErrEmptyInput):
		return http.StatusBadRequest
	case errors.Is(err, docsight.ErrRunNotFound):
		return http.StatusNotFound
	case errors.Is(err, docsight.ErrStoreDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
