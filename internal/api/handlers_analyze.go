package api

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shiddong/blog/internal/outline"
	"github.com/shiddong/blog/internal/parser"
)

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	opts, err := formOptions(r, s.cfg.OutlineOptions())
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if _, ok := s.newFilter(w, opts); !ok {
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	start := time.Now()
	report, err := s.analyzer.Analyze(data, filename, opts)
	if s.latency != nil {
		s.latency.Observe(start)
	}
	if err != nil {
		s.log.Warn("analyze failed", "filename", filename, "error", err)
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	documentWords.Observe(float64(report.Words))
	outlineItems.Observe(float64(len(report.Outline)))
	s.log.Info("analyzed document",
		"doc_id", report.DocID,
		"filename", filename,
		"words", report.Words,
		"outline_items", len(report.Outline),
	)

	writeJSON(w, http.StatusOK, report)
}

// formOptions reads outline overrides from form fields. "exclude" may repeat.
func formOptions(r *http.Request, base outline.Options) (outline.Options, error) {
	ints := []struct {
		field string
		dst   *int
	}{
		{"indent_depth", &base.IndentDepth},
		{"from_heading", &base.FromHeading},
		{"to_heading", &base.ToHeading},
	}
	for _, f := range ints {
		v := strings.TrimSpace(r.FormValue(f.field))
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return base, fmt.Errorf("%s must be an integer", f.field)
		}
		*f.dst = n
	}

	if v := r.FormValue("policy"); v != "" {
		p, err := outline.ParsePolicy(v)
		if err != nil {
			return base, err
		}
		base.Policy = p
	}
	if excl, ok := r.MultipartForm.Value["exclude"]; ok {
		base.Exclude = outline.Patterns(excl)
	}
	return base, nil
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
