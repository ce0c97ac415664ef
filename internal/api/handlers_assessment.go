package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/mategest/internal/assessment"
	"github.com/dgallion1/mategest/internal/parser"
)

// maxTextBody caps the JSON body of extract-text and validate requests.
const maxTextBody = 4 << 20

// handleExtract parses an uploaded previous assessment and returns the
// extracted report synchronously.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
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
	report, status, err := s.extractUpload(file, filename)
	if err != nil {
		jsonError(w, err.Error(), status)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleBatchExtract extracts every uploaded file. Per-file failures are
// reported inline; the request itself succeeds.
func (s *Server) handleBatchExtract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*10+10*1024*1024)

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}

	results := make([]map[string]any, 0, len(files))
	for _, fh := range files {
		filename := sanitizeFilename(fh.Filename)
		report, _, err := s.extractFileHeader(fh, filename)
		if err != nil {
			results = append(results, map[string]any{
				"filename": filename,
				"error":    err.Error(),
			})
			continue
		}
		results = append(results, map[string]any{
			"filename": filename,
			"summary":  report.Summary(),
			"report":   report,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (s *Server) extractFileHeader(fh *multipart.FileHeader, filename string) (*assessment.Report, int, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, http.StatusInternalServerError, fmt.Errorf("failed to open file")
	}
	defer f.Close()
	return s.extractUpload(f, filename)
}

// extractUpload reads, parses and extracts one uploaded document. The
// returned status is the HTTP code to use on error.
func (s *Server) extractUpload(file io.Reader, filename string) (*assessment.Report, int, error) {
	if !parser.IsSupportedExtension(filename) {
		return nil, http.StatusBadRequest, fmt.Errorf("unsupported file type: %s", filepath.Ext(filename))
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return nil, http.StatusInternalServerError, fmt.Errorf("failed to read file")
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return nil, http.StatusRequestEntityTooLarge, fmt.Errorf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes)
	}

	text, err := parser.ExtractText(bytes.NewReader(data), filename, s.parseOptions())
	if err != nil {
		s.log.Warn("parse failed", "filename", filename, "error", err)
		switch {
		case errors.Is(err, parser.ErrTooLarge):
			return nil, http.StatusRequestEntityTooLarge, err
		case errors.Is(err, parser.ErrUnsupported):
			return nil, http.StatusBadRequest, err
		}
		return nil, http.StatusUnprocessableEntity, fmt.Errorf("could not read document: %w", err)
	}
	return s.orchestrator.Extractor().Extract(text), http.StatusOK, nil
}

type extractTextRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleExtractText(w http.ResponseWriter, r *http.Request) {
	var req extractTextRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		jsonError(w, "text is required", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, s.orchestrator.Extractor().Extract(req.Text))
}

// handleValidate checks an operator-edited report before it is used for
// generation.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var report assessment.Report
	if err := decodeJSON(w, r, &report); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	errs := assessment.ValidateReport(&report)
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"valid":  len(msgs) == 0,
		"errors": msgs,
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxTextBody)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid json body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
