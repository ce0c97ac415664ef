package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/mategest/internal/assessment"
	"github.com/dgallion1/mategest/internal/export"
	"github.com/dgallion1/mategest/internal/parser"
	"github.com/dgallion1/mategest/internal/pipeline"
	"github.com/dgallion1/mategest/internal/profile"
)

// profileForm is the JSON form of a profile request. Previous carries an
// operator-edited report when no document is uploaded.
type profileForm struct {
	SubjectName    string                    `json:"subject_name"`
	EvaluationType profile.EvaluationType    `json:"evaluation_type"`
	Metrics        string                    `json:"metrics"`
	Inputs         []profile.CompetencyInput `json:"inputs"`
	Previous       *assessment.Report        `json:"previous,omitempty"`
}

func (f profileForm) request() profile.Request {
	name := strings.TrimSpace(f.SubjectName)
	if name == "" && f.Previous != nil {
		name = f.Previous.SubjectName
	}
	return profile.Request{
		SubjectName: name,
		Type:        f.EvaluationType,
		Metrics:     f.Metrics,
		Inputs:      f.Inputs,
		Previous:    f.Previous,
	}
}

// handleCreateProfile queues a profile job. It accepts either a JSON body or
// a multipart form with an optional previous-assessment "file", the scalar
// fields, and "inputs" as a JSON array.
func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var (
		form     profileForm
		filename string
		data     []byte
	)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
			return
		}
		defer r.MultipartForm.RemoveAll()

		form.SubjectName = r.FormValue("subject_name")
		form.EvaluationType = profile.EvaluationType(r.FormValue("evaluation_type"))
		form.Metrics = r.FormValue("metrics")
		if v := r.FormValue("inputs"); v != "" {
			if err := json.Unmarshal([]byte(v), &form.Inputs); err != nil {
				jsonError(w, "inputs must be a JSON array: "+err.Error(), http.StatusBadRequest)
				return
			}
		}

		file, header, err := r.FormFile("file")
		switch {
		case errors.Is(err, http.ErrMissingFile):
		case err != nil:
			jsonError(w, "invalid file: "+err.Error(), http.StatusBadRequest)
			return
		default:
			defer file.Close()
			filename = sanitizeFilename(header.Filename)
			if !parser.IsSupportedExtension(filename) {
				jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
				return
			}
			data, err = io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
			if err != nil {
				jsonError(w, "failed to read file", http.StatusInternalServerError)
				return
			}
			if int64(len(data)) > s.cfg.MaxUploadBytes {
				jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
				return
			}
		}
	} else if err := decodeJSON(w, r, &form); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if msg := validateForm(form, len(data) > 0); msg != "" {
		jsonError(w, msg, http.StatusBadRequest)
		return
	}

	job := pipeline.NewJob(filename, data, form.request())
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_id":   job.ID,
		"status":   pipeline.StatusQueued,
		"poll_url": fmt.Sprintf("/api/profiles/%s/status", job.ID),
	})
}

func validateForm(f profileForm, hasFile bool) string {
	switch f.EvaluationType {
	case "", profile.EvaluationAdvisor, profile.EvaluationLeader:
	default:
		return fmt.Sprintf("evaluation_type must be %q or %q", profile.EvaluationAdvisor, profile.EvaluationLeader)
	}
	if strings.TrimSpace(f.SubjectName) == "" && !hasFile && f.Previous == nil {
		return "subject_name is required"
	}
	for _, in := range f.Inputs {
		if !in.ID.Valid() {
			return fmt.Sprintf("unknown competency %q", in.ID)
		}
		switch in.Evolution {
		case "", profile.EvolutionImproves, profile.EvolutionKeeps, profile.EvolutionWorsens:
		default:
			return fmt.Sprintf("invalid evolution %q for %s", in.Evolution, in.ID)
		}
	}
	if f.Previous != nil {
		if errs := assessment.ValidateReport(f.Previous); len(errs) > 0 {
			return "previous: " + errors.Join(errs...).Error()
		}
	}
	return ""
}

func (s *Server) jobFromRequest(w http.ResponseWriter, r *http.Request) *pipeline.Job {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
	}
	return job
}

func (s *Server) handleProfileStatus(w http.ResponseWriter, r *http.Request) {
	job := s.jobFromRequest(w, r)
	if job == nil {
		return
	}
	snap := job.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"job_id": snap.ID,
		"status": snap.Status,
		"phase":  snap.Phase,
		"errors": snap.Errors,
	})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	job := s.jobFromRequest(w, r)
	if job == nil {
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}

// handleExportProfile returns the extracted report and generated profile
// as an xlsx workbook.
func (s *Server) handleExportProfile(w http.ResponseWriter, r *http.Request) {
	job := s.jobFromRequest(w, r)
	if job == nil {
		return
	}
	snap := job.Snapshot()
	if !snap.Status.Done() {
		jsonError(w, "job is still "+string(snap.Status), http.StatusConflict)
		return
	}
	report := snap.Report
	if report == nil {
		report = &assessment.Report{SubjectName: snap.SubjectName}
	}
	var text string
	if snap.Profile != nil {
		text = snap.Profile.Text
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, report, text); err != nil {
		s.log.Error("export failed", "job_id", snap.ID, "error", err)
		jsonError(w, "export failed", http.StatusInternalServerError)
		return
	}

	name := "mate"
	if snap.SubjectName != "" {
		name = "mate-" + strings.ReplaceAll(strings.ToLower(snap.SubjectName), " ", "-")
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": sanitizeFilename(name) + ".xlsx"}))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
