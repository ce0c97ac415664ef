package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/mategest/internal/assessment"
	"github.com/dgallion1/mategest/internal/parser"
	"github.com/dgallion1/mategest/internal/profile"
)

// ProfileGenerator produces the narrative profile for a request.
type ProfileGenerator interface {
	Generate(ctx context.Context, req profile.Request) (*profile.Profile, error)
}

// Worker processes a single profile job.
type Worker struct {
	extractor *assessment.Extractor
	profiles  ProfileGenerator
	log       *slog.Logger
	parseOpts parser.Options

	maxRetries int
	backoff    func(int) time.Duration
}

func NewWorker(extractor *assessment.Extractor, profiles ProfileGenerator, log *slog.Logger, parseOpts parser.Options, maxRetries int) *Worker {
	return &Worker{
		extractor:  extractor,
		profiles:   profiles,
		log:        log,
		parseOpts:  parseOpts,
		maxRetries: maxRetries,
		backoff:    Backoff,
	}
}

// Process runs parse, extract and generate for a job. A job whose profile
// generation fails after a successful extraction ends as partial.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID)
	req := job.Request()

	var report *assessment.Report
	if data := job.FileData(); len(data) > 0 {
		// Phase 1: Parse
		job.SetStatus(StatusParsing, "parsing")
		text, err := parser.ExtractText(bytes.NewReader(data), job.Filename, w.parseOpts)
		if err != nil {
			log.Error("parse failed", "filename", job.Filename, "error", err)
			job.AddError(fmt.Sprintf("parse: %s", err))
			job.SetStatus(StatusFailed, "parsing")
			return
		}
		job.SetContentHash(ContentHashHex([]byte(text)))
		job.SetFileData(nil)

		// Phase 2: Extract
		job.SetStatus(StatusExtracting, "extracting")
		report = w.extractor.Extract(text)
		job.SetReport(report)
		if len(report.Competencies) == 0 {
			log.Warn("no competencies found in previous assessment", "filename", job.Filename)
			job.AddError("no competencies found in previous assessment")
		}

		req.Previous = report
		if req.SubjectName == "" {
			req.SubjectName = report.SubjectName
		}
		job.setRequest(req)
	} else if req.Previous != nil {
		report = req.Previous
		job.SetReport(report)
	}

	if w.profiles == nil {
		job.SetStatus(StatusCompleted, "done")
		return
	}

	// Phase 3: Generate
	job.SetStatus(StatusGenerating, "generating")
	p, err := withRetry(ctx, w.maxRetries, w.backoff,
		func(attempt int, err error) {
			log.Warn("retryable generation error", "attempt", attempt, "error", err)
		},
		func() (*profile.Profile, error) {
			return w.profiles.Generate(ctx, req)
		},
	)
	if err != nil {
		log.Error("profile generation failed", "error", err)
		job.AddError(fmt.Sprintf("generate: %s", err))
		if report != nil {
			job.SetStatus(StatusPartial, "generating")
		} else {
			job.SetStatus(StatusFailed, "generating")
		}
		return
	}

	job.SetProfile(p)
	log.Info("profile job complete", "subject", req.SubjectName, "provider", p.Provider, "cached", p.Cached)
	job.SetStatus(StatusCompleted, "done")
}
