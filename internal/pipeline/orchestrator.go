package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/mategest/internal/assessment"
	"github.com/dgallion1/mategest/internal/config"
	"github.com/dgallion1/mategest/internal/parser"
)

// ErrQueueFull is returned by Submit when no queue slot is free.
var ErrQueueFull = errors.New("job queue is full")

// Orchestrator manages the profile job pipeline.
type Orchestrator struct {
	jobs      *JobStore
	queue     chan *Job
	extractor *assessment.Extractor
	profiles  ProfileGenerator
	log       *slog.Logger
	cfg       config.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the pipeline. profiles may be nil, in which case
// jobs stop after extraction.
func NewOrchestrator(cfg config.Config, extractor *assessment.Extractor, profiles ProfileGenerator, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:      NewJobStore(cfg.JobTTL),
		queue:     make(chan *Job, cfg.MaxQueueSize),
		extractor: extractor,
		profiles:  profiles,
		log:       log,
		cfg:       cfg,
	}
}

func (o *Orchestrator) newWorker() *Worker {
	return NewWorker(o.extractor, o.profiles, o.log, parser.Options{
		PDFFallback: o.cfg.PDFFallbackPdftotext,
		MaxBytes:    o.cfg.MaxUploadBytes,
	}, o.cfg.MaxRetries)
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := o.newWorker()
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.AddError("queue full")
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("%w (%d)", ErrQueueFull, o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Extractor returns the extraction engine for synchronous use by handlers.
func (o *Orchestrator) Extractor() *assessment.Extractor {
	return o.extractor
}
