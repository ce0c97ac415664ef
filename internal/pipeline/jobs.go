package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/mategest/internal/assessment"
	"github.com/dgallion1/mategest/internal/profile"
)

// JobStatus represents the state of a profile job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusParsing    JobStatus = "parsing"
	StatusExtracting JobStatus = "extracting"
	StatusGenerating JobStatus = "generating"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
	StatusPartial    JobStatus = "partial"
)

// Done reports whether the status is terminal.
func (s JobStatus) Done() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusPartial
}

// Job tracks the state of a single profile request: an optional previous
// assessment document, the operator's inputs, and the results.
type Job struct {
	mu sync.Mutex

	ID       string `json:"job_id"`
	Filename string `json:"filename"`

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`

	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData []byte
	request  profile.Request
	report   *assessment.Report
	profile  *profile.Profile
	errors   []string
}

// NewJob creates a queued job. fileData may be empty when the operator has
// no previous assessment to upload.
func NewJob(filename string, fileData []byte, req profile.Request) *Job {
	now := time.Now()
	return &Job{
		ID:        uuid.NewString(),
		Filename:  filename,
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: now,
		UpdatedAt: now,
		fileData:  fileData,
		request:   req,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		updated := job.UpdatedAt
		job.mu.Unlock()
		if now.Sub(updated) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.UpdatedAt = time.Now()
}

// SetReport records the extracted previous assessment.
func (j *Job) SetReport(r *assessment.Report) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.report = r
	j.UpdatedAt = time.Now()
}

// Report returns the extracted assessment, or nil.
func (j *Job) Report() *assessment.Report {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.report
}

// SetProfile records the generated profile.
func (j *Job) SetProfile(p *profile.Profile) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.profile = p
	j.UpdatedAt = time.Now()
}

// SetFileData sets the raw file bytes for processing.
func (j *Job) SetFileData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = data
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// Request returns the operator's profile request.
func (j *Job) Request() profile.Request {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.request
}

func (j *Job) setRequest(req profile.Request) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.request = req
}

// SetContentHash records the hash of the parsed document text.
func (j *Job) SetContentHash(h string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.ContentHash = h
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID          string             `json:"job_id"`
	Status      JobStatus          `json:"status"`
	Phase       string             `json:"phase"`
	Filename    string             `json:"filename,omitempty"`
	SubjectName string             `json:"subject_name"`
	ContentHash string             `json:"content_hash,omitempty"`
	Errors      []string           `json:"errors"`
	Report      *assessment.Report `json:"report,omitempty"`
	Profile     *profile.Profile   `json:"profile,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := make([]string, len(j.errors))
	copy(errs, j.errors)
	return JobSnapshot{
		ID:          j.ID,
		Status:      j.Status,
		Phase:       j.Phase,
		Filename:    j.Filename,
		SubjectName: j.request.SubjectName,
		ContentHash: j.ContentHash,
		Errors:      errs,
		Report:      j.report,
		Profile:     j.profile,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
