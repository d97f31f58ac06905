package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/deckgest/internal/deck"
	"github.com/dgallion1/deckgest/internal/present"
)

// JobStatus represents the state of a deck job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusConverting JobStatus = "converting"
	StatusBuilding   JobStatus = "building"
	StatusPublishing JobStatus = "publishing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// Job tracks one asynchronous deck build, from an uploaded file or a URL.
type Job struct {
	mu sync.Mutex

	ID        string
	Filename  string
	SourceURL string
	Title     string
	Publish   bool

	Status JobStatus
	Phase  string

	ContentHash string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	fileData    []byte
	result      *Result
	publication *present.Publication
	errors      []string
}

// NewJob creates a queued job with a fresh ID.
func NewJob() *Job {
	now := time.Now()
	return &Job{
		ID:        uuid.NewString(),
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: now,
		UpdatedAt: now,
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

// Len returns the number of tracked jobs.
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
		if now.Sub(job.updatedAt()) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

func (j *Job) updatedAt() time.Time {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.UpdatedAt
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// Fail records err and marks the job failed in phase.
func (j *Job) Fail(phase string, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err.Error())
	j.Status = StatusFailed
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records a non-fatal error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
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

// releaseFileData drops the upload once it has been converted.
func (j *Job) releaseFileData() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = nil
}

// SetResult stores the build result.
func (j *Job) SetResult(res Result) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = &res
	j.UpdatedAt = time.Now()
}

// SetPublication stores where the deck was published.
func (j *Job) SetPublication(pub present.Publication) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.publication = &pub
	j.UpdatedAt = time.Now()
}

// SetTitle replaces the job title unless one was given at submit time.
func (j *Job) SetTitle(title string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.Title == "" {
		j.Title = title
	}
}

// SetContentHash records the hash of the converted markdown.
func (j *Job) SetContentHash(hash string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.ContentHash = hash
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID             string               `json:"job_id"`
	Status         JobStatus            `json:"status"`
	Phase          string               `json:"phase"`
	Filename       string               `json:"filename,omitempty"`
	SourceURL      string               `json:"source_url,omitempty"`
	Title          string               `json:"title"`
	ContentHash    string               `json:"content_hash,omitempty"`
	Source         deck.Source          `json:"source,omitempty"`
	TargetCount    int                  `json:"target_count"`
	SectionCount   int                  `json:"section_count"`
	Slides         deck.Deck            `json:"slides"`
	FallbackReason string               `json:"fallback_reason,omitempty"`
	Publication    *present.Publication `json:"publication,omitempty"`
	Errors         []string             `json:"errors"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()

	snap := JobSnapshot{
		ID:          j.ID,
		Status:      j.Status,
		Phase:       j.Phase,
		Filename:    j.Filename,
		SourceURL:   j.SourceURL,
		Title:       j.Title,
		ContentHash: j.ContentHash,
		Slides:      deck.Deck{},
		Errors:      append([]string{}, j.errors...),
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
	if r := j.result; r != nil {
		snap.Source = r.Source
		snap.TargetCount = r.TargetCount
		snap.SectionCount = len(r.Sections)
		snap.Slides = append(deck.Deck{}, r.Deck...)
		if r.FallbackReason != nil {
			snap.FallbackReason = r.FallbackReason.Error()
		}
	}
	if j.publication != nil {
		pub := *j.publication
		snap.Publication = &pub
	}
	return snap
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
