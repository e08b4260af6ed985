package registry

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/posturelab/postura/internal/model"
)

// entry pairs a job record with its own mutex so that updates to
// different jobs never contend. runID identifies the run currently
// allowed to write; a resubmission replaces it.
type entry struct {
	mu    sync.Mutex
	runID string
	job   model.Job
}

// Registry is the in-memory single source of truth for job state.
// Callers only ever receive copies; all mutation goes through Update.
type Registry struct {
	mu   sync.RWMutex
	jobs map[string]*entry
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		jobs: make(map[string]*entry),
	}
}

// Create inserts or replaces the entry for jobID and returns the run
// token the owning orchestrator must present on every update.
// Replacement is last-writer-wins: any prior run's token goes stale
// immediately, so a superseded run can no longer be observed.
func (r *Registry) Create(jobID string, status model.JobStatus, message string) string {
	runID := uuid.New().String()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[jobID] = &entry{
		runID: runID,
		job: model.Job{
			JobID:   jobID,
			Status:  status,
			Message: message,
		},
	}
	return runID
}

// Get returns a snapshot of the job or ErrJobNotFound. The attached
// report is deep-copied so the snapshot cannot mutate stored state.
func (r *Registry) Get(jobID string) (model.Job, error) {
	r.mu.RLock()
	e, ok := r.jobs[jobID]
	r.mu.RUnlock()
	if !ok {
		return model.Job{}, model.ErrJobNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	job := e.job
	job.Result = e.job.Result.Clone()
	return job, nil
}

// Update applies fn to the job atomically with respect to other
// updates on the same jobID. The runID must match the token issued by
// the Create that owns the current entry; stale tokens get
// ErrStaleRun so a run that was overwritten by resubmission falls
// silent instead of clobbering the new run's state.
func (r *Registry) Update(jobID, runID string, fn func(*model.Job)) error {
	r.mu.RLock()
	e, ok := r.jobs[jobID]
	r.mu.RUnlock()
	if !ok {
		return model.ErrJobNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.runID != runID {
		return model.ErrStaleRun
	}
	fn(&e.job)
	return nil
}

// Delete removes the entry or returns ErrJobNotFound.
func (r *Registry) Delete(jobID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[jobID]; !ok {
		return model.ErrJobNotFound
	}
	delete(r.jobs, jobID)
	return nil
}

// List returns summary snapshots of all entries, sorted by job ID for
// stable output. No mutation handles escape.
func (r *Registry) List() []model.JobSummary {
	r.mu.RLock()
	entries := make([]*entry, 0, len(r.jobs))
	for _, e := range r.jobs {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	summaries := make([]model.JobSummary, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		summaries = append(summaries, model.JobSummary{
			JobID:    e.job.JobID,
			Status:   e.job.Status,
			Progress: e.job.Progress,
			Message:  e.job.Message,
		})
		e.mu.Unlock()
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].JobID < summaries[j].JobID
	})
	return summaries
}

// Count returns the number of tracked jobs.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.jobs)
}
