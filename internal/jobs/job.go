// filepath: internal/jobs/job.go
// Package jobs runs long-lived, cancellable background work. Every job gets
// a sortable id and publishes its progress for polling.
package jobs

import (
	"context"
	"sync"
	"time"

	"photovault/internal/models"
)

// Runner does the work of one job. It must return promptly once ctx is done,
// checking between items rather than in the middle of one.
type Runner func(ctx context.Context, job *Job) error

// Job is the handle of one run. Progress methods are safe for concurrent use.
type Job struct {
	ID   string
	Kind models.JobKind

	mu     sync.Mutex
	status models.JobStatus
	cancel context.CancelFunc
	done   chan struct{}
}

func newJob(id string, kind models.JobKind, cancel context.CancelFunc) *Job {
	now := time.Now()
	return &Job{
		ID:     id,
		Kind:   kind,
		cancel: cancel,
		done:   make(chan struct{}),
		status: models.JobStatus{
			ID:        id,
			Kind:      kind,
			State:     models.JobStateRunning,
			Errors:    []models.JobItemError{},
			StartedAt: &now,
		},
	}
}

// Status returns a snapshot of the job's progress.
func (j *Job) Status() models.JobStatus {
	j.mu.Lock()
	defer j.mu.Unlock()
	s := j.status
	s.Errors = append([]models.JobItemError(nil), j.status.Errors...)
	return s
}

// Cancel asks the runner to stop after the current item.
func (j *Job) Cancel() {
	j.cancel()
}

// Done is closed once the job has reached a final state.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Wait blocks until the job finishes or ctx ends, then returns the status.
func (j *Job) Wait(ctx context.Context) models.JobStatus {
	select {
	case <-j.done:
	case <-ctx.Done():
	}
	return j.Status()
}

// SetTotal sets the number of items the job expects to process.
func (j *Job) SetTotal(n int) {
	j.mu.Lock()
	j.status.Total = n
	j.mu.Unlock()
}

// AddTotal grows the expected item count.
func (j *Job) AddTotal(n int) {
	j.mu.Lock()
	j.status.Total += n
	j.mu.Unlock()
}

// Begin marks item as the one being processed.
func (j *Job) Begin(item string) {
	j.mu.Lock()
	j.status.CurrentItem = item
	j.mu.Unlock()
}

// Advance counts one processed item.
func (j *Job) Advance() {
	j.mu.Lock()
	j.status.Completed++
	j.mu.Unlock()
}

// ItemFailed records a per-item failure and counts the item as processed.
func (j *Job) ItemFailed(path, reason string) {
	j.mu.Lock()
	j.status.Errors = append(j.status.Errors, models.JobItemError{Path: path, Reason: reason})
	j.status.Completed++
	j.mu.Unlock()
}

func (j *Job) finish(state models.JobState, fatal string) {
	now := time.Now()
	j.mu.Lock()
	j.status.State = state
	j.status.Fatal = fatal
	j.status.CurrentItem = ""
	j.status.FinishedAt = &now
	j.mu.Unlock()
	close(j.done)
}
