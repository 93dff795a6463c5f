// filepath: internal/jobs/manager.go
package jobs

import (
	"context"
	"errors"
	"sync"

	"photovault/internal/logging"
	"photovault/internal/models"

	"github.com/oklog/ulid/v2"
)

// ErrJobActive is returned when a job of the same kind is still running.
var ErrJobActive = errors.New("a job of this kind is already running")

// Manager starts jobs and enforces one active job per kind.
type Manager struct {
	mu     sync.Mutex
	active map[models.JobKind]*Job
	latest map[models.JobKind]*Job
	wg     sync.WaitGroup
}

// NewManager creates an empty job manager.
func NewManager() *Manager {
	return &Manager{
		active: make(map[models.JobKind]*Job),
		latest: make(map[models.JobKind]*Job),
	}
}

// Start launches runner in the background and returns its handle.
func (m *Manager) Start(kind models.JobKind, runner Runner) (*Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, running := m.active[kind]; running {
		return nil, ErrJobActive
	}

	ctx, cancel := context.WithCancel(context.Background())
	job := newJob(ulid.Make().String(), kind, cancel)
	m.active[kind] = job
	m.latest[kind] = job

	logging.Log.Infof("Jobs: starting %s job %s", kind, job.ID)
	m.wg.Add(1)
	go m.run(ctx, job, runner)
	return job, nil
}

func (m *Manager) run(ctx context.Context, job *Job, runner Runner) {
	defer m.wg.Done()

	err := runner(ctx, job)

	state, fatal := models.JobStateCompleted, ""
	switch {
	case err != nil && ctx.Err() != nil && errors.Is(err, context.Canceled):
		state = models.JobStateCancelled
	case err != nil:
		state, fatal = models.JobStateFailed, err.Error()
	case ctx.Err() != nil:
		state = models.JobStateCancelled
	}
	job.cancel()

	m.mu.Lock()
	if m.active[job.Kind] == job {
		delete(m.active, job.Kind)
	}
	m.mu.Unlock()
	job.finish(state, fatal)

	status := job.Status()
	if state == models.JobStateFailed {
		logging.Log.Errorf("Jobs: %s job %s failed after %d/%d items: %s", job.Kind, job.ID, status.Completed, status.Total, fatal)
		return
	}
	logging.Log.Infof("Jobs: %s job %s %s (%d/%d items, %d errors)",
		job.Kind, job.ID, state, status.Completed, status.Total, len(status.Errors))
}

// Get returns the most recent job of kind, or nil.
func (m *Manager) Get(kind models.JobKind) *Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.latest[kind]
}

// Status returns the status of the most recent job of kind. Kinds that never
// ran report idle.
func (m *Manager) Status(kind models.JobKind) models.JobStatus {
	if job := m.Get(kind); job != nil {
		return job.Status()
	}
	return models.JobStatus{Kind: kind, State: models.JobStateIdle, Errors: []models.JobItemError{}}
}

// Cancel cancels the running job of kind. It reports whether one was running.
func (m *Manager) Cancel(kind models.JobKind) bool {
	m.mu.Lock()
	job, ok := m.active[kind]
	m.mu.Unlock()
	if ok {
		job.Cancel()
	}
	return ok
}

// Shutdown cancels every running job and waits for all of them to return.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	for _, job := range m.active {
		job.Cancel()
	}
	m.mu.Unlock()
	m.wg.Wait()
}
