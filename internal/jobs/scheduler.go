// filepath: internal/jobs/scheduler.go
package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"photovault/internal/logging"
	"photovault/internal/models"
)

// MinSyncInterval is the shortest allowed gap between periodic passes.
const MinSyncInterval = 1 * time.Minute

// Scheduler runs a sync job over every visible vault at a fixed interval.
// Trigger starts a pass early, for example after a filesystem change.
type Scheduler struct {
	Deps     Dependencies
	Manager  *Manager
	interval time.Duration
	timer    *time.Timer
	trigger  chan struct{}
	stopCh   chan struct{}
}

// NewScheduler creates a scheduler. An interval of zero disables the periodic
// runs; triggered runs still happen.
func NewScheduler(deps Dependencies, manager *Manager, interval time.Duration) *Scheduler {
	if interval > 0 && interval < MinSyncInterval {
		interval = MinSyncInterval
	}
	return &Scheduler{
		Deps:     deps,
		Manager:  manager,
		interval: interval,
		trigger:  make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
	}
}

// Start kicks off the background loop. The first pass runs immediately when
// periodic runs are enabled.
func (s *Scheduler) Start() {
	logging.Log.Info("Starting background sync scheduler.")
	s.timer = time.NewTimer(0)
	if s.interval == 0 {
		s.timer.Stop()
	}

	go func() {
		for {
			select {
			case <-s.timer.C:
				s.runPass("scheduled")
				s.timer.Reset(s.interval)
				logging.Log.Infof("Next sync pass scheduled in %v.", s.interval)
			case <-s.trigger:
				s.runPass("triggered")
			case <-s.stopCh:
				s.timer.Stop()
				return
			}
		}
	}()
}

// Stop terminates the background loop. A running sync job keeps going until
// the job manager shuts down.
func (s *Scheduler) Stop() {
	logging.Log.Info("Stopping background sync scheduler.")
	close(s.stopCh)
}

// Trigger requests a pass as soon as possible. Requests coalesce.
func (s *Scheduler) Trigger() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

func (s *Scheduler) runPass(reason string) {
	_, err := s.Manager.Start(models.JobKindSync, SyncAllRunner(s.Deps))
	if errors.Is(err, ErrJobActive) {
		logging.Log.Debugf("Sync scheduler: %s pass skipped, a sync job is already running", reason)
		return
	}
	if err != nil {
		logging.Log.Errorf("Sync scheduler: could not start %s pass: %v", reason, err)
	}
}

// SyncAllRunner returns a runner that reconciles every visible vault in order.
// A failing vault is recorded and the pass moves on.
func SyncAllRunner(deps Dependencies) Runner {
	return func(ctx context.Context, job *Job) error {
		vaults, err := deps.Vaults.ListVaults()
		if err != nil {
			return fmt.Errorf("could not list vaults: %w", err)
		}
		var visible []models.Vault
		for _, v := range vaults {
			if v.Visible {
				visible = append(visible, v)
			}
		}
		job.SetTotal(len(visible))

		for _, v := range visible {
			if err := ctx.Err(); err != nil {
				return err
			}
			job.Begin(v.RootPath)
			report, err := deps.Syncer.Sync(ctx, v.ID)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return err
				}
				logging.Log.Errorf("Sync scheduler: vault '%s' failed: %v", v.DisplayName, err)
				job.ItemFailed(v.RootPath, err.Error())
				continue
			}
			logging.Log.Debugf("Sync scheduler: vault '%s' done with %d changes", v.DisplayName, report.Mutations())
			job.Advance()
		}
		return nil
	}
}
