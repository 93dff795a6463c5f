// filepath: internal/services/job_service.go
package services

import (
	"context"
	"fmt"

	"photovault/internal/config"
	"photovault/internal/jobs"
	"photovault/internal/models"
)

var _ JobService = (*jobService)(nil)

// jobService starts the long-running jobs. One job per kind may run at a time.
type jobService struct {
	Repo       CatalogStore
	Sync       SyncService
	Thumbs     *thumbnailService
	Activity   ActivityRecorder
	Manager    *jobs.Manager
	LegacyPath string
	// DeleteOriginals is the organize default when a request does not say.
	DeleteOriginals bool
}

// NewJobService creates a new JobService.
func NewJobService(repo CatalogStore, sync SyncService, thumbs *thumbnailService, rec ActivityRecorder, manager *jobs.Manager, cfg *config.Config) *jobService {
	return &jobService{
		Repo:            repo,
		Sync:            sync,
		Thumbs:          thumbs,
		Activity:        rec,
		Manager:         manager,
		LegacyPath:      cfg.LegacyVaultPath,
		DeleteOriginals: cfg.Organize.DeleteOriginals,
	}
}

// StartScan launches a discovery pass.
func (s *jobService) StartScan(req models.ScanRequest) (*jobs.Job, error) {
	targets, err := s.scanTargets(req)
	if err != nil {
		return nil, err
	}
	return s.Manager.Start(models.JobKindScan, s.scanRunner(targets))
}

// StartSync launches a reconciliation of one vault, or of every visible vault.
func (s *jobService) StartSync(vaultID *int64) (*jobs.Job, error) {
	if vaultID == nil {
		return s.Manager.Start(models.JobKindSync, jobs.SyncAllRunner(jobs.Dependencies{Vaults: s.Repo, Syncer: s.Sync}))
	}
	vault, err := getVault(s.Repo, *vaultID)
	if err != nil {
		return nil, err
	}
	return s.Manager.Start(models.JobKindSync, func(ctx context.Context, job *jobs.Job) error {
		job.SetTotal(1)
		job.Begin(vault.RootPath)
		if _, err := s.Sync.Sync(ctx, vault.ID); err != nil {
			return err
		}
		job.Advance()
		return nil
	})
}

// StartOrganize launches the final disposition pass.
func (s *jobService) StartOrganize(req models.OrganizeRequest) (*jobs.Job, error) {
	return s.Manager.Start(models.JobKindOrganize, s.organizeRunner(req))
}

// StartThumbnails launches a thumbnail regeneration for scope.
func (s *jobService) StartThumbnails(scope string) (*jobs.Job, error) {
	if scope == "" {
		scope = ThumbnailScopeAll
	}
	if scope != ThumbnailScopeAll && scope != ThumbnailScopeVisible {
		return nil, fmt.Errorf("%w: unknown thumbnail scope '%s'", ErrInvalidInput, scope)
	}
	return s.Manager.Start(models.JobKindThumbnails, func(ctx context.Context, job *jobs.Job) error {
		_, err := s.Thumbs.regenerate(ctx, scope, job)
		return err
	})
}

func (s *jobService) Status(kind models.JobKind) models.JobStatus {
	return s.Manager.Status(kind)
}

func (s *jobService) Cancel(kind models.JobKind) bool {
	return s.Manager.Cancel(kind)
}
