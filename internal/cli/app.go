// filepath: internal/cli/app.go
package cli

import (
	"fmt"

	"photovault/internal/activity"
	"photovault/internal/jobs"
	"photovault/internal/logging"
	"photovault/internal/repository"
	"photovault/internal/services"
	"photovault/internal/thumbnail"
)

// app bundles the catalog and every service built on it. Commands share it so
// the CLI and the HTTP server drive the same code paths.
type app struct {
	repo    *repository.Repository
	manager *jobs.Manager

	thumbs  services.ThumbnailService
	info    services.InfoService
	vaults  services.VaultService
	sync    services.SyncService
	folders services.FolderService
	images  services.ImageService
	trash   services.TrashService
	jobs    services.JobService
}

// openApp connects to the catalog, bootstraps a fresh schema and wires the services.
func openApp() (*app, error) {
	repo, err := repository.NewRepository(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize repository: %w", err)
	}

	// --- Conditional Auto-migrate on startup ---
	if err := repo.EnsureSchemaBootstrapped(); err != nil {
		repo.Close()
		logging.Log.Errorf("Failed to bootstrap database: %v", err)
		return nil, err
	}

	if err := repo.ValidateSchema(); err != nil {
		repo.Close()
		logging.Log.Error("---------------------------------------------------------------")
		logging.Log.Errorf("CRITICAL DATABASE ERROR: %v", err)
		logging.Log.Error("---------------------------------------------------------------")
		return nil, err
	}

	if cfg.LegacyVaultPath != "" {
		if err := repo.SetSetting(repository.SettingLegacyVaultPath, cfg.LegacyVaultPath); err != nil {
			logging.Log.Warnf("Failed to record legacy vault path: %v", err)
		}
	}

	recorder := activity.NewLog(cfg.Logging.ActivityMirror)
	thumbs := services.NewThumbnailService(repo, thumbnail.NewGenerator(cfg.Thumbnails.Dir), cfg.Thumbnails.Size, cfg.Thumbnails.Workers)
	syncService := services.NewSyncService(repo, recorder, thumbs)
	manager := jobs.NewManager()

	return &app{
		repo:    repo,
		manager: manager,
		thumbs:  thumbs,
		info:    services.NewInfoService(Version, StartTime),
		vaults:  services.NewVaultService(repo, recorder, thumbs),
		sync:    syncService,
		folders: services.NewFolderService(repo, recorder, thumbs),
		images:  services.NewImageService(repo, recorder, thumbs, cfg),
		trash:   services.NewTrashService(repo, cfg),
		jobs:    services.NewJobService(repo, syncService, thumbs, recorder, manager, cfg),
	}, nil
}

// Close cancels running jobs, drains pending thumbnail work and closes the catalog.
func (a *app) Close() error {
	a.manager.Shutdown()
	a.thumbs.Wait()
	return a.repo.Close()
}
