// filepath: internal/services/trash_service.go
package services

import (
	"fmt"
	"os"
	"path/filepath"

	"photovault/internal/config"
	"photovault/internal/logging"
	"photovault/internal/models"
	"photovault/internal/storage"

	"github.com/dustin/go-humanize"
)

var _ TrashService = (*trashService)(nil)

type trashService struct {
	Repo       CatalogStore
	LegacyPath string
}

// NewTrashService creates a new TrashService.
func NewTrashService(repo CatalogStore, cfg *config.Config) *trashService {
	return &trashService{
		Repo:       repo,
		LegacyPath: cfg.LegacyVaultPath,
	}
}

// locations lists the trash folder of every vault plus the legacy one when it
// is not inside a registered vault.
func (s *trashService) locations() ([]models.TrashLocation, error) {
	vaults, err := s.Repo.ListVaults()
	if err != nil {
		return nil, err
	}
	locs := make([]models.TrashLocation, 0, len(vaults)+1)
	for _, v := range vaults {
		id := v.ID
		locs = append(locs, models.TrashLocation{Path: filepath.Join(v.RootPath, storage.TrashDirName), VaultID: &id})
	}

	if legacy := legacyRoot(s.Repo, s.LegacyPath); legacy != "" {
		covered := false
		for _, v := range vaults {
			if storage.Within(v.RootPath, legacy) {
				covered = true
				break
			}
		}
		if !covered {
			locs = append(locs, models.TrashLocation{Path: filepath.Join(legacy, storage.TrashDirName)})
		}
	}
	return locs, nil
}

// GetTrashInfo counts the files waiting in every trash folder.
func (s *trashService) GetTrashInfo() (*models.TrashInfo, error) {
	locs, err := s.locations()
	if err != nil {
		return nil, err
	}
	info := &models.TrashInfo{Locations: locs}
	for i := range info.Locations {
		count, size, err := storage.DirUsage(info.Locations[i].Path)
		if err != nil {
			logging.Log.Warnf("TrashService: cannot measure '%s': %v", info.Locations[i].Path, err)
			continue
		}
		info.Locations[i].Count = count
		info.Locations[i].TotalBytes = size
		info.Count += count
		info.TotalBytes += size
	}
	return info, nil
}

// EmptyTrash permanently deletes the content of every trash folder. Entries
// that cannot be removed are logged and skipped.
func (s *trashService) EmptyTrash() (*models.EmptyTrashReport, error) {
	locs, err := s.locations()
	if err != nil {
		return nil, err
	}

	report := &models.EmptyTrashReport{}
	for _, loc := range locs {
		entries, err := os.ReadDir(loc.Path)
		if err != nil {
			if !os.IsNotExist(err) {
				logging.Log.Warnf("TrashService: cannot list '%s': %v", loc.Path, err)
			}
			continue
		}
		for _, entry := range entries {
			path := filepath.Join(loc.Path, entry.Name())
			count, size, err := storage.DirUsage(path)
			if err != nil {
				count, size = 1, 0
			}
			if err := os.RemoveAll(path); err != nil {
				logging.Log.Warnf("TrashService: cannot delete '%s': %v", path, err)
				report.Failed++
				continue
			}
			report.Removed += count
			report.FreedBytes += size
		}
	}

	report.Message = fmt.Sprintf("Removed %d files, freed %s", report.Removed, humanize.Bytes(uint64(report.FreedBytes)))
	if report.Failed > 0 {
		report.Message += fmt.Sprintf(" (%d could not be deleted)", report.Failed)
	}
	logging.Log.Infof("TrashService: %s", report.Message)
	return report, nil
}
