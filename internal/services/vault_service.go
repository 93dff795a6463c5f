// filepath: internal/services/vault_service.go
package services

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"photovault/internal/activity"
	"photovault/internal/logging"
	"photovault/internal/models"
	"photovault/internal/repository"
	"photovault/internal/storage"
)

var _ VaultService = (*vaultService)(nil)

// vaultService is the vault registry.
type vaultService struct {
	Repo     CatalogStore
	Activity ActivityRecorder
	Thumbs   ThumbnailService
}

// NewVaultService creates a new VaultService.
func NewVaultService(repo CatalogStore, rec ActivityRecorder, thumbs ThumbnailService) *vaultService {
	return &vaultService{
		Repo:     repo,
		Activity: rec,
		Thumbs:   thumbs,
	}
}

// AddVault registers an existing directory as a vault. Paths nested inside
// another vault, or containing one, are rejected.
func (s *vaultService) AddVault(path, displayName string) (*models.Vault, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: vault path is required", ErrInvalidInput)
	}
	root, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !storage.IsDir(root) {
		return nil, fmt.Errorf("%w: '%s' is not an existing directory", ErrInvalidInput, root)
	}

	vaults, err := s.Repo.ListVaults()
	if err != nil {
		return nil, err
	}
	for _, v := range vaults {
		switch {
		case v.RootPath == root:
			return nil, fmt.Errorf("%w: '%s' is already registered", ErrConflict, root)
		case storage.Within(v.RootPath, root), storage.Within(root, v.RootPath):
			return nil, fmt.Errorf("%w: '%s' overlaps vault '%s'", ErrConflict, root, v.DisplayName)
		}
	}

	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = filepath.Base(root)
	}
	order, err := s.Repo.NextVaultOrder()
	if err != nil {
		return nil, err
	}

	vault, err := s.Repo.CreateVault(&models.Vault{
		RootPath:    root,
		DisplayName: displayName,
		Visible:     true,
		SortOrder:   order,
	})
	if err != nil {
		return nil, translateRepoErr(err, "vault "+root)
	}

	logging.Log.Infof("VaultService: registered vault '%s' at %s", vault.DisplayName, vault.RootPath)
	recordActivity(s.Activity, vault.RootPath, activity.ActionVaultAdded, fmt.Sprintf("%s (%s)", vault.DisplayName, vault.RootPath))
	return vault, nil
}

func (s *vaultService) GetVault(id int64) (*models.Vault, error) {
	return getVault(s.Repo, id)
}

func (s *vaultService) ListVaults() ([]models.Vault, error) {
	return s.Repo.ListVaults()
}

// UpdateVault applies the non-nil fields of payload.
func (s *vaultService) UpdateVault(id int64, payload models.VaultUpdatePayload) (*models.Vault, error) {
	vault, err := getVault(s.Repo, id)
	if err != nil {
		return nil, err
	}
	if payload.DisplayName != nil {
		name := strings.TrimSpace(*payload.DisplayName)
		if name == "" {
			return nil, fmt.Errorf("%w: display name cannot be empty", ErrInvalidInput)
		}
		vault.DisplayName = name
	}
	if payload.Visible != nil {
		vault.Visible = *payload.Visible
	}
	if payload.SortOrder != nil {
		vault.SortOrder = *payload.SortOrder
	}
	if err := s.Repo.UpdateVault(vault); err != nil {
		return nil, translateRepoErr(err, fmt.Sprintf("vault %d", id))
	}
	return vault, nil
}

// ReorderVaults assigns sort orders following the position in ids.
func (s *vaultService) ReorderVaults(ids []int64) error {
	vaults := make([]*models.Vault, 0, len(ids))
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return fmt.Errorf("%w: vault %d listed twice", ErrInvalidInput, id)
		}
		seen[id] = true
		v, err := getVault(s.Repo, id)
		if err != nil {
			return err
		}
		vaults = append(vaults, v)
	}
	for i, v := range vaults {
		if v.SortOrder == i {
			continue
		}
		v.SortOrder = i
		if err := s.Repo.UpdateVault(v); err != nil {
			return translateRepoErr(err, fmt.Sprintf("vault %d", v.ID))
		}
	}
	return nil
}

// RemoveVault unregisters a vault and purges its catalog rows. Files on disk
// are left untouched.
func (s *vaultService) RemoveVault(id int64) error {
	vault, err := getVault(s.Repo, id)
	if err != nil {
		return err
	}
	refs, err := s.Repo.DeleteVault(id)
	if err != nil {
		return translateRepoErr(err, fmt.Sprintf("vault %d", id))
	}
	if s.Thumbs != nil {
		s.Thumbs.Remove(refs)
	}

	if def, ok, err := s.Repo.GetIntSetting(repository.SettingDefaultVaultID); err == nil && ok && def == id {
		if err := s.Repo.DeleteSetting(repository.SettingDefaultVaultID); err != nil {
			logging.Log.Warnf("VaultService: could not clear default vault: %v", err)
		}
	}

	logging.Log.Infof("VaultService: removed vault '%s' (%d thumbnails purged)", vault.DisplayName, len(refs))
	return nil
}

// SetDefaultVault makes id the vault used when a folder is created without
// parent or vault.
func (s *vaultService) SetDefaultVault(id int64) error {
	if _, err := getVault(s.Repo, id); err != nil {
		return err
	}
	return s.Repo.SetSetting(repository.SettingDefaultVaultID, strconv.FormatInt(id, 10))
}

func (s *vaultService) DefaultVault() (*models.Vault, error) {
	return defaultVault(s.Repo)
}

// ReadActivity returns the most recent activity rows of a vault.
func (s *vaultService) ReadActivity(id int64, limit int) ([]models.ActivityEntry, error) {
	vault, err := getVault(s.Repo, id)
	if err != nil {
		return nil, err
	}
	entries, err := s.Activity.Read(vault.RootPath, limit)
	if err != nil {
		return nil, ioFailure(err, "read activity log")
	}
	return entries, nil
}
