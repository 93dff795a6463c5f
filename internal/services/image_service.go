// filepath: internal/services/image_service.go
package services

import (
	"fmt"
	"path/filepath"

	"photovault/internal/activity"
	"photovault/internal/config"
	"photovault/internal/logging"
	"photovault/internal/models"
	"photovault/internal/repository"
	"photovault/internal/storage"
)

var _ ImageService = (*imageService)(nil)

// imageService moves single images between albums, the trash and the
// sort-later folder.
type imageService struct {
	Repo       CatalogStore
	Activity   ActivityRecorder
	Thumbs     ThumbnailService
	LegacyPath string
}

// NewImageService creates a new ImageService.
func NewImageService(repo CatalogStore, rec ActivityRecorder, thumbs ThumbnailService, cfg *config.Config) *imageService {
	return &imageService{
		Repo:       repo,
		Activity:   rec,
		Thumbs:     thumbs,
		LegacyPath: cfg.LegacyVaultPath,
	}
}

// MoveImageToAlbum moves the file into the album folder under a free name.
// A nil album leaves the image where it is.
func (s *imageService) MoveImageToAlbum(imageID int64, albumID *int64) (*models.Image, error) {
	img, err := getImage(s.Repo, imageID)
	if err != nil {
		return nil, err
	}
	if albumID == nil {
		return img, nil
	}
	loc, err := locateAlbum(s.Repo, *albumID)
	if err != nil {
		return nil, err
	}

	if filepath.Dir(img.AbsolutePath) == loc.dir {
		if !sameParent(img.AlbumID, albumID) || img.VaultID == nil || *img.VaultID != loc.vault.ID {
			if err := s.Repo.UpdateImageLinks(img.ID, albumID, &loc.vault.ID); err != nil {
				return nil, translateRepoErr(err, fmt.Sprintf("image %d", img.ID))
			}
		}
		img.AlbumID, img.VaultID = albumID, &loc.vault.ID
		return img, nil
	}

	dst, err := s.relocate(img, loc.dir)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.UpdateImageLocation(img.ID, dst, albumID, &loc.vault.ID, models.ImageStatusNormal); err != nil {
		return nil, translateRepoErr(err, fmt.Sprintf("image %d", img.ID))
	}

	recordActivity(s.Activity, loc.vault.RootPath, activity.ActionMove,
		fmt.Sprintf("%s -> %s", img.AbsolutePath, relativeTo(loc.vault.RootPath, dst)))

	img.AbsolutePath, img.Filename = dst, filepath.Base(dst)
	img.AlbumID, img.VaultID, img.Status = albumID, &loc.vault.ID, models.ImageStatusNormal
	return img, nil
}

// MoveImageToTrash moves the file into a _Trash folder and drops the catalog
// row. The trash is disk only from then on.
func (s *imageService) MoveImageToTrash(imageID int64) error {
	img, err := getImage(s.Repo, imageID)
	if err != nil {
		return err
	}
	root, err := s.dispositionRoot(img, true)
	if err != nil {
		return err
	}

	dst, err := s.relocate(img, filepath.Join(root, storage.TrashDirName))
	if err != nil {
		return err
	}
	refs, err := s.Repo.DeleteImages([]int64{img.ID})
	if err != nil {
		return err
	}
	if s.Thumbs != nil {
		s.Thumbs.Remove(refs)
	}

	recordActivity(s.Activity, root, activity.ActionDelete,
		fmt.Sprintf("%s -> %s", img.AbsolutePath, relativeTo(root, dst)))
	return nil
}

// MoveImageToSortLater moves the file into the _Sort Later folder, detaches
// it from its album and marks it not-sure.
func (s *imageService) MoveImageToSortLater(imageID int64) (*models.Image, error) {
	img, err := getImage(s.Repo, imageID)
	if err != nil {
		return nil, err
	}
	root, err := s.dispositionRoot(img, false)
	if err != nil {
		return nil, err
	}
	vault, err := s.Repo.GetVaultByPath(root)
	if err != nil {
		return nil, translateRepoErr(err, "vault "+root)
	}

	dst, err := s.relocate(img, filepath.Join(root, storage.SortLaterDirName))
	if err != nil {
		return nil, err
	}
	if err := s.Repo.UpdateImageLocation(img.ID, dst, nil, &vault.ID, models.ImageStatusNotSure); err != nil {
		return nil, translateRepoErr(err, fmt.Sprintf("image %d", img.ID))
	}

	recordActivity(s.Activity, root, activity.ActionMove,
		fmt.Sprintf("%s -> %s", img.AbsolutePath, relativeTo(root, dst)))

	img.AbsolutePath, img.Filename = dst, filepath.Base(dst)
	img.AlbumID, img.VaultID, img.Status = nil, &vault.ID, models.ImageStatusNotSure
	return img, nil
}

// BatchMoveImages moves every image independently; failures do not stop the batch.
func (s *imageService) BatchMoveImages(ids []int64, albumID *int64) []models.BatchResult {
	return runBatch(ids, func(id int64) error {
		_, err := s.MoveImageToAlbum(id, albumID)
		return err
	})
}

// BatchTrashImages trashes every image independently.
func (s *imageService) BatchTrashImages(ids []int64) []models.BatchResult {
	return runBatch(ids, s.MoveImageToTrash)
}

func runBatch(ids []int64, op func(id int64) error) []models.BatchResult {
	results := make([]models.BatchResult, 0, len(ids))
	for _, id := range ids {
		if err := op(id); err != nil {
			logging.Log.Warnf("ImageService: batch item %d failed: %v", id, err)
			results = append(results, models.BatchResult{ID: id, Success: false, Error: err.Error()})
			continue
		}
		results = append(results, models.BatchResult{ID: id, Success: true})
	}
	return results
}

// AssignImage records a pending album assignment without touching the file.
// The organize job carries it out. Files inside a vault folder are relinked
// to that folder again by the next sync.
func (s *imageService) AssignImage(imageID int64, albumID *int64) (*models.Image, error) {
	img, err := getImage(s.Repo, imageID)
	if err != nil {
		return nil, err
	}
	vaultID := img.VaultID
	if albumID != nil {
		album, err := getAlbum(s.Repo, *albumID)
		if err != nil {
			return nil, err
		}
		vaultID = &album.VaultID
	}
	if err := s.Repo.UpdateImageLinks(img.ID, albumID, vaultID); err != nil {
		return nil, translateRepoErr(err, fmt.Sprintf("image %d", img.ID))
	}
	img.AlbumID, img.VaultID = albumID, vaultID
	return img, nil
}

// MarkImage sets the disposition status of an image.
func (s *imageService) MarkImage(imageID int64, status models.ImageStatus) (*models.Image, error) {
	switch status {
	case models.ImageStatusNormal, models.ImageStatusTrash, models.ImageStatusNotSure:
	default:
		return nil, fmt.Errorf("%w: unknown status '%s'", ErrInvalidInput, status)
	}
	img, err := getImage(s.Repo, imageID)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.UpdateImageStatus(img.ID, status); err != nil {
		return nil, translateRepoErr(err, fmt.Sprintf("image %d", img.ID))
	}
	img.Status = status
	return img, nil
}

// relocate moves the image file into dir under a collision-free name and
// returns the new path.
func (s *imageService) relocate(img *models.Image, dir string) (string, error) {
	if !storage.Exists(img.AbsolutePath) {
		return "", fmt.Errorf("%w: source file '%s' is missing", ErrIOFailure, img.AbsolutePath)
	}
	if err := storage.EnsureDir(dir); err != nil {
		return "", ioFailure(err, "create target folder")
	}
	dst, err := storage.UniqueName(dir, img.Filename)
	if err != nil {
		return "", ioFailure(err, "pick target name")
	}
	if err := storage.MoveFile(img.AbsolutePath, dst); err != nil {
		return "", ioFailure(err, "move file")
	}
	return dst, nil
}

// dispositionRoot picks the vault root receiving trashed or deferred images:
// the owning vault, else the first visible vault, else (for the trash only)
// the legacy single-vault path.
func (s *imageService) dispositionRoot(img *models.Image, allowLegacy bool) (string, error) {
	return resolveDispositionRoot(s.Repo, img, allowLegacy, s.LegacyPath)
}

func resolveDispositionRoot(repo CatalogStore, img *models.Image, allowLegacy bool, legacyPath string) (string, error) {
	if img.VaultID != nil {
		if v, err := repo.GetVault(*img.VaultID); err == nil {
			return v.RootPath, nil
		}
	}
	if v, err := firstVisibleVault(repo); err == nil {
		return v.RootPath, nil
	}
	if allowLegacy {
		if legacy := legacyRoot(repo, legacyPath); legacy != "" {
			return legacy, nil
		}
	}
	return "", fmt.Errorf("%w: no vault available for image %d", ErrNotFound, img.ID)
}

// legacyRoot returns the legacy single-vault path from the catalog settings,
// falling back to the configured one.
func legacyRoot(repo CatalogStore, configured string) string {
	if value, ok, err := repo.GetSetting(repository.SettingLegacyVaultPath); err == nil && ok && value != "" {
		return value
	}
	return configured
}
