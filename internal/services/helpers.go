// filepath: internal/services/helpers.go
package services

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"photovault/internal/activity"
	"photovault/internal/logging"
	"photovault/internal/models"
	"photovault/internal/repository"
	"photovault/internal/storage"
	"photovault/internal/thumbnail"
)

func getVault(repo CatalogStore, id int64) (*models.Vault, error) {
	v, err := repo.GetVault(id)
	if err != nil {
		return nil, translateRepoErr(err, fmt.Sprintf("vault %d", id))
	}
	return v, nil
}

func getAlbum(repo CatalogStore, id int64) (*models.Album, error) {
	a, err := repo.GetAlbum(id)
	if err != nil {
		return nil, translateRepoErr(err, fmt.Sprintf("album %d", id))
	}
	return a, nil
}

func getImage(repo CatalogStore, id int64) (*models.Image, error) {
	img, err := repo.GetImage(id)
	if err != nil {
		return nil, translateRepoErr(err, fmt.Sprintf("image %d", id))
	}
	return img, nil
}

func loadAlbumTree(repo CatalogStore, vault *models.Vault) (*albumTree, error) {
	albums, err := repo.ListAlbumsByVault(vault.ID)
	if err != nil {
		return nil, err
	}
	return newAlbumTree(vault, albums), nil
}

// albumLocation is an album together with its vault, the vault's album tree
// and the album's directory.
type albumLocation struct {
	album *models.Album
	vault *models.Vault
	tree  *albumTree
	dir   string
}

func locateAlbum(repo CatalogStore, albumID int64) (*albumLocation, error) {
	album, err := getAlbum(repo, albumID)
	if err != nil {
		return nil, err
	}
	vault, err := getVault(repo, album.VaultID)
	if err != nil {
		return nil, err
	}
	tree, err := loadAlbumTree(repo, vault)
	if err != nil {
		return nil, err
	}
	dir, err := tree.dir(album.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: album %d: %v", ErrConflict, album.ID, err)
	}
	return &albumLocation{album: album, vault: vault, tree: tree, dir: dir}, nil
}

// firstVisibleVault returns the visible vault with the lowest order.
func firstVisibleVault(repo CatalogStore) (*models.Vault, error) {
	vaults, err := repo.ListVaults()
	if err != nil {
		return nil, err
	}
	for i := range vaults {
		if vaults[i].Visible {
			return &vaults[i], nil
		}
	}
	return nil, fmt.Errorf("%w: no visible vault", ErrNotFound)
}

// defaultVault resolves the configured default vault, falling back to the
// first visible one.
func defaultVault(repo CatalogStore) (*models.Vault, error) {
	id, ok, err := repo.GetIntSetting(repository.SettingDefaultVaultID)
	if err != nil {
		return nil, err
	}
	if ok {
		v, err := repo.GetVault(id)
		if err == nil {
			return v, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		logging.Log.Warnf("Default vault %d no longer exists, falling back", id)
	}
	return firstVisibleVault(repo)
}

// recordActivity appends to a vault's activity log. Failures are logged only.
func recordActivity(rec ActivityRecorder, vaultRoot string, action activity.Action, detail string) {
	if rec == nil || vaultRoot == "" {
		return
	}
	if err := rec.Append(vaultRoot, action, detail); err != nil {
		logging.Log.Warnf("Could not write activity log of '%s': %v", vaultRoot, err)
	}
}

// relativeTo renders path relative to root for log details.
func relativeTo(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil && storage.Within(root, path) {
		return rel
	}
	return path
}

// describeFile builds the catalog record of an image file on disk.
func describeFile(path string) (*models.Image, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s is not a regular file", path)
	}
	img := &models.Image{
		AbsolutePath: path,
		Filename:     filepath.Base(path),
		Size:         info.Size(),
		ModifiedAt:   info.ModTime(),
		Format:       storage.Format(path),
		Supported:    storage.IsSupportedFormat(path),
		Status:       models.ImageStatusNormal,
	}
	if img.Supported {
		if w, h, err := thumbnail.Dimensions(path); err == nil {
			img.Width, img.Height = &w, &h
		} else {
			logging.Log.Debugf("Could not read dimensions of '%s': %v", path, err)
		}
	}
	return img, nil
}
