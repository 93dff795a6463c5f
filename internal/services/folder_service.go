// filepath: internal/services/folder_service.go
package services

import (
	"fmt"
	"os"
	"path/filepath"

	"photovault/internal/activity"
	"photovault/internal/logging"
	"photovault/internal/models"
	"photovault/internal/storage"
)

var _ FolderService = (*folderService)(nil)

// folderService creates, renames, moves and deletes album folders. Every
// operation changes the disk first and the catalog second.
type folderService struct {
	Repo     CatalogStore
	Activity ActivityRecorder
	Thumbs   ThumbnailService
}

// NewFolderService creates a new FolderService.
func NewFolderService(repo CatalogStore, rec ActivityRecorder, thumbs ThumbnailService) *folderService {
	return &folderService{
		Repo:     repo,
		Activity: rec,
		Thumbs:   thumbs,
	}
}

// ListAlbums returns the albums of one vault, or of every vault.
func (s *folderService) ListAlbums(vaultID *int64) ([]models.Album, error) {
	if vaultID == nil {
		return s.Repo.ListAlbums()
	}
	if _, err := getVault(s.Repo, *vaultID); err != nil {
		return nil, err
	}
	return s.Repo.ListAlbumsByVault(*vaultID)
}

// CreateFolder makes a new album folder. The vault is the explicit one, else
// the parent's, else the default vault.
func (s *folderService) CreateFolder(name string, parentID, vaultID *int64) (*models.Album, error) {
	clean, err := storage.ValidateFolderName(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var vault *models.Vault
	var tree *albumTree
	parentDir := ""
	switch {
	case parentID != nil:
		loc, err := locateAlbum(s.Repo, *parentID)
		if err != nil {
			return nil, err
		}
		if vaultID != nil && *vaultID != loc.vault.ID {
			return nil, fmt.Errorf("%w: parent album %d belongs to vault %d", ErrInvalidInput, *parentID, loc.vault.ID)
		}
		vault, tree, parentDir = loc.vault, loc.tree, loc.dir
	case vaultID != nil:
		if vault, err = getVault(s.Repo, *vaultID); err != nil {
			return nil, err
		}
	default:
		if vault, err = defaultVault(s.Repo); err != nil {
			return nil, fmt.Errorf("%w: no vault to create the folder in", ErrInvalidInput)
		}
	}
	if parentDir == "" {
		parentDir = vault.RootPath
	}
	if tree == nil {
		if tree, err = loadAlbumTree(s.Repo, vault); err != nil {
			return nil, err
		}
	}

	target, err := storage.ResolveWithin(parentDir, clean)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	for id := range tree.byID {
		if dir, err := tree.dir(id); err == nil && dir == target {
			return nil, fmt.Errorf("%w: album '%s' already exists", ErrConflict, clean)
		}
	}
	if storage.Exists(target) && !storage.IsDir(target) {
		return nil, fmt.Errorf("%w: a file named '%s' already exists", ErrConflict, clean)
	}
	if err := storage.EnsureDir(target); err != nil {
		return nil, ioFailure(err, "create folder")
	}

	order, err := s.Repo.NextSiblingOrder(vault.ID, parentID)
	if err != nil {
		return nil, err
	}
	album, err := s.Repo.CreateAlbum(&models.Album{
		Name:      clean,
		ParentID:  parentID,
		VaultID:   vault.ID,
		SortOrder: order,
	})
	if err != nil {
		return nil, err
	}

	recordActivity(s.Activity, vault.RootPath, activity.ActionCreate, relativeTo(vault.RootPath, target))
	logging.Log.Infof("FolderService: created folder '%s' in vault '%s'", target, vault.DisplayName)
	return album, nil
}

// RenameFolder renames the album directory in place. Descendant paths are
// derived, so only the name and the stored image paths change.
func (s *folderService) RenameFolder(albumID int64, newName string) (*models.Album, error) {
	clean, err := storage.ValidateFolderName(newName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	loc, err := locateAlbum(s.Repo, albumID)
	if err != nil {
		return nil, err
	}
	if clean == loc.album.Name {
		return loc.album, nil
	}

	target := filepath.Join(filepath.Dir(loc.dir), clean)
	// A case-only rename finds the folder itself on case-insensitive disks.
	if storage.Exists(target) && !sameFolder(loc.dir, target) {
		return nil, fmt.Errorf("%w: '%s' already exists", ErrConflict, clean)
	}
	if !storage.IsDir(loc.dir) {
		return nil, fmt.Errorf("%w: folder '%s' is missing on disk", ErrIOFailure, loc.dir)
	}
	if err := os.Rename(loc.dir, target); err != nil {
		return nil, ioFailure(err, "rename folder")
	}

	if err := s.Repo.UpdateAlbumName(albumID, clean); err != nil {
		return nil, translateRepoErr(err, fmt.Sprintf("album %d", albumID))
	}
	if _, err := s.Repo.RebaseImagePaths(loc.dir, target, nil); err != nil {
		logging.Log.Errorf("FolderService: could not rewrite image paths below '%s': %v", target, err)
	}

	recordActivity(s.Activity, loc.vault.RootPath, activity.ActionRename,
		fmt.Sprintf("%s -> %s", relativeTo(loc.vault.RootPath, loc.dir), relativeTo(loc.vault.RootPath, target)))

	renamed := *loc.album
	renamed.Name = clean
	return &renamed, nil
}

// MoveFolder moves an album below newParentID, or to the root of the target
// vault when newParentID is nil. Crossing vaults moves every descendant album
// and every image below the folder along.
func (s *folderService) MoveFolder(albumID int64, newParentID, targetVaultID *int64) (*models.Album, error) {
	src, err := locateAlbum(s.Repo, albumID)
	if err != nil {
		return nil, err
	}

	dstVault := src.vault
	dstParentDir := src.vault.RootPath
	if newParentID != nil {
		if *newParentID == albumID {
			return nil, fmt.Errorf("%w: cannot move a folder into itself", ErrInvalidInput)
		}
		parent, err := locateAlbum(s.Repo, *newParentID)
		if err != nil {
			return nil, err
		}
		if targetVaultID != nil && *targetVaultID != parent.vault.ID {
			return nil, fmt.Errorf("%w: parent album %d belongs to vault %d", ErrInvalidInput, *newParentID, parent.vault.ID)
		}
		if parent.vault.ID == src.vault.ID && src.tree.isAncestor(albumID, *newParentID) {
			return nil, fmt.Errorf("%w: cannot move a folder into its own descendant", ErrInvalidInput)
		}
		dstVault, dstParentDir = parent.vault, parent.dir
	} else if targetVaultID != nil && *targetVaultID != src.vault.ID {
		if dstVault, err = getVault(s.Repo, *targetVaultID); err != nil {
			return nil, err
		}
		dstParentDir = dstVault.RootPath
	}

	if sameParent(src.album.ParentID, newParentID) && dstVault.ID == src.vault.ID {
		return src.album, nil
	}

	target := filepath.Join(dstParentDir, storage.PathSegment(src.album.Name))
	if storage.Exists(target) {
		return nil, fmt.Errorf("%w: '%s' already exists in the target folder", ErrConflict, src.album.Name)
	}
	if err := storage.MoveDir(src.dir, target); err != nil {
		return nil, ioFailure(err, "move folder")
	}

	if err := s.Repo.UpdateAlbumPlacement(albumID, newParentID, dstVault.ID); err != nil {
		return nil, translateRepoErr(err, fmt.Sprintf("album %d", albumID))
	}

	crossing := dstVault.ID != src.vault.ID
	if crossing {
		descendants := src.tree.descendants(albumID)
		if _, err := s.Repo.UpdateAlbumsVault(descendants, dstVault.ID); err != nil {
			logging.Log.Errorf("FolderService: could not move descendants of album %d: %v", albumID, err)
		}
		if _, err := s.Repo.UpdateImagesVaultByAlbums(append(descendants, albumID), dstVault.ID); err != nil {
			logging.Log.Errorf("FolderService: could not move images of album %d: %v", albumID, err)
		}
		if _, err := s.Repo.RebaseImagePaths(src.dir, target, &dstVault.ID); err != nil {
			logging.Log.Errorf("FolderService: could not rewrite image paths below '%s': %v", target, err)
		}
	} else if _, err := s.Repo.RebaseImagePaths(src.dir, target, nil); err != nil {
		logging.Log.Errorf("FolderService: could not rewrite image paths below '%s': %v", target, err)
	}

	detail := fmt.Sprintf("%s -> %s", relativeTo(src.vault.RootPath, src.dir), relativeTo(dstVault.RootPath, target))
	recordActivity(s.Activity, src.vault.RootPath, activity.ActionMove, detail)
	if crossing {
		recordActivity(s.Activity, dstVault.RootPath, activity.ActionMove,
			fmt.Sprintf("%s (from vault '%s')", detail, src.vault.DisplayName))
	}

	moved := *src.album
	moved.ParentID = newParentID
	moved.VaultID = dstVault.ID
	return &moved, nil
}

// DeleteFolder removes the album folder and the catalog rows of the album, its
// descendants and every image below it. Without deleteContents only folders
// holding nothing but hidden entries are removed.
func (s *folderService) DeleteFolder(albumID int64, deleteContents bool) error {
	loc, err := locateAlbum(s.Repo, albumID)
	if err != nil {
		return err
	}

	if storage.IsDir(loc.dir) {
		if !deleteContents {
			busy, err := storage.HasVisibleEntries(loc.dir)
			if err != nil {
				return ioFailure(err, "inspect folder")
			}
			if busy {
				return fmt.Errorf("%w: '%s'", ErrNotEmpty, loc.album.Name)
			}
		}
		if err := os.RemoveAll(loc.dir); err != nil {
			return ioFailure(err, "delete folder")
		}
	}

	ids := append([]int64{albumID}, loc.tree.descendants(albumID)...)
	refs, err := s.Repo.DeleteAlbumTree(ids, loc.dir)
	if err != nil {
		return err
	}
	if s.Thumbs != nil {
		s.Thumbs.Remove(refs)
	}

	recordActivity(s.Activity, loc.vault.RootPath, activity.ActionDelete,
		fmt.Sprintf("%s (%d albums)", relativeTo(loc.vault.RootPath, loc.dir), len(ids)))
	return nil
}

// sameFolder reports whether a and b name the same directory on disk.
func sameFolder(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}
