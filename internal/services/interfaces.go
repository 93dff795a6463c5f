// filepath: internal/services/interfaces.go
package services

import (
	"context"

	"photovault/internal/activity"
	"photovault/internal/jobs"
	"photovault/internal/models"
	"photovault/internal/repository"
)

// CatalogStore is the persistence the services work against.
type CatalogStore interface {
	BeginTx() (*repository.Tx, error)

	CreateVault(v *models.Vault) (*models.Vault, error)
	GetVault(id int64) (*models.Vault, error)
	GetVaultByPath(rootPath string) (*models.Vault, error)
	ListVaults() ([]models.Vault, error)
	UpdateVault(v *models.Vault) error
	NextVaultOrder() (int, error)
	DeleteVault(id int64) ([]string, error)

	CreateAlbum(a *models.Album) (*models.Album, error)
	GetAlbum(id int64) (*models.Album, error)
	ListAlbumsByVault(vaultID int64) ([]models.Album, error)
	ListAlbums() ([]models.Album, error)
	NextSiblingOrder(vaultID int64, parentID *int64) (int, error)
	UpdateAlbumName(id int64, name string) error
	UpdateAlbumPlacement(id int64, parentID *int64, vaultID int64) error
	UpdateAlbumsVault(ids []int64, vaultID int64) (int64, error)
	DeleteAlbumTree(albumIDs []int64, dir string) ([]string, error)

	CreateImage(img *models.Image) (*models.Image, error)
	GetImage(id int64) (*models.Image, error)
	GetImagesByPaths(paths []string) (map[string]models.Image, error)
	ListImagesByVault(vaultID int64) ([]models.Image, error)
	ListImagesByAlbum(albumID int64) ([]models.Image, error)
	ListOrphanImages(root string) ([]models.Image, error)
	ListPendingImages() ([]models.Image, error)
	ListThumbnailCandidates(visibleOnly bool) ([]models.Image, error)
	UpdateImageLinks(id int64, albumID, vaultID *int64) error
	UpdateImageLocation(id int64, path string, albumID, vaultID *int64, status models.ImageStatus) error
	UpdateImageStatus(id int64, status models.ImageStatus) error
	SetImageThumbnail(id int64, ref string) error
	DeleteImages(ids []int64) ([]string, error)
	RebaseImagePaths(oldDir, newDir string, vaultID *int64) (int64, error)
	UpdateImagesVaultByAlbums(albumIDs []int64, vaultID int64) (int64, error)

	GetSetting(key string) (string, bool, error)
	GetIntSetting(key string) (int64, bool, error)
	SetSetting(key, value string) error
	DeleteSetting(key string) error

	RepairInvariants() (*models.RepairReport, error)
}

var _ CatalogStore = (*repository.Repository)(nil)

// ThumbnailGenerator renders and deletes thumbnails.
type ThumbnailGenerator interface {
	Generate(path string, id int64, size int) (string, error)
	Remove(ref string) error
}

// ActivityRecorder writes and reads the per-vault activity log.
type ActivityRecorder interface {
	Append(vaultRoot string, action activity.Action, detail string) error
	Read(vaultRoot string, limit int) ([]models.ActivityEntry, error)
}

// progressReporter receives per-item progress. *jobs.Job satisfies it.
type progressReporter interface {
	SetTotal(n int)
	AddTotal(n int)
	Begin(item string)
	Advance()
	ItemFailed(path, reason string)
}

var _ progressReporter = (*jobs.Job)(nil)

// InfoService defines the interface for the info service.
type InfoService interface {
	GetInfo() models.Info
}

// VaultService defines the interface for the vault registry.
type VaultService interface {
	AddVault(path, displayName string) (*models.Vault, error)
	GetVault(id int64) (*models.Vault, error)
	ListVaults() ([]models.Vault, error)
	UpdateVault(id int64, payload models.VaultUpdatePayload) (*models.Vault, error)
	ReorderVaults(ids []int64) error
	RemoveVault(id int64) error
	SetDefaultVault(id int64) error
	DefaultVault() (*models.Vault, error)
	ReadActivity(id int64, limit int) ([]models.ActivityEntry, error)
}

// SyncService defines the interface for the tree reconciler.
type SyncService interface {
	Sync(ctx context.Context, vaultID int64) (*models.SyncReport, error)
}

// FolderService defines the interface for folder operations.
type FolderService interface {
	ListAlbums(vaultID *int64) ([]models.Album, error)
	CreateFolder(name string, parentID, vaultID *int64) (*models.Album, error)
	RenameFolder(albumID int64, newName string) (*models.Album, error)
	MoveFolder(albumID int64, newParentID, targetVaultID *int64) (*models.Album, error)
	DeleteFolder(albumID int64, deleteContents bool) error
}

// ImageService defines the interface for image operations.
type ImageService interface {
	MoveImageToAlbum(imageID int64, albumID *int64) (*models.Image, error)
	MoveImageToTrash(imageID int64) error
	MoveImageToSortLater(imageID int64) (*models.Image, error)
	BatchMoveImages(ids []int64, albumID *int64) []models.BatchResult
	BatchTrashImages(ids []int64) []models.BatchResult
	AssignImage(imageID int64, albumID *int64) (*models.Image, error)
	MarkImage(imageID int64, status models.ImageStatus) (*models.Image, error)
}

// TrashService defines the interface for trash inspection and cleanup.
type TrashService interface {
	GetTrashInfo() (*models.TrashInfo, error)
	EmptyTrash() (*models.EmptyTrashReport, error)
}

// ThumbnailService defines the interface for thumbnail generation.
type ThumbnailService interface {
	Enqueue(img models.Image)
	Remove(refs []string)
	Regenerate(ctx context.Context, scope string) (*models.ThumbnailReport, error)
	Wait()
}

// JobService defines the interface for the long-running jobs.
type JobService interface {
	StartScan(req models.ScanRequest) (*jobs.Job, error)
	StartSync(vaultID *int64) (*jobs.Job, error)
	StartOrganize(req models.OrganizeRequest) (*jobs.Job, error)
	StartThumbnails(scope string) (*jobs.Job, error)
	Status(kind models.JobKind) models.JobStatus
	Cancel(kind models.JobKind) bool
}
