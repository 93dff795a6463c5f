package repository

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"photovault/internal/models"
	"photovault/internal/shared"

	"github.com/Masterminds/squirrel"
)

// pathChunkSize keeps IN lists below sqlite's host parameter limit.
const pathChunkSize = 500

var imageColumns = []string{
	"images.id", "images.absolute_path", "images.filename", "images.size", "images.width", "images.height",
	"images.modified_at", "images.thumbnail_ref", "images.supported", "images.format",
	"images.album_id", "images.vault_id", "images.status",
}

func scanImage(row interface{ Scan(...interface{}) error }) (models.Image, error) {
	var img models.Image
	var width, height, albumID, vaultID sql.NullInt64
	var thumb sql.NullString
	var modified int64
	var status string
	err := row.Scan(&img.ID, &img.AbsolutePath, &img.Filename, &img.Size, &width, &height,
		&modified, &thumb, &img.Supported, &img.Format, &albumID, &vaultID, &status)
	if err != nil {
		return img, err
	}
	img.Width = nullableInt(width)
	img.Height = nullableInt(height)
	img.ModifiedAt = time.Unix(modified, 0)
	img.ThumbnailRef = nullableString(thumb)
	img.AlbumID = nullableInt64(albumID)
	img.VaultID = nullableInt64(vaultID)
	img.Status = models.ImageStatus(status)
	return img, nil
}

func (s *Repository) queryImages(b squirrel.SelectBuilder) ([]models.Image, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}
	rows, err := s.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	images := []models.Image{}
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

func (s *Repository) selectImages() squirrel.SelectBuilder {
	return s.Builder.Select(imageColumns...).From("images")
}

// CreateImage inserts an image. A duplicate path returns ErrDuplicate.
func (s *Repository) CreateImage(img *models.Image) (*models.Image, error) {
	status := img.Status
	if status == "" {
		status = models.ImageStatusNormal
	}
	query, args, err := s.Builder.Insert("images").
		Columns("absolute_path", "filename", "size", "width", "height", "modified_at",
			"thumbnail_ref", "supported", "format", "album_id", "vault_id", "status").
		Values(img.AbsolutePath, img.Filename, img.Size, ptrValue(img.Width), ptrValue(img.Height),
			img.ModifiedAt.Unix(), ptrValue(img.ThumbnailRef), img.Supported, img.Format,
			ptrValue(img.AlbumID), ptrValue(img.VaultID), string(status)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert query: %w", err)
	}
	res, err := s.DB.Exec(query, args...)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, fmt.Errorf("image %s: %w", img.AbsolutePath, shared.ErrDuplicate)
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	created := *img
	created.ID = id
	created.Status = status
	return &created, nil
}

// GetImage returns an image by id.
func (s *Repository) GetImage(id int64) (*models.Image, error) {
	query, args, err := s.selectImages().Where("images.id = ?", id).ToSql()
	if err != nil {
		return nil, err
	}
	img, err := scanImage(s.DB.QueryRow(query, args...))
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("image %d", id))
	}
	return &img, nil
}

// GetImagesByPaths returns the known images among paths, keyed by path.
func (s *Repository) GetImagesByPaths(paths []string) (map[string]models.Image, error) {
	found := make(map[string]models.Image, len(paths))
	for start := 0; start < len(paths); start += pathChunkSize {
		end := start + pathChunkSize
		if end > len(paths) {
			end = len(paths)
		}
		images, err := s.queryImages(s.selectImages().Where(squirrel.Eq{"images.absolute_path": paths[start:end]}))
		if err != nil {
			return nil, err
		}
		for _, img := range images {
			found[img.AbsolutePath] = img
		}
	}
	return found, nil
}

// ListImagesByVault returns every image attached to a vault.
func (s *Repository) ListImagesByVault(vaultID int64) ([]models.Image, error) {
	return s.queryImages(s.selectImages().Where("images.vault_id = ?", vaultID).OrderBy("images.id"))
}

// ListImagesByAlbum returns the images of one album.
func (s *Repository) ListImagesByAlbum(albumID int64) ([]models.Image, error) {
	return s.queryImages(s.selectImages().Where("images.album_id = ?", albumID).OrderBy("images.filename"))
}

// ListOrphanImages returns images with no vault whose path lies below root.
func (s *Repository) ListOrphanImages(root string) ([]models.Image, error) {
	return s.queryImages(s.selectImages().
		Where("images.vault_id IS NULL").
		Where(underDir(root)).
		OrderBy("images.id"))
}

// ListPendingImages returns images that carry a disposition: an album
// assignment or a trash / not-sure status.
func (s *Repository) ListPendingImages() ([]models.Image, error) {
	return s.queryImages(s.selectImages().
		Where(squirrel.Or{
			squirrel.NotEq{"images.album_id": nil},
			squirrel.Eq{"images.status": []string{string(models.ImageStatusTrash), string(models.ImageStatusNotSure)}},
		}).
		OrderBy("images.id"))
}

// ListThumbnailCandidates returns supported images, optionally restricted to
// images of visible vaults.
func (s *Repository) ListThumbnailCandidates(visibleOnly bool) ([]models.Image, error) {
	b := s.selectImages().Where("images.supported = 1")
	if visibleOnly {
		b = b.Join("vaults ON vaults.id = images.vault_id").Where("vaults.visible = 1")
	}
	return s.queryImages(b.OrderBy("images.id"))
}

// UpdateImageLinks sets album and vault of an image.
func (s *Repository) UpdateImageLinks(id int64, albumID, vaultID *int64) error {
	return s.execAffecting(s.Builder.Update("images").
		Set("album_id", ptrValue(albumID)).
		Set("vault_id", ptrValue(vaultID)).
		Where("id = ?", id), fmt.Sprintf("image %d", id))
}

// UpdateImageLocation records a moved file in one statement.
func (s *Repository) UpdateImageLocation(id int64, path string, albumID, vaultID *int64, status models.ImageStatus) error {
	return s.execAffecting(s.Builder.Update("images").
		Set("absolute_path", path).
		Set("filename", filepath.Base(path)).
		Set("album_id", ptrValue(albumID)).
		Set("vault_id", ptrValue(vaultID)).
		Set("status", string(status)).
		Where("id = ?", id), fmt.Sprintf("image %d", id))
}

// UpdateImageStatus sets the disposition status of an image.
func (s *Repository) UpdateImageStatus(id int64, status models.ImageStatus) error {
	return s.execAffecting(s.Builder.Update("images").Set("status", string(status)).Where("id = ?", id),
		fmt.Sprintf("image %d", id))
}

// SetImageThumbnail stores the thumbnail reference of an image.
func (s *Repository) SetImageThumbnail(id int64, ref string) error {
	return s.execAffecting(s.Builder.Update("images").Set("thumbnail_ref", ref).Where("id = ?", id),
		fmt.Sprintf("image %d", id))
}

// DeleteImages removes images and returns their thumbnail references.
func (s *Repository) DeleteImages(ids []int64) ([]string, error) {
	if len(ids) == 0 {
		return []string{}, nil
	}
	tx, err := s.BeginTx()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	refs, err := tx.thumbnailRefs(s.Builder.Select("thumbnail_ref").From("images").Where(squirrel.Eq{"id": ids}))
	if err != nil {
		return nil, err
	}
	if err := tx.deleteWhere("images", squirrel.Eq{"id": ids}); err != nil {
		return nil, err
	}
	return refs, tx.Commit()
}

// RebaseImagePaths rewrites the paths of every image below oldDir to lie below
// newDir. When vaultID is set the images are moved to that vault as well.
func (s *Repository) RebaseImagePaths(oldDir, newDir string, vaultID *int64) (int64, error) {
	oldPrefix := filepath.Clean(oldDir) + string(filepath.Separator)
	newPrefix := filepath.Clean(newDir) + string(filepath.Separator)

	b := s.Builder.Update("images").
		Set("absolute_path", squirrel.Expr("? || substr(absolute_path, ?)", newPrefix, utf8.RuneCountInString(oldPrefix)+1)).
		Where(underDir(oldDir))
	if vaultID != nil {
		b = b.Set("vault_id", *vaultID)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build update query: %w", err)
	}
	res, err := s.DB.Exec(query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// UpdateImagesVaultByAlbums sets the vault of every image in the given albums.
func (s *Repository) UpdateImagesVaultByAlbums(albumIDs []int64, vaultID int64) (int64, error) {
	if len(albumIDs) == 0 {
		return 0, nil
	}
	query, args, err := s.Builder.Update("images").Set("vault_id", vaultID).
		Where(squirrel.Eq{"album_id": albumIDs}).ToSql()
	if err != nil {
		return 0, err
	}
	res, err := s.DB.Exec(query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
