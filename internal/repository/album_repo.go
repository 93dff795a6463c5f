package repository

import (
	"database/sql"
	"fmt"

	"photovault/internal/models"

	"github.com/Masterminds/squirrel"
)

var albumColumns = []string{"id", "name", "parent_id", "vault_id", "sort_order"}

func scanAlbum(row interface{ Scan(...interface{}) error }) (models.Album, error) {
	var a models.Album
	var parent sql.NullInt64
	if err := row.Scan(&a.ID, &a.Name, &parent, &a.VaultID, &a.SortOrder); err != nil {
		return a, err
	}
	a.ParentID = nullableInt64(parent)
	return a, nil
}

func queryAlbums(q queryer, b squirrel.SelectBuilder) ([]models.Album, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}
	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	albums := []models.Album{}
	for rows.Next() {
		a, err := scanAlbum(rows)
		if err != nil {
			return nil, err
		}
		albums = append(albums, a)
	}
	return albums, rows.Err()
}

func insertAlbum(q queryer, b squirrel.StatementBuilderType, a *models.Album) (int64, error) {
	query, args, err := b.Insert("albums").
		Columns("name", "parent_id", "vault_id", "sort_order").
		Values(a.Name, ptrValue(a.ParentID), a.VaultID, a.SortOrder).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build insert query: %w", err)
	}
	res, err := q.Exec(query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// CreateAlbum inserts an album and returns it with its id.
func (s *Repository) CreateAlbum(a *models.Album) (*models.Album, error) {
	id, err := insertAlbum(s.DB, s.Builder, a)
	if err != nil {
		return nil, err
	}
	created := *a
	created.ID = id
	return &created, nil
}

// GetAlbum returns an album by id.
func (s *Repository) GetAlbum(id int64) (*models.Album, error) {
	query, args, err := s.Builder.Select(albumColumns...).From("albums").Where("id = ?", id).ToSql()
	if err != nil {
		return nil, err
	}
	a, err := scanAlbum(s.DB.QueryRow(query, args...))
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("album %d", id))
	}
	return &a, nil
}

// ListAlbumsByVault returns the albums of a vault ordered by sort order.
func (s *Repository) ListAlbumsByVault(vaultID int64) ([]models.Album, error) {
	return queryAlbums(s.DB, s.Builder.Select(albumColumns...).From("albums").
		Where("vault_id = ?", vaultID).
		OrderBy("sort_order", "id"))
}

// ListAlbums returns every album of every vault.
func (s *Repository) ListAlbums() ([]models.Album, error) {
	return queryAlbums(s.DB, s.Builder.Select(albumColumns...).From("albums").OrderBy("vault_id", "sort_order", "id"))
}

// NextSiblingOrder returns max(sibling order)+1 below parentID (nil for the vault root).
func (s *Repository) NextSiblingOrder(vaultID int64, parentID *int64) (int, error) {
	b := s.Builder.Select("MAX(sort_order)").From("albums").Where("vault_id = ?", vaultID)
	if parentID == nil {
		b = b.Where("parent_id IS NULL")
	} else {
		b = b.Where("parent_id = ?", *parentID)
	}
	query, args, err := b.ToSql()
	if err != nil {
		return 0, err
	}
	var maxOrder sql.NullInt64
	if err := s.DB.QueryRow(query, args...).Scan(&maxOrder); err != nil {
		return 0, err
	}
	if !maxOrder.Valid {
		return 0, nil
	}
	return int(maxOrder.Int64) + 1, nil
}

// UpdateAlbumName renames an album row.
func (s *Repository) UpdateAlbumName(id int64, name string) error {
	return s.execAffecting(s.Builder.Update("albums").Set("name", name).Where("id = ?", id), fmt.Sprintf("album %d", id))
}

// UpdateAlbumPlacement sets parent and vault of an album.
func (s *Repository) UpdateAlbumPlacement(id int64, parentID *int64, vaultID int64) error {
	return s.execAffecting(s.Builder.Update("albums").
		Set("parent_id", ptrValue(parentID)).
		Set("vault_id", vaultID).
		Where("id = ?", id), fmt.Sprintf("album %d", id))
}

// UpdateAlbumsVault moves a batch of albums to another vault.
func (s *Repository) UpdateAlbumsVault(ids []int64, vaultID int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query, args, err := s.Builder.Update("albums").Set("vault_id", vaultID).Where(squirrel.Eq{"id": ids}).ToSql()
	if err != nil {
		return 0, err
	}
	res, err := s.DB.Exec(query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Repository) execAffecting(b squirrel.UpdateBuilder, what string) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}
	res, err := s.DB.Exec(query, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}

// DeleteAlbumTree removes the given albums together with every image that
// belongs to them or whose path lies below dir (when non-empty). Thumbnail
// references of removed images are returned for cleanup.
func (s *Repository) DeleteAlbumTree(albumIDs []int64, dir string) ([]string, error) {
	if len(albumIDs) == 0 {
		return []string{}, nil
	}
	tx, err := s.BeginTx()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	cond := squirrel.Or{squirrel.Eq{"album_id": albumIDs}}
	if dir != "" {
		cond = append(cond, underDir(dir))
	}

	refs, err := tx.thumbnailRefs(s.Builder.Select("thumbnail_ref").From("images").Where(cond))
	if err != nil {
		return nil, err
	}
	if err := tx.deleteWhere("images", cond); err != nil {
		return nil, err
	}
	if err := tx.deleteWhere("albums", squirrel.Eq{"id": albumIDs}); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return refs, nil
}
