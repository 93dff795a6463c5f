package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"photovault/internal/models"
	"photovault/internal/shared"

	"github.com/patrickmn/go-cache"
)

var vaultColumns = []string{"id", "root_path", "display_name", "visible", "sort_order"}

func vaultCacheKey(id int64) string {
	return fmt.Sprintf("vault:%d", id)
}

func scanVault(row interface{ Scan(...interface{}) error }) (models.Vault, error) {
	var v models.Vault
	err := row.Scan(&v.ID, &v.RootPath, &v.DisplayName, &v.Visible, &v.SortOrder)
	return v, err
}

// CreateVault inserts a vault. A duplicate root path returns ErrDuplicate.
func (s *Repository) CreateVault(v *models.Vault) (*models.Vault, error) {
	query, args, err := s.Builder.Insert("vaults").
		Columns("root_path", "display_name", "visible", "sort_order").
		Values(v.RootPath, v.DisplayName, v.Visible, v.SortOrder).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert query: %w", err)
	}
	res, err := s.DB.Exec(query, args...)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, fmt.Errorf("vault %s: %w", v.RootPath, shared.ErrDuplicate)
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	created := *v
	created.ID = id
	return &created, nil
}

// GetVault returns a vault by id, served from cache when possible.
func (s *Repository) GetVault(id int64) (*models.Vault, error) {
	if cached, ok := s.cache.Get(vaultCacheKey(id)); ok {
		v := cached.(models.Vault)
		return &v, nil
	}

	query, args, err := s.Builder.Select(vaultColumns...).From("vaults").Where("id = ?", id).ToSql()
	if err != nil {
		return nil, err
	}
	v, err := scanVault(s.DB.QueryRow(query, args...))
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("vault %d", id))
	}
	s.cache.Set(vaultCacheKey(id), v, cache.DefaultExpiration)
	return &v, nil
}

// GetVaultByPath returns the vault registered at rootPath.
func (s *Repository) GetVaultByPath(rootPath string) (*models.Vault, error) {
	query, args, err := s.Builder.Select(vaultColumns...).From("vaults").Where("root_path = ?", rootPath).ToSql()
	if err != nil {
		return nil, err
	}
	v, err := scanVault(s.DB.QueryRow(query, args...))
	if err != nil {
		return nil, notFound(err, "vault "+rootPath)
	}
	return &v, nil
}

// ListVaults returns every vault ordered by sort order, then id.
func (s *Repository) ListVaults() ([]models.Vault, error) {
	query, args, err := s.Builder.Select(vaultColumns...).From("vaults").OrderBy("sort_order", "id").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vaults := []models.Vault{}
	for rows.Next() {
		v, err := scanVault(rows)
		if err != nil {
			return nil, err
		}
		vaults = append(vaults, v)
	}
	return vaults, rows.Err()
}

// UpdateVault writes name, visibility and order of a vault.
func (s *Repository) UpdateVault(v *models.Vault) error {
	query, args, err := s.Builder.Update("vaults").
		Set("display_name", v.DisplayName).
		Set("visible", v.Visible).
		Set("sort_order", v.SortOrder).
		Where("id = ?", v.ID).
		ToSql()
	if err != nil {
		return err
	}
	res, err := s.DB.Exec(query, args...)
	if err != nil {
		return err
	}
	s.cache.Delete(vaultCacheKey(v.ID))
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("vault %d: %w", v.ID, ErrNotFound)
	}
	return nil
}

// NextVaultOrder returns the sort order for a newly registered vault.
func (s *Repository) NextVaultOrder() (int, error) {
	var maxOrder sql.NullInt64
	if err := s.DB.QueryRow("SELECT MAX(sort_order) FROM vaults").Scan(&maxOrder); err != nil {
		return 0, err
	}
	if !maxOrder.Valid {
		return 0, nil
	}
	return int(maxOrder.Int64) + 1, nil
}

// DeleteVault removes a vault with all of its albums and images. It returns
// the thumbnail references of the purged images so the caller can clean them.
func (s *Repository) DeleteVault(id int64) ([]string, error) {
	tx, err := s.BeginTx()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	refs, err := tx.thumbnailRefs(s.Builder.Select("thumbnail_ref").From("images").Where("vault_id = ?", id))
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec("DELETE FROM images WHERE vault_id = ?", id); err != nil {
		return nil, fmt.Errorf("failed to delete images: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM albums WHERE vault_id = ?", id); err != nil {
		return nil, fmt.Errorf("failed to delete albums: %w", err)
	}
	res, err := tx.Exec("DELETE FROM vaults WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("failed to delete vault: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("vault %d: %w", id, ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	s.cache.Delete(vaultCacheKey(id))
	return refs, nil
}
