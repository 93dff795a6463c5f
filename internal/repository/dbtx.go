// filepath: internal/repository/dbtx.go
package repository

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"unicode/utf8"

	"photovault/internal/models"

	"github.com/Masterminds/squirrel"
)

// Tx is a wrapper around *sql.Tx that provides transactional catalog operations.
type Tx struct {
	*sql.Tx
	Builder squirrel.StatementBuilderType
}

// CreateAlbumInTx inserts an album within the transaction and returns its id.
func (tx *Tx) CreateAlbumInTx(a *models.Album) (int64, error) {
	return insertAlbum(tx.Tx, tx.Builder, a)
}

// UpdateAlbumParentInTx relinks an album to a new parent within the transaction.
func (tx *Tx) UpdateAlbumParentInTx(id int64, parentID *int64) error {
	query, args, err := tx.Builder.Update("albums").Set("parent_id", ptrValue(parentID)).Where("id = ?", id).ToSql()
	if err != nil {
		return err
	}
	_, err = tx.Exec(query, args...)
	return err
}

// DeleteAlbumsInTx deletes album rows. Images keep their row, their album link
// is cleared by the foreign key.
func (tx *Tx) DeleteAlbumsInTx(ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return tx.deleteWhere("albums", squirrel.Eq{"id": ids})
}

func (tx *Tx) deleteWhere(table string, cond squirrel.Sqlizer) error {
	query, args, err := tx.Builder.Delete(table).Where(cond).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}
	if _, err := tx.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	return nil
}

// thumbnailRefs collects the non-null thumbnail references selected by b.
func (tx *Tx) thumbnailRefs(b squirrel.SelectBuilder) ([]string, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}
	rows, err := tx.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query thumbnails: %w", err)
	}
	defer rows.Close()

	refs := []string{}
	for rows.Next() {
		var ref sql.NullString
		if err := rows.Scan(&ref); err != nil {
			return nil, err
		}
		if ref.Valid && ref.String != "" {
			refs = append(refs, ref.String)
		}
	}
	return refs, rows.Err()
}

// underDir matches image paths strictly below dir. The comparison is
// case-sensitive, unlike LIKE.
func underDir(dir string) squirrel.Sqlizer {
	prefix := filepath.Clean(dir) + string(filepath.Separator)
	return squirrel.Expr("substr(absolute_path, 1, ?) = ?", utf8.RuneCountInString(prefix), prefix)
}
