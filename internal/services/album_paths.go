// filepath: internal/services/album_paths.go
package services

import (
	"errors"
	"fmt"
	"path/filepath"

	"photovault/internal/models"
	"photovault/internal/storage"
)

var errBrokenChain = errors.New("album parent chain is broken")

// albumTree derives album paths of one vault from the parent chain. Walks are
// memoised, so resolving every album of a vault is linear.
type albumTree struct {
	root     string
	vaultID  int64
	byID     map[int64]models.Album
	children map[int64][]int64
	memo     map[int64]string
}

func newAlbumTree(vault *models.Vault, albums []models.Album) *albumTree {
	t := &albumTree{
		root:     vault.RootPath,
		vaultID:  vault.ID,
		byID:     make(map[int64]models.Album, len(albums)),
		children: make(map[int64][]int64),
		memo:     make(map[int64]string, len(albums)),
	}
	for _, a := range albums {
		t.byID[a.ID] = a
		if a.ParentID != nil {
			t.children[*a.ParentID] = append(t.children[*a.ParentID], a.ID)
		}
	}
	return t
}

// relative returns the album path relative to the vault root. Chains that
// cycle, leave the vault or reference a missing album yield errBrokenChain.
func (t *albumTree) relative(id int64) (string, error) {
	if p, ok := t.memo[id]; ok {
		return p, nil
	}

	var chain []models.Album
	onChain := make(map[int64]bool)
	cur := id
	base := ""
	for {
		if p, ok := t.memo[cur]; ok {
			base = p
			break
		}
		a, ok := t.byID[cur]
		if !ok || a.VaultID != t.vaultID || onChain[cur] {
			return "", fmt.Errorf("%w at album %d", errBrokenChain, cur)
		}
		onChain[cur] = true
		chain = append(chain, a)
		if a.ParentID == nil {
			break
		}
		cur = *a.ParentID
	}

	for i := len(chain) - 1; i >= 0; i-- {
		base = filepath.Join(base, storage.PathSegment(chain[i].Name))
		t.memo[chain[i].ID] = base
	}
	return base, nil
}

// dir returns the absolute directory of an album.
func (t *albumTree) dir(id int64) (string, error) {
	rel, err := t.relative(id)
	if err != nil {
		return "", err
	}
	return filepath.Join(t.root, rel), nil
}

// descendants lists every album below id, depth first.
func (t *albumTree) descendants(id int64) []int64 {
	var out []int64
	seen := map[int64]bool{id: true}
	stack := append([]int64(nil), t.children[id]...)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
		stack = append(stack, t.children[n]...)
	}
	return out
}

// isAncestor reports whether ancestor lies on the parent chain of id.
func (t *albumTree) isAncestor(ancestor, id int64) bool {
	seen := make(map[int64]bool)
	cur, ok := t.byID[id]
	for ok && cur.ParentID != nil && !seen[cur.ID] {
		if *cur.ParentID == ancestor {
			return true
		}
		seen[cur.ID] = true
		cur, ok = t.byID[*cur.ParentID]
	}
	return false
}
