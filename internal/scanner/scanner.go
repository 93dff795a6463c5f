// Package scanner walks a vault root into an ordered list of folder nodes.
package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"photovault/internal/logging"
	"photovault/internal/models"
	"photovault/internal/storage"
)

// Scan walks root depth-first and returns every visible folder below it.
// Dot-prefixed and reserved names are skipped together with their subtree.
// Siblings are visited in name order and every node gets the next order index.
// A subdirectory that vanishes during the walk is left out. One that cannot
// be read is kept as an Unreadable node and not descended into, so callers
// leave whatever they know below it untouched.
func Scan(ctx context.Context, root string) ([]models.FolderNode, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("cannot read vault root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("vault root %s is not a directory", root)
	}

	w := &walker{ctx: ctx, root: root}
	if _, err := w.walk(root, ""); err != nil {
		return nil, err
	}
	return w.nodes, nil
}

// readDir is swapped in tests to simulate folders changing during a walk.
var readDir = os.ReadDir

type walker struct {
	ctx   context.Context
	root  string
	nodes []models.FolderNode
	order int
}

// walk appends the folders below dir. It reports gone when dir itself no
// longer exists.
func (w *walker) walk(dir, rel string) (gone bool, err error) {
	if err := w.ctx.Err(); err != nil {
		return false, err
	}

	entries, err := readDir(dir)
	if err != nil {
		if rel == "" {
			return false, fmt.Errorf("cannot list vault root: %w", err)
		}
		if os.IsNotExist(err) {
			logging.Log.Debugf("Scanner: folder %s vanished during the walk", dir)
			return true, nil
		}
		logging.Log.Warnf("Scanner: skipping unreadable folder %s: %v", dir, err)
		w.nodes[len(w.nodes)-1].Unreadable = true
		return false, nil
	}

	for _, entry := range entries {
		// Symlinks are not followed to avoid loops
		if !entry.IsDir() || storage.IsSkippedName(entry.Name()) {
			continue
		}
		childRel := entry.Name()
		if rel != "" {
			childRel = filepath.Join(rel, entry.Name())
		}
		idx := len(w.nodes)
		w.nodes = append(w.nodes, models.FolderNode{
			RelativePath:       childRel,
			Name:               entry.Name(),
			ParentRelativePath: rel,
			Order:              w.order,
		})
		w.order++

		childGone, err := w.walk(filepath.Join(dir, entry.Name()), childRel)
		if err != nil {
			return false, err
		}
		if childGone {
			w.nodes = w.nodes[:idx]
		}
	}
	return false, nil
}
