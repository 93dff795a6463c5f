// filepath: internal/services/reconciler.go
package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"photovault/internal/activity"
	"photovault/internal/logging"
	"photovault/internal/models"
	"photovault/internal/scanner"
	"photovault/internal/storage"
)

var _ SyncService = (*reconciler)(nil)

// planTag is the outcome of matching one folder or album.
type planTag int

const (
	tagMatched planTag = iota
	tagCreated
	tagDeleted
)

// planEntry is one step of a reconciliation plan. Matched and Created entries
// carry the folder node; Matched and Deleted entries carry the album.
type planEntry struct {
	tag   planTag
	node  models.FolderNode
	album models.Album
}

// reconciler aligns the catalog of a vault with its directory tree.
type reconciler struct {
	Repo     CatalogStore
	Activity ActivityRecorder
	Thumbs   ThumbnailService
}

// NewSyncService creates a new SyncService.
func NewSyncService(repo CatalogStore, rec ActivityRecorder, thumbs ThumbnailService) *reconciler {
	return &reconciler{
		Repo:     repo,
		Activity: rec,
		Thumbs:   thumbs,
	}
}

// Sync reconciles one vault. The album diff is computed against a snapshot
// and then applied in a single transaction; images and orphans follow.
func (s *reconciler) Sync(ctx context.Context, vaultID int64) (*models.SyncReport, error) {
	start := time.Now()
	vault, err := getVault(s.Repo, vaultID)
	if err != nil {
		return nil, err
	}
	report := &models.SyncReport{VaultID: vault.ID}

	nodes, err := scanner.Scan(ctx, vault.RootPath)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, ioFailure(err, "scan vault")
	}

	albums, err := s.Repo.ListAlbumsByVault(vault.ID)
	if err != nil {
		return nil, err
	}
	tree := newAlbumTree(vault, albums)

	plan := buildPlan(tree, albums, nodes)
	resolved, err := s.applyPlan(vault, plan, report)
	if err != nil {
		return nil, fmt.Errorf("failed to apply folder changes: %w", err)
	}

	// The vault root itself holds images that belong to no album.
	dirs := []albumDir{{path: vault.RootPath}}
	for _, n := range nodes {
		id := resolved[n.RelativePath]
		path := filepath.Join(vault.RootPath, n.RelativePath)
		dirs = append(dirs, albumDir{path: path, albumID: &id, depth: storage.RelativeDepth(vault.RootPath, path)})
	}

	for _, d := range dirs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s.syncImages(vault, d, report)
	}

	if err := s.pruneMissing(vault, report); err != nil {
		return nil, fmt.Errorf("failed to prune missing images: %w", err)
	}
	if err := s.attachOrphans(vault, dirs, report); err != nil {
		return nil, fmt.Errorf("failed to attach orphans: %w", err)
	}

	report.Duration = time.Since(start)
	detail := fmt.Sprintf("albums +%d ~%d -%d, images +%d ~%d -%d, orphans %d",
		report.AlbumsCreated, report.AlbumsRelinked, report.AlbumsDeleted,
		report.ImagesAdded, report.ImagesUpdated, report.ImagesRemoved, report.OrphansAttached)
	recordActivity(s.Activity, vault.RootPath, activity.ActionSync, detail)
	logging.Log.Infof("SyncService: vault '%s' synced in %v: %s", vault.DisplayName, report.Duration, detail)
	return report, nil
}

// buildPlan matches on-disk folders against the albums' derived paths. No
// catalog state is touched.
func buildPlan(tree *albumTree, albums []models.Album, nodes []models.FolderNode) []planEntry {
	byPath := make(map[string]models.Album, len(albums))
	relByID := make(map[int64]string, len(albums))
	for _, a := range albums {
		rel, err := tree.relative(a.ID)
		if err != nil {
			logging.Log.Warnf("SyncService: album %d has no valid path: %v", a.ID, err)
			continue
		}
		relByID[a.ID] = rel
		// albums are ordered by sort order, the first one claims the path
		if _, taken := byPath[rel]; !taken {
			byPath[rel] = a
		}
	}

	plan := make([]planEntry, 0, len(nodes))
	claimed := make(map[int64]bool, len(albums))
	var unreadable []string
	for _, n := range nodes {
		if n.Unreadable {
			unreadable = append(unreadable, n.RelativePath+string(filepath.Separator))
		}
		if a, ok := byPath[n.RelativePath]; ok {
			plan = append(plan, planEntry{tag: tagMatched, node: n, album: a})
			claimed[a.ID] = true
			continue
		}
		plan = append(plan, planEntry{tag: tagCreated, node: n})
	}
	for _, a := range albums {
		if claimed[a.ID] {
			continue
		}
		// albums below a folder that could not be listed are left alone
		if rel, ok := relByID[a.ID]; ok && hasAnyPrefix(rel, unreadable) {
			continue
		}
		plan = append(plan, planEntry{tag: tagDeleted, album: a})
	}
	return plan
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// applyPlan writes the plan and returns the album id of every folder path.
// Nodes arrive parents first, so each parent is resolved before its children.
func (s *reconciler) applyPlan(vault *models.Vault, plan []planEntry, report *models.SyncReport) (map[string]int64, error) {
	tx, err := s.Repo.BeginTx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	resolved := make(map[string]int64, len(plan))
	parentOf := func(n models.FolderNode) *int64 {
		if n.ParentRelativePath == "" {
			return nil
		}
		if id, ok := resolved[n.ParentRelativePath]; ok {
			return &id
		}
		return nil
	}

	var deleted []int64
	for _, e := range plan {
		switch e.tag {
		case tagMatched:
			parent := parentOf(e.node)
			if !sameParent(e.album.ParentID, parent) {
				if err := tx.UpdateAlbumParentInTx(e.album.ID, parent); err != nil {
					return nil, err
				}
				report.AlbumsRelinked++
			}
			resolved[e.node.RelativePath] = e.album.ID
		case tagCreated:
			id, err := tx.CreateAlbumInTx(&models.Album{
				Name:      e.node.Name,
				ParentID:  parentOf(e.node),
				VaultID:   vault.ID,
				SortOrder: e.node.Order,
			})
			if err != nil {
				return nil, err
			}
			report.AlbumsCreated++
			resolved[e.node.RelativePath] = id
		case tagDeleted:
			deleted = append(deleted, e.album.ID)
		}
	}

	if err := tx.DeleteAlbumsInTx(deleted); err != nil {
		return nil, err
	}
	report.AlbumsDeleted = len(deleted)

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return resolved, nil
}

func sameParent(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// albumDir is a directory whose images belong to albumID (nil for the root).
type albumDir struct {
	path    string
	albumID *int64
	depth   int
}

// syncImages inserts new image files of one directory and corrects the links
// of known ones. Directories that vanished meanwhile are skipped.
func (s *reconciler) syncImages(vault *models.Vault, d albumDir, report *models.SyncReport) {
	names, err := storage.ListImageFiles(d.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Log.Warnf("SyncService: cannot list '%s': %v", d.path, err)
		}
		return
	}
	if len(names) == 0 {
		return
	}

	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(d.path, name)
	}
	known, err := s.Repo.GetImagesByPaths(paths)
	if err != nil {
		logging.Log.Errorf("SyncService: cannot look up images of '%s': %v", d.path, err)
		return
	}

	for _, path := range paths {
		if img, ok := known[path]; ok {
			if sameParent(img.AlbumID, d.albumID) && img.VaultID != nil && *img.VaultID == vault.ID {
				continue
			}
			if err := s.Repo.UpdateImageLinks(img.ID, d.albumID, &vault.ID); err != nil {
				logging.Log.Warnf("SyncService: cannot relink image %d: %v", img.ID, err)
				continue
			}
			report.ImagesUpdated++
			continue
		}

		record, err := describeFile(path)
		if err != nil {
			logging.Log.Warnf("SyncService: skipping '%s': %v", path, err)
			continue
		}
		record.AlbumID = d.albumID
		record.VaultID = &vault.ID
		created, err := s.Repo.CreateImage(record)
		if err != nil {
			logging.Log.Warnf("SyncService: cannot add '%s': %v", path, err)
			continue
		}
		report.ImagesAdded++
		if s.Thumbs != nil {
			s.Thumbs.Enqueue(*created)
		}
	}
}

// pruneMissing drops rows of the vault whose file is gone.
func (s *reconciler) pruneMissing(vault *models.Vault, report *models.SyncReport) error {
	images, err := s.Repo.ListImagesByVault(vault.ID)
	if err != nil {
		return err
	}
	var gone []int64
	for _, img := range images {
		if !storage.Exists(img.AbsolutePath) {
			gone = append(gone, img.ID)
		}
	}
	if len(gone) == 0 {
		return nil
	}
	refs, err := s.Repo.DeleteImages(gone)
	if err != nil {
		return err
	}
	if s.Thumbs != nil {
		s.Thumbs.Remove(refs)
	}
	report.ImagesRemoved = len(gone)
	return nil
}

// attachOrphans links vault-less images below the root to the deepest album
// directory containing them. Equal depths fall back to the lower album id.
func (s *reconciler) attachOrphans(vault *models.Vault, dirs []albumDir, report *models.SyncReport) error {
	orphans, err := s.Repo.ListOrphanImages(vault.RootPath)
	if err != nil {
		return err
	}
	if len(orphans) == 0 {
		return nil
	}

	candidates := make([]albumDir, 0, len(dirs))
	for _, d := range dirs {
		if d.albumID != nil {
			candidates = append(candidates, d)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].depth != candidates[j].depth {
			return candidates[i].depth > candidates[j].depth
		}
		return *candidates[i].albumID < *candidates[j].albumID
	})

	for _, img := range orphans {
		var albumID *int64
		for _, d := range candidates {
			if storage.Within(d.path, img.AbsolutePath) {
				albumID = d.albumID
				break
			}
		}
		if err := s.Repo.UpdateImageLinks(img.ID, albumID, &vault.ID); err != nil {
			logging.Log.Warnf("SyncService: cannot attach orphan %d: %v", img.ID, err)
			continue
		}
		report.OrphansAttached++
	}
	return nil
}
