// filepath: internal/services/scan_job.go
package services

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"

	"photovault/internal/jobs"
	"photovault/internal/logging"
	"photovault/internal/models"
	"photovault/internal/storage"
)

// scanBatchSize is how many discovered paths are looked up at once.
const scanBatchSize = 200

// scanTarget is one directory tree to discover, with the vault it belongs to.
type scanTarget struct {
	root  string
	vault *models.Vault
}

func (s *jobService) scanTargets(req models.ScanRequest) ([]scanTarget, error) {
	vaults, err := s.Repo.ListVaults()
	if err != nil {
		return nil, err
	}

	switch {
	case req.Path != "":
		root, err := filepath.Abs(req.Path)
		if err != nil || !storage.IsDir(root) {
			return nil, fmt.Errorf("%w: '%s' is not an existing directory", ErrInvalidInput, req.Path)
		}
		target := scanTarget{root: root}
		for i := range vaults {
			if storage.Within(vaults[i].RootPath, root) {
				target.vault = &vaults[i]
				break
			}
		}
		return []scanTarget{target}, nil
	case req.VaultID != nil:
		vault, err := getVault(s.Repo, *req.VaultID)
		if err != nil {
			return nil, err
		}
		return []scanTarget{{root: vault.RootPath, vault: vault}}, nil
	}

	targets := make([]scanTarget, 0, len(vaults))
	for i := range vaults {
		targets = append(targets, scanTarget{root: vaults[i].RootPath, vault: &vaults[i]})
	}
	return targets, nil
}

// scanRunner discovers image files below every target, adds the unknown ones
// to the catalog and then syncs each touched vault so albums get attached.
func (s *jobService) scanRunner(targets []scanTarget) jobs.Runner {
	return func(ctx context.Context, job *jobs.Job) error {
		type found struct {
			path  string
			vault *models.Vault
		}
		var files []found
		for _, t := range targets {
			job.Begin(t.root)
			paths, err := discoverImages(ctx, t.root)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				job.ItemFailed(t.root, err.Error())
				continue
			}
			for _, p := range paths {
				files = append(files, found{path: p, vault: t.vault})
			}
		}

		synced := make(map[int64]*models.Vault)
		for _, t := range targets {
			if t.vault != nil {
				synced[t.vault.ID] = t.vault
			}
		}
		job.AddTotal(len(files) + len(synced))

		for start := 0; start < len(files); start += scanBatchSize {
			end := min(start+scanBatchSize, len(files))
			batch := files[start:end]
			paths := make([]string, len(batch))
			for i, f := range batch {
				paths[i] = f.path
			}
			known, err := s.Repo.GetImagesByPaths(paths)
			if err != nil {
				return fmt.Errorf("could not look up discovered files: %w", err)
			}

			for _, f := range batch {
				if err := ctx.Err(); err != nil {
					return err
				}
				job.Begin(f.path)
				if _, ok := known[f.path]; ok {
					job.Advance()
					continue
				}
				record, err := describeFile(f.path)
				if err != nil {
					job.ItemFailed(f.path, err.Error())
					continue
				}
				if f.vault != nil {
					record.VaultID = &f.vault.ID
				}
				created, err := s.Repo.CreateImage(record)
				if err != nil {
					job.ItemFailed(f.path, err.Error())
					continue
				}
				if s.Thumbs != nil {
					s.Thumbs.Enqueue(*created)
				}
				job.Advance()
			}
		}

		for _, t := range targets {
			if t.vault == nil || synced[t.vault.ID] == nil {
				continue
			}
			delete(synced, t.vault.ID)
			if err := ctx.Err(); err != nil {
				return err
			}
			job.Begin(t.vault.RootPath)
			if _, err := s.Sync.Sync(ctx, t.vault.ID); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				logging.Log.Errorf("ScanJob: sync of vault '%s' failed: %v", t.vault.DisplayName, err)
				job.ItemFailed(t.vault.RootPath, err.Error())
				continue
			}
			job.Advance()
		}
		return nil
	}
}

// discoverImages lists every image file below root, skipping hidden entries
// and the reserved vault folders. Unreadable folders are logged and skipped.
func discoverImages(ctx context.Context, root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == root {
				return err
			}
			logging.Log.Warnf("ScanJob: skipping '%s': %v", path, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if path == root {
			return nil
		}
		if d.IsDir() {
			if storage.IsSkippedName(d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && !storage.IsHiddenName(d.Name()) && storage.IsImageFile(d.Name()) {
			paths = append(paths, path)
		}
		return nil
	})
	return paths, err
}
