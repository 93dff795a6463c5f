// filepath: internal/services/organize_job.go
package services

import (
	"context"
	"fmt"
	"path/filepath"

	"photovault/internal/activity"
	"photovault/internal/jobs"
	"photovault/internal/logging"
	"photovault/internal/models"
	"photovault/internal/storage"
)

// moveFile and copyFile place organized files. Tests replace them.
var (
	moveFile = storage.MoveFile
	copyFile = storage.CopyFile
)

// disposition is where one pending image goes.
type disposition struct {
	image     models.Image
	targetDir string
	vaultRoot string
}

// pendingDispositions resolves the target of every image still waiting for
// its final place. Images already in place are not pending.
func (s *jobService) pendingDispositions() ([]disposition, []models.JobItemError, error) {
	images, err := s.Repo.ListPendingImages()
	if err != nil {
		return nil, nil, err
	}

	var out []disposition
	var unresolved []models.JobItemError
	for _, img := range images {
		d := disposition{image: img}
		switch {
		case img.Status == models.ImageStatusTrash:
			root, err := resolveDispositionRoot(s.Repo, &img, true, s.LegacyPath)
			if err != nil {
				unresolved = append(unresolved, models.JobItemError{Path: img.AbsolutePath, Reason: err.Error()})
				continue
			}
			d.vaultRoot, d.targetDir = root, filepath.Join(root, storage.TrashDirName)
		case img.Status == models.ImageStatusNotSure:
			root, err := resolveDispositionRoot(s.Repo, &img, false, s.LegacyPath)
			if err != nil {
				unresolved = append(unresolved, models.JobItemError{Path: img.AbsolutePath, Reason: err.Error()})
				continue
			}
			d.vaultRoot, d.targetDir = root, filepath.Join(root, storage.SortLaterDirName)
		default:
			loc, err := locateAlbum(s.Repo, *img.AlbumID)
			if err != nil {
				unresolved = append(unresolved, models.JobItemError{Path: img.AbsolutePath, Reason: err.Error()})
				continue
			}
			d.vaultRoot, d.targetDir = loc.vault.RootPath, loc.dir
		}
		if filepath.Dir(img.AbsolutePath) == d.targetDir && img.Status != models.ImageStatusTrash {
			continue
		}
		out = append(out, d)
	}
	return out, unresolved, nil
}

// organizeRunner moves (or copies) every pending image to its destination and
// drops it from the catalog. A fatal disk condition stops the loop; the work
// done so far is kept.
func (s *jobService) organizeRunner(req models.OrganizeRequest) jobs.Runner {
	deleteOriginals := s.DeleteOriginals
	if req.DeleteOriginals != nil {
		deleteOriginals = *req.DeleteOriginals
	}
	return func(ctx context.Context, job *jobs.Job) error {
		pending, unresolved, err := s.pendingDispositions()
		if err != nil {
			return fmt.Errorf("could not list pending images: %w", err)
		}
		job.SetTotal(len(pending) + len(unresolved))
		for _, u := range unresolved {
			job.ItemFailed(u.Path, u.Reason)
		}

		for _, d := range pending {
			if err := ctx.Err(); err != nil {
				return err
			}
			src := d.image.AbsolutePath
			job.Begin(src)

			dst, err := s.dispose(d, deleteOriginals)
			if err != nil {
				if storage.IsFatal(err) {
					return fmt.Errorf("organize halted at '%s': %w", src, err)
				}
				job.ItemFailed(src, err.Error())
				continue
			}

			refs, err := s.Repo.DeleteImages([]int64{d.image.ID})
			if err != nil {
				job.ItemFailed(src, fmt.Sprintf("file placed at %s but catalog update failed: %v", dst, err))
				continue
			}
			if s.Thumbs != nil {
				s.Thumbs.Remove(refs)
			}
			recordActivity(s.Activity, d.vaultRoot, activity.ActionMove,
				fmt.Sprintf("%s -> %s", src, relativeTo(d.vaultRoot, dst)))
			job.Advance()
		}
		logging.Log.Infof("OrganizeJob: processed %d pending images", len(pending))
		return nil
	}
}

// dispose places one file. With deleteOriginals the file is moved, otherwise
// a copy is made and the original stays.
func (s *jobService) dispose(d disposition, deleteOriginals bool) (string, error) {
	src := d.image.AbsolutePath
	if !storage.Exists(src) {
		return "", fmt.Errorf("source file is missing")
	}
	if err := storage.EnsureDir(d.targetDir); err != nil {
		return "", err
	}
	dst, err := storage.UniqueName(d.targetDir, d.image.Filename)
	if err != nil {
		return "", err
	}
	if deleteOriginals {
		err = moveFile(src, dst)
	} else {
		err = copyFile(src, dst)
	}
	if err != nil {
		return "", err
	}
	return dst, nil
}
