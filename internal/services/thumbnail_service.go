// filepath: internal/services/thumbnail_service.go
package services

import (
	"context"
	"fmt"
	"sync"

	"photovault/internal/logging"
	"photovault/internal/models"
	"photovault/internal/storage"

	"golang.org/x/sync/errgroup"
)

// Thumbnail regeneration scopes.
const (
	ThumbnailScopeAll     = "all"
	ThumbnailScopeVisible = "visible"
)

var _ ThumbnailService = (*thumbnailService)(nil)

type thumbnailService struct {
	Repo      CatalogStore
	Generator ThumbnailGenerator
	Size      int
	Workers   int
	pending   sync.WaitGroup

	mu      sync.Mutex
	queue   []models.Image
	running int // drain goroutines, at most Workers
}

// NewThumbnailService creates a new ThumbnailService.
func NewThumbnailService(repo CatalogStore, generator ThumbnailGenerator, size, workers int) *thumbnailService {
	if workers <= 0 {
		workers = 1
	}
	return &thumbnailService{
		Repo:      repo,
		Generator: generator,
		Size:      size,
		Workers:   workers,
	}
}

// Enqueue queues the thumbnail of img for background rendering. At most
// Workers thumbnails are rendered at once; failures are logged.
func (s *thumbnailService) Enqueue(img models.Image) {
	if !img.Supported {
		return
	}
	s.pending.Add(1)
	s.mu.Lock()
	s.queue = append(s.queue, img)
	if s.running < s.Workers {
		s.running++
		go s.drain()
	}
	s.mu.Unlock()
}

// drain renders queued thumbnails until the queue is empty.
func (s *thumbnailService) drain() {
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.running--
			s.mu.Unlock()
			return
		}
		img := s.queue[0]
		s.queue[0] = models.Image{}
		s.queue = s.queue[1:]
		s.mu.Unlock()

		if err := s.generate(img); err != nil {
			logging.Log.Warnf("ThumbnailService: image %d: %v", img.ID, err)
		}

		s.mu.Lock()
		idle := len(s.queue) == 0
		if idle {
			s.running--
		}
		s.mu.Unlock()
		s.pending.Done()
		if idle {
			return
		}
	}
}

func (s *thumbnailService) generate(img models.Image) error {
	ref, err := s.Generator.Generate(img.AbsolutePath, img.ID, s.Size)
	if err != nil {
		return err
	}
	if err := s.Repo.SetImageThumbnail(img.ID, ref); err != nil {
		return fmt.Errorf("could not store thumbnail reference: %w", err)
	}
	return nil
}

// Remove deletes thumbnail files of purged images.
func (s *thumbnailService) Remove(refs []string) {
	for _, ref := range refs {
		if err := s.Generator.Remove(ref); err != nil {
			logging.Log.Warnf("ThumbnailService: could not remove '%s': %v", ref, err)
		}
	}
}

// Wait blocks until every queued thumbnail is written.
func (s *thumbnailService) Wait() {
	s.pending.Wait()
}

// Regenerate renders thumbnails for every supported image in scope.
func (s *thumbnailService) Regenerate(ctx context.Context, scope string) (*models.ThumbnailReport, error) {
	return s.regenerate(ctx, scope, nil)
}

func (s *thumbnailService) regenerate(ctx context.Context, scope string, progress progressReporter) (*models.ThumbnailReport, error) {
	if scope == "" {
		scope = ThumbnailScopeAll
	}
	if scope != ThumbnailScopeAll && scope != ThumbnailScopeVisible {
		return nil, fmt.Errorf("%w: unknown thumbnail scope '%s'", ErrInvalidInput, scope)
	}

	images, err := s.Repo.ListThumbnailCandidates(scope == ThumbnailScopeVisible)
	if err != nil {
		return nil, err
	}
	if progress != nil {
		progress.SetTotal(len(images))
	}

	report := &models.ThumbnailReport{Scope: scope}
	var mu sync.Mutex
	count := func(field *int) {
		mu.Lock()
		*field++
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.Workers)
	for _, img := range images {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			if progress != nil {
				progress.Begin(img.AbsolutePath)
			}
			if !storage.Exists(img.AbsolutePath) {
				count(&report.Skipped)
				if progress != nil {
					progress.ItemFailed(img.AbsolutePath, "file missing")
				}
				return nil
			}
			if err := s.generate(img); err != nil {
				logging.Log.Warnf("ThumbnailService: image %d: %v", img.ID, err)
				count(&report.Failed)
				if progress != nil {
					progress.ItemFailed(img.AbsolutePath, err.Error())
				}
				return nil
			}
			count(&report.Generated)
			if progress != nil {
				progress.Advance()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}
	if err := ctx.Err(); err != nil {
		return report, err
	}

	logging.Log.Infof("ThumbnailService: regenerated %d thumbnails (%d failed, %d skipped) for scope '%s'",
		report.Generated, report.Failed, report.Skipped, scope)
	return report, nil
}
