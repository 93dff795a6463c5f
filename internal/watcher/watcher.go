// filepath: internal/watcher/watcher.go
// Package watcher nudges the sync scheduler when the directory structure of a
// vault changes on disk.
package watcher

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"photovault/internal/logging"
	"photovault/internal/storage"

	"github.com/fsnotify/fsnotify"
)

// Nudger is told that a sync pass is due. *jobs.Scheduler satisfies it.
type Nudger interface {
	Trigger()
}

// Watcher follows the directory trees of vault roots. File events are
// ignored; directory creation, removal and renames are debounced into one
// nudge.
type Watcher struct {
	fsw      *fsnotify.Watcher
	nudge    Nudger
	debounce time.Duration

	mu      sync.Mutex
	running bool
	timer   *time.Timer
	done    chan struct{}
	wg      sync.WaitGroup
}

// New creates a watcher. It does nothing until Start is called.
func New(nudge Nudger, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	return &Watcher{
		fsw:      fsw,
		nudge:    nudge,
		debounce: debounce,
		done:     make(chan struct{}),
	}, nil
}

// Start adds every directory below the given roots and begins processing events.
// Roots that cannot be watched are logged and skipped.
func (w *Watcher) Start(roots []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return fmt.Errorf("watcher already running")
	}

	watched := 0
	for _, root := range roots {
		n, err := w.addTree(root)
		if err != nil {
			logging.Log.Warnf("Watcher: cannot watch '%s': %v", root, err)
			continue
		}
		watched += n
	}
	logging.Log.Infof("Watcher: following %d directories below %d vault roots", watched, len(roots))

	w.running = true
	w.wg.Add(1)
	go w.processEvents()
	return nil
}

// Stop ends event processing and releases the OS watches.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	close(w.done)
	err := w.fsw.Close()
	w.wg.Wait()
	if err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	return nil
}

// addTree watches root and every non-skipped directory below it.
func (w *Watcher) addTree(root string) (int, error) {
	count := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && storage.IsSkippedName(d.Name()) {
			return fs.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			logging.Log.Debugf("Watcher: cannot add '%s': %v", path, err)
			return nil
		}
		count++
		return nil
	})
	return count, err
}

func (w *Watcher) processEvents() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if w.relevant(event) {
				w.schedule()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logging.Log.Warnf("Watcher: %v", err)
		}
	}
}

// relevant reports whether an event changes the folder structure. New
// directories are watched as they appear. A removed or renamed entry can no
// longer be inspected, so anything that is not an image file counts.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	name := filepath.Base(event.Name)
	if storage.IsSkippedName(name) {
		return false
	}
	switch {
	case event.Has(fsnotify.Create):
		info, err := os.Stat(event.Name)
		if err != nil || !info.IsDir() {
			return false
		}
		if _, err := w.addTree(event.Name); err != nil {
			logging.Log.Debugf("Watcher: cannot follow '%s': %v", event.Name, err)
		}
		return true
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return !storage.IsImageFile(name)
	}
	return false
}

// schedule (re)arms the debounce timer.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.nudge.Trigger)
}
