// filepath: internal/storage/file.go
// Package storage provides the filesystem primitives used on vault contents.
// This file handles listing and measuring directories.
package storage

import (
	"io/fs"
	"os"
	"path/filepath"
)

// ListImageFiles returns the image files directly inside dir, skipping hidden
// names. Results follow directory order (sorted by name).
func ListImageFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() || IsHiddenName(entry.Name()) {
			continue
		}
		if IsImageFile(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// HasVisibleEntries reports whether dir holds anything not dot-prefixed.
func HasVisibleEntries(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, err
	}
	for _, entry := range entries {
		if !IsHiddenName(entry.Name()) {
			return true, nil
		}
	}
	return false, nil
}

// DirUsage counts the regular files below dir and their total size.
// A missing directory counts as empty.
func DirUsage(dir string) (int, int64, error) {
	var count int
	var total int64
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == dir {
				return fs.SkipAll
			}
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil // vanished while walking
		}
		count++
		total += info.Size()
		return nil
	})
	return count, total, err
}
