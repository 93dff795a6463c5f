package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"photovault/internal/logging"
	"photovault/internal/shared"

	"github.com/otiai10/copy"
)

// maxNameAttempts bounds the "(n)" suffix search.
const maxNameAttempts = 10000

// renameFunc is swapped in tests to simulate device boundaries.
var renameFunc = os.Rename

// rename wraps os.Rename and reports device boundaries as ErrCrossDevice.
func rename(src, dst string) error {
	err := renameFunc(src, dst)
	if err != nil && errors.Is(err, syscall.EXDEV) {
		return fmt.Errorf("%w: %v", shared.ErrCrossDevice, err)
	}
	return err
}

// UniqueName returns a path inside dir for filename that does not exist yet,
// adding " (n)" before the extension until the name is free.
func UniqueName(dir, filename string) (string, error) {
	candidate := filepath.Join(dir, filename)
	if !Exists(candidate) {
		return candidate, nil
	}
	base, ext := SplitExt(filename)
	for n := 1; n <= maxNameAttempts; n++ {
		candidate = filepath.Join(dir, fmt.Sprintf("%s (%d)%s", base, n, ext))
		if !Exists(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: no free name for %s in %s", shared.ErrTargetExists, filename, dir)
}

// MoveFile moves a single file. It tries a rename first and falls back to
// copy then delete when source and target live on different devices.
// The target must not exist.
func MoveFile(src, dst string) error {
	if Exists(dst) {
		return fmt.Errorf("%w: %s", shared.ErrTargetExists, dst)
	}
	err := rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, shared.ErrCrossDevice) {
		return err
	}

	logging.Log.Debugf("Storage: cross-device move of %s, copying instead", src)
	if err := copy.Copy(src, dst, copy.Options{Sync: true, PreserveTimes: true}); err != nil {
		os.Remove(dst) // Clean up partial copy
		return fmt.Errorf("copy fallback failed: %w", err)
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("copied but could not remove source: %w", err)
	}
	return nil
}

// MoveDir moves a directory tree with the same fallback as MoveFile.
func MoveDir(src, dst string) error {
	if Exists(dst) {
		return fmt.Errorf("%w: %s", shared.ErrTargetExists, dst)
	}
	err := rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, shared.ErrCrossDevice) {
		return err
	}

	logging.Log.Debugf("Storage: cross-device move of directory %s, copying instead", src)
	if err := copy.Copy(src, dst, copy.Options{Sync: true, PreserveTimes: true}); err != nil {
		os.RemoveAll(dst)
		return fmt.Errorf("copy fallback failed: %w", err)
	}
	if err := os.RemoveAll(src); err != nil {
		return fmt.Errorf("copied but could not remove source: %w", err)
	}
	return nil
}

// CopyFile copies a single file, keeping its modification time. The target
// must not exist.
func CopyFile(src, dst string) error {
	if Exists(dst) {
		return fmt.Errorf("%w: %s", shared.ErrTargetExists, dst)
	}
	if err := copy.Copy(src, dst, copy.Options{Sync: true, PreserveTimes: true}); err != nil {
		os.Remove(dst)
		return err
	}
	return nil
}

// IsFatal reports conditions that make every further write pointless.
func IsFatal(err error) bool {
	return errors.Is(err, syscall.ENOSPC) ||
		errors.Is(err, syscall.EDQUOT) ||
		errors.Is(err, syscall.EROFS)
}
