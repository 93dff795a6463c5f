// internal/storage/paths.go
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"photovault/internal/shared"
)

// Within reports whether path equals root or lies below it.
func Within(root, path string) bool {
	cleanedRoot := filepath.Clean(root)
	cleanedPath := filepath.Clean(path)
	if cleanedPath == cleanedRoot {
		return true
	}
	prefix := cleanedRoot
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(cleanedPath, prefix)
}

// ResolveWithin joins parts onto root and rejects any result escaping root.
func ResolveWithin(root string, parts ...string) (string, error) {
	joined := filepath.Join(append([]string{root}, parts...)...)

	// --- SECURITY: Prevent Path Traversal ---
	if !Within(root, joined) {
		return "", fmt.Errorf("%w: %s", shared.ErrPathOutside, joined)
	}
	return joined, nil
}

// RelativeDepth counts the path segments of path below root. It returns -1
// when path is not inside root.
func RelativeDepth(root, path string) int {
	if !Within(root, path) {
		return -1
	}
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(path))
	if err != nil || rel == "." {
		return 0
	}
	return len(strings.Split(rel, string(filepath.Separator)))
}

// RebasePath moves path from below oldRoot to below newRoot.
func RebasePath(path, oldRoot, newRoot string) (string, bool) {
	if !Within(oldRoot, path) {
		return path, false
	}
	rel, err := filepath.Rel(filepath.Clean(oldRoot), filepath.Clean(path))
	if err != nil {
		return path, false
	}
	return filepath.Join(newRoot, rel), true
}

// EnsureDir creates dir and any missing parents.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("could not create directory structure: %w", err)
	}
	return nil
}

// Exists reports whether something is present at path. Errors other than
// "not exist" count as present so callers never overwrite blindly.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil || !os.IsNotExist(err)
}

// IsDir reports whether path is an existing directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
