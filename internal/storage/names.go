package storage

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"photovault/internal/shared"
)

const (
	// TrashDirName is the per-vault trash folder.
	TrashDirName = "_Trash"
	// SortLaterDirName is the per-vault folder for deferred images.
	SortLaterDirName = "_Sort Later"
	// ActivityLogName is the per-vault activity log file.
	ActivityLogName = ".activity-log"
)

var (
	illegalNameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	separatorChars   = strings.NewReplacer("/", "_", "\\", "_", "\x00", "_")
)

// IsHiddenName reports whether a directory entry is dot-prefixed.
func IsHiddenName(name string) bool {
	return strings.HasPrefix(name, ".")
}

// IsReservedName reports whether name is one of the vault's system folders.
func IsReservedName(name string) bool {
	return name == TrashDirName || name == SortLaterDirName
}

// IsSkippedName reports whether scans ignore the entry.
func IsSkippedName(name string) bool {
	return IsHiddenName(name) || IsReservedName(name)
}

// SanitizeName cleans a user supplied folder name. Characters that are illegal
// on common filesystems become underscores, surrounding blanks and trailing dots
// are dropped.
func SanitizeName(name string) string {
	s := illegalNameChars.ReplaceAllString(strings.TrimSpace(name), "_")
	return strings.TrimRight(s, ". ")
}

// ValidateFolderName sanitizes name and rejects results that cannot be a
// visible album folder.
func ValidateFolderName(name string) (string, error) {
	s := SanitizeName(name)
	switch {
	case s == "":
		return "", fmt.Errorf("%w: name is empty", shared.ErrInvalidName)
	case IsHiddenName(s):
		return "", fmt.Errorf("%w: %q would be hidden", shared.ErrInvalidName, s)
	case IsReservedName(s):
		return "", fmt.Errorf("%w: %q is reserved", shared.ErrInvalidName, s)
	}
	return s, nil
}

// PathSegment turns a stored album name into one path segment. Names that
// came from disk are returned unchanged so derived paths keep matching.
func PathSegment(name string) string {
	s := separatorChars.Replace(name)
	if s == "" || s == "." || s == ".." {
		return "_"
	}
	return s
}

// SplitExt splits a filename into base and extension (with dot).
func SplitExt(filename string) (string, string) {
	ext := filepath.Ext(filename)
	if ext == filename {
		// dotfile such as ".profile"
		return filename, ""
	}
	return strings.TrimSuffix(filename, ext), ext
}
