package storage

import (
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"photovault/internal/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// simulateCrossDevice makes every rename fail like a move across filesystems.
func simulateCrossDevice(t *testing.T) {
	t.Helper()
	renameFunc = func(src, dst string) error {
		return &os.LinkError{Op: "rename", Old: src, New: dst, Err: syscall.EXDEV}
	}
	t.Cleanup(func() { renameFunc = os.Rename })
}

func TestSanitizeAndValidateName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		hasError bool
	}{
		{"Trips", "Trips", false},
		{"  Summer 2024  ", "Summer 2024", false},
		{"a/b", "a_b", false},
		{`what?*`, "what__", false},
		{"dots...", "dots", false},
		{"", "", true},
		{"   ", "", true},
		{"..", "", true},
		{".hidden", "", true},
		{"_Trash", "", true},
		{"_Sort Later", "", true},
	}

	for _, tc := range tests {
		got, err := ValidateFolderName(tc.input)
		if tc.hasError {
			assert.ErrorIs(t, err, shared.ErrInvalidName, "input %q", tc.input)
		} else {
			assert.NoError(t, err, "input %q", tc.input)
			assert.Equal(t, tc.expected, got, "input %q", tc.input)
		}
	}
}

func TestPathSegment(t *testing.T) {
	assert.Equal(t, "What?", PathSegment("What?"), "disk names must pass through unchanged")
	assert.Equal(t, "a_b", PathSegment("a/b"))
	assert.Equal(t, "_", PathSegment(".."))
	assert.Equal(t, "_", PathSegment(""))
}

func TestFormats(t *testing.T) {
	assert.True(t, IsImageFile("a.JPG"))
	assert.True(t, IsImageFile("raw.nef"))
	assert.False(t, IsImageFile("notes.txt"))
	assert.True(t, IsSupportedFormat("a.webp"))
	assert.False(t, IsSupportedFormat("raw.nef"))
	assert.Equal(t, "jpeg", Format("IMG_1.JPEG"))
}

func TestUniqueName(t *testing.T) {
	dir := t.TempDir()

	path, err := UniqueName(dir, "a.jpg")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a.jpg"), path)

	writeFile(t, filepath.Join(dir, "a.jpg"), "x")
	path, err = UniqueName(dir, "a.jpg")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a (1).jpg"), path)

	writeFile(t, filepath.Join(dir, "a (1).jpg"), "x")
	path, err = UniqueName(dir, "a.jpg")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a (2).jpg"), path)

	writeFile(t, filepath.Join(dir, "README"), "x")
	path, err = UniqueName(dir, "README")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "README (1)"), path)
}

func TestMoveFile(t *testing.T) {
	t.Run("Rename", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "src", "a.jpg")
		dst := filepath.Join(dir, "dst", "a.jpg")
		writeFile(t, src, "pixels")
		require.NoError(t, EnsureDir(filepath.Dir(dst)))

		require.NoError(t, MoveFile(src, dst))
		assert.False(t, Exists(src))
		data, err := os.ReadFile(dst)
		require.NoError(t, err)
		assert.Equal(t, "pixels", string(data))
	})

	t.Run("Cross device fallback", func(t *testing.T) {
		simulateCrossDevice(t)
		dir := t.TempDir()
		src := filepath.Join(dir, "a.jpg")
		dst := filepath.Join(dir, "b.jpg")
		writeFile(t, src, "pixels")

		require.NoError(t, MoveFile(src, dst))
		assert.False(t, Exists(src))
		assert.True(t, Exists(dst))
	})

	t.Run("Target exists", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "a.jpg")
		dst := filepath.Join(dir, "b.jpg")
		writeFile(t, src, "1")
		writeFile(t, dst, "2")

		err := MoveFile(src, dst)
		assert.ErrorIs(t, err, shared.ErrTargetExists)
		assert.True(t, Exists(src))
	})

	t.Run("Missing source", func(t *testing.T) {
		dir := t.TempDir()
		err := MoveFile(filepath.Join(dir, "gone.jpg"), filepath.Join(dir, "b.jpg"))
		assert.Error(t, err)
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})
}

func TestMoveDir_CrossDevice(t *testing.T) {
	simulateCrossDevice(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Travel", "img1.jpg"), "1")
	writeFile(t, filepath.Join(dir, "Travel", "Rome", "img2.jpg"), "2")

	require.NoError(t, MoveDir(filepath.Join(dir, "Travel"), filepath.Join(dir, "Trips")))
	assert.False(t, Exists(filepath.Join(dir, "Travel")))
	assert.True(t, Exists(filepath.Join(dir, "Trips", "Rome", "img2.jpg")))
}

func TestDirectoryHelpers(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.png"), "22")
	writeFile(t, filepath.Join(dir, "a.jpg"), "1")
	writeFile(t, filepath.Join(dir, ".hidden.jpg"), "1")
	writeFile(t, filepath.Join(dir, "notes.txt"), "333")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.jpg"), 0755))

	names, err := ListImageFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.jpg", "b.png"}, names)

	count, size, err := DirUsage(dir)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
	assert.Equal(t, int64(7), size)

	count, size, err = DirUsage(filepath.Join(dir, "missing"))
	assert.NoError(t, err)
	assert.Zero(t, count)
	assert.Zero(t, size)

	empty := filepath.Join(dir, "empty")
	require.NoError(t, os.Mkdir(empty, 0755))
	writeFile(t, filepath.Join(empty, ".DS_Store"), "x")
	visible, err := HasVisibleEntries(empty)
	require.NoError(t, err)
	assert.False(t, visible)

	visible, err = HasVisibleEntries(dir)
	require.NoError(t, err)
	assert.True(t, visible)
}

func TestPathGuards(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "V")

	assert.True(t, Within(root, filepath.Join(root, "Travel")))
	assert.True(t, Within(root, root))
	assert.False(t, Within(root, filepath.Join(string(filepath.Separator), "Vault2", "x")))

	_, err := ResolveWithin(root, "..", "etc")
	assert.ErrorIs(t, err, shared.ErrPathOutside)

	p, err := ResolveWithin(root, "Travel", "Rome")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "Travel", "Rome"), p)

	assert.Equal(t, 0, RelativeDepth(root, root))
	assert.Equal(t, 2, RelativeDepth(root, filepath.Join(root, "Travel", "Rome")))
	assert.Equal(t, -1, RelativeDepth(root, filepath.Join(string(filepath.Separator), "W")))

	rebased, ok := RebasePath(filepath.Join(root, "Travel", "a.jpg"), filepath.Join(root, "Travel"), filepath.Join(root, "Trips"))
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(root, "Trips", "a.jpg"), rebased)
}

func TestIsFatal(t *testing.T) {
	assert.True(t, IsFatal(&os.PathError{Op: "write", Path: "/x", Err: syscall.ENOSPC}))
	assert.False(t, IsFatal(os.ErrNotExist))
}
