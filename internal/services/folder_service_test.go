// filepath: internal/services/folder_service_test.go
package services

import (
	"os"
	"path/filepath"
	"testing"

	"photovault/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFolder(t *testing.T) {
	env := setupIntegrationTest(t)

	t.Run("default vault and sync do not duplicate", func(t *testing.T) {
		album, err := env.folders.CreateFolder("Trips", nil, nil)
		require.NoError(t, err)
		assert.Equal(t, env.vault.ID, album.VaultID)
		assert.True(t, storage.IsDir(filepath.Join(env.root, "Trips")))

		report := env.mustSync(t)
		assert.Equal(t, 0, report.AlbumsCreated)
		assert.Equal(t, 0, report.AlbumsDeleted)
		env.albumByName(t, env.vault.ID, "Trips")
	})

	t.Run("child inherits the parent's vault and gets the next order", func(t *testing.T) {
		parent := env.albumByName(t, env.vault.ID, "Trips")
		first, err := env.folders.CreateFolder("Rome", &parent.ID, nil)
		require.NoError(t, err)
		second, err := env.folders.CreateFolder("Paris", &parent.ID, nil)
		require.NoError(t, err)

		assert.Equal(t, parent.ID, *first.ParentID)
		assert.Equal(t, first.SortOrder+1, second.SortOrder)
		assert.True(t, storage.IsDir(filepath.Join(env.root, "Trips", "Paris")))
	})

	t.Run("existing album conflicts", func(t *testing.T) {
		_, err := env.folders.CreateFolder("Trips", nil, &env.vault.ID)
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("invalid names are rejected", func(t *testing.T) {
		for _, name := range []string{"", "   ", ".hidden", "_Trash"} {
			_, err := env.folders.CreateFolder(name, nil, nil)
			assert.ErrorIs(t, err, ErrInvalidInput, "name %q", name)
		}
	})

	t.Run("illegal characters are sanitized", func(t *testing.T) {
		album, err := env.folders.CreateFolder("a:b?", nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "a_b_", album.Name)
	})

	t.Run("parent from another vault", func(t *testing.T) {
		other := env.addVault(t, "Other")
		parent := env.albumByName(t, env.vault.ID, "Trips")
		_, err := env.folders.CreateFolder("X", &parent.ID, &other.ID)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestRenameFolder(t *testing.T) {
	env := setupIntegrationTest(t)
	writeFile(t, filepath.Join(env.root, "Trips", "Rome", "a.jpg"))
	env.mustSync(t)
	trips := env.albumByName(t, env.vault.ID, "Trips")

	renamed, err := env.folders.RenameFolder(trips.ID, "Travel")
	require.NoError(t, err)
	assert.Equal(t, "Travel", renamed.Name)
	assert.True(t, storage.Exists(filepath.Join(env.root, "Travel", "Rome", "a.jpg")))
	assert.False(t, storage.Exists(filepath.Join(env.root, "Trips")))

	// Stored image paths follow the rename, so the next pass changes nothing.
	env.imageByPath(t, filepath.Join(env.root, "Travel", "Rome", "a.jpg"))
	report := env.mustSync(t)
	assert.Equal(t, 0, report.Mutations(), "%+v", report)

	require.NoError(t, os.MkdirAll(filepath.Join(env.root, "Taken"), 0755))
	_, err = env.folders.RenameFolder(trips.ID, "Taken")
	assert.ErrorIs(t, err, ErrConflict)

	_, err = env.folders.RenameFolder(999, "Nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRenameFolder_CaseOnly(t *testing.T) {
	t.Run("distinct sibling differing in case conflicts", func(t *testing.T) {
		env := setupIntegrationTest(t)
		writeFile(t, filepath.Join(env.root, "Travel", "a.jpg"))
		if storage.Exists(filepath.Join(env.root, "travel")) {
			t.Skip("case-insensitive filesystem")
		}
		require.NoError(t, os.MkdirAll(filepath.Join(env.root, "travel"), 0755))
		env.mustSync(t)
		travel := env.albumByName(t, env.vault.ID, "Travel")

		_, err := env.folders.RenameFolder(travel.ID, "travel")
		assert.ErrorIs(t, err, ErrConflict)
		assert.True(t, storage.Exists(filepath.Join(env.root, "Travel", "a.jpg")))
		assert.True(t, storage.IsDir(filepath.Join(env.root, "travel")))
		assert.False(t, storage.Exists(filepath.Join(env.root, "travel", "a.jpg")))
	})

	t.Run("case change without sibling renames", func(t *testing.T) {
		env := setupIntegrationTest(t)
		writeFile(t, filepath.Join(env.root, "Travel", "a.jpg"))
		env.mustSync(t)
		travel := env.albumByName(t, env.vault.ID, "Travel")

		renamed, err := env.folders.RenameFolder(travel.ID, "TRAVEL")
		require.NoError(t, err)
		assert.Equal(t, "TRAVEL", renamed.Name)
		assert.True(t, storage.Exists(filepath.Join(env.root, "TRAVEL", "a.jpg")))
	})
}

func TestMoveFolder(t *testing.T) {
	env := setupIntegrationTest(t)
	writeFile(t, filepath.Join(env.root, "A", "B", "C", "c.jpg"))
	require.NoError(t, os.MkdirAll(filepath.Join(env.root, "D"), 0755))
	env.mustSync(t)
	a := env.albumByName(t, env.vault.ID, "A")
	b := env.albumByName(t, env.vault.ID, "B")
	c := env.albumByName(t, env.vault.ID, "C")
	d := env.albumByName(t, env.vault.ID, "D")

	t.Run("into own descendant is refused", func(t *testing.T) {
		_, err := env.folders.MoveFolder(a.ID, &c.ID, nil)
		assert.ErrorIs(t, err, ErrInvalidInput)
		_, err = env.folders.MoveFolder(a.ID, &a.ID, nil)
		assert.ErrorIs(t, err, ErrInvalidInput)

		assert.True(t, storage.IsDir(filepath.Join(env.root, "A", "B", "C")))
		got, err := env.repo.GetAlbum(a.ID)
		require.NoError(t, err)
		assert.Nil(t, got.ParentID)
	})

	t.Run("same parent is a no-op", func(t *testing.T) {
		moved, err := env.folders.MoveFolder(b.ID, &a.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, a.ID, *moved.ParentID)
		assert.True(t, storage.IsDir(filepath.Join(env.root, "A", "B")))
	})

	t.Run("within the vault", func(t *testing.T) {
		moved, err := env.folders.MoveFolder(b.ID, &d.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, d.ID, *moved.ParentID)
		assert.True(t, storage.Exists(filepath.Join(env.root, "D", "B", "C", "c.jpg")))

		env.imageByPath(t, filepath.Join(env.root, "D", "B", "C", "c.jpg"))
		report := env.mustSync(t)
		assert.Equal(t, 0, report.Mutations(), "%+v", report)
	})

	t.Run("target exists", func(t *testing.T) {
		require.NoError(t, os.MkdirAll(filepath.Join(env.root, "B"), 0755))
		defer os.Remove(filepath.Join(env.root, "B"))
		_, err := env.folders.MoveFolder(b.ID, nil, nil)
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("across vaults cascades to every descendant", func(t *testing.T) {
		other := env.addVault(t, "Other")
		moved, err := env.folders.MoveFolder(b.ID, nil, &other.ID)
		require.NoError(t, err)
		assert.Nil(t, moved.ParentID)
		assert.Equal(t, other.ID, moved.VaultID)

		otherRoot := filepath.Join(filepath.Dir(env.root), "Other")
		nested := filepath.Join(otherRoot, "B", "C", "c.jpg")
		assert.True(t, storage.Exists(nested))

		gotC, err := env.repo.GetAlbum(c.ID)
		require.NoError(t, err)
		assert.Equal(t, other.ID, gotC.VaultID)

		img := env.imageByPath(t, nested)
		assert.Equal(t, other.ID, *img.VaultID)
		assert.Equal(t, c.ID, *img.AlbumID)
		assertCatalogInvariants(t, env.repo)

		report, err := env.sync.Sync(t.Context(), other.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, report.Mutations(), "%+v", report)

		entries, err := env.log.Read(otherRoot, 0)
		require.NoError(t, err)
		actions := []string{}
		for _, e := range entries {
			actions = append(actions, e.Action)
		}
		assert.Contains(t, actions, "MOVE")
	})
}

func TestDeleteFolder(t *testing.T) {
	env := setupIntegrationTest(t)
	writeFile(t, filepath.Join(env.root, "Travel", "img1.jpg"))
	writeFile(t, filepath.Join(env.root, "Travel", "Sub", "img2.jpg"))
	require.NoError(t, os.MkdirAll(filepath.Join(env.root, "Empty"), 0755))
	writeFile(t, filepath.Join(env.root, "Empty", ".DS_Store"))
	env.mustSync(t)
	travel := env.albumByName(t, env.vault.ID, "Travel")
	empty := env.albumByName(t, env.vault.ID, "Empty")

	err := env.folders.DeleteFolder(travel.ID, false)
	assert.ErrorIs(t, err, ErrNotEmpty)
	assert.True(t, storage.IsDir(filepath.Join(env.root, "Travel")))

	require.NoError(t, env.folders.DeleteFolder(empty.ID, false), "hidden files do not count")
	assert.False(t, storage.Exists(filepath.Join(env.root, "Empty")))

	require.NoError(t, env.folders.DeleteFolder(travel.ID, true))
	assert.False(t, storage.Exists(filepath.Join(env.root, "Travel")))

	albums, err := env.repo.ListAlbumsByVault(env.vault.ID)
	require.NoError(t, err)
	assert.Empty(t, albums)
	images, err := env.repo.ListImagesByVault(env.vault.ID)
	require.NoError(t, err)
	assert.Empty(t, images)

	assert.ErrorIs(t, env.folders.DeleteFolder(travel.ID, true), ErrNotFound)
}
