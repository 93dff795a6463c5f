// filepath: internal/services/image_service_test.go
package services

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"photovault/internal/models"
	"photovault/internal/repository"
	"photovault/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoveImageToAlbum_CollisionFreeNames(t *testing.T) {
	env := setupIntegrationTest(t)
	writeFile(t, filepath.Join(env.root, "Target", "a.jpg"))
	writeFile(t, filepath.Join(env.root, "In1", "a.jpg"))
	writeFile(t, filepath.Join(env.root, "In2", "a.jpg"))
	env.mustSync(t)
	target := env.albumByName(t, env.vault.ID, "Target")

	first := env.imageByPath(t, filepath.Join(env.root, "In1", "a.jpg"))
	moved, err := env.images.MoveImageToAlbum(first.ID, &target.ID)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(env.root, "Target", "a (1).jpg"), moved.AbsolutePath)
	assert.Equal(t, "a (1).jpg", moved.Filename)
	assert.Equal(t, target.ID, *moved.AlbumID)

	second := env.imageByPath(t, filepath.Join(env.root, "In2", "a.jpg"))
	moved, err = env.images.MoveImageToAlbum(second.ID, &target.ID)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(env.root, "Target", "a (2).jpg"), moved.AbsolutePath)

	stored, err := env.repo.GetImage(second.ID)
	require.NoError(t, err)
	assert.Equal(t, moved.AbsolutePath, stored.AbsolutePath)
	assert.False(t, storage.Exists(filepath.Join(env.root, "In2", "a.jpg")))

	report := env.mustSync(t)
	assert.Equal(t, 0, report.Mutations(), "%+v", report)
}

func TestMoveImageToAlbum_NilAlbumIsNoop(t *testing.T) {
	env := setupIntegrationTest(t)
	path := filepath.Join(env.root, "A", "a.jpg")
	writeFile(t, path)
	env.mustSync(t)
	img := env.imageByPath(t, path)

	got, err := env.images.MoveImageToAlbum(img.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, path, got.AbsolutePath)
	assert.True(t, storage.Exists(path))
}

func TestMoveImageToAlbum_AcrossVaults(t *testing.T) {
	env := setupIntegrationTest(t)
	other := env.addVault(t, "Other")
	otherRoot := filepath.Join(filepath.Dir(env.root), "Other")
	require.NoError(t, os.MkdirAll(filepath.Join(otherRoot, "Dest"), 0755))
	_, err := env.sync.Sync(t.Context(), other.ID)
	require.NoError(t, err)
	writeFile(t, filepath.Join(env.root, "a.jpg"))
	env.mustSync(t)

	dest := env.albumByName(t, other.ID, "Dest")
	img := env.imageByPath(t, filepath.Join(env.root, "a.jpg"))
	moved, err := env.images.MoveImageToAlbum(img.ID, &dest.ID)
	require.NoError(t, err)
	assert.Equal(t, other.ID, *moved.VaultID)
	assertCatalogInvariants(t, env.repo)
}

func TestBatchMoveImages_ContinuesOnError(t *testing.T) {
	env := setupIntegrationTest(t)
	for _, name := range []string{"1.jpg", "2.jpg", "3.jpg"} {
		writeFile(t, filepath.Join(env.root, "Inbox", name))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(env.root, "Dest"), 0755))
	env.mustSync(t)
	dest := env.albumByName(t, env.vault.ID, "Dest")
	inbox := env.albumByName(t, env.vault.ID, "Inbox")

	id1 := env.imageByPath(t, filepath.Join(env.root, "Inbox", "1.jpg")).ID
	id2 := env.imageByPath(t, filepath.Join(env.root, "Inbox", "2.jpg")).ID
	id3 := env.imageByPath(t, filepath.Join(env.root, "Inbox", "3.jpg")).ID
	require.NoError(t, os.Remove(filepath.Join(env.root, "Inbox", "2.jpg")))

	results := env.images.BatchMoveImages([]int64{id1, id2, id3}, &dest.ID)
	require.Len(t, results, 3)
	assert.Equal(t, models.BatchResult{ID: id1, Success: true}, results[0])
	assert.Equal(t, id2, results[1].ID)
	assert.False(t, results[1].Success)
	assert.NotEmpty(t, results[1].Error)
	assert.Equal(t, models.BatchResult{ID: id3, Success: true}, results[2])

	for _, id := range []int64{id1, id3} {
		img, err := env.repo.GetImage(id)
		require.NoError(t, err)
		assert.Equal(t, dest.ID, *img.AlbumID)
	}
	unchanged, err := env.repo.GetImage(id2)
	require.NoError(t, err)
	assert.Equal(t, inbox.ID, *unchanged.AlbumID)
	assert.Equal(t, filepath.Join(env.root, "Inbox", "2.jpg"), unchanged.AbsolutePath)
}

func TestMoveImageToTrash(t *testing.T) {
	env := setupIntegrationTest(t)
	writeFile(t, filepath.Join(env.root, "A", "a.jpg"))
	writeFile(t, filepath.Join(env.root, "_Trash", "a.jpg"))
	env.mustSync(t)
	img := env.imageByPath(t, filepath.Join(env.root, "A", "a.jpg"))

	require.NoError(t, env.images.MoveImageToTrash(img.ID))
	assert.True(t, storage.Exists(filepath.Join(env.root, "_Trash", "a (1).jpg")))
	assert.False(t, storage.Exists(filepath.Join(env.root, "A", "a.jpg")))

	_, err := env.repo.GetImage(img.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.ErrorIs(t, env.images.MoveImageToTrash(img.ID), ErrNotFound)
}

func TestMoveImageToTrash_LegacyFallback(t *testing.T) {
	env := setupIntegrationTest(t)
	require.NoError(t, env.vaults.RemoveVault(env.vault.ID))

	legacy := filepath.Join(filepath.Dir(env.root), "legacy")
	require.NoError(t, env.repo.SetSetting(repository.SettingLegacyVaultPath, legacy))

	path := filepath.Join(filepath.Dir(env.root), "loose", "x.jpg")
	writeFile(t, path)
	img, err := env.repo.CreateImage(&models.Image{AbsolutePath: path, Filename: "x.jpg", ModifiedAt: time.Now()})
	require.NoError(t, err)

	require.NoError(t, env.images.MoveImageToTrash(img.ID))
	assert.True(t, storage.Exists(filepath.Join(legacy, "_Trash", "x.jpg")))
}

func TestBatchTrashImages(t *testing.T) {
	env := setupIntegrationTest(t)
	writeFile(t, filepath.Join(env.root, "a.jpg"))
	env.mustSync(t)
	img := env.imageByPath(t, filepath.Join(env.root, "a.jpg"))

	results := env.images.BatchTrashImages([]int64{img.ID, 999})
	require.Len(t, results, 2)
	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
}

func TestMoveImageToSortLater(t *testing.T) {
	env := setupIntegrationTest(t)
	writeFile(t, filepath.Join(env.root, "A", "a.jpg"))
	env.mustSync(t)
	img := env.imageByPath(t, filepath.Join(env.root, "A", "a.jpg"))

	moved, err := env.images.MoveImageToSortLater(img.ID)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(env.root, "_Sort Later", "a.jpg"), moved.AbsolutePath)
	assert.Equal(t, models.ImageStatusNotSure, moved.Status)
	assert.Nil(t, moved.AlbumID)

	stored, err := env.repo.GetImage(img.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ImageStatusNotSure, stored.Status)
	assert.Nil(t, stored.AlbumID)

	// The row survives the next pass as long as the file exists.
	report := env.mustSync(t)
	assert.Equal(t, 0, report.ImagesRemoved)
}

func TestAssignAndMarkImage(t *testing.T) {
	env := setupIntegrationTest(t)
	require.NoError(t, os.MkdirAll(filepath.Join(env.root, "Dest"), 0755))
	env.mustSync(t)
	dest := env.albumByName(t, env.vault.ID, "Dest")

	path := filepath.Join(filepath.Dir(env.root), "import", "x.jpg")
	writeFile(t, path)
	img, err := env.repo.CreateImage(&models.Image{AbsolutePath: path, Filename: "x.jpg", ModifiedAt: time.Now()})
	require.NoError(t, err)

	assigned, err := env.images.AssignImage(img.ID, &dest.ID)
	require.NoError(t, err)
	assert.Equal(t, dest.ID, *assigned.AlbumID)
	assert.Equal(t, env.vault.ID, *assigned.VaultID)
	assert.True(t, storage.Exists(path), "assigning does not move the file")

	marked, err := env.images.MarkImage(img.ID, models.ImageStatusTrash)
	require.NoError(t, err)
	assert.Equal(t, models.ImageStatusTrash, marked.Status)

	_, err = env.images.MarkImage(img.ID, "lost")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
