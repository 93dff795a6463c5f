// filepath: internal/services/services_test.go
package services

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"photovault/internal/activity"
	"photovault/internal/config"
	"photovault/internal/db/migrations"
	"photovault/internal/jobs"
	"photovault/internal/models"
	"photovault/internal/repository"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGenerator records thumbnail requests without decoding anything.
type fakeGenerator struct {
	mu      sync.Mutex
	removed []string
}

func (g *fakeGenerator) Generate(path string, id int64, size int) (string, error) {
	return fmt.Sprintf("thumb-%d.jpg", id), nil
}

func (g *fakeGenerator) Remove(ref string) error {
	g.mu.Lock()
	g.removed = append(g.removed, ref)
	g.mu.Unlock()
	return nil
}

type testEnv struct {
	cfg     *config.Config
	repo    *repository.Repository
	log     *activity.Log
	gen     *fakeGenerator
	thumbs  *thumbnailService
	vaults  *vaultService
	sync    *reconciler
	folders *folderService
	images  *imageService
	trash   *trashService
	jobs    *jobService
	root    string
	vault   *models.Vault
}

// setupIntegrationTest creates a real catalog and one registered vault, all
// backed by temp directories.
func setupIntegrationTest(t *testing.T) *testEnv {
	t.Helper()
	tmpDir := t.TempDir()

	cfg := &config.Config{
		Database: config.DatabaseConfig{Path: filepath.Join(tmpDir, "catalog.db")},
	}
	repo, err := repository.NewRepository(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		t.Fatalf("Failed to set goose dialect: %v", err)
	}
	if err := goose.Up(repo.DB, "."); err != nil {
		t.Fatalf("Failed to migrate integration DB: %v", err)
	}

	env := &testEnv{cfg: cfg, repo: repo, log: activity.NewLog(false), gen: &fakeGenerator{}}
	env.thumbs = NewThumbnailService(repo, env.gen, 64, 2)
	t.Cleanup(env.thumbs.Wait)

	env.vaults = NewVaultService(repo, env.log, env.thumbs)
	env.sync = NewSyncService(repo, env.log, env.thumbs)
	env.folders = NewFolderService(repo, env.log, env.thumbs)
	env.images = NewImageService(repo, env.log, env.thumbs, cfg)
	env.trash = NewTrashService(repo, cfg)

	manager := jobs.NewManager()
	t.Cleanup(manager.Shutdown)
	env.jobs = NewJobService(repo, env.sync, env.thumbs, env.log, manager, cfg)

	env.root = filepath.Join(tmpDir, "V")
	require.NoError(t, os.MkdirAll(env.root, 0755))
	env.vault, err = env.vaults.AddVault(env.root, "Main")
	require.NoError(t, err)
	return env
}

// addVault registers a second vault below the temp dir.
func (e *testEnv) addVault(t *testing.T, name string) *models.Vault {
	t.Helper()
	root := filepath.Join(filepath.Dir(e.root), name)
	require.NoError(t, os.MkdirAll(root, 0755))
	v, err := e.vaults.AddVault(root, name)
	require.NoError(t, err)
	return v
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("not really an image"), 0644))
}

func (e *testEnv) mustSync(t *testing.T) *models.SyncReport {
	t.Helper()
	report, err := e.sync.Sync(t.Context(), e.vault.ID)
	require.NoError(t, err)
	return report
}

// albumByName returns the single album called name in vault.
func (e *testEnv) albumByName(t *testing.T, vaultID int64, name string) models.Album {
	t.Helper()
	albums, err := e.repo.ListAlbumsByVault(vaultID)
	require.NoError(t, err)
	var found []models.Album
	for _, a := range albums {
		if a.Name == name {
			found = append(found, a)
		}
	}
	require.Len(t, found, 1, "albums named %s", name)
	return found[0]
}

func (e *testEnv) imageByPath(t *testing.T, path string) models.Image {
	t.Helper()
	found, err := e.repo.GetImagesByPaths([]string{path})
	require.NoError(t, err)
	img, ok := found[path]
	require.True(t, ok, "image %s not in catalog", path)
	return img
}

// assertCatalogInvariants checks album vault consistency and acyclic parents.
func assertCatalogInvariants(t *testing.T, repo *repository.Repository) {
	t.Helper()
	albums, err := repo.ListAlbums()
	require.NoError(t, err)
	byID := make(map[int64]models.Album, len(albums))
	for _, a := range albums {
		byID[a.ID] = a
	}
	for _, a := range albums {
		seen := map[int64]bool{}
		cur := a
		for cur.ParentID != nil {
			require.False(t, seen[cur.ID], "album %d is part of a cycle", a.ID)
			seen[cur.ID] = true
			parent, ok := byID[*cur.ParentID]
			require.True(t, ok, "album %d has a dangling parent", cur.ID)
			assert.Equal(t, cur.VaultID, parent.VaultID, "album %d crosses vaults", cur.ID)
			cur = parent
		}
	}

	for _, a := range albums {
		images, err := repo.ListImagesByAlbum(a.ID)
		require.NoError(t, err)
		for _, img := range images {
			require.NotNil(t, img.VaultID, "image %d has an album but no vault", img.ID)
			assert.Equal(t, a.VaultID, *img.VaultID, "image %d vault differs from its album", img.ID)
		}
	}
}
