// filepath: internal/cli/root_test.go
package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"photovault/internal/models"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestCommand returns a command carrying every flag the real root knows,
// pointed at configPath.
func newTestCommand(t *testing.T, configPath string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{}
	registerGlobalFlags(cmd.Flags())
	registerServeFlags(cmd.Flags())
	require.NoError(t, cmd.Flags().Set("config_path", configPath))
	return cmd
}

// Helper to reset the global config between tests
func resetGlobals() {
	cfg = nil
	initConfig = ""
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestConfigPrecedence(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nonexistent.toml")

	t.Run("Defaults", func(t *testing.T) {
		resetGlobals()
		cmd := newTestCommand(t, missing)

		require.NoError(t, initializeConfig(cmd))

		assert.Equal(t, "0.0.0.0", cfg.Server.Host)
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, "info", cfg.Logging.Level)
		assert.Equal(t, "photovault.db", cfg.Database.Path)
		assert.Equal(t, "thumbnails", cfg.Thumbnails.Dir)
		assert.Equal(t, time.Hour, cfg.SyncInterval)
		assert.False(t, cfg.Sync.Watch)
	})

	t.Run("Environment Overrides Defaults", func(t *testing.T) {
		resetGlobals()
		t.Setenv("PHOTOVAULT_SERVER_PORT", "9090")
		t.Setenv("PHOTOVAULT_LOGGING_LEVEL", "warn")
		t.Setenv("PHOTOVAULT_SYNC_WATCH", "true")
		cmd := newTestCommand(t, missing)

		require.NoError(t, initializeConfig(cmd))

		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, "warn", cfg.Logging.Level)
		assert.True(t, cfg.Sync.Watch)
	})

	t.Run("Flags Override Environment", func(t *testing.T) {
		resetGlobals()
		t.Setenv("PHOTOVAULT_SERVER_PORT", "9090")
		cmd := newTestCommand(t, missing)
		require.NoError(t, cmd.Flags().Set("port", "7070"))

		require.NoError(t, initializeConfig(cmd))

		assert.Equal(t, 7070, cfg.Server.Port)
	})

	t.Run("Config File Loading", func(t *testing.T) {
		resetGlobals()
		path := writeConfig(t, `
legacy_vault_path = "/srv/photos"

[server]
port = 6060

[logging]
level = "debug"

[sync]
interval = "30m"

[thumbnails]
size = 128
`)
		cmd := newTestCommand(t, path)

		require.NoError(t, initializeConfig(cmd))

		assert.Equal(t, 6060, cfg.Server.Port)
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Equal(t, 30*time.Minute, cfg.SyncInterval)
		assert.Equal(t, 128, cfg.Thumbnails.Size)
		assert.Equal(t, "/srv/photos", cfg.LegacyVaultPath)
	})

	t.Run("Environment Overrides File", func(t *testing.T) {
		resetGlobals()
		path := writeConfig(t, "[server]\nport = 6060\n[database]\npath = \"file.db\"\n")
		t.Setenv("PHOTOVAULT_DATABASE_PATH", "env.db")
		cmd := newTestCommand(t, path)
		require.NoError(t, cmd.Flags().Set("db-path", "flag.db"))

		require.NoError(t, initializeConfig(cmd))

		assert.Equal(t, 6060, cfg.Server.Port)
		assert.Equal(t, "flag.db", cfg.Database.Path)
	})

	t.Run("Init Config From Flag", func(t *testing.T) {
		resetGlobals()
		cmd := newTestCommand(t, missing)
		require.NoError(t, cmd.Flags().Set("init_config", "vaults.toml"))

		require.NoError(t, initializeConfig(cmd))

		assert.Equal(t, "vaults.toml", initConfig)
	})

	t.Run("Invalid File Fails", func(t *testing.T) {
		resetGlobals()
		path := writeConfig(t, "[server\nport = ")
		cmd := newTestCommand(t, path)

		assert.Error(t, initializeConfig(cmd))
	})

	t.Run("Invalid Interval Fails", func(t *testing.T) {
		resetGlobals()
		cmd := newTestCommand(t, missing)
		require.NoError(t, cmd.Flags().Set("sync-interval", "soon"))

		assert.Error(t, initializeConfig(cmd))
	})
}

func TestParseID(t *testing.T) {
	id, err := parseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, bad := range []string{"", "0", "-3", "abc"} {
		_, err := parseID(bad)
		assert.Error(t, err, bad)
	}
}

func TestReportJob(t *testing.T) {
	var buf bytes.Buffer
	err := reportJob(&buf, models.JobStatus{
		Kind:      models.JobKindOrganize,
		State:     models.JobStateCompleted,
		Total:     3,
		Completed: 3,
		Errors:    []models.JobItemError{{Path: "/v/a.jpg", Reason: "no vault"}},
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "organize completed: 3/3 item(s), 1 error(s)")
	assert.Contains(t, buf.String(), "/v/a.jpg: no vault")

	buf.Reset()
	err = reportJob(&buf, models.JobStatus{Kind: models.JobKindScan, State: models.JobStateFailed, Fatal: "boom"})
	assert.ErrorContains(t, err, "boom")
}
