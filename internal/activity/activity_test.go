package activity

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestAppend_CreatesTable(t *testing.T) {
	root := t.TempDir()
	l := NewLog(false)
	l.now = fixedClock(time.Date(2024, 5, 1, 10, 30, 0, 0, time.Local))

	require.NoError(t, l.Append(root, ActionVaultAdded, "registered Photos"))
	require.NoError(t, l.Append(root, ActionMove, "moved a.jpg to Travel"))

	data, err := os.ReadFile(Path(root))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "| Timestamp | Action | Detail |", lines[0])
	assert.Equal(t, "|---|---|---|", lines[1])
	assert.Equal(t, "| 2024-05-01 10:30:00 | VAULT_ADDED | registered Photos |", lines[2])
	assert.Equal(t, "| 2024-05-01 10:30:00 | MOVE | moved a.jpg to Travel |", lines[3])
}

func TestReadEntries(t *testing.T) {
	root := t.TempDir()
	l := NewLog(true)
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.Local)

	for i, action := range []Action{ActionCreate, ActionRename, ActionSync} {
		l.now = fixedClock(base.Add(time.Duration(i) * time.Minute))
		require.NoError(t, l.Append(root, action, "step | with pipe\nand newline"))
	}

	entries, err := l.Read(root, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "CREATE", entries[0].Action)
	assert.Equal(t, "step | with pipe and newline", entries[0].Detail)
	assert.True(t, entries[2].Timestamp.Equal(base.Add(2*time.Minute)))

	latest, err := l.Read(root, 2)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, "RENAME", latest[0].Action)
	assert.Equal(t, "SYNC", latest[1].Action)
}

func TestRead_MissingLog(t *testing.T) {
	entries, err := NewLog(false).Read(t.TempDir(), 10)
	assert.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAppend_MissingVault(t *testing.T) {
	err := NewLog(false).Append("/definitely/not/here", ActionSync, "x")
	assert.Error(t, err)
}
