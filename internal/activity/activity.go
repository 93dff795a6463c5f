// Package activity keeps the per-vault activity log, an append-only Markdown
// table stored at <vault>/.activity-log.
package activity

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"photovault/internal/logging"
	"photovault/internal/models"
	"photovault/internal/storage"

	"github.com/sirupsen/logrus"
)

// Action is the kind of structural mutation recorded in the log.
type Action string

const (
	ActionMove       Action = "MOVE"
	ActionDelete     Action = "DELETE"
	ActionRename     Action = "RENAME"
	ActionCreate     Action = "CREATE"
	ActionSync       Action = "SYNC"
	ActionVaultAdded Action = "VAULT_ADDED"
)

const (
	timestampLayout = "2006-01-02 15:04:05"
	tableHeader     = "| Timestamp | Action | Detail |\n|---|---|---|\n"
)

// Log appends rows to activity logs. One Log serves every vault.
type Log struct {
	mu     sync.Mutex
	mirror bool
	now    func() time.Time
}

// NewLog creates an activity log writer. With mirror set every row is also
// written to the application log.
func NewLog(mirror bool) *Log {
	return &Log{mirror: mirror, now: time.Now}
}

// Path returns the activity log location for a vault root.
func Path(vaultRoot string) string {
	return filepath.Join(vaultRoot, storage.ActivityLogName)
}

// Append writes one row to the vault's log, creating the table on first use.
func (l *Log) Append(vaultRoot string, action Action, detail string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(Path(vaultRoot), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("could not open activity log: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("could not stat activity log: %w", err)
	}

	var sb strings.Builder
	if info.Size() == 0 {
		sb.WriteString(tableHeader)
	}
	ts := l.now().Format(timestampLayout)
	fmt.Fprintf(&sb, "| %s | %s | %s |\n", ts, action, escapeCell(detail))

	if _, err := f.WriteString(sb.String()); err != nil {
		return fmt.Errorf("could not write activity log: %w", err)
	}

	if l.mirror {
		logging.Log.WithFields(logrus.Fields{
			"activity_action": string(action),
			"activity_vault":  vaultRoot,
		}).Info(detail)
	}
	return nil
}

// Read returns the most recent limit rows of the vault's log, oldest first.
// A limit of zero or less returns every row. A missing log yields no rows.
func (l *Log) Read(vaultRoot string, limit int) ([]models.ActivityEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(Path(vaultRoot))
	if err != nil {
		if os.IsNotExist(err) {
			return []models.ActivityEntry{}, nil
		}
		return nil, err
	}
	defer f.Close()

	entries := []models.ActivityEntry{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		entry, ok := parseRow(scanner.Text())
		if !ok {
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return entries, nil
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}

// splitRow splits a table row on pipes that are not escaped.
func splitRow(line string) []string {
	var cells []string
	var cur strings.Builder
	for i := 0; i < len(line); i++ {
		c := line[i]
		if c == '\\' && i+1 < len(line) && line[i+1] == '|' {
			cur.WriteByte('|')
			i++
			continue
		}
		if c == '|' {
			cells = append(cells, strings.TrimSpace(cur.String()))
			cur.Reset()
			continue
		}
		cur.WriteByte(c)
	}
	cells = append(cells, strings.TrimSpace(cur.String()))
	return cells
}

func parseRow(line string) (models.ActivityEntry, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "|") {
		return models.ActivityEntry{}, false
	}
	cells := splitRow(line)
	// Leading and trailing pipes produce empty outer cells
	if len(cells) != 5 {
		return models.ActivityEntry{}, false
	}
	ts, err := time.ParseInLocation(timestampLayout, cells[1], time.Local)
	if err != nil {
		// header and separator rows
		return models.ActivityEntry{}, false
	}
	return models.ActivityEntry{Timestamp: ts, Action: cells[2], Detail: cells[3]}, true
}
