package repository

import (
	"database/sql"
	"errors"
	"strconv"
)

// Settings keys.
const (
	SettingDefaultVaultID  = "default_vault_id"
	SettingLegacyVaultPath = "legacy_vault_path"
)

// GetSetting returns a setting value and whether it exists.
func (s *Repository) GetSetting(key string) (string, bool, error) {
	var value string
	err := s.DB.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// SetSetting stores a setting value, replacing any previous value.
func (s *Repository) SetSetting(key, value string) error {
	_, err := s.DB.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

// DeleteSetting removes a setting. Missing keys are ignored.
func (s *Repository) DeleteSetting(key string) error {
	_, err := s.DB.Exec("DELETE FROM settings WHERE key = ?", key)
	return err
}

// GetIntSetting reads an integer setting. Unparsable values count as unset.
func (s *Repository) GetIntSetting(key string) (int64, bool, error) {
	value, ok, err := s.GetSetting(key)
	if err != nil || !ok {
		return 0, false, err
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, false, nil
	}
	return n, true, nil
}
