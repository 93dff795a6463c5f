// filepath: internal/initconfig/init.go
package initconfig

import (
	"os"
	"path/filepath"

	"photovault/internal/logging"
	"photovault/internal/models"
	"photovault/internal/services"

	"github.com/BurntSushi/toml"
)

// Run executes the one-time vault registration from the config file.
// Vaults that are already registered are left untouched.
func Run(vaultSvc services.VaultService, configPath string) {
	logging.Log.Infof("Initialization config file found at: %s. Processing...", configPath)

	data, err := os.ReadFile(configPath)
	if err != nil {
		logging.Log.Errorf("Failed to read init config file '%s': %v", configPath, err)
		return
	}

	var config InitConfig
	if _, err := toml.Decode(string(data), &config); err != nil {
		logging.Log.Errorf("Failed to parse TOML init config file '%s': %v", configPath, err)
		return
	}

	logging.Log.Infof("Found %d vault(s) in init config.", len(config.Vaults))

	registered, err := vaultSvc.ListVaults()
	if err != nil {
		logging.Log.Errorf("Failed to list registered vaults: %v", err)
		return
	}
	byPath := make(map[string]int64, len(registered))
	for _, v := range registered {
		byPath[v.RootPath] = v.ID
	}

	processVaults(vaultSvc, config.Vaults, byPath)
	setDefault(vaultSvc, config.DefaultVault, byPath)
}

// processVaults registers every vault not yet known. byPath is extended with
// the vaults it creates.
func processVaults(vaultSvc services.VaultService, vaults []InitVault, byPath map[string]int64) {
	for _, iv := range vaults {
		if iv.Path == "" {
			logging.Log.Warnf("Skipping vault with empty path.")
			continue
		}
		root := absPath(iv.Path)
		if _, ok := byPath[root]; ok {
			logging.Log.Infof("Skipping vault: '%s' is already registered.", root)
			continue
		}

		logging.Log.Infof("Registering vault: '%s'...", root)
		vault, err := vaultSvc.AddVault(root, iv.Name)
		if err != nil {
			logging.Log.Errorf("Failed to register vault '%s': %v", root, err)
			continue
		}
		byPath[vault.RootPath] = vault.ID

		if iv.Hidden {
			visible := false
			if _, err := vaultSvc.UpdateVault(vault.ID, models.VaultUpdatePayload{Visible: &visible}); err != nil {
				logging.Log.Errorf("Failed to hide vault '%s': %v", root, err)
			}
		}
		logging.Log.Infof("Successfully registered vault %d: '%s'", vault.ID, vault.DisplayName)
	}
}

func setDefault(vaultSvc services.VaultService, path string, byPath map[string]int64) {
	if path == "" {
		return
	}
	id, ok := byPath[absPath(path)]
	if !ok {
		logging.Log.Warnf("Default vault '%s' is not registered.", path)
		return
	}
	if err := vaultSvc.SetDefaultVault(id); err != nil {
		logging.Log.Errorf("Failed to set default vault '%s': %v", path, err)
	}
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}
