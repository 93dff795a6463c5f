// filepath: internal/initconfig/models.go
package initconfig

// InitConfig is the root struct for parsing the TOML initialization file.
type InitConfig struct {
	Vaults []InitVault `toml:"vault"`
	// DefaultVault is the path of the vault that receives new top-level folders.
	DefaultVault string `toml:"default_vault"`
}

// InitVault represents a vault entry in the TOML config file.
type InitVault struct {
	Path   string `toml:"path"`
	Name   string `toml:"name"`
	Hidden bool   `toml:"hidden"`
}
