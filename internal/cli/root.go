// filepath: internal/cli/root.go
package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"photovault/internal/config"
	"photovault/internal/logging"

	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// envPrefix prefixes every environment override, e.g. PHOTOVAULT_SERVER_PORT.
const envPrefix = "PHOTOVAULT"

var (
	// Version info
	Version   = "1.0.0"
	StartTime time.Time

	// Global config object populated by flags/env/file
	cfg *config.Config

	// Path of the one-time vault registration file, empty when not given.
	initConfig string
)

// flagKeys maps flag names onto config keys. The key also names the
// environment variable: "server.port" is read from PHOTOVAULT_SERVER_PORT.
var flagKeys = map[string]string{
	"config_path":       "config_path",
	"log-level":         "logging.level",
	"log-file":          "logging.file",
	"db-path":           "database.path",
	"thumbnail-dir":     "thumbnails.dir",
	"legacy-vault-path": "legacy_vault_path",
	"host":              "server.host",
	"port":              "server.port",
	"sync-interval":     "sync.interval",
	"watch":             "sync.watch",
	"audit-enabled":     "logging.audit_enabled",
	"init_config":       "init_config",
}

// RootCmd represents the base command when called without any subcommands.
// It starts the HTTP server.
var RootCmd = &cobra.Command{
	Use:   "photovault",
	Short: "PhotoVault catalog & folder engine",
	Long: `Keeps a catalog of photo vaults in sync with the folders on disk and performs
structural folder and image operations on both at once.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	StartTime = time.Now()
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	registerGlobalFlags(RootCmd.PersistentFlags())
	registerServeFlags(RootCmd.Flags())
}

func registerGlobalFlags(fs *pflag.FlagSet) {
	fs.String("config_path", "config.toml", "Path to the base configuration file. (Env: PHOTOVAULT_CONFIG_PATH)")
	fs.String("log-level", "", "Logging level (trace, debug, info, warn, error). (Env: PHOTOVAULT_LOGGING_LEVEL)")
	fs.String("log-file", "", "Also write logs to this rotating file. (Env: PHOTOVAULT_LOGGING_FILE)")
	fs.String("db-path", "", "Path of the sqlite catalog. (Env: PHOTOVAULT_DATABASE_PATH)")
	fs.String("thumbnail-dir", "", "Directory for generated thumbnails. (Env: PHOTOVAULT_THUMBNAILS_DIR)")
	fs.String("legacy-vault-path", "", "Legacy single-vault root, used as last trash fallback. (Env: PHOTOVAULT_LEGACY_VAULT_PATH)")
}

func registerServeFlags(fs *pflag.FlagSet) {
	fs.String("host", "", "Interface for the HTTP server. (Env: PHOTOVAULT_SERVER_HOST)")
	fs.Int("port", 0, "Port for the HTTP server. (Env: PHOTOVAULT_SERVER_PORT)")
	fs.String("sync-interval", "", "Periodic sync interval, e.g. '30m' or '0' to disable. (Env: PHOTOVAULT_SYNC_INTERVAL)")
	fs.Bool("watch", false, "Watch vault folders and sync on structural changes. (Env: PHOTOVAULT_SYNC_WATCH=true)")
	fs.Bool("audit-enabled", false, "Log every mutating API request. (Env: PHOTOVAULT_LOGGING_AUDIT_ENABLED=true)")
	fs.String("init_config", "", "Path to a TOML file listing vaults to register on startup. (Env: PHOTOVAULT_INIT_CONFIG)")
}

// newViper binds the flags known to cmd and the PHOTOVAULT_ environment.
func newViper(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	for name, key := range flagKeys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	v.SetDefault("config_path", "config.toml")
	return v, nil
}

// initializeConfig loads the config file and layers environment and flags on
// top. Precedence: flag > env > file > default.
func initializeConfig(cmd *cobra.Command) error {
	v, err := newViper(cmd)
	if err != nil {
		return err
	}

	cfgFile := v.GetString("config_path")
	cfg, err = config.LoadConfig(cfgFile)
	if err != nil {
		if os.IsNotExist(err) {
			cfg = &config.Config{}
		} else {
			return fmt.Errorf("failed to load configuration from %s: %w", cfgFile, err)
		}
	}

	applyOverrides(cfg, v)
	applyDefaults(cfg)

	if err := cfg.ParseAndValidate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logging.Init(cfg.Logging.Level, logging.FileOptions{
		Path:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	})
	goose.SetLogger(logging.Log)
	return nil
}

// applyOverrides copies every key set by flag or environment into c.
func applyOverrides(c *config.Config, v *viper.Viper) {
	if v.IsSet("logging.level") {
		c.Logging.Level = v.GetString("logging.level")
	}
	if v.IsSet("logging.file") {
		c.Logging.File = v.GetString("logging.file")
	}
	if v.IsSet("logging.audit_enabled") {
		c.Logging.AuditEnabled = v.GetBool("logging.audit_enabled")
	}
	if v.IsSet("database.path") {
		c.Database.Path = v.GetString("database.path")
	}
	if v.IsSet("thumbnails.dir") {
		c.Thumbnails.Dir = v.GetString("thumbnails.dir")
	}
	if v.IsSet("legacy_vault_path") {
		c.LegacyVaultPath = v.GetString("legacy_vault_path")
	}
	if v.IsSet("server.host") {
		c.Server.Host = v.GetString("server.host")
	}
	if v.IsSet("server.port") {
		c.Server.Port = v.GetInt("server.port")
	}
	if v.IsSet("sync.interval") {
		c.Sync.Interval = v.GetString("sync.interval")
	}
	if v.IsSet("sync.watch") {
		c.Sync.Watch = v.GetBool("sync.watch")
	}
	if v.IsSet("organize.delete_originals") {
		c.Organize.DeleteOriginals = v.GetBool("organize.delete_originals")
	}
	initConfig = v.GetString("init_config")
}

func applyDefaults(c *config.Config) {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Database.Path == "" {
		c.Database.Path = "photovault.db"
	}
	if c.Thumbnails.Dir == "" {
		c.Thumbnails.Dir = "thumbnails"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}
