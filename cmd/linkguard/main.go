// linkguard decides what happens when an embedded chat view navigates:
// stay in place, open in the system browser, or download out of band.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/vertextoedge/linkguard/internal/adapter/sqlite"
	"github.com/vertextoedge/linkguard/internal/config"
	"github.com/vertextoedge/linkguard/internal/logger"
)

// version is set by ldflags at build time.
var version = "dev"

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:           "linkguard",
		Short:         "Navigation trust boundary for embedded chat views",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to configuration file (YAML)")

	rootCmd.AddCommand(
		newServeCmd(),
		newClassifyCmd(),
		newDomainCmd(),
		newDownloadsCmd(),
		newVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "linkguard %s\n", version)
		},
	}
}

// loadConfig loads configuration and initializes the global logger
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, nil
}

// openStore opens the database named by cfg, defaulting to the user
// config directory
func openStore(cfg *config.Config) (*sqlite.Store, error) {
	dbPath, err := databasePath(cfg)
	if err != nil {
		return nil, err
	}
	store, err := sqlite.Open(dbPath, cfg.Database.BusyTimeoutMs)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", dbPath, err)
	}
	return store, nil
}

func databasePath(cfg *config.Config) (string, error) {
	if cfg.Database.Path != "" {
		return cfg.Database.Path, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("no database.path set and no user config dir: %w", err)
	}
	return filepath.Join(dir, "linkguard", "linkguard.db"), nil
}
