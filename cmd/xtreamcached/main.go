package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Nomadcxx/xtreamcached/internal/config"
)

var (
	version = "dev" // set by build flags: -ldflags="-X main.version=1.0.0"
	cfgFile string
	dbPath  string
)

// main wires a thin demonstration CLI around the engine. The CLI is
// not part of the engine's public contract (internal/store,
// internal/store/repository, internal/syncengine, internal/xtream) and
// exists only to exercise it end to end.
func main() {
	rootCmd := &cobra.Command{
		Use:   "xtreamcached",
		Short: "Local content cache and sync engine for xtream-codes panels",
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/xtreamcached/config.toml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "override the content-cache database path")

	rootCmd.AddCommand(newSyncCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newSettingsCmd())
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.Store.Path = dbPath
	}
	return cfg, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("xtreamcached " + version)
			return nil
		},
	}
}
