// Package cmd provides the brainnova CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/VLP-TECH/camara-vlc/config"
	"github.com/VLP-TECH/camara-vlc/database"
	"github.com/VLP-TECH/camara-vlc/logging"
)

var (
	cfgFile string
	verbose bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "brainnova",
	Short: "Digital economy indicators and the Brainnova score",
	Long: `brainnova stores digital economy indicators, loads new observations
without duplicates and serves results, filters and the Brainnova score.

Examples:
  brainnova migrate
  brainnova seed --catalog config/catalog.yaml
  brainnova load --manifest config/sources.yaml
  brainnova serve
  brainnova score --pais España --periodo 2023 --sector Industria --tamano Pyme`,
	SilenceUsage: true,
}

// Execute runs the CLI
func Execute() error {
	defer logging.Sync()
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./brainnova.yaml or ./config/brainnova.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(scoreCmd)
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// openStore connects to the configured database and migrates it when
// auto_migrate is on.
func openStore() (*gorm.DB, error) {
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, err
	}
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}
