package cmd

import (
	"github.com/spf13/cobra"

	"github.com/VLP-TECH/camara-vlc/database"
	"github.com/VLP-TECH/camara-vlc/logging"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Open(cfg.Database)
		if err != nil {
			return err
		}
		if err := database.Migrate(db); err != nil {
			return err
		}
		logging.Logger.Info("schema migrated")
		return nil
	},
}
