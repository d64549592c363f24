package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VLP-TECH/camara-vlc/catalog"
)

var seedCatalog string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the indicator catalog into an empty store",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.Catalog.Path
		if seedCatalog != "" {
			path = seedCatalog
		}
		cat, err := catalog.Load(path)
		if err != nil {
			return err
		}

		db, err := openStore()
		if err != nil {
			return err
		}
		seeded, err := catalog.Seed(cmd.Context(), db, cat)
		if err != nil {
			return err
		}
		if seeded {
			fmt.Fprintf(cmd.OutOrStdout(), "catalog %s seeded: %d dimensions\n", cat.Version, len(cat.Dimensions))
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "catalog already present, nothing to do")
		}
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedCatalog, "catalog", "", "catalog file (overrides catalog.path)")
}
