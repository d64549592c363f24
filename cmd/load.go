package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VLP-TECH/camara-vlc/catalog"
	"github.com/VLP-TECH/camara-vlc/loader"
)

var (
	loadManifest string
	loadCatalog  string
	loadJSON     bool
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load new observations from the source manifest",
	Long: `load reads every CSV listed in the source manifest and inserts the rows
whose natural key is not stored yet. Each file is committed on its own; a
file that fails is reported and the run continues.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		manifestPath := cfg.Loader.Manifest
		if loadManifest != "" {
			manifestPath = loadManifest
		}
		catalogPath := cfg.Catalog.Path
		if loadCatalog != "" {
			catalogPath = loadCatalog
		}

		manifest, err := loader.LoadManifest(manifestPath)
		if err != nil {
			return err
		}
		cat, err := catalog.Load(catalogPath)
		if err != nil {
			return err
		}
		db, err := openStore()
		if err != nil {
			return err
		}

		report := loader.New(db, cat.SharedDescriptions()).Run(cmd.Context(), manifest.Sources)

		out := cmd.OutOrStdout()
		if loadJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}
		fmt.Fprintf(out, "run %s: %d rows inserted from %d files\n", report.RunID, report.Inserted, len(report.Batches))
		for _, b := range report.Batches {
			fmt.Fprintf(out, "  %-60s %-10s +%d (%d duplicates)\n", b.File, b.Table, b.Inserted, b.Duplicates)
		}
		for _, s := range report.Skipped {
			fmt.Fprintf(out, "  skipped %q: %s: %v\n", s.Source, s.Reason, s.Err)
		}
		return nil
	},
}

func init() {
	loadCmd.Flags().StringVar(&loadManifest, "manifest", "", "source manifest (overrides loader.manifest)")
	loadCmd.Flags().StringVar(&loadCatalog, "catalog", "", "catalog file used to detect shared descriptions")
	loadCmd.Flags().BoolVar(&loadJSON, "json", false, "print the run report as JSON")
}
