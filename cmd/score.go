package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VLP-TECH/camara-vlc/scoring"
)

var scoreSel scoring.Selection

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Compute the Brainnova score for a selection",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		score, err := scoring.Calculate(cmd.Context(), db, scoreSel)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Brainnova score: %s\n", score.Global.StringFixed(2))
		for _, d := range score.Dimensions {
			fmt.Fprintf(out, "  %-40s %6s  x %3s%%  = %6s\n",
				d.Name, d.Score.StringFixed(2), d.Weight.String(), d.Contribution.StringFixed(2))
			for _, sd := range d.Subdimensions {
				fmt.Fprintf(out, "    %-38s %6s  (%d results)\n", sd.Name, sd.Score.StringFixed(2), sd.Count)
			}
		}
		return nil
	},
}

func init() {
	f := scoreCmd.Flags()
	f.StringVar(&scoreSel.Country, "pais", "", "country")
	f.IntVar(&scoreSel.Year, "periodo", 0, "year")
	f.StringVar(&scoreSel.Sector, "sector", "", "sector")
	f.StringVar(&scoreSel.CompanySize, "tamano", "", "company size")
	f.StringVar(&scoreSel.Province, "provincia", "", "province (optional)")
}
