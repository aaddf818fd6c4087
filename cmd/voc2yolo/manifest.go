package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sensorable/voc2yolo"
)

var manifestCmd = &cobra.Command{
	Use:   "manifest <output-dir>",
	Short: "Show the split recorded in a dataset's " + voc2yolo.ManifestFileName,
	Long: `manifest prints the run ID, seed, ratios and subset sizes recorded by a
previous run. Rerunning with --seed set to the printed seed and the same
ratios and inputs reproduces the split.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := voc2yolo.ReadManifest(args[0])
		if err != nil {
			return err
		}

		w := os.Stdout
		fmt.Fprintf(w, "run:     %s (%s)\n", m.RunID, m.CreatedAt.Format("2006-01-02 15:04:05 MST"))
		fmt.Fprintf(w, "seed:    %d\n", m.Seed)
		fmt.Fprintf(w, "ratios:  train %.2f, val %.2f, test %.2f\n", m.Ratios.Train, m.Ratios.Val, m.Ratios.Test)
		for _, subset := range voc2yolo.Subsets {
			fmt.Fprintf(w, "%-8s %d files\n", subset+":", len(m.Splits.Of(subset)))
		}
		fmt.Fprintf(w, "total:   %d files\n", m.Splits.Len())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(manifestCmd)
}
