package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cascade",
	Short: "Replay and project the ADL liquidation cascade",
	Long: `Cascade replays the historical ADL/liquidation event log on a
virtual clock and derives the flow projections the renderers draw.

It provides tools for:
  - Replaying the event log at configurable compressed speed
  - Aggregating pairwise flows by asset or account
  - Computing chord, Sankey and stream-graph geometry per frame
  - Journaling frame summaries to CSV or SQLite
  - Exporting the whole-dataset flow report JSON`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
