package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/conejocapital/cascadeflow/agg"
	"github.com/conejocapital/cascadeflow/dataset"
	"github.com/conejocapital/cascadeflow/flow"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize an exported ADL event dataset",
	Long: `Load a dataset and print its time range, notional totals and the
largest assets and accounts without running a replay.

Examples:
  cascade stats -d data/adl_events.json
  cascade stats -d data/adl_detailed_analysis.csv --top 10`,
	RunE: runStats,
}

var (
	statsDataPath string
	statsTop      int
)

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().StringVarP(&statsDataPath, "data", "d", "", "dataset path, JSON or CSV (required)")
	statsCmd.Flags().IntVar(&statsTop, "top", 5, "rows to show per ranking")
	statsCmd.MarkFlagRequired("data")
}

func runStats(cmd *cobra.Command, args []string) error {
	eventLog, err := loadAny(statsDataPath)
	if err != nil {
		return err
	}

	rng := eventLog.Range()
	fmt.Printf("Events:         %d\n", eventLog.Len())
	fmt.Printf("Time range:     %.2f minutes\n", float64(rng.DurationMs())/60000)
	fmt.Printf("Total notional: $%.0f\n", eventLog.TotalNotional())
	fmt.Printf("Unique assets:  %d\n", eventLog.Assets())
	fmt.Printf("Unique accounts: %d\n", eventLog.Accounts())

	nodes, _ := agg.Pairwise(eventLog.Events(), agg.PairwiseOptions{Mode: agg.ByAsset})
	fmt.Printf("\nTop assets by notional:\n")
	for i, n := range nodes {
		if i >= statsTop {
			break
		}
		fmt.Printf("  %-12s $%.0f\n", n.ID, n.Total())
	}

	rank := agg.RankSankey(eventLog.Events(), statsTop)
	if len(rank.Sources) > 0 {
		fmt.Printf("\nTop liquidated accounts:\n")
		for _, n := range rank.Sources {
			fmt.Printf("  %-46s $%.0f\n", n.ID, n.Total())
		}
		fmt.Printf("\nTop ADL counterparties:\n")
		for _, n := range rank.Targets {
			fmt.Printf("  %-46s $%.0f\n", n.ID, n.Total())
		}
	}
	return nil
}

func loadAny(path string) (*flow.Log, error) {
	if filepath.Ext(path) == ".csv" {
		return dataset.LoadCSV(path)
	}
	eventLog, _, err := dataset.Load(path)
	return eventLog, err
}
