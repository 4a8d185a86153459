package cmd

import (
	"fmt"

	"github.com/conejocapital/cascadeflow/dataset"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the whole-dataset flow report JSON",
	Long: `Aggregate the full event log into the flow report the renderers
consume: asset flows, per-asset stats, account flows over the top
accounts, and one-second cumulative time buckets.

Examples:
  cascade export -d data/adl_events.json -o data/adl_flow_data.json
  cascade export -d data/adl_detailed_analysis.csv -o flow.json --top 100`,
	RunE: runExport,
}

var (
	exportDataPath string
	exportOutPath  string
	exportTop      int
)

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportDataPath, "data", "d", "", "dataset path, JSON or CSV (required)")
	exportCmd.Flags().StringVarP(&exportOutPath, "output", "o", "adl_flow_data.json", "output report path")
	exportCmd.Flags().IntVar(&exportTop, "top", 50, "accounts kept per side in account sections")
	exportCmd.MarkFlagRequired("data")
}

func runExport(cmd *cobra.Command, args []string) error {
	eventLog, err := loadAny(exportDataPath)
	if err != nil {
		return err
	}

	opts := dataset.ReportOptions{TopAccounts: exportTop}
	if err := dataset.WriteFlowReport(eventLog, exportOutPath, opts); err != nil {
		return err
	}

	fmt.Printf("✓ Wrote flow report: %s (%d events)\n", exportOutPath, eventLog.Len())
	return nil
}
