package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/conejocapital/cascadeflow/agg"
	"github.com/conejocapital/cascadeflow/config"
	"github.com/conejocapital/cascadeflow/dataset"
	"github.com/conejocapital/cascadeflow/journal"
	"github.com/conejocapital/cascadeflow/layout"
	"github.com/conejocapital/cascadeflow/logger"
	"github.com/conejocapital/cascadeflow/pkg/id"
	"github.com/conejocapital/cascadeflow/playback"
	"github.com/spf13/cobra"
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay the event log through the flow engine",
	Long: `Replay an exported ADL event dataset on the virtual clock,
recomputing the aggregates and layouts each frame and journaling frame
summaries.

Examples:
  cascade replay -d data/adl_events.json
  cascade replay -d data/adl_events.json -f replay.yaml --mode account`,
	RunE: runReplay,
}

var (
	replayConfigPath string
	replayDataPath   string
	replayMode       string
	replaySpeed      float64
	replayTargetSecs float64
)

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().StringVarP(&replayConfigPath, "config", "f", "", "path to config file with replay settings")
	replayCmd.Flags().StringVarP(&replayDataPath, "data", "d", "", "exported ADL events JSON (required)")
	replayCmd.Flags().StringVar(&replayMode, "mode", "", "grouping mode: asset or account (overrides config)")
	replayCmd.Flags().Float64Var(&replaySpeed, "speed", 0, "speed multiplier 0.5|1|2|4|8 (overrides config)")
	replayCmd.Flags().Float64Var(&replayTargetSecs, "target", 0, "whole-dataset playback seconds at 1x (overrides config)")
	replayCmd.MarkFlagRequired("data")
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if replayConfigPath != "" {
		loaded, err := config.LoadFromFile(replayConfigPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if replayMode != "" {
		cfg.View.Mode = replayMode
	}
	if replaySpeed != 0 {
		cfg.Playback.Speed = replaySpeed
	}
	if replayTargetSecs != 0 {
		cfg.Playback.TargetSeconds = replayTargetSecs
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.New(logger.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	})
	rlog := logger.WithComponent(log, "replay")

	eventLog, meta, err := dataset.Load(replayDataPath)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	rlog.WithFields(logger.Fields{
		"events":   eventLog.Len(),
		"assets":   meta.UniqueAssets,
		"accounts": meta.UniqueAccounts,
	}).Info("dataset loaded")

	jnl, err := openJournal(cfg.Journal)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer jnl.Close()

	mode := agg.ByAsset
	if cfg.View.Mode == "account" {
		mode = agg.ByAccount
	}

	runID := id.New()
	started := time.Now().UTC()

	clock := playback.NewClock(
		eventLog.Range().DurationMs(),
		int64(cfg.Playback.TargetSeconds*1000),
	)
	clock.SetSpeed(cfg.Playback.Speed)

	ctrl := playback.NewController(eventLog, clock, playback.Options{
		Mode:        mode,
		TopAccounts: cfg.View.TopAccounts,
		SankeyTopN:  cfg.View.SankeyTopN,
		MinNotional: cfg.View.MinNotional,
		Buckets:     cfg.View.Buckets,
		Sankey: layout.SankeyOptions{
			Width:  cfg.View.Width,
			Height: cfg.View.Height,
		},
		StreamW: cfg.View.Width,
		StreamH: cfg.View.Height / 2,
	}, func(f playback.Frame) {
		if err := jnl.RecordFrame(journal.FrameRecord{
			RunID:              runID,
			VirtualMs:          f.Clock.VirtualElapsedMs,
			WallTime:           time.Now().UTC(),
			VisibleEvents:      f.Visible,
			Nodes:              len(f.Nodes),
			Edges:              len(f.Edges),
			CumulativeNotional: f.Notional,
		}); err != nil {
			rlog.WithError(err).Warn("record frame")
		}
	})

	fmt.Printf("Replaying %d events over %.0fs at %gx (run %s)\n",
		eventLog.Len(), cfg.Playback.TargetSeconds, cfg.Playback.Speed, runID)

	final := ctrl.Run(playback.NewTickerScheduler(cfg.Playback.FPS))

	if err := jnl.RecordRun(journal.RunRecord{
		RunID:         runID,
		Dataset:       replayDataPath,
		Mode:          mode.String(),
		StartedAt:     started,
		FinishedAt:    time.Now().UTC(),
		Frames:        ctrl.Frames(),
		Events:        eventLog.Len(),
		TotalNotional: final.Notional,
	}); err != nil {
		rlog.WithError(err).Warn("record run")
	}

	fmt.Println(strings.Repeat("-", 40))
	fmt.Printf("Frames:         %d\n", ctrl.Frames())
	fmt.Printf("Visible events: %d\n", final.Visible)
	fmt.Printf("Total notional: $%.0f\n", final.Notional)
	fmt.Printf("Flow nodes:     %d\n", len(final.Nodes))
	fmt.Printf("Flow edges:     %d\n", len(final.Edges))
	fmt.Printf("Stream assets:  %d\n", len(final.Stream.Bands))
	return nil
}

func openJournal(cfg config.JournalConfig) (journal.Journal, error) {
	switch cfg.Type {
	case "csv":
		return journal.NewCSV(cfg.FramesFile, cfg.RunsFile)
	case "sqlite":
		return journal.NewSQLite(cfg.DBPath)
	default:
		return journal.Nop{}, nil
	}
}
