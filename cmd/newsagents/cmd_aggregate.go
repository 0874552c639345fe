package main

import (
	"context"
	"fmt"

	"sector-news-agents/internal/agent1"
	"sector-news-agents/internal/decisionlog"
	"sector-news-agents/internal/logger"
	"sector-news-agents/internal/news"
	"sector-news-agents/internal/report"
	"sector-news-agents/internal/types"

	"github.com/spf13/cobra"
)

var (
	aggRecordsFile string
	aggMovesFile   string
	aggOut         string
	aggSummaryOut  string
	aggCSVOut      string
)

var aggregateCmd = &cobra.Command{
	Use:   "agent1-aggregate",
	Short: "Aggregate records per (sector, date) and calibrate against next-day moves",
	Long: `Group Agent-1 records by sector and calendar date, compute attribution
weights and a day score per group, calibrate the day score against the
next-day price move when one is available, then redistribute the calibrated
score back onto each record as adjusted sentiment.

Examples:
  newsagents agent1-aggregate --records out/agent1_records.json
  newsagents agent1-aggregate --records out/agent1_records.json --moves data/moves.json`,
	RunE: runAggregate,
}

func init() {
	rootCmd.AddCommand(aggregateCmd)

	aggregateCmd.Flags().StringVar(&aggRecordsFile, "records", "", "Path to Agent-1 records JSON")
	aggregateCmd.Flags().StringVar(&aggMovesFile, "moves", "", "Path to next-day move JSON file")
	aggregateCmd.Flags().StringVar(&aggOut, "out", "out/adjusted_records.json", "Output path for adjusted records")
	aggregateCmd.Flags().StringVar(&aggSummaryOut, "summary", "out/day_aggregates.json", "Output path for day aggregates")
	aggregateCmd.Flags().StringVar(&aggCSVOut, "csv", "", "Optional CSV report path for day aggregates")

	_ = aggregateCmd.MarkFlagRequired("records")
}

func runAggregate(cmd *cobra.Command, args []string) error {
	if err := initializeSystem(); err != nil {
		return err
	}
	ctx := context.Background()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	records, err := news.LoadAgent1Records(aggRecordsFile)
	if err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}

	moveSrc, err := initializeMoveSource(ctx, cfg, aggMovesFile)
	if err != nil {
		return err
	}

	var nextDay map[types.GroupKey]float64
	if moveSrc != nil {
		nextDay, err = moveSrc.NextDayMoves(ctx, groupKeys(records))
		if err != nil {
			return err
		}
	}

	op := logger.StartOperation(ctx, "same_day_aggregation",
		"records", len(records),
		"moves", len(nextDay))
	aggregates := agent1.ProcessBatch(op.GetContext(), records, nextDay)

	adjusted := make([]types.Agent1Record, 0, len(records))
	for _, agg := range aggregates {
		adjusted = append(adjusted, agg.Records...)
	}
	op.End("groups", len(aggregates))

	if err := writeJSON(aggOut, adjusted); err != nil {
		return err
	}
	if err := writeJSON(aggSummaryOut, aggregates); err != nil {
		return err
	}
	if aggCSVOut != "" {
		if err := report.WriteAggregatesCSV(aggCSVOut, aggregates); err != nil {
			return err
		}
	}
	for _, agg := range aggregates {
		_ = decisionlog.AppendCalibration(decisionlog.CalibrationEntry{
			Sector:          agg.Sector,
			DateKey:         agg.DateKey,
			DayScoreRaw:     agg.DayScoreRaw,
			DayScoreAdj:     agg.DayScoreCalibrated,
			NextDayPct:      agg.CalibrationBasisPct,
			CalibrationNote: agg.CalibrationNote,
		})
	}
	logger.Info(ctx, "Aggregation complete",
		"groups", len(aggregates),
		"records_out", aggOut,
		"summary_out", aggSummaryOut)
	return nil
}

func groupKeys(records []types.Agent1Record) []types.GroupKey {
	seen := make(map[types.GroupKey]bool)
	keys := make([]types.GroupKey, 0)
	for _, r := range records {
		if r.Sector == "" || r.DateKey == "" {
			continue
		}
		k := types.GroupKey{Sector: r.Sector, DateKey: r.DateKey}
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	return keys
}
