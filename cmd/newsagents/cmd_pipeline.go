package main

import (
	"context"
	"fmt"
	"path/filepath"

	"sector-news-agents/internal/agent1"
	"sector-news-agents/internal/decisionlog"
	"sector-news-agents/internal/interfaces"
	"sector-news-agents/internal/logger"
	"sector-news-agents/internal/news"
	"sector-news-agents/internal/pipeline"
	"sector-news-agents/internal/report"
	"sector-news-agents/internal/types"

	"github.com/spf13/cobra"
)

var (
	plNewsFile  string
	plQuery     string
	plSectorMap string
	plHints     []string
	plMovesFile string
	plOutDir    string
)

var pipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Run mapper, aggregator and decision engine end to end",
	Long: `Run the full pipeline over one news batch: Agent-1 scoring, same-day
aggregation with next-day calibration, then one decision per sector seen
in the batch. All intermediate artifacts are written to the output directory.

Examples:
  newsagents pipeline --news data/news.json --sector-map data/sectors.json
  newsagents pipeline --query "banking npa" --sector-map data/sectors.json --moves data/moves.json`,
	RunE: runPipeline,
}

func init() {
	rootCmd.AddCommand(pipelineCmd)

	pipelineCmd.Flags().StringVar(&plNewsFile, "news", "", "Path to news items JSON file")
	pipelineCmd.Flags().StringVar(&plQuery, "query", "", "Retrieval query (uses configured news source)")
	pipelineCmd.Flags().StringVar(&plSectorMap, "sector-map", "", "Path to sector to tickers JSON map")
	pipelineCmd.Flags().StringSliceVar(&plHints, "hint", nil, "Optional scoring hint, repeatable")
	pipelineCmd.Flags().StringVar(&plMovesFile, "moves", "", "Path to next-day move JSON file")
	pipelineCmd.Flags().StringVar(&plOutDir, "out", "out", "Output directory")

	_ = pipelineCmd.MarkFlagRequired("sector-map")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	if err := initializeSystem(); err != nil {
		return err
	}
	ctx := context.Background()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	sectorMap, err := news.LoadSectorMap(plSectorMap)
	if err != nil {
		return fmt.Errorf("failed to load sector map: %w", err)
	}

	var items []types.NewsItem
	switch {
	case plNewsFile != "":
		items, err = news.LoadNewsItems(plNewsFile)
	case plQuery != "":
		var src interfaces.NewsSource
		src, err = initializeNewsSource(ctx, cfg)
		if err == nil {
			items, err = src.FetchNews(ctx, plQuery, cfg.News.TopK)
		}
	default:
		return fmt.Errorf("either --news or --query is required")
	}
	if err != nil {
		return err
	}

	backend, err := initializeBackend(ctx, cfg)
	if err != nil {
		return err
	}
	prompts, err := loadPrompts(ctx, cfg)
	if err != nil {
		return err
	}
	moveSrc, err := initializeMoveSource(ctx, cfg, plMovesFile)
	if err != nil {
		return err
	}

	p := pipeline.New(cfg, agent1.NewMapper(prompts, backend), moveSrc)
	result, err := p.Run(ctx, items, sectorMap, plHints, nil)
	if err != nil {
		return err
	}

	if err := writeJSON(filepath.Join(plOutDir, "adjusted_records.json"), result.Records); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(plOutDir, "day_aggregates.json"), result.Aggregates); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(plOutDir, "decisions.json"), result.Decisions); err != nil {
		return err
	}
	if err := report.WriteAggregatesCSV(filepath.Join(plOutDir, "day_aggregates.csv"), result.Aggregates); err != nil {
		return err
	}
	for _, d := range result.Decisions {
		_ = decisionlog.AppendDecision(decisionlog.DecisionEntry{
			Target:       targetName(d.Target),
			Label:        d.Label,
			WeightedMean: d.WeightedMean,
			Consensus:    d.Consensus,
			Confidence:   d.Confidence,
			TopSignals:   d.TopSignals,
		})
	}

	logger.Info(ctx, "Pipeline complete",
		"records", len(result.Records),
		"groups", len(result.Aggregates),
		"decisions", len(result.Decisions),
		"out_dir", plOutDir)
	return nil
}
