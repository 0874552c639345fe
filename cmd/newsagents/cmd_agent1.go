package main

import (
	"context"
	"fmt"

	"sector-news-agents/internal/agent1"
	"sector-news-agents/internal/logger"
	"sector-news-agents/internal/news"
	"sector-news-agents/internal/store"
	"sector-news-agents/internal/types"

	"github.com/spf13/cobra"
)

var (
	a1NewsFile  string
	a1Query     string
	a1SectorMap string
	a1Hints     []string
	a1Limit     int
	a1Out       string
)

var agent1Cmd = &cobra.Command{
	Use:   "agent1-run",
	Short: "Score a news batch into per-sector sentiment records",
	Long: `Run the sector sentiment mapper over a batch of news items.

The batch comes from a JSON file (--news) or from the configured retrieval
layer (--query with news.source RAG or SCRAPE). Each story yields zero or
more (story, sector) records with sentiment, confidence and evidence.

Examples:
  newsagents agent1-run --news data/news.json --sector-map data/sectors.json
  newsagents agent1-run --query "telecom spectrum" --sector-map data/sectors.json`,
	RunE: runAgent1,
}

func init() {
	rootCmd.AddCommand(agent1Cmd)

	agent1Cmd.Flags().StringVar(&a1NewsFile, "news", "", "Path to news items JSON file")
	agent1Cmd.Flags().StringVar(&a1Query, "query", "", "Retrieval query (uses configured news source)")
	agent1Cmd.Flags().StringVar(&a1SectorMap, "sector-map", "", "Path to sector to tickers JSON map")
	agent1Cmd.Flags().StringSliceVar(&a1Hints, "hint", nil, "Optional scoring hint, repeatable")
	agent1Cmd.Flags().IntVar(&a1Limit, "limit", 0, "Max items to retrieve with --query (0 = config top_k)")
	agent1Cmd.Flags().StringVar(&a1Out, "out", "out/agent1_records.json", "Output path for records")

	_ = agent1Cmd.MarkFlagRequired("sector-map")
}

func runAgent1(cmd *cobra.Command, args []string) error {
	if err := initializeSystem(); err != nil {
		return err
	}
	ctx := context.Background()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	sectorMap, err := news.LoadSectorMap(a1SectorMap)
	if err != nil {
		return fmt.Errorf("failed to load sector map: %w", err)
	}

	items, err := collectNewsItems(ctx, cfg)
	if err != nil {
		return err
	}
	logger.Info(ctx, "News batch ready", "items", len(items))

	backend, err := initializeBackend(ctx, cfg)
	if err != nil {
		return err
	}
	prompts, err := loadPrompts(ctx, cfg)
	if err != nil {
		return err
	}

	mapper := agent1.NewMapper(prompts, backend)
	records, err := mapper.MapNews(ctx, items, sectorMap, cfg.Market, a1Hints)
	if err != nil {
		return err
	}

	if err := writeJSON(a1Out, records); err != nil {
		return err
	}
	logger.Info(ctx, "Agent-1 records written", "path", a1Out, "records", len(records))
	return nil
}

func collectNewsItems(ctx context.Context, cfg *store.Config) ([]types.NewsItem, error) {
	switch {
	case a1NewsFile != "":
		return news.LoadNewsItems(a1NewsFile)
	case a1Query != "":
		src, err := initializeNewsSource(ctx, cfg)
		if err != nil {
			return nil, err
		}
		limit := a1Limit
		if limit <= 0 {
			limit = cfg.News.TopK
		}
		return src.FetchNews(ctx, a1Query, limit)
	default:
		return nil, fmt.Errorf("either --news or --query is required")
	}
}
