package main

import (
	"context"
	"encoding/json"
	"fmt"

	"sector-news-agents/internal/agent2"
	"sector-news-agents/internal/decisionlog"
	"sector-news-agents/internal/logger"
	"sector-news-agents/internal/news"
	"sector-news-agents/internal/types"

	"github.com/spf13/cobra"
)

var (
	decRecordsFile string
	decSector      string
	decTickers     []string
	decStart       string
	decEnd         string
	decOut         string
)

var decideCmd = &cobra.Command{
	Use:   "agent2-decide",
	Short: "Turn adjusted records into an UP / DOWN / NO_IMPACT call",
	Long: `Run the decision engine over a set of Agent-1 records, optionally scoped
to one sector, an explicit ticker set, or a date range.

Examples:
  newsagents agent2-decide --records out/adjusted_records.json --sector Telecom
  newsagents agent2-decide --records out/adjusted_records.json --ticker BHARTIARTL.NS
  newsagents agent2-decide --records out/adjusted_records.json --start 2025-01-01 --end 2025-01-31`,
	RunE: runDecide,
}

func init() {
	rootCmd.AddCommand(decideCmd)

	decideCmd.Flags().StringVar(&decRecordsFile, "records", "", "Path to Agent-1 records JSON")
	decideCmd.Flags().StringVar(&decSector, "sector", "", "Scope to one sector")
	decideCmd.Flags().StringSliceVar(&decTickers, "ticker", nil, "Scope to tickers, repeatable")
	decideCmd.Flags().StringVar(&decStart, "start", "", "Inclusive start date YYYY-MM-DD")
	decideCmd.Flags().StringVar(&decEnd, "end", "", "Inclusive end date YYYY-MM-DD")
	decideCmd.Flags().StringVar(&decOut, "out", "", "Optional output path; prints to stdout when empty")

	_ = decideCmd.MarkFlagRequired("records")
}

func runDecide(cmd *cobra.Command, args []string) error {
	if err := initializeSystem(); err != nil {
		return err
	}
	ctx := context.Background()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	records, err := news.LoadAgent1Records(decRecordsFile)
	if err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}

	scoped := records
	if decSector != "" {
		scoped = agent2.FilterBySector(scoped, decSector)
	}
	if len(decTickers) > 0 {
		scoped = agent2.FilterByTickers(scoped, decTickers)
	}
	if decStart != "" || decEnd != "" {
		scoped = agent2.FilterByDateRange(scoped, decStart, decEnd)
	}

	th := agent2.Thresholds{
		Up:           cfg.Decision.UpThreshold,
		Down:         cfg.Decision.DownThreshold,
		MinConsensus: cfg.Decision.MinConsensus,
	}

	decision := agent2.Decide(ctx, scoped, th)
	decision.Target = decisionTarget()

	logger.Decision(ctx, targetName(decision.Target), decision.Label,
		decision.WeightedMean, decision.Consensus, decision.Confidence,
		"records_in_scope", len(scoped))
	_ = decisionlog.AppendDecision(decisionlog.DecisionEntry{
		Target:       targetName(decision.Target),
		Label:        decision.Label,
		WeightedMean: decision.WeightedMean,
		Consensus:    decision.Consensus,
		Confidence:   decision.Confidence,
		TopSignals:   decision.TopSignals,
		Extra:        map[string]any{"records_in_scope": len(scoped)},
	})

	if decOut != "" {
		return writeJSON(decOut, decision)
	}
	out, err := json.MarshalIndent(decision, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func decisionTarget() *types.Target {
	switch {
	case len(decTickers) > 0:
		name := decTickers[0]
		if len(decTickers) > 1 {
			name = fmt.Sprintf("%s+%d", decTickers[0], len(decTickers)-1)
		}
		return &types.Target{Level: "ticker", Name: name, Tickers: decTickers}
	case decSector != "":
		return &types.Target{Level: "sector", Name: decSector}
	default:
		return &types.Target{Level: "sector", Name: "ALL"}
	}
}

func targetName(t *types.Target) string {
	if t == nil {
		return "ALL"
	}
	return t.Name
}
