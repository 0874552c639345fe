package main

import (
	"context"
	"time"

	"sector-news-agents/internal/logger"
	"sector-news-agents/internal/report"

	"github.com/spf13/cobra"
)

var reportDate string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize a day's decisions into a CSV report",
	Long: `Roll the decision audit log for one day up into a per-target CSV:
call counts, label distribution and mean confidence.

Examples:
  newsagents report
  newsagents report --date 2025-09-26`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVar(&reportDate, "date", "", "Day to summarize, YYYY-MM-DD (default today)")
}

func runReport(cmd *cobra.Command, args []string) error {
	if err := initializeSystem(); err != nil {
		return err
	}
	ctx := context.Background()

	day := time.Now().UTC()
	if reportDate != "" {
		parsed, err := time.Parse("2006-01-02", reportDate)
		if err != nil {
			return err
		}
		day = parsed
	}

	path, err := report.SummarizeDay(day)
	if err != nil {
		return err
	}
	if path == "" {
		logger.Info(ctx, "No decisions recorded for day", "date", day.Format("2006-01-02"))
		return nil
	}
	logger.Info(ctx, "Decision report written", "path", path)
	return nil
}
