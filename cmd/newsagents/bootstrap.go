package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"sector-news-agents/internal/agent1"
	"sector-news-agents/internal/decisionlog"
	"sector-news-agents/internal/interfaces"
	"sector-news-agents/internal/llm/llmobs"
	"sector-news-agents/internal/llm/mock"
	"sector-news-agents/internal/llm/openai"
	"sector-news-agents/internal/logger"
	"sector-news-agents/internal/moves"
	"sector-news-agents/internal/news"
	"sector-news-agents/internal/store"
	"sector-news-agents/internal/trace"

	"github.com/joho/godotenv"
)

// initializeSystem initializes logger and tracer
func initializeSystem() error {
	// Load environment variables
	_ = godotenv.Load()

	// Initialize logger
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Initialize tracer
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	compressOldLogs()

	return nil
}

// compressOldLogs gzips old audit files if retention is configured
func compressOldLogs() {
	if v := os.Getenv("NEWSAGENTS_LOG_RETENTION_DAYS"); v != "" {
		var n int
		fmt.Sscanf(v, "%d", &n)
		if err := decisionlog.CompressOlder(n); err != nil {
			logger.Warn(context.Background(), "Failed to compress old audit logs", "error", err)
		}
	}
}

// loadConfig loads and returns the configuration. A missing config file falls
// back to defaults so the mock backend works out of the box.
func loadConfig(ctx context.Context) (*store.Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		logger.Warn(ctx, "Config file not found, using defaults", "path", configPath)
		return store.DefaultConfig(), nil
	}
	cfg, err := store.LoadConfig(configPath)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		return nil, err
	}
	return cfg, nil
}

// initializeBackend initializes and returns the scoring backend with observability
func initializeBackend(ctx context.Context, cfg *store.Config) (interfaces.ScoringBackend, error) {
	var backend interfaces.ScoringBackend

	switch cfg.LLM.Backend {
	case "openai":
		b, err := openai.New(cfg)
		if err != nil {
			return nil, err
		}
		backend = b
		logger.Info(ctx, "Using OpenAI scoring backend", "model", cfg.LLM.Model)
	default:
		backend = mock.New()
		logger.Info(ctx, "Using deterministic mock scoring backend")
	}

	// Wrap with observability middleware
	return llmobs.Wrap(backend), nil
}

// loadPrompts returns the prompt configuration, reading few-shot examples
// from the configured file when one is set.
func loadPrompts(ctx context.Context, cfg *store.Config) (agent1.PromptConfig, error) {
	if cfg.LLM.FewShotFile == "" {
		return agent1.DefaultPromptConfig(), nil
	}
	prompts, err := agent1.LoadPromptConfig(cfg.LLM.FewShotFile)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load few-shot file", err, "path", cfg.LLM.FewShotFile)
		return agent1.PromptConfig{}, err
	}
	return prompts, nil
}

// initializeNewsSource builds the retrieval layer for --query runs.
func initializeNewsSource(ctx context.Context, cfg *store.Config) (interfaces.NewsSource, error) {
	switch cfg.News.Source {
	case "RAG":
		timeout := time.Duration(cfg.News.ScrapeSecs) * time.Second
		logger.Info(ctx, "Using RAG news source", "base_url", cfg.News.RagBaseURL)
		return news.NewRagClient(cfg.News.RagBaseURL, cfg.News.RagEndpoint, cfg.News.MinScore, cfg.Market, timeout), nil
	case "SCRAPE":
		timeout := time.Duration(cfg.News.ScrapeSecs) * time.Second
		logger.Info(ctx, "Using web scrape news source")
		return news.NewScraper(cfg.Market, timeout), nil
	default:
		return nil, fmt.Errorf("news.source is '%s'; pass --news with a file instead of --query", cfg.News.Source)
	}
}

// initializeMoveSource builds the next-day move provider. movesFile overrides
// the configured source; NONE returns nil and calibration is skipped.
func initializeMoveSource(ctx context.Context, cfg *store.Config, movesFile string) (interfaces.MoveSource, error) {
	if movesFile != "" {
		return moves.LoadFileSource(movesFile)
	}

	switch cfg.Moves.Source {
	case "FILE":
		return nil, fmt.Errorf("moves.source is 'FILE' but no --moves file given")
	case "KITE":
		src, err := moves.NewKiteSource(
			os.Getenv("KITE_API_KEY"),
			os.Getenv("KITE_ACCESS_TOKEN"),
			cfg.Moves.SectorTokens,
		)
		if err != nil {
			return nil, err
		}
		logger.Info(ctx, "Using Kite next-day move source",
			"exchange", cfg.Moves.Exchange,
			"sectors", len(cfg.Moves.SectorTokens))
		return src, nil
	default:
		logger.Info(ctx, "No next-day move source configured, calibration will be skipped")
		return nil, nil
	}
}

// writeJSON writes v as indented JSON, creating parent directories as needed.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
