package store

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Market string `yaml:"market"`
	LLM    struct {
		Backend     string  `yaml:"backend"`
		Model       string  `yaml:"model"`
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float32 `yaml:"temperature"`
		TimeoutSecs int     `yaml:"timeout_seconds"`
		FewShotFile string  `yaml:"few_shot_file"`
	} `yaml:"llm"`
	Decision struct {
		UpThreshold   float64 `yaml:"up_threshold"`
		DownThreshold float64 `yaml:"down_threshold"`
		MinConsensus  float64 `yaml:"min_consensus"`
	} `yaml:"decision"`
	News struct {
		Source      string `yaml:"source"`
		RagBaseURL  string `yaml:"rag_base_url"`
		RagEndpoint string `yaml:"rag_endpoint"`
		TopK        int    `yaml:"top_k"`
		MinScore    float64 `yaml:"min_score"`
		ScrapeSecs  int    `yaml:"scrape_timeout_seconds"`
	} `yaml:"news"`
	Moves struct {
		Source       string         `yaml:"source"`
		Exchange     string         `yaml:"exchange"`
		SectorTokens map[string]int `yaml:"sector_tokens"`
	} `yaml:"moves"`
}

func (c *Config) Validate() error {
	if c.LLM.Backend != "mock" && c.LLM.Backend != "openai" {
		return fmt.Errorf("invalid llm.backend '%s': must be 'mock' or 'openai'", c.LLM.Backend)
	}
	if c.Decision.UpThreshold <= 0 {
		return fmt.Errorf("decision.up_threshold must be positive, got %.2f", c.Decision.UpThreshold)
	}
	if c.Decision.DownThreshold >= 0 {
		return fmt.Errorf("decision.down_threshold must be negative, got %.2f", c.Decision.DownThreshold)
	}
	if c.Decision.MinConsensus < 0 || c.Decision.MinConsensus > 1 {
		return fmt.Errorf("decision.min_consensus must be between 0-1, got %.2f", c.Decision.MinConsensus)
	}
	switch c.News.Source {
	case "FILE", "RAG", "SCRAPE":
	default:
		return fmt.Errorf("news.source must be 'FILE', 'RAG', or 'SCRAPE', got '%s'", c.News.Source)
	}
	switch c.Moves.Source {
	case "NONE", "FILE", "KITE":
	default:
		return fmt.Errorf("moves.source must be 'NONE', 'FILE', or 'KITE', got '%s'", c.Moves.Source)
	}
	if c.News.Source == "RAG" && c.News.RagBaseURL == "" {
		return errors.New("news.rag_base_url cannot be empty when news.source is 'RAG'")
	}
	if c.Moves.Source == "KITE" && len(c.Moves.SectorTokens) == 0 {
		return errors.New("moves.sector_tokens cannot be empty when moves.source is 'KITE'")
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	applyDefaults(&c)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}

// DefaultConfig returns a config with every default applied, for callers that
// run without a config file.
func DefaultConfig() *Config {
	var c Config
	applyDefaults(&c)
	return &c
}

func applyDefaults(c *Config) {
	if c.Market == "" {
		c.Market = "IN"
	}
	if c.LLM.Backend == "" {
		c.LLM.Backend = "mock"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-4o-mini"
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 1200
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.2
	}
	if c.LLM.TimeoutSecs == 0 {
		c.LLM.TimeoutSecs = 30
	}
	if c.Decision.UpThreshold == 0 {
		c.Decision.UpThreshold = 0.8
	}
	if c.Decision.DownThreshold == 0 {
		c.Decision.DownThreshold = -0.8
	}
	if c.Decision.MinConsensus == 0 {
		c.Decision.MinConsensus = 0.6
	}
	if c.News.Source == "" {
		c.News.Source = "FILE"
	}
	if c.News.RagEndpoint == "" {
		c.News.RagEndpoint = "/search/cosine/embedding1155d/"
	}
	if c.News.TopK == 0 {
		c.News.TopK = 25
	}
	if c.News.MinScore == 0 {
		c.News.MinScore = 0.5
	}
	if c.News.ScrapeSecs == 0 {
		c.News.ScrapeSecs = 30
	}
	if c.Moves.Source == "" {
		c.Moves.Source = "NONE"
	}
	if c.Moves.Exchange == "" {
		c.Moves.Exchange = "NSE"
	}
}
