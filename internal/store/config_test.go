package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `market: IN`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.LLM.Backend != "mock" {
		t.Errorf("Expected default backend mock, got %s", cfg.LLM.Backend)
	}
	if cfg.LLM.Model != "gpt-4o-mini" {
		t.Errorf("Expected default model gpt-4o-mini, got %s", cfg.LLM.Model)
	}
	if cfg.LLM.Temperature != 0.2 {
		t.Errorf("Expected default temperature 0.2, got %v", cfg.LLM.Temperature)
	}
	if cfg.Decision.UpThreshold != 0.8 || cfg.Decision.DownThreshold != -0.8 {
		t.Errorf("Expected default thresholds 0.8/-0.8, got %v/%v",
			cfg.Decision.UpThreshold, cfg.Decision.DownThreshold)
	}
	if cfg.Decision.MinConsensus != 0.6 {
		t.Errorf("Expected default min consensus 0.6, got %v", cfg.Decision.MinConsensus)
	}
	if cfg.News.Source != "FILE" {
		t.Errorf("Expected default news source FILE, got %s", cfg.News.Source)
	}
	if cfg.News.RagEndpoint != "/search/cosine/embedding1155d/" {
		t.Errorf("Expected default rag endpoint, got %s", cfg.News.RagEndpoint)
	}
	if cfg.News.MinScore != 0.5 || cfg.News.TopK != 25 {
		t.Errorf("Expected default min_score 0.5 / top_k 25, got %v / %d",
			cfg.News.MinScore, cfg.News.TopK)
	}
	if cfg.Moves.Source != "NONE" {
		t.Errorf("Expected default moves source NONE, got %s", cfg.Moves.Source)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
market: IN
llm:
  backend: openai
  model: gpt-4o
  temperature: 0.1
decision:
  up_threshold: 1.0
  down_threshold: -1.2
  min_consensus: 0.7
news:
  source: RAG
  rag_base_url: http://localhost:9200
moves:
  source: KITE
  sector_tokens:
    Telecom: 2714625
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.LLM.Backend != "openai" || cfg.LLM.Model != "gpt-4o" {
		t.Errorf("Expected overridden LLM config, got %s/%s", cfg.LLM.Backend, cfg.LLM.Model)
	}
	if cfg.Decision.DownThreshold != -1.2 {
		t.Errorf("Expected down threshold -1.2, got %v", cfg.Decision.DownThreshold)
	}
	if cfg.Moves.SectorTokens["Telecom"] != 2714625 {
		t.Errorf("Expected sector token map, got %v", cfg.Moves.SectorTokens)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	cases := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "bad backend",
			yaml:    "llm:\n  backend: claude\n",
			wantErr: "llm.backend",
		},
		{
			name:    "positive down threshold",
			yaml:    "decision:\n  down_threshold: 0.5\n",
			wantErr: "down_threshold",
		},
		{
			name:    "consensus out of range",
			yaml:    "decision:\n  min_consensus: 1.5\n",
			wantErr: "min_consensus",
		},
		{
			name:    "bad news source",
			yaml:    "news:\n  source: TWITTER\n",
			wantErr: "news.source",
		},
		{
			name:    "rag without base url",
			yaml:    "news:\n  source: RAG\n",
			wantErr: "rag_base_url",
		},
		{
			name:    "kite without tokens",
			yaml:    "moves:\n  source: KITE\n",
			wantErr: "sector_tokens",
		},
	}

	for _, tc := range cases {
		path := writeConfig(t, tc.yaml)
		_, err := LoadConfig(path)
		if err == nil {
			t.Errorf("%s: expected validation error", tc.name)
			continue
		}
		if !strings.Contains(err.Error(), tc.wantErr) {
			t.Errorf("%s: expected error mentioning %q, got %v", tc.name, tc.wantErr, err)
		}
	}
}

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected default config to validate, got %v", err)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}
