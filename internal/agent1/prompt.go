package agent1

import (
	"encoding/json"
	"fmt"
	"os"

	"sector-news-agents/internal/types"
)

// systemPrompt steers the scoring backend toward the raw-record JSON contract.
const systemPrompt = `You are the Sector/Ticker Sentiment Mapper.
Objective: From news summaries, output sector/ticker targets with price-impact sentiment_score in [-4.0, +4.0].
Inputs: news_items, sector_map, market, optional_hints.
Rules: One record per impacted sector/ticker; evidence phrases (1-4); near-neutral if unclear.
Output: JSON array only (no markdown).

Guidelines:
- sentiment_score: -4.0 (extremely negative) to +4.0 (extremely positive)
- confidence: 0.0 (no confidence) to 1.0 (complete confidence)
- impact_horizon: intraday, short_term(1-4w), medium_term(1-3m), long_term(3m+)
- news_type: regulatory, earnings, corporate, macro, sector, supplychain, policy, legal, etc.
- rationale: 1-2 sentence explanation of the price impact
- evidence_phrases: 1-4 key phrases from the news that support your analysis
`

// defaultFewShotJSON is the built-in worked example used when no few-shot file
// is configured.
const defaultFewShotJSON = `[
  {
    "input": {
      "news_items": [
        {
          "id": "N_TEL_1",
          "headline": "TRAI trims 5G spectrum reserve prices by 18%",
          "summary": "Regulator recommends an 18% cut to 5G spectrum reserve prices.",
          "datetime": "2025-09-26T10:15:00Z",
          "source": "Economic Daily",
          "region": "IN"
        }
      ],
      "sector_map": {"Telecom": ["BHARTIARTL.NS", "RELIANCE.NS"]},
      "market": "IN",
      "optional_hints": []
    },
    "output": [
      {
        "news_id": "N_TEL_1",
        "sector": "Telecom",
        "tickers": ["BHARTIARTL.NS", "RELIANCE.NS"],
        "sentiment_score": 2.6,
        "confidence": 0.78,
        "impact_horizon": "short_term(1-4w)",
        "news_type": "regulatory",
        "rationale": "Lower spectrum costs improve 5G ROI and margins.",
        "evidence_phrases": ["18% cut", "reserve prices"]
      }
    ]
  }
]`

// PromptConfig carries the scoring prompt and few-shot examples. Built once
// at process start and treated as immutable afterwards.
type PromptConfig struct {
	SystemPrompt string
	FewShots     []types.FewShot
}

// DefaultPromptConfig returns the built-in prompt with its single inline
// few-shot example.
func DefaultPromptConfig() PromptConfig {
	var shots []types.FewShot
	// The constant is known-good JSON.
	_ = json.Unmarshal([]byte(defaultFewShotJSON), &shots)
	return PromptConfig{
		SystemPrompt: systemPrompt,
		FewShots:     shots,
	}
}

// LoadPromptConfig reads few-shot examples from a JSON file, falling back to
// the built-in example when path is empty.
func LoadPromptConfig(path string) (PromptConfig, error) {
	if path == "" {
		return DefaultPromptConfig(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return PromptConfig{}, fmt.Errorf("read few-shot file: %w", err)
	}
	var shots []types.FewShot
	if err := json.Unmarshal(b, &shots); err != nil {
		return PromptConfig{}, fmt.Errorf("parse few-shot file %s: %w", path, err)
	}
	return PromptConfig{SystemPrompt: systemPrompt, FewShots: shots}, nil
}
