package agent1

import (
	"context"

	"sector-news-agents/internal/dates"
	"sector-news-agents/internal/interfaces"
	"sector-news-agents/internal/logger"
	"sector-news-agents/internal/trace"
	"sector-news-agents/internal/types"
)

const (
	sentimentMin = -4.0
	sentimentMax = 4.0
)

// Mapper turns news items into per-sector sentiment records via a pluggable
// scoring backend (Agent-1).
type Mapper struct {
	prompts PromptConfig
	backend interfaces.ScoringBackend
}

// NewMapper creates a sector mapper. The prompt config is captured once and
// never mutated.
func NewMapper(prompts PromptConfig, backend interfaces.ScoringBackend) *Mapper {
	return &Mapper{prompts: prompts, backend: backend}
}

// MapNews scores a batch of news items against the sector map and returns
// zero or more Agent1Records per story. Records are enriched with the date
// key of their source story and defensively clamped to the sentiment range.
// A story whose ID the backend invents (no matching news item) keeps an empty
// date key and is later excluded from aggregation as unattributable.
func (m *Mapper) MapNews(ctx context.Context, items []types.NewsItem, sectorMap map[string][]string, market string, hints []string) ([]types.Agent1Record, error) {
	ctx, span := trace.StartSpan(ctx, "agent1-map-news")
	defer span.End()

	payload := types.ScoringPayload{
		NewsItems:     items,
		SectorMap:     sectorMap,
		Market:        market,
		OptionalHints: hints,
	}
	if payload.OptionalHints == nil {
		payload.OptionalHints = []string{}
	}

	raw, err := m.backend.ScoreNews(ctx, m.prompts.SystemPrompt, payload, m.prompts.FewShots)
	if err != nil {
		return nil, err
	}

	idToDate := make(map[string]string, len(items))
	for _, n := range items {
		idToDate[n.ID] = dates.DateKey(n.Datetime)
	}

	out := make([]types.Agent1Record, 0, len(raw))
	for _, r := range raw {
		if r.NewsID == "" {
			logger.Warn(ctx, "Skipping backend record without news_id", "sector", r.Sector)
			continue
		}
		out = append(out, types.Agent1Record{
			NewsID:          r.NewsID,
			Sector:          r.Sector,
			Tickers:         r.Tickers,
			SentimentScore:  clamp(r.SentimentScore, sentimentMin, sentimentMax),
			Confidence:      clamp(r.Confidence, 0, 1),
			ImpactHorizon:   r.ImpactHorizon,
			NewsType:        r.NewsType,
			Rationale:       r.Rationale,
			EvidencePhrases: r.EvidencePhrases,
			DateKey:         idToDate[r.NewsID],
		})
	}

	logger.Info(ctx, "Agent-1 mapping completed", "items", len(items), "records", len(out))
	return out, nil
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
