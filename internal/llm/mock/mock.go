package mock

import (
	"context"

	"sector-news-agents/internal/interfaces"
	"sector-news-agents/internal/logger"
	"sector-news-agents/internal/types"
)

// Backend is a deterministic scoring backend used for reproducible runs and
// tests. Known fixture news IDs map to canned records; anything else yields a
// neutral fallback so the pipeline always has one record per story.
type Backend struct{}

var _ interfaces.ScoringBackend = (*Backend)(nil)

func New() *Backend {
	return &Backend{}
}

// canned holds the fixture verdicts keyed by news ID.
var canned = map[string]types.RawRecord{
	"N_te_1": {
		Sector:          "Telecom",
		Tickers:         []string{"BHARTIARTL.NS", "RELIANCE.NS"},
		SentimentScore:  2.6,
		Confidence:      0.78,
		ImpactHorizon:   "short_term(1-4w)",
		NewsType:        "regulatory",
		Rationale:       "Lower spectrum costs.",
		EvidencePhrases: []string{"18% cut", "reserve prices"},
	},
	"N_te_2": {
		Sector:          "Telecom",
		Tickers:         []string{"BHARTIARTL.NS"},
		SentimentScore:  -0.5,
		Confidence:      0.55,
		ImpactHorizon:   "intraday",
		NewsType:        "legal",
		Rationale:       "Minor hearing.",
		EvidencePhrases: []string{"hearing"},
	},
	"N_te_3": {
		Sector:          "Telecom",
		Tickers:         []string{},
		SentimentScore:  -0.9,
		Confidence:      0.6,
		ImpactHorizon:   "intraday",
		NewsType:        "company",
		Rationale:       "Temporary outage.",
		EvidencePhrases: []string{"outage", "restored"},
	},
}

// ScoreNews returns one record per input item: the canned verdict for known
// fixture IDs, a neutral low-confidence record otherwise.
func (b *Backend) ScoreNews(ctx context.Context, systemPrompt string, payload types.ScoringPayload, fewShots []types.FewShot) ([]types.RawRecord, error) {
	out := make([]types.RawRecord, 0, len(payload.NewsItems))
	for _, item := range payload.NewsItems {
		if rec, ok := canned[item.ID]; ok {
			rec.NewsID = item.ID
			out = append(out, rec)
			continue
		}
		out = append(out, types.RawRecord{
			NewsID:          item.ID,
			Sector:          "Unknown",
			Tickers:         []string{},
			SentimentScore:  0.0,
			Confidence:      0.2,
			ImpactHorizon:   "intraday",
			NewsType:        "macro",
			Rationale:       "Insufficient info.",
			EvidencePhrases: []string{},
		})
	}
	logger.Debug(ctx, "Mock backend scored batch", "items", len(payload.NewsItems), "records", len(out))
	return out, nil
}
