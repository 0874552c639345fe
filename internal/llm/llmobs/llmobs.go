package llmobs

import (
	"context"

	"sector-news-agents/internal/interfaces"
	"sector-news-agents/internal/logger"
	"sector-news-agents/internal/trace"
	"sector-news-agents/internal/types"
)

// observableBackend wraps a ScoringBackend with observability (logging & tracing)
type observableBackend struct {
	backend interfaces.ScoringBackend
}

// Compile-time interface check
var _ interfaces.ScoringBackend = (*observableBackend)(nil)

// Wrap wraps a scoring backend with observability middleware
func Wrap(backend interfaces.ScoringBackend) interfaces.ScoringBackend {
	return &observableBackend{
		backend: backend,
	}
}

func (ob *observableBackend) ScoreNews(
	ctx context.Context,
	systemPrompt string,
	payload types.ScoringPayload,
	fewShots []types.FewShot,
) ([]types.RawRecord, error) {
	ctx, span := trace.StartSpan(ctx, "llm.ScoreNews")
	defer span.End()

	// Skip(1) so the log reports the actual caller, not this middleware
	logger.DebugSkip(ctx, 1, "Requesting news scoring",
		"items", len(payload.NewsItems),
		"sectors", len(payload.SectorMap),
		"market", payload.Market,
	)

	records, err := ob.backend.ScoreNews(ctx, systemPrompt, payload, fewShots)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to score news batch", err,
			"items", len(payload.NewsItems),
		)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "News batch scored",
		"items", len(payload.NewsItems),
		"records", len(records),
	)

	return records, nil
}
