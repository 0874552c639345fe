package interfaces

import (
	"context"

	"sector-news-agents/internal/types"
)

// ScoringBackend scores a batch of news items against a sector map. Backends
// must keep sentiment scores within [-4, 4] and must not fail the whole batch
// on a malformed item: data-level trouble degrades to fewer records, not an
// error. Errors are reserved for configuration problems.
type ScoringBackend interface {
	ScoreNews(ctx context.Context, systemPrompt string, payload types.ScoringPayload, fewShots []types.FewShot) ([]types.RawRecord, error)
}
