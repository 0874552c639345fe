package interfaces

import (
	"context"

	"sector-news-agents/internal/types"
)

// NewsSource fetches news items for a free-text query (a sector name or a
// search phrase). Implementations set DateKey on every returned item.
type NewsSource interface {
	FetchNews(ctx context.Context, query string, limit int) ([]types.NewsItem, error)
}

// MoveSource resolves observed next-day percentage price moves for aggregation
// groups. Groups with no observable move are simply absent from the result;
// that is not an error.
type MoveSource interface {
	NextDayMoves(ctx context.Context, groups []types.GroupKey) (map[types.GroupKey]float64, error)
}
