package moves

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"sector-news-agents/internal/interfaces"
	"sector-news-agents/internal/types"
)

// FileSource serves next-day moves from a JSON object keyed as
// "(SectorName,YYYY-MM-DD)" with float percentage values.
type FileSource struct {
	moves map[types.GroupKey]float64
}

var _ interfaces.MoveSource = (*FileSource)(nil)

// LoadFileSource parses a next-day move file. A malformed file or key is a
// configuration error, fatal to the run.
func LoadFileSource(path string) (*FileSource, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw map[string]float64
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("parse next-day move file %s: %w", path, err)
	}

	moves := make(map[types.GroupKey]float64, len(raw))
	for k, v := range raw {
		key, err := parseGroupKey(k)
		if err != nil {
			return nil, fmt.Errorf("next-day move file %s: %w", path, err)
		}
		moves[key] = v
	}
	return &FileSource{moves: moves}, nil
}

// NextDayMoves returns the subset of requested groups present in the file.
func (s *FileSource) NextDayMoves(ctx context.Context, groups []types.GroupKey) (map[types.GroupKey]float64, error) {
	out := make(map[types.GroupKey]float64)
	for _, g := range groups {
		if pct, ok := s.moves[g]; ok {
			out[g] = pct
		}
	}
	return out, nil
}

// All returns every move in the file, for callers that aggregate before they
// know which groups exist.
func (s *FileSource) All() map[types.GroupKey]float64 {
	out := make(map[types.GroupKey]float64, len(s.moves))
	for k, v := range s.moves {
		out[k] = v
	}
	return out
}

func parseGroupKey(k string) (types.GroupKey, error) {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(k, "("), ")")
	parts := strings.SplitN(trimmed, ",", 2)
	if len(parts) != 2 {
		return types.GroupKey{}, fmt.Errorf("invalid group key %q: want \"(Sector,YYYY-MM-DD)\"", k)
	}
	sector := strings.TrimSpace(parts[0])
	dateKey := strings.TrimSpace(parts[1])
	if sector == "" || len(dateKey) != 10 {
		return types.GroupKey{}, fmt.Errorf("invalid group key %q: want \"(Sector,YYYY-MM-DD)\"", k)
	}
	return types.GroupKey{Sector: sector, DateKey: dateKey}, nil
}
