package news

import (
	"encoding/json"
	"fmt"
	"os"

	"sector-news-agents/internal/dates"
	"sector-news-agents/internal/types"
)

// LoadNewsItems reads a JSON array of news items and validates each one at
// the boundary: a non-empty id and a parseable ISO-8601 datetime are
// required. The derived date key is attached here, once.
func LoadNewsItems(path string) ([]types.NewsItem, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var items []types.NewsItem
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("parse news file %s: %w", path, err)
	}
	for i := range items {
		if err := validateItem(&items[i]); err != nil {
			return nil, fmt.Errorf("news file %s item %d: %w", path, i, err)
		}
	}
	return items, nil
}

func validateItem(n *types.NewsItem) error {
	if n.ID == "" {
		return fmt.Errorf("missing id")
	}
	if _, err := dates.ParseISO(n.Datetime); err != nil {
		return fmt.Errorf("item %s: unparseable datetime %q: %w", n.ID, n.Datetime, err)
	}
	n.DateKey = dates.DateKey(n.Datetime)
	return nil
}

// LoadSectorMap reads a {sector: [tickers]} JSON object. A malformed sector
// map is a configuration error, fatal to the run.
func LoadSectorMap(path string) (map[string][]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m map[string][]string
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse sector map %s: %w", path, err)
	}
	if len(m) == 0 {
		return nil, fmt.Errorf("sector map %s is empty", path)
	}
	for sector := range m {
		if sector == "" {
			return nil, fmt.Errorf("sector map %s contains an empty sector name", path)
		}
	}
	return m, nil
}

// LoadAgent1Records reads a JSON array of Agent-1 records.
func LoadAgent1Records(path string) ([]types.Agent1Record, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []types.Agent1Record
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, fmt.Errorf("parse agent1 records %s: %w", path, err)
	}
	return records, nil
}
