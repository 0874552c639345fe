package agent2

import "sector-news-agents/internal/types"

// FilterBySector keeps records whose sector matches exactly.
func FilterBySector(records []types.Agent1Record, sector string) []types.Agent1Record {
	out := make([]types.Agent1Record, 0, len(records))
	for _, r := range records {
		if r.Sector == sector {
			out = append(out, r)
		}
	}
	return out
}

// FilterByTickers keeps records whose ticker set intersects the given set.
func FilterByTickers(records []types.Agent1Record, tickers []string) []types.Agent1Record {
	want := make(map[string]bool, len(tickers))
	for _, t := range tickers {
		want[t] = true
	}
	out := make([]types.Agent1Record, 0, len(records))
	for _, r := range records {
		for _, t := range r.Tickers {
			if want[t] {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// FilterByDateRange keeps records whose date key falls inside the inclusive
// [start, end] range. Empty bounds are open; records without a date key are
// dropped when a bound is set.
func FilterByDateRange(records []types.Agent1Record, start, end string) []types.Agent1Record {
	if start == "" && end == "" {
		return records
	}
	out := make([]types.Agent1Record, 0, len(records))
	for _, r := range records {
		if r.DateKey == "" {
			continue
		}
		if start != "" && r.DateKey < start {
			continue
		}
		if end != "" && r.DateKey > end {
			continue
		}
		out = append(out, r)
	}
	return out
}
