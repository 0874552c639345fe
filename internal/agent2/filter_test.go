package agent2

import (
	"testing"

	"sector-news-agents/internal/types"
)

func filterFixture() []types.Agent1Record {
	return []types.Agent1Record{
		{NewsID: "t1", Sector: "Telecom", Tickers: []string{"BHARTIARTL.NS", "RELIANCE.NS"}, DateKey: "2025-09-25"},
		{NewsID: "t2", Sector: "Telecom", Tickers: []string{"BHARTIARTL.NS"}, DateKey: "2025-09-26"},
		{NewsID: "b1", Sector: "Banking", Tickers: []string{"HDFCBANK.NS"}, DateKey: "2025-09-26"},
		{NewsID: "x1", Sector: "Telecom", Tickers: nil, DateKey: ""},
	}
}

func TestFilterBySector(t *testing.T) {
	out := FilterBySector(filterFixture(), "Telecom")
	if len(out) != 3 {
		t.Fatalf("Expected 3 telecom records, got %d", len(out))
	}
	for _, r := range out {
		if r.Sector != "Telecom" {
			t.Errorf("Expected only Telecom records, got %s", r.Sector)
		}
	}

	if out := FilterBySector(filterFixture(), "Pharma"); len(out) != 0 {
		t.Errorf("Expected no Pharma records, got %d", len(out))
	}
}

func TestFilterByTickers(t *testing.T) {
	out := FilterByTickers(filterFixture(), []string{"RELIANCE.NS"})
	if len(out) != 1 || out[0].NewsID != "t1" {
		t.Fatalf("Expected only t1 for RELIANCE.NS, got %v", out)
	}

	out = FilterByTickers(filterFixture(), []string{"BHARTIARTL.NS", "HDFCBANK.NS"})
	if len(out) != 3 {
		t.Errorf("Expected 3 records for combined ticker set, got %d", len(out))
	}

	if out := FilterByTickers(filterFixture(), nil); len(out) != 0 {
		t.Errorf("Expected empty result for empty ticker set, got %d", len(out))
	}
}

func TestFilterByDateRange(t *testing.T) {
	// Both bounds open: pass-through, including the record without a date key.
	out := FilterByDateRange(filterFixture(), "", "")
	if len(out) != 4 {
		t.Errorf("Expected pass-through with open bounds, got %d", len(out))
	}

	out = FilterByDateRange(filterFixture(), "2025-09-26", "")
	if len(out) != 2 {
		t.Errorf("Expected 2 records from 2025-09-26 on, got %d", len(out))
	}

	out = FilterByDateRange(filterFixture(), "", "2025-09-25")
	if len(out) != 1 || out[0].NewsID != "t1" {
		t.Errorf("Expected only t1 up to 2025-09-25, got %v", out)
	}

	// Inclusive on both ends.
	out = FilterByDateRange(filterFixture(), "2025-09-25", "2025-09-26")
	if len(out) != 3 {
		t.Errorf("Expected 3 records in inclusive range, got %d", len(out))
	}
}
