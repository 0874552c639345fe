package agent2

import (
	"context"
	"math"
	"testing"
	"time"

	"sector-news-agents/internal/types"
)

func adjusted(v float64) *float64 { return &v }

func telecomAdjusted() []types.Agent1Record {
	return []types.Agent1Record{
		{
			NewsID:            "N_te_1",
			Sector:            "Telecom",
			Tickers:           []string{"BHARTIARTL.NS", "RELIANCE.NS"},
			SentimentScore:    2.6,
			AdjustedSentiment: adjusted(2.6),
			Confidence:        0.78,
			DateKey:           "2025-09-26",
		},
		{
			NewsID:            "N_te_2",
			Sector:            "Telecom",
			Tickers:           []string{"BHARTIARTL.NS"},
			SentimentScore:    -0.5,
			AdjustedSentiment: adjusted(-0.5),
			Confidence:        0.55,
			DateKey:           "2025-09-26",
		},
		{
			NewsID:            "N_te_3",
			Sector:            "Telecom",
			SentimentScore:    -0.9,
			AdjustedSentiment: adjusted(-0.9),
			Confidence:        0.6,
			DateKey:           "2025-09-26",
		},
	}
}

func TestDecideEmpty(t *testing.T) {
	d := Decide(context.Background(), nil, DefaultThresholds())

	if d.Label != types.LabelNoImpact {
		t.Errorf("Expected NO_IMPACT, got %s", d.Label)
	}
	if d.WeightedMean != 0.0 {
		t.Errorf("Expected weighted mean 0.0, got %v", d.WeightedMean)
	}
	if d.Consensus != 0.0 {
		t.Errorf("Expected consensus 0.0, got %v", d.Consensus)
	}
	if d.Confidence != 0.2 {
		t.Errorf("Expected confidence 0.2, got %v", d.Confidence)
	}
	if d.Rationale != "Insufficient evidence." {
		t.Errorf("Expected insufficient evidence rationale, got %q", d.Rationale)
	}
	if len(d.TopSignals) != 0 {
		t.Errorf("Expected no top signals, got %v", d.TopSignals)
	}
}

func TestDecideZeroWeight(t *testing.T) {
	records := []types.Agent1Record{
		{NewsID: "a", SentimentScore: 3.0, Confidence: 0.0},
	}
	d := Decide(context.Background(), records, DefaultThresholds())
	if d.Label != types.LabelNoImpact || d.Confidence != 0.2 {
		t.Errorf("Expected insufficient-evidence decision, got %s / %v", d.Label, d.Confidence)
	}
}

func TestDecideTelecomScenario(t *testing.T) {
	d := Decide(context.Background(), telecomAdjusted(), DefaultThresholds())

	if d.Label != types.LabelNoImpact {
		t.Errorf("Expected NO_IMPACT for mixed telecom day, got %s", d.Label)
	}
	if math.Abs(d.WeightedMean-0.628) > 1e-9 {
		t.Errorf("Expected weighted mean 0.628, got %v", d.WeightedMean)
	}
	if math.Abs(d.Consensus-0.404) > 1e-9 {
		t.Errorf("Expected consensus 0.404, got %v", d.Consensus)
	}
	if math.Abs(d.Confidence-0.659) > 1e-9 {
		t.Errorf("Expected confidence 0.659, got %v", d.Confidence)
	}
}

func TestDecideUp(t *testing.T) {
	records := []types.Agent1Record{
		{NewsID: "a", SentimentScore: 2.0, Confidence: 0.9},
		{NewsID: "b", SentimentScore: 1.5, Confidence: 0.8},
	}
	d := Decide(context.Background(), records, DefaultThresholds())
	if d.Label != types.LabelUp {
		t.Errorf("Expected UP, got %s", d.Label)
	}
	if d.Consensus != 1.0 {
		t.Errorf("Expected unanimous consensus, got %v", d.Consensus)
	}
}

func TestDecideDown(t *testing.T) {
	records := []types.Agent1Record{
		{NewsID: "a", SentimentScore: -2.0, Confidence: 0.9},
		{NewsID: "b", SentimentScore: -1.5, Confidence: 0.8},
	}
	d := Decide(context.Background(), records, DefaultThresholds())
	if d.Label != types.LabelDown {
		t.Errorf("Expected DOWN, got %s", d.Label)
	}
}

func TestDecideConsensusBlocksLabel(t *testing.T) {
	// Strong mean but only half the weight agrees: stays NO_IMPACT.
	records := []types.Agent1Record{
		{NewsID: "a", SentimentScore: 3.0, Confidence: 0.9},
		{NewsID: "b", SentimentScore: -1.0, Confidence: 0.9},
	}
	d := Decide(context.Background(), records, DefaultThresholds())
	if d.WeightedMean < 0.8 {
		t.Fatalf("Test setup broken: expected mean at or above threshold, got %v", d.WeightedMean)
	}
	if d.Consensus >= 0.6 {
		t.Fatalf("Test setup broken: expected consensus below 0.6, got %v", d.Consensus)
	}
	if d.Label != types.LabelNoImpact {
		t.Errorf("Expected NO_IMPACT when consensus is low, got %s", d.Label)
	}
}

func TestDecideUsesAdjustedSentiment(t *testing.T) {
	records := []types.Agent1Record{
		{NewsID: "a", SentimentScore: 0.2, AdjustedSentiment: adjusted(2.0), Confidence: 0.9},
	}
	d := Decide(context.Background(), records, DefaultThresholds())
	if math.Abs(d.WeightedMean-2.0) > 1e-9 {
		t.Errorf("Expected adjusted sentiment to drive the mean, got %v", d.WeightedMean)
	}
}

func TestDecideConfidenceCapped(t *testing.T) {
	records := make([]types.Agent1Record, 0, 30)
	for i := 0; i < 30; i++ {
		records = append(records, types.Agent1Record{
			NewsID: "n", SentimentScore: 1.0, Confidence: 1.0,
		})
	}
	d := Decide(context.Background(), records, DefaultThresholds())
	if d.Confidence != 0.9 {
		t.Errorf("Expected confidence capped at 0.9, got %v", d.Confidence)
	}
}

func TestDecideAtDecaysOldRecords(t *testing.T) {
	records := []types.Agent1Record{
		{NewsID: "fresh", SentimentScore: 2.0, Confidence: 1.0, DateKey: "2025-09-26"},
		{NewsID: "stale", SentimentScore: -2.0, Confidence: 1.0, DateKey: "2025-09-12"},
	}

	// With no decay the signals cancel out.
	d := Decide(context.Background(), records, DefaultThresholds())
	if d.Label != types.LabelNoImpact {
		t.Errorf("Expected NO_IMPACT without decay, got %s", d.Label)
	}

	// Two weeks of decay leaves the fresh positive signal dominant.
	now := time.Date(2025, 9, 26, 0, 0, 0, 0, time.UTC)
	d = DecideAt(context.Background(), records, DefaultThresholds(), now)
	if d.Label != types.LabelUp {
		t.Errorf("Expected UP with stale negative decayed, got %s (mean %v, consensus %v)",
			d.Label, d.WeightedMean, d.Consensus)
	}
}

func TestTopSignalsOrdering(t *testing.T) {
	d := Decide(context.Background(), telecomAdjusted(), DefaultThresholds())

	want := []string{"N_te_1", "N_te_3", "N_te_2"}
	if len(d.TopSignals) != len(want) {
		t.Fatalf("Expected %d top signals, got %d", len(want), len(d.TopSignals))
	}
	for i, id := range want {
		if d.TopSignals[i] != id {
			t.Errorf("Expected top signal %d to be %s, got %s", i, id, d.TopSignals[i])
		}
	}
}
