package agent2

import (
	"context"
	"math"
	"sort"
	"time"

	"sector-news-agents/internal/dates"
	"sector-news-agents/internal/logger"
	"sector-news-agents/internal/trace"
	"sector-news-agents/internal/types"
)

// Thresholds configure the decision rule.
type Thresholds struct {
	Up           float64
	Down         float64
	MinConsensus float64
}

// DefaultThresholds returns the standard decision thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{Up: 0.8, Down: -0.8, MinConsensus: 0.6}
}

// Decide aggregates per-story sentiment records into a directional label
// (Agent-2). All records are treated as age zero, i.e. no recency decay,
// which matches same-day decision use. Use DecideAt to decay by age.
func Decide(ctx context.Context, records []types.Agent1Record, th Thresholds) types.Decision {
	return decide(ctx, records, th, nil)
}

// DecideAt is Decide with an explicit "now": each record is decayed by the
// age of its date key relative to now, halving roughly weekly.
func DecideAt(ctx context.Context, records []types.Agent1Record, th Thresholds, now time.Time) types.Decision {
	return decide(ctx, records, th, &now)
}

func decide(ctx context.Context, records []types.Agent1Record, th Thresholds, now *time.Time) types.Decision {
	ctx, span := trace.StartSpan(ctx, "agent2-decide")
	defer span.End()

	weights := make([]float64, len(records))
	weightedSum, totalWeight := 0.0, 0.0
	for i, r := range records {
		w := r.Confidence * recencyWeight(r, now)
		weights[i] = w
		totalWeight += w
		weightedSum += w * r.EffectiveSentiment()
	}

	if totalWeight == 0 {
		logger.Info(ctx, "Agent-2 has no usable evidence", "records", len(records))
		return types.Decision{
			Label:        types.LabelNoImpact,
			WeightedMean: 0.0,
			Consensus:    0.0,
			Confidence:   0.2,
			Rationale:    "Insufficient evidence.",
			TopSignals:   []string{},
		}
	}

	weightedMean := weightedSum / totalWeight

	// Consensus: share of total weight whose individual sign agrees with the
	// sign of the weighted mean.
	agreeing := 0.0
	for i, r := range records {
		s := r.EffectiveSentiment()
		if (weightedMean > 0 && s > 0) || (weightedMean < 0 && s < 0) {
			agreeing += weights[i]
		}
	}
	consensus := 0.0
	if weightedMean != 0 {
		consensus = agreeing / totalWeight
	}

	label := types.LabelNoImpact
	if weightedMean >= th.Up && consensus >= th.MinConsensus {
		label = types.LabelUp
	} else if weightedMean <= th.Down && consensus >= th.MinConsensus {
		label = types.LabelDown
	}

	confidence := math.Min(0.9, totalWeight/(totalWeight+1.0))

	return types.Decision{
		Label:        label,
		WeightedMean: round3(weightedMean),
		Consensus:    round3(consensus),
		Confidence:   round3(confidence),
		Rationale:    "Direction inferred from weighted mean and consensus of adjusted sentiment.",
		TopSignals:   topSignals(records, 3),
	}
}

// recencyWeight decays a record by its age when a reference time is supplied;
// without one all records count as fresh.
func recencyWeight(r types.Agent1Record, now *time.Time) float64 {
	if now == nil || r.DateKey == "" {
		return dates.RecencyDecay(0)
	}
	d, err := dates.ParseISO(r.DateKey + "T00:00:00Z")
	if err != nil {
		return dates.RecencyDecay(0)
	}
	age := now.Sub(d).Hours() / 24
	if age < 0 {
		age = 0
	}
	return dates.RecencyDecay(age)
}

// topSignals returns up to n news IDs with the largest absolute effective
// sentiment, as an audit trail.
func topSignals(records []types.Agent1Record, n int) []string {
	sorted := make([]types.Agent1Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return math.Abs(sorted[i].EffectiveSentiment()) > math.Abs(sorted[j].EffectiveSentiment())
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	ids := make([]string, 0, len(sorted))
	for _, r := range sorted {
		ids = append(ids, r.NewsID)
	}
	return ids
}

func round3(x float64) float64 { return math.Round(x*1e3) / 1e3 }
