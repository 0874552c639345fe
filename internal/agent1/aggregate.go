package agent1

import (
	"context"
	"fmt"
	"math"
	"sort"

	"sector-news-agents/internal/logger"
	"sector-news-agents/internal/trace"
	"sector-news-agents/internal/types"
)

// newsTypeMultiplier biases attribution toward news categories that move
// prices harder. Unknown types get 1.0.
var newsTypeMultiplier = map[string]float64{
	"regulatory":   1.2,
	"earnings":     1.1,
	"legal":        1.1,
	"geopolitical": 1.0,
	"company":      1.0,
	"supplychain":  1.0,
	"M&A":          1.0,
	"sector":       0.95,
	"macro":        0.9,
	"ESG":          0.9,
}

// Calibration bounds: a single next-day move never rescales a day score by
// less than half or more than 1.8x, and moves under 0.3% are treated as noise.
const (
	calibrationMinAbsMove = 0.3
	calibrationScaleMin   = 0.5
	calibrationScaleMax   = 1.8
)

// TypeMultiplier returns the attribution multiplier for a news type.
func TypeMultiplier(newsType string) float64 {
	if m, ok := newsTypeMultiplier[newsType]; ok {
		return m
	}
	return 1.0
}

// AggregateSameDay computes the weighted day score for one (sector, date)
// group and writes the normalized attribution weight onto each record.
// Returns the raw day score and the weighted records. An empty group yields
// 0.0 and no records.
func AggregateSameDay(records []types.Agent1Record) (float64, []types.Agent1Record) {
	if len(records) == 0 {
		return 0.0, nil
	}

	rawWeights := make([]float64, len(records))
	total := 0.0
	for i, r := range records {
		magnitude := 0.5 + 0.5*math.Min(1.0, math.Abs(r.SentimentScore)/4.0)
		rawWeights[i] = r.Confidence * magnitude * TypeMultiplier(r.NewsType)
		total += rawWeights[i]
	}
	if total == 0 {
		// All-zero confidence group; keep normalization defined.
		total = 1e-9
	}

	out := make([]types.Agent1Record, len(records))
	copy(out, records)

	dayScore := 0.0
	for i := range out {
		w := round6(rawWeights[i] / total)
		out[i].AttributionWeight = &w
		dayScore += (rawWeights[i] / total) * out[i].SentimentScore
	}
	return dayScore, out
}

// CalibrateToNextDay scales a raw day score toward an observed next-day
// percentage move. Calibration only scales magnitude, never flips direction,
// and is skipped entirely when there is no usable anchor: no observed move,
// zero day score, sign disagreement, or a move too small to be signal.
// The returned note is the audit trail of what was (not) applied.
func CalibrateToNextDay(dayScore float64, nextDayPct *float64) (float64, string) {
	if nextDayPct == nil || dayScore == 0 {
		return dayScore, "no_calibration_data_or_zero"
	}
	if sign(dayScore) != sign(*nextDayPct) || math.Abs(*nextDayPct) < calibrationMinAbsMove {
		return dayScore, "no_calibration_mismatch_or_tiny_move"
	}
	scale := clamp(math.Abs(*nextDayPct)/math.Max(0.1, math.Abs(dayScore)), calibrationScaleMin, calibrationScaleMax)
	return dayScore * scale, fmt.Sprintf("scaled_by_%v", round3(scale))
}

// Redistribute scales each record's sentiment by the calibrated/original
// ratio so relative contributions are preserved while the group total matches
// the calibrated day score. A zero original score leaves sentiments untouched.
func Redistribute(records []types.Agent1Record, original, calibrated float64) []types.Agent1Record {
	out := make([]types.Agent1Record, len(records))
	copy(out, records)

	if original == 0 {
		for i := range out {
			adj := out[i].SentimentScore
			out[i].AdjustedSentiment = &adj
			out[i].CalibrationNote = "no_redistribution_zero_day_score"
		}
		return out
	}

	scale := calibrated / original
	note := fmt.Sprintf("redistributed_scale_%v", round3(scale))
	for i := range out {
		adj := round4(out[i].SentimentScore * scale)
		out[i].AdjustedSentiment = &adj
		out[i].CalibrationNote = note
	}
	return out
}

// ProcessBatch groups records by (sector, date_key), aggregates and calibrates
// each group independently, and returns the per-group day summaries with
// adjusted records. Records missing a sector or date key are unattributable
// and excluded.
func ProcessBatch(ctx context.Context, records []types.Agent1Record, nextDay map[types.GroupKey]float64) []types.DayAggregate {
	ctx, span := trace.StartSpan(ctx, "agent1-process-batch")
	defer span.End()

	groups := make(map[types.GroupKey][]types.Agent1Record)
	dropped := 0
	for _, r := range records {
		if r.Sector == "" || r.DateKey == "" {
			dropped++
			continue
		}
		key := types.GroupKey{Sector: r.Sector, DateKey: r.DateKey}
		groups[key] = append(groups[key], r)
	}
	if dropped > 0 {
		logger.Warn(ctx, "Excluded unattributable records from aggregation", "count", dropped)
	}

	keys := make([]types.GroupKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Sector != keys[j].Sector {
			return keys[i].Sector < keys[j].Sector
		}
		return keys[i].DateKey < keys[j].DateKey
	})

	out := make([]types.DayAggregate, 0, len(keys))
	for _, key := range keys {
		raw, recs := AggregateSameDay(groups[key])

		var basis *float64
		if pct, ok := nextDay[key]; ok {
			p := pct
			basis = &p
		}
		calibrated, note := CalibrateToNextDay(raw, basis)
		recs = Redistribute(recs, raw, calibrated)
		for i := range recs {
			if recs[i].CalibrationNote == "" {
				recs[i].CalibrationNote = note
			}
		}

		logger.Calibration(ctx, key.Sector, key.DateKey, note, round4(raw), round4(calibrated))

		out = append(out, types.DayAggregate{
			Sector:              key.Sector,
			DateKey:             key.DateKey,
			DayScoreRaw:         round4(raw),
			DayScoreCalibrated:  round4(calibrated),
			CalibrationBasisPct: basis,
			CalibrationNote:     note,
			Records:             recs,
		})
	}
	return out
}

func sign(x float64) int {
	if x > 0 {
		return 1
	}
	if x < 0 {
		return -1
	}
	return 0
}

func round3(x float64) float64 { return math.Round(x*1e3) / 1e3 }
func round4(x float64) float64 { return math.Round(x*1e4) / 1e4 }
func round6(x float64) float64 { return math.Round(x*1e6) / 1e6 }
