package pipeline

import (
	"context"
	"errors"

	"sector-news-agents/internal/agent1"
	"sector-news-agents/internal/agent2"
	"sector-news-agents/internal/interfaces"
	"sector-news-agents/internal/logger"
	"sector-news-agents/internal/store"
	"sector-news-agents/internal/types"
)

// Pipeline chains the sector mapper, same-day aggregator and decision engine
// into a single run over one news batch.
type Pipeline struct {
	cfg    *store.Config
	mapper *agent1.Mapper
	moves  interfaces.MoveSource
}

// Result carries every intermediate artifact of a run so callers can persist
// or inspect each stage independently.
type Result struct {
	Records    []types.Agent1Record `json:"records"`
	Aggregates []types.DayAggregate `json:"aggregates"`
	Decisions  []types.Decision     `json:"decisions"`
}

// New builds a pipeline. moves may be nil, in which case calibration runs
// without next-day data and every group keeps its raw day score.
func New(cfg *store.Config, mapper *agent1.Mapper, moves interfaces.MoveSource) *Pipeline {
	return &Pipeline{cfg: cfg, mapper: mapper, moves: moves}
}

// Run scores the batch, aggregates and calibrates per (sector, date) group,
// then emits one decision per requested target. An empty target list yields
// one sector-level decision per sector seen in the batch.
func (p *Pipeline) Run(ctx context.Context, items []types.NewsItem, sectorMap map[string][]string, hints []string, targets []types.Target) (*Result, error) {
	op := logger.StartOperation(ctx, "pipeline_run",
		"news_items", len(items),
		"sectors", len(sectorMap),
		"targets", len(targets))
	ctx = op.GetContext()

	if len(items) == 0 {
		err := errors.New("empty news batch")
		op.EndWithError(err)
		return nil, err
	}

	records, err := p.mapper.MapNews(ctx, items, sectorMap, p.cfg.Market, hints)
	if err != nil {
		op.EndWithError(err)
		return nil, err
	}
	logger.Debug(ctx, "Sector mapping complete", "records", len(records))

	nextDay, err := p.fetchMoves(ctx, records)
	if err != nil {
		op.EndWithError(err)
		return nil, err
	}

	aggregates := agent1.ProcessBatch(ctx, records, nextDay)
	adjusted := flattenRecords(aggregates)

	if len(targets) == 0 {
		targets = sectorTargets(adjusted)
	}

	th := agent2.Thresholds{
		Up:           p.cfg.Decision.UpThreshold,
		Down:         p.cfg.Decision.DownThreshold,
		MinConsensus: p.cfg.Decision.MinConsensus,
	}

	decisions := make([]types.Decision, 0, len(targets))
	for i := range targets {
		t := targets[i]
		scoped := scopeRecords(adjusted, t)
		d := agent2.Decide(ctx, scoped, th)
		d.Target = &t
		logger.Decision(ctx, t.Name, d.Label, d.WeightedMean, d.Consensus, d.Confidence,
			"records_in_scope", len(scoped))
		decisions = append(decisions, d)
	}

	op.End("records", len(records), "groups", len(aggregates), "decisions", len(decisions))
	return &Result{Records: adjusted, Aggregates: aggregates, Decisions: decisions}, nil
}

func (p *Pipeline) fetchMoves(ctx context.Context, records []types.Agent1Record) (map[types.GroupKey]float64, error) {
	if p.moves == nil {
		return nil, nil
	}

	seen := make(map[types.GroupKey]bool)
	groups := make([]types.GroupKey, 0)
	for _, r := range records {
		if r.Sector == "" || r.DateKey == "" {
			continue
		}
		key := types.GroupKey{Sector: r.Sector, DateKey: r.DateKey}
		if !seen[key] {
			seen[key] = true
			groups = append(groups, key)
		}
	}

	moves, err := p.moves.NextDayMoves(ctx, groups)
	if err != nil {
		logger.ErrorWithErr(ctx, "Next-day move fetch failed", err)
		return nil, err
	}
	logger.Debug(ctx, "Next-day moves fetched", "requested", len(groups), "found", len(moves))
	return moves, nil
}

func flattenRecords(aggregates []types.DayAggregate) []types.Agent1Record {
	out := make([]types.Agent1Record, 0)
	for _, agg := range aggregates {
		out = append(out, agg.Records...)
	}
	return out
}

func sectorTargets(records []types.Agent1Record) []types.Target {
	seen := make(map[string]bool)
	targets := make([]types.Target, 0)
	for _, r := range records {
		if r.Sector == "" || seen[r.Sector] {
			continue
		}
		seen[r.Sector] = true
		targets = append(targets, types.Target{Level: "sector", Name: r.Sector})
	}
	return targets
}

func scopeRecords(records []types.Agent1Record, t types.Target) []types.Agent1Record {
	scoped := records
	if t.Level == "sector" && t.Name != "" {
		scoped = agent2.FilterBySector(scoped, t.Name)
	}
	if len(t.Tickers) > 0 {
		scoped = agent2.FilterByTickers(scoped, t.Tickers)
	}
	return scoped
}
