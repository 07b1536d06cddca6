// Package engine orchestrates the allocation pipeline. It enforces the
// execution order:
//
//  1. Normalize raw records
//  2. Apply period/dimension filters
//  3. Build cost pools from indirect spend
//  4. Resolve driver shares
//  5. Allocate costs per service
//  6. Compute profitability
//  7. Roll up to the seven analysis levels
//  8. Rank and recommend
//
// The engine is a pure batch transform: identical inputs produce
// byte-identical output, and it holds no state across invocations.
package engine

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"hospital-cost/core/allocation"
	"hospital-cost/core/driver"
	"hospital-cost/core/normalize"
	"hospital-cost/core/profitability"
	"hospital-cost/core/ranking"
	"hospital-cost/core/rollup"
	"hospital-cost/core/types"
	"hospital-cost/internal/config"
	"hospital-cost/internal/errors"
)

// Input is everything one engine run consumes, fully materialized.
// Fetching records and persisting results belong to the caller.
type Input struct {
	Filter  types.Filter
	Raw     normalize.RawInput
	Model   allocation.CostModel
	Options normalize.Options
}

// Engine runs the allocation pipeline under one configuration
type Engine struct {
	cfg config.Config
}

// New creates an engine
func New(cfg config.Config) *Engine {
	return &Engine{cfg: cfg}
}

// Run executes the pipeline. The context is only consulted between
// phases; the computation itself performs no I/O.
func (e *Engine) Run(ctx context.Context, in Input) (*types.Report, error) {
	normalized, err := normalize.Run(in.Raw, in.Options)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	revenue := filterRevenue(normalized.Revenue, in.Filter)
	expenses := filterExpenses(normalized.Expenses, in.Filter)
	metadata := filterMetadata(normalized.Metadata, in.Filter)
	if len(revenue) == 0 {
		return nil, errors.EmptyInput(filterPeriodKey(in.Filter))
	}

	pools, poolAssumptions := allocation.BuildPools(expenses, in.Model)
	shares := driver.Resolve(pools, revenue, metadata)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	services := allocation.Allocate(revenue, expenses, metadata, pools, shares)
	profitability.Apply(services, e.cfg.Scoring)
	ranking.RankServices(services)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	levels, levelRecs, err := e.rollups(ctx, services)
	if err != nil {
		return nil, err
	}

	recs := ranking.RecommendServices(services, e.cfg.Recommendations)
	for _, level := range types.AllLevels() {
		if level == types.LevelService {
			continue
		}
		recs = append(recs, levelRecs[level]...)
	}

	report := &types.Report{
		Services:            services,
		Summary:             buildSummary(services, e.cfg.Recommendations),
		DepartmentBreakdown: levels[types.LevelSpecialty.String()],
		Levels:              levels,
		Recommendations:     recs,
		Warnings:            normalized.Warnings,
		Assumptions:         append(poolAssumptions, shares.Assumptions...),
		FiltersApplied:      in.Filter,
	}
	return report, nil
}

// rollups aggregates, ranks and recommends for every level. Levels are
// independent of each other, so they fan out one task per level.
func (e *Engine) rollups(ctx context.Context, services []types.ServiceCostResult) (map[string][]types.LevelSummary, map[types.Level][]types.Recommendation, error) {
	levels := make(map[string][]types.LevelSummary, len(types.AllLevels()))
	recs := make(map[types.Level][]types.Recommendation)
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for _, level := range types.AllLevels() {
		level := level
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			summaries := rollup.Aggregate(level, services)
			ranking.RankSummaries(summaries)
			var levelRecs []types.Recommendation
			if level != types.LevelService && level != types.LevelFacility {
				levelRecs = ranking.RecommendSummaries(summaries, e.cfg.Recommendations)
			}

			mu.Lock()
			levels[level.String()] = summaries
			recs[level] = levelRecs
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return levels, recs, nil
}

func filterRevenue(lines []types.RevenueLine, f types.Filter) []types.RevenueLine {
	out := make([]types.RevenueLine, 0, len(lines))
	for _, line := range lines {
		if !f.MatchesPeriod(line.Period) {
			continue
		}
		if f.Department != "" && !strings.EqualFold(line.Department, f.Department) {
			continue
		}
		if f.ServiceName != "" && !strings.EqualFold(line.ServiceName, f.ServiceName) {
			continue
		}
		if f.PatientType != "" && !strings.EqualFold(string(line.PatientType), f.PatientType) {
			continue
		}
		out = append(out, line)
	}
	return out
}

func filterExpenses(lines []types.ExpenseLine, f types.Filter) []types.ExpenseLine {
	out := make([]types.ExpenseLine, 0, len(lines))
	for _, line := range lines {
		if f.MatchesPeriod(line.Period) {
			out = append(out, line)
		}
	}
	return out
}

func filterMetadata(lines []types.OperationalMetadataLine, f types.Filter) []types.OperationalMetadataLine {
	out := make([]types.OperationalMetadataLine, 0, len(lines))
	for _, line := range lines {
		if f.MatchesPeriod(line.Period) {
			out = append(out, line)
		}
	}
	return out
}

func filterPeriodKey(f types.Filter) string {
	if f.Month == "" || f.Year == 0 {
		return ""
	}
	p, ok := types.NewPeriod(f.Month, f.Year)
	if !ok {
		return ""
	}
	return p.Key()
}
