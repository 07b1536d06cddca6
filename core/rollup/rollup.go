// Package rollup re-sums per-service results into the seven analysis
// levels. Totals are exact sums of the constituent results; profit and
// margin are recomputed from the summed values, never averaged.
package rollup

import (
	"github.com/shopspring/decimal"

	"hospital-cost/core/determinism"
	"hospital-cost/core/profitability"
	"hospital-cost/core/types"
)

// FacilityEntity names the single whole-facility "net figures" row
const FacilityEntity = "net figures"

// KeyFunc extracts a grouping key for one level. ok=false excludes the
// result from that level (e.g. a service with no theatre usage has no
// OT-level key).
type KeyFunc func(r types.ServiceCostResult) (key string, ok bool)

// KeyFor returns the grouping-key extractor for a level. The Level enum
// is closed, so this switch is exhaustive.
func KeyFor(level types.Level) KeyFunc {
	switch level {
	case types.LevelService:
		return func(r types.ServiceCostResult) (string, bool) { return r.ServiceName, true }
	case types.LevelSpecialty:
		return func(r types.ServiceCostResult) (string, bool) { return r.Department, r.Department != "" }
	case types.LevelDoctor:
		return func(r types.ServiceCostResult) (string, bool) { return r.DoctorName, r.DoctorName != "" }
	case types.LevelBed:
		return func(r types.ServiceCostResult) (string, bool) { return r.BedCategory, r.BedCategory != "" }
	case types.LevelOT:
		return func(r types.ServiceCostResult) (string, bool) { return r.TheatreID, r.TheatreID != "" }
	case types.LevelCathLab:
		return func(r types.ServiceCostResult) (string, bool) { return r.CathLabID, r.CathLabID != "" }
	default:
		return func(r types.ServiceCostResult) (string, bool) { return FacilityEntity, true }
	}
}

// Better reports whether entity a outranks entity b: higher margin first
// (undefined last), ties broken by higher revenue, then by name.
func Better(marginA types.Metric, revenueA decimal.Decimal, nameA string,
	marginB types.Metric, revenueB decimal.Decimal, nameB string) bool {
	if c := marginA.Cmp(marginB); c != 0 {
		return c > 0
	}
	if c := revenueA.Cmp(revenueB); c != 0 {
		return c > 0
	}
	return nameA < nameB
}

// Aggregate rolls per-service results up to one level. Summaries come
// back sorted by entity name; ranking reorders them.
func Aggregate(level types.Level, results []types.ServiceCostResult) []types.LevelSummary {
	key := KeyFor(level)
	groups := make(map[string][]types.ServiceCostResult)
	for _, r := range results {
		k, ok := key(r)
		if !ok {
			continue
		}
		groups[k] = append(groups[k], r)
	}

	summaries := make([]types.LevelSummary, 0, len(groups))
	determinism.RangeSorted(groups, func(entity string, members []types.ServiceCostResult) {
		s := types.LevelSummary{
			Level:       level,
			Entity:      entity,
			EntityCount: len(members),
		}
		for _, m := range members {
			s.Revenue = s.Revenue.Add(m.Revenue)
			s.Quantity = s.Quantity.Add(m.Quantity)
			s.Direct = s.Direct.Add(m.Direct)
			s.Allocated = s.Allocated.Add(m.Allocated)
			s.TotalCost = s.TotalCost.Add(m.TotalCost)
		}
		s.Profit = s.Revenue.Sub(s.TotalCost)
		s.MarginPercent = profitability.Margin(s.Profit, s.Revenue)
		s.AvgCostPerService = types.Ratio(s.TotalCost, decimal.NewFromInt(int64(len(members))))
		s.MostProfitable, s.LeastProfitable = extremes(members)
		summaries = append(summaries, s)
	})
	return summaries
}

// extremes finds the best and worst constituents by margin, with the
// revenue-then-name tie-break for full determinism
func extremes(members []types.ServiceCostResult) (most, least types.EntityMargin) {
	if len(members) == 0 {
		return
	}
	best, worst := members[0], members[0]
	for _, m := range members[1:] {
		if Better(m.MarginPercent, m.Revenue, m.ServiceName, best.MarginPercent, best.Revenue, best.ServiceName) {
			best = m
		}
		if Better(worst.MarginPercent, worst.Revenue, worst.ServiceName, m.MarginPercent, m.Revenue, m.ServiceName) {
			worst = m
		}
	}
	most = types.EntityMargin{Name: best.ServiceName, MarginPercent: best.MarginPercent}
	least = types.EntityMargin{Name: worst.ServiceName, MarginPercent: worst.MarginPercent}
	return
}
