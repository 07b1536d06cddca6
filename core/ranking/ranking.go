// Package ranking orders entities within each analysis level and emits
// deterministic optimization recommendations from a fixed rule table.
package ranking

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"

	"hospital-cost/core/determinism"
	"hospital-cost/core/rollup"
	"hospital-cost/core/types"
	"hospital-cost/internal/config"
)

// RankServices sorts results best-first (margin desc, revenue desc, name
// asc; undefined margins last) and assigns dense 1-based ranks.
func RankServices(results []types.ServiceCostResult) {
	determinism.SortStable(results, func(a, b types.ServiceCostResult) bool {
		return rollup.Better(a.MarginPercent, a.Revenue, a.ServiceName,
			b.MarginPercent, b.Revenue, b.ServiceName)
	})
	for i := range results {
		results[i].Rank = i + 1
	}
}

// RankSummaries does the same for level summaries
func RankSummaries(summaries []types.LevelSummary) {
	determinism.SortStable(summaries, func(a, b types.LevelSummary) bool {
		return rollup.Better(a.MarginPercent, a.Revenue, a.Entity,
			b.MarginPercent, b.Revenue, b.Entity)
	})
	for i := range summaries {
		summaries[i].Rank = i + 1
	}
}

// entity is the level-independent view the rule table operates on
type entity struct {
	name       string
	department string
	margin     types.Metric
	quantity   decimal.Decimal
	totalCost  decimal.Decimal
}

// RecommendServices applies the rule table to ranked services and labels
// each result with its recommendation type
func RecommendServices(results []types.ServiceCostResult, policy config.RecommendationConfig) []types.Recommendation {
	entities := make([]entity, len(results))
	for i, r := range results {
		entities[i] = entity{
			name:       r.ServiceName,
			department: r.Department,
			margin:     r.MarginPercent,
			quantity:   r.Quantity,
			totalCost:  r.TotalCost,
		}
	}
	recs := recommend(types.LevelService, entities, policy)

	byName := make(map[string]types.RecommendationType, len(recs))
	for _, rec := range recs {
		byName[rec.Entity] = rec.Type
	}
	for i := range results {
		if t, ok := byName[results[i].ServiceName]; ok {
			results[i].Optimization = string(t)
		}
	}
	return recs
}

// RecommendSummaries applies the rule table to one level's summaries
func RecommendSummaries(summaries []types.LevelSummary, policy config.RecommendationConfig) []types.Recommendation {
	if len(summaries) == 0 {
		return nil
	}
	entities := make([]entity, len(summaries))
	for i, s := range summaries {
		entities[i] = entity{
			name:      s.Entity,
			margin:    s.MarginPercent,
			quantity:  s.Quantity,
			totalCost: s.TotalCost,
		}
	}
	return recommend(summaries[0].Level, entities, policy)
}

// recommend is the deterministic rule table:
//   - negative margin            -> high priority, cost reduction
//   - below-median margin        -> medium priority, cost reduction
//   - healthy margin, low volume -> low priority, volume growth
//   - otherwise no recommendation
//
// Potential impact is the margin delta to the level's upper-quantile peer
// margin. A costed entity with no revenue at all is treated as the first
// rule's worst case.
func recommend(level types.Level, entities []entity, policy config.RecommendationConfig) []types.Recommendation {
	medianMargin, upperMargin, marginsOK := marginQuantiles(entities, policy.ImpactQuantile)
	medianQuantity := medianQuantity(entities)

	var recs []types.Recommendation
	for _, e := range entities {
		margin, defined := e.margin.Decimal()

		var rec types.Recommendation
		switch {
		case !defined:
			if e.totalCost.IsZero() {
				continue
			}
			rec = types.Recommendation{
				Priority: types.PriorityHigh,
				Type:     types.RecommendCostReduction,
				Recommendation: fmt.Sprintf(
					"%s carries cost %s with no revenue recorded; review whether the service is billable or should be discontinued",
					e.name, e.totalCost.StringFixed(2)),
			}
		case margin.IsNegative():
			rec = types.Recommendation{
				Priority: types.PriorityHigh,
				Type:     types.RecommendCostReduction,
				Recommendation: fmt.Sprintf(
					"Focus on reducing costs for %s; current margin is %s%%",
					e.name, margin.StringFixed(1)),
			}
		case marginsOK && margin.LessThan(medianMargin):
			rec = types.Recommendation{
				Priority: types.PriorityMedium,
				Type:     types.RecommendCostReduction,
				Recommendation: fmt.Sprintf(
					"%s margin of %s%% is below the period median; review cost allocation",
					e.name, margin.StringFixed(1)),
			}
		case marginsOK && e.quantity.LessThan(medianQuantity):
			rec = types.Recommendation{
				Priority: types.PriorityLow,
				Type:     types.RecommendVolumeGrowth,
				Recommendation: fmt.Sprintf(
					"%s margin of %s%% is healthy but volume is below the period median; consider growing capacity",
					e.name, margin.StringFixed(1)),
			}
		default:
			continue
		}

		rec.Level = level
		rec.Entity = e.name
		rec.Department = e.department
		rec.CurrentMargin = e.margin
		rec.PotentialImpact = potentialImpact(e.margin, upperMargin, marginsOK)
		recs = append(recs, rec)
	}
	return recs
}

// potentialImpact is the margin delta to the upper-quantile peer margin
func potentialImpact(margin types.Metric, upper decimal.Decimal, ok bool) string {
	if !ok {
		return "insufficient peer data to estimate impact"
	}
	current, defined := margin.Decimal()
	if !defined {
		current = decimal.Zero
	}
	delta := upper.Sub(current)
	if !delta.IsPositive() {
		return "already at or above top-quartile peer margin"
	}
	return fmt.Sprintf("+%s%% margin if brought to top-quartile peer performance", delta.StringFixed(1))
}

// marginQuantiles computes the median and upper-quantile margin among
// entities with a defined margin
func marginQuantiles(entities []entity, upperQ float64) (median, upper decimal.Decimal, ok bool) {
	var margins []float64
	for _, e := range entities {
		if v, defined := e.margin.Decimal(); defined {
			f, _ := v.Float64()
			margins = append(margins, f)
		}
	}
	if len(margins) == 0 {
		return decimal.Zero, decimal.Zero, false
	}
	sort.Float64s(margins)
	median = decimal.NewFromFloat(stat.Quantile(0.5, stat.Empirical, margins, nil))
	upper = decimal.NewFromFloat(stat.Quantile(upperQ, stat.Empirical, margins, nil))
	return median, upper, true
}

func medianQuantity(entities []entity) decimal.Decimal {
	quantities := make([]decimal.Decimal, 0, len(entities))
	for _, e := range entities {
		quantities = append(quantities, e.quantity)
	}
	m, _ := determinism.MedianDecimal(quantities)
	return m
}
