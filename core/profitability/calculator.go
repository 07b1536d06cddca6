// Package profitability combines per-service revenue and allocated cost
// into profit, margin and per-unit figures.
package profitability

import (
	"github.com/shopspring/decimal"

	"hospital-cost/core/determinism"
	"hospital-cost/core/types"
	"hospital-cost/internal/config"
)

var hundred = decimal.NewFromInt(100)

// Apply fills the profit-side fields of each result in place.
// Margin and per-unit figures are undefined, not zero, when their
// denominator is zero.
func Apply(results []types.ServiceCostResult, scoring config.ScoringConfig) {
	for i := range results {
		r := &results[i]
		r.Profit = r.Revenue.Sub(r.TotalCost)
		r.MarginPercent = marginPercent(r.Profit, r.Revenue)
		r.CostPerUnit = types.Ratio(r.TotalCost, r.Quantity)
		r.RevenuePerUnit = types.Ratio(r.Revenue, r.Quantity)
	}

	median := medianCostPerUnit(results)
	for i := range results {
		r := &results[i]
		r.EfficiencyScore = efficiencyScore(r.MarginPercent, r.CostPerUnit, median, scoring)
	}
}

// Margin computes profit/revenue*100, undefined at zero revenue
func Margin(profit, revenue decimal.Decimal) types.Metric {
	return marginPercent(profit, revenue)
}

func marginPercent(profit, revenue decimal.Decimal) types.Metric {
	if revenue.IsZero() {
		return types.UndefinedMetric()
	}
	return types.DefinedMetric(profit.Mul(hundred).Div(revenue))
}

func medianCostPerUnit(results []types.ServiceCostResult) types.Metric {
	var defined []decimal.Decimal
	for _, r := range results {
		if v, ok := r.CostPerUnit.Decimal(); ok {
			defined = append(defined, v)
		}
	}
	median, ok := determinism.MedianDecimal(defined)
	if !ok {
		return types.UndefinedMetric()
	}
	return types.DefinedMetric(median)
}

// efficiencyScore is a bounded composite: monotonically increasing in
// margin and decreasing in cost-per-unit relative to the period median.
// Undefined when the margin is undefined.
func efficiencyScore(margin, costPerUnit, medianCPU types.Metric, scoring config.ScoringConfig) types.Metric {
	m, ok := margin.Decimal()
	if !ok {
		return types.UndefinedMetric()
	}

	score := decimal.NewFromFloat(scoring.Base).
		Add(m.Mul(decimal.NewFromFloat(scoring.MarginWeight)))

	cpu, cpuOK := costPerUnit.Decimal()
	med, medOK := medianCPU.Decimal()
	if cpuOK && medOK && med.IsPositive() {
		deviation := cpu.Sub(med).Mul(hundred).Div(med)
		score = score.Sub(deviation.Mul(decimal.NewFromFloat(scoring.CostWeight)))
	}

	switch {
	case score.IsNegative():
		score = decimal.Zero
	case score.GreaterThan(hundred):
		score = hundred
	}
	return types.DefinedMetric(score)
}
