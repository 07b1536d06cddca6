package engine

import (
	"github.com/shopspring/decimal"

	"hospital-cost/core/profitability"
	"hospital-cost/core/types"
	"hospital-cost/internal/config"
)

var hundred = decimal.NewFromInt(100)

// buildSummary derives the dashboard headline block from ranked services.
// Services must already be sorted best-first.
func buildSummary(services []types.ServiceCostResult, policy config.RecommendationConfig) types.SummaryMetrics {
	s := types.SummaryMetrics{TotalServices: len(services)}
	if len(services) == 0 {
		return s
	}

	var pharmacy, materials, labor, overhead decimal.Decimal
	for _, r := range services {
		s.TotalRevenue = s.TotalRevenue.Add(r.Revenue)
		s.TotalAllocatedCosts = s.TotalAllocatedCosts.Add(r.TotalCost)
		pharmacy = pharmacy.Add(r.Direct.Pharmacy)
		materials = materials.Add(r.Direct.Materials)
		labor = labor.Add(r.Direct.Labor)
		overhead = overhead.Add(r.Allocated.Total())
	}
	profit := s.TotalRevenue.Sub(s.TotalAllocatedCosts)
	s.OverallProfitMargin = profitability.Margin(profit, s.TotalRevenue)

	best := services[0]
	worst := services[len(services)-1]
	s.MostProfitableService = types.EntityMargin{Name: best.ServiceName, MarginPercent: best.MarginPercent}
	s.LeastProfitableService = types.EntityMargin{Name: worst.ServiceName, MarginPercent: worst.MarginPercent}

	s.CostBreakdown = types.CostBreakdown{
		PharmacyPercent:  share(pharmacy, s.TotalAllocatedCosts),
		MaterialsPercent: share(materials, s.TotalAllocatedCosts),
		LaborPercent:     share(labor, s.TotalAllocatedCosts),
		OverheadPercent:  share(overhead, s.TotalAllocatedCosts),
	}

	high := decimal.NewFromFloat(policy.HighPotentialMargin)
	critical := decimal.NewFromFloat(policy.CriticalMargin)
	for _, r := range services {
		margin, defined := r.MarginPercent.Decimal()
		switch {
		case !defined:
			// A costed service with no revenue counts as critical
			if !r.TotalCost.IsZero() {
				s.OptimizationCandidates.CriticalServices++
			}
		case margin.GreaterThan(high):
			s.OptimizationCandidates.HighPotential++
		case margin.LessThan(critical):
			s.OptimizationCandidates.CriticalServices++
		}
	}
	return s
}

// share returns part/total*100, undefined at zero total
func share(part, total decimal.Decimal) types.Metric {
	if total.IsZero() {
		return types.UndefinedMetric()
	}
	return types.DefinedMetric(part.Mul(hundred).Div(total))
}
