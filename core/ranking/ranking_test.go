package ranking

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"hospital-cost/core/types"
	"hospital-cost/internal/config"
)

func dec(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return d
}

func ranked(name string, margin types.Metric, revenue, quantity, totalCost string) types.ServiceCostResult {
	return types.ServiceCostResult{
		ServiceName:   name,
		MarginPercent: margin,
		Revenue:       dec(revenue),
		Quantity:      dec(quantity),
		TotalCost:     dec(totalCost),
	}
}

func TestRankServicesMonotonic(t *testing.T) {
	results := []types.ServiceCostResult{
		ranked("mid", types.DefinedMetric(dec("20")), "1000", "5", "800"),
		ranked("best", types.DefinedMetric(dec("55")), "1000", "5", "450"),
		ranked("undefined", types.UndefinedMetric(), "0", "0", "300"),
		ranked("loss", types.DefinedMetric(dec("-10")), "1000", "5", "1100"),
	}

	RankServices(results)

	wantOrder := []string{"best", "mid", "loss", "undefined"}
	for i, want := range wantOrder {
		if results[i].ServiceName != want {
			t.Fatalf("position %d = %q, want %q", i, results[i].ServiceName, want)
		}
		if results[i].Rank != i+1 {
			t.Errorf("rank at %d = %d, want %d", i, results[i].Rank, i+1)
		}
	}

	// A higher-margin service never ranks below a lower-margin one
	for i := 1; i < len(results); i++ {
		prev, cur := results[i-1].MarginPercent, results[i].MarginPercent
		if prev.Cmp(cur) < 0 {
			t.Errorf("margin at rank %d below rank %d", results[i-1].Rank, results[i].Rank)
		}
	}
}

func TestRankTieBrokenByRevenueThenName(t *testing.T) {
	m := types.DefinedMetric(dec("30"))
	results := []types.ServiceCostResult{
		ranked("zeta", m, "500", "1", "350"),
		ranked("alpha", m, "500", "1", "350"),
		ranked("rich", m, "900", "1", "630"),
	}

	RankServices(results)

	want := []string{"rich", "alpha", "zeta"}
	for i, name := range want {
		if results[i].ServiceName != name {
			t.Errorf("position %d = %q, want %q", i, results[i].ServiceName, name)
		}
	}
}

func TestRecommendationRuleTable(t *testing.T) {
	policy := config.Default().Recommendations
	results := []types.ServiceCostResult{
		ranked("loss maker", types.DefinedMetric(dec("-15")), "10000", "50", "11500"),
		ranked("below median", types.DefinedMetric(dec("10")), "10000", "50", "9000"),
		ranked("at median", types.DefinedMetric(dec("20")), "10000", "100", "8000"),
		ranked("healthy low volume", types.DefinedMetric(dec("45")), "10000", "5", "5500"),
		ranked("healthy high volume", types.DefinedMetric(dec("50")), "90000", "500", "45000"),
		ranked("costed no revenue", types.UndefinedMetric(), "0", "0", "3000"),
	}

	recs := RecommendServices(results, policy)

	byEntity := make(map[string]types.Recommendation)
	for _, r := range recs {
		byEntity[r.Entity] = r
	}

	tests := []struct {
		entity   string
		priority types.Priority
		recType  types.RecommendationType
	}{
		{"loss maker", types.PriorityHigh, types.RecommendCostReduction},
		{"below median", types.PriorityMedium, types.RecommendCostReduction},
		{"healthy low volume", types.PriorityLow, types.RecommendVolumeGrowth},
		{"costed no revenue", types.PriorityHigh, types.RecommendCostReduction},
	}
	for _, tc := range tests {
		t.Run(tc.entity, func(t *testing.T) {
			rec, ok := byEntity[tc.entity]
			if !ok {
				t.Fatalf("no recommendation for %q", tc.entity)
			}
			if rec.Priority != tc.priority {
				t.Errorf("priority = %q, want %q", rec.Priority, tc.priority)
			}
			if rec.Type != tc.recType {
				t.Errorf("type = %q, want %q", rec.Type, tc.recType)
			}
		})
	}

	for _, entity := range []string{"at median", "healthy high volume"} {
		if _, ok := byEntity[entity]; ok {
			t.Errorf("%s should get no recommendation", entity)
		}
	}
}

func TestRecommendationLabelsResults(t *testing.T) {
	results := []types.ServiceCostResult{
		ranked("loss maker", types.DefinedMetric(dec("-15")), "10000", "50", "11500"),
		ranked("healthy", types.DefinedMetric(dec("50")), "90000", "500", "45000"),
	}

	RecommendServices(results, config.Default().Recommendations)

	for _, r := range results {
		switch r.ServiceName {
		case "loss maker":
			if r.Optimization != string(types.RecommendCostReduction) {
				t.Errorf("loss maker optimization = %q", r.Optimization)
			}
		case "healthy":
			if r.Optimization != "" {
				t.Errorf("healthy service should carry no optimization label, got %q", r.Optimization)
			}
		}
	}
}

func TestPotentialImpactPhrasing(t *testing.T) {
	policy := config.Default().Recommendations
	results := []types.ServiceCostResult{
		ranked("weak", types.DefinedMetric(dec("-20")), "10000", "10", "12000"),
		ranked("ok", types.DefinedMetric(dec("25")), "10000", "10", "7500"),
		ranked("strong", types.DefinedMetric(dec("60")), "10000", "10", "4000"),
	}

	recs := RecommendServices(results, policy)

	var weak types.Recommendation
	for _, r := range recs {
		if r.Entity == "weak" {
			weak = r
		}
	}
	if weak.Entity == "" {
		t.Fatal("loss maker must be recommended")
	}
	if !strings.Contains(weak.PotentialImpact, "top-quartile") {
		t.Errorf("impact phrasing = %q", weak.PotentialImpact)
	}
	if !strings.HasPrefix(weak.PotentialImpact, "+") {
		t.Errorf("impact should quote a positive delta, got %q", weak.PotentialImpact)
	}
}

func TestSingleEntityNoPeerData(t *testing.T) {
	results := []types.ServiceCostResult{
		ranked("only", types.DefinedMetric(dec("-5")), "1000", "10", "1050"),
	}

	recs := RecommendServices(results, config.Default().Recommendations)

	if len(recs) != 1 {
		t.Fatalf("loss maker must still be recommended, got %d recs", len(recs))
	}
	// With one peer the upper quantile equals its own margin
	if !strings.Contains(recs[0].PotentialImpact, "already at or above") {
		t.Errorf("impact = %q", recs[0].PotentialImpact)
	}
}
