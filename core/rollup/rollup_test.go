package rollup

import (
	"testing"

	"github.com/shopspring/decimal"

	"hospital-cost/core/types"
)

func dec(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return d
}

func svc(name, department, doctor string, revenue, totalCost string) types.ServiceCostResult {
	r := types.ServiceCostResult{
		ServiceName: name,
		Department:  department,
		DoctorName:  doctor,
		Revenue:     dec(revenue),
		TotalCost:   dec(totalCost),
		Quantity:    dec("1"),
	}
	r.Profit = r.Revenue.Sub(r.TotalCost)
	if !r.Revenue.IsZero() {
		r.MarginPercent = types.DefinedMetric(r.Profit.Mul(dec("100")).Div(r.Revenue))
	} else {
		r.MarginPercent = types.UndefinedMetric()
	}
	return r
}

var fixture = []types.ServiceCostResult{
	svc("Angiography", "Cardiology", "Dr. Rao", "50000", "30000"),
	svc("Angioplasty", "Cardiology", "Dr. Rao", "120000", "100000"),
	svc("Knee Replacement", "Orthopaedics", "Dr. Iyer", "90000", "95000"),
	svc("Dialysis", "Nephrology", "", "40000", "28000"),
}

func TestSpecialtyRollupSums(t *testing.T) {
	summaries := Aggregate(types.LevelSpecialty, fixture)

	if len(summaries) != 3 {
		t.Fatalf("want 3 departments, got %d", len(summaries))
	}
	var cardiology types.LevelSummary
	for _, s := range summaries {
		if s.Entity == "Cardiology" {
			cardiology = s
		}
	}
	if !cardiology.Revenue.Equal(dec("170000")) {
		t.Errorf("cardiology revenue = %s, want 170000", cardiology.Revenue)
	}
	if !cardiology.TotalCost.Equal(dec("130000")) {
		t.Errorf("cardiology cost = %s, want 130000", cardiology.TotalCost)
	}
	if !cardiology.Profit.Equal(dec("40000")) {
		t.Errorf("cardiology profit = %s, want 40000 (recomputed from sums)", cardiology.Profit)
	}
	if cardiology.EntityCount != 2 {
		t.Errorf("entity count = %d, want 2", cardiology.EntityCount)
	}
	if cardiology.MostProfitable.Name != "Angiography" {
		t.Errorf("most profitable = %q", cardiology.MostProfitable.Name)
	}
	if cardiology.LeastProfitable.Name != "Angioplasty" {
		t.Errorf("least profitable = %q", cardiology.LeastProfitable.Name)
	}
	if v, _ := cardiology.AvgCostPerService.Decimal(); !v.Equal(dec("65000")) {
		t.Errorf("avg cost per service = %s, want 65000", v)
	}
}

// Every level's totals must equal the facility totals when the grouping
// key covers all services; excluded services explain any shortfall.
func TestRollupConsistency(t *testing.T) {
	facility := Aggregate(types.LevelFacility, fixture)
	if len(facility) != 1 || facility[0].Entity != FacilityEntity {
		t.Fatalf("facility level must be a single %q row, got %+v", FacilityEntity, facility)
	}
	wantRevenue := facility[0].Revenue
	wantCost := facility[0].TotalCost

	for _, level := range []types.Level{types.LevelService, types.LevelSpecialty} {
		t.Run(level.String(), func(t *testing.T) {
			revenue, cost := decimal.Zero, decimal.Zero
			for _, s := range Aggregate(level, fixture) {
				revenue = revenue.Add(s.Revenue)
				cost = cost.Add(s.TotalCost)
			}
			if !revenue.Equal(wantRevenue) {
				t.Errorf("revenue = %s, want %s", revenue, wantRevenue)
			}
			if !cost.Equal(wantCost) {
				t.Errorf("cost = %s, want %s", cost, wantCost)
			}
		})
	}
}

func TestFacilityMarginFromNetFigures(t *testing.T) {
	facility := Aggregate(types.LevelFacility, fixture)

	// 300000 revenue against 253000 cost
	f := facility[0]
	if !f.Revenue.Equal(dec("300000")) || !f.TotalCost.Equal(dec("253000")) {
		t.Fatalf("facility totals = %s / %s", f.Revenue, f.TotalCost)
	}
	if !f.Profit.Equal(dec("47000")) {
		t.Errorf("facility profit = %s, want 47000", f.Profit)
	}
	want := dec("47000").Mul(dec("100")).Div(dec("300000"))
	if v, _ := f.MarginPercent.Decimal(); !v.Equal(want) {
		t.Errorf("facility margin = %s, want %s", v, want)
	}
}

func TestMissingKeyExcludesFromLevel(t *testing.T) {
	summaries := Aggregate(types.LevelDoctor, fixture)

	for _, s := range summaries {
		if s.Entity == "" {
			t.Fatal("services without a doctor must not form an empty-key group")
		}
	}
	if len(summaries) != 2 {
		t.Errorf("want 2 doctors (Dialysis has none), got %d", len(summaries))
	}
}

func TestBetterTieBreaks(t *testing.T) {
	m40 := types.DefinedMetric(dec("40"))
	m20 := types.DefinedMetric(dec("20"))
	undef := types.UndefinedMetric()

	tests := []struct {
		name string
		want bool
		got  bool
	}{
		{"higher margin wins", true, Better(m40, dec("1"), "b", m20, dec("9"), "a")},
		{"undefined margin loses", true, Better(m20, dec("1"), "b", undef, dec("9"), "a")},
		{"revenue breaks margin tie", true, Better(m40, dec("5"), "b", m40, dec("4"), "a")},
		{"name breaks full tie", true, Better(m40, dec("5"), "a", m40, dec("5"), "b")},
		{"not better than itself", false, Better(m40, dec("5"), "a", m40, dec("5"), "a")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Errorf("Better = %v, want %v", tc.got, tc.want)
			}
		})
	}
}
