package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"hospital-cost/core/allocation"
	"hospital-cost/core/normalize"
	"hospital-cost/core/types"
	"hospital-cost/internal/config"
	"hospital-cost/internal/errors"
)

func f64(v float64) *float64 { return &v }

// fixtureInput is a small but complete period: three services across two
// departments, direct and indirect spend, and theatre usage metadata.
func fixtureInput() Input {
	return Input{
		Raw: normalize.RawInput{
			Revenue: []normalize.RawRevenueRecord{
				{
					Month: "January", Year: 2025, ServiceName: "Cardiac Surgery",
					Department: "Cardiology", PerformingDoctor: "Dr. Rao",
					PatientType: "IPD", BillingCategory: "Cash",
					Quantity: f64(10), GrossAmount: f64(110000), Discount: f64(10000),
					PharmacyCost: f64(15000), MaterialCost: f64(10000), DoctorFee: f64(5000),
				},
				{
					Month: "January", Year: 2025, ServiceName: "Angiography",
					Department: "Cardiology", PerformingDoctor: "Dr. Rao",
					PatientType: "OPD", BillingCategory: "Cash",
					Quantity: f64(40), GrossAmount: f64(60000),
				},
				{
					Month: "January", Year: 2025, ServiceName: "Knee Replacement",
					Department: "Orthopaedics", PerformingDoctor: "Dr. Iyer",
					PatientType: "IPD", BillingCategory: "Credit",
					Quantity: f64(5), GrossAmount: f64(75000),
				},
			},
			Expenses: []normalize.RawExpenseRecord{
				{Month: "January", Year: 2025, LedgerCode: "L-100", Nature: "direct", ServiceName: "Cardiac Surgery", Amount: f64(12000), CostCentre: "CC-OT"},
				{Month: "January", Year: 2025, LedgerCode: "L-200", Nature: "indirect", CostCentre: "CC-UTIL", Amount: f64(30000)},
				{Month: "January", Year: 2025, LedgerCode: "L-300", Nature: "indirect", CostCentre: "CC-ADMIN", Amount: f64(21000)},
			},
			Metadata: []normalize.RawMetadataRecord{
				{Month: "January", Year: 2025, Kind: "ot_usage", ServiceName: "Cardiac Surgery", EntityID: "OT-1", Quantity: f64(60)},
				{Month: "January", Year: 2025, Kind: "ot_usage", ServiceName: "Knee Replacement", EntityID: "OT-2", Quantity: f64(40)},
			},
		},
		Model: allocation.CostModel{Pools: []allocation.PoolDefinition{
			{Name: "utilities", Category: types.CategoryUtilities, Driver: types.DriverOTHours, CostCentres: []string{"CC-UTIL"}},
			{Name: "admin", Category: types.CategoryAdmin, Driver: types.DriverProcedureCount, CostCentres: []string{"CC-ADMIN"}},
		}},
	}
}

func TestRunEndToEnd(t *testing.T) {
	e := New(config.Default())
	report, err := e.Run(context.Background(), fixtureInput())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(report.Services) != 3 {
		t.Fatalf("want 3 services, got %d", len(report.Services))
	}

	// Conservation: sum of service total cost = direct + indirect spend
	if got := report.Summary.TotalAllocatedCosts; !got.Equal(decimal.NewFromInt(93000)) {
		t.Errorf("total cost = %s, want 93000 (12000 direct + 51000 indirect + 30000 revenue-borne)", got)
	}
	if got := report.Summary.TotalRevenue; !got.Equal(decimal.NewFromInt(235000)) {
		t.Errorf("total revenue = %s, want 235000", got)
	}

	// Ranks are dense 1..n best-first
	for i, r := range report.Services {
		if r.Rank != i+1 {
			t.Errorf("rank at %d = %d", i, r.Rank)
		}
	}

	// Seven levels always present
	if len(report.Levels) != len(types.AllLevels()) {
		t.Errorf("levels = %d, want %d", len(report.Levels), len(types.AllLevels()))
	}
	facility := report.Levels[types.LevelFacility.String()]
	if len(facility) != 1 || !facility[0].Revenue.Equal(report.Summary.TotalRevenue) {
		t.Errorf("facility level must mirror the summary totals, got %+v", facility)
	}
	if len(report.DepartmentBreakdown) != 2 {
		t.Errorf("want 2 departments, got %d", len(report.DepartmentBreakdown))
	}
	if len(report.Assumptions) != 0 {
		t.Errorf("fully-driven fixture should need no assumptions, got %v", report.Assumptions)
	}
}

func TestRunIdempotent(t *testing.T) {
	e := New(config.Default())

	var outputs [][]byte
	for i := 0; i < 2; i++ {
		report, err := e.Run(context.Background(), fixtureInput())
		if err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		b, err := json.Marshal(report)
		if err != nil {
			t.Fatalf("marshal %d: %v", i, err)
		}
		outputs = append(outputs, b)
	}

	if !bytes.Equal(outputs[0], outputs[1]) {
		t.Error("identical inputs must produce byte-identical reports")
	}
}

func TestRunEmptyInput(t *testing.T) {
	e := New(config.Default())
	in := fixtureInput()
	in.Filter = types.Filter{Month: "March", Year: 2025}

	_, err := e.Run(context.Background(), in)
	if err == nil {
		t.Fatal("want error for a period with no revenue")
	}
	if !errors.IsType(err, errors.TypeEmptyInput) {
		t.Errorf("want %s, got %v", errors.TypeEmptyInput, err)
	}
}

func TestRunFilters(t *testing.T) {
	tests := []struct {
		name         string
		filter       types.Filter
		wantServices []string
	}{
		{"department", types.Filter{Department: "cardiology"}, []string{"Angiography", "Cardiac Surgery"}},
		{"service name", types.Filter{ServiceName: "knee replacement"}, []string{"Knee Replacement"}},
		{"patient type", types.Filter{PatientType: "ipd"}, []string{"Cardiac Surgery", "Knee Replacement"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := fixtureInput()
			in.Filter = tc.filter

			report, err := New(config.Default()).Run(context.Background(), in)
			if err != nil {
				t.Fatalf("Run: %v", err)
			}

			var got []string
			for _, r := range report.Services {
				got = append(got, r.ServiceName)
			}
			if len(got) != len(tc.wantServices) {
				t.Fatalf("services = %v, want %v", got, tc.wantServices)
			}
			for _, want := range tc.wantServices {
				found := false
				for _, g := range got {
					found = found || g == want
				}
				if !found {
					t.Errorf("missing %q in %v", want, got)
				}
			}
			if report.FiltersApplied != tc.filter {
				t.Errorf("filters applied = %+v", report.FiltersApplied)
			}
		})
	}
}

func TestRunFallbackAssumptionSurfaces(t *testing.T) {
	in := fixtureInput()
	// Strip the theatre metadata so the utilities pool has no driver data
	in.Raw.Metadata = nil

	report, err := New(config.Default()).Run(context.Background(), in)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(report.Assumptions) != 1 {
		t.Fatalf("want 1 driver fallback assumption, got %v", report.Assumptions)
	}
	a := report.Assumptions[0]
	if a.Pool != "utilities" || !strings.Contains(a.Note, "allocated evenly") {
		t.Errorf("assumption = %+v", a)
	}

	// Even split keeps conservation intact
	if got := report.Summary.TotalAllocatedCosts; !got.Equal(decimal.NewFromInt(93000)) {
		t.Errorf("total cost = %s, want 93000", got)
	}
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(config.Default()).Run(ctx, fixtureInput())
	if err == nil {
		t.Fatal("cancelled context must abort the run")
	}
}
