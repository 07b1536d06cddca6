package allocation

import (
	"github.com/shopspring/decimal"

	"hospital-cost/core/determinism"
	"hospital-cost/core/driver"
	"hospital-cost/core/types"
)

// serviceAccumulator collects per-service figures before they become a
// ServiceCostResult
type serviceAccumulator struct {
	revenue   decimal.Decimal
	quantity  decimal.Decimal
	direct    types.DirectCosts
	allocated types.AllocatedCosts

	departmentRevenue map[string]decimal.Decimal
	doctorRevenue     map[string]decimal.Decimal
	bedQuantity       map[string]decimal.Decimal
	theatreQuantity   map[string]decimal.Decimal
	cathLabQuantity   map[string]decimal.Decimal
}

func newAccumulator() *serviceAccumulator {
	return &serviceAccumulator{
		departmentRevenue: make(map[string]decimal.Decimal),
		doctorRevenue:     make(map[string]decimal.Decimal),
		bedQuantity:       make(map[string]decimal.Decimal),
		theatreQuantity:   make(map[string]decimal.Decimal),
		cathLabQuantity:   make(map[string]decimal.Decimal),
	}
}

// Allocate produces one ServiceCostResult per distinct service, with all
// cost components filled in. Profit-side fields are left to the
// profitability calculator. Re-running with identical inputs produces
// byte-identical output: iteration is order-stable and no clock or
// randomness is consulted.
func Allocate(
	revenue []types.RevenueLine,
	expenses []types.ExpenseLine,
	metadata []types.OperationalMetadataLine,
	pools []types.CostPool,
	shares *driver.Shares,
) []types.ServiceCostResult {
	acc := make(map[string]*serviceAccumulator)
	get := func(service string) *serviceAccumulator {
		a, ok := acc[service]
		if !ok {
			a = newAccumulator()
			acc[service] = a
		}
		return a
	}

	// Direct costs straight from service-attributed inputs
	for _, line := range revenue {
		a := get(line.ServiceName)
		a.revenue = a.revenue.Add(line.NetAmount)
		a.quantity = a.quantity.Add(line.Quantity)
		a.direct.Pharmacy = a.direct.Pharmacy.Add(line.PharmacyCost)
		a.direct.Materials = a.direct.Materials.Add(line.MaterialCost)
		a.direct.DoctorFee = a.direct.DoctorFee.Add(line.DoctorFee)
		a.direct.Outsourced = a.direct.Outsourced.Add(line.OutsourcedShare)

		if line.Department != "" {
			a.departmentRevenue[line.Department] = a.departmentRevenue[line.Department].Add(line.NetAmount)
		}
		if line.PerformingDoctor != "" {
			a.doctorRevenue[line.PerformingDoctor] = a.doctorRevenue[line.PerformingDoctor].Add(line.NetAmount)
		}
	}

	for _, line := range expenses {
		if line.Nature != types.ExpenseDirect || line.ServiceName == "" {
			continue
		}
		a := get(line.ServiceName)
		a.direct.Labor = a.direct.Labor.Add(line.Amount)
	}

	// Utilization keys from operational metadata
	for _, line := range metadata {
		if line.ServiceName == "" || line.EntityID == "" {
			continue
		}
		a := get(line.ServiceName)
		switch line.Kind {
		case types.MetaOccupancy:
			a.bedQuantity[line.EntityID] = a.bedQuantity[line.EntityID].Add(line.Quantity)
		case types.MetaOTUsage:
			a.theatreQuantity[line.EntityID] = a.theatreQuantity[line.EntityID].Add(line.Quantity)
		case types.MetaCathLabUsage:
			a.cathLabQuantity[line.EntityID] = a.cathLabQuantity[line.EntityID].Add(line.Quantity)
		}
	}

	// Indirect costs: pool amount times driver share, into the pool's bucket
	for _, pool := range pools {
		for _, service := range shares.Services(pool.Name) {
			amount := pool.Amount.Mul(shares.Share(pool.Name, service))
			if amount.IsZero() {
				continue
			}
			a := get(service)
			switch pool.Category {
			case types.CategoryUtilities:
				a.allocated.Utilities = a.allocated.Utilities.Add(amount)
			case types.CategoryAdmin:
				a.allocated.Admin = a.allocated.Admin.Add(amount)
			default:
				a.allocated.Overhead = a.allocated.Overhead.Add(amount)
			}
		}
	}

	results := make([]types.ServiceCostResult, 0, len(acc))
	determinism.RangeSorted(acc, func(service string, a *serviceAccumulator) {
		totalCost := a.direct.Total().Add(a.allocated.Total())
		results = append(results, types.ServiceCostResult{
			ServiceName:    service,
			Department:     dominantKey(a.departmentRevenue),
			DoctorName:     dominantKey(a.doctorRevenue),
			BedCategory:    dominantKey(a.bedQuantity),
			TheatreID:      dominantKey(a.theatreQuantity),
			CathLabID:      dominantKey(a.cathLabQuantity),
			Revenue:        a.revenue,
			Quantity:       a.quantity,
			RevenuePerUnit: types.Ratio(a.revenue, a.quantity),
			Direct:         a.direct,
			Allocated:      a.allocated,
			TotalCost:      totalCost,
		})
	})
	return results
}

// dominantKey picks the key with the largest weight, ties broken by the
// lexicographically smaller key. Empty when the map is empty.
func dominantKey(weights map[string]decimal.Decimal) string {
	best := ""
	for _, key := range determinism.SortedKeys(weights) {
		if best == "" || weights[key].GreaterThan(weights[best]) {
			best = key
		}
	}
	return best
}
