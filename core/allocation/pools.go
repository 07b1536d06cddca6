// Package allocation assigns direct costs to the services that incurred
// them and apportions indirect cost pools across services by driver share.
package allocation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"hospital-cost/core/determinism"
	"hospital-cost/core/types"
)

// UnassignedPool receives indirect spend that no declared pool claims
const UnassignedPool = "unassigned overhead"

// PoolDefinition declares one indirect pool in the cost model
type PoolDefinition struct {
	Name        string
	Category    types.PoolCategory
	Driver      types.DriverKind
	CostCentres []string
}

// CostModel is the declared allocation structure: pool definitions plus
// the cost-centre taxonomy
type CostModel struct {
	Pools   []PoolDefinition
	Centres []types.CostCentre
}

// BuildPools groups indirect expense lines into the declared cost pools by
// cost-centre match. Unclaimed indirect spend lands in a catch-all pool so
// that the sum of pool amounts always equals the sum of indirect expense
// amounts.
func BuildPools(expenses []types.ExpenseLine, model CostModel) ([]types.CostPool, []types.Assumption) {
	centreToPool := make(map[string]string)
	for _, def := range model.Pools {
		for _, code := range def.CostCentres {
			centreToPool[code] = def.Name
		}
	}

	amounts := make(map[string]decimal.Decimal, len(model.Pools))
	unassignedLines := 0
	for _, line := range expenses {
		if line.Nature != types.ExpenseIndirect {
			continue
		}
		pool, ok := centreToPool[line.SubCostCentre]
		if !ok {
			pool, ok = centreToPool[line.CostCentre]
		}
		if !ok {
			pool = UnassignedPool
			unassignedLines++
		}
		amounts[pool] = amounts[pool].Add(line.Amount)
	}

	pools := make([]types.CostPool, 0, len(model.Pools)+1)
	for _, def := range model.Pools {
		amount := amounts[def.Name]
		if amount.IsZero() {
			continue
		}
		pools = append(pools, types.CostPool{
			Name:     def.Name,
			Category: def.Category,
			Driver:   def.Driver,
			Amount:   amount,
		})
	}

	var assumptions []types.Assumption
	if unassigned := amounts[UnassignedPool]; !unassigned.IsZero() {
		pools = append(pools, types.CostPool{
			Name:     UnassignedPool,
			Category: types.CategoryOverhead,
			Driver:   types.DriverProcedureCount,
			Amount:   unassigned,
		})
		assumptions = append(assumptions, types.Assumption{
			Pool: UnassignedPool,
			Note: fmt.Sprintf(
				"%d indirect expense lines totalling %s matched no declared pool; pooled as %s apportioned by procedure count",
				unassignedLines, unassigned.StringFixed(2), UnassignedPool),
		})
	}
	return pools, assumptions
}

// PoolTotal sums pool amounts
func PoolTotal(pools []types.CostPool) decimal.Decimal {
	return determinism.SumDecimals(pools, func(p types.CostPool) decimal.Decimal { return p.Amount })
}
