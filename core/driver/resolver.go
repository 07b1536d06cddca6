// Package driver resolves, for each indirect cost pool, the driver
// quantity per service and turns it into allocation shares.
package driver

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"hospital-cost/core/determinism"
	"hospital-cost/core/types"
	"hospital-cost/internal/logging"
)

// Shares maps (pool, service) to an allocation share. Shares for a pool
// sum to exactly 1 across the services listed for it.
type Shares struct {
	byPool      map[string]map[string]decimal.Decimal
	Assumptions []types.Assumption
}

// Share returns the allocation share for a pool/service pair
func (s *Shares) Share(pool, service string) decimal.Decimal {
	if services, ok := s.byPool[pool]; ok {
		return services[service]
	}
	return decimal.Zero
}

// Services returns the services holding a share of a pool, sorted by name
func (s *Shares) Services(pool string) []string {
	return determinism.SortedKeys(s.byPool[pool])
}

// Resolve computes driver shares for every pool. A pool whose driver
// quantity totals zero falls back to an even split across all services
// that recorded revenue in the period; the fallback is recorded as an
// assumption, never applied silently.
func Resolve(pools []types.CostPool, revenue []types.RevenueLine, metadata []types.OperationalMetadataLine) *Shares {
	quantities := driverQuantities(revenue, metadata)
	revenueServices := serviceNames(revenue)

	out := &Shares{byPool: make(map[string]map[string]decimal.Decimal, len(pools))}
	for _, pool := range pools {
		byService := quantities[pool.Driver]
		total := decimal.Zero
		for _, q := range byService {
			total = total.Add(q)
		}

		if total.IsPositive() {
			out.byPool[pool.Name] = exactShares(byService, total)
			continue
		}

		// Explicit fallback policy: even allocation over revenue services
		out.byPool[pool.Name] = evenShares(revenueServices)
		note := fmt.Sprintf(
			"pool %q has no %s driver data; allocated evenly across %d services with revenue",
			pool.Name, pool.Driver, len(revenueServices))
		out.Assumptions = append(out.Assumptions, types.Assumption{Pool: pool.Name, Note: note})
		logging.Warn("driver resolution fallback",
			zap.String("pool", pool.Name),
			zap.String("driver", string(pool.Driver)))
	}
	return out
}

// driverQuantities collects per-service quantities for every driver kind.
// Operational metadata is authoritative; procedure counts and bed-days
// derive from revenue lines when no metadata of that kind exists.
func driverQuantities(revenue []types.RevenueLine, metadata []types.OperationalMetadataLine) map[types.DriverKind]map[string]decimal.Decimal {
	q := make(map[types.DriverKind]map[string]decimal.Decimal)
	add := func(kind types.DriverKind, service string, qty decimal.Decimal) {
		if service == "" || qty.IsZero() {
			return
		}
		if q[kind] == nil {
			q[kind] = make(map[string]decimal.Decimal)
		}
		q[kind][service] = q[kind][service].Add(qty)
	}

	for _, line := range metadata {
		switch line.Kind {
		case types.MetaOTUsage:
			add(types.DriverOTHours, line.ServiceName, line.Quantity)
		case types.MetaCathLabUsage:
			add(types.DriverCathLabHours, line.ServiceName, line.Quantity)
		case types.MetaOccupancy:
			add(types.DriverBedDays, line.ServiceName, line.Quantity)
		case types.MetaConnectedLoad:
			add(types.DriverConnectedLoad, line.ServiceName, line.Quantity)
		case types.MetaDriverCount:
			add(line.Driver, line.ServiceName, line.Quantity)
		}
	}

	if len(q[types.DriverProcedureCount]) == 0 {
		for _, line := range revenue {
			add(types.DriverProcedureCount, line.ServiceName, line.Quantity)
		}
	}
	if len(q[types.DriverBedDays]) == 0 {
		for _, line := range revenue {
			add(types.DriverBedDays, line.ServiceName, line.BedDays())
		}
	}
	return q
}

// exactShares divides quantities by the total and forces the shares to
// sum to exactly 1 by assigning the residual to the largest contributor
// (ties broken by service name). Decimal addition and multiplication are
// exact, so share exactness carries through to allocated amounts.
func exactShares(byService map[string]decimal.Decimal, total decimal.Decimal) map[string]decimal.Decimal {
	names := determinism.SortedKeys(byService)

	largest := ""
	for _, name := range names {
		if largest == "" || byService[name].GreaterThan(byService[largest]) {
			largest = name
		}
	}

	shares := make(map[string]decimal.Decimal, len(names))
	allocated := decimal.Zero
	for _, name := range names {
		if name == largest {
			continue
		}
		share := byService[name].Div(total)
		shares[name] = share
		allocated = allocated.Add(share)
	}
	shares[largest] = decimal.NewFromInt(1).Sub(allocated)
	return shares
}

// evenShares splits 1 evenly over the given services, residual to the
// first name in sorted order
func evenShares(services []string) map[string]decimal.Decimal {
	shares := make(map[string]decimal.Decimal, len(services))
	if len(services) == 0 {
		return shares
	}
	even := decimal.NewFromInt(1).Div(decimal.NewFromInt(int64(len(services))))
	allocated := decimal.Zero
	for _, name := range services[1:] {
		shares[name] = even
		allocated = allocated.Add(even)
	}
	shares[services[0]] = decimal.NewFromInt(1).Sub(allocated)
	return shares
}

// serviceNames returns the distinct services with revenue, sorted
func serviceNames(revenue []types.RevenueLine) []string {
	seen := make(map[string]struct{})
	for _, line := range revenue {
		seen[line.ServiceName] = struct{}{}
	}
	return determinism.SortedKeys(seen)
}
