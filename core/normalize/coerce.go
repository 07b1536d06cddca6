package normalize

import (
	"strings"

	"github.com/shopspring/decimal"

	"hospital-cost/core/types"
)

var netTolerance = decimal.NewFromFloat(0.01)

// checker accumulates per-record validation outcomes. A hard failure
// excludes the record; soft warnings keep it with a corrected value.
type checker struct {
	source       string
	record       int
	warnings     []types.Warning
	softWarnings []types.Warning
}

func newChecker(source string, record int) *checker {
	return &checker{source: source, record: record}
}

func (c *checker) fail(field, reason string) {
	c.warnings = append(c.warnings, types.Warning{
		Source: c.source, Record: c.record, Field: field, Message: "field " + reason,
	})
}

func (c *checker) soft(field, reason string) {
	c.softWarnings = append(c.softWarnings, types.Warning{
		Source: c.source, Record: c.record, Field: field, Message: "field " + reason,
	})
}

func (c *checker) failed() bool {
	return len(c.warnings) > 0
}

func (c *checker) period(month string, year int) types.Period {
	p, ok := types.NewPeriod(month, year)
	if !ok {
		c.fail("month", "cannot be resolved to a period key")
	}
	return p
}

func (c *checker) requiredString(field, value string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		c.fail(field, "is required")
	}
	return v
}

// amount coerces a required numeric field, rejecting nil and, when
// nonNegative is set, values below zero.
func (c *checker) amount(field string, value *float64, nonNegative bool) decimal.Decimal {
	if value == nil {
		c.fail(field, "is required")
		return decimal.Zero
	}
	d := decimal.NewFromFloat(*value)
	if nonNegative && d.IsNegative() {
		c.fail(field, "must not be negative")
		return decimal.Zero
	}
	return d
}

// optionalAmount coerces an optional numeric field. Missing means zero;
// a negative value is clamped to zero with a soft warning, keeping the
// record in the batch.
func (c *checker) optionalAmount(field string, value *float64) decimal.Decimal {
	if value == nil {
		return decimal.Zero
	}
	d := decimal.NewFromFloat(*value)
	if d.IsNegative() {
		c.soft(field, "was negative; clamped to zero")
		return decimal.Zero
	}
	return d
}

func (c *checker) patientType(value string) types.PatientType {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "OPD":
		return types.PatientOPD
	case "IPD":
		return types.PatientIPD
	default:
		c.fail("patient_type", "must be OPD or IPD")
		return ""
	}
}

func (c *checker) billingCategory(value string) types.BillingCategory {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "cash":
		return types.BillingCash
	case "credit":
		return types.BillingCredit
	default:
		c.fail("billing_category", "must be Cash or Credit")
		return ""
	}
}

func (c *checker) expenseNature(value string) types.ExpenseNature {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "direct":
		return types.ExpenseDirect
	case "indirect":
		return types.ExpenseIndirect
	default:
		c.fail("nature", "must be direct or indirect")
		return ""
	}
}

var metadataKinds = map[string]types.MetadataKind{
	string(types.MetaOccupancy):     types.MetaOccupancy,
	string(types.MetaOTUsage):       types.MetaOTUsage,
	string(types.MetaCathLabUsage):  types.MetaCathLabUsage,
	string(types.MetaConsumption):   types.MetaConsumption,
	string(types.MetaConnectedLoad): types.MetaConnectedLoad,
	string(types.MetaFixedAsset):    types.MetaFixedAsset,
	string(types.MetaTurnaround):    types.MetaTurnaround,
	string(types.MetaDriverCount):   types.MetaDriverCount,
}

func (c *checker) metadataKind(value string) types.MetadataKind {
	kind, ok := metadataKinds[strings.ToLower(strings.TrimSpace(value))]
	if !ok {
		c.fail("kind", "is not a known metadata kind")
	}
	return kind
}

var driverKinds = map[string]types.DriverKind{
	string(types.DriverProcedureCount): types.DriverProcedureCount,
	string(types.DriverBedDays):        types.DriverBedDays,
	string(types.DriverOTHours):        types.DriverOTHours,
	string(types.DriverCathLabHours):   types.DriverCathLabHours,
	string(types.DriverHeadcount):      types.DriverHeadcount,
	string(types.DriverConnectedLoad):  types.DriverConnectedLoad,
	string(types.DriverArea):           types.DriverArea,
	string(types.DriverTestCount):      types.DriverTestCount,
	string(types.DriverPatientCount):   types.DriverPatientCount,
}

func (c *checker) driverKind(value string) types.DriverKind {
	kind, ok := driverKinds[strings.ToLower(strings.TrimSpace(value))]
	if !ok {
		c.fail("driver", "is not a known cost driver")
	}
	return kind
}

// ParseDriverKind resolves a driver name from cost-model definitions
func ParseDriverKind(value string) (types.DriverKind, bool) {
	kind, ok := driverKinds[strings.ToLower(strings.TrimSpace(value))]
	return kind, ok
}
