package normalize

import (
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"hospital-cost/core/types"
	"hospital-cost/internal/errors"
	"hospital-cost/internal/logging"
)

// Options controls batch failure behavior
type Options struct {
	// WarningTolerance fails the batch when the warning count exceeds it.
	// Negative means unlimited: warnings are surfaced but never abort.
	WarningTolerance int
}

// DefaultOptions surfaces warnings without aborting
func DefaultOptions() Options {
	return Options{WarningTolerance: -1}
}

// Normalized is the validated, canonical form of one input batch
type Normalized struct {
	Revenue  []types.RevenueLine
	Expenses []types.ExpenseLine
	Metadata []types.OperationalMetadataLine
	Warnings []types.Warning
}

// Run normalizes a raw batch. Per-record failures become warnings; the
// batch fails only when warnings exceed the tolerance.
func Run(raw RawInput, opts Options) (*Normalized, error) {
	out := &Normalized{}

	revenue, warns := Revenue(raw.Revenue)
	out.Revenue = revenue
	out.Warnings = append(out.Warnings, warns...)

	expenses, warns := Expenses(raw.Expenses)
	out.Expenses = expenses
	out.Warnings = append(out.Warnings, warns...)

	metadata, warns := Metadata(raw.Metadata)
	out.Metadata = metadata
	out.Warnings = append(out.Warnings, warns...)

	for _, w := range out.Warnings {
		logging.Warn("excluded malformed record",
			zap.String("source", w.Source),
			zap.Int("record", w.Record),
			zap.String("field", w.Field),
			zap.String("reason", w.Message))
	}

	if opts.WarningTolerance >= 0 && len(out.Warnings) > opts.WarningTolerance {
		return out, errors.Newf(errors.TypeValidation,
			"%d malformed records exceed tolerance of %d",
			len(out.Warnings), opts.WarningTolerance)
	}
	return out, nil
}

// Revenue normalizes revenue records
func Revenue(records []RawRevenueRecord) ([]types.RevenueLine, []types.Warning) {
	lines := make([]types.RevenueLine, 0, len(records))
	var warnings []types.Warning

	for i, rec := range records {
		c := newChecker("revenue", i)

		period := c.period(rec.Month, rec.Year)
		service := c.requiredString("service_name", rec.ServiceName)
		department := c.requiredString("department", rec.Department)
		patientType := c.patientType(rec.PatientType)
		billing := c.billingCategory(rec.BillingCategory)
		quantity := c.amount("quantity", rec.Quantity, true)
		gross := c.amount("gross_amount", rec.GrossAmount, true)
		discount := c.optionalAmount("discount", rec.Discount)

		if c.failed() {
			warnings = append(warnings, c.warnings...)
			continue
		}

		net := gross.Sub(discount)
		if rec.NetAmount != nil {
			supplied := decimal.NewFromFloat(*rec.NetAmount)
			if !supplied.Sub(net).Abs().LessThanOrEqual(netTolerance) {
				warnings = append(warnings, types.Warning{
					Source: "revenue", Record: i, Field: "net_amount",
					Message: "supplied net_amount differs from gross - discount; recomputed",
				})
			}
		}

		lines = append(lines, types.RevenueLine{
			Period:           period,
			ServiceName:      service,
			Department:       department,
			SubCostCentre:    strings.TrimSpace(rec.SubCostCentre),
			PerformingDoctor: strings.TrimSpace(rec.PerformingDoctor),
			AdmittingDoctor:  strings.TrimSpace(rec.AdmittingDoctor),
			ReferringDoctor:  strings.TrimSpace(rec.ReferringDoctor),
			PatientType:      patientType,
			BillingCategory:  billing,
			Quantity:         quantity,
			GrossAmount:      gross,
			Discount:         discount,
			NetAmount:        net,
			Outsourced:       rec.Outsourced,
			BedDaysICU:       c.optionalAmount("bed_days_icu", rec.BedDaysICU),
			BedDaysNonICU:    c.optionalAmount("bed_days_non_icu", rec.BedDaysNonICU),
			PharmacyCost:     c.optionalAmount("pharmacy_cost", rec.PharmacyCost),
			MaterialCost:     c.optionalAmount("material_cost", rec.MaterialCost),
			DoctorFee:        c.optionalAmount("doctor_fee", rec.DoctorFee),
			OutsourcedShare:  c.optionalAmount("outsourced_share", rec.OutsourcedShare),
		})
		// Optional-field problems downgrade to warnings without exclusion
		warnings = append(warnings, c.softWarnings...)
	}
	return lines, warnings
}

// Expenses normalizes expense ledger entries
func Expenses(records []RawExpenseRecord) ([]types.ExpenseLine, []types.Warning) {
	lines := make([]types.ExpenseLine, 0, len(records))
	var warnings []types.Warning

	for i, rec := range records {
		c := newChecker("expenses", i)

		period := c.period(rec.Month, rec.Year)
		ledger := c.requiredString("ledger_code", rec.LedgerCode)
		centre := c.requiredString("cost_centre", rec.CostCentre)
		nature := c.expenseNature(rec.Nature)
		amount := c.amount("amount", rec.Amount, true)

		if nature == types.ExpenseDirect && strings.TrimSpace(rec.ServiceName) == "" {
			c.fail("service_name", "is required for direct expense lines")
		}

		if c.failed() {
			warnings = append(warnings, c.warnings...)
			continue
		}

		lines = append(lines, types.ExpenseLine{
			Period:        period,
			LedgerCode:    ledger,
			LedgerName:    strings.TrimSpace(rec.LedgerName),
			CostCentre:    centre,
			SubCostCentre: strings.TrimSpace(rec.SubCostCentre),
			Nature:        nature,
			Amount:        amount,
			ServiceName:   strings.TrimSpace(rec.ServiceName),
		})
	}
	return lines, warnings
}

// Metadata normalizes operational metadata rows
func Metadata(records []RawMetadataRecord) ([]types.OperationalMetadataLine, []types.Warning) {
	lines := make([]types.OperationalMetadataLine, 0, len(records))
	var warnings []types.Warning

	for i, rec := range records {
		c := newChecker("metadata", i)

		period := c.period(rec.Month, rec.Year)
		kind := c.metadataKind(rec.Kind)
		quantity := c.amount("quantity", rec.Quantity, true)

		var driver types.DriverKind
		if kind == types.MetaDriverCount {
			driver = c.driverKind(rec.Driver)
		}

		if c.failed() {
			warnings = append(warnings, c.warnings...)
			continue
		}

		lines = append(lines, types.OperationalMetadataLine{
			Period:        period,
			Kind:          kind,
			ServiceName:   strings.TrimSpace(rec.ServiceName),
			SubCostCentre: strings.TrimSpace(rec.SubCostCentre),
			EntityID:      strings.TrimSpace(rec.EntityID),
			Driver:        driver,
			Quantity:      quantity,
			Rate:          c.optionalAmount("rate", rec.Rate),
		})
		warnings = append(warnings, c.softWarnings...)
	}
	return lines, warnings
}
