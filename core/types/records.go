package types

import (
	"github.com/shopspring/decimal"
)

// PatientType distinguishes outpatient and inpatient revenue
type PatientType string

const (
	PatientOPD PatientType = "OPD"
	PatientIPD PatientType = "IPD"
)

// BillingCategory distinguishes cash and credit billing
type BillingCategory string

const (
	BillingCash   BillingCategory = "Cash"
	BillingCredit BillingCategory = "Credit"
)

// RevenueLine is a normalized revenue record for one service in one period
type RevenueLine struct {
	Period           Period          `json:"period"`
	ServiceName      string          `json:"service_name"`
	Department       string          `json:"department"`
	SubCostCentre    string          `json:"sub_cost_centre,omitempty"`
	PerformingDoctor string          `json:"performing_doctor,omitempty"`
	AdmittingDoctor  string          `json:"admitting_doctor,omitempty"`
	ReferringDoctor  string          `json:"referring_doctor,omitempty"`
	PatientType      PatientType     `json:"patient_type"`
	BillingCategory  BillingCategory `json:"billing_category"`
	Quantity         decimal.Decimal `json:"quantity"`
	GrossAmount      decimal.Decimal `json:"gross_amount"`
	Discount         decimal.Decimal `json:"discount"`
	NetAmount        decimal.Decimal `json:"net_amount"`
	Outsourced       bool            `json:"outsourced,omitempty"`
	BedDaysICU       decimal.Decimal `json:"bed_days_icu,omitempty"`
	BedDaysNonICU    decimal.Decimal `json:"bed_days_non_icu,omitempty"`

	// Service-attributed direct cost sub-fields billed with the line
	PharmacyCost    decimal.Decimal `json:"pharmacy_cost,omitempty"`
	MaterialCost    decimal.Decimal `json:"material_cost,omitempty"`
	DoctorFee       decimal.Decimal `json:"doctor_fee,omitempty"`
	OutsourcedShare decimal.Decimal `json:"outsourced_share,omitempty"`
}

// BedDays returns total bed-days on the line
func (r RevenueLine) BedDays() decimal.Decimal {
	return r.BedDaysICU.Add(r.BedDaysNonICU)
}

// ExpenseNature classifies a ledger entry as direct or indirect
type ExpenseNature string

const (
	ExpenseDirect   ExpenseNature = "direct"
	ExpenseIndirect ExpenseNature = "indirect"
)

// ExpenseLine is a normalized expense ledger entry. Direct lines carry a
// service attribution; indirect lines are pooled by cost centre.
type ExpenseLine struct {
	Period        Period          `json:"period"`
	LedgerCode    string          `json:"ledger_code"`
	LedgerName    string          `json:"ledger_name,omitempty"`
	CostCentre    string          `json:"cost_centre"`
	SubCostCentre string          `json:"sub_cost_centre,omitempty"`
	Nature        ExpenseNature   `json:"nature"`
	Amount        decimal.Decimal `json:"amount"`
	ServiceName   string          `json:"service_name,omitempty"`
}

// DriverKind is a measurable quantity used to apportion an indirect pool
type DriverKind string

const (
	DriverProcedureCount DriverKind = "procedure_count"
	DriverBedDays        DriverKind = "bed_days"
	DriverOTHours        DriverKind = "ot_hours"
	DriverCathLabHours   DriverKind = "cath_lab_hours"
	DriverHeadcount      DriverKind = "headcount"
	DriverConnectedLoad  DriverKind = "connected_load"
	DriverArea           DriverKind = "area"
	DriverTestCount      DriverKind = "test_count"
	DriverPatientCount   DriverKind = "patient_count"
)

// MetadataKind tags the shape of an operational metadata record
type MetadataKind string

const (
	MetaOccupancy     MetadataKind = "occupancy"
	MetaOTUsage       MetadataKind = "ot_usage"
	MetaCathLabUsage  MetadataKind = "cath_lab_usage"
	MetaConsumption   MetadataKind = "consumption"
	MetaConnectedLoad MetadataKind = "connected_load"
	MetaFixedAsset    MetadataKind = "fixed_asset"
	MetaTurnaround    MetadataKind = "turnaround"
	MetaDriverCount   MetadataKind = "driver_count"
)

// OperationalMetadataLine is a normalized operational record. The meaning
// of Quantity depends on Kind: stay-hours for occupancy, procedure hours
// for OT/cath-lab usage, kW for connected load, book value for fixed
// assets, minutes for turnaround, and a plain count for driver_count
// (whose Driver field names the secondary driver being counted).
type OperationalMetadataLine struct {
	Period        Period          `json:"period"`
	Kind          MetadataKind    `json:"kind"`
	ServiceName   string          `json:"service_name,omitempty"`
	SubCostCentre string          `json:"sub_cost_centre,omitempty"`
	EntityID      string          `json:"entity_id,omitempty"`
	Driver        DriverKind      `json:"driver,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
	Rate          decimal.Decimal `json:"rate,omitempty"`
}

// PoolCategory maps a pool's allocation into one of the three overhead
// buckets on a ServiceCostResult
type PoolCategory string

const (
	CategoryOverhead  PoolCategory = "overhead"
	CategoryUtilities PoolCategory = "utilities"
	CategoryAdmin     PoolCategory = "admin"
)

// CostPool is a named indirect cost aggregate awaiting allocation
type CostPool struct {
	Name     string          `json:"name"`
	Category PoolCategory    `json:"category"`
	Driver   DriverKind      `json:"driver"`
	Amount   decimal.Decimal `json:"amount"`
}

// CostCentre is one node of the Category -> Cost Centre -> Sub Cost Centre
// taxonomy. Leaves (ParentCode != "") are what revenue and expense lines
// map onto.
type CostCentre struct {
	Category      string     `json:"category"`
	Code          string     `json:"code"`
	Name          string     `json:"name"`
	Alias         string     `json:"alias,omitempty"`
	ParentCode    string     `json:"parent_code,omitempty"`
	PrimaryDriver DriverKind `json:"primary_driver,omitempty"`
}
