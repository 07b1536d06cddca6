// Package normalize converts heterogeneous input records into the uniform
// internal schema, coercing amounts to non-negative decimals and dates to
// period keys. Malformed records are excluded and reported as warnings
// rather than aborting the batch.
package normalize

// RawRevenueRecord is a revenue line item as fetched from storage.
// Pointer fields distinguish missing values from zero.
type RawRevenueRecord struct {
	Month            string   `json:"month"`
	Year             int      `json:"year"`
	ServiceName      string   `json:"service_name"`
	Department       string   `json:"department"`
	SubCostCentre    string   `json:"sub_cost_centre"`
	PerformingDoctor string   `json:"performing_doctor"`
	AdmittingDoctor  string   `json:"admitting_doctor"`
	ReferringDoctor  string   `json:"referring_doctor"`
	PatientType      string   `json:"patient_type"`
	BillingCategory  string   `json:"billing_category"`
	Quantity         *float64 `json:"quantity"`
	GrossAmount      *float64 `json:"gross_amount"`
	Discount         *float64 `json:"discount"`
	NetAmount        *float64 `json:"net_amount"`
	Outsourced       bool     `json:"outsourced"`
	BedDaysICU       *float64 `json:"bed_days_icu"`
	BedDaysNonICU    *float64 `json:"bed_days_non_icu"`
	PharmacyCost     *float64 `json:"pharmacy_cost"`
	MaterialCost     *float64 `json:"material_cost"`
	DoctorFee        *float64 `json:"doctor_fee"`
	OutsourcedShare  *float64 `json:"outsourced_share"`
}

// RawExpenseRecord is an expense ledger entry as fetched from storage
type RawExpenseRecord struct {
	Month         string   `json:"month"`
	Year          int      `json:"year"`
	LedgerCode    string   `json:"ledger_code"`
	LedgerName    string   `json:"ledger_name"`
	CostCentre    string   `json:"cost_centre"`
	SubCostCentre string   `json:"sub_cost_centre"`
	Nature        string   `json:"nature"`
	Amount        *float64 `json:"amount"`
	ServiceName   string   `json:"service_name"`
}

// RawMetadataRecord is an operational metadata row as fetched from storage
type RawMetadataRecord struct {
	Month         string   `json:"month"`
	Year          int      `json:"year"`
	Kind          string   `json:"kind"`
	ServiceName   string   `json:"service_name"`
	SubCostCentre string   `json:"sub_cost_centre"`
	EntityID      string   `json:"entity_id"`
	Driver        string   `json:"driver"`
	Quantity      *float64 `json:"quantity"`
	Rate          *float64 `json:"rate"`
}

// RawInput bundles one batch of raw records
type RawInput struct {
	Revenue  []RawRevenueRecord  `json:"revenue"`
	Expenses []RawExpenseRecord  `json:"expenses"`
	Metadata []RawMetadataRecord `json:"metadata"`
}
