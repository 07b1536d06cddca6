package types

import (
	"github.com/shopspring/decimal"
)

// DirectCosts holds the five service-attributed direct cost components
type DirectCosts struct {
	Pharmacy   decimal.Decimal `json:"pharmacy"`
	Materials  decimal.Decimal `json:"materials"`
	Labor      decimal.Decimal `json:"labor"`
	DoctorFee  decimal.Decimal `json:"doctor_fee"`
	Outsourced decimal.Decimal `json:"outsourced"`
}

// Total sums the direct components
func (d DirectCosts) Total() decimal.Decimal {
	return d.Pharmacy.Add(d.Materials).Add(d.Labor).Add(d.DoctorFee).Add(d.Outsourced)
}

// Add returns the component-wise sum
func (d DirectCosts) Add(other DirectCosts) DirectCosts {
	return DirectCosts{
		Pharmacy:   d.Pharmacy.Add(other.Pharmacy),
		Materials:  d.Materials.Add(other.Materials),
		Labor:      d.Labor.Add(other.Labor),
		DoctorFee:  d.DoctorFee.Add(other.DoctorFee),
		Outsourced: d.Outsourced.Add(other.Outsourced),
	}
}

// AllocatedCosts holds the three indirect buckets filled by pool allocation
type AllocatedCosts struct {
	Overhead  decimal.Decimal `json:"overhead"`
	Utilities decimal.Decimal `json:"utilities"`
	Admin     decimal.Decimal `json:"admin"`
}

// Total sums the allocated buckets
func (a AllocatedCosts) Total() decimal.Decimal {
	return a.Overhead.Add(a.Utilities).Add(a.Admin)
}

// Add returns the bucket-wise sum
func (a AllocatedCosts) Add(other AllocatedCosts) AllocatedCosts {
	return AllocatedCosts{
		Overhead:  a.Overhead.Add(other.Overhead),
		Utilities: a.Utilities.Add(other.Utilities),
		Admin:     a.Admin.Add(other.Admin),
	}
}

// ServiceCostResult is the unit of allocation output: one row per distinct
// billable service in the filtered period.
type ServiceCostResult struct {
	ServiceName string `json:"service_name"`
	Department  string `json:"department"`

	// Dominant grouping keys for the doctor and utilization levels; empty
	// when the service carries no data for that level
	DoctorName  string `json:"doctor_name,omitempty"`
	BedCategory string `json:"bed_category,omitempty"`
	TheatreID   string `json:"theatre_id,omitempty"`
	CathLabID   string `json:"cath_lab_id,omitempty"`

	Revenue        decimal.Decimal `json:"revenue"`
	Quantity       decimal.Decimal `json:"quantity"`
	RevenuePerUnit Metric          `json:"revenue_per_unit"`

	Direct    DirectCosts     `json:"direct_costs"`
	Allocated AllocatedCosts  `json:"allocated_costs"`
	TotalCost decimal.Decimal `json:"total_cost"`

	CostPerUnit     Metric          `json:"cost_per_unit"`
	Profit          decimal.Decimal `json:"profit"`
	MarginPercent   Metric          `json:"margin_percent"`
	EfficiencyScore Metric          `json:"efficiency_score"`

	Rank         int    `json:"rank,omitempty"`
	Optimization string `json:"optimization,omitempty"`
}

// EntityMargin points at an entity and its margin, used for
// most/least-profitable pointers
type EntityMargin struct {
	Name          string `json:"name"`
	MarginPercent Metric `json:"margin_percent"`
}

// LevelSummary aggregates ServiceCostResults at one analysis level
type LevelSummary struct {
	Level       Level  `json:"level"`
	Entity      string `json:"entity"`
	EntityCount int    `json:"entity_count"`

	Revenue   decimal.Decimal `json:"total_revenue"`
	Quantity  decimal.Decimal `json:"total_quantity"`
	Direct    DirectCosts     `json:"direct_costs"`
	Allocated AllocatedCosts  `json:"allocated_costs"`
	TotalCost decimal.Decimal `json:"total_cost"`
	Profit    decimal.Decimal `json:"profit"`

	MarginPercent     Metric `json:"margin_percent"`
	AvgCostPerService Metric `json:"avg_cost_per_service"`
	Rank              int    `json:"rank,omitempty"`

	MostProfitable  EntityMargin `json:"most_profitable"`
	LeastProfitable EntityMargin `json:"least_profitable"`
}

// RecommendationType is the kind of optimization guidance
type RecommendationType string

const (
	RecommendCostReduction RecommendationType = "cost_reduction"
	RecommendVolumeGrowth  RecommendationType = "volume_growth"
)

// Priority grades a recommendation
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Recommendation is deterministic optimization guidance for one entity
type Recommendation struct {
	Level           Level              `json:"level"`
	Entity          string             `json:"service"`
	Department      string             `json:"department,omitempty"`
	Type            RecommendationType `json:"type"`
	Priority        Priority           `json:"priority"`
	Recommendation  string             `json:"recommendation"`
	PotentialImpact string             `json:"potential_impact"`
	CurrentMargin   Metric             `json:"current_margin"`
}

// CostBreakdown gives each cost component's share of total cost
type CostBreakdown struct {
	PharmacyPercent  Metric `json:"pharmacy_percent"`
	MaterialsPercent Metric `json:"materials_percent"`
	LaborPercent     Metric `json:"labor_percent"`
	OverheadPercent  Metric `json:"overhead_percent"`
}

// Opportunities counts services flagged by the recommendation thresholds
type Opportunities struct {
	HighPotential    int `json:"high_potential"`
	CriticalServices int `json:"critical_services"`
}

// SummaryMetrics is the dashboard headline block
type SummaryMetrics struct {
	TotalServices          int             `json:"total_services"`
	TotalRevenue           decimal.Decimal `json:"total_revenue"`
	TotalAllocatedCosts    decimal.Decimal `json:"total_allocated_costs"`
	OverallProfitMargin    Metric          `json:"overall_profit_margin"`
	MostProfitableService  EntityMargin    `json:"most_profitable_service"`
	LeastProfitableService EntityMargin    `json:"least_profitable_service"`
	CostBreakdown          CostBreakdown   `json:"cost_breakdown"`
	OptimizationCandidates Opportunities   `json:"optimization_opportunities"`
}

// Assumption records an allocation fallback surfaced to the caller so it
// can be shown as a caveat in reports. Not an error.
type Assumption struct {
	Pool string `json:"pool"`
	Note string `json:"note"`
}

// Warning records one excluded input record
type Warning struct {
	Source  string `json:"source"`
	Record  int    `json:"record"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Report is the full engine output for one period+filter combination
type Report struct {
	Services            []ServiceCostResult       `json:"services"`
	Summary             SummaryMetrics            `json:"summary_metrics"`
	DepartmentBreakdown []LevelSummary            `json:"department_breakdown"`
	Levels              map[string][]LevelSummary `json:"levels"`
	Recommendations     []Recommendation          `json:"optimization_recommendations"`
	Warnings            []Warning                 `json:"warnings,omitempty"`
	Assumptions         []Assumption              `json:"assumptions,omitempty"`
	FiltersApplied      Filter                    `json:"filters_applied"`
}
