package types

import (
	"github.com/shopspring/decimal"
)

// Metric is a numeric result that may be undefined. Division by zero
// (margin at zero revenue, per-unit figures at zero quantity) yields the
// undefined sentinel rather than zero or NaN, and the sentinel marshals to
// JSON null. Undefined compares below every defined value so it sorts last
// in any best-first ordering.
type Metric struct {
	value   decimal.Decimal
	defined bool
}

// DefinedMetric wraps a decimal in a defined Metric
func DefinedMetric(v decimal.Decimal) Metric {
	return Metric{value: v, defined: true}
}

// MetricFromFloat builds a defined Metric from a float64
func MetricFromFloat(v float64) Metric {
	return Metric{value: decimal.NewFromFloat(v), defined: true}
}

// UndefinedMetric returns the undefined sentinel
func UndefinedMetric() Metric {
	return Metric{}
}

// Ratio returns num/den, undefined when den is zero
func Ratio(num, den decimal.Decimal) Metric {
	if den.IsZero() {
		return UndefinedMetric()
	}
	return DefinedMetric(num.Div(den))
}

// IsDefined reports whether the metric holds a value
func (m Metric) IsDefined() bool {
	return m.defined
}

// Decimal returns the value and whether it is defined
func (m Metric) Decimal() (decimal.Decimal, bool) {
	return m.value, m.defined
}

// Float64 returns the value for display; 0 when undefined
func (m Metric) Float64() float64 {
	if !m.defined {
		return 0
	}
	f, _ := m.value.Float64()
	return f
}

// Cmp orders metrics with undefined below every defined value.
// Returns -1, 0 or +1.
func (m Metric) Cmp(other Metric) int {
	switch {
	case m.defined && other.defined:
		return m.value.Cmp(other.value)
	case m.defined:
		return 1
	case other.defined:
		return -1
	default:
		return 0
	}
}

// Equal reports exact equality, treating two undefined metrics as equal
func (m Metric) Equal(other Metric) bool {
	if m.defined != other.defined {
		return false
	}
	if !m.defined {
		return true
	}
	return m.value.Equal(other.value)
}

// String formats the value, "undefined" when unset
func (m Metric) String() string {
	if !m.defined {
		return "undefined"
	}
	return m.value.String()
}

// MarshalJSON emits the numeric value or null
func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.defined {
		return []byte("null"), nil
	}
	return []byte(m.value.String()), nil
}

// UnmarshalJSON accepts a number or null
func (m *Metric) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = Metric{}
		return nil
	}
	d, err := decimal.NewFromString(string(data))
	if err != nil {
		return err
	}
	*m = DefinedMetric(d)
	return nil
}
