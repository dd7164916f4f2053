// Package config holds the engine policy and the runtime settings of the report job.
package config

import "weekly-sales-report/internal/domain"

// Rules is the immutable validation and aggregation policy of one run.
// Components copy the fields they need at construction; callers build
// variations from DefaultRules instead of mutating shared state.
type Rules struct {
	ExpectedColumns []string

	ValidBranches      []string
	ValidCities        []string
	ValidCustomerTypes []string
	ValidGenders       []string
	ValidPayments      []string

	TaxRate float64 // 0.05

	// Reconciliation tolerances, numpy isclose semantics: |a-b| <= atol + rtol*|b|.
	RelTolerance       float64 // 1e-5
	AmountAbsTolerance float64 // tax and sales; 0.01

	TrendThreshold float64 // insight growth/decline threshold; 0.05
	BaselineWeeks  int     // weeks in the lookback window; 4
	SampleSize     int     // invoice ids attached to each diagnostic; 5
}

// DefaultRules returns a fresh copy of the production policy.
func DefaultRules() Rules {
	return Rules{
		ExpectedColumns:    append([]string(nil), domain.ExportColumns...),
		ValidBranches:      []string{"Alex", "Giza", "Cairo", "Yangon", "Mandalay", "Naypyitaw"},
		ValidCities:        []string{"Yangon", "Mandalay", "Naypyitaw"},
		ValidCustomerTypes: []string{"Member", "Normal"},
		ValidGenders:       []string{"Male", "Female"},
		ValidPayments:      []string{"Cash", "Credit card", "Ewallet"},
		TaxRate:            0.05,
		RelTolerance:       1e-5,
		AmountAbsTolerance: 0.01,
		TrendThreshold:     0.05,
		BaselineWeeks:      4,
		SampleSize:         5,
	}
}

// Clone returns a deep copy, so the enumerations can be changed without
// affecting components built from the original.
func (r Rules) Clone() Rules {
	c := r
	c.ExpectedColumns = append([]string(nil), r.ExpectedColumns...)
	c.ValidBranches = append([]string(nil), r.ValidBranches...)
	c.ValidCities = append([]string(nil), r.ValidCities...)
	c.ValidCustomerTypes = append([]string(nil), r.ValidCustomerTypes...)
	c.ValidGenders = append([]string(nil), r.ValidGenders...)
	c.ValidPayments = append([]string(nil), r.ValidPayments...)
	return c
}
