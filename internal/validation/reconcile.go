package validation

import "math"

// isClose mirrors numpy.isclose: |a-b| <= atol + rtol*|b|.
// NaN on either side is never close.
func isClose(a, b, rtol, atol float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return false
	}
	if math.IsInf(a, 0) || math.IsInf(b, 0) {
		return a == b
	}
	return math.Abs(a-b) <= atol+rtol*math.Abs(b)
}

// reconciliation is one stored-vs-recomputed consistency rule.
type reconciliation struct {
	check   string
	message string
	atol    float64
	stored  func(r *row) float64
	expect  func(r *row) float64
}

func (v *Validator) reconciliations() []reconciliation {
	taxRate := v.rules.TaxRate
	amountTol := v.rules.AmountAbsTolerance
	return []reconciliation{
		{
			check:   CheckTaxMismatch,
			message: "Tax 5% does not match unit price x quantity x tax rate",
			atol:    amountTol,
			stored:  func(r *row) float64 { return r.tax },
			expect:  func(r *row) float64 { return r.unitPrice * r.quantity * taxRate },
		},
		{
			check:   CheckSalesMismatch,
			message: "Sales does not match unit price x quantity + tax",
			atol:    amountTol,
			stored:  func(r *row) float64 { return r.sales },
			expect:  func(r *row) float64 { return r.unitPrice*r.quantity + r.tax },
		},
		{
			check:   CheckCOGSMismatch,
			message: "cogs does not match unit price x quantity",
			stored:  func(r *row) float64 { return r.cogs },
			expect:  func(r *row) float64 { return r.unitPrice * r.quantity },
		},
		{
			check:   CheckGrossIncomeMismatch,
			message: "gross income does not match Tax 5%",
			stored:  func(r *row) float64 { return r.grossIncome },
			expect:  func(r *row) float64 { return r.tax },
		},
	}
}
