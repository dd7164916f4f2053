package metrics

import (
	"math"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"

	"weekly-sales-report/internal/domain"
)

// PctChange returns the fractional change from previous to current.
// It is exactly 0 when previous is 0.
func PctChange(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous
}

// Round rounds f half to even at places decimals.
// The decimal is built from the shortest representation of f.
func Round(f float64, places int32) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return f
	}
	return roundDec(decimal.NewFromFloat(f), places)
}

func roundDec(d decimal.Decimal, places int32) float64 {
	return d.RoundBank(places).InexactFloat64()
}

// sumDec sums field over rows as decimals. Missing (NaN) and non-finite values are skipped.
func sumDec(rows []domain.Sale, field func(s *domain.Sale) float64) decimal.Decimal {
	total := decimal.Zero
	for i := range rows {
		v := field(&rows[i])
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total
}

func salesOf(s *domain.Sale) float64       { return s.Sales }
func grossIncomeOf(s *domain.Sale) float64 { return s.GrossIncome }

// divRound returns round(num/den, places), or 0 when den is 0.
func divRound(num decimal.Decimal, den int, places int32) float64 {
	if den == 0 {
		return 0
	}
	return roundDec(num.Div(decimal.NewFromInt(int64(den))), places)
}

// meanRating averages ratings; 0 for no rows.
func meanRating(rows []domain.Sale) float64 {
	if len(rows) == 0 {
		return 0
	}
	ratings := make([]float64, len(rows))
	for i, s := range rows {
		ratings[i] = s.Rating
	}
	return stat.Mean(ratings, nil)
}

func totalQuantity(rows []domain.Sale) int {
	n := 0
	for _, s := range rows {
		n += s.Quantity
	}
	return n
}

// group is a summed sales bucket.
type group struct {
	key   string
	sales decimal.Decimal
}

// groupSales sums sales by key. Groups keep first-encountered order of rows.
func groupSales(rows []domain.Sale, key func(s *domain.Sale) string) []group {
	pos := make(map[string]int)
	var groups []group
	for i := range rows {
		k := key(&rows[i])
		idx, ok := pos[k]
		if !ok {
			idx = len(groups)
			pos[k] = idx
			groups = append(groups, group{key: k, sales: decimal.Zero})
		}
		groups[idx].sales = groups[idx].sales.Add(decimal.NewFromFloat(rows[i].Sales))
	}
	return groups
}

// topRounded returns the group whose sum, rounded to places, is largest.
// Ties go to the group encountered first. Empty input returns "", 0.
func topRounded(groups []group, places int32) (string, float64) {
	best := -1
	var bestVal decimal.Decimal
	for i, g := range groups {
		v := g.sales.RoundBank(places)
		if best < 0 || v.GreaterThan(bestVal) {
			best, bestVal = i, v
		}
	}
	if best < 0 {
		return "", 0
	}
	return groups[best].key, bestVal.InexactFloat64()
}

// topShare returns the largest group and its share of all group sales, rounded to places.
// Ties go to the group encountered first. Share is 0 when the total is 0.
func topShare(groups []group, places int32) (string, float64) {
	best := -1
	total := decimal.Zero
	for i, g := range groups {
		total = total.Add(g.sales)
		if best < 0 || g.sales.GreaterThan(groups[best].sales) {
			best = i
		}
	}
	if best < 0 {
		return "", 0
	}
	if total.IsZero() {
		return groups[best].key, 0
	}
	return groups[best].key, roundDec(groups[best].sales.Div(total), places)
}

func productLineOf(s *domain.Sale) string { return s.ProductLine }
func cityOf(s *domain.Sale) string        { return s.City }
func paymentOf(s *domain.Sale) string     { return s.Payment }
