// Package insights renders the weekly metrics as short narrative sentences.
package insights

import (
	"fmt"
	"math"

	"weekly-sales-report/internal/config"
	"weekly-sales-report/internal/domain"
)

// Count is the number of sentences Generate returns.
const Count = 5

// notAvailable stands in for an empty top performer.
const notAvailable = "N/A"

// Generator turns a MetricsRecord into insight sentences.
type Generator struct {
	threshold float64
}

// NewGenerator creates a generator using the trend threshold of rules.
func NewGenerator(rules config.Rules) *Generator {
	return &Generator{threshold: rules.TrendThreshold}
}

// Generate returns exactly five sentences, in order: weekly sales trend,
// top branch share, preferred payment, top category share, average rating.
// It never fails; zero total sales yields 0.0% shares.
func (g *Generator) Generate(m *domain.MetricsRecord) []string {
	if m == nil {
		m = &domain.MetricsRecord{}
	}
	product := orNA(m.TopProduct)

	var trend string
	switch pct := m.PctSalesLastWeek; {
	case pct > g.threshold:
		trend = fmt.Sprintf("Sales up %s vs last week, led by %s.", percent(pct), product)
	case pct < -g.threshold:
		trend = fmt.Sprintf("Sales down %s vs last week; %s still top category.", percent(math.Abs(pct)), product)
	default:
		trend = fmt.Sprintf("Sales stable (%s) vs last week. %s leads.", signedPercent(pct), product)
	}

	return []string{
		trend,
		fmt.Sprintf("%s drove %s of weekly revenue.", orNA(m.TopBranch), percent(share(m.TopBranchSales, m.TotalSales))),
		fmt.Sprintf("%s was the preferred payment method.", orNA(m.TopPayment)),
		fmt.Sprintf("Top category: %s (%s of sales).", product, percent(share(m.TopProductSales, m.TotalSales))),
		fmt.Sprintf("Average rating stable at %.1f.", m.AvgRating),
	}
}

func share(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return part / total
}

// percent formats a fraction as a one-decimal percentage, 0.123 -> "12.3%".
func percent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// signedPercent is percent with an explicit sign, 0 -> "+0.0%".
func signedPercent(f float64) string {
	return fmt.Sprintf("%+.1f%%", f*100)
}

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}
