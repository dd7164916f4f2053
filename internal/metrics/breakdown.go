package metrics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"weekly-sales-report/internal/domain"
)

// GroupTotal is a labelled sales sum rounded to one decimal.
type GroupTotal struct {
	Key   string
	Sales float64
}

// PaymentShare is a payment method's sales and share of the window.
type PaymentShare struct {
	Payment    string
	Sales      float64
	Percentage float64 // share of the rounded group sums, 3 decimals
}

// SalesByProduct sums sales per product line, sorted by product line.
func SalesByProduct(rows []domain.Sale) []GroupTotal {
	groups := groupSales(rows, productLineOf)
	sort.Slice(groups, func(i, j int) bool { return groups[i].key < groups[j].key })

	out := make([]GroupTotal, len(groups))
	for i, g := range groups {
		out[i] = GroupTotal{Key: g.key, Sales: roundDec(g.sales, amountPlaces)}
	}
	return out
}

// SalesByDay sums sales per weekday name, Monday first. Only days with rows appear.
func SalesByDay(rows []domain.Sale) []GroupTotal {
	groups := groupSales(rows, func(s *domain.Sale) string { return s.Date.Weekday().String() })
	sort.Slice(groups, func(i, j int) bool {
		return weekdayIndex(groups[i].key) < weekdayIndex(groups[j].key)
	})

	out := make([]GroupTotal, len(groups))
	for i, g := range groups {
		out[i] = GroupTotal{Key: g.key, Sales: roundDec(g.sales, amountPlaces)}
	}
	return out
}

// weekdayIndex orders weekday names Monday = 0 .. Sunday = 6.
func weekdayIndex(name string) int {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if d.String() == name {
			return (int(d) + 6) % 7
		}
	}
	return 7
}

// PaymentDistribution sums sales per payment method, sorted by method,
// with each method's share of the rounded total.
func PaymentDistribution(rows []domain.Sale) []PaymentShare {
	groups := groupSales(rows, paymentOf)
	sort.Slice(groups, func(i, j int) bool { return groups[i].key < groups[j].key })

	rounded := make([]decimal.Decimal, len(groups))
	total := decimal.Zero
	for i, g := range groups {
		rounded[i] = g.sales.RoundBank(amountPlaces)
		total = total.Add(rounded[i])
	}

	out := make([]PaymentShare, len(groups))
	for i, g := range groups {
		share := 0.0
		if !total.IsZero() {
			share = roundDec(rounded[i].Div(total), sharePlaces)
		}
		out[i] = PaymentShare{
			Payment:    g.key,
			Sales:      rounded[i].InexactFloat64(),
			Percentage: share,
		}
	}
	return out
}
