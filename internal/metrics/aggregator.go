// Package metrics derives the weekly KPIs, comparisons and top performers.
package metrics

import (
	"github.com/shopspring/decimal"

	"weekly-sales-report/internal/config"
	"weekly-sales-report/internal/domain"
)

// Rounding places used across the record.
const (
	amountPlaces = 1
	sharePlaces  = 3
)

// Aggregator computes a MetricsRecord from the three window slices.
type Aggregator struct {
	baselineWeeks int
}

// NewAggregator creates an aggregator using the baseline length of rules.
func NewAggregator(rules config.Rules) *Aggregator {
	weeks := rules.BaselineWeeks
	if weeks < 1 {
		weeks = 1
	}
	return &Aggregator{baselineWeeks: weeks}
}

// Aggregate computes current-window metrics and their changes against last week
// and the per-week average of the baseline window.
// An empty current window yields zeroed metrics and empty top performers.
// Input slices are not modified.
func (a *Aggregator) Aggregate(current, lastWeek, fourWeeks []domain.Sale) *domain.MetricsRecord {
	m := &domain.MetricsRecord{}

	// Current window
	salesDec := sumDec(current, salesOf)
	m.TotalSales = roundDec(salesDec, amountPlaces)
	m.Transactions = domain.CountInvoices(current)
	m.AvgTicket = divRound(decimal.NewFromFloat(m.TotalSales), m.Transactions, amountPlaces)
	m.AvgRating = Round(meanRating(current), amountPlaces)
	m.TotalQuantity = totalQuantity(current)
	m.GrossIncome = roundDec(sumDec(current, grossIncomeOf), amountPlaces)

	// Top performers
	m.TopProduct, m.TopProductSales = topRounded(groupSales(current, productLineOf), amountPlaces)
	m.TopBranch, m.TopBranchSales = topRounded(groupSales(current, cityOf), amountPlaces)
	m.TopPayment, m.TopPaymentShare = topShare(groupSales(current, paymentOf), sharePlaces)

	// Last week
	lastDec := sumDec(lastWeek, salesOf)
	m.SalesLastWeek = roundDec(lastDec, amountPlaces)
	m.TransLastWeek = domain.CountInvoices(lastWeek)
	m.AvgTicketLastWeek = divRound(lastDec, m.TransLastWeek, amountPlaces)

	// Baseline: per-week averages over the lookback. A zero baseline
	// stays zero, which makes the matching pct change 0.
	baseDec := sumDec(fourWeeks, salesOf)
	weeks := decimal.NewFromInt(int64(a.baselineWeeks))
	m.Sales4WAvg = baseDec.Div(weeks).InexactFloat64()
	trans4W := domain.CountInvoices(fourWeeks)
	m.Trans4WAvg = float64(trans4W) / float64(a.baselineWeeks)
	// sales per invoice is already scale free
	m.AvgTicket4W = divRound(baseDec, trans4W, amountPlaces)

	m.PctSalesLastWeek = PctChange(m.TotalSales, m.SalesLastWeek)
	m.PctSales4W = PctChange(m.TotalSales, m.Sales4WAvg)
	m.PctTransLastWeek = PctChange(float64(m.Transactions), float64(m.TransLastWeek))
	m.PctTrans4W = PctChange(float64(m.Transactions), m.Trans4WAvg)
	m.PctAvgTicketLastWeek = PctChange(m.AvgTicket, m.AvgTicketLastWeek)
	m.PctAvgTicket4W = PctChange(m.AvgTicket, m.AvgTicket4W)

	return m
}
