package domain

import (
	"math"
	"strconv"
	"time"
)

// Column names of the raw sales export. Order matches the export header.
const (
	ColInvoiceID    = "Invoice ID"
	ColBranch       = "Branch"
	ColCity         = "City"
	ColCustomerType = "Customer type"
	ColGender       = "Gender"
	ColProductLine  = "Product line"
	ColUnitPrice    = "Unit price"
	ColQuantity     = "Quantity"
	ColTax          = "Tax 5%"
	ColSales        = "Sales"
	ColDate         = "Date"
	ColTime         = "Time"
	ColPayment      = "Payment"
	ColCOGS         = "cogs"
	ColGrossMargin  = "gross margin percentage"
	ColGrossIncome  = "gross income"
	ColRating       = "Rating"
)

// ExportColumns lists the 17 columns of the raw export in header order.
var ExportColumns = []string{
	ColInvoiceID, ColBranch, ColCity, ColCustomerType, ColGender,
	ColProductLine, ColUnitPrice, ColQuantity, ColTax, ColSales,
	ColDate, ColTime, ColPayment, ColCOGS, ColGrossMargin,
	ColGrossIncome, ColRating,
}

// RawTable is the ingested export before validation: a header and string cells.
// Rows may be ragged; the validator rejects that as malformed input.
type RawTable struct {
	Header []string
	Rows   [][]string
}

// ColumnIndex returns the position of name in the header, or -1.
func (t *RawTable) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Sale is one validated row of the export.
type Sale struct {
	InvoiceID    string
	Branch       string
	City         string
	CustomerType string
	Gender       string
	ProductLine  string
	UnitPrice    float64
	Quantity     int
	Tax          float64
	Sales        float64
	Date         time.Time // calendar date, UTC midnight
	Time         string    // time of day as exported
	Payment      string
	COGS         float64 // NaN when missing in the export
	GrossMargin  float64 // NaN when missing in the export
	GrossIncome  float64 // NaN when missing in the export
	Rating       float64
}

// CleanedTable holds the rows that passed every fatal check, in input order.
// It is not modified after validation; window filters copy rows out of it.
type CleanedTable struct {
	Rows []Sale
}

// Len returns the number of rows.
func (t *CleanedTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// DateRange returns the earliest and latest sale dates.
// Returns zero times for an empty table.
func (t *CleanedTable) DateRange() (time.Time, time.Time) {
	if t.Len() == 0 {
		return time.Time{}, time.Time{}
	}
	minDate, maxDate := t.Rows[0].Date, t.Rows[0].Date
	for _, s := range t.Rows[1:] {
		if s.Date.Before(minDate) {
			minDate = s.Date
		}
		if s.Date.After(maxDate) {
			maxDate = s.Date
		}
	}
	return minDate, maxDate
}

// UniqueInvoices counts distinct invoice identifiers.
func (t *CleanedTable) UniqueInvoices() int {
	if t.Len() == 0 {
		return 0
	}
	return CountInvoices(t.Rows)
}

// CountInvoices counts distinct invoice identifiers in rows.
// A multi-line invoice counts once.
func CountInvoices(rows []Sale) int {
	seen := make(map[string]struct{}, len(rows))
	for _, s := range rows {
		seen[s.InvoiceID] = struct{}{}
	}
	return len(seen)
}

// Raw renders the table back into export form, header in ExportColumns order.
// Dates are written month first; missing numbers become empty cells.
func (t *CleanedTable) Raw() *RawTable {
	raw := &RawTable{Header: append([]string(nil), ExportColumns...)}
	if t.Len() == 0 {
		return raw
	}
	raw.Rows = make([][]string, len(t.Rows))
	for i, s := range t.Rows {
		raw.Rows[i] = []string{
			s.InvoiceID, s.Branch, s.City, s.CustomerType, s.Gender,
			s.ProductLine, formatNumber(s.UnitPrice), strconv.Itoa(s.Quantity),
			formatNumber(s.Tax), formatNumber(s.Sales), s.Date.Format("1/2/2006"),
			s.Time, s.Payment, formatNumber(s.COGS), formatNumber(s.GrossMargin),
			formatNumber(s.GrossIncome), formatNumber(s.Rating),
		}
	}
	return raw
}

func formatNumber(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// DatasetSummary describes a cleaned table for logs and reports.
type DatasetSummary struct {
	Rows           int
	FirstDate      time.Time
	LastDate       time.Time
	UniqueInvoices int
}

// Summary returns the row count, date range and distinct invoices of the table.
func (t *CleanedTable) Summary() DatasetSummary {
	first, last := t.DateRange()
	return DatasetSummary{
		Rows:           t.Len(),
		FirstDate:      first,
		LastDate:       last,
		UniqueInvoices: t.UniqueInvoices(),
	}
}
