package domain

// MetricsRecord is the aggregation output of one run.
// Absolute values describe the current window; Pct* fields are fractional changes
// (0.25 means +25%) against last week and the four-week per-week average.
type MetricsRecord struct {
	TotalSales    float64
	Transactions  int
	AvgTicket     float64
	AvgRating     float64
	TotalQuantity int
	GrossIncome   float64

	PctSalesLastWeek     float64
	PctSales4W           float64
	PctTransLastWeek     float64
	PctTrans4W           float64
	PctAvgTicketLastWeek float64
	PctAvgTicket4W       float64

	// Comparison baselines, kept for reports and diagnostics.
	SalesLastWeek     float64
	Sales4WAvg        float64
	TransLastWeek     int
	Trans4WAvg        float64
	AvgTicketLastWeek float64
	AvgTicket4W       float64

	TopProduct      string // empty when the current window has no rows
	TopProductSales float64
	TopBranch       string // city with the highest sales
	TopBranchSales  float64
	TopPayment      string
	TopPaymentShare float64 // share of all payment-group sales, in [0,1]
}

// HasSales reports whether the current window produced any sales.
func (m *MetricsRecord) HasSales() bool {
	return m.TotalSales > 0
}
