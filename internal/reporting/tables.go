package reporting

import (
	"fmt"
	"time"

	"weekly-sales-report/internal/domain"
	"weekly-sales-report/internal/metrics"
)

// Table names, in output order.
const (
	TableKPIs                = "tbl_kpis"
	TablePercentageChanges   = "tbl_kpis_percentage_changes"
	TableTopPerformers       = "tbl_top_performers"
	TableSalesByProduct      = "tbl_sales_by_product"
	TableSalesByDay          = "tbl_sales_by_day"
	TablePaymentDistribution = "tbl_payment_distribution"
	TableInsights            = "tbl_insights"
	TableReportInfo          = "tbl_report_info"
)

// TableOrder lists table names in the order BuildTables returns them.
var TableOrder = []string{
	TableKPIs,
	TablePercentageChanges,
	TableTopPerformers,
	TableSalesByProduct,
	TableSalesByDay,
	TablePaymentDistribution,
	TableInsights,
	TableReportInfo,
}

// KPI metric labels.
const (
	MetricTotalSales    = "Total Sales"
	MetricTransactions  = "Transactions"
	MetricAvgTicket     = "Average Ticket"
	MetricAvgRating     = "Average Rating"
	MetricTotalQuantity = "Total Quantity"
	MetricGrossIncome   = "Gross Income"
)

const shortDate = "01/02/06"

// BuildTables projects the run results into the eight ordered output tables.
// current is the current-window slice; generatedAt stamps the report info table.
func BuildTables(m *domain.MetricsRecord, insights []string, p domain.Periods, current []domain.Sale, generatedAt time.Time) []domain.Table {
	if m == nil {
		m = &domain.MetricsRecord{}
	}

	kpis := domain.Table{
		Name:    TableKPIs,
		Columns: []string{"Metric", "Value"},
		Rows: [][]any{
			{MetricTotalSales, m.TotalSales},
			{MetricTransactions, m.Transactions},
			{MetricAvgTicket, m.AvgTicket},
			{MetricAvgRating, m.AvgRating},
			{MetricTotalQuantity, m.TotalQuantity},
			{MetricGrossIncome, m.GrossIncome},
		},
	}

	changes := domain.Table{
		Name:    TablePercentageChanges,
		Columns: []string{"Metric", "Value"},
		Rows: [][]any{
			{"Sales vs Last Week", metrics.Round(m.PctSalesLastWeek, 3)},
			{"Sales vs Previous 4 Weeks", metrics.Round(m.PctSales4W, 3)},
			{"Transactions vs Last Week", metrics.Round(m.PctTransLastWeek, 3)},
			{"Transactions vs Previous 4 Weeks", metrics.Round(m.PctTrans4W, 3)},
			{"Avg Ticket vs Last Week", metrics.Round(m.PctAvgTicketLastWeek, 3)},
			{"Avg Ticket vs Previous 4 Weeks", metrics.Round(m.PctAvgTicket4W, 3)},
		},
	}

	top := domain.Table{
		Name:    TableTopPerformers,
		Columns: []string{"Category", "Detail", "Value"},
		Rows: [][]any{
			{"Top Product Line", orNA(m.TopProduct), m.TopProductSales},
			{"Best Performing Branch", orNA(m.TopBranch), m.TopBranchSales},
			{"Top Payment Method", orNA(m.TopPayment), m.TopPaymentShare},
		},
	}

	byProduct := domain.Table{Name: TableSalesByProduct, Columns: []string{"Product line", "Sales"}}
	for _, g := range metrics.SalesByProduct(current) {
		byProduct.Rows = append(byProduct.Rows, []any{g.Key, g.Sales})
	}

	byDay := domain.Table{Name: TableSalesByDay, Columns: []string{"Day", "Sales"}}
	for _, g := range metrics.SalesByDay(current) {
		byDay.Rows = append(byDay.Rows, []any{g.Key, g.Sales})
	}

	payments := domain.Table{Name: TablePaymentDistribution, Columns: []string{"Payment", "Sales", "Percentage"}}
	for _, ps := range metrics.PaymentDistribution(current) {
		payments.Rows = append(payments.Rows, []any{ps.Payment, ps.Sales, ps.Percentage})
	}

	insightTable := domain.Table{Name: TableInsights, Columns: []string{"Insight"}}
	for _, s := range insights {
		insightTable.Rows = append(insightTable.Rows, []any{s})
	}

	info := domain.Table{
		Name:    TableReportInfo,
		Columns: []string{"Report Information"},
		Rows: [][]any{
			{"WEEKLY SALES PERFORMANCE REPORT"},
			{fmt.Sprintf("Week: %s – %s", p.Current.Start.Format(shortDate), p.Current.End.Format(shortDate))},
			{fmt.Sprintf("Generated automatically on: %s", generatedAt.Format(shortDate))},
		},
	}

	return []domain.Table{kpis, changes, top, byProduct, byDay, payments, insightTable, info}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
