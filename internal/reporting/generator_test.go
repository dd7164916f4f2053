package reporting

import (
	"encoding/csv"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"weekly-sales-report/internal/domain"
	"weekly-sales-report/internal/period"
)

var fixedNow = time.Date(2019, 4, 1, 9, 30, 0, 0, time.UTC)

func testPeriods() domain.Periods {
	return period.Resolve(time.Date(2019, 3, 30, 0, 0, 0, 0, time.UTC))
}

func testMetrics() *domain.MetricsRecord {
	return &domain.MetricsRecord{
		TotalSales:           1234.5,
		Transactions:         4,
		AvgTicket:            308.6,
		AvgRating:            7.2,
		TotalQuantity:        1520,
		GrossIncome:          58.8,
		PctSalesLastWeek:     0.25,
		PctSales4W:           0.123456,
		PctTransLastWeek:     -0.5,
		TopProduct:           "Food and beverages",
		TopProductSales:      700.2,
		TopBranch:            "Yangon",
		TopBranchSales:       900.1,
		TopPayment:           "Ewallet",
		TopPaymentShare:      0.612,
		PctAvgTicketLastWeek: 0.0004,
	}
}

func testCurrent() []domain.Sale {
	mon := time.Date(2019, 3, 25, 0, 0, 0, 0, time.UTC)
	return []domain.Sale{
		{InvoiceID: "1", ProductLine: "Sports", Payment: "Ewallet", Sales: 300, Date: mon.AddDate(0, 0, 2)},
		{InvoiceID: "2", ProductLine: "Food and beverages", Payment: "Cash", Sales: 100, Date: mon},
		{InvoiceID: "3", ProductLine: "Food and beverages", Payment: "Ewallet", Sales: 100, Date: mon.AddDate(0, 0, 6)},
	}
}

func testInsights() []string {
	return []string{
		"Sales up 25.0% vs last week, led by Food and beverages.",
		"Yangon drove 72.9% of weekly revenue.",
		"Ewallet was the preferred payment method.",
		"Top category: Food and beverages (56.7% of sales).",
		"Average rating stable at 7.2.",
	}
}

func testReport() *Report {
	return NewGenerator().WithClock(func() time.Time { return fixedNow }).Generate(Input{
		RunID:    "run-1",
		Periods:  testPeriods(),
		Summary:  domain.DatasetSummary{Rows: 1000, UniqueInvoices: 1000, FirstDate: time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), LastDate: time.Date(2019, 3, 30, 0, 0, 0, 0, time.UTC)},
		Metrics:  testMetrics(),
		Insights: testInsights(),
		Current:  testCurrent(),
		DataQuality: []QualityIssue{
			{Check: "invalid_city", Message: "Invalid City values", Rows: 2, Values: []string{"Alexandria"}, Samples: []string{"a", "b"}},
		},
	})
}

func TestBuildTables_OrderAndShape(t *testing.T) {
	tables := BuildTables(testMetrics(), testInsights(), testPeriods(), testCurrent(), fixedNow)

	require.Len(t, tables, len(TableOrder))
	for i, name := range TableOrder {
		assert.Equal(t, name, tables[i].Name)
	}

	assert.Equal(t, []string{"Metric", "Value"}, tables[0].Columns)
	assert.Equal(t, []string{"Category", "Detail", "Value"}, tables[2].Columns)
	assert.Equal(t, []string{"Product line", "Sales"}, tables[3].Columns)
	assert.Equal(t, []string{"Day", "Sales"}, tables[4].Columns)
	assert.Equal(t, []string{"Payment", "Sales", "Percentage"}, tables[5].Columns)
	assert.Equal(t, []string{"Insight"}, tables[6].Columns)
	assert.Equal(t, []string{"Report Information"}, tables[7].Columns)
}

func TestBuildTables_Values(t *testing.T) {
	r := testReport()

	kpis, ok := r.Table(TableKPIs)
	require.True(t, ok)
	assert.Equal(t, []any{"Total Sales", "Transactions", "Average Ticket", "Average Rating", "Total Quantity", "Gross Income"}, kpis.Column("Metric"))
	assert.Equal(t, []any{1234.5, 4, 308.6, 7.2, 1520, 58.8}, kpis.Column("Value"))

	changes, _ := r.Table(TablePercentageChanges)
	assert.Equal(t, []any{0.25, 0.123, -0.5, 0.0, 0.0, 0.0}, changes.Column("Value"))

	top, _ := r.Table(TableTopPerformers)
	assert.Equal(t, []any{"Food and beverages", "Yangon", "Ewallet"}, top.Column("Detail"))
	assert.Equal(t, []any{700.2, 900.1, 0.612}, top.Column("Value"))

	byProduct, _ := r.Table(TableSalesByProduct)
	assert.Equal(t, []any{"Food and beverages", "Sports"}, byProduct.Column("Product line"))

	byDay, _ := r.Table(TableSalesByDay)
	assert.Equal(t, []any{"Monday", "Wednesday", "Sunday"}, byDay.Column("Day"))

	payments, _ := r.Table(TablePaymentDistribution)
	assert.Equal(t, []any{"Cash", "Ewallet"}, payments.Column("Payment"))
	assert.Equal(t, []any{0.2, 0.8}, payments.Column("Percentage"))

	info, _ := r.Table(TableReportInfo)
	assert.Equal(t, []any{
		"WEEKLY SALES PERFORMANCE REPORT",
		"Week: 03/25/19 – 03/31/19",
		"Generated automatically on: 04/01/19",
	}, info.Column("Report Information"))
}

func TestBuildTables_EmptyWeek(t *testing.T) {
	tables := BuildTables(&domain.MetricsRecord{}, nil, testPeriods(), nil, fixedNow)

	require.Len(t, tables, 8)
	top := tables[2]
	assert.Equal(t, []any{"N/A", "N/A", "N/A"}, top.Column("Detail"))
	assert.Empty(t, tables[3].Rows)
	assert.Empty(t, tables[4].Rows)
	assert.Empty(t, tables[5].Rows)
}

func TestNumberFormat(t *testing.T) {
	tables := BuildTables(testMetrics(), testInsights(), testPeriods(), testCurrent(), fixedNow)

	kpis := &tables[0]
	assert.Equal(t, FormatAmount, NumberFormat(kpis, 0, 1))
	assert.Equal(t, FormatCount, NumberFormat(kpis, 1, 1))
	assert.Equal(t, FormatAmount, NumberFormat(kpis, 2, 1))
	assert.Equal(t, FormatRating, NumberFormat(kpis, 3, 1))
	assert.Equal(t, FormatCount, NumberFormat(kpis, 4, 1))
	assert.Equal(t, FormatAmount, NumberFormat(kpis, 5, 1))
	assert.Equal(t, "", NumberFormat(kpis, 0, 0))

	assert.Equal(t, FormatPercent, NumberFormat(&tables[1], 0, 1))

	top := &tables[2]
	assert.Equal(t, FormatAmount, NumberFormat(top, 0, 2))
	assert.Equal(t, FormatAmount, NumberFormat(top, 1, 2))
	assert.Equal(t, FormatPercent, NumberFormat(top, 2, 2))

	payments := &tables[5]
	assert.Equal(t, FormatAmount, NumberFormat(payments, 0, 1))
	assert.Equal(t, FormatPercent, NumberFormat(payments, 0, 2))

	assert.Equal(t, FormatAmount, NumberFormat(&tables[3], 0, 1))
}

func TestFormatCell(t *testing.T) {
	tables := BuildTables(testMetrics(), testInsights(), testPeriods(), testCurrent(), fixedNow)

	assert.Equal(t, "1,234.5", FormatCell(&tables[0], 0, 1))
	assert.Equal(t, "4", FormatCell(&tables[0], 1, 1))
	assert.Equal(t, "1,520", FormatCell(&tables[0], 4, 1))
	assert.Equal(t, "7.2", FormatCell(&tables[0], 3, 1))
	assert.Equal(t, "25.0%", FormatCell(&tables[1], 0, 1))
	assert.Equal(t, "61.2%", FormatCell(&tables[2], 2, 2))
	assert.Equal(t, "Yangon", FormatCell(&tables[2], 1, 1))
}

func TestRenderMarkdown(t *testing.T) {
	md := RenderMarkdown(testReport())

	assert.True(t, strings.HasPrefix(md, "# Weekly Sales Performance Report\n"))
	assert.Contains(t, md, "Week: 2019-03-25 to 2019-03-31")
	assert.Contains(t, md, "Run: run-1")
	assert.Contains(t, md, "| Total Rows | 1,000 |")
	assert.Contains(t, md, "| invalid_city | 2 | Invalid City values: Alexandria (e.g. a, b) |")
	assert.Contains(t, md, "## Key Metrics")
	assert.Contains(t, md, "| Total Sales | 1,234.5 |")
	assert.Contains(t, md, "| Top Payment Method | Ewallet | 61.2% |")
	assert.Contains(t, md, "| Sales vs Previous 4 Weeks | 12.3% |")

	// every table gets a section, in order
	last := -1
	for _, name := range TableOrder {
		idx := strings.Index(md, "## "+tableTitles[name])
		assert.Greater(t, idx, last, "section %s out of order", name)
		last = idx
	}
}

func TestRenderMarkdown_NoWarningsAndEmptyTables(t *testing.T) {
	r := NewGenerator().WithClock(func() time.Time { return fixedNow }).Generate(Input{
		Periods: testPeriods(),
		Metrics: &domain.MetricsRecord{},
	})

	md := RenderMarkdown(r)
	assert.Contains(t, md, "No data quality warnings.")
	assert.Contains(t, md, "No data for this week.")
	assert.NotContains(t, md, "Run:")
}

func TestRenderCSV(t *testing.T) {
	tables := BuildTables(testMetrics(), testInsights(), testPeriods(), testCurrent(), fixedNow)

	out := RenderCSV(&tables[6])
	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 6)
	assert.Equal(t, []string{"Insight"}, records[0])
	assert.Equal(t, "Sales up 25.0% vs last week, led by Food and beverages.", records[1][0])

	out = RenderCSV(&tables[0])
	assert.True(t, strings.HasPrefix(out, "Metric,Value\nTotal Sales,1234.5\nTransactions,4\n"))
	assert.Equal(t, "tbl_kpis.csv", CSVFileName(&tables[0]))
}

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Weekly_Data.xlsx")
	r := testReport()

	require.NoError(t, WriteWorkbook(path, "dashboard_data", r.Tables))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"dashboard_data"}, f.GetSheetList())

	raw := excelize.Options{RawCellValue: true}
	get := func(cell string) string {
		v, err := f.GetCellValue("dashboard_data", cell, raw)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "Metric", get("A1"))
	assert.Equal(t, "Total Sales", get("A2"))
	assert.Equal(t, "4", get("B3"))
	assert.Equal(t, "Metric", get("A31"))
	assert.Equal(t, "Sales vs Last Week", get("A32"))
	assert.Equal(t, "Category", get("A61"))
	assert.Equal(t, "Product line", get("A91"))
	assert.Equal(t, "Day", get("A121"))
	assert.Equal(t, "Payment", get("A151"))
	assert.Equal(t, "Insight", get("A181"))
	assert.Equal(t, "Report Information", get("A211"))
	assert.Equal(t, "WEEKLY SALES PERFORMANCE REPORT", get("A212"))

	width, err := f.GetColWidth("dashboard_data", "A")
	require.NoError(t, err)
	assert.Equal(t, 80.0, width)
}

func TestTableStartRow(t *testing.T) {
	want := []int{1, 31, 61, 91, 121, 151, 181, 211}
	for i, w := range want {
		assert.Equal(t, w, TableStartRow(i))
	}
}
