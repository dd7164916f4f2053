package storage

import (
	"fmt"
	"regexp"

	"weekly-sales-report/internal/domain"
)

// DefaultTable is the staging table the exporters write to.
const DefaultTable = "raw_sales"

// OrderColumn keeps input order; the top-performer tie-break depends on it.
const OrderColumn = "row_num"

var tableNamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// stagingColumns maps export headers to staging-table columns.
var stagingColumns = map[string]string{
	domain.ColInvoiceID:    "invoice_id",
	domain.ColBranch:       "branch",
	domain.ColCity:         "city",
	domain.ColCustomerType: "customer_type",
	domain.ColGender:       "gender",
	domain.ColProductLine:  "product_line",
	domain.ColUnitPrice:    "unit_price",
	domain.ColQuantity:     "quantity",
	domain.ColTax:          "tax_5pct",
	domain.ColSales:        "sales",
	domain.ColDate:         "sale_date",
	domain.ColTime:         "sale_time",
	domain.ColPayment:      "payment",
	domain.ColCOGS:         "cogs",
	domain.ColGrossMargin:  "gross_margin_percentage",
	domain.ColGrossIncome:  "gross_income",
	domain.ColRating:       "rating",
}

// ValidateTable rejects anything that is not a plain identifier.
// Table names are interpolated into SQL, so this is the only guard.
func ValidateTable(name string) error {
	if !tableNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidTable, name)
	}
	return nil
}

// StagingColumn returns the staging column for an export header.
func StagingColumn(header string) (string, bool) {
	c, ok := stagingColumns[header]
	return c, ok
}

// StagingColumns returns the staging columns for header, in header order.
func StagingColumns(header []string) ([]string, error) {
	cols := make([]string, len(header))
	for i, h := range header {
		c, ok := stagingColumns[h]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, h)
		}
		cols[i] = c
	}
	return cols, nil
}

// ExportColumns returns the staging columns in export order, paired with their headers.
func ExportColumns() (headers, columns []string) {
	headers = append([]string(nil), domain.ExportColumns...)
	columns = make([]string, len(headers))
	for i, h := range headers {
		columns[i] = stagingColumns[h]
	}
	return headers, columns
}

// CheckRows verifies every row matches the header width.
func CheckRows(raw *domain.RawTable) error {
	for i, row := range raw.Rows {
		if len(row) != len(raw.Header) {
			return fmt.Errorf("%w: row %d has %d cells, header has %d", ErrRaggedRow, i+1, len(row), len(raw.Header))
		}
	}
	return nil
}
