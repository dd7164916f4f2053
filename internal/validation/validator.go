// Package validation turns a raw sales export into a cleaned table,
// separating run-aborting defects from informative warnings.
package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"weekly-sales-report/internal/config"
	"weekly-sales-report/internal/domain"
)

// Critical check names.
const (
	CheckUnitPrice     = "unit_price_non_positive"
	CheckQuantity      = "quantity_non_positive"
	CheckQuantityInt   = "quantity_not_integer"
	CheckQuantityRange = "quantity_out_of_range"
	CheckTax           = "tax_negative"
	CheckSales         = "sales_non_positive"
	CheckRating        = "rating_invalid"
)

// MaxQuantity bounds a single line quantity so it converts to int exactly.
const MaxQuantity = math.MaxInt32

// Warning check names.
const (
	CheckInvalidDates        = "invalid_dates"
	CheckTaxMismatch         = "tax_mismatch"
	CheckSalesMismatch       = "sales_mismatch"
	CheckCOGSMismatch        = "cogs_mismatch"
	CheckGrossIncomeMismatch = "gross_income_mismatch"
	CheckBranch              = "invalid_branch"
	CheckCity                = "invalid_city"
	CheckCustomerType        = "invalid_customer_type"
	CheckGender              = "invalid_gender"
	CheckPayment             = "invalid_payment"
)

// Warning is a non-blocking data quality finding.
type Warning struct {
	Check   string
	Message string
	Count   int      // affected rows
	Samples []string // first affected invoice ids
	Values  []string // distinct offending values in first-seen order (categorical checks)
}

func (w Warning) String() string {
	s := fmt.Sprintf("%s: %d row(s)", w.Message, w.Count)
	if len(w.Values) > 0 {
		s += fmt.Sprintf(" [%s]", strings.Join(w.Values, ", "))
	}
	if len(w.Samples) > 0 {
		s += fmt.Sprintf(" (e.g. %s)", strings.Join(w.Samples, ", "))
	}
	return s
}

// Result is a successful validation: the cleaned table plus warnings.
type Result struct {
	Table    *domain.CleanedTable
	Warnings []Warning
}

// DroppedRows returns the number of rows removed for unparsable dates.
func (r *Result) DroppedRows() int {
	for _, w := range r.Warnings {
		if w.Check == CheckInvalidDates {
			return w.Count
		}
	}
	return 0
}

// Warning returns the warning for check, if raised.
func (r *Result) Warning(check string) (Warning, bool) {
	for _, w := range r.Warnings {
		if w.Check == check {
			return w, true
		}
	}
	return Warning{}, false
}

// enumCheck is a categorical membership rule.
type enumCheck struct {
	check   string
	column  string
	message string
	valid   map[string]struct{}
}

// Validator enforces schema, type and value rules on a raw export.
// It is safe for concurrent use; it holds no per-run state.
type Validator struct {
	rules  config.Rules
	enums  []enumCheck
	logger *zap.Logger
}

// NewValidator creates a validator for rules.
func NewValidator(rules config.Rules) *Validator {
	rules = rules.Clone()
	return &Validator{
		rules: rules,
		enums: []enumCheck{
			newEnumCheck(CheckBranch, domain.ColBranch, "Invalid Branch values", rules.ValidBranches),
			newEnumCheck(CheckCity, domain.ColCity, "Invalid City values", rules.ValidCities),
			newEnumCheck(CheckCustomerType, domain.ColCustomerType, "Invalid Customer type values", rules.ValidCustomerTypes),
			newEnumCheck(CheckGender, domain.ColGender, "Invalid Gender values", rules.ValidGenders),
			newEnumCheck(CheckPayment, domain.ColPayment, "Invalid Payment values", rules.ValidPayments),
		},
		logger: zap.NewNop(),
	}
}

// WithLogger sets the logger used to report warnings.
func (v *Validator) WithLogger(logger *zap.Logger) *Validator {
	if logger != nil {
		v.logger = logger
	}
	return v
}

func newEnumCheck(check, column, message string, values []string) enumCheck {
	valid := make(map[string]struct{}, len(values))
	for _, val := range values {
		valid[val] = struct{}{}
	}
	return enumCheck{check: check, column: column, message: message, valid: valid}
}

// row is one export line during validation. Unparsable or missing numbers are NaN.
type row struct {
	cells       []string
	invoice     string
	date        time.Time
	unitPrice   float64
	quantity    float64
	tax         float64
	sales       float64
	cogs        float64
	grossMargin float64
	grossIncome float64
	rating      float64
}

// Validate checks raw and returns the cleaned table with warnings.
// A non-nil error is always a *FatalError; no partial table is returned with it.
func (v *Validator) Validate(raw *domain.RawTable) (*Result, error) {
	idx, err := v.checkSchema(raw)
	if err != nil {
		return nil, err
	}

	var warnings []Warning

	// Normalize dates, dropping rows that cannot be parsed
	rows := make([]*row, 0, len(raw.Rows))
	badDates := newTally(v.rules.SampleSize)
	for _, cells := range raw.Rows {
		r := &row{cells: cells, invoice: cells[idx[domain.ColInvoiceID]]}
		date, err := ParseDate(cells[idx[domain.ColDate]])
		if err != nil {
			badDates.add(r.invoice)
			continue
		}
		r.date = date
		rows = append(rows, r)
	}
	if badDates.count > 0 {
		warnings = append(warnings, badDates.warning(CheckInvalidDates,
			"Rows with invalid or missing dates were removed"))
	}
	if len(rows) == 0 {
		return nil, fatal(ErrNoValidRows, fmt.Errorf("%d input row(s), none with a parsable date", len(raw.Rows)))
	}

	for _, r := range rows {
		r.unitPrice = parseNumber(r.cells[idx[domain.ColUnitPrice]])
		r.quantity = parseNumber(r.cells[idx[domain.ColQuantity]])
		r.tax = parseNumber(r.cells[idx[domain.ColTax]])
		r.sales = parseNumber(r.cells[idx[domain.ColSales]])
		r.cogs = parseNumber(r.cells[idx[domain.ColCOGS]])
		r.grossMargin = parseNumber(r.cells[idx[domain.ColGrossMargin]])
		r.grossIncome = parseNumber(r.cells[idx[domain.ColGrossIncome]])
		r.rating = parseNumber(r.cells[idx[domain.ColRating]])
	}

	if err := v.checkInvariants(rows); err != nil {
		return nil, fatal(ErrInvariantViolated, err)
	}

	warnings = append(warnings, v.checkReconciliation(rows)...)
	warnings = append(warnings, v.checkCategories(rows, idx)...)

	for _, w := range warnings {
		v.logger.Warn("validation warning",
			zap.String("check", w.Check),
			zap.String("message", w.Message),
			zap.Int("rows", w.Count),
			zap.Strings("values", w.Values),
			zap.Strings("samples", w.Samples),
		)
	}

	table := &domain.CleanedTable{Rows: make([]domain.Sale, len(rows))}
	for i, r := range rows {
		table.Rows[i] = toSale(r, idx)
	}

	return &Result{Table: table, Warnings: warnings}, nil
}

// checkSchema verifies the table shape and returns the column index by name.
func (v *Validator) checkSchema(raw *domain.RawTable) (map[string]int, error) {
	if raw == nil || len(raw.Header) == 0 {
		return nil, fatal(ErrMalformedInput, fmt.Errorf("empty header"))
	}

	idx := make(map[string]int, len(raw.Header))
	for i, name := range raw.Header {
		if _, dup := idx[name]; dup {
			return nil, fatal(ErrMalformedInput, fmt.Errorf("duplicate column %q", name))
		}
		idx[name] = i
	}

	for i, cells := range raw.Rows {
		if len(cells) != len(raw.Header) {
			// +2: one for the header line, one for 1-based numbering
			return nil, fatal(ErrMalformedInput,
				fmt.Errorf("line %d has %d fields, expected %d", i+2, len(cells), len(raw.Header)))
		}
	}

	var missing []string
	for _, col := range v.rules.ExpectedColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &FatalError{Kind: ErrMissingColumns, Missing: missing}
	}

	return idx, nil
}

// checkInvariants runs every business-critical rule and aggregates all failures.
func (v *Validator) checkInvariants(rows []*row) error {
	checks := []struct {
		check   string
		message string
		fails   func(r *row) bool
	}{
		{CheckUnitPrice, "Unit price <= 0 or not numeric", func(r *row) bool { return !(r.unitPrice > 0) }},
		{CheckQuantity, "Quantity <= 0 or not numeric", func(r *row) bool { return !(r.quantity > 0) }},
		{CheckQuantityInt, "Quantity is not integer", func(r *row) bool {
			return !math.IsNaN(r.quantity) && r.quantity != math.Trunc(r.quantity)
		}},
		{CheckQuantityRange, "Quantity exceeds the supported range", func(r *row) bool { return r.quantity > MaxQuantity }},
		{CheckTax, "Tax 5% is negative or not numeric", func(r *row) bool { return !(r.tax >= 0) }},
		{CheckSales, "Sales <= 0 or not numeric", func(r *row) bool { return !(r.sales > 0) }},
		{CheckRating, "Invalid Rating values", func(r *row) bool { return !(r.rating >= 0 && r.rating <= 10) }},
	}

	var result *multierror.Error
	for _, c := range checks {
		t := newTally(v.rules.SampleSize)
		for _, r := range rows {
			if c.fails(r) {
				t.add(r.invoice)
			}
		}
		if t.count > 0 {
			result = multierror.Append(result, &ViolationError{
				Check:   c.check,
				Message: c.message,
				Count:   t.count,
				Samples: t.samples,
			})
		}
	}
	return result.ErrorOrNil()
}

func (v *Validator) checkReconciliation(rows []*row) []Warning {
	var warnings []Warning
	for _, rc := range v.reconciliations() {
		t := newTally(v.rules.SampleSize)
		for _, r := range rows {
			if !isClose(rc.stored(r), rc.expect(r), v.rules.RelTolerance, rc.atol) {
				t.add(r.invoice)
			}
		}
		if t.count > 0 {
			warnings = append(warnings, t.warning(rc.check, rc.message))
		}
	}
	return warnings
}

func (v *Validator) checkCategories(rows []*row, idx map[string]int) []Warning {
	var warnings []Warning
	for _, ec := range v.enums {
		col := idx[ec.column]
		t := newTally(v.rules.SampleSize)
		seen := make(map[string]struct{})
		var values []string
		for _, r := range rows {
			val := r.cells[col]
			if _, ok := ec.valid[val]; ok {
				continue
			}
			t.add(r.invoice)
			if _, dup := seen[val]; !dup {
				seen[val] = struct{}{}
				values = append(values, val)
			}
		}
		if t.count > 0 {
			w := t.warning(ec.check, ec.message)
			w.Values = values
			warnings = append(warnings, w)
		}
	}
	return warnings
}

func toSale(r *row, idx map[string]int) domain.Sale {
	return domain.Sale{
		InvoiceID:    r.invoice,
		Branch:       r.cells[idx[domain.ColBranch]],
		City:         r.cells[idx[domain.ColCity]],
		CustomerType: r.cells[idx[domain.ColCustomerType]],
		Gender:       r.cells[idx[domain.ColGender]],
		ProductLine:  r.cells[idx[domain.ColProductLine]],
		UnitPrice:    r.unitPrice,
		Quantity:     int(r.quantity),
		Tax:          r.tax,
		Sales:        r.sales,
		Date:         r.date,
		Time:         r.cells[idx[domain.ColTime]],
		Payment:      r.cells[idx[domain.ColPayment]],
		COGS:         r.cogs,
		GrossMargin:  r.grossMargin,
		GrossIncome:  r.grossIncome,
		Rating:       r.rating,
	}
}

// parseNumber parses a numeric cell. Empty, non-numeric and non-finite cells yield NaN.
func parseNumber(cell string) float64 {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsInf(f, 0) {
		return math.NaN()
	}
	return f
}

// tally counts affected rows and keeps the first few invoice ids.
type tally struct {
	count   int
	limit   int
	samples []string
}

func newTally(limit int) *tally {
	return &tally{limit: limit}
}

func (t *tally) add(invoice string) {
	t.count++
	if len(t.samples) < t.limit {
		t.samples = append(t.samples, invoice)
	}
}

func (t *tally) warning(check, message string) Warning {
	return Warning{Check: check, Message: message, Count: t.count, Samples: t.samples}
}
