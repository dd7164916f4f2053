package ingestion

import (
	"fmt"
	"strconv"
	"time"

	"weekly-sales-report/internal/domain"
)

// KindFixtures serves a generated export ending on the current day.
const KindFixtures = "fixtures"

const (
	fixtureDays        = 35
	fixtureSalesPerDay = 3
)

var (
	fixtureBranches = []struct{ branch, city string }{
		{"Alex", "Yangon"}, {"Giza", "Naypyitaw"}, {"Cairo", "Mandalay"},
	}
	fixtureProducts = []string{
		"Health and beauty", "Electronic accessories", "Home and lifestyle",
		"Sports and travel", "Food and beverages", "Fashion accessories",
	}
	fixturePayments  = []string{"Ewallet", "Cash", "Credit card"}
	fixtureCustomers = []string{"Member", "Normal"}
	fixtureGenders   = []string{"Female", "Male"}
)

// Fixtures generates a reconciled five-week export ending on latest.
// Values are deterministic in the row index, so the same latest always
// yields the same table.
func Fixtures(latest time.Time) *domain.RawTable {
	y, m, d := latest.Date()
	last := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	first := last.AddDate(0, 0, -(fixtureDays - 1))

	raw := &domain.RawTable{Header: append([]string(nil), domain.ExportColumns...)}
	i := 0
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		for n := 0; n < fixtureSalesPerDay; n++ {
			raw.Rows = append(raw.Rows, fixtureRow(i, day))
			i++
		}
	}
	return raw
}

func fixtureRow(i int, day time.Time) []string {
	b := fixtureBranches[i%len(fixtureBranches)]
	price := float64(1000+(i*373)%9000) / 100
	qty := float64(1 + (i*7)%10)
	cogs := price * qty
	tax := price * qty * 0.05
	sales := price*qty + tax

	return []string{
		fmt.Sprintf("%03d-%02d-%04d", 100+i%900, i%97, i),
		b.branch,
		b.city,
		fixtureCustomers[i%len(fixtureCustomers)],
		fixtureGenders[(i/2)%len(fixtureGenders)],
		fixtureProducts[(i*5)%len(fixtureProducts)],
		num(price),
		num(qty),
		num(tax),
		num(sales),
		day.Format("1/2/2006"),
		fmt.Sprintf("%02d:%02d", 10+i%11, (i*13)%60),
		fixturePayments[(i/3)%len(fixturePayments)],
		num(cogs),
		"4.761904762",
		num(tax),
		num(float64(40+(i*17)%61) / 10),
	}
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
