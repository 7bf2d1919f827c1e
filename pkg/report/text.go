package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
	"github.com/voidshard/salespipe/pkg/crypto"
)

const (
	topCustomers = 5
	trendDays    = 10
	rule         = "----------------------------------------"
	heavyRule    = "========================================"
)

// check it meets the interface
var _ Writer = &Text{}

// Text writes a plain text report.
type Text struct {
	filename string
}

func NewText(filename string) *Text {
	return &Text{filename: filename}
}

func (t *Text) Write(ctx context.Context, r *Report) error {
	buf := &bytes.Buffer{}
	Render(buf, r)

	if err := os.MkdirAll(filepath.Dir(t.filename), 0755); err != nil {
		return err
	}
	return os.WriteFile(t.filename, buf.Bytes(), 0644)
}

// Amount formats d for display: currency symbol, thousands grouping and
// two decimals.
func Amount(d decimal.Decimal) string {
	return Currency + humanize.FormatFloat("#,###.##", money(d))
}

func percent(d decimal.Decimal) string {
	return d.StringFixed(2) + "%"
}

func section(w io.Writer, title string) {
	fmt.Fprintf(w, "%s\n%s\n", title, rule)
}

// Render writes the text layout of r to w.
func Render(w io.Writer, r *Report) {
	a := r.Analytics

	fmt.Fprintf(w, "SALES ANALYTICS REPORT\n%s\n", heavyRule)
	fmt.Fprintf(w, "Input: %s (%s, %s)\n", r.Input, r.Encoding, crypto.Short(r.Fingerprint))
	fmt.Fprintf(w, "Run: %s\n\n", r.RunID)

	section(w, "OVERALL SUMMARY")
	fmt.Fprintf(w, "Total Revenue: %s\n", Amount(a.TotalRevenue))
	fmt.Fprintf(w, "Total Transactions: %d\n", a.TransactionCount)
	fmt.Fprintf(w, "Average Order Value: %s\n", Amount(a.AvgOrderValue))
	fmt.Fprintf(w, "Date Range: %s\n\n", r.DateRange())

	section(w, "REGION WISE SALES")
	for _, reg := range a.Regions {
		fmt.Fprintf(w, "%s: %s (%s), Transactions: %d\n",
			reg.Region, Amount(reg.TotalSales), percent(reg.Percentage), reg.TransactionCount)
	}
	fmt.Fprintln(w)

	section(w, "TOP SELLING PRODUCTS")
	for i, p := range a.TopProducts {
		fmt.Fprintf(w, "%d. %s | Quantity: %d | Revenue: %s\n", i+1, p.Name, p.Quantity, Amount(p.Revenue))
	}
	fmt.Fprintln(w)

	section(w, "TOP CUSTOMERS")
	for i, c := range a.Customers {
		if i >= topCustomers {
			break
		}
		fmt.Fprintf(w, "%d. %s | Total Spent: %s | Orders: %d | Avg Order: %s\n",
			i+1, c.CustomerID, Amount(c.TotalSpent), c.PurchaseCount, Amount(c.AvgOrderValue))
	}
	fmt.Fprintln(w)

	section(w, fmt.Sprintf("DAILY SALES TREND (first %d days)", trendDays))
	for i, d := range a.DailyTrend {
		if i >= trendDays {
			break
		}
		fmt.Fprintf(w, "%s: Revenue %s, Transactions %d, Customers %d\n",
			d.Date, Amount(d.Revenue), d.TransactionCount, d.UniqueCustomers)
	}
	fmt.Fprintln(w)

	section(w, "PEAK SALES DAY")
	if a.PeakDay != nil {
		fmt.Fprintf(w, "Date: %s, Revenue: %s, Transactions: %d\n",
			a.PeakDay.Date, Amount(a.PeakDay.Revenue), a.PeakDay.TransactionCount)
	} else {
		fmt.Fprintln(w, "No data available")
	}
	fmt.Fprintln(w)

	section(w, "LOW PERFORMING PRODUCTS")
	if len(a.LowPerformers) == 0 {
		fmt.Fprintln(w, "None")
	}
	for _, p := range a.LowPerformers {
		fmt.Fprintf(w, "%s | Quantity: %d | Revenue: %s\n", p.Name, p.Quantity, Amount(p.Revenue))
	}
	fmt.Fprintln(w)

	v := r.Validation
	section(w, "DATA QUALITY")
	fmt.Fprintf(w, "Lines Read: %d\n", r.LinesRead)
	fmt.Fprintf(w, "Parsed: %d (malformed: %d)\n", r.Parsed, r.LinesRead-r.Parsed)
	fmt.Fprintf(w, "Invalid: %d\n", v.Invalid)
	fmt.Fprintf(w, "Filtered by Region: %d\n", v.FilteredByRegion)
	fmt.Fprintf(w, "Filtered by Amount: %d\n", v.FilteredByAmount)
	fmt.Fprintf(w, "Valid: %d\n\n", v.FinalCount)

	e := r.Enrichment
	section(w, "API ENRICHMENT SUMMARY")
	fmt.Fprintf(w, "Enriched Transactions: %d / %d\n", e.Enriched, e.Total)
	fmt.Fprintf(w, "Success Rate: %.2f%%\n", e.SuccessRate)
	if len(e.FailedProducts) > 0 {
		fmt.Fprintf(w, "Unmatched Products: %s\n", strings.Join(e.FailedProducts, ", "))
	}

	fmt.Fprintf(w, "\nReport generated on: %s\n", r.GeneratedAt.Format("2006-01-02 15:04:05"))
}
