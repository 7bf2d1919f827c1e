package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Sheet names, in workbook order.
const (
	SheetSummary       = "Summary"
	SheetRegions       = "Regions"
	SheetProducts      = "Top Products"
	SheetCustomers     = "Customers"
	SheetDaily         = "Daily Trend"
	SheetLowPerformers = "Low Performers"
	SheetEnrichment    = "Enrichment"
)

// check it meets the interface
var _ Writer = &XLSX{}

// XLSX writes a workbook with one sheet per view. Amounts are numbers
// rounded to two places so they stay usable in formulas.
type XLSX struct {
	filename string
}

func NewXLSX(filename string) *XLSX {
	return &XLSX{filename: filename}
}

type table struct {
	name   string
	header []interface{}
	rows   [][]interface{}
}

func (x *XLSX) Write(ctx context.Context, r *Report) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, t := range tables(r) {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), t.name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(t.name); err != nil {
			return err
		}

		if err := writeTable(f, t); err != nil {
			return fmt.Errorf("sheet %s: %w", t.name, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(x.filename), 0755); err != nil {
		return err
	}
	return f.SaveAs(x.filename)
}

func writeTable(f *excelize.File, t *table) error {
	rows := append([][]interface{}{t.header}, t.rows...)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(t.name, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func tables(r *Report) []*table {
	a := r.Analytics

	peak := "No data available"
	if a.PeakDay != nil {
		peak = fmt.Sprintf("%s (%s)", a.PeakDay.Date, Amount(a.PeakDay.Revenue))
	}

	summary := &table{
		name:   SheetSummary,
		header: []interface{}{"Metric", "Value"},
		rows: [][]interface{}{
			{"Input", r.Input},
			{"Encoding", r.Encoding},
			{"Fingerprint", r.Fingerprint},
			{"Run", r.RunID},
			{"Generated", r.GeneratedAt.Format("2006-01-02 15:04:05")},
			{"Total Revenue", money(a.TotalRevenue)},
			{"Total Transactions", a.TransactionCount},
			{"Average Order Value", money(a.AvgOrderValue)},
			{"Date Range", r.DateRange()},
			{"Peak Day", peak},
			{"Lines Read", r.LinesRead},
			{"Parsed", r.Parsed},
			{"Invalid", r.Validation.Invalid},
			{"Filtered by Region", r.Validation.FilteredByRegion},
			{"Filtered by Amount", r.Validation.FilteredByAmount},
			{"Valid", r.Validation.FinalCount},
		},
	}

	regions := &table{
		name:   SheetRegions,
		header: []interface{}{"Region", "Total Sales", "Percentage", "Transactions"},
	}
	for _, reg := range a.Regions {
		regions.rows = append(regions.rows, []interface{}{
			reg.Region, money(reg.TotalSales), money(reg.Percentage), reg.TransactionCount,
		})
	}

	products := &table{
		name:   SheetProducts,
		header: []interface{}{"Rank", "Product", "Quantity", "Revenue"},
	}
	for i, p := range a.TopProducts {
		products.rows = append(products.rows, []interface{}{i + 1, p.Name, p.Quantity, money(p.Revenue)})
	}

	customers := &table{
		name:   SheetCustomers,
		header: []interface{}{"Customer", "Total Spent", "Orders", "Avg Order", "Products"},
	}
	for _, c := range a.Customers {
		customers.rows = append(customers.rows, []interface{}{
			c.CustomerID, money(c.TotalSpent), c.PurchaseCount, money(c.AvgOrderValue),
			strings.Join(c.ProductsBought, ", "),
		})
	}

	daily := &table{
		name:   SheetDaily,
		header: []interface{}{"Date", "Revenue", "Transactions", "Unique Customers"},
	}
	for _, d := range a.DailyTrend {
		daily.rows = append(daily.rows, []interface{}{d.Date, money(d.Revenue), d.TransactionCount, d.UniqueCustomers})
	}

	low := &table{
		name:   SheetLowPerformers,
		header: []interface{}{"Product", "Quantity", "Revenue"},
	}
	for _, p := range a.LowPerformers {
		low.rows = append(low.rows, []interface{}{p.Name, p.Quantity, money(p.Revenue)})
	}

	e := r.Enrichment
	enrichment := &table{
		name:   SheetEnrichment,
		header: []interface{}{"Metric", "Value"},
		rows: [][]interface{}{
			{"Total", e.Total},
			{"Enriched", e.Enriched},
			{"Success Rate", e.SuccessRate},
			{"Unmatched Products", strings.Join(e.FailedProducts, ", ")},
		},
	}

	return []*table{summary, regions, products, customers, daily, low, enrichment}
}
