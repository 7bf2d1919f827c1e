package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/voidshard/salespipe/pkg/domain"
)

const (
	// DefaultTopN is how many products TopProducts returns by default
	DefaultTopN = 5

	// DefaultLowThreshold is the quantity below which a product is low performing
	DefaultLowThreshold = 10
)

var hundred = decimal.NewFromInt(100)

type RegionStat struct {
	Region           string          `json:"region"`
	TotalSales       decimal.Decimal `json:"total_sales"`
	TransactionCount int             `json:"transaction_count"`
	Percentage       decimal.Decimal `json:"percentage"`
}

type ProductStat struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

type CustomerStat struct {
	CustomerID     string          `json:"customer_id"`
	TotalSpent     decimal.Decimal `json:"total_spent"`
	PurchaseCount  int             `json:"purchase_count"`
	AvgOrderValue  decimal.Decimal `json:"avg_order_value"`
	ProductsBought []string        `json:"products_bought"`
}

type DayStat struct {
	Date             string          `json:"date"`
	Revenue          decimal.Decimal `json:"revenue"`
	TransactionCount int             `json:"transaction_count"`
	UniqueCustomers  int             `json:"unique_customers"`
}

// TotalRevenue sums Amount over all transactions.
func TotalRevenue(txns []*domain.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txns {
		total = total.Add(t.Amount())
	}
	return total
}

// RegionSales groups revenue by region, highest revenue first.
func RegionSales(txns []*domain.Transaction) []RegionStat {
	total := TotalRevenue(txns)
	regions := newGroup[RegionStat]()

	for _, t := range txns {
		r := regions.get(t.Region)
		r.TotalSales = r.TotalSales.Add(t.Amount())
		r.TransactionCount++
	}

	result := make([]RegionStat, 0, regions.len())
	regions.each(func(key string, r *RegionStat) {
		r.Region = key
		if !total.IsZero() {
			r.Percentage = r.TotalSales.Div(total).Mul(hundred)
		}
		result = append(result, *r)
	})

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].TotalSales.GreaterThan(result[j].TotalSales)
	})
	return result
}

// products sums quantity and revenue per product name, in first seen order.
func products(txns []*domain.Transaction) []ProductStat {
	byName := newGroup[ProductStat]()
	for _, t := range txns {
		p := byName.get(t.ProductName)
		p.Quantity += t.Quantity
		p.Revenue = p.Revenue.Add(t.Amount())
	}

	result := make([]ProductStat, 0, byName.len())
	byName.each(func(key string, p *ProductStat) {
		p.Name = key
		result = append(result, *p)
	})
	return result
}

// TopProducts returns the n products with the largest total quantity.
func TopProducts(txns []*domain.Transaction, n int) []ProductStat {
	ranked := products(txns)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Quantity > ranked[j].Quantity
	})

	if n < 0 {
		n = 0
	}
	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n]
}

// LowPerformers returns products whose total quantity is below threshold,
// smallest quantity first.
func LowPerformers(txns []*domain.Transaction, threshold int) []ProductStat {
	low := []ProductStat{}
	for _, p := range products(txns) {
		if p.Quantity < threshold {
			low = append(low, p)
		}
	}

	sort.SliceStable(low, func(i, j int) bool {
		return low[i].Quantity < low[j].Quantity
	})
	return low
}

// CustomerAnalysis reports spend per customer, biggest spender first.
func CustomerAnalysis(txns []*domain.Transaction) []CustomerStat {
	type acc struct {
		spent    decimal.Decimal
		count    int
		products map[string]bool
	}

	customers := newGroup[acc]()
	for _, t := range txns {
		c := customers.get(t.CustomerID)
		c.spent = c.spent.Add(t.Amount())
		c.count++
		if c.products == nil {
			c.products = map[string]bool{}
		}
		c.products[t.ProductName] = true
	}

	result := make([]CustomerStat, 0, customers.len())
	customers.each(func(key string, c *acc) {
		bought := make([]string, 0, len(c.products))
		for name := range c.products {
			bought = append(bought, name)
		}
		sort.Strings(bought)

		result = append(result, CustomerStat{
			CustomerID:     key,
			TotalSpent:     c.spent,
			PurchaseCount:  c.count,
			AvgOrderValue:  c.spent.Div(decimal.NewFromInt(int64(c.count))),
			ProductsBought: bought,
		})
	})

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].TotalSpent.GreaterThan(result[j].TotalSpent)
	})
	return result
}

// DailyTrend reports revenue per day in calendar order. Dates that do not
// parse as YYYY-MM-DD sort after all others, in first seen order.
func DailyTrend(txns []*domain.Transaction) []DayStat {
	type acc struct {
		stat      DayStat
		day       time.Time
		parsed    bool
		customers map[string]bool
	}

	days := newGroup[acc]()
	for _, t := range txns {
		d := days.get(t.Date)
		if d.customers == nil {
			d.customers = map[string]bool{}
			d.day, d.parsed = parseDay(t)
		}
		d.stat.Revenue = d.stat.Revenue.Add(t.Amount())
		d.stat.TransactionCount++
		d.customers[t.CustomerID] = true
	}

	accs := make([]*acc, 0, days.len())
	days.each(func(key string, d *acc) {
		d.stat.Date = key
		d.stat.UniqueCustomers = len(d.customers)
		accs = append(accs, d)
	})

	sort.SliceStable(accs, func(i, j int) bool {
		a, b := accs[i], accs[j]
		if a.parsed != b.parsed {
			return a.parsed
		}
		return a.parsed && a.day.Before(b.day)
	})

	result := make([]DayStat, len(accs))
	for i, d := range accs {
		result[i] = d.stat
	}
	return result
}

func parseDay(t *domain.Transaction) (time.Time, bool) {
	day, err := t.Day()
	return day, err == nil
}

// PeakDay returns the day with the most revenue, or nil when there are no
// transactions. Ties go to the earliest day.
func PeakDay(txns []*domain.Transaction) *DayStat {
	return peakOf(DailyTrend(txns))
}

func peakOf(trend []DayStat) *DayStat {
	var peak *DayStat
	for i := range trend {
		if peak == nil || trend[i].Revenue.GreaterThan(peak.Revenue) {
			peak = &trend[i]
		}
	}
	if peak == nil {
		return nil
	}
	out := *peak
	return &out
}
