package analytics

import (
	"github.com/shopspring/decimal"
	"github.com/voidshard/salespipe/pkg/domain"
)

// Options tunes the views that take parameters. Zero values mean defaults.
type Options struct {
	TopN         int
	LowThreshold int
}

func (o Options) withDefaults() Options {
	if o.TopN <= 0 {
		o.TopN = DefaultTopN
	}
	if o.LowThreshold <= 0 {
		o.LowThreshold = DefaultLowThreshold
	}
	return o
}

// Summary bundles every view over one validated set.
type Summary struct {
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	TransactionCount int             `json:"transaction_count"`
	AvgOrderValue    decimal.Decimal `json:"avg_order_value"`

	// FirstDate and LastDate bound the daily trend; empty with no data.
	FirstDate string `json:"first_date"`
	LastDate  string `json:"last_date"`

	Regions       []RegionStat   `json:"regions"`
	TopProducts   []ProductStat  `json:"top_products"`
	Customers     []CustomerStat `json:"customers"`
	DailyTrend    []DayStat      `json:"daily_trend"`
	PeakDay       *DayStat       `json:"peak_day"`
	LowPerformers []ProductStat  `json:"low_performers"`
}

// Summarize computes every view. txns is not modified.
func Summarize(txns []*domain.Transaction, opts Options) *Summary {
	opts = opts.withDefaults()

	s := &Summary{
		TotalRevenue:     TotalRevenue(txns),
		TransactionCount: len(txns),
		Regions:          RegionSales(txns),
		TopProducts:      TopProducts(txns, opts.TopN),
		Customers:        CustomerAnalysis(txns),
		DailyTrend:       DailyTrend(txns),
		LowPerformers:    LowPerformers(txns, opts.LowThreshold),
	}

	s.PeakDay = peakOf(s.DailyTrend)
	if s.TransactionCount > 0 {
		s.AvgOrderValue = s.TotalRevenue.Div(decimal.NewFromInt(int64(s.TransactionCount)))
	}
	if n := len(s.DailyTrend); n > 0 {
		s.FirstDate = s.DailyTrend[0].Date
		s.LastDate = s.DailyTrend[n-1].Date
	}

	return s
}
