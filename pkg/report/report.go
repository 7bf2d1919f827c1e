package report

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/voidshard/salespipe/pkg/analytics"
	"github.com/voidshard/salespipe/pkg/enrich"
	"github.com/voidshard/salespipe/pkg/pipeline"
	"github.com/voidshard/salespipe/pkg/validator"
)

// Currency is the display symbol for amounts.
const Currency = "₹"

// Report is everything a report sink renders for one input file.
type Report struct {
	RunID       string
	GeneratedAt time.Time
	Input       string
	Encoding    string
	Fingerprint string

	LinesRead  int
	Parsed     int
	Validation validator.Summary
	Analytics  *analytics.Summary
	Enrichment enrich.Stats
}

// FromResult builds a Report from a pipeline run.
func FromResult(runID, input, encoding, fingerprint string, res *pipeline.Result) *Report {
	return &Report{
		RunID:       runID,
		GeneratedAt: time.Now(),
		Input:       input,
		Encoding:    encoding,
		Fingerprint: fingerprint,
		LinesRead:   res.LinesRead,
		Parsed:      res.Parsed,
		Validation:  res.Validation,
		Analytics:   res.Analytics,
		Enrichment:  res.Enrichment,
	}
}

// DateRange renders the span of the daily trend, or N/A with no data.
func (r *Report) DateRange() string {
	if r.Analytics == nil || r.Analytics.FirstDate == "" {
		return "N/A"
	}
	return fmt.Sprintf("%s to %s", r.Analytics.FirstDate, r.Analytics.LastDate)
}

// Writer renders a Report somewhere.
type Writer interface {
	Write(context.Context, *Report) error
}

// Open picks a Writer from a destination, text:/path or xlsx:/path. Without a kind
// the file extension decides, and anything but .xlsx is text.
func Open(dest string) (Writer, error) {
	if dest == "" {
		return nil, fmt.Errorf("invalid report path, expected [text:/path/report.txt] or [xlsx:/path/report.xlsx]")
	}

	bits := strings.SplitN(dest, ":", 2)
	if len(bits) == 2 {
		switch bits[0] {
		case "text":
			return NewText(bits[1]), nil
		case "xlsx":
			return NewXLSX(bits[1]), nil
		}
	}

	if strings.EqualFold(filepath.Ext(dest), ".xlsx") {
		return NewXLSX(dest), nil
	}
	return NewText(dest), nil
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
