package pipeline

import (
	"context"

	"github.com/voidshard/salespipe/pkg/analytics"
	"github.com/voidshard/salespipe/pkg/domain"
	"github.com/voidshard/salespipe/pkg/enrich"
	"github.com/voidshard/salespipe/pkg/logger"
	"github.com/voidshard/salespipe/pkg/parser"
	"github.com/voidshard/salespipe/pkg/validator"
)

// Options configures one pipeline run.
type Options struct {
	Filter    validator.Filter
	Analytics analytics.Options
}

// Result is everything a run derives from one set of raw lines.
type Result struct {
	LinesRead int
	Parsed    int

	Valid      []*domain.Transaction
	Validation validator.Summary

	Analytics *analytics.Summary

	Enriched   []*domain.EnrichedTransaction
	Enrichment enrich.Stats
}

// Run parses, validates, summarises and enriches lines. Problems with
// individual records end up in the counters, never as an error; the logger
// in ctx (if any) is told about each dropped record at debug level.
func Run(ctx context.Context, lines []string, mapping domain.ProductMapping, opts Options) *Result {
	log := logger.FromContext(ctx)

	parsed := parser.ParseWith(lines, func(n int, line string, err error) {
		log.Debug().Int("line", n+1).Err(err).Msg("skipping malformed line")
	})

	valid, _, summary := validator.ValidateWith(parsed, opts.Filter, func(t *domain.Transaction, err error) {
		log.Debug().Str("transaction_id", t.TransactionID).Err(err).Msg("dropping transaction")
	})

	log.Info().
		Int("lines", len(lines)).
		Int("parsed", len(parsed)).
		Int("invalid", summary.Invalid).
		Int("filtered_by_region", summary.FilteredByRegion).
		Int("filtered_by_amount", summary.FilteredByAmount).
		Int("valid", summary.FinalCount).
		Msg("validated transactions")

	if mapping == nil {
		mapping = domain.ProductMapping{}
	}
	enriched, stats := enrich.Merge(valid, mapping)

	log.Info().
		Int("enriched", stats.Enriched).
		Int("total", stats.Total).
		Float64("success_rate", stats.SuccessRate).
		Strs("failed_products", stats.FailedProducts).
		Msg("enriched transactions")

	return &Result{
		LinesRead:  len(lines),
		Parsed:     len(parsed),
		Valid:      valid,
		Validation: summary,
		Analytics:  analytics.Summarize(valid, opts.Analytics),
		Enriched:   enriched,
		Enrichment: stats,
	}
}
