package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/voidshard/salespipe/pkg/pipeline"
)

const namespace = "salespipe"

// Recorder holds the gauges of one process, labelled by input file, ready to
// be written for the node exporter textfile collector.
type Recorder struct {
	registry *prometheus.Registry

	records     *prometheus.GaugeVec
	successRate *prometheus.GaugeVec
	revenue     *prometheus.GaugeVec
	lastRun     prometheus.Gauge
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		records: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "records",
			Help:      "Records per pipeline stage.",
		}, []string{"input", "stage"}),
		successRate: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "enrichment_success_ratio",
			Help:      "Share of valid transactions matched to the catalog (0-1).",
		}, []string{"input"}),
		revenue: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "revenue_total",
			Help:      "Total revenue of valid transactions.",
		}, []string{"input"}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished.",
		}),
	}

	r.registry.MustRegister(r.records, r.successRate, r.revenue, r.lastRun)
	return r
}

// Observe records the outcome of one pipeline run over input.
func (r *Recorder) Observe(input string, res *pipeline.Result) {
	stages := map[string]int{
		"read":               res.LinesRead,
		"parsed":             res.Parsed,
		"invalid":            res.Validation.Invalid,
		"filtered_by_region": res.Validation.FilteredByRegion,
		"filtered_by_amount": res.Validation.FilteredByAmount,
		"valid":              res.Validation.FinalCount,
		"enriched":           res.Enrichment.Enriched,
	}
	for stage, n := range stages {
		r.records.WithLabelValues(input, stage).Set(float64(n))
	}

	r.successRate.WithLabelValues(input).Set(res.Enrichment.SuccessRate / 100)
	r.revenue.WithLabelValues(input).Set(res.Analytics.TotalRevenue.InexactFloat64())
	r.lastRun.SetToCurrentTime()
}

// WriteTextfile writes every metric in the text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}

// Gatherer exposes the underlying registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}
