/*Sales file processing*/
package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/voidshard/salespipe/pkg/analytics"
	"github.com/voidshard/salespipe/pkg/catalog"
	"github.com/voidshard/salespipe/pkg/config"
	"github.com/voidshard/salespipe/pkg/crypto"
	"github.com/voidshard/salespipe/pkg/input"
	"github.com/voidshard/salespipe/pkg/logger"
	"github.com/voidshard/salespipe/pkg/metrics"
	"github.com/voidshard/salespipe/pkg/pipeline"
	"github.com/voidshard/salespipe/pkg/report"
	"github.com/voidshard/salespipe/pkg/store"
	"github.com/voidshard/salespipe/pkg/validator"
)

type processCmd struct {
	Inputs []string `arg:"" help:"Pipe delimited sales files."`

	Region       string `help:"Keep only this region (case insensitive)."`
	MinAmount    string `help:"Keep only transactions with amount >= this."`
	MaxAmount    string `help:"Keep only transactions with amount <= this."`
	Top          int    `help:"Number of top products to report."`
	LowThreshold int    `help:"Products selling fewer units than this are low performers."`

	Out         string `help:"Where to write [pipe:/path/file.txt jsonfile:/path/file.json es8:http://myelasticsearch:9200]"`
	Report      string `help:"Where to write the report [text:/path/report.txt xlsx:/path/report.xlsx]"`
	MetricsFile string `help:"Optional Prometheus textfile to write run metrics to."`
}

// override applies any flags set on the command line
func (p *processCmd) override(cfg *config.Config) {
	if p.Region != "" {
		cfg.Filter.Region = p.Region
	}
	if p.MinAmount != "" {
		cfg.Filter.MinAmount = p.MinAmount
	}
	if p.MaxAmount != "" {
		cfg.Filter.MaxAmount = p.MaxAmount
	}
	if p.Top > 0 {
		cfg.Analytics.TopN = p.Top
	}
	if p.LowThreshold > 0 {
		cfg.Analytics.LowThreshold = p.LowThreshold
	}
	if p.Out != "" {
		cfg.Output.Store = p.Out
	}
	if p.Report != "" {
		cfg.Output.Report = p.Report
	}
	if p.MetricsFile != "" {
		cfg.Output.MetricsFile = p.MetricsFile
	}
}

func pipelineOptions(cfg *config.Config) (pipeline.Options, error) {
	minAmount, err := validator.ParseBound(cfg.Filter.MinAmount)
	if err != nil {
		return pipeline.Options{}, err
	}
	maxAmount, err := validator.ParseBound(cfg.Filter.MaxAmount)
	if err != nil {
		return pipeline.Options{}, err
	}

	return pipeline.Options{
		Filter: validator.Filter{
			Region:    cfg.Filter.Region,
			MinAmount: minAmount,
			MaxAmount: maxAmount,
		},
		Analytics: analytics.Options{
			TopN:         cfg.Analytics.TopN,
			LowThreshold: cfg.Analytics.LowThreshold,
		},
	}, nil
}

func (p *processCmd) Run(g *globals) error {
	if len(p.Inputs) == 0 {
		return fmt.Errorf("no input files given")
	}

	cfg, err := g.load(p.override)
	if err != nil {
		return err
	}

	opts, err := pipelineOptions(cfg)
	if err != nil {
		return err
	}

	runID := uuid.New().String()
	log := logger.New(cfg.Log.Level, cfg.Log.Format).With().Str("run_id", runID).Logger()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RunTimeout)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	j := &job{
		cfg:      cfg,
		runID:    runID,
		opts:     opts,
		src:      catalog.NewCached(catalog.Open(cfg.Catalog.Source, httpConfig(cfg)), cfg.Catalog.CacheTTL),
		recorder: metrics.NewRecorder(),
		multi:    len(p.Inputs) > 1,
	}

	for _, path := range p.Inputs {
		if err := j.process(ctx, path); err != nil {
			return err
		}
	}

	if cfg.Output.MetricsFile == "" {
		return nil
	}
	log.Debug().Str("path", cfg.Output.MetricsFile).Msg("writing metrics")
	return j.recorder.WriteTextfile(cfg.Output.MetricsFile)
}

// job is the state shared by every input of one run
type job struct {
	cfg      *config.Config
	runID    string
	opts     pipeline.Options
	src      catalog.Source
	recorder *metrics.Recorder
	multi    bool
}

func (j *job) process(ctx context.Context, path string) error {
	log := logger.FromContext(ctx).With().Str("input", path).Logger()
	ctx = logger.WithContext(ctx, log)

	f, err := input.Read(path)
	if err != nil {
		return err
	}
	log.Info().
		Str("encoding", f.Encoding).
		Str("fingerprint", crypto.Short(f.Fingerprint)).
		Int("lines", len(f.Lines)).
		Msg("input read")

	// the catalog is optional, a failed fetch only costs enrichment
	mapping, err := catalog.Fetch(ctx, j.src)
	if err != nil {
		log.Warn().Err(err).Msg("catalog unavailable, continuing without enrichment")
	}

	res := pipeline.Run(ctx, f.Lines, mapping, j.opts)

	storeDest, reportDest := j.cfg.Output.Store, j.cfg.Output.Report
	if j.multi {
		storeDest = perInput(storeDest, path)
		reportDest = perInput(reportDest, path)
	}

	storage, err := store.Open(storeDest)
	if err != nil {
		return err
	}
	log.Info().Str("out", storeDest).Int("records", len(res.Enriched)).Msg("writing enriched records")
	if err := storage.Write(ctx, res.Enriched); err != nil {
		return err
	}

	writer, err := report.Open(reportDest)
	if err != nil {
		return err
	}
	if err := writer.Write(ctx, report.FromResult(j.runID, path, f.Encoding, f.Fingerprint, res)); err != nil {
		return err
	}

	j.recorder.Observe(path, res)

	log.Info().
		Str("report", reportDest).
		Str("revenue", report.Amount(res.Analytics.TotalRevenue)).
		Str("valid", humanize.Comma(int64(res.Validation.FinalCount))).
		Str("enrichment", fmt.Sprintf("%.2f%%", res.Enrichment.SuccessRate)).
		Msg("input processed")
	return nil
}

// perInput derives a per input destination from dest, so that several inputs in
// one run do not overwrite each other: data/out.txt + jan.txt gives
// data/out_jan.txt. Elasticsearch targets are shared.
func perInput(dest, source string) string {
	kind, target := "", dest
	if bits := strings.SplitN(dest, ":", 2); len(bits) == 2 {
		switch bits[0] {
		case "es8":
			return dest
		case "pipe", "jsonfile", "text", "xlsx":
			kind, target = bits[0]+":", bits[1]
		}
	}

	stem := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	ext := filepath.Ext(target)
	return kind + strings.TrimSuffix(target, ext) + "_" + stem + ext
}
