/*Basic command structure*/
package main

import (
	"github.com/alecthomas/kong"
	"github.com/voidshard/salespipe/pkg/catalog"
	"github.com/voidshard/salespipe/pkg/config"
)

// globals holds global options
type globals struct {
	Config        string `help:"YAML config file, layered under SALESPIPE_* env vars and flags."`
	LogLevel      string `help:"Log level [debug info warn error]."`
	LogFormat     string `help:"Log output [console json]."`
	CatalogSource string `name:"catalog-source" help:"Product catalog [https://dummyjson.com/products file:/path/products.json]."`
}

// cli commands / args available
var cli struct {
	Ctx globals `embed:""`

	Process processCmd `cmd:"" help:"Parse, validate, analyse and enrich sales files."`
	Catalog catalogCmd `cmd:"" help:"Snapshot the product catalog to a JSON file."`
}

// load reads the layered config, applies global flags then any command
// flags, and validates the result.
func (g *globals) load(override func(*config.Config)) (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}

	if g.LogLevel != "" {
		cfg.Log.Level = g.LogLevel
	}
	if g.LogFormat != "" {
		cfg.Log.Format = g.LogFormat
	}
	if g.CatalogSource != "" {
		cfg.Catalog.Source = g.CatalogSource
	}
	if override != nil {
		override(cfg)
	}

	return cfg, cfg.Validate()
}

func httpConfig(cfg *config.Config) catalog.HTTPConfig {
	return catalog.HTTPConfig{
		PageSize:      cfg.Catalog.PageSize,
		MaxRetries:    cfg.Catalog.MaxRetries,
		Timeout:       cfg.Catalog.Timeout,
		RetryInterval: cfg.Catalog.RetryInterval,
	}
}

func main() {
	ctx := kong.Parse(&cli)
	err := ctx.Run(&cli.Ctx)
	ctx.FatalIfErrorf(err)
}
