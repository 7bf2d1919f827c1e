package main

import (
	"context"

	"github.com/google/uuid"
	"github.com/voidshard/salespipe/pkg/catalog"
	"github.com/voidshard/salespipe/pkg/logger"
)

type catalogCmd struct {
	Out string `default:"data/products.json" help:"Where to write the snapshot, usable later as --catalog-source=file:/path."`
}

func (c *catalogCmd) Run(g *globals) error {
	cfg, err := g.load(nil)
	if err != nil {
		return err
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format).With().Str("run_id", uuid.New().String()).Logger()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RunTimeout)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	src := catalog.Open(cfg.Catalog.Source, httpConfig(cfg))
	log.Info().Str("source", cfg.Catalog.Source).Msg("fetching catalog")

	products, err := src.Products(ctx)
	if err != nil {
		return err
	}

	if err := catalog.WriteSnapshot(c.Out, products); err != nil {
		return err
	}
	log.Info().Int("products", len(products)).Str("out", c.Out).Msg("catalog snapshot written")
	return nil
}
