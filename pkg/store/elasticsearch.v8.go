package store

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/voidshard/salespipe/pkg/domain"
	"github.com/voidshard/salespipe/pkg/logger"

	"github.com/cenkalti/backoff/v4"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
)

// from https://github.com/elastic/go-elasticsearch/blob/master/_examples/bulk/indexer.go

const (
	esIndex = "salespipe-enriched"
	esFlush = 2048

	envEsAddr = "ELASTICSEARCH_SERVICE_HOST"
	envEsPort = "ELASTICSEARCH_SERVICE_PORT"
)

// ElasticsearchV8 bulk indexes enriched transactions, one document per
// TransactionID, so re-running over the same input overwrites in place.
type ElasticsearchV8 struct {
	addresses []string
}

func NewElasticsearchV8(urls ...string) Store {
	if len(urls) == 0 || (len(urls) == 1 && urls[0] == "") {
		address := os.Getenv(envEsAddr)
		port := os.Getenv(envEsPort)
		if port == "" {
			port = "9200" // default port
		}
		if address == "" {
			address = "localhost" // default address
		}
		urls = []string{fmt.Sprintf("http://%s:%s", address, port)}
	}

	return &ElasticsearchV8{addresses: urls}
}

func (e *ElasticsearchV8) Write(ctx context.Context, txns []*domain.EnrichedTransaction) error {
	log := logger.FromContext(ctx)
	retryBackoff := backoff.NewExponentialBackOff()

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: e.addresses,

		// Retry on 429 TooManyRequests statuses
		RetryOnStatus: []int{502, 503, 504, 429},

		// Configure the backoff function
		RetryBackoff: func(i int) time.Duration {
			if i == 1 {
				retryBackoff.Reset()
			}
			return retryBackoff.NextBackOff()
		},

		// Retry up to 5 attempts
		MaxRetries: 5,
	})
	if err != nil {
		return err
	}

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:         esIndex,
		FlushBytes:    esFlush,
		Client:        es,
		NumWorkers:    4,
		FlushInterval: 10 * time.Second,
	})
	if err != nil {
		return err
	}

	_, err = es.Indices.Create(esIndex)
	if err != nil {
		log.Debug().Err(err).Str("index", esIndex).Msg("attempted to make index")
	}

	for _, t := range txns {
		data, err := t.JSON()
		if err != nil {
			return err
		}

		err = bi.Add(
			ctx,
			esutil.BulkIndexerItem{
				Action:     "index",
				DocumentID: t.TransactionID,
				Body:       bytes.NewReader(data),

				OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
					if err != nil {
						log.Error().Err(err).Str("transaction_id", item.DocumentID).Msg("failed to index transaction")
					} else {
						log.Error().Str("type", res.Error.Type).Str("reason", res.Error.Reason).
							Str("transaction_id", item.DocumentID).Msg("failed to index transaction")
					}
				},
			},
		)
		if err != nil {
			return err
		}
	}

	if err := bi.Close(ctx); err != nil {
		return err
	}

	stats := bi.Stats()
	if stats.NumFailed > 0 {
		return fmt.Errorf("failed indexing %d of %d docs", stats.NumFailed, stats.NumAdded)
	}

	log.Info().Uint64("indexed", stats.NumFlushed).Str("index", esIndex).Msg("indexed enriched transactions")
	return nil
}
