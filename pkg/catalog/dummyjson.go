package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/voidshard/salespipe/pkg/domain"
	"github.com/voidshard/salespipe/pkg/logger"
)

// https://dummyjson.com/docs/products

const (
	DefaultBaseURL = "https://dummyjson.com/products"

	defaultPageSize      = 100
	defaultRetries       = 5
	defaultTimeout       = 6 * time.Second
	defaultRetryInterval = 500 * time.Millisecond
)

// check it meets the interface
var _ Source = &DummyJSON{}

// HTTPConfig configures a DummyJSON source. Zero values mean defaults.
type HTTPConfig struct {
	BaseURL       string
	PageSize      int
	MaxRetries    int
	Timeout       time.Duration
	RetryInterval time.Duration
}

// DummyJSON reads the paged product listing of a dummyjson style API.
type DummyJSON struct {
	baseURL       string
	pageSize      int
	maxRetries    int
	retryInterval time.Duration
	client        *http.Client
}

func NewDummyJSON(cfg HTTPConfig) *DummyJSON {
	d := &DummyJSON{
		baseURL:       cfg.BaseURL,
		pageSize:      cfg.PageSize,
		maxRetries:    cfg.MaxRetries,
		retryInterval: cfg.RetryInterval,
		client:        &http.Client{Timeout: cfg.Timeout},
	}
	if d.baseURL == "" {
		d.baseURL = DefaultBaseURL
	}
	if d.pageSize <= 0 {
		d.pageSize = defaultPageSize
	}
	if d.maxRetries <= 0 {
		d.maxRetries = defaultRetries
	}
	if d.retryInterval <= 0 {
		d.retryInterval = defaultRetryInterval
	}
	if d.client.Timeout <= 0 {
		d.client.Timeout = defaultTimeout
	}
	return d
}

func (d *DummyJSON) String() string {
	return d.baseURL
}

// Products walks every page (limit/skip) until the reported total is reached.
func (d *DummyJSON) Products(ctx context.Context) ([]*domain.Product, error) {
	log := logger.FromContext(ctx)
	products := []*domain.Product{}

	skip := 0
	for {
		uri, err := d.pageURL(skip)
		if err != nil {
			return nil, err
		}

		result, err := d.doGet(ctx, uri)
		if err != nil {
			return nil, err
		}

		page, err := parseProductsReply(result)
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", uri, err)
		}

		products = append(products, page.products()...)
		skip += len(page.Products)

		log.Debug().Int("fetched", skip).Int("total", page.Total).Msg("catalog page")

		if len(page.Products) == 0 || skip >= page.Total {
			break
		}
	}

	return products, nil
}

func (d *DummyJSON) pageURL(skip int) (string, error) {
	u, err := url.Parse(d.baseURL)
	if err != nil {
		return "", err
	}

	params := u.Query()
	params.Set("limit", strconv.Itoa(d.pageSize))
	params.Set("skip", strconv.Itoa(skip))
	params.Set("select", "id,title,category,brand,rating")
	u.RawQuery = params.Encode()

	return u.String(), nil
}

func (d *DummyJSON) newBackOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = d.retryInterval
	exp.MaxElapsedTime = 0 // bounded by retries & ctx
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(d.maxRetries)), ctx)
}

// doGet fetches uri, retrying transport errors, 429s and 5xx responses.
// Any other non 2xx status fails at once.
func (d *DummyJSON) doGet(ctx context.Context, uri string) ([]byte, error) {
	log := logger.FromContext(ctx)
	var body []byte

	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Add("Accept", "application/json")

		resp, err := d.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		status := resp.StatusCode
		if status >= 200 && status < 300 {
			body = data
			return nil
		}
		if status >= 500 || status == http.StatusTooManyRequests {
			// they're having trouble, best to retry
			return fmt.Errorf("got status code: %d (%s)", status, string(data))
		}

		// ?? probably we screwed up
		return backoff.Permanent(fmt.Errorf("got status code: %d (%s)", status, string(data)))
	}

	notify := func(err error, wait time.Duration) {
		log.Warn().Err(err).Str("uri", uri).Dur("retry_in", wait).Msg("catalog request failed")
	}

	if err := backoff.RetryNotify(op, d.newBackOff(ctx), notify); err != nil {
		return nil, err
	}
	return body, nil
}
