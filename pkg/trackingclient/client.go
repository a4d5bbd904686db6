package trackingclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/globaltrack/globaltrack/pkg/shipment"
	"github.com/globaltrack/globaltrack/pkg/util"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"golang.org/x/exp/slices"
)

const (
	maxErrorBodyLength = 512
	maxParallelLookups = 8
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries uint64
	newBackOff func() backoff.BackOff
	cache      *ShipmentCache
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithMaxRetries(maxRetries uint64) Option {
	return func(c *Client) {
		c.maxRetries = maxRetries
	}
}

// WithBackOff replaces the exponential retry policy
func WithBackOff(newBackOff func() backoff.BackOff) Option {
	return func(c *Client) {
		c.newBackOff = newBackOff
	}
}

func WithCache(cache *ShipmentCache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/") + "/",
		httpClient: &http.Client{Timeout: 10 * time.Second},
		maxRetries: 3,
		newBackOff: func() backoff.BackOff {
			exponential := backoff.NewExponentialBackOff()
			exponential.InitialInterval = 250 * time.Millisecond
			exponential.MaxElapsedTime = 15 * time.Second
			return exponential
		},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

func NormaliseCode(code string) string {
	return strings.TrimSpace(code)
}

// Get fetches the shipment for a tracking code, from the cache when possible
func (c *Client) Get(ctx context.Context, code string) (*shipment.Shipment, error) {
	code = NormaliseCode(code)
	if code == "" {
		return nil, ErrEmptyCode
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(ctx, code); ok {
			log.Debug().Str("code", code).Msg("Tracking cache hit")
			return cached, nil
		}
	}

	var result *shipment.Shipment
	operation := func() error {
		s, err := c.fetch(ctx, code)
		if err != nil {
			return err
		}
		result = s
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), c.maxRetries), ctx)
	notify := func(err error, wait time.Duration) {
		log.Warn().Err(err).Str("code", code).Str("retry_in", wait.String()).Msg("Tracking API request failed")
	}

	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return nil, fmt.Errorf("lookup %s: %w", code, err)
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, code, result); err != nil {
			log.Error().Err(err).Str("code", code).Msg("Failed to cache shipment")
		}
	}

	return result, nil
}

func (c *Client) fetch(ctx context.Context, code string) (*shipment.Shipment, error) {
	requestURL := c.baseURL + url.PathEscape(code) + "/"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(ctx.Err())
		}
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, backoff.Permanent(ErrTrackingNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		statusErr := &StatusError{
			StatusCode: resp.StatusCode,
			Body:       util.TrimString(string(body), maxErrorBodyLength),
		}
		if statusErr.Retryable() {
			return nil, statusErr
		}
		return nil, backoff.Permanent(statusErr)
	}

	var s shipment.Shipment
	if err := json.Unmarshal(body, &s); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("decode shipment: %w", err))
	}

	return &s, nil
}

type LookupResult struct {
	Code     string             `json:"code"`
	Shipment *shipment.Shipment `json:"shipment,omitempty"`
	Err      error              `json:"-"`

	index int
}

func (r LookupResult) NotFound() bool {
	return errors.Is(r.Err, ErrTrackingNotFound)
}

// GetMany looks up several codes in parallel. Duplicates and blank codes are dropped,
// results keep the order of the first occurrence of each code.
func (c *Client) GetMany(ctx context.Context, codes []string) []LookupResult {
	seen := map[string]bool{}
	p := pool.NewWithResults[LookupResult]().WithMaxGoroutines(maxParallelLookups)

	index := 0
	for _, code := range codes {
		code := NormaliseCode(code)
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true

		position := index
		index++

		p.Go(func() LookupResult {
			s, err := c.Get(ctx, code)
			return LookupResult{Code: code, Shipment: s, Err: err, index: position}
		})
	}

	results := p.Wait()
	slices.SortFunc(results, func(a, b LookupResult) int {
		return a.index - b.index
	})

	return results
}
