package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"github.com/rcski77/aes-results-scraping/internal/logger"
)

const (
	DefaultUserAgent = "aes-results/1.0 (github.com/rcski77/aes-results-scraping)"
	DefaultTimeout   = 30 * time.Second
)

// FetcherConfig controls the HTTP behaviour shared by all adapters
type FetcherConfig struct {
	Timeout           time.Duration
	RequestsPerSecond float64 // <= 0 disables rate limiting
	MaxRetries        int
	RetryWait         time.Duration // initial backoff interval
	UserAgent         string
	HTTPClient        *http.Client
}

// Fetcher performs rate-limited HTTP requests with retry on transient failures.
// It is safe for concurrent use.
type Fetcher struct {
	source     string
	client     *http.Client
	limiter    *rate.Limiter
	maxRetries int
	retryWait  time.Duration
	userAgent  string
}

// NewFetcher creates a Fetcher whose errors are attributed to source
func NewFetcher(source string, cfg FetcherConfig) *Fetcher {
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	retryWait := cfg.RetryWait
	if retryWait <= 0 {
		retryWait = 500 * time.Millisecond
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Fetcher{
		source:     source,
		client:     client,
		limiter:    rate.NewLimiter(limit, 1),
		maxRetries: maxRetries,
		retryWait:  retryWait,
		userAgent:  userAgent,
	}
}

// Get fetches url and returns the response body. header may be nil.
func (f *Fetcher) Get(ctx context.Context, url string, header http.Header) ([]byte, error) {
	return f.do(ctx, http.MethodGet, url, nil, header)
}

// GetJSON fetches url and decodes the JSON body into v
func (f *Fetcher) GetJSON(ctx context.Context, url string, v interface{}) error {
	body, err := f.Get(ctx, url, http.Header{"Accept": {"application/json"}})
	if err != nil {
		return err
	}
	if err := DecodeJSON(body, v); err != nil {
		return fmt.Errorf("%s %s: %w", f.source, url, err)
	}
	return nil
}

// PostJSON posts payload as JSON to url and decodes the JSON response into v
func (f *Fetcher) PostJSON(ctx context.Context, url string, payload, v interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}
	header := http.Header{
		"Accept":       {"application/json"},
		"Content-Type": {"application/json"},
	}
	body, err := f.do(ctx, http.MethodPost, url, data, header)
	if err != nil {
		return err
	}
	if err := DecodeJSON(body, v); err != nil {
		return fmt.Errorf("%s %s: %w", f.source, url, err)
	}
	return nil
}

// do runs one logical request, retrying transport errors, 429 and 5xx
// responses with exponential backoff. Other non-2xx statuses fail at once.
func (f *Fetcher) do(ctx context.Context, method, url string, payload []byte, header http.Header) ([]byte, error) {
	var body []byte

	op := func() error {
		if err := f.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(fmt.Errorf("rate limit wait: %w", err))
		}

		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("creating request: %w", err))
		}
		for k, vs := range header {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}
		req.Header.Set("User-Agent", f.userAgent)

		resp, err := f.client.Do(req)
		if err != nil {
			return &UnavailableError{Source: f.source, URL: url, Err: err}
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return &UnavailableError{Source: f.source, URL: url, Err: fmt.Errorf("reading body: %w", err)}
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			uerr := &UnavailableError{Source: f.source, URL: url, StatusCode: resp.StatusCode}
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				return uerr
			}
			return backoff.Permanent(uerr)
		}

		body = data
		return nil
	}

	notify := func(err error, wait time.Duration) {
		logger.IncrCounter("http.retries")
		logger.Debug("Retrying request", logger.Fields{
			"source": f.source,
			"url":    url,
			"wait":   wait.String(),
			"error":  err.Error(),
		})
	}

	start := time.Now()
	err := backoff.RetryNotify(op, f.policy(ctx), notify)
	logger.RecordTiming("http."+f.source, time.Since(start))
	if err != nil {
		logger.IncrCounter("http.failures")
		return nil, err
	}
	logger.IncrCounter("http.requests")
	return body, nil
}

// policy returns a fresh backoff schedule for one request
func (f *Fetcher) policy(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = f.retryWait
	exp.MaxInterval = 30 * time.Second
	exp.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(f.maxRetries)), ctx)
}
