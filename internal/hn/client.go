package hn

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/matheuskafuri/hnbest/internal/metrics"
	"golang.org/x/time/rate"
)

// BaseURL is the public Hacker News Firebase endpoint.
const BaseURL = "https://hacker-news.firebaseio.com"

const (
	opBestStories = "beststories"
	opItem        = "item"

	maxBodySize = 1 << 20
)

// ErrBodyTooLarge marks a response that exceeded the read limit. The payload
// is discarded rather than decoded from a truncated prefix.
var ErrBodyTooLarge = fmt.Errorf("response body exceeds %d bytes", maxBodySize)

// TransportError reports a failure to get a usable response from the API:
// connection problems, timeouts and non-2xx statuses.
type TransportError struct {
	Op         string
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: status %d", e.Op, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Retryable reports whether a later attempt might succeed.
func (e *TransportError) Retryable() bool {
	if errors.Is(e.Err, context.Canceled) || errors.Is(e.Err, ErrBodyTooLarge) {
		return false
	}
	switch {
	case e.StatusCode == 0:
		return true
	case e.StatusCode == http.StatusTooManyRequests:
		return true
	case e.StatusCode >= 500:
		return true
	default:
		return false
	}
}

// Options configures a Client. Zero values select sensible defaults.
type Options struct {
	BaseURL string
	// Timeout bounds every single HTTP attempt.
	Timeout time.Duration
	// RateLimit caps requests per second; zero disables limiting.
	RateLimit float64
	// Retries is the number of extra attempts after a retryable failure.
	Retries    int
	HTTPClient *http.Client
	Metrics    *metrics.Metrics
	Logger     *slog.Logger
}

// Client fetches raw payloads from the Hacker News API. A single Client and
// its connection pool are shared by every request in the process.
type Client struct {
	http    *http.Client
	baseURL string
	timeout time.Duration
	retries uint
	limiter *rate.Limiter
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewClient builds a Client with a pooled transport.
func NewClient(opts Options) *Client {
	c := &Client{
		http:    opts.HTTPClient,
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		timeout: opts.Timeout,
		metrics: opts.Metrics,
		logger:  opts.Logger,
	}
	if c.http == nil {
		c.http = &http.Client{Transport: newTransport()}
	}
	if c.baseURL == "" {
		c.baseURL = BaseURL
	}
	if c.timeout <= 0 {
		c.timeout = 10 * time.Second
	}
	if opts.Retries > 0 {
		c.retries = uint(opts.Retries)
	}
	if opts.RateLimit > 0 {
		burst := int(opts.RateLimit)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	return c
}

func newTransport() *http.Transport {
	return &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        64,
		MaxIdleConnsPerHost: 32,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
}

// Close releases idle pooled connections.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

// BestStories returns the raw best stories id list payload.
func (c *Client) BestStories(ctx context.Context) ([]byte, error) {
	return c.get(ctx, opBestStories, c.baseURL+"/v0/beststories.json")
}

// Item returns the raw detail payload for one item.
func (c *Client) Item(ctx context.Context, id int) ([]byte, error) {
	return c.get(ctx, opItem, fmt.Sprintf("%s/v0/item/%d.json", c.baseURL, id))
}

func (c *Client) get(ctx context.Context, op, url string) ([]byte, error) {
	attempt := func() ([]byte, error) {
		body, err := c.do(ctx, op, url)
		if err == nil {
			return body, nil
		}
		var te *TransportError
		if errors.As(err, &te) && !te.Retryable() {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 200 * time.Millisecond
	bo.MaxInterval = 2 * time.Second

	body, err := backoff.Retry(ctx, attempt,
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(c.retries+1),
		backoff.WithNotify(func(err error, wait time.Duration) {
			c.logger.Debug("retrying request", "op", op, "url", url, "wait", wait, "error", err)
		}),
	)
	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		err = perm.Err
	}
	return body, err
}

func (c *Client) do(ctx context.Context, op, url string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &TransportError{Op: op, URL: url, Err: err}
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("creating %s request: %w", op, err))
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.ObserveRequest(op, "error", time.Since(start))
		return nil, &TransportError{Op: op, URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.ObserveRequest(op, "status", time.Since(start))
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return nil, &TransportError{
			Op:         op,
			URL:        url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		c.metrics.ObserveRequest(op, "error", time.Since(start))
		return nil, &TransportError{Op: op, URL: url, Err: fmt.Errorf("reading body: %w", err)}
	}
	if len(body) > maxBodySize {
		c.metrics.ObserveRequest(op, "error", time.Since(start))
		return nil, &TransportError{Op: op, URL: url, Err: ErrBodyTooLarge}
	}
	c.metrics.ObserveRequest(op, "ok", time.Since(start))
	return body, nil
}
