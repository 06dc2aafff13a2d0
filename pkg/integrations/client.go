package integrations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/citegraph/pkg/cache"
	"github.com/matzehuels/citegraph/pkg/httputil"
	"github.com/matzehuels/citegraph/pkg/observability"
)

// Client provides shared HTTP functionality for bibliographic API clients.
// It handles response caching, retry discipline and common request headers.
//
// A cancelled context stops the client at its next checkpoint (before a
// pause or a backoff wait). A request already in flight runs to completion
// or to the HTTP timeout.
type Client struct {
	http      *http.Client
	cache     cache.Cache
	namespace string
	ttl       time.Duration
	headers   map[string]string
	policy    httputil.Policy
	logger    *log.Logger
}

// NewClient creates a Client with the given cache backend and default
// headers. Cache keys are namespaced so providers never collide. Pass nil
// for headers if no default headers are needed.
func NewClient(backend cache.Cache, namespace string, ttl time.Duration, headers map[string]string) *Client {
	if backend == nil {
		backend = cache.NewNullCache()
	}
	return &Client{
		http:      NewHTTPClient(DefaultTimeout),
		cache:     backend,
		namespace: namespace,
		ttl:       ttl,
		headers:   headers,
		policy:    httputil.DefaultPolicy(),
		logger:    log.Default(),
	}
}

// SetPolicy replaces the retry policy.
func (c *Client) SetPolicy(p httputil.Policy) { c.policy = p }

// Policy returns the retry policy.
func (c *Client) Policy() httputil.Policy { return c.policy }

// SetLogger sets the logger used for retry warnings.
func (c *Client) SetLogger(l *log.Logger) {
	if l != nil {
		c.logger = l
	}
}

// SetHTTPClient replaces the underlying HTTP client.
func (c *Client) SetHTTPClient(h *http.Client) { c.http = h }

// Get performs a GET request through the cache and retry policy and
// JSON-decodes the response into v. If refresh is true the cache is
// bypassed, and the fresh response still replaces the cached one.
//
// Errors: [ErrNotFound] for 404; [ErrStatus] for other non-retried
// statuses; [ErrNetwork] when retries ran out; ctx.Err() when cancelled.
func (c *Client) Get(ctx context.Context, rawURL string, refresh bool, v any) error {
	key := cache.HTTPKey(c.namespace, rawURL)
	if !refresh {
		if data, ok, _ := c.cache.Get(ctx, key); ok {
			if err := json.Unmarshal(data, v); err == nil {
				observability.Cache().OnCacheHit(ctx, c.namespace)
				return nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, c.namespace)
	}

	var body []byte
	err := c.policy.Do(ctx, func(ctx context.Context) error {
		data, err := c.fetch(ctx, rawURL)
		if err != nil {
			c.warnRetry(rawURL, err)
			return err
		}
		if err := json.Unmarshal(data, v); err != nil {
			return &httputil.RetryableError{Err: fmt.Errorf("decode: %w", err)}
		}
		body = data
		return nil
	})
	if err != nil {
		return err
	}

	if c.cache.Set(ctx, key, body, c.ttl) == nil {
		observability.Cache().OnCacheSet(ctx, c.namespace, len(body))
	}
	return nil
}

func (c *Client) warnRetry(rawURL string, err error) {
	var re *httputil.RetryableError
	if !errors.As(err, &re) {
		return
	}
	if re.Throttled {
		c.logger.Warn("rate limited", "url", rawURL, "retry_after", re.After, "err", re.Err)
		return
	}
	c.logger.Warn("request failed", "url", rawURL, "err", re.Err)
}

func (c *Client) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	// The request outlives cancellation; the HTTP timeout bounds it.
	req, err := http.NewRequestWithContext(context.WithoutCancel(ctx), http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	host, path := hostPath(req.URL)
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp); err != nil {
		io.Copy(io.Discard, resp.Body)
		return nil, err
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &httputil.RetryableError{Err: fmt.Errorf("%w: read body: %v", ErrNetwork, err)}
	}
	return data, nil
}

func checkStatus(resp *http.Response) error {
	code := resp.StatusCode
	switch code {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusTooManyRequests, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return &httputil.RetryableError{
			Err:       fmt.Errorf("%w: status %d", ErrNetwork, code),
			After:     ParseRetryAfter(resp.Header.Get("Retry-After"), time.Now()),
			Throttled: true,
		}
	default:
		return fmt.Errorf("%w: %d", ErrStatus, code)
	}
}

func hostPath(u *url.URL) (string, string) {
	return u.Host, u.Path
}
