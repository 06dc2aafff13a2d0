package integrations

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeout bounds a single upstream request.
const DefaultTimeout = 40 * time.Second

var (
	// ErrNotFound is returned when the upstream API answers 404.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors,
	// throttling that outlasted the retry budget).
	ErrNetwork = errors.New("network error")

	// ErrStatus is returned for unexpected status codes that are not retried.
	ErrStatus = errors.New("unexpected status")
)

// NewHTTPClient creates an HTTP client with the given per-request timeout,
// or [DefaultTimeout] when timeout is not positive.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// ParseRetryAfter reads a Retry-After header given either as delay seconds
// or as an HTTP date. It returns 0 when the header is absent or invalid.
func ParseRetryAfter(v string, now time.Time) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if secs, err := strconv.ParseFloat(v, 64); err == nil {
		if secs <= 0 {
			return 0
		}
		return time.Duration(secs * float64(time.Second))
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := t.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}

// PathEscape percent-encodes a single path segment.
func PathEscape(s string) string { return url.PathEscape(s) }
