// Package httputil provides the retry discipline shared by the
// bibliographic API clients.
//
// # Retry
//
// [Policy.Do] wraps a request with a courtesy pause and retries failures
// that are wrapped in [RetryableError]:
//
//   - Throttled responses (429, 502, 503, 504) wait for the server's
//     Retry-After hint, or 2^attempt+0.5 seconds without one.
//   - Other transient failures (timeouts, dropped connections) wait a
//     delay that grows by [Policy.Factor] after each failure.
//
// Any other error is returned immediately. Every wait, and the pause
// before each attempt, observes the context so a cancelled crawl stops at
// the next checkpoint:
//
//	err := httputil.DefaultPolicy().Do(ctx, func(ctx context.Context) error {
//	    return fetch(ctx)
//	})
//
// # Configuration
//
// [DefaultPolicy] makes 5 attempts with a 1 second initial delay growing
// by 1.5x, and pauses 300ms before every request.
package httputil
