// Package observability routes crawl, cache and upstream HTTP events to a
// pluggable backend.
//
// Instrumented packages call the accessors ([Crawl], [Cache], [HTTP]) and
// never import a metrics library. Until a backend is registered every event
// goes to a no-op. The serve command installs [PrometheusHooks]:
//
//	h := observability.NewPrometheusHooks()
//	observability.SetCrawlHooks(h)
//	observability.SetCacheHooks(h)
//	observability.SetHTTPHooks(h)
//	defer observability.Reset()
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// CrawlHooks observes crawler runs and task status transitions.
type CrawlHooks interface {
	OnCrawlStart(ctx context.Context, provider, direction string)
	// OnCrawlComplete reports the final state of a run: "completed",
	// "cancelled" or "error".
	OnCrawlComplete(ctx context.Context, provider, direction, state string, vertices, edges int, duration time.Duration)
	OnTaskStatus(ctx context.Context, status string)
}

// CacheHooks observes response cache lookups. namespace is the provider
// client's cache namespace.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, namespace string)
	OnCacheMiss(ctx context.Context, namespace string)
	OnCacheSet(ctx context.Context, namespace string, size int)
}

// HTTPHooks observes requests sent to bibliographic providers.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	// OnError reports transport failures, not non-2xx responses.
	OnError(ctx context.Context, method, host, path string, err error)
}

// NoopCrawlHooks discards crawl events.
type NoopCrawlHooks struct{}

func (NoopCrawlHooks) OnCrawlStart(context.Context, string, string) {}
func (NoopCrawlHooks) OnCrawlComplete(context.Context, string, string, string, int, int, time.Duration) {
}
func (NoopCrawlHooks) OnTaskStatus(context.Context, string) {}

// NoopCacheHooks discards cache events.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks discards HTTP events.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// slot holds the registered implementation of one hook interface.
type slot[T any] struct {
	v    atomic.Pointer[T]
	noop T
}

func (s *slot[T]) get() T {
	if p := s.v.Load(); p != nil {
		return *p
	}
	return s.noop
}

func (s *slot[T]) set(h T) { s.v.Store(&h) }

func (s *slot[T]) reset() { s.v.Store(nil) }

var (
	crawlSlot = slot[CrawlHooks]{noop: NoopCrawlHooks{}}
	cacheSlot = slot[CacheHooks]{noop: NoopCacheHooks{}}
	httpSlot  = slot[HTTPHooks]{noop: NoopHTTPHooks{}}
)

// SetCrawlHooks registers h. A nil h is ignored.
func SetCrawlHooks(h CrawlHooks) {
	if h != nil {
		crawlSlot.set(h)
	}
}

// SetCacheHooks registers h. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		cacheSlot.set(h)
	}
}

// SetHTTPHooks registers h. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		httpSlot.set(h)
	}
}

func Crawl() CrawlHooks { return crawlSlot.get() }
func Cache() CacheHooks { return cacheSlot.get() }
func HTTP() HTTPHooks   { return httpSlot.get() }

// Reset puts every slot back to its no-op.
func Reset() {
	crawlSlot.reset()
	cacheSlot.reset()
	httpSlot.reset()
}
