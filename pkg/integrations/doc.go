// Package integrations provides HTTP clients for bibliographic APIs.
//
// # Overview
//
// Each provider has its own subpackage:
//
//   - [semanticscholar]: Semantic Scholar Graph API (papers, citations,
//     references, authors)
//
// # Client Pattern
//
// Provider clients embed [Client] and follow one pattern:
//
//	client := semanticscholar.NewClient(backend, cache.DefaultTTL, apiKey)
//	paper, err := client.SearchPaper(ctx, "attention is all you need", false)
//
// [Client] handles:
//   - a courtesy pause before every request
//   - retries: Retry-After or 2^attempt+0.5s for 429/502/503/504, a growing
//     backoff for transport failures
//   - response caching through [cache.Cache]
//   - HTTP and cache events through the observability hooks
//
// [semanticscholar]: github.com/matzehuels/citegraph/pkg/integrations/semanticscholar
// [cache.Cache]: github.com/matzehuels/citegraph/pkg/cache.Cache
package integrations
