// Package semanticscholar provides a client for the Semantic Scholar Graph
// API and its adapter to the crawler.
//
// # Endpoints
//
//   - GET /paper/search?query=&limit=1&fields=   best match for a title or DOI
//   - GET /paper/{id}?fields=                    paper detail, citations, references
//   - GET /author/search?query=&limit=1          best author match
//   - GET /author/{id}/papers?fields=&limit=     an author's papers
//
// An API key, when configured, is sent as the x-api-key header. Without a
// key the public rate limit applies and 429 responses are common; the
// shared client waits them out.
//
// [Provider] adapts the client to [crawl.Provider]: 404 becomes "no
// match", and failures that outlast the retry budget become
// [crawl.ErrNoResult].
//
// [crawl.Provider]: github.com/matzehuels/citegraph/pkg/crawl.Provider
// [crawl.ErrNoResult]: github.com/matzehuels/citegraph/pkg/crawl.ErrNoResult
package semanticscholar
