// Package crawl builds citation graphs breadth-first from a bibliographic
// provider.
//
// A [Crawler] resolves a root work through [Provider.Search], then walks
// outward one citation level at a time. A "citations" run follows works
// that cite the current one and adds citing->cited arcs. A "references"
// run follows the works the current one cites and adds citer->reference
// arcs. Vertices are keyed by title; a title seen before is skipped, so
// each work enters the graph once with the arc that discovered it.
//
// Each run writes into its own private [graph.Graph]. Requests are issued
// one at a time. Cancellation is cooperative: the context is checked at
// the top of each queue iteration and before each neighbor, and the
// provider checks it before its courtesy pause and backoff waits. A
// cancelled run returns the graph built so far without an error.
//
// Providers report lookups that failed after retries with [ErrNoResult];
// the crawler counts them and carries on. Any other provider error ends
// the run in [StateError].
//
// [graph.Graph]: github.com/matzehuels/citegraph/pkg/graph.Graph
package crawl
