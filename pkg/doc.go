// Package pkg provides the core libraries for citegraph.
//
// # Overview
//
// citegraph crawls academic citation graphs from bibliographic providers,
// keeps one current graph in memory, and analyzes it. The pkg directory is
// organized into these areas:
//
//  1. [graph] - Directed citation graph keyed by title, with degree counters
//  2. [metrics] - Density, degree, PageRank, betweenness and closeness
//  3. [classify] - Self-citation classifier (types A, B, AB and S)
//  4. [io] - Canonical JSON, visualization JSON, tolerant import and merge
//  5. [crawl] - Breadth-first crawler over a [crawl.Provider]
//  6. [integrations] - HTTP clients for bibliographic APIs (Semantic Scholar)
//  7. [tasks] - Background crawl tasks and the shared current graph
//  8. [service] - Operations exposed by the CLI and the HTTP API
//
// Supporting packages: [cache] (response caching), [httputil] (retry),
// [errors] (coded errors), [observability] (hooks) and [render/nodelink]
// (Graphviz output).
//
// # Data Flow
//
//	Semantic Scholar API
//	         ↓
//	    [crawl] (level-by-level expansion)
//	         ↓
//	    [tasks] (integrate: merge or replace)
//	         ↓
//	    [metrics] / [classify]
//	         ↓
//	    JSON / DOT / SVG / PDF / PNG
//
// # Quick Start
//
//	svc := service.New(service.Options{})
//	doc, err := svc.SearchSync(ctx, service.SearchRequest{
//	    Title: "Attention is all you need",
//	    Depth: 1,
//	})
//	if err != nil {
//	    return err
//	}
//	rep, err := svc.Metrics(ctx, service.MetricsRequest{PageRank: true})
//
// [graph]: https://pkg.go.dev/github.com/matzehuels/citegraph/pkg/graph
// [metrics]: https://pkg.go.dev/github.com/matzehuels/citegraph/pkg/metrics
// [classify]: https://pkg.go.dev/github.com/matzehuels/citegraph/pkg/classify
// [io]: https://pkg.go.dev/github.com/matzehuels/citegraph/pkg/io
// [crawl]: https://pkg.go.dev/github.com/matzehuels/citegraph/pkg/crawl
// [crawl.Provider]: https://pkg.go.dev/github.com/matzehuels/citegraph/pkg/crawl#Provider
// [integrations]: https://pkg.go.dev/github.com/matzehuels/citegraph/pkg/integrations
// [tasks]: https://pkg.go.dev/github.com/matzehuels/citegraph/pkg/tasks
// [service]: https://pkg.go.dev/github.com/matzehuels/citegraph/pkg/service
// [cache]: https://pkg.go.dev/github.com/matzehuels/citegraph/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/matzehuels/citegraph/pkg/httputil
// [errors]: https://pkg.go.dev/github.com/matzehuels/citegraph/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/citegraph/pkg/observability
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/citegraph/pkg/render/nodelink
package pkg
