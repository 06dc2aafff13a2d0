// Package metrics computes centrality measures over a citation graph.
//
// All functions are read-only over the [graph.Graph] they receive. They do
// not lock; callers that share a graph across goroutines pass a snapshot or
// hold the store's read lock (see tasks.Store.View).
//
// # Measures
//
//   - [Degree]: (in+out)/(2(n-1)), all zero when n<=1
//   - [PageRank]: power iteration without dangling-mass redistribution, so
//     ranks may sum to less than 1 when sinks exist
//   - [Betweenness]: Brandes over unweighted BFS, scaled by 1/((n-1)(n-2))
//     when n>2
//   - [Closeness]: (reachable-1)/sum(distances) over the set reachable from
//     each source
//
// [Compute] bundles them into a [Report] with top-10 rankings, tracing each
// computation with OpenTelemetry.
package metrics
