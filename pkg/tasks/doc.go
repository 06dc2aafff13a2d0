// Package tasks runs crawls as tracked tasks and owns the shared current
// graph.
//
// A [Manager] creates a [Task] per request and drives a [crawl.Crawler]
// either inline ([Manager.Run]) or in the background ([Manager.Start]).
// Both paths go through the same code: crawl into a private graph, then
// integrate it into the [Store] under its lock, replacing or merging per
// request.
//
// # Task lifecycle
//
//	pendiente -> en_progreso -> completado | cancelado | error
//
// Terminal states are final. [Manager.Cancel] only applies to a task in
// progress; it cancels the crawl's context and the crawler stops at its
// next checkpoint. A cancelled task keeps whatever was crawled: the
// partial graph is integrated and exposed as the task result.
//
// Progress events from the crawler are drained into the task, and
// [Task.Snapshot] returns a consistent copy for pollers.
//
// [crawl.Crawler]: github.com/matzehuels/citegraph/pkg/crawl.Crawler
package tasks
