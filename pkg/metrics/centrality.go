package metrics

import "github.com/matzehuels/citegraph/pkg/graph"

// Degree returns (in-degree + out-degree) / (2(n-1)) for every vertex, or
// zero for every vertex when n <= 1.
func Degree(g *graph.Graph) map[string]float64 {
	n := g.VertexCount()
	out := make(map[string]float64, n)
	for _, v := range g.Vertices() {
		if n <= 1 {
			out[v.ID] = 0
			continue
		}
		out[v.ID] = float64(v.InDegree()+v.OutDegree()) / float64(2*(n-1))
	}
	return out
}

// Betweenness computes betweenness centrality with Brandes' algorithm using
// unweighted shortest paths. Scores are multiplied by 1/((n-1)(n-2)) when
// n > 2 and left unscaled otherwise.
func Betweenness(g *graph.Graph) map[string]float64 {
	ids := g.IDs()
	cb := make(map[string]float64, len(ids))
	for _, id := range ids {
		cb[id] = 0
	}

	for _, s := range ids {
		var stack []string
		pred := make(map[string][]string, len(ids))
		sigma := make(map[string]float64, len(ids))
		dist := make(map[string]int, len(ids))
		for _, id := range ids {
			dist[id] = -1
		}
		sigma[s] = 1
		dist[s] = 0

		queue := []string{s}
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			stack = append(stack, v)
			for _, adj := range g.Adjacent(v) {
				w := adj.To
				if dist[w] < 0 {
					queue = append(queue, w)
					dist[w] = dist[v] + 1
				}
				if dist[w] == dist[v]+1 {
					sigma[w] += sigma[v]
					pred[w] = append(pred[w], v)
				}
			}
		}

		delta := make(map[string]float64, len(ids))
		for i := len(stack) - 1; i >= 0; i-- {
			w := stack[i]
			for _, v := range pred[w] {
				delta[v] += sigma[v] / sigma[w] * (1 + delta[w])
			}
			if w != s {
				cb[w] += delta[w]
			}
		}
	}

	if n := len(ids); n > 2 {
		scale := 1 / float64((n-1)*(n-2))
		for id := range cb {
			cb[id] *= scale
		}
	}
	return cb
}

// Closeness computes, for each source, (reachable-1)/sum(distances) over
// the vertices reachable from it (the source included in the count). A
// source that reaches nothing scores 0. Unreachable vertices do not
// penalize the score.
func Closeness(g *graph.Graph) map[string]float64 {
	out := make(map[string]float64, g.VertexCount())
	for _, s := range g.IDs() {
		dist := map[string]int{s: 0}
		queue := []string{s}
		total := 0
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			for _, adj := range g.Adjacent(v) {
				if _, seen := dist[adj.To]; seen {
					continue
				}
				dist[adj.To] = dist[v] + 1
				total += dist[adj.To]
				queue = append(queue, adj.To)
			}
		}
		reachable := len(dist) - 1
		if reachable > 0 && total > 0 {
			out[s] = float64(reachable) / float64(total)
		} else {
			out[s] = 0
		}
	}
	return out
}
