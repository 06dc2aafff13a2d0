package metrics

import (
	"math"

	"github.com/matzehuels/citegraph/pkg/graph"
)

// PageRank defaults.
const (
	DefaultDamping    = 0.85
	DefaultIterations = 100
	DefaultTolerance  = 1e-6
)

// PageRankOptions configures [PageRank].
type PageRankOptions struct {
	// Damping is the probability of following an arc. Must be in [0, 1].
	Damping float64
	// Iterations caps the number of power iterations. Must be > 0.
	Iterations int
	// Tolerance stops iteration once the L1 change drops below it.
	Tolerance float64
}

// DefaultPageRankOptions returns damping 0.85, 100 iterations and a 1e-6
// tolerance.
func DefaultPageRankOptions() PageRankOptions {
	return PageRankOptions{
		Damping:    DefaultDamping,
		Iterations: DefaultIterations,
		Tolerance:  DefaultTolerance,
	}
}

// WithDefaults replaces out-of-range values with defaults.
func (o PageRankOptions) WithDefaults() PageRankOptions {
	if o.Damping < 0 || o.Damping > 1 {
		o.Damping = DefaultDamping
	}
	if o.Iterations <= 0 {
		o.Iterations = DefaultIterations
	}
	if o.Tolerance <= 0 {
		o.Tolerance = DefaultTolerance
	}
	return o
}

// PageRankResult holds scores and convergence details.
type PageRankResult struct {
	Scores     map[string]float64
	Iterations int
	Converged  bool
	Diff       float64 // L1 change of the last iteration
}

// PageRank runs power iteration starting from 1/n:
//
//	pr'[v] = (1-d)/n + d * sum(pr[u]/outdeg(u) for u->v)
//
// Vertices without outgoing arcs keep their mass to themselves rather than
// redistributing it, so the total rank can fall below 1.
func PageRank(g *graph.Graph, opts PageRankOptions) *PageRankResult {
	opts = opts.WithDefaults()
	n := g.VertexCount()
	res := &PageRankResult{Scores: make(map[string]float64, n)}
	if n == 0 {
		res.Converged = true
		return res
	}

	ids := g.IDs()
	pr := make(map[string]float64, n)
	for _, id := range ids {
		pr[id] = 1 / float64(n)
	}
	base := (1 - opts.Damping) / float64(n)

	for res.Iterations < opts.Iterations {
		res.Iterations++
		incoming := make(map[string]float64, n)
		for _, v := range g.Vertices() {
			if v.OutDegree() == 0 {
				continue
			}
			share := pr[v.ID] / float64(v.OutDegree())
			for _, a := range v.Arcs() {
				incoming[a.To] += share
			}
		}

		next := make(map[string]float64, n)
		diff := 0.0
		for _, id := range ids {
			next[id] = base + opts.Damping*incoming[id]
			diff += math.Abs(next[id] - pr[id])
		}
		pr = next
		res.Diff = diff
		if diff < opts.Tolerance {
			res.Converged = true
			break
		}
	}
	res.Scores = pr
	return res
}
