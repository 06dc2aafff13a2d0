package metrics

import (
	"context"
	"slices"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/matzehuels/citegraph/pkg/graph"
)

var tracer = otel.Tracer("citegraph.metrics")

// TopN is the length of the rankings included in a [Report].
const TopN = 10

// Options selects the optional measures computed by [Compute]. Degree
// centrality and density are always included.
type Options struct {
	PageRank    bool
	Betweenness bool
	Closeness   bool

	PageRankOptions PageRankOptions
}

// Ranked is one entry of a top-N ranking.
type Ranked struct {
	ID    string  `json:"id"`
	Value float64 `json:"valor"`
	Title string  `json:"titulo"`
}

// Report is the combined metrics document for a graph.
type Report struct {
	Density     float64            `json:"densidad"`
	Vertices    int                `json:"num_vertices"`
	Edges       int                `json:"num_aristas"`
	Degree      map[string]float64 `json:"centralidad_grado"`
	PageRank    map[string]float64 `json:"pagerank,omitempty"`
	Betweenness map[string]float64 `json:"betweenness,omitempty"`
	Closeness   map[string]float64 `json:"closeness,omitempty"`

	TopDegree   []Ranked `json:"top_10_centralidad"`
	TopPageRank []Ranked `json:"top_10_pagerank,omitempty"`
}

// Compute builds a [Report] for g. Each measure runs in its own trace span.
func Compute(ctx context.Context, g *graph.Graph, opts Options) *Report {
	ctx, span := tracer.Start(ctx, "metrics.Compute",
		trace.WithAttributes(
			attribute.Int("vertex_count", g.VertexCount()),
			attribute.Int("edge_count", g.EdgeCount()),
		),
	)
	defer span.End()

	r := &Report{
		Density:  g.Density(),
		Vertices: g.VertexCount(),
		Edges:    g.EdgeCount(),
	}
	traced(ctx, "metrics.Degree", func() { r.Degree = Degree(g) })
	r.TopDegree = Top(g, r.Degree, TopN)

	if opts.PageRank {
		traced(ctx, "metrics.PageRank", func() {
			res := PageRank(g, opts.PageRankOptions)
			span.SetAttributes(
				attribute.Int("pagerank.iterations", res.Iterations),
				attribute.Bool("pagerank.converged", res.Converged),
			)
			r.PageRank = res.Scores
		})
		r.TopPageRank = Top(g, r.PageRank, TopN)
	}
	if opts.Betweenness {
		traced(ctx, "metrics.Betweenness", func() { r.Betweenness = Betweenness(g) })
	}
	if opts.Closeness {
		traced(ctx, "metrics.Closeness", func() { r.Closeness = Closeness(g) })
	}
	return r
}

func traced(ctx context.Context, name string, fn func()) {
	_, span := tracer.Start(ctx, name)
	defer span.End()
	fn()
}

// Top returns the n highest-scoring vertices, highest first. Ties keep
// vertex insertion order. Titles come from the vertex info.
func Top(g *graph.Graph, scores map[string]float64, n int) []Ranked {
	out := make([]Ranked, 0, len(scores))
	for _, v := range g.Vertices() {
		s, ok := scores[v.ID]
		if !ok {
			continue
		}
		out = append(out, Ranked{ID: v.ID, Value: s, Title: v.Info.Title})
	}
	slices.SortStableFunc(out, func(a, b Ranked) int {
		switch {
		case a.Value > b.Value:
			return -1
		case a.Value < b.Value:
			return 1
		}
		return 0
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
