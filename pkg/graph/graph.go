package graph

import "slices"

// DefaultWeight is the weight given to arcs when none is specified.
const DefaultWeight = 1.0

// Graph is a directed citation graph keyed by vertex title.
//
// Every mutation keeps the global edge counter equal to the sum of vertex
// out-degrees, and each in-degree equal to the number of arcs pointing at
// the vertex. "Not found" conditions are reported through boolean results,
// never errors.
//
// The zero value is not usable - use [New]. Graph is not safe for concurrent
// use; the task store serializes access to the shared current graph.
type Graph struct {
	vertices map[string]*Vertex
	order    []string
	edges    int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{vertices: make(map[string]*Vertex)}
}

// =============================================================================
// Vertices
// =============================================================================

// AddVertex inserts a bare vertex if absent and reports whether it was
// created.
func (g *Graph) AddVertex(id string) bool {
	if _, ok := g.vertices[id]; ok {
		return false
	}
	g.vertices[id] = newVertex(id)
	g.order = append(g.order, id)
	return true
}

// Upsert creates the vertex if absent and then, if info is non-nil, replaces
// its ArticleInfo with a copy of *info. It returns the vertex.
func (g *Graph) Upsert(id string, info *ArticleInfo) *Vertex {
	g.AddVertex(id)
	v := g.vertices[id]
	if info != nil {
		v.Info = info.Clone()
	}
	return v
}

// RemoveVertex deletes the vertex, its outgoing arcs and every arc pointing
// at it. It reports false if the vertex did not exist.
func (g *Graph) RemoveVertex(id string) bool {
	v, ok := g.vertices[id]
	if !ok {
		return false
	}
	for _, uid := range g.order {
		if uid == id {
			continue
		}
		u := g.vertices[uid]
		if _, ok := u.arcs[id]; ok {
			u.deleteArc(id)
			g.edges--
		}
	}
	for _, dst := range v.arcOrder {
		if dst != id {
			g.vertices[dst].inDegree--
		}
		g.edges--
	}
	delete(g.vertices, id)
	if i := slices.Index(g.order, id); i >= 0 {
		g.order = slices.Delete(g.order, i, i+1)
	}
	return true
}

// Vertex returns the vertex with the given id.
func (g *Graph) Vertex(id string) (*Vertex, bool) {
	v, ok := g.vertices[id]
	return v, ok
}

// HasVertex reports whether a vertex with the given id exists.
func (g *Graph) HasVertex(id string) bool {
	_, ok := g.vertices[id]
	return ok
}

// IDs returns vertex ids in insertion order.
func (g *Graph) IDs() []string {
	return slices.Clone(g.order)
}

// Vertices returns all vertices in insertion order.
func (g *Graph) Vertices() []*Vertex {
	out := make([]*Vertex, len(g.order))
	for i, id := range g.order {
		out[i] = g.vertices[id]
	}
	return out
}

// VertexCount returns the number of vertices.
func (g *Graph) VertexCount() int { return len(g.vertices) }

// Info returns a copy of the vertex's ArticleInfo.
func (g *Graph) Info(id string) (ArticleInfo, bool) {
	v, ok := g.vertices[id]
	if !ok {
		return ArticleInfo{}, false
	}
	return v.Info.Clone(), true
}

// SetInfo replaces the vertex's ArticleInfo. It reports false if the vertex
// does not exist.
func (g *Graph) SetInfo(id string, info ArticleInfo) bool {
	v, ok := g.vertices[id]
	if !ok {
		return false
	}
	v.Info = info.Clone()
	return true
}

// =============================================================================
// Arcs
// =============================================================================

// AddArc adds an arc src->dst with the given weight. It reports false,
// without changing anything, if either endpoint is missing or the arc
// already exists.
func (g *Graph) AddArc(src, dst string, weight float64) bool {
	s, ok := g.vertices[src]
	if !ok {
		return false
	}
	d, ok := g.vertices[dst]
	if !ok {
		return false
	}
	if _, dup := s.arcs[dst]; dup {
		return false
	}
	s.arcs[dst] = newArc(dst, weight)
	s.arcOrder = append(s.arcOrder, dst)
	s.outDegree++
	d.inDegree++
	g.edges++
	return true
}

// RemoveArc removes the arc src->dst and reports whether it existed.
func (g *Graph) RemoveArc(src, dst string) bool {
	s, ok := g.vertices[src]
	if !ok {
		return false
	}
	if _, ok := s.arcs[dst]; !ok {
		return false
	}
	s.deleteArc(dst)
	g.vertices[dst].inDegree--
	g.edges--
	return true
}

// HasArc reports whether the arc src->dst exists.
func (g *Graph) HasArc(src, dst string) bool {
	s, ok := g.vertices[src]
	return ok && s.HasArc(dst)
}

// Arc returns the arc src->dst.
func (g *Graph) Arc(src, dst string) (*Arc, bool) {
	s, ok := g.vertices[src]
	if !ok {
		return nil, false
	}
	a, ok := s.arcs[dst]
	return a, ok
}

// Adjacent returns the (destination, weight) pairs of the vertex's outgoing
// arcs, or nil if the vertex does not exist.
func (g *Graph) Adjacent(id string) []Adjacency {
	v, ok := g.vertices[id]
	if !ok {
		return nil
	}
	out := make([]Adjacency, 0, len(v.arcOrder))
	for _, dst := range v.arcOrder {
		out = append(out, Adjacency{To: dst, Weight: v.arcs[dst].Weight})
	}
	return out
}

// Edges returns every arc as a (source, destination, weight) triple,
// grouped by source in vertex insertion order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, g.edges)
	for _, id := range g.order {
		v := g.vertices[id]
		for _, dst := range v.arcOrder {
			out = append(out, Edge{From: id, To: dst, Weight: v.arcs[dst].Weight})
		}
	}
	return out
}

// EdgeCount returns the global edge counter.
func (g *Graph) EdgeCount() int { return g.edges }

// Density returns E/(V(V-1)) for V>1, else 0.
func (g *Graph) Density() float64 {
	n := len(g.vertices)
	if n <= 1 {
		return 0
	}
	return float64(g.edges) / float64(n*(n-1))
}

// =============================================================================
// Whole-graph operations
// =============================================================================

// Clear removes every vertex and arc.
func (g *Graph) Clear() {
	g.vertices = make(map[string]*Vertex)
	g.order = nil
	g.edges = 0
}

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		vertices: make(map[string]*Vertex, len(g.vertices)),
		order:    slices.Clone(g.order),
		edges:    g.edges,
	}
	for id, v := range g.vertices {
		nv := *v
		nv.Info = v.Info.Clone()
		nv.arcs = make(map[string]*Arc, len(v.arcs))
		for dst, a := range v.arcs {
			nv.arcs[dst] = a.clone()
		}
		nv.arcOrder = slices.Clone(v.arcOrder)
		c.vertices[id] = &nv
	}
	return c
}

func (v *Vertex) deleteArc(dst string) {
	delete(v.arcs, dst)
	if i := slices.Index(v.arcOrder, dst); i >= 0 {
		v.arcOrder = slices.Delete(v.arcOrder, i, i+1)
	}
	v.outDegree--
}
