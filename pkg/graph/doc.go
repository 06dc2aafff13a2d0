// Package graph implements the in-memory citation graph.
//
// A [Graph] maps vertex ids to [Vertex] values. The id of an article vertex
// is its title; the id of a synthesized author vertex is the author's
// display name. Identical titles collapse into a single vertex.
//
// # Layers
//
// Layer 0 holds citable works. Layers above 0 hold entities such as authors.
// Citation-only algorithms (classification, crawl bookkeeping) look at
// layer 0 only.
//
// # Invariants
//
// Every mutation preserves:
//
//   - EdgeCount() == sum of OutDegree() over all vertices
//   - InDegree(v) == number of vertices u with an arc u->v
//   - Density() == E/(V(V-1)) for V>1, else 0
//
// Mutations never fail with an error. [Graph.AddArc], [Graph.RemoveArc] and
// [Graph.RemoveVertex] report missing endpoints or duplicates through their
// boolean results.
//
// # Usage
//
//	g := graph.New()
//	g.Upsert("Attention Is All You Need", &info)
//	g.AddVertex("BERT")
//	g.AddArc("BERT", "Attention Is All You Need", graph.DefaultWeight)
package graph
