package graph

import (
	"testing"
)

func checkInvariants(t *testing.T, g *Graph) {
	t.Helper()
	sumOut := 0
	in := map[string]int{}
	for _, v := range g.Vertices() {
		sumOut += v.OutDegree()
		if got := len(v.Arcs()); got != v.OutDegree() {
			t.Errorf("%s: out-degree %d, arcs %d", v.ID, v.OutDegree(), got)
		}
		for _, a := range v.Arcs() {
			in[a.To]++
		}
	}
	if sumOut != g.EdgeCount() {
		t.Errorf("edge counter %d, sum of out-degrees %d", g.EdgeCount(), sumOut)
	}
	for _, v := range g.Vertices() {
		if in[v.ID] != v.InDegree() {
			t.Errorf("%s: in-degree %d, incoming arcs %d", v.ID, v.InDegree(), in[v.ID])
		}
	}
}

func path(ids ...string) *Graph {
	g := New()
	for _, id := range ids {
		g.AddVertex(id)
	}
	for i := 0; i+1 < len(ids); i++ {
		g.AddArc(ids[i], ids[i+1], DefaultWeight)
	}
	return g
}

func TestAddVertex(t *testing.T) {
	g := New()
	if !g.AddVertex("a") {
		t.Fatal("first AddVertex should create")
	}
	if g.AddVertex("a") {
		t.Error("second AddVertex should be a no-op")
	}
	if g.VertexCount() != 1 {
		t.Errorf("VertexCount = %d, want 1", g.VertexCount())
	}
	v, _ := g.Vertex("a")
	if v.Info.Title != Placeholder || !v.Visible || v.Layer != 0 {
		t.Errorf("unexpected defaults: %+v", v)
	}
}

func TestUpsert(t *testing.T) {
	g := New()
	info := NewArticleInfo()
	info.Title = "Paper"
	info.Authors = []string{"Smith"}

	v := g.Upsert("Paper", &info)
	if v.Info.Title != "Paper" {
		t.Fatalf("title = %q", v.Info.Title)
	}

	info.Authors[0] = "changed"
	if v.Info.Authors[0] != "Smith" {
		t.Error("Upsert must copy the info")
	}

	// nil info leaves the existing payload alone
	g.Upsert("Paper", nil)
	if v.Info.Title != "Paper" {
		t.Error("Upsert(nil) must not reset info")
	}
	if g.VertexCount() != 1 {
		t.Errorf("VertexCount = %d, want 1", g.VertexCount())
	}
}

func TestAddArc(t *testing.T) {
	g := New()
	g.AddVertex("a")
	g.AddVertex("b")

	tests := []struct {
		name     string
		src, dst string
		want     bool
	}{
		{"new arc", "a", "b", true},
		{"duplicate", "a", "b", false},
		{"missing source", "x", "b", false},
		{"missing target", "a", "x", false},
		{"reverse", "b", "a", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.AddArc(tt.src, tt.dst, 2); got != tt.want {
				t.Errorf("AddArc(%s,%s) = %v, want %v", tt.src, tt.dst, got, tt.want)
			}
			checkInvariants(t, g)
		})
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount = %d, want 2", g.EdgeCount())
	}
	if a, _ := g.Arc("a", "b"); a.Weight != 2 {
		t.Errorf("weight = %v, want 2", a.Weight)
	}
}

func TestAddArcIdempotent(t *testing.T) {
	g := New()
	g.AddVertex("a")
	g.AddVertex("b")
	g.AddArc("a", "b", 1)
	g.AddArc("a", "b", 5)

	if g.EdgeCount() != 1 {
		t.Fatalf("EdgeCount = %d, want 1", g.EdgeCount())
	}
	if a, _ := g.Arc("a", "b"); a.Weight != 1 {
		t.Errorf("duplicate AddArc changed weight to %v", a.Weight)
	}
	b, _ := g.Vertex("b")
	if b.InDegree() != 1 {
		t.Errorf("in-degree = %d, want 1", b.InDegree())
	}
}

func TestRemoveArc(t *testing.T) {
	g := path("a", "b", "c")
	if !g.RemoveArc("a", "b") {
		t.Fatal("RemoveArc should succeed")
	}
	if g.RemoveArc("a", "b") {
		t.Error("second RemoveArc should fail")
	}
	if g.RemoveArc("x", "b") {
		t.Error("RemoveArc with missing source should fail")
	}
	checkInvariants(t, g)
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount = %d, want 1", g.EdgeCount())
	}
}

func TestRemoveVertex(t *testing.T) {
	g := path("a", "b", "c")
	g.AddArc("a", "c", 1)

	if !g.RemoveVertex("b") {
		t.Fatal("RemoveVertex should succeed")
	}
	if g.RemoveVertex("b") {
		t.Error("RemoveVertex on missing vertex should fail")
	}
	checkInvariants(t, g)

	edges := g.Edges()
	if len(edges) != 1 || edges[0].From != "a" || edges[0].To != "c" {
		t.Fatalf("edges = %+v, want [a->c]", edges)
	}
	a, _ := g.Vertex("a")
	c, _ := g.Vertex("c")
	if a.OutDegree() != 1 {
		t.Errorf("a out-degree = %d, want 1", a.OutDegree())
	}
	if c.InDegree() != 1 {
		t.Errorf("c in-degree = %d, want 1", c.InDegree())
	}
}

func TestRemoveVertexSelfLoop(t *testing.T) {
	g := New()
	g.AddVertex("a")
	g.AddVertex("b")
	g.AddArc("a", "a", 1)
	g.AddArc("a", "b", 1)
	g.AddArc("b", "a", 1)

	g.RemoveVertex("a")
	checkInvariants(t, g)
	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount = %d, want 0", g.EdgeCount())
	}
}

func TestDensity(t *testing.T) {
	tests := []struct {
		name string
		g    *Graph
		want float64
	}{
		{"empty", New(), 0},
		{"single", path("a"), 0},
		{"path of three", path("a", "b", "c"), 2.0 / 6.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.g.Density(); got != tt.want {
				t.Errorf("Density = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAdjacentAndEdgesOrder(t *testing.T) {
	g := New()
	for _, id := range []string{"r", "x", "y"} {
		g.AddVertex(id)
	}
	g.AddArc("r", "y", 1)
	g.AddArc("r", "x", 3)

	adj := g.Adjacent("r")
	if len(adj) != 2 || adj[0].To != "y" || adj[1] != (Adjacency{To: "x", Weight: 3}) {
		t.Errorf("Adjacent = %+v", adj)
	}
	if g.Adjacent("missing") != nil {
		t.Error("Adjacent on missing vertex should be nil")
	}
	if got := g.IDs(); len(got) != 3 || got[0] != "r" || got[2] != "y" {
		t.Errorf("IDs = %v", got)
	}
}

func TestArcEvidenceDefaults(t *testing.T) {
	g := path("a", "b")
	a, ok := g.Arc("a", "b")
	if !ok {
		t.Fatal("arc missing")
	}
	if len(a.Components) != len(ComponentKeys) {
		t.Errorf("components = %v", a.Components)
	}
	if a.ExactEvidence != 0 || a.PartialEvidence != 0 || len(a.Provenance) != 0 || !a.UpdatedAt.IsZero() {
		t.Errorf("evidence fields should be zero: %+v", a)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	g := path("a", "b")
	v, _ := g.Vertex("a")
	v.Info.Authors = []string{"Smith"}

	c := g.Clone()
	g.AddVertex("z")
	g.AddArc("b", "a", 1)
	v.Info.Authors[0] = "changed"

	if c.VertexCount() != 2 || c.EdgeCount() != 1 {
		t.Errorf("clone changed: %d vertices, %d edges", c.VertexCount(), c.EdgeCount())
	}
	cv, _ := c.Vertex("a")
	if cv.Info.Authors[0] != "Smith" {
		t.Error("clone shares author slice")
	}
	checkInvariants(t, c)
}

func TestClear(t *testing.T) {
	g := path("a", "b", "c")
	g.Clear()
	if g.VertexCount() != 0 || g.EdgeCount() != 0 || len(g.Edges()) != 0 {
		t.Error("Clear should empty the graph")
	}
	if !g.AddVertex("a") {
		t.Error("graph should be reusable after Clear")
	}
}
