package io

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/citegraph/pkg/graph"
)

func TestMergeFillsPlaceholderTitle(t *testing.T) {
	dst := graph.New()
	dst.AddVertex("P1")
	dst.AddVertex("P2")

	src := graph.New()
	info := graph.NewArticleInfo()
	info.Title = "Real Title"
	src.Upsert("P1", &info)
	src.AddVertex("P2")
	src.AddArc("P1", "P2", 2.0)

	stats := Merge(dst, src)

	p1, _ := dst.Vertex("P1")
	assert.Equal(t, "Real Title", p1.Info.Title)
	a, ok := dst.Arc("P1", "P2")
	require.True(t, ok)
	assert.Equal(t, 2.0, a.Weight)
	assert.Equal(t, MergeStats{NewEdges: 1, UpdatedVertices: 1}, stats)
}

func TestMergeFieldRules(t *testing.T) {
	dst := graph.New()
	d := graph.NewArticleInfo()
	d.Title = "Kept"
	d.Authors = []string{"Dst"}
	d.CitationCount = 10
	d.DOI = "10.1/dst"
	dst.Upsert("x", &d)

	src := graph.New()
	s := graph.NewArticleInfo()
	s.Title = "Other"
	s.Authors = []string{"Src"}
	s.Year = 1999
	s.CitationCount = 5
	s.DOI = "10.1/src"
	s.URL = "https://example.org"
	s.Abstract = "An abstract"
	src.Upsert("x", &s)

	Merge(dst, src)
	got, _ := dst.Info("x")
	assert.Equal(t, "Kept", got.Title)
	assert.Equal(t, []string{"Dst"}, got.Authors)
	assert.Equal(t, 1999, got.Year)
	assert.Equal(t, 10, got.CitationCount)
	assert.Equal(t, "10.1/dst", got.DOI)
	assert.Equal(t, "https://example.org", got.URL)
	assert.Equal(t, "An abstract", got.Abstract)

	s.CitationCount = 11
	src.SetInfo("x", s)
	Merge(dst, src)
	got, _ = dst.Info("x")
	assert.Equal(t, 11, got.CitationCount)
}

func TestMergeTitleEqualToIDIsPlaceholder(t *testing.T) {
	dst := graph.New()
	d := graph.NewArticleInfo()
	d.Title = "id-1"
	dst.Upsert("id-1", &d)

	src := graph.New()
	s := graph.NewArticleInfo()
	s.Title = graph.Untitled
	src.Upsert("id-1", &s)
	Merge(dst, src)
	got, _ := dst.Info("id-1")
	assert.Equal(t, "id-1", got.Title, "placeholder never replaces placeholder")

	s.Title = "Proper"
	src.SetInfo("id-1", s)
	Merge(dst, src)
	got, _ = dst.Info("id-1")
	assert.Equal(t, "Proper", got.Title)
}

func TestMergeCopiesNewVerticesAndKeepsWeights(t *testing.T) {
	dst := graph.New()
	dst.AddVertex("a")
	dst.AddVertex("b")
	dst.AddArc("a", "b", 1)

	src := graph.New()
	src.AddVertex("a")
	src.AddVertex("b")
	src.AddVertex("c")
	c, _ := src.Vertex("c")
	c.Type = graph.TypeCiting
	c.Layer = 2
	c.Engine = "Semantic Scholar"
	src.AddArc("a", "b", 7)
	src.AddArc("c", "a", 1)

	stats := Merge(dst, src)
	assert.Equal(t, MergeStats{NewVertices: 1, NewEdges: 1, ExistingEdges: 1}, stats)

	a, _ := dst.Arc("a", "b")
	assert.Equal(t, 1.0, a.Weight)
	dc, _ := dst.Vertex("c")
	assert.Equal(t, graph.TypeCiting, dc.Type)
	assert.Equal(t, 2, dc.Layer)
	assert.Equal(t, "Semantic Scholar", dc.Engine)
	assert.Equal(t, 2, dst.EdgeCount())
}

func TestCanonicalRoundTrip(t *testing.T) {
	g := graph.New()
	info := graph.NewArticleInfo()
	info.Title = "Root"
	info.Authors = []string{"A", "B"}
	info.Year = 2001
	info.DOI = "10.1/x"
	info.PaperID = "abc"
	v := g.Upsert("Root", &info)
	v.Type = graph.TypeRoot
	v.Engine = "Semantic Scholar"
	g.AddVertex("Leaf")
	leaf, _ := g.Vertex("Leaf")
	leaf.Visible = false
	g.AddArc("Leaf", "Root", 3)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(g, &buf))
	assert.Contains(t, buf.String(), `"densidad": 0.5`)

	back, err := ReadJSON(&buf)
	require.NoError(t, err)
	assert.Equal(t, g.IDs(), back.IDs())
	assert.Equal(t, g.Edges(), back.Edges())

	r, _ := back.Vertex("Root")
	assert.Equal(t, "Root", r.Info.Title)
	assert.Equal(t, []string{"A", "B"}, r.Info.Authors)
	assert.Equal(t, 2001, r.Info.Year)
	assert.Equal(t, "10.1/x", r.Info.DOI)
	assert.Equal(t, "abc", r.Info.PaperID)
	assert.Equal(t, graph.Placeholder, r.Info.Venue)
	assert.Equal(t, graph.CategoryArticle, r.Info.Category)
	assert.Equal(t, graph.TypeRoot, r.Type)
	assert.Equal(t, "Semantic Scholar", r.Engine)
	l, _ := back.Vertex("Leaf")
	assert.False(t, l.Visible)
	assert.Equal(t, 1, r.InDegree())
}

func TestCanonicalArcWeights(t *testing.T) {
	g := graph.New()
	g.AddVertex("a")
	g.AddVertex("b")
	g.AddVertex("c")
	g.AddArc("a", "b", 0)
	g.AddArc("b", "c", 2.5)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(g, &buf))
	assert.Contains(t, buf.String(), `"peso": 0`)
	back, err := ReadJSON(&buf)
	require.NoError(t, err)
	assert.Equal(t, g.Edges(), back.Edges())

	doc := `{"vertices": [{"id": "a"}, {"id": "b"}], "aristas": [{"origen": "a", "destino": "b"}]}`
	back, err = ReadJSON(strings.NewReader(doc))
	require.NoError(t, err)
	a, ok := back.Arc("a", "b")
	require.True(t, ok)
	assert.Equal(t, graph.DefaultWeight, a.Weight)
}
