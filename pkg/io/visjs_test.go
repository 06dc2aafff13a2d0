package io

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/citegraph/pkg/graph"
)

func TestLabel(t *testing.T) {
	long := strings.Repeat("x", 45)
	tests := []struct {
		in, want string
	}{
		{"", graph.Untitled},
		{graph.Placeholder, graph.Untitled},
		{"Short title", "Short title"},
		{strings.Repeat("y", 40), strings.Repeat("y", 40)},
		{long, strings.Repeat("x", 37) + "..."},
		{strings.Repeat("é", 41), strings.Repeat("é", 37) + "..."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Label(tt.in), "Label(%q)", tt.in)
	}
}

func TestTooltip(t *testing.T) {
	info := graph.NewArticleInfo()
	info.Title = "Deep Learning"
	info.Authors = []string{"LeCun", "Bengio", "Hinton", "Ng", "Li"}
	info.Year = 2015
	info.CitationCount = 42
	info.DOI = "10.1038/nature14539"

	want := "Deep Learning\n" +
		"Autores: LeCun, Bengio, Hinton (+2)\n" +
		"Año: 2015 | Citas: 42\n" +
		"DOI: 10.1038/nature14539"
	assert.Equal(t, want, Tooltip(info))

	bare := graph.NewArticleInfo()
	assert.Equal(t, "No disponible\nAutores: No disponible\nAño: N/A | Citas: 0", Tooltip(bare))
}

func TestSize(t *testing.T) {
	tests := map[int]int{0: 15, 10: 15, 11: 20, 100: 20, 101: 25, 1000: 25, 1001: 35}
	for cites, want := range tests {
		assert.Equal(t, want, Size(cites), "Size(%d)", cites)
	}
}

func TestDefaultColor(t *testing.T) {
	tests := []struct {
		typ   graph.CitationType
		layer int
		want  string
	}{
		{graph.TypeRoot, 0, ColorRoot},
		{graph.TypeCiting, 0, ColorCiting},
		{graph.TypeReference, 0, ColorReference},
		{graph.TypeNone, 1, ColorEntity},
		{graph.TypeA, 0, ColorDefault},
	}
	for _, tt := range tests {
		v := &graph.Vertex{Type: tt.typ, Layer: tt.layer}
		assert.Equal(t, tt.want, DefaultColor(v))
	}
}

func TestToVisJS(t *testing.T) {
	g := graph.New()
	info := graph.NewArticleInfo()
	info.Title = "Root"
	info.Year = 2020
	info.CitationCount = 150
	v := g.Upsert("Root", &info)
	v.Type = graph.TypeRoot
	v.X = 10

	g.AddVertex("Author")
	a, _ := g.Vertex("Author")
	a.Layer = 1
	a.Color = "#000000"
	a.Visible = false
	g.AddArc("Root", "Author", 2.5)

	doc := ToVisJS(g)
	require.Len(t, doc.Nodes, 2)
	require.Len(t, doc.Edges, 1)

	root := doc.Nodes[0]
	assert.Equal(t, "Root", root.Label)
	assert.Equal(t, ColorRoot, root.Color)
	assert.Equal(t, 25, root.Size)
	assert.Equal(t, ShapeArticle, root.Shape)
	assert.Equal(t, 12, root.Font.Size)
	require.NotNil(t, root.X)
	assert.Equal(t, 10.0, *root.X)
	assert.Nil(t, root.Y)
	assert.False(t, root.Hidden)
	require.NotNil(t, root.Data.Year)
	assert.Equal(t, 2020, *root.Data.Year)
	assert.Nil(t, root.Data.DOI)
	assert.Equal(t, "raiz", *root.Data.Type)
	assert.Equal(t, []string{}, root.Data.Authors)

	author := doc.Nodes[1]
	assert.Equal(t, "#000000", author.Color)
	assert.Equal(t, ShapeEntity, author.Shape)
	assert.True(t, author.Hidden)
	assert.Nil(t, author.Data.Type)

	e := doc.Edges[0]
	assert.Equal(t, VisEdge{
		ID: 0, From: "Root", To: "Author", Value: 2.5, Arrows: "",
		Color: VisEdgeColor{Color: EdgeColor, Opacity: EdgeOpacity},
	}, e)
}
