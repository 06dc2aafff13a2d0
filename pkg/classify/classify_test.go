package classify

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/citegraph/pkg/graph"
)

func article(g *graph.Graph, id string, authors ...string) *graph.Vertex {
	info := graph.NewArticleInfo()
	info.Title = id
	info.Authors = authors
	return g.Upsert(id, &info)
}

func scenario() *graph.Graph {
	g := graph.New()
	article(g, "X", "Smith")
	article(g, "Y", "Smith", "Lee")
	article(g, "Z", "Jones")
	g.AddArc("X", "Y", 1)
	return g
}

func TestAuthorSet(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want []string
	}{
		{"nil", nil, nil},
		{"placeholder", graph.Placeholder, nil},
		{"delimited string", "Smith, Lee; Park | Gomez y Ruiz and Chen", []string{"smith", "lee", "park", "gomez", "ruiz", "chen"}},
		{"string list not split", []string{" Smith, J. ", "LEE"}, []string{"smith, j.", "lee"}},
		{"object", map[string]any{"fullName": "Ada Lovelace"}, []string{"ada lovelace"}},
		{"mixed list", []any{"Smith", map[string]any{"display_name": "Lee"}, map[string]any{"id": 1}, 3.0}, []string{"smith", "lee"}},
		{"key precedence", map[string]any{"author": "B", "name": "A"}, []string{"a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AuthorSet(tt.in)
			assert.Len(t, got, len(tt.want))
			for _, n := range tt.want {
				assert.Contains(t, got, n)
			}
		})
	}
}

func TestSetIntersects(t *testing.T) {
	a := AuthorSet("Smith, Lee")
	assert.True(t, a.Intersects(AuthorSet([]string{"LEE"})))
	assert.False(t, a.Intersects(AuthorSet("Jones")))
	assert.False(t, a.Intersects(Set{}))
}

func TestDegradeMarksBothEndpoints(t *testing.T) {
	g := scenario()
	authors := map[string]Set{}
	for _, v := range g.Vertices() {
		authors[v.ID] = AuthorSet(v.Info.Authors)
	}
	seed(g, authors)
	stats := degrade(g, authors)

	for _, id := range []string{"X", "Y"} {
		v, _ := g.Vertex(id)
		assert.Equal(t, graph.TypeB, v.Type, id)
		assert.Equal(t, ColorB, v.Color, id)
	}
	z, _ := g.Vertex("Z")
	assert.Equal(t, graph.TypeA, z.Type)
	assert.Equal(t, DegradeStats{Evaluated: 1, Pairs: 1, Yellow: 2, Samples: []Sample{{"X", "Y"}}}, stats)
}

func TestClassify(t *testing.T) {
	g := scenario()
	r := Classify(g)

	want := map[string]graph.CitationType{"X": graph.TypeB, "Y": graph.TypeAB, "Z": graph.TypeA}
	for id, typ := range want {
		v, _ := g.Vertex(id)
		assert.Equal(t, typ, v.Type, id)
	}
	y, _ := g.Vertex("Y")
	assert.Equal(t, ColorAB, y.Color)

	assert.Equal(t, SeedStats{Total: 3, Blue: 3}, r.Seed)
	assert.Equal(t, 1, r.Degrade.Pairs)
	assert.Equal(t, RootStats{Roots: 1, Green: 1}, r.Roots)
	assert.Equal(t, Summary{A: 1, B: 1, AB: 1, Total: 3}, r.Summary)
}

func TestClassifyIsIdempotent(t *testing.T) {
	g := scenario()
	first := Classify(g)
	second := Classify(g)
	assert.Equal(t, first, second)
}

func TestClassifyIgnoresEntityLayer(t *testing.T) {
	g := scenario()
	g.AddVertex("smith")
	author, _ := g.Vertex("smith")
	author.Layer = 1
	author.Info.Authors = []string{"Smith"}
	g.AddArc("X", "smith", 1)
	g.AddArc("Y", "smith", 1)

	r := Classify(g)
	assert.Equal(t, 4, r.Seed.Total)
	assert.Equal(t, 3, r.Seed.Blue)
	assert.Equal(t, 1, r.Degrade.Evaluated)
	assert.Equal(t, graph.TypeNone, author.Type)
	assert.Empty(t, author.Color)
	assert.Equal(t, 3, r.Summary.Total)
}

func TestClassifyWithoutAuthors(t *testing.T) {
	g := graph.New()
	article(g, "a")
	article(g, "b", "Smith")
	g.AddArc("a", "b", 1)

	r := Classify(g)
	assert.Equal(t, SeedStats{Total: 2, Blue: 1, NoAuthors: 1}, r.Seed)
	assert.Zero(t, r.Degrade.Evaluated)
	a, _ := g.Vertex("a")
	assert.Equal(t, ColorS, a.Color)
	assert.Equal(t, Summary{A: 1, S: 1, Total: 2}, r.Summary)
}

func TestClassifyChain(t *testing.T) {
	// a -> b -> c all share an author; only c has no B successor.
	g := graph.New()
	for _, id := range []string{"a", "b", "c"} {
		article(g, id, "Smith")
	}
	g.AddArc("a", "b", 1)
	g.AddArc("b", "c", 1)

	r := Classify(g)
	assert.Equal(t, 2, r.Degrade.Pairs)
	assert.Equal(t, 3, r.Degrade.Yellow)
	assert.Equal(t, Summary{B: 2, AB: 1, Total: 3}, r.Summary)
	c, _ := g.Vertex("c")
	assert.Equal(t, graph.TypeAB, c.Type)
}

func TestSamplesAreCapped(t *testing.T) {
	g := graph.New()
	long := strings.Repeat("t", 80)
	article(g, long, "Smith")
	for i := range 20 {
		id := fmt.Sprintf("p%02d", i)
		article(g, id, "Smith")
		g.AddArc(long, id, 1)
	}

	r := Classify(g)
	assert.Equal(t, 20, r.Degrade.Pairs)
	require.Len(t, r.Degrade.Samples, MaxSamples)
	assert.Len(t, r.Degrade.Samples[0].From, 50)
	assert.Equal(t, "p00", r.Degrade.Samples[0].To)
}

func TestClassifyEmpty(t *testing.T) {
	r := Classify(graph.New())
	assert.Equal(t, NewReport(), r)
	assert.NotNil(t, r.Degrade.Samples)
}

func TestSummarizeUsesColor(t *testing.T) {
	g := graph.New()
	for id, color := range map[string]string{"g": "Green", "y": "YELLOW", "b": "blue", "r": "red", "n": ""} {
		g.AddVertex(id)
		v, _ := g.Vertex(id)
		v.Color = color
	}
	assert.Equal(t, Summary{AB: 1, B: 1, A: 1, S: 2, Total: 5}, Summarize(g))
}
