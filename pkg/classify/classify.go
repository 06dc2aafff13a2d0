package classify

import (
	"strings"

	"github.com/matzehuels/citegraph/pkg/graph"
)

// Colors written to classified vertices.
const (
	ColorA  = "blue"
	ColorB  = "yellow"
	ColorAB = "green"
	ColorS  = "red"
)

// MaxSamples bounds the self-citation arcs kept in [DegradeStats.Samples].
const MaxSamples = 12

// sampleWidth truncates sample endpoint ids.
const sampleWidth = 50

// Report is the outcome of [Classify].
type Report struct {
	Seed    SeedStats    `json:"corrida1"`
	Degrade DegradeStats `json:"corrida2"`
	Roots   RootStats    `json:"corrida3"`
	Summary Summary      `json:"resumen"`
}

// SeedStats describes the first pass. Total counts every vertex of the
// graph, including entity layers.
type SeedStats struct {
	Total     int `json:"total_vertices"`
	Blue      int `json:"pintados_azul"`
	NoAuthors int `json:"omitidos_sin_autores"`
}

// DegradeStats describes the second pass.
type DegradeStats struct {
	Evaluated int      `json:"aristas_evaluadas"`
	Pairs     int      `json:"pares_B"`
	Yellow    int      `json:"vertices_amarillo"`
	Samples   []Sample `json:"muestras"`
}

// Sample is one self-citation arc.
type Sample struct {
	From string `json:"origen"`
	To   string `json:"destino"`
}

// RootStats describes the third pass.
type RootStats struct {
	Roots int `json:"raices_ab"`
	Green int `json:"vertices_verde"`
}

// Summary is the final tally over layer-0 vertices.
type Summary struct {
	A     int `json:"tipo_A"`
	B     int `json:"tipo_B"`
	AB    int `json:"tipo_AB"`
	S     int `json:"tipo_S"`
	Total int `json:"total"`
}

// NewReport returns the report of an empty graph.
func NewReport() Report {
	return Report{Degrade: DegradeStats{Samples: []Sample{}}}
}

// Classify runs the seed, degrade and root passes over g and returns the
// report. An empty graph is left alone and yields [NewReport].
func Classify(g *graph.Graph) Report {
	r := NewReport()
	if g.VertexCount() == 0 {
		return r
	}
	authors := make(map[string]Set, g.VertexCount())
	for _, v := range g.Vertices() {
		if v.IsArticle() {
			authors[v.ID] = AuthorSet(v.Info.Authors)
		}
	}
	r.Seed = seed(g, authors)
	r.Degrade = degrade(g, authors)
	r.Roots = roots(g)
	r.Summary = Summarize(g)
	return r
}

func seed(g *graph.Graph, authors map[string]Set) SeedStats {
	s := SeedStats{Total: g.VertexCount()}
	for _, v := range g.Vertices() {
		if !v.IsArticle() {
			continue
		}
		if len(authors[v.ID]) > 0 {
			mark(v, graph.TypeA)
			s.Blue++
		} else {
			mark(v, graph.TypeS)
			s.NoAuthors++
		}
	}
	return s
}

func degrade(g *graph.Graph, authors map[string]Set) DegradeStats {
	s := DegradeStats{Samples: []Sample{}}
	for _, v := range g.Vertices() {
		src := authors[v.ID]
		if !v.IsArticle() || len(src) == 0 {
			continue
		}
		for _, a := range v.Arcs() {
			w, ok := g.Vertex(a.To)
			if !ok || !w.IsArticle() {
				continue
			}
			dst := authors[a.To]
			if len(dst) == 0 {
				continue
			}
			s.Evaluated++
			if !src.Intersects(dst) {
				continue
			}
			for _, x := range []*graph.Vertex{v, w} {
				if x.Type != graph.TypeB {
					mark(x, graph.TypeB)
					s.Yellow++
				}
			}
			s.Pairs++
			if len(s.Samples) < MaxSamples {
				s.Samples = append(s.Samples, Sample{From: truncate(v.ID), To: truncate(a.To)})
			}
		}
	}
	return s
}

func roots(g *graph.Graph) RootStats {
	var s RootStats
	yellow := map[string]bool{}
	for _, v := range g.Vertices() {
		if v.IsArticle() && isB(v) {
			yellow[v.ID] = true
		}
	}
	var rs []*graph.Vertex
	for _, v := range g.Vertices() {
		if !yellow[v.ID] {
			continue
		}
		out := 0
		for _, a := range v.Arcs() {
			if yellow[a.To] {
				out++
			}
		}
		if out == 0 {
			rs = append(rs, v)
		}
	}
	for _, v := range rs {
		mark(v, graph.TypeAB)
		s.Green++
	}
	s.Roots = len(rs)
	return s
}

// Summarize tallies layer-0 vertices with precedence AB > B > A > S, by
// type or color. Unmarked vertices count as S.
func Summarize(g *graph.Graph) Summary {
	var s Summary
	for _, v := range g.Vertices() {
		if !v.IsArticle() {
			continue
		}
		s.Total++
		color := strings.ToLower(v.Color)
		switch {
		case v.Type == graph.TypeAB || color == ColorAB:
			s.AB++
		case isB(v):
			s.B++
		case v.Type == graph.TypeA || color == ColorA:
			s.A++
		default:
			s.S++
		}
	}
	return s
}

func isB(v *graph.Vertex) bool {
	return v.Type == graph.TypeB || strings.EqualFold(v.Color, ColorB)
}

func mark(v *graph.Vertex, t graph.CitationType) {
	v.Type = t
	switch t {
	case graph.TypeA:
		v.Color = ColorA
	case graph.TypeB:
		v.Color = ColorB
	case graph.TypeAB:
		v.Color = ColorAB
	case graph.TypeS:
		v.Color = ColorS
	}
}

func truncate(id string) string {
	r := []rune(id)
	if len(r) <= sampleWidth {
		return id
	}
	return string(r[:sampleWidth])
}
