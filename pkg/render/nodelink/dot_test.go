package nodelink

import (
	"errors"
	"strings"
	"testing"

	"github.com/matzehuels/citegraph/pkg/graph"
)

func citing() *graph.Graph {
	g := graph.New()
	root := g.Upsert("Root Paper", nil)
	root.Info.Title = "Root Paper"
	root.Type = graph.TypeRoot
	c := g.Upsert("Citing Paper", nil)
	c.Info.Title = "Citing Paper"
	c.Info.Year = 2020
	c.Info.CitationCount = 7
	c.Type = graph.TypeCiting
	g.AddArc("Citing Paper", "Root Paper", 2)
	return g
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(citing(), Options{})

	if !strings.Contains(dot, "digraph G") {
		t.Error("ToDOT() output missing digraph declaration")
	}
	if !strings.Contains(dot, `"Root Paper" [label="Root Paper", fillcolor="#e74c3c", penwidth=3]`) {
		t.Errorf("ToDOT() root vertex not styled:\n%s", dot)
	}
	if !strings.Contains(dot, `"Citing Paper" -> "Root Paper" [penwidth=2]`) {
		t.Errorf("ToDOT() output missing weighted edge:\n%s", dot)
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(citing(), Options{Detailed: true})

	if !strings.Contains(dot, `2020\ncitas: 7\ntipo: cita`) {
		t.Errorf("ToDOT() detailed output missing metadata:\n%s", dot)
	}
}

func TestToDOT_ColorOverrideAndAuthors(t *testing.T) {
	g := citing()
	v, _ := g.Vertex("Citing Paper")
	v.Color = "#3498db"
	a := g.Upsert("Smith", nil)
	a.Info.Title = "Smith"
	a.Layer = 1

	dot := ToDOT(g, Options{})

	if !strings.Contains(dot, `fillcolor="#3498db"`) {
		t.Error("ToDOT() ignored color override")
	}
	if !strings.Contains(dot, `"Smith" [label="Smith", fillcolor="#9b59b6", shape=ellipse, style=filled]`) {
		t.Errorf("ToDOT() author vertex not styled:\n%s", dot)
	}
}

func TestToDOT_HideInvisible(t *testing.T) {
	g := citing()
	v, _ := g.Vertex("Citing Paper")
	v.Visible = false

	dot := ToDOT(g, Options{HideInvisible: true})
	if strings.Contains(dot, "Citing Paper") {
		t.Errorf("ToDOT() kept hidden vertex:\n%s", dot)
	}
}

func TestFmtLabel_Truncates(t *testing.T) {
	v := graph.New().Upsert("x", nil)
	v.Info.Title = strings.Repeat("a", 60)
	label := fmtLabel(v, false)

	if len([]rune(label)) != 40 || !strings.HasSuffix(label, "...") {
		t.Errorf("fmtLabel() = %q", label)
	}
}

func TestPenWidth(t *testing.T) {
	tests := map[float64]string{0: "1", 1: "1", 2.5: "2.5", 20: "8"}
	for w, want := range tests {
		if got := penWidth(w); got != want {
			t.Errorf("penWidth(%v) = %q, want %q", w, got, want)
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	svg := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 100.00 50.00"><g/></svg>`)
	got := string(normalizeViewBox(svg))
	if !strings.Contains(got, `viewBox="0 0 100.00 50.00" width="100" height="50"`) {
		t.Errorf("normalizeViewBox() = %s", got)
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteDOT_PropagatesWriteError(t *testing.T) {
	if err := WriteDOT(failWriter{}, citing(), Options{}); err == nil || err.Error() != "disk full" {
		t.Errorf("WriteDOT() error = %v, want disk full", err)
	}
}
