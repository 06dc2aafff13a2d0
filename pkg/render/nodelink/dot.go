package nodelink

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/matzehuels/citegraph/pkg/graph"
	cgio "github.com/matzehuels/citegraph/pkg/io"
)

// Options configures diagram output.
type Options struct {
	// Detailed appends year, citation count and citation type to article
	// labels.
	Detailed bool
	// HideInvisible drops vertices whose Visible flag is false together with
	// their arcs.
	HideInvisible bool
}

const maxPenWidth = 8

var dotHeader = []string{
	"rankdir=LR",
	`bgcolor="transparent"`,
	`node [shape=box, style="rounded,filled", fontsize=12, fontcolor=white, margin="0.15,0.08"]`,
	`edge [color="` + cgio.EdgeColor + `"]`,
}

// ToDOT returns g as a Graphviz digraph, laid out left to right.
func ToDOT(g *graph.Graph, opts Options) string {
	var sb strings.Builder
	_ = WriteDOT(&sb, g, opts)
	return sb.String()
}

// WriteDOT writes g as a Graphviz digraph to w.
func WriteDOT(w io.Writer, g *graph.Graph, opts Options) error {
	d := &dotWriter{w: w}
	d.line("digraph G {")
	for _, h := range dotHeader {
		d.stmt(h)
	}
	d.line("")

	hidden := make(map[string]bool)
	for _, v := range g.Vertices() {
		if opts.HideInvisible && !v.Visible {
			hidden[v.ID] = true
			continue
		}
		d.stmt(fmt.Sprintf("%q [%s]", v.ID, strings.Join(nodeAttrs(v, fmtLabel(v, opts.Detailed)), ", ")))
	}
	d.line("")

	for _, e := range g.Edges() {
		if hidden[e.From] || hidden[e.To] {
			continue
		}
		d.stmt(fmt.Sprintf("%q -> %q [penwidth=%s]", e.From, e.To, penWidth(e.Weight)))
	}
	d.line("}")
	return d.err
}

// dotWriter keeps the first write error.
type dotWriter struct {
	w   io.Writer
	err error
}

func (d *dotWriter) line(s string) {
	if d.err == nil {
		_, d.err = io.WriteString(d.w, s+"\n")
	}
}

func (d *dotWriter) stmt(s string) { d.line("  " + s + ";") }

func fmtLabel(v *graph.Vertex, detailed bool) string {
	label := cgio.Label(v.Info.Title)
	if !detailed || !v.IsArticle() {
		return label
	}
	lines := []string{label}
	if v.Info.Year > 0 {
		lines = append(lines, strconv.Itoa(v.Info.Year))
	}
	lines = append(lines, "citas: "+strconv.Itoa(v.Info.CitationCount))
	if v.Type != graph.TypeNone {
		lines = append(lines, "tipo: "+string(v.Type))
	}
	return strings.Join(lines, "\n")
}

func nodeAttrs(v *graph.Vertex, label string) []string {
	fill := v.Color
	if fill == "" {
		fill = cgio.DefaultColor(v)
	}
	attrs := []string{"label=" + strconv.Quote(label), "fillcolor=" + strconv.Quote(fill)}
	switch {
	case !v.IsArticle():
		attrs = append(attrs, "shape=ellipse", "style=filled")
	case v.Type == graph.TypeRoot:
		attrs = append(attrs, "penwidth=3")
	}
	return attrs
}

// penWidth maps an arc weight to a stroke width, clamped to
// [graph.DefaultWeight, maxPenWidth] for non-positive and large weights.
func penWidth(w float64) string {
	if w <= 0 {
		w = graph.DefaultWeight
	}
	return strconv.FormatFloat(min(w, maxPenWidth), 'f', -1, 64)
}
