package io

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/matzehuels/citegraph/pkg/graph"
)

// Visualization defaults.
const (
	LabelMax     = 40
	BaseSize     = 15
	FontSize     = 12
	EdgeColor    = "#848484"
	EdgeOpacity  = 0.7
	ShapeArticle = "dot"
	ShapeEntity  = "diamond"
)

// Default vertex colors keyed by citation type and layer.
const (
	ColorRoot      = "#e74c3c"
	ColorCiting    = "#3498db"
	ColorReference = "#2ecc71"
	ColorEntity    = "#9b59b6"
	ColorDefault   = "#95a5a6"
)

// VisDocument is the visualization wire format.
type VisDocument struct {
	Nodes []VisNode `json:"nodes"`
	Edges []VisEdge `json:"edges"`
}

// VisNode is a vertex presentation record.
type VisNode struct {
	ID     string   `json:"id"`
	Label  string   `json:"label"`
	Title  string   `json:"title"` // tooltip
	Color  string   `json:"color"`
	Size   int      `json:"size"`
	Font   VisFont  `json:"font"`
	Shape  string   `json:"shape"`
	X      *float64 `json:"x"`
	Y      *float64 `json:"y"`
	Hidden bool     `json:"hidden"`
	Data   VisData  `json:"data"`
}

// VisFont is the node font.
type VisFont struct {
	Size int `json:"size"`
}

// VisData carries the fields the browser view reads back.
type VisData struct {
	Year          *int     `json:"year"`
	CitationCount int      `json:"citationCount"`
	DOI           *string  `json:"doi"`
	Authors       []string `json:"authors"`
	Type          *string  `json:"tipo"`
	Layer         int      `json:"capa"`
}

// VisEdge is an edge presentation record.
type VisEdge struct {
	ID     int          `json:"id"`
	From   string       `json:"from"`
	To     string       `json:"to"`
	Value  float64      `json:"value"`
	Arrows string       `json:"arrows"`
	Color  VisEdgeColor `json:"color"`
}

// VisEdgeColor is the edge stroke.
type VisEdgeColor struct {
	Color   string  `json:"color"`
	Opacity float64 `json:"opacity"`
}

// ToVisJS builds the visualization document for g. Edge ids are assigned
// sequentially from 0 in [graph.Graph.Edges] order.
func ToVisJS(g *graph.Graph) VisDocument {
	doc := VisDocument{
		Nodes: make([]VisNode, 0, g.VertexCount()),
		Edges: make([]VisEdge, 0, g.EdgeCount()),
	}
	for _, v := range g.Vertices() {
		doc.Nodes = append(doc.Nodes, visNode(v))
	}
	for i, e := range g.Edges() {
		doc.Edges = append(doc.Edges, VisEdge{
			ID:     i,
			From:   e.From,
			To:     e.To,
			Value:  e.Weight,
			Arrows: "",
			Color:  VisEdgeColor{Color: EdgeColor, Opacity: EdgeOpacity},
		})
	}
	return doc
}

// WriteVisJS encodes the visualization document for g to w.
func WriteVisJS(g *graph.Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ToVisJS(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func visNode(v *graph.Vertex) VisNode {
	info := v.Info
	n := VisNode{
		ID:     v.ID,
		Label:  Label(info.Title),
		Title:  Tooltip(info),
		Color:  v.Color,
		Size:   Size(info.CitationCount),
		Font:   VisFont{Size: FontSize},
		Shape:  ShapeArticle,
		Hidden: !v.Visible,
		Data: VisData{
			CitationCount: info.CitationCount,
			Authors:       orEmpty(info.Authors),
			Type:          optString(string(v.Type)),
			Layer:         v.Layer,
		},
	}
	if n.Color == "" {
		n.Color = DefaultColor(v)
	}
	if v.Layer != 0 {
		n.Shape = ShapeEntity
	}
	if v.X != 0 {
		x := v.X
		n.X = &x
	}
	if v.Y != 0 {
		y := v.Y
		n.Y = &y
	}
	if info.Year != 0 {
		y := info.Year
		n.Data.Year = &y
	}
	if info.DOI != graph.Placeholder {
		n.Data.DOI = optString(info.DOI)
	}
	return n
}

// Label truncates a title to [LabelMax] characters, ending in "..." when
// cut. Empty and placeholder titles become [graph.Untitled].
func Label(title string) string {
	if title == "" || title == graph.Placeholder {
		return graph.Untitled
	}
	r := []rune(title)
	if len(r) <= LabelMax {
		return title
	}
	return string(r[:LabelMax-3]) + "..."
}

// Tooltip renders the plain-text hover text: title, up to three authors,
// year and citation count, and the DOI when known.
func Tooltip(info graph.ArticleInfo) string {
	authors := "No disponible"
	if len(info.Authors) > 0 {
		shown := info.Authors[:min(3, len(info.Authors))]
		authors = strings.Join(shown, ", ")
		if extra := len(info.Authors) - 3; extra > 0 {
			authors += fmt.Sprintf(" (+%d)", extra)
		}
	}
	year := "N/A"
	if info.Year != 0 {
		year = strconv.Itoa(info.Year)
	}
	lines := []string{
		info.Title,
		"Autores: " + authors,
		fmt.Sprintf("Año: %s | Citas: %d", year, info.CitationCount),
	}
	if info.DOI != "" {
		lines = append(lines, "DOI: "+info.DOI)
	}
	return strings.Join(lines, "\n")
}

// DefaultColor picks a color from the vertex's citation type, then its
// layer.
func DefaultColor(v *graph.Vertex) string {
	switch {
	case v.Type == graph.TypeRoot:
		return ColorRoot
	case v.Type == graph.TypeCiting:
		return ColorCiting
	case v.Type == graph.TypeReference:
		return ColorReference
	case v.Layer > 0:
		return ColorEntity
	}
	return ColorDefault
}

// Size returns the node size tier for a citation count.
func Size(citations int) int {
	switch {
	case citations > 1000:
		return BaseSize + 20
	case citations > 100:
		return BaseSize + 10
	case citations > 10:
		return BaseSize + 5
	}
	return BaseSize
}
