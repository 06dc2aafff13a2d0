package io

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/citegraph/pkg/graph"
)

// Document is the canonical serialization of a graph.
type Document struct {
	Vertices []VertexDoc `json:"vertices"`
	Arcs     []ArcDoc    `json:"aristas"`
	Stats    Stats       `json:"estadisticas"`
}

// VertexDoc is one vertex of a [Document].
type VertexDoc struct {
	ID        string  `json:"id"`
	Info      InfoDoc `json:"informacion"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	InDegree  int     `json:"grado_entrada"`
	OutDegree int     `json:"grado_salida"`
	Type      *string `json:"tipo_cita"`
	Color     *string `json:"color"`
	Layer     int     `json:"capa"`
	Engine    *string `json:"motor"`
	Visible   *bool   `json:"visible"`
	Value     float64 `json:"valor"`
}

// InfoDoc is the wire form of [graph.ArticleInfo].
type InfoDoc struct {
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	Year          *int     `json:"year"`
	Venue         string   `json:"venue"`
	DOI           *string  `json:"doi"`
	Abstract      string   `json:"abstract"`
	Topics        []string `json:"topics"`
	Citations     []string `json:"citations"`
	CitationCount int      `json:"citationCount"`
	References    []string `json:"references"`
	URL           *string  `json:"url"`
	Category      string   `json:"categoria"`
	PaperID       *string  `json:"paperId"`
}

// ArcDoc is one arc of a [Document]. A missing weight reads as
// [graph.DefaultWeight]; an explicit zero is kept.
type ArcDoc struct {
	From   string   `json:"origen"`
	To     string   `json:"destino"`
	Weight *float64 `json:"peso"`
}

// Stats summarizes a graph.
type Stats struct {
	Vertices int     `json:"num_vertices"`
	Edges    int     `json:"num_aristas"`
	Density  float64 `json:"densidad"`
}

// StatsOf returns the vertex count, edge count and density of g.
func StatsOf(g *graph.Graph) Stats {
	return Stats{Vertices: g.VertexCount(), Edges: g.EdgeCount(), Density: g.Density()}
}

// NewInfoDoc converts an ArticleInfo to its wire form.
func NewInfoDoc(a graph.ArticleInfo) InfoDoc {
	d := InfoDoc{
		Title:         a.Title,
		Authors:       orEmpty(a.Authors),
		Venue:         a.Venue,
		DOI:           optString(a.DOI),
		Abstract:      a.Abstract,
		Topics:        orEmpty(a.Topics),
		Citations:     orEmpty(a.Citations),
		CitationCount: a.CitationCount,
		References:    orEmpty(a.References),
		URL:           optString(a.URL),
		Category:      string(a.Category),
		PaperID:       optString(a.PaperID),
	}
	if a.Year != 0 {
		y := a.Year
		d.Year = &y
	}
	return d
}

// ArticleInfo converts the wire form back, applying placeholder defaults for
// missing title, venue, abstract and category.
func (d InfoDoc) ArticleInfo() graph.ArticleInfo {
	a := graph.NewArticleInfo()
	if d.Title != "" {
		a.Title = d.Title
	}
	if d.Venue != "" {
		a.Venue = d.Venue
	}
	if d.Abstract != "" {
		a.Abstract = d.Abstract
	}
	if d.Category != "" {
		a.Category = graph.Category(d.Category)
	}
	a.Authors = d.Authors
	a.Topics = d.Topics
	a.Citations = d.Citations
	a.References = d.References
	a.CitationCount = d.CitationCount
	if d.Year != nil {
		a.Year = *d.Year
	}
	a.DOI = deref(d.DOI)
	a.URL = deref(d.URL)
	a.PaperID = deref(d.PaperID)
	return a
}

// ToDocument builds the canonical document for g.
func ToDocument(g *graph.Graph) Document {
	doc := Document{
		Vertices: make([]VertexDoc, 0, g.VertexCount()),
		Arcs:     make([]ArcDoc, 0, g.EdgeCount()),
		Stats:    StatsOf(g),
	}
	for _, v := range g.Vertices() {
		visible := v.Visible
		doc.Vertices = append(doc.Vertices, VertexDoc{
			ID:        v.ID,
			Info:      NewInfoDoc(v.Info),
			X:         v.X,
			Y:         v.Y,
			InDegree:  v.InDegree(),
			OutDegree: v.OutDegree(),
			Type:      optString(string(v.Type)),
			Color:     optString(v.Color),
			Layer:     v.Layer,
			Engine:    optString(v.Engine),
			Visible:   &visible,
			Value:     v.Value,
		})
	}
	for _, e := range g.Edges() {
		w := e.Weight
		doc.Arcs = append(doc.Arcs, ArcDoc{From: e.From, To: e.To, Weight: &w})
	}
	return doc
}

// FromDocument rebuilds a graph from its canonical document. Vertices are
// created first, then arcs; arcs whose endpoints are missing are skipped.
func FromDocument(doc Document) *graph.Graph {
	g := graph.New()
	for _, vd := range doc.Vertices {
		g.AddVertex(vd.ID)
		v, _ := g.Vertex(vd.ID)
		v.Info = vd.Info.ArticleInfo()
		v.X, v.Y = vd.X, vd.Y
		v.Type = graph.CitationType(deref(vd.Type))
		v.Color = deref(vd.Color)
		v.Layer = vd.Layer
		v.Engine = deref(vd.Engine)
		v.Visible = vd.Visible == nil || *vd.Visible
		v.Value = vd.Value
	}
	for _, a := range doc.Arcs {
		w := graph.DefaultWeight
		if a.Weight != nil {
			w = *a.Weight
		}
		g.AddArc(a.From, a.To, w)
	}
	return g
}

// WriteJSON encodes g in the canonical format and writes it to w.
func WriteJSON(g *graph.Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ToDocument(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadJSON decodes a canonical document from r.
func ReadJSON(r io.Reader) (*graph.Graph, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return FromDocument(doc), nil
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
