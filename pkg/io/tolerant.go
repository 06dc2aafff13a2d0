package io

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/matzehuels/citegraph/pkg/graph"
)

// ErrNoNodes is returned when an import payload carries no nodes. The
// target graph is left untouched.
var ErrNoNodes = errors.New("no nodes in payload")

// RawDocument is an import payload in the visualization format or its
// desktop variant. Nodes and edges stay untyped until decoded field by
// field.
type RawDocument struct {
	Nodes []map[string]any `json:"nodes"`
	Edges []map[string]any `json:"edges"`
	Merge bool             `json:"merge,omitempty"`
}

// ReadVisJS decodes an import payload from r.
func ReadVisJS(r io.Reader) (RawDocument, error) {
	var doc RawDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return RawDocument{}, fmt.Errorf("decode: %w", err)
	}
	return doc, nil
}

// ImportStats reports what a tolerant import changed.
type ImportStats struct {
	MergeStats
	AuthorsCreated int `json:"autores_creados"`
	AuthorLinks    int `json:"conexiones_por_autor"`
}

// FromVisJS builds a new graph from a payload. It is [MergeVisJS] into an
// empty graph.
func FromVisJS(doc RawDocument) (*graph.Graph, ImportStats, error) {
	g := graph.New()
	stats, err := MergeVisJS(g, doc)
	if err != nil {
		return nil, stats, err
	}
	return g, stats, nil
}

// MergeVisJS applies a payload onto g.
//
// For each node, any truthy incoming value overwrites the vertex field;
// absent values keep what the vertex had. Titles that resolve to a
// placeholder fall back to the node id. Edge endpoints that are not yet
// vertices are created bare. Finally every layer-0 node that listed authors
// gets an arc to a layer-1 author vertex per author, creating the author
// vertex when needed.
func MergeVisJS(g *graph.Graph, doc RawDocument) (ImportStats, error) {
	var stats ImportStats
	if len(doc.Nodes) == 0 {
		return stats, ErrNoNodes
	}

	authors := newAuthorIndex()
	for _, raw := range doc.Nodes {
		f := decodeNode(raw)
		if f.id == "" {
			continue
		}
		if g.AddVertex(f.id) {
			stats.NewVertices++
		} else {
			stats.UpdatedVertices++
		}
		v, _ := g.Vertex(f.id)
		applyNode(v, f)

		if v.Layer == 0 {
			for _, a := range f.authors {
				authors.add(a, f.id)
			}
		}
	}

	for _, raw := range doc.Edges {
		e := decodeEdge(raw)
		if e.from == "" || e.to == "" {
			continue
		}
		if g.AddVertex(e.from) {
			stats.NewVertices++
		}
		if g.AddVertex(e.to) {
			stats.NewVertices++
		}
		if g.AddArc(e.from, e.to, e.weight) {
			stats.NewEdges++
		} else {
			stats.ExistingEdges++
		}
	}

	stats.AuthorsCreated, stats.AuthorLinks = authors.link(g)
	return stats, nil
}

func applyNode(v *graph.Vertex, f nodeFields) {
	info := v.Info
	title := f.title
	if title == "" {
		title = info.Title
	}
	if isPlaceholderTitle(title, "") {
		title = f.id
	}
	info.Title = title
	if len(f.authors) > 0 {
		info.Authors = f.authors
	}
	if f.year != 0 {
		info.Year = f.year
	}
	if f.venue != "" {
		info.Venue = f.venue
	}
	if f.doi != "" {
		info.DOI = f.doi
	}
	if f.abstract != "" {
		info.Abstract = f.abstract
	}
	if f.cites != 0 {
		info.CitationCount = f.cites
	}
	if f.url != "" {
		info.URL = f.url
	}
	if f.paperID != "" {
		info.PaperID = f.paperID
	}
	v.Info = info

	if f.x.set {
		v.X = asFloat(f.x.v)
	}
	if f.y.set {
		v.Y = asFloat(f.y.v)
	}
	if f.layer.set {
		v.Layer = asInt(f.layer.v)
	}
	if f.typ.set {
		v.Type = graph.CitationType(asString(f.typ.v))
	}
	if f.color.set {
		v.Color = colorString(f.color.v)
	}
	if f.engine.set {
		v.Engine = asString(f.engine.v)
	}
	if f.hidden.set {
		v.Visible = !asBool(f.hidden.v)
	}
	if f.value.set {
		v.Value = asFloat(f.value.v)
	}
}

// authorIndex records, in first-seen order, which articles list each
// author.
type authorIndex struct {
	order    []string
	articles map[string][]string
}

func newAuthorIndex() *authorIndex {
	return &authorIndex{articles: make(map[string][]string)}
}

func (ix *authorIndex) add(author, article string) {
	author = strings.TrimSpace(author)
	if author == "" {
		return
	}
	list, seen := ix.articles[author]
	if !seen {
		ix.order = append(ix.order, author)
	}
	for _, a := range list {
		if a == article {
			return
		}
	}
	ix.articles[author] = append(list, article)
}

// link creates missing author vertices and article->author arcs. An author
// whose name already names a vertex reuses that vertex.
func (ix *authorIndex) link(g *graph.Graph) (created, links int) {
	for _, author := range ix.order {
		if g.AddVertex(author) {
			info := graph.NewArticleInfo()
			info.Title = author
			info.Category = graph.CategoryAuthor
			g.SetInfo(author, info)
			v, _ := g.Vertex(author)
			v.Layer = 1
			created++
		}
		for _, article := range ix.articles[author] {
			if g.AddArc(article, author, graph.DefaultWeight) {
				links++
			}
		}
	}
	return created, links
}
