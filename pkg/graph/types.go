package graph

import (
	"maps"
	"slices"
	"time"
)

// Placeholder values used by bibliographic providers and the visualization
// format when a field is unknown.
const (
	// Placeholder marks an unknown title, venue or abstract.
	Placeholder = "No disponible"

	// Untitled is the display label used for vertices without a usable title.
	Untitled = "Sin título"
)

// Category distinguishes citable works from synthesized entity vertices.
type Category string

const (
	// CategoryArticle is the category of citable works (layer 0).
	CategoryArticle Category = "articulo"
	// CategoryAuthor is the category of synthesized author vertices (layer 1).
	CategoryAuthor Category = "autor"
)

// CitationType is the tag attached to a vertex by the crawler (root, citing,
// reference) or by the self-citation classifier (A, B, AB, S).
type CitationType string

const (
	TypeNone      CitationType = ""
	TypeRoot      CitationType = "raiz"
	TypeCiting    CitationType = "cita"
	TypeReference CitationType = "referencia"
	TypeA         CitationType = "A"
	TypeB         CitationType = "B"
	TypeAB        CitationType = "AB"
	TypeS         CitationType = "S"
)

// ArticleInfo is the descriptive payload of a vertex.
//
// Optional scalar fields use their zero value for "absent": Year 0, DOI "",
// URL "" and PaperID "". Title, Venue and Abstract carry [Placeholder] when
// unknown (see [NewArticleInfo]).
type ArticleInfo struct {
	Title         string
	Authors       []string
	Year          int
	Venue         string
	DOI           string
	Abstract      string
	Topics        []string
	CitationCount int
	Citations     []string // raw provider ids, informational only
	References    []string // raw provider ids, informational only
	URL           string
	Category      Category
	PaperID       string
}

// NewArticleInfo returns an ArticleInfo with placeholder title, venue and
// abstract and the article category.
func NewArticleInfo() ArticleInfo {
	return ArticleInfo{
		Title:    Placeholder,
		Venue:    Placeholder,
		Abstract: Placeholder,
		Category: CategoryArticle,
	}
}

// Clone returns a deep copy of the info, so slices are not shared.
func (a ArticleInfo) Clone() ArticleInfo {
	a.Authors = slices.Clone(a.Authors)
	a.Topics = slices.Clone(a.Topics)
	a.Citations = slices.Clone(a.Citations)
	a.References = slices.Clone(a.References)
	return a
}

// ComponentKeys lists the fixed keys of [Arc.Components].
var ComponentKeys = []string{"C", "Co", "Ac", "T", "M"}

// Arc is a directed edge record owned by its source vertex.
//
// The evidence fields (ExactEvidence, PartialEvidence, Components,
// Provenance, UpdatedAt) are carried for richer evidence models. None of the
// algorithms in this module read them and they are usually zero.
type Arc struct {
	To     string
	Weight float64

	ExactEvidence   int
	PartialEvidence int
	Components      map[string]int
	Provenance      map[string]struct{}
	UpdatedAt       time.Time
}

func newArc(to string, weight float64) *Arc {
	comp := make(map[string]int, len(ComponentKeys))
	for _, k := range ComponentKeys {
		comp[k] = 0
	}
	return &Arc{
		To:         to,
		Weight:     weight,
		Components: comp,
		Provenance: map[string]struct{}{},
	}
}

func (a *Arc) clone() *Arc {
	c := *a
	c.Components = maps.Clone(a.Components)
	c.Provenance = maps.Clone(a.Provenance)
	return &c
}

// Vertex is a node of the citation graph.
//
// The ID is the vertex's title (or, for author vertices, the author's display
// name). Two works with identical titles share one vertex.
//
// Degree counters and adjacency are maintained by [Graph]; the remaining
// exported fields are free for callers to set.
type Vertex struct {
	ID   string
	Info ArticleInfo

	X, Y          float64 // layout hint
	Value         float64 // reserved
	RelativeValue float64 // reserved
	Type          CitationType
	Color         string
	Layer         int // 0 = article, >0 = entity (author)
	Engine        string
	Visible       bool

	arcs      map[string]*Arc
	arcOrder  []string
	inDegree  int
	outDegree int
}

func newVertex(id string) *Vertex {
	return &Vertex{
		ID:      id,
		Info:    NewArticleInfo(),
		Visible: true,
		arcs:    make(map[string]*Arc),
	}
}

// InDegree returns the number of arcs pointing at v.
func (v *Vertex) InDegree() int { return v.inDegree }

// OutDegree returns the number of arcs leaving v.
func (v *Vertex) OutDegree() int { return v.outDegree }

// HasArc reports whether v has an arc to dst.
func (v *Vertex) HasArc(dst string) bool {
	_, ok := v.arcs[dst]
	return ok
}

// Arcs returns v's outgoing arcs in insertion order. The returned arcs are
// owned by the graph; mutating Weight or evidence fields is allowed.
func (v *Vertex) Arcs() []*Arc {
	out := make([]*Arc, 0, len(v.arcOrder))
	for _, dst := range v.arcOrder {
		out = append(out, v.arcs[dst])
	}
	return out
}

// IsArticle reports whether v is a citable work (layer 0).
func (v *Vertex) IsArticle() bool { return v.Layer == 0 }

// Adjacency is a (destination, weight) pair returned by [Graph.Adjacent].
type Adjacency struct {
	To     string
	Weight float64
}

// Edge is a (source, destination, weight) triple returned by [Graph.Edges].
type Edge struct {
	From   string
	To     string
	Weight float64
}
