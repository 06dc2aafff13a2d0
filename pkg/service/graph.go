package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/matzehuels/citegraph/pkg/classify"
	cgerrors "github.com/matzehuels/citegraph/pkg/errors"
	"github.com/matzehuels/citegraph/pkg/graph"
	cgio "github.com/matzehuels/citegraph/pkg/io"
	"github.com/matzehuels/citegraph/pkg/metrics"
	"github.com/matzehuels/citegraph/pkg/render/nodelink"
)

// ErrNoGraph is wrapped by operations that need a current graph when none
// is loaded.
var ErrNoGraph = errors.New("no graph loaded")

func errNoGraph() error {
	return cgerrors.Wrap(cgerrors.ErrCodeNotFound, ErrNoGraph, "no graph loaded")
}

// =============================================================================
// Current graph
// =============================================================================

// Graph returns the current graph in visualization format, or an empty
// document when none is loaded.
func (s *Service) Graph() cgio.VisDocument {
	var doc cgio.VisDocument
	_ = s.store.View(func(g *graph.Graph) error {
		if g == nil {
			g = graph.New()
		}
		doc = cgio.ToVisJS(g)
		return nil
	})
	return doc
}

// GraphJSON returns the current graph in canonical form, or an empty
// document when none is loaded.
func (s *Service) GraphJSON() cgio.Document {
	var doc cgio.Document
	_ = s.store.View(func(g *graph.Graph) error {
		if g == nil {
			g = graph.New()
		}
		doc = cgio.ToDocument(g)
		return nil
	})
	return doc
}

// Clear drops the current graph.
func (s *Service) Clear() {
	s.store.Clear()
	s.logger.Info("graph cleared")
}

// Statistics summarizes the current graph.
type Statistics struct {
	Vertices int     `json:"num_vertices"`
	Edges    int     `json:"num_aristas"`
	Density  float64 `json:"densidad"`
	Empty    bool    `json:"grafo_vacio"`
}

// Statistics returns counts and density, with Empty set when no graph is
// loaded.
func (s *Service) Statistics() Statistics {
	var st Statistics
	_ = s.store.View(func(g *graph.Graph) error {
		if g == nil {
			st.Empty = true
			return nil
		}
		st = Statistics{Vertices: g.VertexCount(), Edges: g.EdgeCount(), Density: g.Density()}
		return nil
	})
	return st
}

// =============================================================================
// Import / export
// =============================================================================

// ReplaceStats reports an import that replaced the current graph.
type ReplaceStats struct {
	NewVertices   int `json:"vertices_nuevos"`
	EdgesReceived int `json:"aristas_recibidas"`
	EdgesCreated  int `json:"aristas_creadas"`
}

// ImportResult reports an import. Stats is a [ReplaceStats] or a
// [cgio.ImportStats] depending on the policy applied.
type ImportResult struct {
	Message       string `json:"mensaje"`
	Merged        bool   `json:"-"`
	Stats         any    `json:"estadisticas"`
	TotalVertices int    `json:"total_vertices"`
	TotalEdges    int    `json:"total_aristas"`
}

// Import loads a visualization-format payload. With doc.Merge set and a
// current graph present, the payload is merged into it; otherwise it
// replaces the current graph. A payload without nodes is rejected before
// anything changes.
func (s *Service) Import(doc cgio.RawDocument) (*ImportResult, error) {
	if len(doc.Nodes) == 0 {
		return nil, cgerrors.Wrap(cgerrors.ErrCodeInvalidInput, cgio.ErrNoNodes, "no nodes found in payload")
	}
	s.logger.Info("import received", "nodes", len(doc.Nodes), "edges", len(doc.Edges), "merge", doc.Merge)

	res := &ImportResult{}
	err := s.store.Update(func(cur *graph.Graph) (*graph.Graph, error) {
		if doc.Merge && cur != nil {
			stats, err := cgio.MergeVisJS(cur, doc)
			if err != nil {
				return nil, err
			}
			res.Message = "graph merged"
			res.Merged = true
			res.Stats = stats
			res.TotalVertices, res.TotalEdges = cur.VertexCount(), cur.EdgeCount()
			return nil, nil
		}
		g, _, err := cgio.FromVisJS(doc)
		if err != nil {
			return nil, err
		}
		res.Message = "graph imported"
		res.Stats = ReplaceStats{
			NewVertices:   len(doc.Nodes),
			EdgesReceived: len(doc.Edges),
			EdgesCreated:  g.EdgeCount(),
		}
		res.TotalVertices, res.TotalEdges = g.VertexCount(), g.EdgeCount()
		return g, nil
	})
	if err != nil {
		if errors.Is(err, cgio.ErrNoNodes) {
			return nil, cgerrors.Wrap(cgerrors.ErrCodeInvalidInput, err, "no nodes found in payload")
		}
		return nil, cgerrors.Wrap(cgerrors.ErrCodeInternal, err, "import failed")
	}
	s.logger.Info("import applied", "merged", res.Merged, "vertices", res.TotalVertices, "edges", res.TotalEdges)
	return res, nil
}

// Export formats.
const (
	FormatVisJS = "visjs"
	FormatJSON  = "json"
	FormatDOT   = "dot"
	FormatSVG   = "svg"
	FormatPDF   = "pdf"
	FormatPNG   = "png"
)

// ExportFormats lists the formats accepted by [Service.Export].
var ExportFormats = []string{FormatVisJS, FormatJSON, FormatDOT, FormatSVG, FormatPDF, FormatPNG}

// Export writes the current graph to w in the given format. An empty
// graph is written when none is loaded.
func (s *Service) Export(w io.Writer, format string) error {
	g := s.store.Snapshot()
	if g == nil {
		g = graph.New()
	}
	var err error
	switch format {
	case FormatVisJS, "":
		err = cgio.WriteVisJS(g, w)
	case FormatJSON:
		err = cgio.WriteJSON(g, w)
	case FormatDOT:
		err = nodelink.WriteDOT(w, g, nodelink.Options{})
	case FormatSVG, FormatPDF, FormatPNG:
		err = renderImage(w, g, format)
	default:
		return cgerrors.New(cgerrors.ErrCodeInvalidFormat, "unsupported export format %q", format)
	}
	if err != nil {
		return cgerrors.Wrap(cgerrors.ErrCodeInternal, err, "export %s", format)
	}
	return nil
}

func renderImage(w io.Writer, g *graph.Graph, format string) error {
	dot := nodelink.ToDOT(g, nodelink.Options{HideInvisible: true})
	data, err := nodelink.Render(context.Background(), dot, nodelink.Format(format))
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// =============================================================================
// Analytics
// =============================================================================

// MetricsRequest selects the measures computed by [Service.Metrics].
type MetricsRequest struct {
	PageRank    bool    `json:"calcular_pagerank"`
	Betweenness bool    `json:"calcular_betweenness"`
	Closeness   bool    `json:"calcular_closeness"`
	Damping     float64 `json:"damping_factor" validate:"gte=0,lte=1"` // 0 means 0.85
	Iterations  int     `json:"iteraciones" validate:"gte=0,lte=1000"` // 0 means 100
}

// Metrics computes the requested measures over the current graph.
func (s *Service) Metrics(ctx context.Context, req MetricsRequest) (*metrics.Report, error) {
	if err := cgerrors.ValidateStruct(req); err != nil {
		return nil, err
	}
	pr := metrics.DefaultPageRankOptions()
	if req.Damping > 0 {
		pr.Damping = req.Damping
	}
	if req.Iterations > 0 {
		pr.Iterations = req.Iterations
	}
	opts := metrics.Options{
		PageRank:        req.PageRank,
		Betweenness:     req.Betweenness,
		Closeness:       req.Closeness,
		PageRankOptions: pr,
	}

	var rep *metrics.Report
	err := s.store.View(func(g *graph.Graph) error {
		if g == nil {
			return errNoGraph()
		}
		rep = metrics.Compute(ctx, g, opts)
		return nil
	})
	return rep, err
}

// Classify runs the self-citation classifier on the current graph. It
// writes types and colors onto the vertices.
func (s *Service) Classify() (classify.Report, error) {
	var rep classify.Report
	err := s.store.Update(func(g *graph.Graph) (*graph.Graph, error) {
		if g == nil {
			return nil, errNoGraph()
		}
		rep = classify.Classify(g)
		return nil, nil
	})
	if err != nil {
		return classify.Report{}, err
	}
	sum := rep.Summary
	s.logger.Info("graph classified", "A", sum.A, "B", sum.B, "AB", sum.AB, "S", sum.S)
	return rep, nil
}

// =============================================================================
// Vertices
// =============================================================================

// Default and maximum page sizes for [Service.Vertices].
const (
	DefaultPageSize = 100
	MaxPageSize     = 1000
)

// VertexSummary is one row of a vertex listing.
type VertexSummary struct {
	ID            string `json:"id"`
	Title         string `json:"titulo"`
	Year          *int   `json:"year"`
	CitationCount int    `json:"citationCount"`
	Type          string `json:"tipo,omitempty"`
	InDegree      int    `json:"grado_entrada"`
	OutDegree     int    `json:"grado_salida"`
}

// VertexPage is a page of a vertex listing.
type VertexPage struct {
	Vertices []VertexSummary `json:"vertices"`
	Total    int             `json:"total"`
	Offset   int             `json:"offset"`
	Limit    int             `json:"limite"`
}

type pageRequest struct {
	Limit  int `validate:"gte=1,lte=1000"`
	Offset int `validate:"gte=0"`
}

// Vertices lists vertices in insertion order. A limit of 0 means
// [DefaultPageSize]. An unloaded graph lists nothing.
func (s *Service) Vertices(limit, offset int) (VertexPage, error) {
	if limit == 0 {
		limit = DefaultPageSize
	}
	if err := cgerrors.ValidateStruct(pageRequest{Limit: limit, Offset: offset}); err != nil {
		return VertexPage{}, err
	}
	page := VertexPage{Vertices: []VertexSummary{}, Offset: offset, Limit: limit}
	_ = s.store.View(func(g *graph.Graph) error {
		if g == nil {
			return nil
		}
		all := g.Vertices()
		page.Total = len(all)
		if offset >= len(all) {
			return nil
		}
		for _, v := range all[offset:min(offset+limit, len(all))] {
			page.Vertices = append(page.Vertices, summarize(v))
		}
		return nil
	})
	return page, nil
}

func summarize(v *graph.Vertex) VertexSummary {
	sum := VertexSummary{
		ID:            v.ID,
		Title:         v.Info.Title,
		CitationCount: v.Info.CitationCount,
		Type:          string(v.Type),
		InDegree:      v.InDegree(),
		OutDegree:     v.OutDegree(),
	}
	if v.Info.Year != 0 {
		y := v.Info.Year
		sum.Year = &y
	}
	return sum
}

// VertexDetail is the full record of one vertex. Adjacency lists
// [destination, weight] pairs.
type VertexDetail struct {
	ID        string       `json:"id"`
	Info      cgio.InfoDoc `json:"informacion"`
	InDegree  int          `json:"grado_entrada"`
	OutDegree int          `json:"grado_salida"`
	Type      string       `json:"tipo,omitempty"`
	Layer     int          `json:"capa"`
	Engine    string       `json:"motor,omitempty"`
	Adjacency [][2]any     `json:"adyacencias"`
}

// Vertex returns the detail of one vertex of the current graph.
func (s *Service) Vertex(id string) (VertexDetail, error) {
	if err := cgerrors.ValidateVertexID(id); err != nil {
		return VertexDetail{}, err
	}
	var d VertexDetail
	err := s.store.View(func(g *graph.Graph) error {
		if g == nil {
			return errNoGraph()
		}
		v, ok := g.Vertex(id)
		if !ok {
			return cgerrors.New(cgerrors.ErrCodeNotFound, "vertex not found: %s", truncateID(id))
		}
		d = VertexDetail{
			ID:        v.ID,
			Info:      cgio.NewInfoDoc(v.Info),
			InDegree:  v.InDegree(),
			OutDegree: v.OutDegree(),
			Type:      string(v.Type),
			Layer:     v.Layer,
			Engine:    v.Engine,
			Adjacency: [][2]any{},
		}
		for _, a := range g.Adjacent(id) {
			d.Adjacency = append(d.Adjacency, [2]any{a.To, a.Weight})
		}
		return nil
	})
	return d, err
}

func truncateID(id string) string {
	r := []rune(id)
	if len(r) <= 60 {
		return id
	}
	return fmt.Sprintf("%s...", string(r[:57]))
}
