package io

import "github.com/matzehuels/citegraph/pkg/graph"

// MergeStats counts the effect of a merge.
type MergeStats struct {
	NewVertices     int `json:"vertices_nuevos"`
	UpdatedVertices int `json:"vertices_actualizados"`
	NewEdges        int `json:"aristas_nuevas"`
	ExistingEdges   int `json:"aristas_existentes"`
}

// Merge folds src into dst.
//
// New vertices are copied whole. For vertices present in both, fields are
// filled only where dst lacks them:
//
//	title           dst is a placeholder ("No disponible", "Sin título", "", the id) and src is not
//	authors         dst has none
//	year            dst is 0
//	doi, url        dst is empty
//	abstract        dst is a placeholder or empty
//	citation count  src is strictly greater
//
// A shared vertex counts as updated when at least one field was filled.
// Arcs are added only when
// the (from, to) pair is absent from dst; existing weights never change.
func Merge(dst, src *graph.Graph) MergeStats {
	var stats MergeStats
	for _, sv := range src.Vertices() {
		dv, ok := dst.Vertex(sv.ID)
		if !ok {
			dst.AddVertex(sv.ID)
			dv, _ = dst.Vertex(sv.ID)
			copyVertex(dv, sv)
			stats.NewVertices++
			continue
		}
		if fillMissing(&dv.Info, sv.Info, sv.ID) {
			stats.UpdatedVertices++
		}
	}

	for _, e := range src.Edges() {
		if dst.AddVertex(e.From) {
			stats.NewVertices++
		}
		if dst.AddVertex(e.To) {
			stats.NewVertices++
		}
		if dst.AddArc(e.From, e.To, e.Weight) {
			stats.NewEdges++
		} else {
			stats.ExistingEdges++
		}
	}
	return stats
}

func copyVertex(dst, src *graph.Vertex) {
	dst.Info = src.Info.Clone()
	dst.X, dst.Y = src.X, src.Y
	dst.Type = src.Type
	dst.Color = src.Color
	dst.Layer = src.Layer
	dst.Engine = src.Engine
	dst.Visible = src.Visible
	dst.Value = src.Value
}

// fillMissing applies the fill-if-missing rules and reports whether any
// field changed.
func fillMissing(d *graph.ArticleInfo, s graph.ArticleInfo, id string) bool {
	changed := false
	if isPlaceholderTitle(d.Title, id) && !isPlaceholderTitle(s.Title, id) {
		d.Title, changed = s.Title, true
	}
	if len(d.Authors) == 0 && len(s.Authors) > 0 {
		d.Authors, changed = append([]string(nil), s.Authors...), true
	}
	if d.Year == 0 && s.Year != 0 {
		d.Year, changed = s.Year, true
	}
	if s.CitationCount > d.CitationCount {
		d.CitationCount, changed = s.CitationCount, true
	}
	if d.DOI == "" && s.DOI != "" {
		d.DOI, changed = s.DOI, true
	}
	if d.URL == "" && s.URL != "" {
		d.URL, changed = s.URL, true
	}
	if isPlaceholder(d.Abstract) && !isPlaceholder(s.Abstract) {
		d.Abstract, changed = s.Abstract, true
	}
	return changed
}

func isPlaceholder(s string) bool {
	return s == "" || s == graph.Placeholder
}

// isPlaceholderTitle reports whether a title carries no information. A
// title equal to the vertex id counts as a placeholder when id is given.
func isPlaceholderTitle(title, id string) bool {
	return isPlaceholder(title) || title == graph.Untitled || (id != "" && title == id)
}
