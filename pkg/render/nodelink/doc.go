// Package nodelink draws citation graphs as node-link diagrams.
//
// [ToDOT] emits a left-to-right Graphviz digraph. Vertices carry the same
// truncated title and default colors as the visualization export; author
// vertices are ellipses and the root has a heavy border. Arc weight sets
// the pen width.
//
// [Render] lays the DOT out in-process with go-graphviz:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{HideInvisible: true})
//	svg, err := nodelink.Render(ctx, dot, nodelink.SVG)
//
// PDF and PNG are converted from the SVG by rsvg-convert (librsvg).
package nodelink
