// Package render converts SVG drawings of citation graphs to PDF and PNG
// with the external rsvg-convert tool. The [nodelink] subpackage produces
// the SVG.
//
// [nodelink]: github.com/matzehuels/citegraph/pkg/render/nodelink
package render
