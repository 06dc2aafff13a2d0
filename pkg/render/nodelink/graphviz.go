package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/citegraph/pkg/render"
)

// Format is an image output format.
type Format string

const (
	SVG Format = "svg"
	PDF Format = "pdf"
	PNG Format = "png"
)

// pngScale is the resolution multiplier for PNG output.
const pngScale = 2.0

// Render lays out a DOT document with Graphviz and encodes it as f. PDF and
// PNG go through SVG and need rsvg-convert on PATH.
func Render(ctx context.Context, dot string, f Format) ([]byte, error) {
	svg, err := renderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	switch f {
	case SVG:
		return svg, nil
	case PDF:
		return render.ToPDF(ctx, svg)
	case PNG:
		return render.ToPNG(ctx, svg, pngScale)
	}
	return nil, fmt.Errorf("unknown image format %q", f)
}

func renderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse dot: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgOpenTag = regexp.MustCompile(`<svg[^>]*>`)
	viewBox    = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-sized root element with one
// sized in pixels from the viewBox, so browsers scale the drawing.
func normalizeViewBox(svg []byte) []byte {
	m := viewBox.FindSubmatch(svg)
	if m == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(m[3]), 64)
	h, _ := strconv.ParseFloat(string(m[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgOpenTag.ReplaceAll(svg, []byte(tag))
}
