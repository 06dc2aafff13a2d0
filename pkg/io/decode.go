package io

import (
	"strconv"
	"strings"

	"github.com/matzehuels/citegraph/pkg/graph"
)

// Node fields may live in three places: the node object itself, a nested
// "info" object (desktop exports) or the "data" object written by ToVisJS.
// Each field has an ordered lookup list; the first truthy value wins.

type source int

const (
	inNode source = iota
	inInfo
	inData
)

type lookup struct {
	src source
	key string
}

var (
	titleKeys    = []lookup{{inInfo, "title"}, {inInfo, "titulo"}, {inNode, "label"}, {inNode, "title"}}
	authorKeys   = []lookup{{inInfo, "authors"}, {inInfo, "autores"}, {inNode, "authors"}}
	yearKeys     = []lookup{{inInfo, "year"}, {inInfo, "anio"}, {inData, "year"}, {inNode, "year"}}
	venueKeys    = []lookup{{inInfo, "venue"}, {inNode, "venue"}}
	doiKeys      = []lookup{{inInfo, "doi"}, {inData, "doi"}, {inNode, "doi"}}
	abstractKeys = []lookup{{inInfo, "abstract"}, {inNode, "abstract"}}
	citationKeys = []lookup{{inInfo, "citationCount"}, {inData, "citationCount"}, {inNode, "citationCount"}, {inNode, "citation_count"}}
	urlKeys      = []lookup{{inInfo, "url"}, {inNode, "url"}}
	paperIDKeys  = []lookup{{inInfo, "paperId"}, {inNode, "paperId"}, {inNode, "paper_id"}}
	layerKeys    = []lookup{{inNode, "capa"}, {inInfo, "capa"}, {inData, "capa"}}
	typeKeys     = []lookup{{inNode, "tipo"}, {inNode, "tipo_cita"}, {inInfo, "tipo_cita"}, {inData, "tipo"}}
	engineKeys   = []lookup{{inNode, "motor"}, {inInfo, "motor"}}
	colorKeys    = []lookup{{inNode, "color"}}
	xKeys        = []lookup{{inNode, "x"}}
	yKeys        = []lookup{{inNode, "y"}}
	hiddenKeys   = []lookup{{inNode, "hidden"}}
	valueKeys    = []lookup{{inNode, "valor"}}

	edgeFromKeys   = []string{"from", "source"}
	edgeToKeys     = []string{"to", "target"}
	edgeWeightKeys = []string{"weight", "value"}
)

// rawNode is a node object with its nested info/data objects.
type rawNode [3]map[string]any

func newRawNode(m map[string]any) rawNode {
	info, _ := m["info"].(map[string]any)
	data, _ := m["data"].(map[string]any)
	return rawNode{inNode: m, inInfo: info, inData: data}
}

// first returns the first truthy value in lookup order.
func (n rawNode) first(keys []lookup) (any, bool) {
	for _, l := range keys {
		if v, ok := n[l.src][l.key]; ok && truthy(v) {
			return v, true
		}
	}
	return nil, false
}

// present reports whether any of the keys exists, truthy or not.
func (n rawNode) present(keys []lookup) bool {
	for _, l := range keys {
		if _, ok := n[l.src][l.key]; ok {
			return true
		}
	}
	return false
}

func (n rawNode) str(keys []lookup) string {
	v, _ := n.first(keys)
	return asString(v)
}

func (n rawNode) integer(keys []lookup) int {
	v, _ := n.first(keys)
	return asInt(v)
}

// nodeFields is the normalized view of one incoming node.
type nodeFields struct {
	id       string
	title    string // empty when no source carried one
	authors  []string
	year     int
	venue    string
	doi      string
	abstract string
	cites    int
	url      string
	paperID  string

	layer, typ, engine, color, x, y, hidden, value optional
}

type optional struct {
	set bool
	v   any
}

func (n rawNode) opt(keys []lookup) optional {
	if !n.present(keys) {
		return optional{}
	}
	v, _ := n.first(keys)
	return optional{set: true, v: v}
}

func decodeNode(m map[string]any) nodeFields {
	n := newRawNode(m)
	authors, _ := n.first(authorKeys)
	return nodeFields{
		id:       asString(m["id"]),
		title:    n.str(titleKeys),
		authors:  parseAuthors(authors),
		year:     n.integer(yearKeys),
		venue:    n.str(venueKeys),
		doi:      n.str(doiKeys),
		abstract: n.str(abstractKeys),
		cites:    n.integer(citationKeys),
		url:      n.str(urlKeys),
		paperID:  n.str(paperIDKeys),
		layer:    n.opt(layerKeys),
		typ:      n.opt(typeKeys),
		engine:   n.opt(engineKeys),
		color:    n.opt(colorKeys),
		x:        n.opt(xKeys),
		y:        n.opt(yKeys),
		hidden:   n.opt(hiddenKeys),
		value:    n.opt(valueKeys),
	}
}

// edgeFields is the normalized view of one incoming edge.
type edgeFields struct {
	from, to string
	weight   float64
}

func decodeEdge(m map[string]any) edgeFields {
	pick := func(keys []string) any {
		for _, k := range keys {
			if v, ok := m[k]; ok && truthy(v) {
				return v
			}
		}
		return nil
	}
	w := asFloat(pick(edgeWeightKeys))
	if w == 0 {
		w = graph.DefaultWeight
	}
	return edgeFields{
		from:   asString(pick(edgeFromKeys)),
		to:     asString(pick(edgeToKeys)),
		weight: w,
	}
}

// parseAuthors accepts a ";"-delimited string, a list of strings or a list
// of objects carrying "name" or "nombre". Names are trimmed; empties are
// dropped.
func parseAuthors(v any) []string {
	var out []string
	switch a := v.(type) {
	case string:
		for _, part := range strings.Split(a, ";") {
			if s := strings.TrimSpace(part); s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for _, item := range a {
			switch it := item.(type) {
			case string:
				if s := strings.TrimSpace(it); s != "" {
					out = append(out, s)
				}
			case map[string]any:
				name := asString(it["name"])
				if name == "" {
					name = asString(it["nombre"])
				}
				if name != "" {
					out = append(out, name)
				}
			}
		}
	case []string:
		return parseAuthors(toAny(a))
	}
	return out
}

func toAny(s []string) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}

// colorString accepts "#rrggbb" or a vis.js color object.
func colorString(v any) string {
	if m, ok := v.(map[string]any); ok {
		return asString(m["background"])
	}
	return asString(v)
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case float64:
		return t != 0
	case int:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	}
	return true
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

func asFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err == nil {
			return f
		}
	case bool:
		if t {
			return 1
		}
	}
	return 0
}

// asInt converts numbers and numeric strings; anything else (including
// "No disponible") is 0.
func asInt(v any) int {
	return int(asFloat(v))
}

func asBool(v any) bool {
	b, ok := v.(bool)
	return ok && b
}
