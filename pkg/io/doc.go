// Package io converts citation graphs to and from their wire formats and
// merges graphs from different sources.
//
// # Canonical format
//
// [WriteJSON] and [ReadJSON] use the full listing:
//
//	{
//	  "vertices": [{"id": "...", "informacion": {...}, "x": 0, "y": 0,
//	                "grado_entrada": 0, "grado_salida": 1, "tipo_cita": "raiz",
//	                "color": null, "capa": 0, "motor": "Semantic Scholar",
//	                "visible": true, "valor": 0}],
//	  "aristas": [{"origen": "...", "destino": "...", "peso": 1}],
//	  "estadisticas": {"num_vertices": 1, "num_aristas": 0, "densidad": 0}
//	}
//
// # Visualization format
//
// [ToVisJS] produces the node/edge document consumed by the browser view:
// labels truncated to 40 characters, a plain-text tooltip, colors keyed by
// citation type, sizes tiered by citation count and dense sequential edge
// ids.
//
// # Tolerant import
//
// [FromVisJS] and [MergeVisJS] accept the visualization format and the
// desktop variant whose fields are nested under "info". Each field is
// resolved through an ordered list of (source, key) lookups; see decode.go.
// Both synthesize layer-1 author vertices for layer-0 articles that list
// authors, linking article->author.
//
// # Merge
//
// [Merge] folds one graph into another with a fill-if-missing policy: a
// destination field is only overwritten when it is absent or a placeholder
// (citation counts: when the incoming value is strictly greater). Existing
// arcs and their weights are never changed.
package io
