package classify

import (
	"regexp"
	"strings"

	"github.com/matzehuels/citegraph/pkg/graph"
)

// delimiters splits a single author string into names.
var delimiters = regexp.MustCompile(`\s*(?:,|;|\|| y | and )\s*`)

// nameKeys are the object keys checked, in order, for an author's name.
var nameKeys = []string{"name", "author", "fullName", "display_name"}

// Set is a case-folded set of author names.
type Set map[string]struct{}

// Intersects reports whether s and o share at least one name.
func (s Set) Intersects(o Set) bool {
	if len(o) < len(s) {
		s, o = o, s
	}
	for name := range s {
		if _, ok := o[name]; ok {
			return true
		}
	}
	return false
}

// AuthorSet normalizes an author field into a set of lowercase names.
//
// A single string is split on commas, semicolons, pipes, " y " and " and ".
// A list contributes each string entry trimmed and lowercased (entries are
// not split further) and each object entry by its name key. A single
// object contributes its name. The placeholder string yields an empty set.
func AuthorSet(v any) Set {
	out := Set{}
	switch a := v.(type) {
	case string:
		if a == graph.Placeholder {
			return out
		}
		for _, part := range delimiters.Split(a, -1) {
			out.add(part)
		}
	case []string:
		for _, name := range a {
			out.add(name)
		}
	case map[string]any:
		out.add(objectName(a))
	case []any:
		for _, item := range a {
			switch it := item.(type) {
			case string:
				out.add(it)
			case map[string]any:
				out.add(objectName(it))
			}
		}
	}
	return out
}

func (s Set) add(name string) {
	if name = strings.ToLower(strings.TrimSpace(name)); name != "" {
		s[name] = struct{}{}
	}
}

func objectName(m map[string]any) string {
	for _, k := range nameKeys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
