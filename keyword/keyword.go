// Package keyword is the single description of the draft-4 keyword surface.
//
// Table lists every keyword in evaluation order together with its presence
// predicate, the data kind it constrains and the locations it exposes: child
// schemas to recurse into and coverage pointers. The validator evaluates nodes by
// walking Table and the coverage enumerator walks the same Table without data, so
// both visit identical locations.
package keyword

import (
	"sort"
	"strconv"

	"github.com/openbindings/draft4cover"
)

// Applies is the data kind a keyword constrains.
type Applies int

const (
	// None marks containers that are never evaluated directly (definitions).
	None Applies = iota
	Any
	Object
	Array
	String
	Number
)

// Site is one location exposed by a keyword, relative to the keyword itself.
// Tokens is empty for the keyword location.
type Site struct {
	Tokens []string
	// Schema is the child schema at this location, nil for leaf locations.
	Schema map[string]any
	// Marks is true when the location is a coverage pointer.
	Marks bool
}

// Keyword describes one schema keyword.
type Keyword struct {
	Name    string
	Applies Applies
	Present func(node map[string]any) bool
	Sites   func(node map[string]any) []Site
}

// Active reports whether k takes part in evaluating node. A node carrying $ref
// is replaced by its target, so only $ref itself and definitions remain active.
func (k Keyword) Active(node map[string]any) bool {
	if !k.Present(node) {
		return false
	}
	if _, hasRef := RefOf(node); hasRef {
		return k.Name == "$ref" || k.Applies == None
	}
	return true
}

// AsSchema returns v as a schema object.
func AsSchema(v any) (map[string]any, bool) {
	switch x := v.(type) {
	case map[string]any:
		return x, true
	case draft4cover.Schema:
		return map[string]any(x), true
	default:
		return nil, false
	}
}

// RefOf returns the node's $ref value.
func RefOf(node map[string]any) (string, bool) {
	ref, ok := node["$ref"].(string)
	return ref, ok
}

// SortedKeys returns the keys of an object-valued keyword in ascending order.
// Decoded JSON objects carry no member order, so sorting keeps walks deterministic.
func SortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func has(name string) func(map[string]any) bool {
	return func(node map[string]any) bool {
		v, ok := node[name]
		return ok && v != nil
	}
}

func isArray(name string) func(map[string]any) bool {
	return func(node map[string]any) bool {
		_, ok := node[name].([]any)
		return ok
	}
}

func isObject(name string) func(map[string]any) bool {
	return func(node map[string]any) bool {
		_, ok := AsSchema(node[name])
		return ok
	}
}

func self(map[string]any) []Site {
	return []Site{{Marks: true}}
}

// branches exposes a marked keyword location plus one child per array element.
func branches(name string) func(map[string]any) []Site {
	return func(node map[string]any) []Site {
		arr, _ := node[name].([]any)
		sites := make([]Site, 0, len(arr)+1)
		sites = append(sites, Site{Marks: true})
		for i, v := range arr {
			child, ok := AsSchema(v)
			if !ok {
				continue
			}
			sites = append(sites, Site{Tokens: []string{strconv.Itoa(i)}, Schema: child})
		}
		return sites
	}
}

// members exposes one child per object member, marked when marks is set.
func members(name string, marks bool) func(map[string]any) []Site {
	return func(node map[string]any) []Site {
		m, _ := AsSchema(node[name])
		sites := make([]Site, 0, len(m))
		for _, k := range SortedKeys(m) {
			child, ok := AsSchema(m[k])
			if !ok {
				continue
			}
			sites = append(sites, Site{Tokens: []string{k}, Schema: child, Marks: marks})
		}
		return sites
	}
}

// Table is the draft-4 keyword surface in evaluation order: $ref, combinators,
// object, array, string and number keywords, then type and enum.
var Table = []Keyword{
	{
		Name:    "$ref",
		Applies: Any,
		Present: func(node map[string]any) bool { _, ok := RefOf(node); return ok },
		Sites:   self,
	},
	{
		Name:    "definitions",
		Applies: None,
		Present: isObject("definitions"),
		Sites:   members("definitions", false),
	},
	{Name: "allOf", Applies: Any, Present: isArray("allOf"), Sites: branches("allOf")},
	{Name: "anyOf", Applies: Any, Present: isArray("anyOf"), Sites: branches("anyOf")},
	{Name: "oneOf", Applies: Any, Present: isArray("oneOf"), Sites: branches("oneOf")},
	{
		Name:    "not",
		Applies: Any,
		Present: isObject("not"),
		Sites: func(node map[string]any) []Site {
			child, _ := AsSchema(node["not"])
			return []Site{{Schema: child, Marks: true}}
		},
	},

	{Name: "properties", Applies: Object, Present: isObject("properties"), Sites: members("properties", false)},
	{Name: "patternProperties", Applies: Object, Present: isObject("patternProperties"), Sites: members("patternProperties", true)},
	{
		Name:    "additionalProperties",
		Applies: Object,
		Present: func(node map[string]any) bool {
			switch node["additionalProperties"].(type) {
			case bool, map[string]any, draft4cover.Schema:
				return true
			}
			return false
		},
		Sites: func(node map[string]any) []Site {
			if child, ok := AsSchema(node["additionalProperties"]); ok {
				return []Site{{Schema: child}}
			}
			return []Site{{Marks: true}}
		},
	},
	{Name: "maxProperties", Applies: Object, Present: has("maxProperties"), Sites: self},
	{Name: "minProperties", Applies: Object, Present: has("minProperties"), Sites: self},
	{Name: "required", Applies: Object, Present: isArray("required"), Sites: self},
	{
		Name:    "dependencies",
		Applies: Object,
		Present: isObject("dependencies"),
		Sites: func(node map[string]any) []Site {
			m, _ := AsSchema(node["dependencies"])
			sites := make([]Site, 0, len(m))
			for _, k := range SortedKeys(m) {
				switch dep := m[k].(type) {
				case []any:
					sites = append(sites, Site{Tokens: []string{k}, Marks: true})
				default:
					if child, ok := AsSchema(dep); ok {
						sites = append(sites, Site{Tokens: []string{k}, Schema: child})
					}
				}
			}
			return sites
		},
	},

	{
		Name:    "items",
		Applies: Array,
		Present: func(node map[string]any) bool {
			return isArray("items")(node) || isObject("items")(node)
		},
		Sites: func(node map[string]any) []Site {
			if child, ok := AsSchema(node["items"]); ok {
				return []Site{{Schema: child}}
			}
			arr, _ := node["items"].([]any)
			sites := make([]Site, 0, len(arr))
			for i, v := range arr {
				if child, ok := AsSchema(v); ok {
					sites = append(sites, Site{Tokens: []string{strconv.Itoa(i)}, Schema: child})
				}
			}
			return sites
		},
	},
	{
		Name:    "additionalItems",
		Applies: Array,
		// additionalItems only constrains anything when items is positional.
		Present: func(node map[string]any) bool {
			if !isArray("items")(node) {
				return false
			}
			switch node["additionalItems"].(type) {
			case bool, map[string]any, draft4cover.Schema:
				return true
			}
			return false
		},
		Sites: func(node map[string]any) []Site {
			child, _ := AsSchema(node["additionalItems"])
			return []Site{{Schema: child, Marks: true}}
		},
	},
	{
		Name:    "uniqueItems",
		Applies: Array,
		Present: func(node map[string]any) bool { b, _ := node["uniqueItems"].(bool); return b },
		Sites:   self,
	},
	{Name: "maxItems", Applies: Array, Present: has("maxItems"), Sites: self},
	{Name: "minItems", Applies: Array, Present: has("minItems"), Sites: self},

	{Name: "maxLength", Applies: String, Present: has("maxLength"), Sites: self},
	{Name: "minLength", Applies: String, Present: has("minLength"), Sites: self},
	{
		Name:    "pattern",
		Applies: String,
		Present: func(node map[string]any) bool { _, ok := node["pattern"].(string); return ok },
		Sites:   self,
	},

	{Name: "multipleOf", Applies: Number, Present: has("multipleOf"), Sites: self},
	{Name: "maximum", Applies: Number, Present: has("maximum"), Sites: self},
	{Name: "minimum", Applies: Number, Present: has("minimum"), Sites: self},

	{
		Name:    "type",
		Applies: Any,
		Present: func(node map[string]any) bool {
			switch node["type"].(type) {
			case string, []any:
				return true
			}
			return false
		},
		Sites: self,
	},
	{Name: "enum", Applies: Any, Present: isArray("enum"), Sites: self},
}

// Lookup returns the Table entry named name.
func Lookup(name string) (Keyword, bool) {
	for _, k := range Table {
		if k.Name == name {
			return k, true
		}
	}
	return Keyword{}, false
}
