// Package jsonvalue classifies and compares decoded JSON values.
//
// Values are the shapes produced by encoding/json (map[string]any, []any, string,
// bool, nil) with numbers as json.Number, float64 or Go integer types. A
// draft4cover.Schema is an object. Numeric comparisons are exact: numbers are
// converted to math/big.Rat from their decimal text.
package jsonvalue

import "github.com/openbindings/draft4cover"

// Kind is the JSON Schema primitive type of a value.
type Kind int

const (
	Invalid Kind = iota
	Null
	Boolean
	Integer
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Boolean:
		return "boolean"
	case Integer:
		return "integer"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "invalid"
	}
}

// KindOf detects the kind of v. A number with a zero fractional part is Integer.
func KindOf(v any) Kind {
	switch x := v.(type) {
	case nil:
		return Null
	case bool:
		return Boolean
	case string:
		return String
	case []any:
		return Array
	case map[string]any, draft4cover.Schema:
		return Object
	default:
		r, ok := Rat(x)
		if !ok {
			return Invalid
		}
		if r.IsInt() {
			return Integer
		}
		return Number
	}
}

// IsNumeric reports whether k is Integer or Number.
func (k Kind) IsNumeric() bool { return k == Integer || k == Number }

// MatchesType reports whether a value of kind k satisfies the schema type name.
// "number" also accepts integers; "integer" does not accept non-integral numbers.
func MatchesType(name string, k Kind) bool {
	if name == k.String() {
		return true
	}
	return name == "number" && k == Integer
}

// Plain returns v with every draft4cover.Schema, at any depth, converted to
// map[string]any. Values holding no Schema are returned as is.
func Plain(v any) any {
	if !hasSchema(v) {
		return v
	}
	switch x := v.(type) {
	case draft4cover.Schema:
		return Plain(map[string]any(x))
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = Plain(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = Plain(e)
		}
		return out
	}
	return v
}

func hasSchema(v any) bool {
	switch x := v.(type) {
	case draft4cover.Schema:
		return true
	case map[string]any:
		for _, e := range x {
			if hasSchema(e) {
				return true
			}
		}
	case []any:
		for _, e := range x {
			if hasSchema(e) {
				return true
			}
		}
	}
	return false
}
