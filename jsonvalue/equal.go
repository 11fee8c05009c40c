package jsonvalue

import (
	"unicode/utf8"

	"github.com/openbindings/draft4cover"
)

// Equal reports strict, kind-sensitive deep equality: 1 and 1.0 are equal,
// 1 and "1" are not, objects compare by key set regardless of order.
func Equal(a, b any) bool {
	ka, kb := KindOf(a), KindOf(b)
	if ka.IsNumeric() && kb.IsNumeric() {
		c, ok := Compare(a, b)
		return ok && c == 0
	}
	if ka != kb {
		return false
	}
	switch ka {
	case Null:
		return true
	case Boolean:
		return a.(bool) == b.(bool)
	case String:
		return a.(string) == b.(string)
	case Array:
		xa, xb := a.([]any), b.([]any)
		if len(xa) != len(xb) {
			return false
		}
		for i := range xa {
			if !Equal(xa[i], xb[i]) {
				return false
			}
		}
		return true
	case Object:
		ma, mb := object(a), object(b)
		if len(ma) != len(mb) {
			return false
		}
		for k, va := range ma {
			vb, ok := mb[k]
			if !ok || !Equal(va, vb) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Length returns the number of Unicode code points in s. A surrogate pair
// decoded from JSON is a single rune and so counts once.
func Length(s string) int {
	return utf8.RuneCountInString(s)
}

func object(v any) map[string]any {
	if s, ok := v.(draft4cover.Schema); ok {
		return s
	}
	return v.(map[string]any)
}
