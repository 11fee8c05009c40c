package jsonvalue

import (
	"encoding/json"
	"math"
	"math/big"
	"strconv"
)

// Rat converts a JSON number to an exact rational. json.Number is parsed from its
// decimal text; float64 values use their exact binary value.
func Rat(v any) (*big.Rat, bool) {
	switch x := v.(type) {
	case json.Number:
		r, ok := new(big.Rat).SetString(x.String())
		return r, ok
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, false
		}
		return new(big.Rat).SetFloat64(x), true
	case float32:
		return Rat(float64(x))
	case int:
		return new(big.Rat).SetInt64(int64(x)), true
	case int8:
		return new(big.Rat).SetInt64(int64(x)), true
	case int16:
		return new(big.Rat).SetInt64(int64(x)), true
	case int32:
		return new(big.Rat).SetInt64(int64(x)), true
	case int64:
		return new(big.Rat).SetInt64(x), true
	case uint:
		return new(big.Rat).SetUint64(uint64(x)), true
	case uint8:
		return new(big.Rat).SetUint64(uint64(x)), true
	case uint16:
		return new(big.Rat).SetUint64(uint64(x)), true
	case uint32:
		return new(big.Rat).SetUint64(uint64(x)), true
	case uint64:
		return new(big.Rat).SetUint64(x), true
	default:
		return nil, false
	}
}

// Compare returns -1, 0 or +1 comparing the numbers a and b.
// ok is false when either value is not a number.
func Compare(a, b any) (c int, ok bool) {
	ra, ok := Rat(a)
	if !ok {
		return 0, false
	}
	rb, ok := Rat(b)
	if !ok {
		return 0, false
	}
	return ra.Cmp(rb), true
}

// MultipleOf reports whether v divided by divisor is an integer.
// A zero or non-numeric divisor never matches.
func MultipleOf(v, divisor any) bool {
	rv, ok := Rat(v)
	if !ok {
		return false
	}
	rd, ok := Rat(divisor)
	if !ok || rd.Sign() == 0 {
		return false
	}
	return new(big.Rat).Quo(rv, rd).IsInt()
}

// Int converts an integral JSON number to int. Fractional or out-of-range values fail.
func Int(v any) (int, bool) {
	r, ok := Rat(v)
	if !ok || !r.IsInt() {
		return 0, false
	}
	n := r.Num()
	if !n.IsInt64() {
		return 0, false
	}
	i := n.Int64()
	if int64(int(i)) != i {
		return 0, false
	}
	return int(i), true
}

// FormatNumber renders a number the way it appears in messages.
func FormatNumber(v any) string {
	switch x := v.(type) {
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	}
	if r, ok := Rat(v); ok {
		if r.IsInt() {
			return r.Num().String()
		}
		return r.FloatString(10)
	}
	return "NaN"
}
