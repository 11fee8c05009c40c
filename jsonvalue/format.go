package jsonvalue

import (
	"bytes"
	"encoding/json"
)

// Format renders v as compact JSON for diagnostics. Object members are sorted
// and json.Number values keep their decoded text. Unencodable values render as "?".
func Format(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "?"
	}
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
}
