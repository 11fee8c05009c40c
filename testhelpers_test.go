package draft4cover

import (
	"encoding/json"
	"testing"
)

// suiteExtras are the fields carried through decoding by extensible fixtures:
// an x- extension recording where a suite came from and an unknown note object.
const suiteExtras = `"x-origin": "draft4/required.json",
  "note": {"reviewed": "2024-03-01"}`

func mustDecodeInto[T any](t *testing.T, b []byte, v *T) {
	t.Helper()
	if err := json.Unmarshal(b, v); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func mustEncode(t *testing.T, v any) []byte {
	t.Helper()
	out, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return out
}

func mustObject(t *testing.T, b []byte) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	return m
}

// reencode decodes in into v and returns v's encoding as a generic object.
func reencode[T any](t *testing.T, in []byte, v *T) map[string]any {
	t.Helper()
	mustDecodeInto(t, in, v)
	return mustObject(t, mustEncode(t, v))
}

func assertKeepsSuiteExtras(t *testing.T, out map[string]any) {
	t.Helper()
	if out["x-origin"] != "draft4/required.json" {
		t.Fatalf("x-origin lost, got %#v", out["x-origin"])
	}
	note, ok := out["note"].(map[string]any)
	if !ok {
		t.Fatalf("note lost or reshaped, got %#v", out["note"])
	}
	if note["reviewed"] != "2024-03-01" {
		t.Fatalf("note.reviewed lost, got %#v", note["reviewed"])
	}
}
