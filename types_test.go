package draft4cover

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestSuite_Reencode_KeepsOriginAndNotes(t *testing.T) {
	in := []byte(`{
  "description": "strings",
  "schema": {"type": "string"},
  "tests": [],
  ` + suiteExtras + `
}`)

	var s Suite
	outMap := reencode(t, in, &s)
	if len(s.Extensions) != 1 {
		t.Fatalf("expected 1 extension, got %#v", s.Extensions)
	}
	if len(s.Unknown) != 1 {
		t.Fatalf("expected 1 unknown, got %#v", s.Unknown)
	}
	assertKeepsSuiteExtras(t, outMap)
	if outMap["description"] != "strings" {
		t.Fatalf("expected description preserved, got %#v", outMap["description"])
	}
}

func TestTestCase_Reencode_KeepsOriginAndNotes(t *testing.T) {
	in := []byte(`{
  "description": "one",
  "data": 1,
  "valid": true,
  ` + suiteExtras + `
}`)

	var c TestCase
	outMap := reencode(t, in, &c)
	assertKeepsSuiteExtras(t, outMap)
	if outMap["valid"] != true {
		t.Fatalf("expected valid preserved, got %#v", outMap["valid"])
	}
}

func TestTestCase_Marshal_KnownFieldsWinOverUnknown(t *testing.T) {
	c := TestCase{
		Description: "good",
		Valid:       true,
		LosslessFields: LosslessFields{
			Unknown: map[string]json.RawMessage{
				"description": json.RawMessage(`"bad"`),
			},
			Extensions: map[string]json.RawMessage{
				"x-origin": json.RawMessage(`"draft4/required.json"`),
			},
		},
	}
	outMap := mustObject(t, mustEncode(t, c))
	if outMap["description"] != "good" {
		t.Fatalf("expected typed description to win, got %#v", outMap["description"])
	}
	if outMap["x-origin"] != "draft4/required.json" {
		t.Fatalf("expected extension preserved, got %#v", outMap["x-origin"])
	}
}

func TestTestCase_DataKeepsNumberText(t *testing.T) {
	var c TestCase
	mustDecodeInto(t, []byte(`{"description": "n", "data": {"a": [1.0, 0.1, 12345678901234567890]}, "valid": true}`), &c)

	arr := c.Data.(map[string]any)["a"].([]any)
	want := []json.Number{"1.0", "0.1", "12345678901234567890"}
	for i, w := range want {
		if arr[i] != w {
			t.Fatalf("data.a[%d]: expected %q, got %#v", i, w, arr[i])
		}
	}

	out := mustEncode(t, c)
	if !json.Valid(out) || !strings.Contains(string(out), "12345678901234567890") {
		t.Fatalf("expected exact number text on marshal, got %s", out)
	}
}

func TestTestCase_NullData(t *testing.T) {
	var c TestCase
	mustDecodeInto(t, []byte(`{"description": "null", "data": null, "valid": false}`), &c)
	if c.Data != nil {
		t.Fatalf("expected nil data, got %#v", c.Data)
	}
}

func TestSuite_RequiresObjectSchema(t *testing.T) {
	var s Suite
	if err := json.Unmarshal([]byte(`{"description": "x", "tests": []}`), &s); err == nil {
		t.Fatalf("expected error for missing schema")
	}
	if err := json.Unmarshal([]byte(`{"description": "x", "schema": true, "tests": []}`), &s); err == nil {
		t.Fatalf("expected error for non-object schema")
	}
}

func TestDecodeSuites_ArrayOrObject(t *testing.T) {
	many, err := DecodeSuites([]byte(`[{"schema": {}, "tests": []}, {"schema": {"id": "b"}, "tests": []}]`))
	if err != nil {
		t.Fatalf("decode array: %v", err)
	}
	if len(many) != 2 || many[1].Schema.ID() != "b" {
		t.Fatalf("unexpected suites: %#v", many)
	}

	one, err := DecodeSuites([]byte("  \n{\"schema\": {}, \"tests\": [{\"data\": 1, \"valid\": true}]}"))
	if err != nil {
		t.Fatalf("decode object: %v", err)
	}
	if len(one) != 1 || len(one[0].Tests) != 1 {
		t.Fatalf("unexpected suites: %#v", one)
	}

	if _, err := DecodeSuites([]byte(`[{"schema": {}`)); err == nil {
		t.Fatalf("expected error for truncated input")
	}
}

func TestSchema_IDs(t *testing.T) {
	s := Schema{"id": "http://x/y#frag"}
	if s.ID() != "http://x/y#frag" {
		t.Fatalf("unexpected id %q", s.ID())
	}
	if s.BaseID() != "http://x/y" {
		t.Fatalf("unexpected base id %q", s.BaseID())
	}
	if (Schema{"id": 3}).ID() != "" {
		t.Fatalf("non-string id must be ignored")
	}
}

func TestDecode_RejectsTrailingData(t *testing.T) {
	if _, err := Decode([]byte(`{} {}`)); err == nil {
		t.Fatalf("expected trailing data error")
	}
	if _, err := DecodeSchema([]byte(`[]`)); err == nil {
		t.Fatalf("expected error for array root")
	}
}

func TestErrors_UnwrapAndNil(t *testing.T) {
	inner := errors.New("boom")
	var err error = &MalformedInputError{Path: "a.json", Err: inner}
	if !errors.Is(err, inner) {
		t.Fatalf("expected MalformedInputError to unwrap")
	}
	err = &UnresolvedReferenceError{ID: "x", Pointer: "/a", Err: inner}
	if !errors.Is(err, inner) {
		t.Fatalf("expected UnresolvedReferenceError to unwrap")
	}
	if got := (&ReferenceCycleError{Ref: "x#", Trail: []string{"x#/a", "x#/b"}}).Error(); got != "$ref cycle at x# (via x#/a -> x#/b)" {
		t.Fatalf("unexpected message %q", got)
	}
	var nilErr *DuplicateSchemaError
	if nilErr.Error() != "duplicate schema" {
		t.Fatalf("nil receiver must not panic")
	}
}
