package draft4cover_test

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/openbindings/draft4cover"
	"github.com/openbindings/draft4cover/conformance"
	"github.com/openbindings/draft4cover/coverage"
	"github.com/openbindings/draft4cover/jsonvalue"
	"github.com/openbindings/draft4cover/registry"
	"github.com/openbindings/draft4cover/report"
	"github.com/openbindings/draft4cover/validator"
)

func ExampleDecodeSuites() {
	data := []byte(`[{
		"description": "integers",
		"schema": {"type": "integer"},
		"tests": [
			{"description": "one", "data": 1.0, "valid": true},
			{"description": "one and a half", "data": 1.5, "valid": false}
		]
	}]`)

	suites, err := draft4cover.DecodeSuites(data)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(suites[0].Description, len(suites[0].Tests))
	fmt.Println(suites[0].Tests[0].Data)
	// Output:
	// integers 2
	// 1.0
}

func ExampleSuite_lossless() {
	var s draft4cover.Suite
	_ = json.Unmarshal([]byte(`{"schema": {}, "tests": [], "x-origin": "draft4/type.json"}`), &s)

	fmt.Println("has x-origin:", s.Extensions["x-origin"] != nil)
	out, _ := json.Marshal(s)
	var m map[string]any
	_ = json.Unmarshal(out, &m)
	fmt.Println("round-trip x-origin:", m["x-origin"])
	// Output:
	// has x-origin: true
	// round-trip x-origin: draft4/type.json
}

func ExampleValidateSuites_strict() {
	suites, _ := draft4cover.DecodeSuites([]byte(`{"description": "s", "schema": {}, "tests": [], "comment": "typo?"}`))

	fmt.Println("default:", draft4cover.ValidateSuites(suites) == nil)
	fmt.Println("strict:", draft4cover.ValidateSuites(suites, draft4cover.WithRejectUnknownFields()))
	// Output:
	// default: true
	// strict: invalid suites: suites[0]: unknown fields: comment
}

func Example_validate() {
	reg := registry.New()
	schema, _ := draft4cover.DecodeSchema([]byte(`{"id": "s1", "type": "object", "required": ["a"]}`))
	if err := reg.Add(schema.ID(), schema); err != nil {
		log.Fatal(err)
	}
	eng := validator.New(reg)

	data, _ := draft4cover.Decode([]byte(`{"b": 1}`))
	res, err := eng.Validate("s1#", data)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(res.Valid)
	fmt.Println(res.Display())
	// Output:
	// false
	// error: required "a" missing (s1#/required)
}

func Example_conformance() {
	suites, _ := draft4cover.DecodeSuites([]byte(`[{
		"description": "strings",
		"schema": {"type": "string"},
		"tests": [
			{"description": "a string", "data": "x", "valid": true},
			{"description": "mislabelled", "data": 1, "valid": true}
		]
	}]`))
	reg := registry.New()
	out, err := conformance.Run(validator.New(reg), reg, suites)
	if err != nil {
		log.Fatal(err)
	}
	for _, a := range out.Failures() {
		fmt.Printf("FAIL %q %q\n", a.Suite, a.Case)
	}
	fmt.Printf("%d/%d failed\n", out.Failed, out.Total)
	// Output:
	// FAIL "strings" "mislabelled"
	// 1/2 failed
}

func Example_coverage() {
	target, _ := draft4cover.DecodeSchema([]byte(`{"id": "t", "type": "string", "minLength": 2, "pattern": "^a"}`))
	suites, _ := draft4cover.DecodeSuites([]byte(`{
		"description": "t",
		"schema": {"$ref": "t#"},
		"tests": [
			{"description": "ab", "data": "ab", "valid": true},
			{"description": "b", "data": "b", "valid": false},
			{"description": "number", "data": 1, "valid": false}
		]
	}`))

	rs, err := coverage.Measure([]draft4cover.Schema{target}, suites, []draft4cover.Schema{target})
	if err != nil {
		log.Fatal(err)
	}
	_ = report.Text(os.Stdout, rs)
	// Output:
	// id  coverage  total  either  both
	// t   1.000     3      3       3
}

func Example_format() {
	v, _ := draft4cover.Decode([]byte(`{"b": 1.50, "a": [true, null, "é"]}`))
	fmt.Println(jsonvalue.Format(v))
	// Output: {"a":[true,null,"é"],"b":1.50}
}
