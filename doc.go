// Package draft4cover is a conformance-testing framework for JSON Schema draft-4
// validators.
//
// The root package holds the data model shared by the subpackages: Schema (an
// untyped draft-4 node), Suite and TestCase (assertion suites in the format of
// the JSON Schema test suite) and the error kinds raised while loading and
// evaluating them.
//
// # Quick Start
//
//	suites, err := loader.LoadSuites([]string{"suites"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	schemas, err := loader.LoadSchemas([]string{"schemas"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	rs, err := coverage.Measure(schemas, suites, schemas)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	report.Text(os.Stdout, rs)
//
// # Numbers
//
// Documents are decoded with json.Number so that 1, 1.0 and 0.1 keep their exact
// text. Every numeric comparison in the engine is exact.
//
// # Lossless JSON
//
// Suite and TestCase preserve fields they do not model:
//   - LosslessFields.Extensions for keys beginning with x-
//   - LosslessFields.Unknown for other unknown keys
//
// If a key exists both as a typed field and in Unknown/Extensions, the typed
// field wins during marshaling.
//
// # Concurrency
//
// All types in this package are safe for concurrent read access. Concurrent
// writes to the same value require external synchronization.
//
// # Subpackages
//
//   - jsonvalue: value kinds, strict equality and canonical encoding
//   - pointer: evaluation contexts and JSON Pointer rendering
//   - registry: schemas by id, JSON Pointer resolution
//   - keyword: the draft-4 keyword table
//   - validator: the reference validation engine
//   - conformance: the suite runner
//   - coverage: pointer enumeration and coverage measurement
//   - loader: JSON and YAML document loading
//   - report: text and JSON coverage reports
package draft4cover
