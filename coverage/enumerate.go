// Package coverage measures how thoroughly assertion suites exercise the keyword
// surface of target schemas.
//
// Enumerate lists the coverage pointers of a schema by walking keyword.Table, the
// same table the validator evaluates with, so every pointer it returns is a
// location the engine can report on. A Ledger records the pass/fail polarity of
// engine events; Measure runs suites with a Ledger attached and joins it against
// the enumerated pointers of each target.
package coverage

import (
	"github.com/openbindings/draft4cover"
	"github.com/openbindings/draft4cover/keyword"
	"github.com/openbindings/draft4cover/pointer"
)

// Enumerate returns the coverage pointers of s in evaluation order, each rendered
// as "{base id}#{pointer}". A schema without keywords enumerates to nothing.
func Enumerate(s draft4cover.Schema) []string {
	var out []string
	walk(pointer.New(s.BaseID()), map[string]any(s), &out)
	return out
}

func walk(loc pointer.Context, node map[string]any, out *[]string) {
	for _, kw := range keyword.Table {
		if !kw.Active(node) {
			continue
		}
		for _, site := range kw.Sites(node) {
			at := loc.Push(append([]string{kw.Name}, site.Tokens...)...)
			if site.Marks {
				*out = append(*out, at.String())
			}
			if site.Schema != nil {
				walk(at, site.Schema, out)
			}
		}
	}
}
