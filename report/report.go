// Package report renders coverage result sets.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/openbindings/draft4cover/coverage"
)

// Text writes one summary row per target: id, coverage rate, total pointers,
// pointers observed with either polarity and pointers observed with both.
func Text(w io.Writer, rs coverage.ResultSet) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "id\tcoverage\ttotal\teither\tboth")
	for _, s := range rs.Summaries() {
		id := s.ID
		if id == "" {
			id = "(no id)"
		}
		fmt.Fprintf(tw, "%s\t%.3f\t%d\t%d\t%d\n", id, s.Rate, s.Total, s.Either, s.Both)
	}
	return tw.Flush()
}

// Detail writes one row per pointer with its observed polarities, "+" for a
// passing observation and "-" for a failing one.
func Detail(w io.Writer, rs coverage.ResultSet) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "pointer\tpass\tfail")
	for _, id := range rs.Order {
		for _, r := range rs.Results[id] {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Pointer, mark(r.Succeeded, "+"), mark(r.Failed, "-"))
		}
	}
	return tw.Flush()
}

func mark(on bool, s string) string {
	if on {
		return s
	}
	return "."
}

type target struct {
	coverage.Summary
	Results []coverage.Result `json:"results"`
}

type document struct {
	Targets []target `json:"targets"`
}

// JSON writes the summaries together with their per-pointer results.
func JSON(w io.Writer, rs coverage.ResultSet) error {
	doc := document{Targets: []target{}}
	for _, s := range rs.Summaries() {
		results := rs.Results[s.ID]
		if results == nil {
			results = []coverage.Result{}
		}
		doc.Targets = append(doc.Targets, target{Summary: s, Results: results})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
