package coverage

import (
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/openbindings/draft4cover"
	"github.com/openbindings/draft4cover/conformance"
	"github.com/openbindings/draft4cover/registry"
	"github.com/openbindings/draft4cover/validator"
)

// Result is the coverage of one pointer of one target.
type Result struct {
	ID        string `json:"id"`
	Pointer   string `json:"pointer"`
	Succeeded bool   `json:"succeeded"`
	Failed    bool   `json:"failed"`
}

// ResultSet maps target ids to their results in enumeration order. Order lists
// the ids in ascending order; a target without an id is keyed by "".
type ResultSet struct {
	Order   []string
	Results map[string][]Result
}

type options struct {
	logger *slog.Logger
	hook   func(conformance.Assertion)
	engine []validator.Option
}

// Option configures Measure.
type Option func(*options)

// WithLogger sets the logger passed to the engine and the suite runner.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithAssertionHook calls fn with every assertion of the run, in execution order.
func WithAssertionHook(fn func(conformance.Assertion)) Option {
	return func(o *options) { o.hook = fn }
}

// WithEngineOptions passes opts to the engine Measure builds, after its logger.
func WithEngineOptions(opts ...validator.Option) Option {
	return func(o *options) { o.engine = append(o.engine, opts...) }
}

// Measure registers every schema that has an id, runs suites against them with a
// Ledger attached and joins the Ledger against the pointers of each target.
//
// Registering two schemas with the same id fails with *draft4cover.DuplicateSchemaError.
// Reference and schema errors raised while running suites abort the measurement.
// Failed assertions do not.
func Measure(schemas []draft4cover.Schema, suites []draft4cover.Suite, targets []draft4cover.Schema, opts ...Option) (ResultSet, error) {
	o := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	reg := registry.New()
	for _, s := range schemas {
		id := s.ID()
		if id == "" {
			continue
		}
		if err := reg.Add(id, s); err != nil {
			return ResultSet{}, err
		}
	}
	o.logger.Debug("registered schemas", "count", reg.Len())

	ledger := NewLedger()
	eng := validator.New(reg, append([]validator.Option{validator.WithLogger(o.logger)}, o.engine...)...)
	out, err := conformance.Run(eng, reg, suites,
		conformance.WithObserver(ledger),
		conformance.WithLogger(o.logger),
	)
	if err != nil {
		return ResultSet{}, fmt.Errorf("run suites: %w", err)
	}
	if o.hook != nil {
		for _, a := range out.Assertions {
			o.hook(a)
		}
	}
	o.logger.Debug("suites finished", "total", out.Total, "failed", out.Failed, "pointers", ledger.Len())

	return Join(ledger, targets), nil
}

// Join builds the result set of targets from what ledger has observed. Targets
// are ordered by id ascending, with the empty id first.
func Join(ledger *Ledger, targets []draft4cover.Schema) ResultSet {
	sorted := append([]draft4cover.Schema(nil), targets...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID() < sorted[j].ID() })

	rs := ResultSet{Results: map[string][]Result{}}
	for _, t := range sorted {
		id := t.ID()
		if _, ok := rs.Results[id]; !ok {
			rs.Order = append(rs.Order, id)
			rs.Results[id] = []Result{}
		}
		for _, ptr := range Enumerate(t) {
			seen := ledger.Lookup(ptr)
			rs.Results[id] = append(rs.Results[id], Result{
				ID:        id,
				Pointer:   ptr,
				Succeeded: seen.Pass,
				Failed:    seen.Fail,
			})
		}
	}
	return rs
}
