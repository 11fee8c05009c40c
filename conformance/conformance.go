// Package conformance runs assertion suites against the validation engine.
//
// Each suite's schema is bound to the reserved registry id Alias and every test
// case is validated against "@entry#". A case whose observed validity differs
// from its declared expectation is recorded as a failed Assertion; remaining cases
// and suites still run. Reference and schema errors abort the run.
package conformance

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/openbindings/draft4cover"
	"github.com/openbindings/draft4cover/registry"
	"github.com/openbindings/draft4cover/validator"
)

// Alias is the registry id each suite schema is bound to while its cases run.
const Alias = "@entry"

// Assertion is the outcome of one test case.
type Assertion struct {
	Suite    string
	Case     string
	Expected bool
	Got      bool
	// Errors is the engine's diagnostic tree for the case, empty when the data was valid.
	Errors []*validator.KeywordError
}

// Passed reports whether the observed validity matched the expectation.
func (a Assertion) Passed() bool { return a.Expected == a.Got }

// Outcome summarises a run. Assertions holds every case in execution order.
type Outcome struct {
	Total      int
	Failed     int
	Assertions []Assertion
}

// Failures returns the failed assertions in execution order.
func (o Outcome) Failures() []Assertion {
	var out []Assertion
	for _, a := range o.Assertions {
		if !a.Passed() {
			out = append(out, a)
		}
	}
	return out
}

type options struct {
	logger    *slog.Logger
	observers []validator.Observer
}

// Option configures Run.
type Option func(*options)

// WithLogger sets the logger for per-suite progress and failed assertions.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithObserver forwards ob to every Validate call of the run.
func WithObserver(ob validator.Observer) Option {
	return func(o *options) {
		if ob != nil {
			o.observers = append(o.observers, ob)
		}
	}
}

// Run validates every case of suites with eng. reg must be the registry eng
// resolves against; its Alias entry is overwritten per suite.
func Run(eng *validator.Engine, reg *registry.Registry, suites []draft4cover.Suite, opts ...Option) (Outcome, error) {
	o := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	vopts := make([]validator.ValidateOption, 0, len(o.observers))
	for _, ob := range o.observers {
		vopts = append(vopts, validator.WithObserver(ob))
	}

	var out Outcome
	for _, s := range suites {
		reg.Put(Alias, s.Schema)
		o.logger.Debug("running suite", "suite", s.Description, "cases", len(s.Tests))
		for _, c := range s.Tests {
			res, err := eng.Validate(Alias+"#", c.Data, vopts...)
			if err != nil {
				return out, fmt.Errorf("suite %q, case %q: %w", s.Description, c.Description, err)
			}
			a := Assertion{
				Suite:    s.Description,
				Case:     c.Description,
				Expected: c.Valid,
				Got:      res.Valid,
				Errors:   res.Errors,
			}
			out.Total++
			if !a.Passed() {
				out.Failed++
				o.logger.Warn("assertion failed", "suite", a.Suite, "case", a.Case, "expected", a.Expected, "got", a.Got)
			}
			out.Assertions = append(out.Assertions, a)
		}
	}
	return out, nil
}
