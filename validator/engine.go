// Package validator is a reference JSON Schema draft-4 validation engine.
//
// The engine evaluates a data value against a schema held in a registry.Registry,
// following $ref between documents, and reports one instrumentation event per
// evaluated keyword location to the observers passed to Validate. It keeps no
// per-call state between calls, so an Engine may be reused; its Registry must not
// be mutated while a Validate call is running.
package validator

import (
	"io"
	"log/slog"
	"sync"

	"github.com/dlclark/regexp2"

	"github.com/openbindings/draft4cover/jsonvalue"
	"github.com/openbindings/draft4cover/pointer"
	"github.com/openbindings/draft4cover/registry"
)

// DefaultMaxDepth bounds nested evaluation.
const DefaultMaxDepth = 512

type options struct {
	logger   *slog.Logger
	maxDepth int
}

// Option configures an Engine.
type Option func(*options)

// WithLogger sets the logger used for debug output of failed validations.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMaxDepth overrides DefaultMaxDepth. Values below 1 are ignored.
func WithMaxDepth(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxDepth = n
		}
	}
}

type validateOptions struct {
	observers observers
}

// ValidateOption configures a single Validate call.
type ValidateOption func(*validateOptions)

// WithObserver adds an instrumentation observer for this call. It may be given more than once.
func WithObserver(ob Observer) ValidateOption {
	return func(o *validateOptions) {
		if ob != nil {
			o.observers = append(o.observers, ob)
		}
	}
}

// Engine validates data against schemas stored in a Registry.
type Engine struct {
	reg      *registry.Registry
	logger   *slog.Logger
	maxDepth int

	mu       sync.Mutex
	patterns map[string]*regexp2.Regexp
}

// New returns an Engine resolving schemas through reg.
func New(reg *registry.Registry, opts ...Option) *Engine {
	o := options{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{
		reg:      reg,
		logger:   o.logger,
		maxDepth: o.maxDepth,
		patterns: map[string]*regexp2.Regexp{},
	}
}

// Registry returns the registry the engine resolves against.
func (e *Engine) Registry() *registry.Registry { return e.reg }

// Validate validates data against the schema at ref ("id#/pointer"; "@entry#" names
// the root of the schema registered as "@entry").
//
// A returned error means evaluation could not complete: an unresolved $ref
// (*draft4cover.UnresolvedReferenceError), a $ref cycle that never descends into
// the data (*draft4cover.ReferenceCycleError), nesting beyond the depth limit
// (*draft4cover.DepthExceededError) or an unusable keyword value
// (*draft4cover.SchemaError). Keyword violations are reported in Result.
func (e *Engine) Validate(ref string, data any, opts ...ValidateOption) (Result, error) {
	var vo validateOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&vo)
		}
	}

	start := pointer.Parse(ref)
	schema, err := e.reg.Resolve(start.ID(), start.Pointer())
	if err != nil {
		return Result{}, err
	}

	ev := &evaluation{eng: e, obs: vo.observers}
	errs, err := ev.node(frame{loc: start}, schema, jsonvalue.Plain(data))
	if err != nil {
		return Result{}, err
	}
	res := Result{Valid: len(errs) == 0, Errors: errs}
	if !res.Valid {
		e.logger.Debug("validation failed", "ref", start.String(), "errors", len(errs), "tree", res.Display())
	}
	return res, nil
}
