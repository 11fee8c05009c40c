// Package registry holds named root schemas and resolves JSON Pointer references
// within and between them.
//
// A Registry is not safe for concurrent mutation. Each top-level run owns its own
// Registry; concurrent reads (Resolve) are safe once no goroutine calls Add or Put.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/qri-io/jsonpointer"

	"github.com/openbindings/draft4cover"
)

// Registry maps schema identifiers (trailing '#' stripped) to root schemas.
type Registry struct {
	schemas map[string]map[string]any
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{schemas: map[string]map[string]any{}}
}

func trimID(id string) string {
	return strings.TrimSuffix(id, "#")
}

// Add inserts schema under id. It fails with *draft4cover.DuplicateSchemaError
// when id is already registered.
func (r *Registry) Add(id string, schema draft4cover.Schema) error {
	key := trimID(id)
	if _, ok := r.schemas[key]; ok {
		return &draft4cover.DuplicateSchemaError{ID: key}
	}
	r.Put(key, schema)
	return nil
}

// Put inserts or overwrites schema under id unconditionally.
func (r *Registry) Put(id string, schema draft4cover.Schema) {
	r.schemas[trimID(id)] = map[string]any(schema)
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.schemas[trimID(id)]
	return ok
}

// Len returns the number of registered schemas.
func (r *Registry) Len() int { return len(r.schemas) }

// IDs returns the registered identifiers in ascending order.
func (r *Registry) IDs() []string {
	out := make([]string, 0, len(r.schemas))
	for id := range r.schemas {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Resolve walks ptr (a JSON Pointer, optionally prefixed with '#') from the
// schema stored under id. The target must be a schema object. Nested schemas are
// expected as plain map[string]any, the shape JSON decoding produces.
func (r *Registry) Resolve(id, ptr string) (draft4cover.Schema, error) {
	key := trimID(id)
	doc, ok := r.schemas[key]
	if !ok {
		return nil, &draft4cover.UnresolvedReferenceError{ID: key, Pointer: ptr, Err: errors.New("unknown schema id")}
	}
	v, err := evalPointer(doc, ptr)
	if err != nil {
		return nil, &draft4cover.UnresolvedReferenceError{ID: key, Pointer: ptr, Err: err}
	}
	switch x := v.(type) {
	case map[string]any:
		return draft4cover.Schema(x), nil
	case draft4cover.Schema:
		return x, nil
	case nil:
		return nil, &draft4cover.UnresolvedReferenceError{ID: key, Pointer: ptr, Err: errors.New("path not found")}
	default:
		return nil, &draft4cover.UnresolvedReferenceError{ID: key, Pointer: ptr, Err: fmt.Errorf("target is %T, not a schema object", v)}
	}
}

func evalPointer(doc map[string]any, ptr string) (v any, err error) {
	ptr = strings.TrimPrefix(ptr, "#")
	if ptr == "" {
		return doc, nil
	}
	p, err := jsonpointer.Parse(ptr)
	if err != nil {
		return nil, err
	}
	// jsonpointer indexes arrays without a lower bound check.
	defer func() {
		if rec := recover(); rec != nil {
			v, err = nil, fmt.Errorf("invalid pointer %q: %v", ptr, rec)
		}
	}()
	return p.Eval(doc)
}
