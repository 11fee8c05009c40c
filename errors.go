package draft4cover

import (
	"fmt"
	"strings"
)

// DuplicateSchemaError reports a strict registry insert of an identifier that is already present.
type DuplicateSchemaError struct {
	ID string
}

func (e *DuplicateSchemaError) Error() string {
	if e == nil {
		return "duplicate schema"
	}
	return fmt.Sprintf("schema id %q already exists", e.ID)
}

// UnresolvedReferenceError indicates a $ref (or a direct Resolve call) whose target is missing.
// It aborts the validation call that hit it.
type UnresolvedReferenceError struct {
	ID      string
	Pointer string
	Err     error
}

func (e *UnresolvedReferenceError) Error() string {
	if e == nil {
		return "unresolved reference"
	}
	if e.Err == nil {
		return fmt.Sprintf("unresolved reference %s#%s", e.ID, e.Pointer)
	}
	return fmt.Sprintf("unresolved reference %s#%s: %v", e.ID, e.Pointer, e.Err)
}

func (e *UnresolvedReferenceError) Unwrap() error { return e.Err }

// ReferenceCycleError indicates a chain of $ref that returns to a location it already visited
// without descending into the data, so evaluation could never terminate.
type ReferenceCycleError struct {
	Ref   string
	Trail []string
}

func (e *ReferenceCycleError) Error() string {
	if e == nil {
		return "reference cycle"
	}
	if len(e.Trail) == 0 {
		return fmt.Sprintf("$ref cycle at %s", e.Ref)
	}
	return fmt.Sprintf("$ref cycle at %s (via %s)", e.Ref, strings.Join(e.Trail, " -> "))
}

// DepthExceededError indicates evaluation nested deeper than the engine's limit.
type DepthExceededError struct {
	Pointer string
	Limit   int
}

func (e *DepthExceededError) Error() string {
	if e == nil {
		return "depth exceeded"
	}
	return fmt.Sprintf("evaluation depth %d exceeded at %s", e.Limit, e.Pointer)
}

// SchemaError indicates a schema keyword whose value cannot be evaluated (e.g. an invalid pattern).
type SchemaError struct {
	Pointer string
	Message string
}

func (e *SchemaError) Error() string {
	if e == nil {
		return "schema error"
	}
	if e.Pointer == "" {
		return fmt.Sprintf("schema error: %s", e.Message)
	}
	return fmt.Sprintf("schema error at %s: %s", e.Pointer, e.Message)
}

// MalformedInputError indicates a schema or suite document that could not be decoded.
type MalformedInputError struct {
	Path string
	Err  error
}

func (e *MalformedInputError) Error() string {
	if e == nil {
		return "malformed input"
	}
	if e.Path == "" {
		return fmt.Sprintf("malformed input: %v", e.Err)
	}
	return fmt.Sprintf("malformed input in %s: %v", e.Path, e.Err)
}

func (e *MalformedInputError) Unwrap() error { return e.Err }
