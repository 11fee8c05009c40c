package validator

import (
	"strings"
)

// KeywordError is one keyword violation. Violations are data: they are collected
// into Result and never returned as an error.
type KeywordError struct {
	Keyword string
	// Pointer is the fully-qualified location "id#/pointer" of the keyword.
	Pointer string
	Message string
	// Children holds the errors of nested evaluations, one slice per failing branch.
	Children [][]*KeywordError
}

func (e *KeywordError) Error() string {
	if e == nil {
		return "keyword violation"
	}
	return e.Pointer + ": " + e.Message
}

// Result is the outcome of one Validate call.
type Result struct {
	Valid  bool
	Errors []*KeywordError
}

// Display renders the error tree, one violation per line, children indented.
func (r Result) Display() string {
	var b strings.Builder
	for _, e := range r.Errors {
		writeError(&b, e, 0)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func writeError(b *strings.Builder, e *KeywordError, depth int) {
	if depth == 0 {
		b.WriteString("error: ")
	} else {
		b.WriteString(strings.Repeat("  ", depth-1))
		b.WriteString("- ")
	}
	b.WriteString(e.Message)
	b.WriteString(" (")
	b.WriteString(e.Pointer)
	b.WriteString(")\n")
	for _, branch := range e.Children {
		for _, c := range branch {
			writeError(b, c, depth+1)
		}
	}
}

// Observer receives one instrumentation event per evaluated keyword location.
// err is nil when the keyword passed.
type Observer interface {
	Observe(keyword, pointer string, err *KeywordError)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(keyword, pointer string, err *KeywordError)

func (f ObserverFunc) Observe(keyword, pointer string, err *KeywordError) { f(keyword, pointer, err) }

type observers []Observer

func (o observers) Observe(keyword, pointer string, err *KeywordError) {
	for _, ob := range o {
		ob.Observe(keyword, pointer, err)
	}
}
