// Package pointer models evaluation positions inside a set of schema documents.
//
// A Context is a document identifier plus the unescaped JSON Pointer tokens leading
// to a schema node. Contexts are values: Push returns a new Context and never
// mutates the receiver, so branches of a recursive walk cannot observe each other.
package pointer

import (
	"strings"
)

// Context is an immutable evaluation position.
type Context struct {
	id     string
	tokens []string
}

// New returns a Context for document id at the given unescaped tokens.
func New(id string, tokens ...string) Context {
	return Context{id: id, tokens: append([]string(nil), tokens...)}
}

// Parse parses a reference of the form "id#/json/pointer". The id is everything
// before the first '#'. "%25" in the pointer decodes to "%" before segmenting,
// then each segment is unescaped (~1 -> /, ~0 -> ~).
func Parse(ref string) Context {
	id, frag, _ := strings.Cut(ref, "#")
	return Context{id: id, tokens: Split(frag)}
}

// Split splits a JSON Pointer into unescaped tokens. "" and "/" prefixes are accepted.
func Split(ptr string) []string {
	ptr = strings.ReplaceAll(ptr, "%25", "%")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return nil
	}
	parts := strings.Split(ptr, "/")
	for i, p := range parts {
		parts[i] = Unescape(p)
	}
	return parts
}

// Resolve returns the Context a $ref found at c points to. A ref without an id
// ("#/definitions/a") stays in c's document.
func (c Context) Resolve(ref string) Context {
	next := Parse(ref)
	if next.id == "" {
		next.id = c.id
	}
	return next
}

// ID returns the document identifier.
func (c Context) ID() string { return c.id }

// Tokens returns a copy of the unescaped pointer tokens.
func (c Context) Tokens() []string { return append([]string(nil), c.tokens...) }

// Depth returns the number of pointer tokens.
func (c Context) Depth() int { return len(c.tokens) }

// Push returns a Context extended by the given tokens.
func (c Context) Push(tokens ...string) Context {
	out := make([]string, 0, len(c.tokens)+len(tokens))
	out = append(out, c.tokens...)
	out = append(out, tokens...)
	return Context{id: c.id, tokens: out}
}

// Pointer renders the escaped JSON Pointer ("" for the document root).
func (c Context) Pointer() string {
	var b strings.Builder
	for _, t := range c.tokens {
		b.WriteByte('/')
		b.WriteString(Escape(t))
	}
	return b.String()
}

// String renders the fully-qualified location "id#/pointer".
func (c Context) String() string {
	return c.id + "#" + c.Pointer()
}

// Escape escapes a single JSON Pointer token.
func Escape(tok string) string {
	if !strings.ContainsAny(tok, "~/") {
		return tok
	}
	tok = strings.ReplaceAll(tok, "~", "~0")
	return strings.ReplaceAll(tok, "/", "~1")
}

// Unescape reverses Escape. ~1 is replaced before ~0 so "~01" yields "~1".
func Unescape(tok string) string {
	if !strings.Contains(tok, "~") {
		return tok
	}
	tok = strings.ReplaceAll(tok, "~1", "/")
	return strings.ReplaceAll(tok, "~0", "~")
}
