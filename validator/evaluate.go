package validator

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/openbindings/draft4cover"
	"github.com/openbindings/draft4cover/jsonvalue"
	"github.com/openbindings/draft4cover/keyword"
	"github.com/openbindings/draft4cover/pointer"
)

// refTrail lists the $ref targets followed since the last descent into child data.
// Revisiting one of them means the walk can never terminate.
type refTrail struct {
	target string
	next   *refTrail
}

func (t *refTrail) contains(target string) bool {
	for ; t != nil; t = t.next {
		if t.target == target {
			return true
		}
	}
	return false
}

func (t *refTrail) list() []string {
	var out []string
	for ; t != nil; t = t.next {
		out = append(out, t.target)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// frame is the immutable position of one node evaluation.
type frame struct {
	loc   pointer.Context
	trail *refTrail
	depth int
}

// same evaluates another schema against the same data value.
func (f frame) same(loc pointer.Context) frame {
	return frame{loc: loc, trail: f.trail, depth: f.depth + 1}
}

// descend evaluates a schema against a child of the data value.
func (f frame) descend(loc pointer.Context) frame {
	return frame{loc: loc, depth: f.depth + 1}
}

func (f frame) at(name string, s keyword.Site) pointer.Context {
	return f.loc.Push(append([]string{name}, s.Tokens...)...)
}

type evaluation struct {
	eng *Engine
	obs Observer
}

func (ev *evaluation) emit(name string, loc pointer.Context, kerr *KeywordError) {
	if ev.obs != nil {
		ev.obs.Observe(name, loc.String(), kerr)
	}
}

func (ev *evaluation) violation(name string, loc pointer.Context, children [][]*KeywordError, format string, args ...any) *KeywordError {
	return &KeywordError{
		Keyword:  name,
		Pointer:  loc.String(),
		Message:  fmt.Sprintf(format, args...),
		Children: children,
	}
}

func applies(a keyword.Applies, k jsonvalue.Kind) bool {
	switch a {
	case keyword.Any:
		return true
	case keyword.Object:
		return k == jsonvalue.Object
	case keyword.Array:
		return k == jsonvalue.Array
	case keyword.String:
		return k == jsonvalue.String
	case keyword.Number:
		return k.IsNumeric()
	default:
		return false
	}
}

// node evaluates every active keyword of schema against data, in Table order.
func (ev *evaluation) node(f frame, schema map[string]any, data any) ([]*KeywordError, error) {
	if f.depth > ev.eng.maxDepth {
		return nil, &draft4cover.DepthExceededError{Pointer: f.loc.String(), Limit: ev.eng.maxDepth}
	}
	kind := jsonvalue.KindOf(data)
	var errs []*KeywordError
	for _, kw := range keyword.Table {
		if !kw.Active(schema) || !applies(kw.Applies, kind) {
			continue
		}
		kerrs, err := ev.keyword(f, kw, schema, data)
		if err != nil {
			return nil, err
		}
		errs = append(errs, kerrs...)
		if kw.Name == "$ref" {
			return errs, nil
		}
	}
	return errs, nil
}

func (ev *evaluation) keyword(f frame, kw keyword.Keyword, node map[string]any, data any) ([]*KeywordError, error) {
	sites := kw.Sites(node)
	switch kw.Name {
	case "$ref":
		return ev.ref(f, node, data)
	case "allOf", "anyOf", "oneOf", "not":
		return ev.combinator(f, kw.Name, sites, data)
	case "properties":
		return ev.properties(f, sites, data.(map[string]any))
	case "patternProperties":
		return ev.patternProperties(f, sites, data.(map[string]any))
	case "additionalProperties":
		return ev.additionalProperties(f, node, sites, data.(map[string]any))
	case "maxProperties", "minProperties":
		return ev.bound(f, kw.Name, node, len(data.(map[string]any)), "properties")
	case "required":
		return ev.required(f, node, data.(map[string]any)), nil
	case "dependencies":
		return ev.dependencies(f, node, sites, data.(map[string]any))
	case "items":
		return ev.items(f, sites, data.([]any))
	case "additionalItems":
		return ev.additionalItems(f, node, sites, data.([]any))
	case "uniqueItems":
		return ev.uniqueItems(f, data.([]any)), nil
	case "maxItems", "minItems":
		return ev.bound(f, kw.Name, node, len(data.([]any)), "items")
	case "maxLength", "minLength":
		return ev.bound(f, kw.Name, node, jsonvalue.Length(data.(string)), "characters")
	case "pattern":
		return ev.pattern(f, node, data.(string))
	case "multipleOf":
		return ev.multipleOf(f, node, data)
	case "maximum", "minimum":
		return ev.limit(f, kw.Name, node, data)
	case "type":
		return ev.typeOf(f, node, data), nil
	case "enum":
		return ev.enum(f, node, data), nil
	}
	return nil, nil
}

func one(kerr *KeywordError) []*KeywordError {
	if kerr == nil {
		return nil
	}
	return []*KeywordError{kerr}
}

func (ev *evaluation) ref(f frame, node map[string]any, data any) ([]*KeywordError, error) {
	ref, _ := keyword.RefOf(node)
	loc := f.loc.Push("$ref")
	target := f.loc.Resolve(ref)
	key := target.String()
	if f.trail.contains(key) {
		return nil, &draft4cover.ReferenceCycleError{Ref: key, Trail: f.trail.list()}
	}
	schema, err := ev.eng.reg.Resolve(target.ID(), target.Pointer())
	if err != nil {
		return nil, err
	}
	next := frame{loc: target, trail: &refTrail{target: key, next: f.trail}, depth: f.depth + 1}
	errs, err := ev.node(next, schema, data)
	if err != nil {
		return nil, err
	}
	var kerr *KeywordError
	if len(errs) > 0 {
		kerr = ev.violation("$ref", loc, [][]*KeywordError{errs}, "$ref %q failed", ref)
	}
	ev.emit("$ref", loc, kerr)
	return one(kerr), nil
}

func (ev *evaluation) combinator(f frame, name string, sites []keyword.Site, data any) ([]*KeywordError, error) {
	loc := f.loc.Push(name)
	var failed [][]*KeywordError
	passed := 0
	for _, s := range sites {
		if s.Schema == nil {
			continue
		}
		errs, err := ev.node(f.same(f.at(name, s)), s.Schema, data)
		if err != nil {
			return nil, err
		}
		if len(errs) > 0 {
			failed = append(failed, errs)
			continue
		}
		passed++
		if name == "anyOf" {
			break
		}
	}

	var kerr *KeywordError
	switch name {
	case "allOf":
		if len(failed) > 0 {
			kerr = ev.violation(name, loc, failed, "allOf failed: %d branch(es) failed", len(failed))
		}
	case "anyOf":
		if passed == 0 {
			kerr = ev.violation(name, loc, failed, "anyOf failed: no branch passed")
		}
	case "oneOf":
		if passed != 1 {
			kerr = ev.violation(name, loc, failed, "oneOf failed, %d passed", passed)
		}
	case "not":
		if passed > 0 {
			kerr = ev.violation(name, loc, nil, "not failed")
		}
	}
	ev.emit(name, loc, kerr)
	return one(kerr), nil
}

func (ev *evaluation) properties(f frame, sites []keyword.Site, obj map[string]any) ([]*KeywordError, error) {
	var out []*KeywordError
	for _, s := range sites {
		key := s.Tokens[0]
		v, ok := obj[key]
		if !ok {
			continue
		}
		loc := f.at("properties", s)
		errs, err := ev.node(f.descend(loc), s.Schema, v)
		if err != nil {
			return nil, err
		}
		if len(errs) > 0 {
			out = append(out, ev.violation("properties", loc, [][]*KeywordError{errs}, "properties %q failed", key))
		}
	}
	return out, nil
}

func (ev *evaluation) patternProperties(f frame, sites []keyword.Site, obj map[string]any) ([]*KeywordError, error) {
	keys := keyword.SortedKeys(obj)
	var out []*KeywordError
	for _, s := range sites {
		pat := s.Tokens[0]
		loc := f.at("patternProperties", s)
		re, err := ev.eng.compile(pat, loc)
		if err != nil {
			return nil, err
		}
		for _, key := range keys {
			ok, err := search(re, key, loc)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			errs, err := ev.node(f.descend(loc), s.Schema, obj[key])
			if err != nil {
				return nil, err
			}
			var kerr *KeywordError
			if len(errs) > 0 {
				kerr = ev.violation("patternProperties", loc, [][]*KeywordError{errs}, "patternProperties %q failed for %q", pat, key)
				out = append(out, kerr)
			}
			ev.emit("patternProperties", loc, kerr)
		}
	}
	return out, nil
}

// unmatched returns the data keys covered by neither properties nor patternProperties.
func (ev *evaluation) unmatched(f frame, node map[string]any, obj map[string]any) ([]string, error) {
	props, _ := keyword.AsSchema(node["properties"])
	patterns, _ := keyword.AsSchema(node["patternProperties"])
	var res []*regexp2.Regexp
	for _, pat := range keyword.SortedKeys(patterns) {
		loc := f.loc.Push("patternProperties", pat)
		re, err := ev.eng.compile(pat, loc)
		if err != nil {
			return nil, err
		}
		res = append(res, re)
	}

	var out []string
	for _, key := range keyword.SortedKeys(obj) {
		if _, ok := props[key]; ok {
			continue
		}
		matched := false
		for _, re := range res {
			ok, err := search(re, key, f.loc)
			if err != nil {
				return nil, err
			}
			if ok {
				matched = true
				break
			}
		}
		if !matched {
			out = append(out, key)
		}
	}
	return out, nil
}

func (ev *evaluation) additionalProperties(f frame, node map[string]any, sites []keyword.Site, obj map[string]any) ([]*KeywordError, error) {
	extra, err := ev.unmatched(f, node, obj)
	if err != nil {
		return nil, err
	}
	s := sites[0]
	loc := f.at("additionalProperties", s)
	if s.Schema == nil {
		var kerr *KeywordError
		if allowed, _ := node["additionalProperties"].(bool); !allowed && len(extra) > 0 {
			kerr = ev.violation("additionalProperties", loc, nil, "additionalProperties failed: %s not allowed", quoteAll(extra))
		}
		ev.emit("additionalProperties", loc, kerr)
		return one(kerr), nil
	}

	var out []*KeywordError
	for _, key := range extra {
		errs, err := ev.node(f.descend(loc), s.Schema, obj[key])
		if err != nil {
			return nil, err
		}
		if len(errs) > 0 {
			out = append(out, ev.violation("additionalProperties", loc, [][]*KeywordError{errs}, "additionalProperties failed for %q", key))
		}
	}
	return out, nil
}

// bound checks a max*/min* keyword against a count.
func (ev *evaluation) bound(f frame, name string, node map[string]any, n int, unit string) ([]*KeywordError, error) {
	loc := f.loc.Push(name)
	limit := node[name]
	c, ok := jsonvalue.Compare(n, limit)
	if !ok {
		return nil, &draft4cover.SchemaError{Pointer: loc.String(), Message: fmt.Sprintf("%s must be a number", name)}
	}
	var kerr *KeywordError
	isMax := strings.HasPrefix(name, "max")
	if (isMax && c > 0) || (!isMax && c < 0) {
		kerr = ev.violation(name, loc, nil, "%s %q failed: got %d %s", name, jsonvalue.FormatNumber(limit), n, unit)
	}
	ev.emit(name, loc, kerr)
	return one(kerr), nil
}

func (ev *evaluation) required(f frame, node map[string]any, obj map[string]any) []*KeywordError {
	loc := f.loc.Push("required")
	list, _ := node["required"].([]any)
	var missing []string
	for _, v := range list {
		key, ok := v.(string)
		if !ok {
			continue
		}
		if _, present := obj[key]; !present {
			missing = append(missing, key)
		}
	}
	var kerr *KeywordError
	if len(missing) > 0 {
		kerr = ev.violation("required", loc, nil, "required %s missing", quoteAll(missing))
	}
	ev.emit("required", loc, kerr)
	return one(kerr)
}

func (ev *evaluation) dependencies(f frame, node map[string]any, sites []keyword.Site, obj map[string]any) ([]*KeywordError, error) {
	deps, _ := keyword.AsSchema(node["dependencies"])
	var out []*KeywordError
	for _, s := range sites {
		key := s.Tokens[0]
		if _, ok := obj[key]; !ok {
			continue
		}
		loc := f.at("dependencies", s)
		if s.Schema != nil {
			errs, err := ev.node(f.same(loc), s.Schema, obj)
			if err != nil {
				return nil, err
			}
			if len(errs) > 0 {
				out = append(out, ev.violation("dependencies", loc, [][]*KeywordError{errs}, "dependencies %q failed", key))
			}
			continue
		}

		list, _ := deps[key].([]any)
		var missing []string
		for _, v := range list {
			sibling, ok := v.(string)
			if !ok {
				continue
			}
			if _, present := obj[sibling]; !present {
				missing = append(missing, sibling)
			}
		}
		var kerr *KeywordError
		if len(missing) > 0 {
			kerr = ev.violation("dependencies", loc, nil, "dependencies %q failed: %s missing", key, quoteAll(missing))
			out = append(out, kerr)
		}
		ev.emit("dependencies", loc, kerr)
	}
	return out, nil
}

func (ev *evaluation) items(f frame, sites []keyword.Site, arr []any) ([]*KeywordError, error) {
	var out []*KeywordError
	for _, s := range sites {
		loc := f.at("items", s)
		if len(s.Tokens) == 0 {
			for i, v := range arr {
				errs, err := ev.node(f.descend(loc), s.Schema, v)
				if err != nil {
					return nil, err
				}
				if len(errs) > 0 {
					out = append(out, ev.violation("items", loc, [][]*KeywordError{errs}, "items failed at index %d", i))
				}
			}
			continue
		}
		i, _ := strconv.Atoi(s.Tokens[0])
		if i >= len(arr) {
			continue
		}
		errs, err := ev.node(f.descend(loc), s.Schema, arr[i])
		if err != nil {
			return nil, err
		}
		if len(errs) > 0 {
			out = append(out, ev.violation("items", loc, [][]*KeywordError{errs}, "items failed at index %d", i))
		}
	}
	return out, nil
}

func (ev *evaluation) additionalItems(f frame, node map[string]any, sites []keyword.Site, arr []any) ([]*KeywordError, error) {
	positional, _ := node["items"].([]any)
	s := sites[0]
	loc := f.at("additionalItems", s)
	var kerr *KeywordError
	switch {
	case s.Schema != nil:
		var failed [][]*KeywordError
		for i := len(positional); i < len(arr); i++ {
			errs, err := ev.node(f.descend(loc), s.Schema, arr[i])
			if err != nil {
				return nil, err
			}
			if len(errs) > 0 {
				failed = append(failed, errs)
			}
		}
		if len(failed) > 0 {
			kerr = ev.violation("additionalItems", loc, failed, "additionalItems failed: %d item(s) invalid", len(failed))
		}
	default:
		if allowed, _ := node["additionalItems"].(bool); !allowed && len(arr) > len(positional) {
			kerr = ev.violation("additionalItems", loc, nil, "additionalItems failed: %d item(s) beyond %d", len(arr)-len(positional), len(positional))
		}
	}
	ev.emit("additionalItems", loc, kerr)
	return one(kerr), nil
}

func (ev *evaluation) uniqueItems(f frame, arr []any) []*KeywordError {
	loc := f.loc.Push("uniqueItems")
	var kerr *KeywordError
outer:
	for i := 0; i < len(arr)-1; i++ {
		for j := i + 1; j < len(arr); j++ {
			if jsonvalue.Equal(arr[i], arr[j]) {
				kerr = ev.violation("uniqueItems", loc, nil, "uniqueItems failed: items %d and %d are equal", i, j)
				break outer
			}
		}
	}
	ev.emit("uniqueItems", loc, kerr)
	return one(kerr)
}

func (ev *evaluation) pattern(f frame, node map[string]any, s string) ([]*KeywordError, error) {
	loc := f.loc.Push("pattern")
	pat, _ := node["pattern"].(string)
	re, err := ev.eng.compile(pat, loc)
	if err != nil {
		return nil, err
	}
	ok, err := search(re, s, loc)
	if err != nil {
		return nil, err
	}
	var kerr *KeywordError
	if !ok {
		kerr = ev.violation("pattern", loc, nil, "pattern %q failed", pat)
	}
	ev.emit("pattern", loc, kerr)
	return one(kerr), nil
}

func (ev *evaluation) multipleOf(f frame, node map[string]any, data any) ([]*KeywordError, error) {
	loc := f.loc.Push("multipleOf")
	divisor := node["multipleOf"]
	if c, ok := jsonvalue.Compare(divisor, 0); !ok || c <= 0 {
		return nil, &draft4cover.SchemaError{Pointer: loc.String(), Message: "multipleOf must be a number greater than 0"}
	}
	var kerr *KeywordError
	if !jsonvalue.MultipleOf(data, divisor) {
		kerr = ev.violation("multipleOf", loc, nil, "multipleOf %q failed", jsonvalue.FormatNumber(divisor))
	}
	ev.emit("multipleOf", loc, kerr)
	return one(kerr), nil
}

// limit checks maximum/minimum with their exclusive toggles.
func (ev *evaluation) limit(f frame, name string, node map[string]any, data any) ([]*KeywordError, error) {
	loc := f.loc.Push(name)
	bound := node[name]
	c, ok := jsonvalue.Compare(data, bound)
	if !ok {
		return nil, &draft4cover.SchemaError{Pointer: loc.String(), Message: fmt.Sprintf("%s must be a number", name)}
	}
	toggle := "exclusiveMinimum"
	if name == "maximum" {
		toggle = "exclusiveMaximum"
		c = -c
	}
	// c < 0 now means data lies beyond the bound.
	exclusive, _ := node[toggle].(bool)
	var kerr *KeywordError
	switch {
	case c < 0:
		kerr = ev.violation(name, loc, nil, "%s %q failed", name, jsonvalue.FormatNumber(bound))
	case c == 0 && exclusive:
		kerr = ev.violation(name, loc, nil, "exclusive %s %q failed", name, jsonvalue.FormatNumber(bound))
	}
	ev.emit(name, loc, kerr)
	return one(kerr), nil
}

func (ev *evaluation) typeOf(f frame, node map[string]any, data any) []*KeywordError {
	loc := f.loc.Push("type")
	var names []string
	switch t := node["type"].(type) {
	case string:
		names = []string{t}
	case []any:
		for _, v := range t {
			if s, ok := v.(string); ok {
				names = append(names, s)
			}
		}
	}
	kind := jsonvalue.KindOf(data)
	var kerr *KeywordError
	matched := false
	for _, name := range names {
		if jsonvalue.MatchesType(name, kind) {
			matched = true
			break
		}
	}
	if !matched {
		kerr = ev.violation("type", loc, nil, "type %s failed: got %s", strings.Join(names, ","), kind)
	}
	ev.emit("type", loc, kerr)
	return one(kerr)
}

func (ev *evaluation) enum(f frame, node map[string]any, data any) []*KeywordError {
	loc := f.loc.Push("enum")
	values, _ := node["enum"].([]any)
	var kerr *KeywordError
	matched := false
	for _, v := range values {
		if jsonvalue.Equal(v, data) {
			matched = true
			break
		}
	}
	if !matched {
		kerr = ev.violation("enum", loc, nil, "enum %s failed", jsonvalue.Format(values))
	}
	ev.emit("enum", loc, kerr)
	return one(kerr)
}

func quoteAll(keys []string) string {
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)
	for i, k := range sorted {
		sorted[i] = strconv.Quote(k)
	}
	return strings.Join(sorted, ", ")
}
