package conformance

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbindings/draft4cover"
	"github.com/openbindings/draft4cover/registry"
	"github.com/openbindings/draft4cover/validator"
)

func mustSuites(t *testing.T, src string) []draft4cover.Suite {
	t.Helper()
	suites, err := draft4cover.DecodeSuites([]byte(src))
	require.NoError(t, err)
	return suites
}

func TestRun_CountsMismatchesWithoutHalting(t *testing.T) {
	suites := mustSuites(t, `[
	  {"description": "strings", "schema": {"type": "string"}, "tests": [
	    {"description": "ok", "data": "a", "valid": true},
	    {"description": "wrong expectation", "data": 1, "valid": true}
	  ]},
	  {"description": "integers", "schema": {"type": "integer"}, "tests": [
	    {"description": "ok", "data": 1, "valid": true},
	    {"description": "rejects 1.5", "data": 1.5, "valid": false}
	  ]}
	]`)
	reg := registry.New()
	eng := validator.New(reg)

	var logs bytes.Buffer
	out, err := Run(eng, reg, suites, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	require.NoError(t, err)
	assert.Equal(t, 4, out.Total)
	assert.Equal(t, 1, out.Failed)
	require.Len(t, out.Assertions, 4)

	failures := out.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, "strings", failures[0].Suite)
	assert.Equal(t, "wrong expectation", failures[0].Case)
	assert.True(t, failures[0].Expected)
	assert.False(t, failures[0].Got)
	assert.NotEmpty(t, failures[0].Errors)
	assert.True(t, strings.Contains(logs.String(), "assertion failed"))
}

func TestRun_SuiteSchemaReferencesRegisteredDocument(t *testing.T) {
	reg := registry.New()
	target, err := draft4cover.DecodeSchema([]byte(`{"id":"http://x/s","minLength":2}`))
	require.NoError(t, err)
	require.NoError(t, reg.Add(target.ID(), target))
	eng := validator.New(reg)

	suites := mustSuites(t, `{"description": "via ref", "schema": {"$ref": "http://x/s#"}, "tests": [
	  {"description": "long", "data": "ab", "valid": true},
	  {"description": "short", "data": "a", "valid": false}
	]}`)

	var pointers []string
	out, err := Run(eng, reg, suites, WithObserver(validator.ObserverFunc(func(_, ptr string, _ *validator.KeywordError) {
		pointers = append(pointers, ptr)
	})))
	require.NoError(t, err)
	assert.Equal(t, 0, out.Failed)
	assert.Contains(t, pointers, "http://x/s#/minLength")
	assert.Contains(t, pointers, "@entry#/$ref")
}

func TestRun_AbortsOnUnresolvedReference(t *testing.T) {
	reg := registry.New()
	eng := validator.New(reg)
	suites := mustSuites(t, `[
	  {"description": "first", "schema": {}, "tests": [{"description": "any", "data": 1, "valid": true}]},
	  {"description": "broken", "schema": {"$ref": "nowhere#"}, "tests": [{"description": "x", "data": 1, "valid": true}]}
	]`)
	out, err := Run(eng, reg, suites)
	var unresolved *draft4cover.UnresolvedReferenceError
	require.True(t, errors.As(err, &unresolved), "got %v", err)
	assert.Contains(t, err.Error(), `suite "broken"`)
	assert.Equal(t, 1, out.Total)
}

func TestRun_AliasIsRebound(t *testing.T) {
	reg := registry.New()
	eng := validator.New(reg)
	suites := mustSuites(t, `[
	  {"description": "a", "schema": {"type": "string"}, "tests": [{"description": "x", "data": "s", "valid": true}]},
	  {"description": "b", "schema": {"type": "number"}, "tests": [{"description": "x", "data": "s", "valid": false}]}
	]`)
	out, err := Run(eng, reg, suites)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Failed)
	assert.True(t, reg.Has(Alias))
}
