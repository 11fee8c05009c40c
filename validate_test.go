package draft4cover

import (
	"errors"
	"strings"
	"testing"
)

func mustSuites(t *testing.T, src string) []Suite {
	t.Helper()
	suites, err := DecodeSuites([]byte(src))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return suites
}

func containsProblem(err error, want string) bool {
	var ve *ValidationError
	if !errors.As(err, &ve) {
		return false
	}
	for _, p := range ve.Problems {
		if strings.Contains(p, want) {
			return true
		}
	}
	return false
}

func TestValidateSuites_RequiresTests(t *testing.T) {
	suites := mustSuites(t, `[{"description": "no tests", "schema": {}}]`)
	err := ValidateSuites(suites)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !containsProblem(err, "suites[0].tests: required") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateSuites_DefaultIsLenient(t *testing.T) {
	suites := mustSuites(t, `[{"schema": {}, "tests": [{"data": 1, "valid": true, "comment": "x"}, {"data": 2, "valid": true}]}]`)
	if err := ValidateSuites(suites); err != nil {
		t.Fatalf("expected no error by default, got %v", err)
	}
}

func TestValidateSuites_RequireDescriptions(t *testing.T) {
	suites := mustSuites(t, `[{"schema": {}, "tests": [
	  {"description": "same", "data": 1, "valid": true},
	  {"description": "same", "data": 2, "valid": true},
	  {"data": 3, "valid": true}
	]}]`)
	err := ValidateSuites(suites, WithRequireDescriptions())
	for _, want := range []string{
		"suites[0].description: required",
		`suites[0].tests[1].description: "same" is also used by tests[0]`,
		"suites[0].tests[2].description: required",
	} {
		if !containsProblem(err, want) {
			t.Fatalf("expected problem %q, got %v", want, err)
		}
	}
}

func TestValidateSuites_UnknownFields_StrictMode(t *testing.T) {
	suites := mustSuites(t, `[{"description": "s", "schema": {}, "comment": "x", "x-ok": 1, "tests": [
	  {"description": "c", "data": 1, "valid": true, "expected": false}
	]}]`)
	if err := ValidateSuites(suites); err != nil {
		t.Fatalf("expected default mode to allow unknown fields, got %v", err)
	}
	err := ValidateSuites(suites, WithRejectUnknownFields())
	if !containsProblem(err, "suites[0]: unknown fields: comment") {
		t.Fatalf("expected suite unknown field problem, got %v", err)
	}
	if !containsProblem(err, "suites[0].tests[0]: unknown fields: expected") {
		t.Fatalf("expected case unknown field problem, got %v", err)
	}
	if containsProblem(err, "x-ok") {
		t.Fatalf("extensions must not be reported: %v", err)
	}
}

func TestValidateSuites_RequireDraft4Schemas(t *testing.T) {
	suites := mustSuites(t, `[
	  {"schema": {"$schema": "http://json-schema.org/draft-04/schema#"}, "tests": []},
	  {"schema": {"$schema": "http://json-schema.org/draft-07/schema#"}, "tests": []},
	  {"schema": {}, "tests": []}
	]`)
	err := ValidateSuites(suites, WithRequireDraft4Schemas())
	if !containsProblem(err, "suites[1].schema.$schema: unsupported draft") {
		t.Fatalf("expected draft problem, got %v", err)
	}
	if containsProblem(err, "suites[0]") || containsProblem(err, "suites[2]") {
		t.Fatalf("unexpected problems: %v", err)
	}
}

func TestValidationError_MessageIsStable(t *testing.T) {
	err := &ValidationError{Problems: []string{"a", "b"}}
	if err.Error() != "invalid suites: a; b" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
