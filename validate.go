package draft4cover

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

type validateOptions struct {
	rejectUnknownFields  bool
	requireDescriptions  bool
	requireDraft4Schemas bool
}

// ValidateOption configures ValidateSuites.
type ValidateOption func(*validateOptions)

// WithRejectUnknownFields treats unknown (non-`x-`) fields of suites and test cases as errors.
// By default they are preserved and ignored.
func WithRejectUnknownFields() ValidateOption {
	return func(o *validateOptions) { o.rejectUnknownFields = true }
}

// WithRequireDescriptions requires every suite and test case to carry a description,
// and test case descriptions to be unique within their suite, so failures can be
// told apart in reports.
func WithRequireDescriptions() ValidateOption {
	return func(o *validateOptions) { o.requireDescriptions = true }
}

// WithRequireDraft4Schemas rejects suite schemas whose "$schema" names another draft.
func WithRequireDraft4Schemas() ValidateOption {
	return func(o *validateOptions) { o.requireDraft4Schemas = true }
}

// ValidateSuites performs shape-level checks on decoded suites.
// It is intentionally not validation of the schemas themselves.
func ValidateSuites(suites []Suite, opts ...ValidateOption) error {
	o := validateOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	var errs []string
	for i, s := range suites {
		prefix := fmt.Sprintf("suites[%d]", i)
		if s.Schema == nil {
			errs = append(errs, prefix+".schema: required")
		}
		if s.Tests == nil {
			errs = append(errs, prefix+".tests: required")
		}
		if o.requireDescriptions && strings.TrimSpace(s.Description) == "" {
			errs = append(errs, prefix+".description: required")
		}
		if o.requireDraft4Schemas && s.Schema != nil {
			if uri, ok := DraftOf(s.Schema); ok && !IsDraft4(uri) {
				errs = append(errs, fmt.Sprintf("%s.schema.$schema: unsupported draft %q", prefix, uri))
			}
		}
		if o.rejectUnknownFields {
			appendUnknownFieldProblems(&errs, prefix, s.Unknown)
		}

		seen := map[string]int{}
		for j, c := range s.Tests {
			casePrefix := fmt.Sprintf("%s.tests[%d]", prefix, j)
			if o.requireDescriptions {
				d := strings.TrimSpace(c.Description)
				if d == "" {
					errs = append(errs, casePrefix+".description: required")
				} else if first, dup := seen[d]; dup {
					errs = append(errs, fmt.Sprintf("%s.description: %q is also used by tests[%d]", casePrefix, d, first))
				} else {
					seen[d] = j
				}
			}
			if o.rejectUnknownFields {
				appendUnknownFieldProblems(&errs, casePrefix, c.Unknown)
			}
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Problems: errs}
}

func appendUnknownFieldProblems(errs *[]string, prefix string, unknown map[string]json.RawMessage) {
	if len(unknown) == 0 {
		return
	}
	keys := make([]string, 0, len(unknown))
	for k := range unknown {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	*errs = append(*errs, fmt.Sprintf("%s: unknown fields: %s", prefix, strings.Join(keys, ", ")))
}

// ValidationError is a deterministic, multi-problem validation error.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Problems) == 0 {
		return "invalid suites"
	}
	return "invalid suites: " + strings.Join(e.Problems, "; ")
}
