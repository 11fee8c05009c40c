package draft4cover

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Schema is a draft-4 schema node. It is intentionally untyped: keywords are read
// structurally so that unknown keywords survive and $ref can address any location.
type Schema map[string]any

// ID returns the schema's "id" keyword, or "" when absent.
func (s Schema) ID() string {
	id, _ := s["id"].(string)
	return id
}

// BaseID returns the identifier up to its first '#', the prefix of every pointer
// enumerated from this schema.
func (s Schema) BaseID() string {
	id := s.ID()
	if i := strings.IndexByte(id, '#'); i >= 0 {
		return id[:i]
	}
	return id
}

// DecodeSchema decodes a schema document. The root must be a JSON object.
func DecodeSchema(b []byte) (Schema, error) {
	v, err := Decode(b)
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("schema root must be an object, got %T", v)
	}
	return Schema(m), nil
}

var (
	knownTestCaseSet = knownSet("description", "data", "valid")
	knownSuiteSet    = knownSet("description", "schema", "tests")
)

// TestCase is one assertion: Data validated against the suite schema must yield Valid.
type TestCase struct {
	Description string `json:"description"`
	Data        any    `json:"data"`
	Valid       bool   `json:"valid"`
	LosslessFields
}

type testCaseWire struct {
	Description string          `json:"description"`
	Data        json.RawMessage `json:"data"`
	Valid       bool            `json:"valid"`
}

type testCaseOut struct {
	Description string `json:"description"`
	Data        any    `json:"data"`
	Valid       bool   `json:"valid"`
}

func (c *TestCase) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	var w testCaseWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	data, err := decodeRaw(w.Data)
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	*c = TestCase{
		Description: w.Description,
		Data:        data,
		Valid:       w.Valid,
	}
	c.Extensions, c.Unknown = splitLossless(raw, knownTestCaseSet)
	return nil
}

func (c TestCase) MarshalJSON() ([]byte, error) {
	return marshalLossless(c.Unknown, c.Extensions, testCaseOut{
		Description: c.Description,
		Data:        c.Data,
		Valid:       c.Valid,
	})
}

// Suite groups test cases that share one subject schema.
type Suite struct {
	Description string     `json:"description"`
	Schema      Schema     `json:"schema"`
	Tests       []TestCase `json:"tests"`
	LosslessFields
}

type suiteWire struct {
	Description string          `json:"description"`
	Schema      json.RawMessage `json:"schema"`
	Tests       []TestCase      `json:"tests"`
}

type suiteOut struct {
	Description string     `json:"description"`
	Schema      Schema     `json:"schema"`
	Tests       []TestCase `json:"tests"`
}

func (s *Suite) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	var w suiteWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	if len(w.Schema) == 0 {
		return errors.New("schema: required")
	}
	schema, err := DecodeSchema(w.Schema)
	if err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	*s = Suite{
		Description: w.Description,
		Schema:      schema,
		Tests:       w.Tests,
	}
	s.Extensions, s.Unknown = splitLossless(raw, knownSuiteSet)
	return nil
}

func (s Suite) MarshalJSON() ([]byte, error) {
	return marshalLossless(s.Unknown, s.Extensions, suiteOut{
		Description: s.Description,
		Schema:      s.Schema,
		Tests:       s.Tests,
	})
}

// DecodeSuites decodes a suite file: an array of suites, or a single suite object.
func DecodeSuites(b []byte) ([]Suite, error) {
	trimmed := strings.TrimSpace(string(b))
	if strings.HasPrefix(trimmed, "{") {
		var one Suite
		if err := json.Unmarshal(b, &one); err != nil {
			return nil, err
		}
		return []Suite{one}, nil
	}
	var many []Suite
	if err := json.Unmarshal(b, &many); err != nil {
		return nil, err
	}
	return many, nil
}
