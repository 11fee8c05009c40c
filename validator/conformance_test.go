package validator

import (
	"os"
	"testing"

	"github.com/openbindings/draft4cover"
	"github.com/openbindings/draft4cover/registry"
)

const fixture = "testdata/draft4.json"

// remotePositive is registered next to every suite so fixtures can $ref across documents.
const remotePositive = `{
  "id": "http://example.com/positive",
  "minimum": 0,
  "definitions": {"small": {"maximum": 10}}
}`

func loadFixture(t *testing.T) []draft4cover.Suite {
	t.Helper()
	data, err := os.ReadFile(fixture)
	if err != nil {
		t.Fatalf("read %s: %v", fixture, err)
	}
	suites, err := draft4cover.DecodeSuites(data)
	if err != nil {
		t.Fatalf("decode %s: %v", fixture, err)
	}
	return suites
}

func fixtureRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	remote, err := draft4cover.DecodeSchema([]byte(remotePositive))
	if err != nil {
		t.Fatalf("decode remote: %v", err)
	}
	reg := registry.New()
	if err := reg.Add(remote.ID(), remote); err != nil {
		t.Fatalf("add remote: %v", err)
	}
	return reg
}

func TestConformance_Draft4Fixture(t *testing.T) {
	suites := loadFixture(t)
	reg := fixtureRegistry(t)
	eng := New(reg)

	var ran int
	for _, s := range suites {
		reg.Put("@entry", s.Schema)
		for _, c := range s.Tests {
			name := s.Description + "/" + c.Description
			res, err := eng.Validate("@entry#", c.Data)
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", name, err)
			}
			if res.Valid != c.Valid {
				t.Fatalf("%s: expected valid=%v, got %v\n%s", name, c.Valid, res.Valid, res.Display())
			}
			ran++
		}
	}
	t.Logf("ran %d fixture cases", ran)
}
