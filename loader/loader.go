// Package loader finds schema and suite documents on disk and decodes them.
//
// Documents may be JSON or YAML; YAML is converted to JSON first so that both
// go through the same number-preserving decoder.
package loader

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/openbindings/draft4cover"
)

// DefaultExts are the document extensions picked up when walking directories.
var DefaultExts = []string{".json", ".yaml", ".yml"}

// ListFiles expands paths into document files. A file argument is kept as is;
// a directory is walked recursively and contributes the files whose extension is
// in exts (DefaultExts when none are given), in lexical order. Arguments keep
// their order and a file reached twice is listed once.
func ListFiles(paths []string, exts ...string) ([]string, error) {
	if len(exts) == 0 {
		exts = DefaultExts
	}
	seen := map[string]bool{}
	var out []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(p)
			continue
		}
		var found []string
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !hasExt(path, exts) {
				return nil
			}
			found = append(found, path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", p, err)
		}
		sort.Strings(found)
		for _, f := range found {
			add(f)
		}
	}
	return out, nil
}

func hasExt(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}

// readJSON returns the JSON text of the document at path.
func readJSON(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		j, err := yaml.YAMLToJSON(b)
		if err != nil {
			return nil, &draft4cover.MalformedInputError{Path: path, Err: err}
		}
		return j, nil
	default:
		return b, nil
	}
}

// LoadSchema decodes the schema document at path.
func LoadSchema(path string) (draft4cover.Schema, error) {
	b, err := readJSON(path)
	if err != nil {
		return nil, err
	}
	s, err := draft4cover.DecodeSchema(b)
	if err != nil {
		return nil, &draft4cover.MalformedInputError{Path: path, Err: err}
	}
	return s, nil
}

// LoadSchemas lists paths and decodes every schema found.
func LoadSchemas(paths []string) ([]draft4cover.Schema, error) {
	files, err := ListFiles(paths)
	if err != nil {
		return nil, err
	}
	out := make([]draft4cover.Schema, 0, len(files))
	for _, f := range files {
		s, err := LoadSchema(f)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// SuiteFile is the content of one suite document.
type SuiteFile struct {
	Path   string
	Suites []draft4cover.Suite
}

// LoadSuiteFile decodes the suite document at path and checks its shape with
// draft4cover.ValidateSuites under opts.
func LoadSuiteFile(path string, opts ...draft4cover.ValidateOption) (SuiteFile, error) {
	b, err := readJSON(path)
	if err != nil {
		return SuiteFile{}, err
	}
	suites, err := draft4cover.DecodeSuites(b)
	if err != nil {
		return SuiteFile{}, &draft4cover.MalformedInputError{Path: path, Err: err}
	}
	if err := draft4cover.ValidateSuites(suites, opts...); err != nil {
		return SuiteFile{}, &draft4cover.MalformedInputError{Path: path, Err: err}
	}
	return SuiteFile{Path: path, Suites: suites}, nil
}

// LoadSuiteFiles lists paths and decodes every suite document found.
func LoadSuiteFiles(paths []string, opts ...draft4cover.ValidateOption) ([]SuiteFile, error) {
	files, err := ListFiles(paths)
	if err != nil {
		return nil, err
	}
	out := make([]SuiteFile, 0, len(files))
	for _, f := range files {
		sf, err := LoadSuiteFile(f, opts...)
		if err != nil {
			return nil, err
		}
		out = append(out, sf)
	}
	return out, nil
}

// LoadSuites is LoadSuiteFiles flattened into one list, in file order.
func LoadSuites(paths []string, opts ...draft4cover.ValidateOption) ([]draft4cover.Suite, error) {
	files, err := LoadSuiteFiles(paths, opts...)
	if err != nil {
		return nil, err
	}
	var out []draft4cover.Suite
	for _, f := range files {
		out = append(out, f.Suites...)
	}
	return out, nil
}
