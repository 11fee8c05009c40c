package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_OverDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
schemas: [schemas]
suites: [suites/a.json, suites/b]
format: json
log:
  level: debug
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"schemas"}, cfg.Schemas)
	assert.Equal(t, []string{"suites/a.json", "suites/b"}, cfg.Suites)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format, "unset fields keep their defaults")
	assert.Equal(t, Defaults().MaxDepth, cfg.MaxDepth)
	assert.Equal(t, []string{"schemas"}, cfg.TargetPaths())
	require.NoError(t, cfg.Validate())
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestParse_RejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("suites: [x]\nsuite: [y]\n"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	require.Error(t, cfg.Validate(), "suites are required")

	cfg.Suites = []string{"s"}
	require.NoError(t, cfg.Validate())

	bad := cfg
	bad.Format = "html"
	require.Error(t, bad.Validate())

	bad = cfg
	bad.MaxDepth = 0
	require.Error(t, bad.Validate())
}

func TestFromFlags_FileThenFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "draft4cover.yaml")
	require.NoError(t, os.WriteFile(path, []byte("schemas: [from-file]\nsuites: [from-file]\nformat: json\n"), 0o644))

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddFlags(fs)
	require.NoError(t, fs.Parse([]string{
		"--config", path,
		"--suite", "a", "--suite", "b",
		"--target", "t",
		"--log-format", "JSON",
	}))

	cfg, err := FromFlags(fs)
	require.NoError(t, err)
	assert.Equal(t, []string{"from-file"}, cfg.Schemas)
	assert.Equal(t, []string{"a", "b"}, cfg.Suites)
	assert.Equal(t, []string{"t"}, cfg.TargetPaths())
	assert.Equal(t, "json", cfg.Format, "unset flags do not override the file")
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestFromFlags_MissingConfigFile(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddFlags(fs)
	require.NoError(t, fs.Parse([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}))
	_, err := FromFlags(fs)
	require.Error(t, err)
}

func TestSuiteOptions(t *testing.T) {
	cfg := Defaults()
	assert.Empty(t, cfg.SuiteOptions())
	cfg.Strict = true
	assert.Len(t, cfg.SuiteOptions(), 3)
}
