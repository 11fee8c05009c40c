// Package config holds the command-line configuration: defaults, an optional
// YAML file and flag overrides, applied in that order.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/openbindings/draft4cover"
	"github.com/openbindings/draft4cover/validator"
)

// Config is the full set of run settings.
type Config struct {
	// Schemas are files or directories registered before suites run.
	Schemas []string `yaml:"schemas"`
	// Suites are files or directories of assertion suites.
	Suites []string `yaml:"suites"`
	// Targets are the schemas coverage is measured for. Empty means Schemas.
	Targets []string `yaml:"targets"`
	Format  string   `yaml:"format"`
	Detail  bool     `yaml:"detail"`
	// Strict rejects suites with unknown fields, missing or duplicate
	// descriptions, or schemas declaring another draft.
	Strict   bool `yaml:"strict"`
	MaxDepth int  `yaml:"maxDepth"`
	Log      Log  `yaml:"log"`
}

// Log configures the diagnostic logger.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Defaults returns the configuration used when nothing else is given.
func Defaults() Config {
	return Config{
		Format:   "text",
		MaxDepth: validator.DefaultMaxDepth,
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the YAML file at path over Defaults. Unknown fields are rejected.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(b)
}

// Parse decodes YAML over Defaults. Unknown fields are rejected.
func Parse(b []byte) (Config, error) {
	cfg := Defaults()
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// SuiteOptions returns the suite shape checks implied by the configuration.
func (c Config) SuiteOptions() []draft4cover.ValidateOption {
	if !c.Strict {
		return nil
	}
	return []draft4cover.ValidateOption{
		draft4cover.WithRejectUnknownFields(),
		draft4cover.WithRequireDescriptions(),
		draft4cover.WithRequireDraft4Schemas(),
	}
}

// TargetPaths returns Targets, falling back to Schemas.
func (c Config) TargetPaths() []string {
	if len(c.Targets) > 0 {
		return c.Targets
	}
	return c.Schemas
}

// Validate checks the settings a run depends on.
func (c Config) Validate() error {
	if len(c.Suites) == 0 {
		return errors.New("no suites given")
	}
	switch c.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown format %q (want text or json)", c.Format)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q (want text or json)", c.Log.Format)
	}
	if c.MaxDepth < 1 {
		return fmt.Errorf("max depth must be positive, got %d", c.MaxDepth)
	}
	return nil
}

// Flag names shared by every command.
const (
	FlagConfig    = "config"
	FlagSchema    = "schema"
	FlagSuite     = "suite"
	FlagTarget    = "target"
	FlagFormat    = "format"
	FlagDetail    = "detail"
	FlagStrict    = "strict"
	FlagMaxDepth  = "max-depth"
	FlagLogLevel  = "log-level"
	FlagLogFormat = "log-format"
)

// AddFlags registers the configuration flags on fs. Their defaults are only
// documentation: ApplyFlags overlays a flag only when it was set.
func AddFlags(fs *pflag.FlagSet) {
	d := Defaults()
	fs.String(FlagConfig, "", "YAML configuration file")
	fs.StringArray(FlagSchema, nil, "schema file or directory (repeatable)")
	fs.StringArray(FlagSuite, nil, "suite file or directory (repeatable)")
	fs.StringArray(FlagTarget, nil, "coverage target file or directory (repeatable, defaults to --schema)")
	fs.String(FlagFormat, d.Format, "report format: text or json")
	fs.Bool(FlagDetail, d.Detail, "list every pointer with its observed outcomes")
	fs.Bool(FlagStrict, d.Strict, "reject suites with unknown fields, missing descriptions or non draft-4 schemas")
	fs.Int(FlagMaxDepth, d.MaxDepth, "maximum evaluation depth")
	fs.String(FlagLogLevel, d.Log.Level, "log level: debug, info, warn or error")
	fs.String(FlagLogFormat, d.Log.Format, "log format: text or json")
}

// FromFlags builds the configuration for a parsed flag set: Defaults, then the
// --config file when given, then every flag that was set explicitly.
func FromFlags(fs *pflag.FlagSet) (Config, error) {
	cfg := Defaults()
	if path, _ := fs.GetString(FlagConfig); path != "" {
		loaded, err := Load(path)
		if err != nil {
			return Config{}, err
		}
		cfg = loaded
	}
	return ApplyFlags(fs, cfg)
}

// ApplyFlags overlays the flags of fs that were set explicitly onto cfg.
func ApplyFlags(fs *pflag.FlagSet, cfg Config) (Config, error) {
	var err error
	get := func(name string, apply func() error) {
		if err != nil || fs.Lookup(name) == nil || !fs.Changed(name) {
			return
		}
		err = apply()
	}
	get(FlagSchema, func() (e error) { cfg.Schemas, e = fs.GetStringArray(FlagSchema); return })
	get(FlagSuite, func() (e error) { cfg.Suites, e = fs.GetStringArray(FlagSuite); return })
	get(FlagTarget, func() (e error) { cfg.Targets, e = fs.GetStringArray(FlagTarget); return })
	get(FlagFormat, func() (e error) { cfg.Format, e = fs.GetString(FlagFormat); return })
	get(FlagDetail, func() (e error) { cfg.Detail, e = fs.GetBool(FlagDetail); return })
	get(FlagStrict, func() (e error) { cfg.Strict, e = fs.GetBool(FlagStrict); return })
	get(FlagMaxDepth, func() (e error) { cfg.MaxDepth, e = fs.GetInt(FlagMaxDepth); return })
	get(FlagLogLevel, func() (e error) { cfg.Log.Level, e = fs.GetString(FlagLogLevel); return })
	get(FlagLogFormat, func() (e error) { cfg.Log.Format, e = fs.GetString(FlagLogFormat); return })
	if err != nil {
		return Config{}, err
	}
	cfg.Format = strings.ToLower(strings.TrimSpace(cfg.Format))
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))
	return cfg, nil
}
