// Package config loads spriteflow project files.
//
// A project file holds a defaults layer and an ordered list of rules. Each
// rule has a glob matched against a file's slash path and its base name; the
// first rule that matches is layered over the defaults. The result is an
// engine.Provider, so configuration can differ per file.
//
// TOML example:
//
//	keep_sources = false
//
//	[defaults]
//	name = "sprites"
//	relative_prefix = "${ASSET_BASE:-../img/}"
//
//	[defaults.style]
//	format = "scss"
//
//	[[rules]]
//	match = "photos/*.jpg"
//
//	[rules.options]
//	name = "photos"
//	image = { format = "jpeg", quality = 85 }
//
// YAML files (.yaml, .yml) use the same keys.
package config

import (
	"bytes"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/spriteflow/pkg/asset"
	"github.com/matzehuels/spriteflow/pkg/engine"
	"github.com/matzehuels/spriteflow/pkg/errors"
)

// Config is a parsed project file.
type Config struct {
	Defaults    engine.Options `toml:"defaults" yaml:"defaults"`
	Rules       []Rule         `toml:"rules" yaml:"rules"`
	KeepSources bool           `toml:"keep_sources" yaml:"keep_sources"`
}

// Rule overrides options for files matching a glob.
type Rule struct {
	Match   string         `toml:"match" yaml:"match"`
	Options engine.Options `toml:"options" yaml:"options"`
}

// Matches reports whether the rule applies to f.
func (r Rule) Matches(f *asset.File) bool {
	if ok, _ := path.Match(r.Match, f.Path); ok {
		return true
	}
	ok, _ := path.Match(r.Match, f.Base())
	return ok
}

// Load reads a project file, expands environment variables and decodes it by
// extension. Unknown keys are rejected.
func Load(p string) (*Config, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeConfiguration, "config file not found: %s", p)
		}
		return nil, errors.Wrap(errors.ErrCodeConfiguration, err, "read config %s", p)
	}
	cfg, err := Parse(ExpandEnv(string(data)), filepath.Ext(p))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfiguration, err, "config %s", p)
	}
	return cfg, nil
}

// Parse decodes a project file body. ext selects the syntax (".toml",
// ".yaml" or ".yml").
func Parse(body, ext string) (*Config, error) {
	var cfg Config
	switch strings.ToLower(ext) {
	case ".toml":
		md, err := toml.Decode(body, &cfg)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid TOML")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown key %q", undecoded[0].String())
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader([]byte(body)))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && err != io.EOF {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid YAML")
		}
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported config format %q", ext)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks rule globs and numeric options.
func (c *Config) Validate() error {
	if err := validateOptions("defaults", c.Defaults); err != nil {
		return err
	}
	for i, r := range c.Rules {
		if r.Match == "" {
			return errors.New(errors.ErrCodeInvalidInput, "rules[%d]: match is required", i)
		}
		if _, err := path.Match(r.Match, ""); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "rules[%d]: bad pattern %q", i, r.Match)
		}
		if err := validateOptions("rules["+r.Match+"]", r.Options); err != nil {
			return err
		}
	}
	return nil
}

func validateOptions(where string, o engine.Options) error {
	if o.Image.Padding < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "%s: image padding must be >= 0", where)
	}
	if o.Image.Quality < 0 || o.Image.Quality > 100 {
		return errors.New(errors.ErrCodeInvalidInput, "%s: image quality must be 0-100", where)
	}
	return nil
}

// Layer returns the options for f: defaults, then the first matching rule.
func (c *Config) Layer(f *asset.File) engine.Options {
	opts := c.Defaults
	for _, r := range c.Rules {
		if r.Matches(f) {
			opts = engine.Merge(opts, r.Options)
			break
		}
	}
	if c.KeepSources {
		opts.Hook = engine.PassThrough
	}
	return opts
}

// Provider returns an engine.Provider that applies the file's layer and then
// overrides, typically built from command-line flags. A nil Config yields
// overrides alone.
func (c *Config) Provider(overrides engine.Options) engine.Provider {
	return engine.ProviderFunc(func(f *asset.File) engine.Options {
		if c == nil {
			return overrides
		}
		return engine.Merge(c.Layer(f), overrides)
	})
}
