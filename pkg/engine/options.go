package engine

import (
	"context"

	"github.com/matzehuels/spriteflow/pkg/asset"
)

// DefaultName is the base name for generated artifacts.
const DefaultName = "sprites"

// ImageOptions configures the spritesheet image of a raster flow.
type ImageOptions struct {
	Name           string `json:"name,omitempty" yaml:"name" toml:"name"`                                  // output filename, defaults to <name>.png
	Backend        string `json:"backend,omitempty" yaml:"backend" toml:"backend"`                         // compositing backend
	Padding        int    `json:"padding,omitempty" yaml:"padding" toml:"padding"`                         // pixels between sprites
	Format         string `json:"format,omitempty" yaml:"format" toml:"format"`                            // png or jpeg, defaults by Name extension
	Algorithm      string `json:"algorithm,omitempty" yaml:"algorithm" toml:"algorithm"`                   // layout algorithm
	Quality        int    `json:"quality,omitempty" yaml:"quality" toml:"quality"`                         // JPEG quality
	RelativePrefix string `json:"relative_prefix,omitempty" yaml:"relative_prefix" toml:"relative_prefix"` // overrides Options.RelativePrefix for the image reference
}

// StyleOptions configures the generated stylesheet.
type StyleOptions struct {
	Name   string `json:"name,omitempty" yaml:"name" toml:"name"`       // output filename, defaults to <name>.<format>
	Format string `json:"format,omitempty" yaml:"format" toml:"format"` // css, scss, sass, less, stylus, json
	Prefix string `json:"prefix,omitempty" yaml:"prefix" toml:"prefix"` // CSS class prefix
}

// Options is one configuration layer for a file. Zero fields are unset and
// fall through to the layer below when merged.
type Options struct {
	Name           string       `json:"name,omitempty" yaml:"name" toml:"name"`
	Engine         string       `json:"engine,omitempty" yaml:"engine" toml:"engine"`
	Image          ImageOptions `json:"image,omitempty" yaml:"image" toml:"image"`
	Style          StyleOptions `json:"style,omitempty" yaml:"style" toml:"style"`
	RelativePrefix string       `json:"relative_prefix,omitempty" yaml:"relative_prefix" toml:"relative_prefix"`
	FlowKey        string       `json:"flow,omitempty" yaml:"flow" toml:"flow"`

	// Hook decides what happens to the source file after it joins its flow.
	Hook Hook `json:"-" yaml:"-" toml:"-"`
}

// Merge layers override on top of base. Scalars in override replace those in
// base when non-zero; Image and Style are merged field by field.
//
// A zero value means "unset", so an override cannot reset a lower layer back
// to zero: a rule with padding 0 keeps padding 4 from the defaults. Give the
// zero-valued setting to the lower layer instead.
func Merge(base, override Options) Options {
	out := base
	setString(&out.Name, override.Name)
	setString(&out.Engine, override.Engine)
	setString(&out.RelativePrefix, override.RelativePrefix)
	setString(&out.FlowKey, override.FlowKey)
	if override.Hook != nil {
		out.Hook = override.Hook
	}

	setString(&out.Image.Name, override.Image.Name)
	setString(&out.Image.Backend, override.Image.Backend)
	setString(&out.Image.Format, override.Image.Format)
	setString(&out.Image.Algorithm, override.Image.Algorithm)
	setString(&out.Image.RelativePrefix, override.Image.RelativePrefix)
	setInt(&out.Image.Padding, override.Image.Padding)
	setInt(&out.Image.Quality, override.Image.Quality)

	setString(&out.Style.Name, override.Style.Name)
	setString(&out.Style.Format, override.Style.Format)
	setString(&out.Style.Prefix, override.Style.Prefix)
	return out
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

// Provider supplies the caller's options layer for a file.
type Provider interface {
	OptionsFor(f *asset.File) Options
}

// ProviderFunc computes options per file.
type ProviderFunc func(f *asset.File) Options

// OptionsFor calls fn(f).
func (fn ProviderFunc) OptionsFor(f *asset.File) Options { return fn(f) }

// Static returns a Provider that yields opts for every file.
func Static(opts Options) Provider {
	return ProviderFunc(func(*asset.File) Options { return opts })
}

// Hook runs once per source file after it has been added to its flow. It may
// forward the file to out; returning without pushing drops it from the stream.
// A returned error aborts the stream.
type Hook func(ctx context.Context, f *asset.File, out asset.Sink) error

// DropFile is the default Hook: source files do not continue downstream.
func DropFile(context.Context, *asset.File, asset.Sink) error { return nil }

// PassThrough forwards the source file downstream unchanged.
func PassThrough(ctx context.Context, f *asset.File, out asset.Sink) error {
	return out.Push(ctx, f)
}
