// Package raster implements the bitmap packing engine.
//
// The engine buffers a flow's PNG/JPEG sources, hands them to a pack.Packer,
// describes the resulting geometry as a style.Sheet and renders it with a
// style.Renderer. A successful flow emits exactly two artifacts, the
// spritesheet image followed by its stylesheet; a failed flow emits none.
package raster

import (
	"context"
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/spriteflow/pkg/asset"
	"github.com/matzehuels/spriteflow/pkg/engine"
	"github.com/matzehuels/spriteflow/pkg/errors"
	"github.com/matzehuels/spriteflow/pkg/format"
	"github.com/matzehuels/spriteflow/pkg/pack"
	"github.com/matzehuels/spriteflow/pkg/style"
)

// DefaultBackend is the compositing backend used when Image.Backend is empty.
const DefaultBackend = "imaging"

// Deps are the collaborators shared by every raster engine.
type Deps struct {
	Packers  map[string]pack.Packer // keyed by Image.Backend
	Renderer style.Renderer
	Tables   *format.Tables
	Logger   *log.Logger
}

type state int

const (
	stateAccepting state = iota
	statePacking
	stateDone
	stateFailed
)

// Engine packs one flow.
type Engine struct {
	opts     engine.Options
	packer   pack.Packer
	renderer style.Renderer
	logger   *log.Logger
	items    []*asset.File
	state    state
}

// NewFactory returns an engine.Factory that builds raster engines with deps.
func NewFactory(deps Deps) engine.Factory {
	return func(opts engine.Options) (engine.Engine, error) {
		e, err := New(opts, deps)
		if err != nil {
			return nil, err
		}
		return e, nil
	}
}

// New creates an engine for a flow. Missing image and style settings are
// filled in by ApplyDefaults. Unknown backends, algorithms or formats,
// negative padding and unsafe artifact names are configuration errors.
func New(opts engine.Options, deps Deps) (*Engine, error) {
	tables := deps.Tables
	if tables == nil {
		tables = format.DefaultTables()
	}
	opts = ApplyDefaults(opts, tables)

	for _, p := range []string{opts.Image.Name, opts.Style.Name} {
		if err := errors.ValidatePath(p); err != nil {
			return nil, errors.Wrap(errors.ErrCodeConfiguration, err, "flow %s", opts.FlowKey)
		}
	}

	renderer := deps.Renderer
	if renderer == nil {
		renderer = style.NewTemplates()
	}
	if err := validate(opts, renderer); err != nil {
		return nil, err
	}

	packer, ok := deps.Packers[opts.Image.Backend]
	if !ok {
		return nil, errors.New(errors.ErrCodeConfiguration, "unknown image backend %q for flow %s", opts.Image.Backend, opts.FlowKey)
	}

	logger := deps.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	return &Engine{
		opts:     opts,
		packer:   packer,
		renderer: renderer,
		logger:   logger,
	}, nil
}

// ApplyDefaults fills the raster-specific defaults:
//
//   - Image.Name: <name>.png, or the extension of an explicit Image.Format
//   - Image.Format: explicit, else by Image.Name extension, else png
//   - Image.Backend: DefaultBackend; Image.Algorithm: pack.DefaultAlgorithm
//   - Style.Format: explicit, else by Style.Name extension, else css
//   - Style.Name: <name>.<style format>
func ApplyDefaults(opts engine.Options, tables *format.Tables) engine.Options {
	if opts.Name == "" {
		opts.Name = engine.DefaultName
	}

	img := &opts.Image
	if img.Name == "" {
		ext := format.ImagePNG
		if img.Format != "" {
			ext = format.ImageExt(img.Format)
		}
		img.Name = opts.Name + "." + ext
	}
	if img.Format == "" {
		img.Format = tables.Images.Resolve(img.Name)
	}
	if img.Format == "" {
		img.Format = format.ImagePNG
	}
	if img.Backend == "" {
		img.Backend = DefaultBackend
	}
	if img.Algorithm == "" {
		img.Algorithm = pack.DefaultAlgorithm
	}

	st := &opts.Style
	if st.Format == "" {
		st.Format = tables.Styles.Resolve(st.Name)
	}
	if st.Format == "" {
		st.Format = format.StyleCSS
	}
	if st.Name == "" {
		st.Name = opts.Name + "." + st.Format
	}
	return opts
}

// formatLister is implemented by renderers that can enumerate their formats.
type formatLister interface {
	Formats() []string
}

func validate(opts engine.Options, renderer style.Renderer) error {
	if opts.Image.Padding < 0 {
		return errors.New(errors.ErrCodeConfiguration, "flow %s: padding must be >= 0, got %d", opts.FlowKey, opts.Image.Padding)
	}
	if !slices.Contains(pack.Algorithms, opts.Image.Algorithm) {
		return errors.New(errors.ErrCodeConfiguration, "flow %s: unknown layout algorithm %q", opts.FlowKey, opts.Image.Algorithm)
	}
	if opts.Image.Format != format.ImagePNG && opts.Image.Format != format.ImageJPEG {
		return errors.New(errors.ErrCodeConfiguration, "flow %s: unsupported image format %q", opts.FlowKey, opts.Image.Format)
	}
	if fl, ok := renderer.(formatLister); ok && !slices.Contains(fl.Formats(), opts.Style.Format) {
		return errors.New(errors.ErrCodeConfiguration, "flow %s: unsupported stylesheet format %q", opts.FlowKey, opts.Style.Format)
	}
	return nil
}

// Options returns the engine's resolved options.
func (e *Engine) Options() engine.Options { return e.opts }

// Items returns the buffered source files in arrival order.
func (e *Engine) Items() []*asset.File { return e.items }

// AddItem buffers f for packing.
func (e *Engine) AddItem(f *asset.File) {
	e.items = append(e.items, f)
}

// ImageRef is the image reference written into the stylesheet.
func (e *Engine) ImageRef() string {
	prefix := e.opts.Image.RelativePrefix
	if prefix == "" {
		prefix = e.opts.RelativePrefix
	}
	return prefix + e.opts.Image.Name
}

// CreateSpritesheet packs the buffered items and pushes the spritesheet
// image and then the stylesheet to out. The stylesheet is rendered before
// anything is pushed, so a failure leaves no partial output for this flow.
func (e *Engine) CreateSpritesheet(ctx context.Context, out asset.Sink) error {
	if e.state != stateAccepting {
		return errors.New(errors.ErrCodeInternal, "engine for flow %s already used", e.opts.FlowKey)
	}
	e.state = statePacking

	if err := e.create(ctx, out); err != nil {
		e.state = stateFailed
		return err
	}
	e.state = stateDone
	return nil
}

func (e *Engine) create(ctx context.Context, out asset.Sink) error {
	res, err := e.packer.Pack(ctx, e.items, pack.Options{
		Padding:   e.opts.Image.Padding,
		Format:    e.opts.Image.Format,
		Algorithm: e.opts.Image.Algorithm,
		Quality:   e.opts.Image.Quality,
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodePacking, err, "pack flow %s", e.opts.FlowKey)
	}

	sprites := make([]style.Sprite, 0, len(res.Coordinates))
	for src, pl := range res.Coordinates {
		sprites = append(sprites, style.Sprite{
			SourcePath: src,
			X:          pl.X,
			Y:          pl.Y,
			Width:      pl.Width,
			Height:     pl.Height,
		})
	}
	sheet := style.NewSheet(
		style.Spritesheet{Width: res.Width, Height: res.Height, Image: e.ImageRef()},
		style.Info{Name: e.opts.FlowKey},
		sprites,
	)

	text, err := e.renderer.Render(sheet, style.Options{Format: e.opts.Style.Format, Prefix: e.opts.Style.Prefix})
	if err != nil {
		return errors.Wrap(errors.ErrCodeTemplate, err, "render stylesheet for flow %s", e.opts.FlowKey)
	}

	if err := out.Push(ctx, asset.NewFile(e.opts.Image.Name, res.Image)); err != nil {
		return err
	}
	if err := out.Push(ctx, asset.NewFile(e.opts.Style.Name, text)); err != nil {
		return err
	}

	e.logger.Debug("packed flow",
		"flow", e.opts.FlowKey,
		"sprites", len(sheet.Sprites),
		"width", res.Width,
		"height", res.Height)
	return nil
}

// Ensure Engine implements engine.Engine.
var _ engine.Engine = (*Engine)(nil)
