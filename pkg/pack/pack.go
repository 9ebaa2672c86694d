// Package pack composites a flow's source images into one spritesheet.
//
// [Packer] is the contract the raster engine consumes: given ordered input
// images and options it returns the encoded sheet, its overall size, and the
// placement of every source path. [ImagingPacker] implements it with
// github.com/disintegration/imaging.
//
//	p := pack.NewImagingPacker()
//	res, err := p.Pack(ctx, files, pack.Options{Padding: 2, Format: "png"})
//	pos := res.Coordinates["icons/home.png"]
package pack

import (
	"bytes"
	"context"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/spriteflow/pkg/asset"
	"github.com/matzehuels/spriteflow/pkg/errors"
)

// Output formats understood by ImagingPacker.
const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
)

// DefaultJPEGQuality is used when Options.Quality is zero.
const DefaultJPEGQuality = 95

// Options configures a single pack call.
type Options struct {
	Padding   int    // pixels between neighbouring images
	Format    string // output encoding: png (default) or jpeg
	Algorithm string // layout algorithm, see Algorithms
	Quality   int    // JPEG quality 1-100
}

// Result is the outcome of packing one flow.
type Result struct {
	Image       []byte
	Width       int
	Height      int
	Coordinates map[string]Placement
}

// Packer composites images into a spritesheet.
type Packer interface {
	Pack(ctx context.Context, items []*asset.File, opts Options) (*Result, error)
}

// ImagingPacker is the default Packer backed by the imaging library.
type ImagingPacker struct{}

// NewImagingPacker creates an ImagingPacker.
func NewImagingPacker() *ImagingPacker {
	return &ImagingPacker{}
}

// Pack decodes items, lays them out, and encodes the composited sheet.
// An empty item list yields a 1x1 transparent image reporting 0x0.
func (p *ImagingPacker) Pack(ctx context.Context, items []*asset.File, opts Options) (*Result, error) {
	encFormat, encOpts, err := encoding(opts)
	if err != nil {
		return nil, err
	}

	images := make([]image.Image, len(items))
	sizes := make([]Size, len(items))
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := imaging.Decode(bytes.NewReader(item.Contents))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodePacking, err, "decode %s", item.Path)
		}
		images[i] = img
		b := img.Bounds()
		sizes[i] = Size{Width: b.Dx(), Height: b.Dy()}
	}

	placements, width, height, err := Layout(opts.Algorithm, sizes, opts.Padding)
	if err != nil {
		return nil, err
	}

	canvas := imaging.New(max(width, 1), max(height, 1), color.NRGBA{})
	coords := make(map[string]Placement, len(items))
	for i, img := range images {
		pl := placements[i]
		canvas = imaging.Paste(canvas, img, image.Pt(pl.X, pl.Y))
		coords[items[i].Path] = pl
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, canvas, encFormat, encOpts...); err != nil {
		return nil, errors.Wrap(errors.ErrCodePacking, err, "encode %s", opts.Format)
	}

	return &Result{
		Image:       buf.Bytes(),
		Width:       width,
		Height:      height,
		Coordinates: coords,
	}, nil
}

func encoding(opts Options) (imaging.Format, []imaging.EncodeOption, error) {
	switch opts.Format {
	case "", FormatPNG:
		return imaging.PNG, nil, nil
	case FormatJPEG:
		q := opts.Quality
		if q == 0 {
			q = DefaultJPEGQuality
		}
		return imaging.JPEG, []imaging.EncodeOption{imaging.JPEGQuality(q)}, nil
	default:
		return 0, nil, errors.New(errors.ErrCodeUnsupported, "unsupported image format %q", opts.Format)
	}
}

// Ensure ImagingPacker implements Packer.
var _ Packer = (*ImagingPacker)(nil)
