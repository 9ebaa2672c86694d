package pack

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/spriteflow/pkg/asset"
	"github.com/matzehuels/spriteflow/pkg/errors"
)

func TestLayoutLinear(t *testing.T) {
	sizes := []Size{{10, 10}, {20, 5}}

	tests := []struct {
		algorithm string
		want      []Placement
		width     int
		height    int
	}{
		{
			algorithm: AlgorithmTopDown,
			want:      []Placement{{0, 0, 10, 10}, {0, 12, 20, 5}},
			width:     20, height: 17,
		},
		{
			algorithm: AlgorithmLeftRight,
			want:      []Placement{{0, 0, 10, 10}, {12, 0, 20, 5}},
			width:     32, height: 10,
		},
		{
			algorithm: AlgorithmDiagonal,
			want:      []Placement{{0, 0, 10, 10}, {12, 12, 20, 5}},
			width:     32, height: 17,
		},
		{
			algorithm: AlgorithmAltDiagonal,
			want:      []Placement{{22, 0, 10, 10}, {0, 12, 20, 5}},
			width:     32, height: 17,
		},
	}

	for _, tt := range tests {
		t.Run(tt.algorithm, func(t *testing.T) {
			got, w, h, err := Layout(tt.algorithm, sizes, 2)
			if err != nil {
				t.Fatalf("Layout: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("placements mismatch (-want +got):\n%s", diff)
			}
			if w != tt.width || h != tt.height {
				t.Errorf("size = %dx%d, want %dx%d", w, h, tt.width, tt.height)
			}
		})
	}
}

func TestLayoutBinaryTree(t *testing.T) {
	sizes := []Size{{10, 10}, {10, 10}, {10, 10}, {10, 10}}

	got, w, h, err := Layout(AlgorithmBinaryTree, sizes, 0)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	want := []Placement{{0, 0, 10, 10}, {10, 0, 10, 10}, {0, 10, 10, 10}, {10, 10, 10, 10}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("placements mismatch (-want +got):\n%s", diff)
	}
	if w != 20 || h != 20 {
		t.Errorf("size = %dx%d, want 20x20", w, h)
	}
}

func TestLayoutBinaryTreeNoOverlap(t *testing.T) {
	sizes := []Size{{3, 7}, {12, 4}, {5, 5}, {1, 1}, {8, 2}, {6, 9}, {2, 11}}
	got, w, h, err := Layout(AlgorithmBinaryTree, sizes, 1)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	for i, a := range got {
		if a.X+a.Width > w || a.Y+a.Height > h {
			t.Errorf("placement %d %+v outside %dx%d", i, a, w, h)
		}
		for j := i + 1; j < len(got); j++ {
			b := got[j]
			if a.X < b.X+b.Width && b.X < a.X+a.Width && a.Y < b.Y+b.Height && b.Y < a.Y+a.Height {
				t.Errorf("placements %d %+v and %d %+v overlap", i, a, j, b)
			}
		}
	}
}

func TestLayoutErrors(t *testing.T) {
	if _, _, _, err := Layout("spiral", nil, 0); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("unknown algorithm error = %v", err)
	}
	if _, _, _, err := Layout(AlgorithmTopDown, nil, -1); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("negative padding error = %v", err)
	}
}

func TestLayoutEmpty(t *testing.T) {
	for _, alg := range Algorithms {
		got, w, h, err := Layout(alg, nil, 4)
		if err != nil {
			t.Fatalf("%s: %v", alg, err)
		}
		if len(got) != 0 || w != 0 || h != 0 {
			t.Errorf("%s: got %v %dx%d, want empty", alg, got, w, h)
		}
	}
}

func TestImagingPackerPack(t *testing.T) {
	items := []*asset.File{
		asset.NewFile("icons/a.png", solidPNG(t, 4, 4, color.NRGBA{R: 255, A: 255})),
		asset.NewFile("icons/b.png", solidPNG(t, 6, 2, color.NRGBA{B: 255, A: 255})),
	}

	res, err := NewImagingPacker().Pack(context.Background(), items, Options{Algorithm: AlgorithmTopDown, Padding: 1})
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if res.Width != 6 || res.Height != 7 {
		t.Errorf("size = %dx%d, want 6x7", res.Width, res.Height)
	}
	if diff := cmp.Diff(Placement{0, 5, 6, 2}, res.Coordinates["icons/b.png"]); diff != "" {
		t.Errorf("b placement mismatch (-want +got):\n%s", diff)
	}

	img, err := png.Decode(bytes.NewReader(res.Image))
	if err != nil {
		t.Fatalf("decode sheet: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 6 || b.Dy() != 7 {
		t.Errorf("sheet bounds = %v", b)
	}
	if r, _, _, a := img.At(0, 0).RGBA(); r != 0xffff || a != 0xffff {
		t.Errorf("pixel (0,0) not red: r=%x a=%x", r, a)
	}
	if _, _, _, a := img.At(5, 0).RGBA(); a != 0 {
		t.Errorf("pixel (5,0) should be transparent, alpha=%x", a)
	}
}

func TestImagingPackerEmpty(t *testing.T) {
	res, err := NewImagingPacker().Pack(context.Background(), nil, Options{})
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if res.Width != 0 || res.Height != 0 || len(res.Coordinates) != 0 {
		t.Errorf("empty result = %dx%d %v", res.Width, res.Height, res.Coordinates)
	}
	if len(res.Image) == 0 {
		t.Error("empty pack should still encode an image")
	}
}

func TestImagingPackerErrors(t *testing.T) {
	ctx := context.Background()
	p := NewImagingPacker()

	_, err := p.Pack(ctx, []*asset.File{asset.NewFile("bad.png", []byte("not an image"))}, Options{})
	if !errors.Is(err, errors.ErrCodePacking) {
		t.Errorf("decode failure error = %v, want PACKING", err)
	}

	_, err = p.Pack(ctx, nil, Options{Format: "svg"})
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("svg format error = %v, want UNSUPPORTED", err)
	}
}

func TestImagingPackerJPEG(t *testing.T) {
	items := []*asset.File{asset.NewFile("a.png", solidPNG(t, 3, 3, color.NRGBA{G: 255, A: 255}))}
	res, err := NewImagingPacker().Pack(context.Background(), items, Options{Format: FormatJPEG, Quality: 80})
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if !bytes.HasPrefix(res.Image, []byte{0xFF, 0xD8}) {
		t.Error("jpeg output missing SOI marker")
	}
}

func solidPNG(t *testing.T, w, h int, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}
