package format

import (
	"strings"
	"testing"
)

func TestResolverCaseInsensitive(t *testing.T) {
	tables := DefaultTables()

	tests := []struct {
		path string
		want string
	}{
		{"image.png", EngineImage},
		{"IMAGE.PNG", EngineImage},
		{"icons/Photo.JpEg", EngineImage},
		{"logo.svg", EngineVector},
		{"notes.txt", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := tables.Engines.Resolve(tt.path); got != tt.want {
			t.Errorf("Engines.Resolve(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestResolverDefaultFallback(t *testing.T) {
	tables := DefaultTables()

	tests := []struct {
		path string
		want string
	}{
		{"sprites.scss", StyleSCSS},
		{"sprites.STYL", StyleStylus},
		{"sprites.unknown", StyleCSS},
		{"sprites", StyleCSS},
		{"", StyleCSS},
	}

	for _, tt := range tests {
		if got := tables.Styles.Resolve(tt.path); got != tt.want {
			t.Errorf("Styles.Resolve(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestResolverRegisterOverwrites(t *testing.T) {
	r := NewResolver()
	r.Register("PNG", "first")
	r.Register(".png", "second")

	if got := r.Resolve("a.png"); got != "second" {
		t.Errorf("Resolve() = %q, want %q", got, "second")
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}

	if _, ok := r.Lookup(""); ok {
		t.Error("Lookup(\"\") should miss without a default entry")
	}

	r.Register(DefaultKey, "fallback")
	if got, ok := r.Lookup("a.gif"); !ok || got != "fallback" {
		t.Errorf("Lookup(a.gif) = %q, %v; want fallback, true", got, ok)
	}
}

func TestTablesAreIndependent(t *testing.T) {
	a := DefaultTables()
	b := DefaultTables()
	a.Images.Register(".webp", "webp")

	if got := b.Images.Resolve("x.webp"); got != "" {
		t.Errorf("tables share state: got %q", got)
	}
	if got := a.Images.Resolve("x.JPG"); got != ImageJPEG {
		t.Errorf("Images.Resolve(x.JPG) = %q, want %q", got, ImageJPEG)
	}
}

func TestImageExt(t *testing.T) {
	if got := ImageExt(ImageJPEG); got != "jpg" {
		t.Errorf("ImageExt(jpeg) = %q", got)
	}
	if got := ImageExt(ImagePNG); got != "png" {
		t.Errorf("ImageExt(png) = %q", got)
	}
}

func TestExtensionsFor(t *testing.T) {
	tables := DefaultTables()

	got := strings.Join(tables.Engines.ExtensionsFor(EngineImage), ",")
	if got != "jpeg,jpg,png" {
		t.Errorf("ExtensionsFor(img) = %q", got)
	}
	got = strings.Join(tables.Styles.ExtensionsFor(StyleCSS), ",")
	if got != "css" {
		t.Errorf("ExtensionsFor(css) = %q, fallback entry should be excluded", got)
	}
}
