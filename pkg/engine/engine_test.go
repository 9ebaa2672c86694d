package engine

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/matzehuels/spriteflow/pkg/asset"
	"github.com/matzehuels/spriteflow/pkg/format"
)

func TestFlowKey(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{"empty prefix collapses", Options{Engine: "img", Name: "sprites"}, "img/sprites"},
		{"with prefix", Options{Engine: "img", RelativePrefix: "../img", Name: "icons"}, "img/../img/icons"},
		{"trailing slash prefix", Options{Engine: "img", RelativePrefix: "assets/", Name: "icons"}, "img/assets/icons"},
		{"root prefix", Options{Engine: "img", RelativePrefix: "/", Name: "sprites"}, "img//sprites"},
		{"vector", Options{Engine: "svg", Name: "logos"}, "svg/logos"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FlowKey(tt.opts); got != tt.want {
				t.Errorf("FlowKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFlowKeyDistinguishesArtifacts(t *testing.T) {
	a := FlowKey(Options{Engine: "img", Name: "a"})
	b := FlowKey(Options{Engine: "img", Name: "b"})
	c := FlowKey(Options{Engine: "svg", Name: "a"})
	d := FlowKey(Options{Engine: "img", RelativePrefix: "/", Name: "a"})
	keys := map[string]bool{a: true, b: true, c: true, d: true}
	if len(keys) != 4 {
		t.Errorf("keys collide: %q %q %q %q", a, b, c, d)
	}
}

func TestMergeShallowPerSubObject(t *testing.T) {
	base := Options{
		Name:  "sprites",
		Image: ImageOptions{Name: "base.png", Padding: 2, Algorithm: "top-down"},
		Style: StyleOptions{Format: "scss"},
	}
	override := Options{
		Image: ImageOptions{Padding: 4},
		Style: StyleOptions{Name: "icons.less"},
	}

	got := Merge(base, override)
	want := Options{
		Name:  "sprites",
		Image: ImageOptions{Name: "base.png", Padding: 4, Algorithm: "top-down"},
		Style: StyleOptions{Name: "icons.less", Format: "scss"},
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(Options{}, "Hook")); diff != "" {
		t.Errorf("Merge mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeZeroOverrideKeepsBase(t *testing.T) {
	base := Options{Image: ImageOptions{Padding: 4, Quality: 80}}
	got := Merge(base, Options{Image: ImageOptions{Padding: 0, Quality: 0}})
	if got.Image.Padding != 4 || got.Image.Quality != 80 {
		t.Errorf("zero override changed base: %+v", got.Image)
	}
}

func TestResolveDefaults(t *testing.T) {
	tables := format.DefaultTables()

	got := Resolve(asset.NewFile("icons/HOME.PNG", nil), tables, nil)
	if got.Name != DefaultName || got.Engine != format.EngineImage || got.RelativePrefix != "" {
		t.Errorf("Resolve() = %+v", got)
	}
	if got.FlowKey != "img/sprites" {
		t.Errorf("FlowKey = %q, want img/sprites", got.FlowKey)
	}
	if got.Hook == nil {
		t.Fatal("default hook should be set")
	}

	var c asset.Collector
	if err := got.Hook(context.Background(), asset.NewFile("x.png", nil), &c); err != nil {
		t.Fatal(err)
	}
	if len(c.Files()) != 0 {
		t.Error("default hook should drop the source file")
	}
}

func TestResolveOverrides(t *testing.T) {
	tables := format.DefaultTables()

	byDir := ProviderFunc(func(f *asset.File) Options {
		if f.Ext() == "jpg" {
			return Options{Name: "photos", Hook: PassThrough}
		}
		return Options{}
	})

	got := Resolve(asset.NewFile("a.jpg", nil), tables, byDir)
	if got.FlowKey != "img/photos" {
		t.Errorf("FlowKey = %q, want img/photos", got.FlowKey)
	}

	var c asset.Collector
	if err := got.Hook(context.Background(), asset.NewFile("a.jpg", nil), &c); err != nil {
		t.Fatal(err)
	}
	if len(c.Files()) != 1 {
		t.Error("PassThrough should forward the file")
	}

	explicit := Resolve(asset.NewFile("a.png", nil), tables, Static(Options{FlowKey: "custom"}))
	if explicit.FlowKey != "custom" {
		t.Errorf("explicit FlowKey = %q, want custom", explicit.FlowKey)
	}

	unknown := Resolve(asset.NewFile("notes.txt", nil), tables, nil)
	if unknown.Engine != "" {
		t.Errorf("unknown extension engine = %q, want empty", unknown.Engine)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	if _, ok := r.Lookup("img"); ok {
		t.Error("empty registry should miss")
	}

	calls := ""
	r.Register("img", func(Options) (Engine, error) { calls += "first"; return nil, nil })
	r.Register("img", func(Options) (Engine, error) { calls += "second"; return nil, nil })
	r.Register("svg", func(Options) (Engine, error) { return nil, nil })

	f, ok := r.Lookup("img")
	if !ok {
		t.Fatal("Lookup(img) missed")
	}
	_, _ = f(Options{})
	if calls != "second" {
		t.Errorf("last registration should win, called %q", calls)
	}

	if diff := cmp.Diff([]string{"img", "svg"}, r.Names()); diff != "" {
		t.Errorf("Names mismatch (-want +got):\n%s", diff)
	}
}
