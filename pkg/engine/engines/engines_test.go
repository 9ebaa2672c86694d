package engines

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/spriteflow/pkg/asset"
	"github.com/matzehuels/spriteflow/pkg/engine"
	"github.com/matzehuels/spriteflow/pkg/errors"
)

func TestRegistryBuiltins(t *testing.T) {
	r := Registry(DefaultDeps(nil))
	if diff := cmp.Diff([]string{"img", "svg"}, r.Names()); diff != "" {
		t.Errorf("Names mismatch (-want +got):\n%s", diff)
	}

	svg, ok := r.Lookup("svg")
	if !ok {
		t.Fatal("svg engine missing")
	}
	e, err := svg(engine.Options{Name: "logos", FlowKey: "svg/logos"})
	if err != nil {
		t.Fatal(err)
	}
	if err := e.CreateSpritesheet(context.Background(), &asset.Collector{}); !errors.Is(err, errors.ErrCodeNotImplemented) {
		t.Errorf("svg error = %v, want NOT_IMPLEMENTED", err)
	}
}

func TestRegistryRasterBackend(t *testing.T) {
	r := Registry(DefaultDeps(nil))
	img, _ := r.Lookup("img")

	if _, err := img(engine.Options{Name: "sprites", FlowKey: "img/sprites"}); err != nil {
		t.Errorf("default backend: %v", err)
	}
	_, err := img(engine.Options{Name: "sprites", Image: engine.ImageOptions{Backend: "pixelsmith"}})
	if !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("unknown backend error = %v, want CONFIGURATION", err)
	}
}
