// Package engine defines packing engines and the registry that selects them.
//
// An [Engine] owns one flow: it buffers the flow's source files through
// AddItem and, once input ends, turns them into output artifacts with
// CreateSpritesheet. Engines are constructed by a [Factory] looked up by name
// in a [Registry]; the built-in variants live in the raster and vector
// subpackages and are assembled by engines.Registry.
//
// This package also owns the per-file option layers ([Options], [Merge],
// [Provider]) and [FlowKey], which buckets files into flows.
package engine

import (
	"context"
	"sort"
	"strings"

	"github.com/matzehuels/spriteflow/pkg/asset"
)

// Engine packs the files of a single flow.
//
// AddItem is called zero or more times in arrival order, then
// CreateSpritesheet exactly once. An engine is never reused after
// CreateSpritesheet returns.
type Engine interface {
	AddItem(f *asset.File)
	CreateSpritesheet(ctx context.Context, out asset.Sink) error
}

// Factory constructs the engine for a new flow from the options resolved for
// its first file.
type Factory func(opts Options) (Engine, error)

// Registry maps engine names to factories. Register during setup; lookups
// during a run are read-only.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register stores f under name. A later registration under the same name
// replaces the earlier one.
func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

// Lookup returns the factory registered under name.
func (r *Registry) Lookup(name string) (Factory, bool) {
	f, ok := r.factories[name]
	return f, ok
}

// Names returns the registered engine names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FlowKey derives the flow identifier from resolved options: engine,
// relative prefix and name joined with "/". Only the first "//" is collapsed,
// which removes the gap an empty prefix leaves; other separators in the
// prefix are kept so distinct prefixes stay distinct.
func FlowKey(opts Options) string {
	key := strings.Join([]string{opts.Engine, opts.RelativePrefix, opts.Name}, "/")
	return strings.Replace(key, "//", "/", 1)
}
