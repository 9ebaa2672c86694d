// Package engines assembles the built-in engine registry.
//
// Nothing here is global: callers build a registry with [Registry] and hand
// it to the orchestrator, adding or replacing factories as they see fit.
//
//	reg := engines.Registry(engines.DefaultDeps(logger))
//	reg.Register("img", myFactory) // replaces the raster engine
package engines

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/spriteflow/pkg/engine"
	"github.com/matzehuels/spriteflow/pkg/engine/raster"
	"github.com/matzehuels/spriteflow/pkg/engine/vector"
	"github.com/matzehuels/spriteflow/pkg/format"
	"github.com/matzehuels/spriteflow/pkg/pack"
	"github.com/matzehuels/spriteflow/pkg/style"
)

// Deps are the backends shared by the built-in engines.
type Deps = raster.Deps

// DefaultDeps wires the imaging packer, the template renderer and the
// default format tables.
func DefaultDeps(logger *log.Logger) Deps {
	return Deps{
		Packers:  map[string]pack.Packer{raster.DefaultBackend: pack.NewImagingPacker()},
		Renderer: style.NewTemplates(),
		Tables:   format.DefaultTables(),
		Logger:   logger,
	}
}

// Registry returns a registry with the raster engine under "img" and the
// vector engine under "svg".
func Registry(deps Deps) *engine.Registry {
	r := engine.NewRegistry()
	r.Register(format.EngineImage, raster.NewFactory(deps))
	r.Register(format.EngineVector, vector.NewFactory())
	return r
}
