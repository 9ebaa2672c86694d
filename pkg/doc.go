// Package pkg provides the core libraries for spriteflow.
//
// # Overview
//
// spriteflow groups a stream of image files into flows and turns each flow
// into a spritesheet image plus a stylesheet describing where every sprite
// sits. The pkg directory is organized into three areas:
//
//  1. Domain - [asset], [format], [engine] and its engines, [pack], [style]
//  2. Orchestration - [flow]
//  3. Support - [config], [errors], [observability], [buildinfo]
//
// # Architecture
//
// The data flow through spriteflow:
//
//	source files
//	     ↓
//	[engine.Resolve] (per-file options, flow key)
//	     ↓
//	[flow] package (bucket files into flows, first-seen order)
//	     ↓
//	[engine.Engine] per flow (raster packs, vector is a stub)
//	     ↓
//	spritesheet image + stylesheet
//
// # Quick Start
//
//	files, _ := asset.ReadFiles(ctx, []string{"icons/home.png", "icons/user.png"})
//
//	o := flow.New(flow.Config{
//	    Provider: engine.Static(engine.Options{Name: "icons"}),
//	})
//
//	var out asset.Collector
//	if err := o.Process(ctx, files, &out); err != nil {
//	    // out still holds the artifacts of flows that finished
//	}
//	asset.WriteFiles("dist", out.Files())
//
// # Main Packages
//
// [format] - Extension tables mapping file names to engines, image formats
// and stylesheet formats. Lookups are case-insensitive.
//
// [engine] - The Engine contract, the name-to-factory Registry, option
// layering and flow keys. The raster and vector subpackages hold the two
// engines; engines.Registry wires both.
//
// [pack] - Layout algorithms and the imaging-backed compositor.
//
// [style] - Sprite sheet model and the CSS, SCSS, Sass, Less, Stylus and
// JSON renderers.
//
// [flow] - The orchestrator: a per-item phase that buckets files and a flush
// phase that drives every flow sequentially.
//
// [config] - TOML and YAML rule files layered on top of the defaults.
//
// # Testing
//
//	go test ./pkg/...
//
// [asset]: https://pkg.go.dev/github.com/matzehuels/spriteflow/pkg/asset
// [format]: https://pkg.go.dev/github.com/matzehuels/spriteflow/pkg/format
// [engine]: https://pkg.go.dev/github.com/matzehuels/spriteflow/pkg/engine
// [engine.Resolve]: https://pkg.go.dev/github.com/matzehuels/spriteflow/pkg/engine#Resolve
// [engine.Engine]: https://pkg.go.dev/github.com/matzehuels/spriteflow/pkg/engine#Engine
// [pack]: https://pkg.go.dev/github.com/matzehuels/spriteflow/pkg/pack
// [style]: https://pkg.go.dev/github.com/matzehuels/spriteflow/pkg/style
// [flow]: https://pkg.go.dev/github.com/matzehuels/spriteflow/pkg/flow
// [config]: https://pkg.go.dev/github.com/matzehuels/spriteflow/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/spriteflow/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/spriteflow/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/spriteflow/pkg/buildinfo
package pkg
