package engine

import (
	"github.com/matzehuels/spriteflow/pkg/asset"
	"github.com/matzehuels/spriteflow/pkg/format"
)

// Defaults returns the system layer for f: the default name, the engine
// picked by extension and the drop-file hook.
func Defaults(f *asset.File, tables *format.Tables) Options {
	return Options{
		Name:   DefaultName,
		Engine: tables.Engines.Resolve(f.Path),
		Hook:   DropFile,
	}
}

// Resolve computes the options for f: system defaults, then the provider's
// layer, then the derived flow key when none was given.
func Resolve(f *asset.File, tables *format.Tables, p Provider) Options {
	opts := Defaults(f, tables)
	if p != nil {
		opts = Merge(opts, p.OptionsFor(f))
	}
	if opts.FlowKey == "" {
		opts.FlowKey = FlowKey(opts)
	}
	return opts
}
