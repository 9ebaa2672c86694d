// Package vector holds the SVG engine. Packing SVG sources is not supported:
// the engine accepts files but never produces a spritesheet.
package vector

import (
	"context"

	"github.com/matzehuels/spriteflow/pkg/asset"
	"github.com/matzehuels/spriteflow/pkg/engine"
	"github.com/matzehuels/spriteflow/pkg/errors"
)

// Engine is the SVG engine.
type Engine struct {
	opts engine.Options
}

// New creates an SVG engine. It never fails.
func New(opts engine.Options) *Engine {
	return &Engine{opts: opts}
}

// NewFactory returns the engine.Factory for SVG flows.
func NewFactory() engine.Factory {
	return func(opts engine.Options) (engine.Engine, error) {
		return New(opts), nil
	}
}

// AddItem ignores f.
func (e *Engine) AddItem(*asset.File) {}

// CreateSpritesheet always fails with ErrCodeNotImplemented and emits nothing.
func (e *Engine) CreateSpritesheet(context.Context, asset.Sink) error {
	return errors.New(errors.ErrCodeNotImplemented, "svg engine is not implemented yet (flow %s)", e.opts.FlowKey)
}

var _ engine.Engine = (*Engine)(nil)
