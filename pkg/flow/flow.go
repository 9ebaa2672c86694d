// Package flow groups a stream of source files into flows and drives each
// flow's engine to completion.
//
// # Phases
//
// The orchestrator is a two-phase stream transform:
//
//   - Per-item ([Orchestrator.Transform]): resolve the file's options,
//     create the flow on first sight, add the file to the flow's engine and
//     run the file's hook. An engine that is not registered fails the stream
//     with errors.ErrCodeConfiguration.
//   - End of input ([Orchestrator.Flush]): build every flow's spritesheet one
//     at a time in first-seen order, stopping at the first failure.
//
// Artifacts from flows that finished before a failure stay emitted.
//
// # Usage
//
//	o := flow.New(flow.Config{Provider: engine.Static(opts), Logger: logger})
//	err := o.Run(ctx, in, out) // closes out when done
package flow

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/spriteflow/pkg/asset"
	"github.com/matzehuels/spriteflow/pkg/engine"
	"github.com/matzehuels/spriteflow/pkg/engine/engines"
	"github.com/matzehuels/spriteflow/pkg/errors"
	"github.com/matzehuels/spriteflow/pkg/format"
	"github.com/matzehuels/spriteflow/pkg/observability"
)

// Config configures an Orchestrator. Zero values get defaults.
type Config struct {
	Registry *engine.Registry        // default: engines.Registry(engines.DefaultDeps(Logger))
	Tables   *format.Tables          // default: format.DefaultTables()
	Provider engine.Provider         // caller options layer, may be nil
	Logger   *log.Logger             // default: discard
	Hooks    observability.FlowHooks // default: observability.NoopFlowHooks
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.Logger == nil {
		c.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if c.Tables == nil {
		c.Tables = format.DefaultTables()
	}
	if c.Registry == nil {
		deps := engines.DefaultDeps(c.Logger)
		deps.Tables = c.Tables
		c.Registry = engines.Registry(deps)
	}
	if c.Hooks == nil {
		c.Hooks = observability.NoopFlowHooks{}
	}
}

type flowState struct {
	key    string
	engine string // engine name of the first file
	eng    engine.Engine
	items  int
}

// Orchestrator buckets files into flows. It is single-use: one stream of
// Transform calls followed by one Flush. Methods must not be called
// concurrently.
type Orchestrator struct {
	cfg     Config
	flows   map[string]*flowState
	order   []string
	flushed bool
}

// New creates an Orchestrator.
func New(cfg Config) *Orchestrator {
	cfg.SetDefaults()
	return &Orchestrator{
		cfg:   cfg,
		flows: make(map[string]*flowState),
	}
}

// Flows returns the flow keys in first-seen order.
func (o *Orchestrator) Flows() []string {
	out := make([]string, len(o.order))
	copy(out, o.order)
	return out
}

// Transform runs the per-item phase for f. Anything the file's hook forwards
// is pushed to out.
func (o *Orchestrator) Transform(ctx context.Context, f *asset.File, out asset.Sink) error {
	if o.flushed {
		return errors.New(errors.ErrCodeInternal, "transform after flush: %s", f.Path)
	}
	opts := engine.Resolve(f, o.cfg.Tables, o.cfg.Provider)

	fl, ok := o.flows[opts.FlowKey]
	if !ok {
		var err error
		if fl, err = o.create(ctx, opts); err != nil {
			return err
		}
	} else if opts.Engine != fl.engine {
		o.cfg.Logger.Warn("engine mismatch, file joins existing flow",
			"flow", fl.key,
			"engine", fl.engine,
			"declared", opts.Engine,
			"file", f.Path)
	}

	fl.eng.AddItem(f)
	fl.items++

	if opts.Hook == nil {
		return nil
	}
	return opts.Hook(ctx, f, out)
}

func (o *Orchestrator) create(ctx context.Context, opts engine.Options) (*flowState, error) {
	factory, ok := o.cfg.Registry.Lookup(opts.Engine)
	if !ok {
		return nil, errors.New(errors.ErrCodeConfiguration,
			"no engine registered as %q (flow %s)", opts.Engine, opts.FlowKey)
	}
	eng, err := factory(opts)
	if err != nil {
		if errors.GetCode(err) == errors.ErrCodeConfiguration {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeConfiguration, err, "create engine %q for flow %s", opts.Engine, opts.FlowKey)
	}

	fl := &flowState{key: opts.FlowKey, engine: opts.Engine, eng: eng}
	o.flows[fl.key] = fl
	o.order = append(o.order, fl.key)
	o.cfg.Hooks.OnFlowCreated(ctx, fl.key, fl.engine)
	return fl, nil
}

// Flush runs the end-of-input phase: each flow's spritesheet is built in
// first-seen order, one after another. The first error stops the remaining
// flows and is returned.
func (o *Orchestrator) Flush(ctx context.Context, out asset.Sink) error {
	if o.flushed {
		return errors.New(errors.ErrCodeInternal, "orchestrator already flushed")
	}
	o.flushed = true

	for _, key := range o.order {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := o.flush(ctx, o.flows[key], out); err != nil {
			return err
		}
	}
	return nil
}

func (o *Orchestrator) flush(ctx context.Context, fl *flowState, out asset.Sink) error {
	o.cfg.Hooks.OnFlowStart(ctx, fl.key, fl.items)
	start := time.Now()

	counted := &countingSink{next: out}
	err := fl.eng.CreateSpritesheet(ctx, counted)

	o.cfg.Hooks.OnFlowComplete(ctx, fl.key, counted.n, time.Since(start), err)
	return err
}

// Process transforms every file and then flushes.
func (o *Orchestrator) Process(ctx context.Context, files []*asset.File, out asset.Sink) error {
	for _, f := range files {
		if err := o.Transform(ctx, f, out); err != nil {
			return err
		}
	}
	return o.Flush(ctx, out)
}

// Run is the channel form of the stream. It reads files from in until in is
// closed, flushes, and always closes out before returning. A per-item error
// ends the stream without flushing. Cancelling ctx ends the stream with
// ctx.Err().
func (o *Orchestrator) Run(ctx context.Context, in <-chan *asset.File, out chan<- *asset.File) error {
	defer close(out)
	sink := asset.ChanSink(out)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f, ok := <-in:
			if !ok {
				return o.Flush(ctx, sink)
			}
			if err := o.Transform(ctx, f, sink); err != nil {
				return err
			}
		}
	}
}

type countingSink struct {
	next asset.Sink
	n    int
}

func (s *countingSink) Push(ctx context.Context, f *asset.File) error {
	if err := s.next.Push(ctx, f); err != nil {
		return err
	}
	s.n++
	return nil
}
