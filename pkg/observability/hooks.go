// Package observability provides hooks for metrics, tracing, and logging.
//
// Instrumentation is optional and backend-agnostic. The orchestrator calls a
// [FlowHooks] value passed in its configuration; nothing is registered
// globally, so two orchestrators in one process can report to different
// backends.
//
// # Usage
//
//	hooks := observability.Multi(observability.NewLogHooks(logger), myMetrics)
//	orch := flow.New(flow.Config{Hooks: hooks})
package observability

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// =============================================================================
// Flow Hooks
// =============================================================================

// FlowHooks receives events from the flow orchestrator.
type FlowHooks interface {
	// OnFlowCreated fires when the first file of a new flow arrives.
	OnFlowCreated(ctx context.Context, key, engine string)

	// OnFlowStart fires when a flow begins building its spritesheet.
	OnFlowStart(ctx context.Context, key string, items int)

	// OnFlowComplete fires when a flow finishes, successfully or not.
	OnFlowComplete(ctx context.Context, key string, artifacts int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementation
// =============================================================================

// NoopFlowHooks is a no-op implementation of FlowHooks.
type NoopFlowHooks struct{}

func (NoopFlowHooks) OnFlowCreated(context.Context, string, string)                     {}
func (NoopFlowHooks) OnFlowStart(context.Context, string, int)                          {}
func (NoopFlowHooks) OnFlowComplete(context.Context, string, int, time.Duration, error) {}

// =============================================================================
// Log Implementation
// =============================================================================

// LogHooks reports flow events to a charmbracelet logger.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks creates hooks that log to logger. A nil logger discards output.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnFlowCreated(_ context.Context, key, engine string) {
	h.logger.Debug("flow created", "flow", key, "engine", engine)
}

func (h *LogHooks) OnFlowStart(_ context.Context, key string, items int) {
	h.logger.Debug("building spritesheet", "flow", key, "items", items)
}

func (h *LogHooks) OnFlowComplete(_ context.Context, key string, artifacts int, d time.Duration, err error) {
	if err != nil {
		h.logger.Error("flow failed", "flow", key, "duration", d.Round(time.Millisecond), "error", err)
		return
	}
	h.logger.Info("flow complete", "flow", key, "artifacts", artifacts, "duration", d.Round(time.Millisecond))
}

// =============================================================================
// Fan-out
// =============================================================================

type multiHooks []FlowHooks

// Multi returns hooks that forward every event to each non-nil h in order.
func Multi(hooks ...FlowHooks) FlowHooks {
	var m multiHooks
	for _, h := range hooks {
		if h != nil {
			m = append(m, h)
		}
	}
	switch len(m) {
	case 0:
		return NoopFlowHooks{}
	case 1:
		return m[0]
	}
	return m
}

func (m multiHooks) OnFlowCreated(ctx context.Context, key, engine string) {
	for _, h := range m {
		h.OnFlowCreated(ctx, key, engine)
	}
}

func (m multiHooks) OnFlowStart(ctx context.Context, key string, items int) {
	for _, h := range m {
		h.OnFlowStart(ctx, key, items)
	}
}

func (m multiHooks) OnFlowComplete(ctx context.Context, key string, artifacts int, d time.Duration, err error) {
	for _, h := range m {
		h.OnFlowComplete(ctx, key, artifacts, d, err)
	}
}

var (
	_ FlowHooks = NoopFlowHooks{}
	_ FlowHooks = (*LogHooks)(nil)
	_ FlowHooks = multiHooks(nil)
)
