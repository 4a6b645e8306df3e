package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"

	"github.com/jferrettiboke/ai/core"
	"github.com/jferrettiboke/ai/internal/util"
	"github.com/jferrettiboke/ai/logging"
	"github.com/jferrettiboke/ai/model"
	"github.com/jferrettiboke/ai/tool"
)

// TransformOptions configures the delta transformation.
type TransformOptions struct {
	// MaxParallelTools limits concurrently running tool executions.
	// 0 or negative means no explicit limit.
	MaxParallelTools int
	// Logger receives diagnostic lines for tool dispatch and execution.
	Logger logging.Logger
}

// Transform consumes the raw delta stream of one generation and produces the
// typed part sequence, executing registered tools as their calls are
// recognized.
//
// Contract:
//   - Text fragments are relayed in strict source order, unchanged (empty
//     fragments included; filtering belongs to the views).
//   - A tool call is emitted as a ToolCallPart the moment it is recognized,
//     then its execution is launched without blocking further relay.
//   - Exactly one ToolResultPart or ErrorPart is produced per ToolCallPart,
//     correlated by ToolCallID. Results are delivered in completion order,
//     which may differ from call order when several tools are in flight; this
//     is a documented contract, not a defect.
//   - An unknown tool name, a malformed argument payload or a schema
//     violation produces an ErrorPart in place of a result; the stream
//     continues.
//   - A source fault produces one uncorrelated ErrorPart; no further deltas
//     follow it, and the sequence ends once in-flight executions resolve.
//   - The returned channel closes only after the source is exhausted and
//     every launched execution has resolved.
//
// The returned channel is unbuffered: nothing is computed further than one
// part ahead of the consumer. Cancelling ctx releases the transformation and
// any in-flight tool executions without waiting for bookkeeping.
func Transform(
	ctx context.Context,
	src *model.Response,
	registry *tool.Registry,
	optFns ...func(o *TransformOptions),
) <-chan core.StreamPart {
	opts := TransformOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	out := make(chan core.StreamPart)

	go func() {
		defer close(out)
		newTransformer(src, registry, opts).run(ctx, out)
	}()

	return out
}

// transformer holds the per-request state of one running transformation.
type transformer struct {
	src         *model.Response
	registry    *tool.Registry
	opts        TransformOptions
	completions chan core.StreamPart
	sem         chan struct{}
	pending     int
}

func newTransformer(src *model.Response, registry *tool.Registry, opts TransformOptions) *transformer {
	t := &transformer{
		src:         src,
		registry:    registry,
		opts:        opts,
		completions: make(chan core.StreamPart),
	}
	if opts.MaxParallelTools > 0 {
		t.sem = make(chan struct{}, opts.MaxParallelTools)
	}
	return t
}

func (t *transformer) run(ctx context.Context, out chan<- core.StreamPart) {
	srcCh := t.src.Stream

	for srcCh != nil || t.pending > 0 {
		if srcCh == nil {
			// Source drained; only completions remain.
			select {
			case <-ctx.Done():
				return
			case part := <-t.completions:
				t.pending--
				if !emit(ctx, out, part) {
					return
				}
			}
			continue
		}

		select {
		case <-ctx.Done():
			return
		case delta, ok := <-srcCh:
			if !ok {
				srcCh = nil
				continue
			}
			if !t.handleDelta(ctx, out, delta) {
				return
			}
			// A source fault terminates the sequence; stop reading even if a
			// non-conforming provider keeps streaming past it.
			if _, failed := delta.(model.ErrorDelta); failed {
				srcCh = nil
			}
		case part := <-t.completions:
			t.pending--
			if !emit(ctx, out, part) {
				return
			}
		}
	}
}

// handleDelta relays one raw delta, launching tool executions as calls are
// recognized. Returns false when the consumer is gone.
func (t *transformer) handleDelta(ctx context.Context, out chan<- core.StreamPart, delta model.Delta) bool {
	switch d := delta.(type) {
	case model.TextDelta:
		return emit(ctx, out, core.TextDeltaPart{Text: d.Text})

	case model.ToolCallDelta:
		args, argsErr := decodeArguments(d.Arguments)
		callPart := core.ToolCallPart{
			ToolCallID: d.ToolCallID,
			ToolName:   d.ToolName,
			Arguments:  args,
		}
		if !emit(ctx, out, callPart) {
			return false
		}

		if dispatchErr := t.checkDispatch(callPart, argsErr); dispatchErr != nil {
			t.opts.Logger.Warn("stream.tool.dispatch_failed",
				"tool", d.ToolName, "tool_call_id", d.ToolCallID, "error", dispatchErr.Error())
			return emit(ctx, out, core.ErrorPart{
				ToolCallID: d.ToolCallID,
				ToolName:   d.ToolName,
				Err:        dispatchErr,
			})
		}

		t.launch(ctx, callPart)
		return true

	case model.ErrorDelta:
		t.opts.Logger.Error("stream.source_error", "error", d.Err.Error())
		return emit(ctx, out, core.ErrorPart{Err: d.Err})

	default:
		return emit(ctx, out, core.ErrorPart{Err: fmt.Errorf("unknown delta type %T", delta)})
	}
}

// checkDispatch validates that a recognized tool call can be executed at all:
// the tool must exist and the arguments must decode and conform to its schema.
func (t *transformer) checkDispatch(call core.ToolCallPart, argsErr error) error {
	impl, ok := t.registry.Get(call.ToolName)
	if !ok {
		return tool.NewToolError(call.ToolName, "tool not found in registry", tool.CodeNotFound)
	}
	if argsErr != nil {
		return &tool.ToolError{
			Tool:    call.ToolName,
			Message: fmt.Sprintf("malformed argument payload: %v", argsErr),
			Code:    tool.CodeBadPayload,
		}
	}
	if err := util.ValidateParameters(call.Arguments, impl.Parameters()); err != nil {
		return &tool.ToolError{
			Tool:    call.ToolName,
			Message: fmt.Sprintf("parameter validation failed: %v", err),
			Code:    tool.CodeValidation,
			Details: err,
		}
	}
	return nil
}

// launch starts one tool execution. The completion is delivered to the main
// loop through the completions channel, so results interleave with continued
// relay of source deltas in whatever order executions finish.
func (t *transformer) launch(ctx context.Context, call core.ToolCallPart) {
	impl, _ := t.registry.Get(call.ToolName)
	t.pending++

	go func() {
		if t.sem != nil {
			select {
			case t.sem <- struct{}{}:
				defer func() { <-t.sem }()
			case <-ctx.Done():
				return
			}
		}

		var (
			result any
			err    error
		)
		func() { // panic safety
			defer func() {
				if r := recover(); r != nil {
					err = panicError(r)
					t.opts.Logger.Error("stream.tool.panic",
						"tool", call.ToolName, "tool_call_id", call.ToolCallID, "recover", r)
				}
			}()
			result, err = impl.Execute(ctx, call.Arguments)
		}()

		var part core.StreamPart
		if err != nil {
			t.opts.Logger.Error("stream.tool.failed",
				"tool", call.ToolName, "tool_call_id", call.ToolCallID, "error", err.Error())
			part = core.ErrorPart{ToolCallID: call.ToolCallID, ToolName: call.ToolName, Err: err}
		} else {
			t.opts.Logger.Debug("stream.tool.executed",
				"tool", call.ToolName, "tool_call_id", call.ToolCallID)
			part = core.ToolResultPart{
				ToolCallID: call.ToolCallID,
				ToolName:   call.ToolName,
				Result:     result,
			}
		}

		select {
		case <-ctx.Done():
		case t.completions <- part:
		}
	}()
}

// decodeArguments parses the serialized tool call payload. An empty payload
// decodes to an empty argument map.
func decodeArguments(raw string) (map[string]any, error) {
	if raw == "" {
		return map[string]any{}, nil
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, err
	}
	return args, nil
}

func emit(ctx context.Context, out chan<- core.StreamPart, part core.StreamPart) bool {
	select {
	case <-ctx.Done():
		return false
	case out <- part:
		return true
	}
}

// panicError converts a recovered panic value to an error.
func panicError(r any) error { return &panicErr{val: r, stack: debug.Stack()} }

type panicErr struct {
	val   any
	stack []byte
}

func (p *panicErr) Error() string { return fmt.Sprintf("panic recovered: %v", p.val) }
