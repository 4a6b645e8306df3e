// Package ai turns a single streaming generation into a structured,
// consumable event stream that also drives on-the-fly invocation of
// caller-supplied tools. Most applications interact with this package by:
//  1. Building a tool.Registry (optional) and picking a model.Model provider
//  2. Calling StreamText and consuming the returned result through its text
//     or full-event view (or streaming it out as Server-Sent Events)
//  3. Or calling GenerateText for a drained, non-streaming convenience result
//
// The package itself performs no buffering and keeps no state across
// requests: it derives tool declarations, validates settings, normalizes the
// prompt, invokes the model capability exactly once and wires its raw delta
// stream into the stream transformer.
package ai

import (
	"context"
	"fmt"

	"github.com/jferrettiboke/ai/core"
	"github.com/jferrettiboke/ai/logging"
	"github.com/jferrettiboke/ai/model"
	"github.com/jferrettiboke/ai/stream"
	"github.com/jferrettiboke/ai/tool"
)

// StreamTextParams carries the caller input for one generation request.
type StreamTextParams struct {
	// Model is the generation capability. Required.
	Model model.Model
	// Tools the model may invoke mid-generation. Optional.
	Tools *tool.Registry
	// System frames the conversation; prepended as a system message when set.
	System string
	// Prompt is a plain user prompt. Mutually exclusive with Messages.
	Prompt string
	// Messages is a pre-built conversation. Mutually exclusive with Prompt.
	Messages []core.Message
	// Settings holds generation parameters, validated before the model is invoked.
	Settings model.Settings
	// MaxParallelTools caps concurrently running tool executions. 0 means no limit.
	MaxParallelTools int
	// Logger receives diagnostics and the text view's error-part reports.
	// Defaults to a no-op logger.
	Logger logging.Logger
}

// StreamText starts one streaming generation and returns its result views.
// Setup failures (invalid settings, malformed prompt input, a failing
// provider call) are returned synchronously; nothing has been streamed when
// the error is non-nil. After that, all faults travel as error parts inside
// the stream.
func StreamText(ctx context.Context, params StreamTextParams) (*stream.Result, error) {
	if params.Model == nil {
		return nil, fmt.Errorf("model is required")
	}
	logger := params.Logger
	if logger == nil {
		logger = logging.NoOpLogger{}
	}

	if err := params.Settings.Validate(); err != nil {
		return nil, err
	}

	messages, err := normalizeMessages(params)
	if err != nil {
		return nil, err
	}

	resp, err := params.Model.Generate(ctx, model.Request{
		Messages: messages,
		Tools:    ToolDeclarations(params.Tools),
		Settings: params.Settings,
	})
	if err != nil {
		return nil, fmt.Errorf("model generate: %w", err)
	}

	parts := stream.Transform(ctx, resp, params.Tools, func(o *stream.TransformOptions) {
		o.MaxParallelTools = params.MaxParallelTools
		o.Logger = logger
	})

	result := stream.NewResult(parts, func(o *stream.ResultOptions) {
		o.Logger = logger
	})
	result.SetWarnings(resp.Warnings)
	return result, nil
}

// ToolDeclarations derives the declaration list for every registered tool.
// Declarations are emitted in lexical name order, so deriving twice from the
// same registry yields identical lists.
func ToolDeclarations(registry *tool.Registry) []model.ToolDefinition {
	if registry.Len() == 0 {
		return nil
	}
	defs := make([]model.ToolDefinition, 0, registry.Len())
	for _, name := range registry.Names() {
		t, _ := registry.Get(name)
		defs = append(defs, model.ToolDefinition{
			Type: "function",
			Function: model.FunctionDefinition{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.Parameters(),
			},
		})
	}
	return defs
}

// normalizeMessages converts the caller's prompt input into the model's
// message representation.
func normalizeMessages(params StreamTextParams) ([]core.Message, error) {
	if params.Prompt != "" && len(params.Messages) > 0 {
		return nil, fmt.Errorf("prompt and messages are mutually exclusive")
	}
	if params.Prompt == "" && len(params.Messages) == 0 {
		return nil, fmt.Errorf("prompt or messages required")
	}

	var messages []core.Message
	if params.System != "" {
		messages = append(messages, core.Message{Role: core.RoleSystem, Content: params.System})
	}
	if params.Prompt != "" {
		return append(messages, core.Message{Role: core.RoleUser, Content: params.Prompt}), nil
	}
	for _, msg := range params.Messages {
		switch msg.Role {
		case core.RoleSystem, core.RoleUser, core.RoleAssistant:
		default:
			return nil, fmt.Errorf("unsupported message role %q", msg.Role)
		}
		messages = append(messages, msg)
	}
	return messages, nil
}
